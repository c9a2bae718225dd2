package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/script/lua"
)

// loadHost reads a scene document and returns a host driving it.
func loadHost(path string, logger *zap.Logger) (*lua.Host, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	scene, err := lua.LoadScene(data)
	if err != nil {
		return nil, err
	}
	return lua.NewHost(scene, lua.WithLogger(logger.Named("host")))
}

// saveScene writes the full scene document to path.
func saveScene(path string, scene *lua.Scene) error {
	doc, err := scene.JSON(false)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
