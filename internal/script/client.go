package script

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client sends validated requests through a Bridge.
type Client struct {
	bridge    Bridge
	logger    *zap.Logger
	maxResult int
	newID     func() string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMaxResult bounds result strings to n bytes.
func WithMaxResult(n int) ClientOption {
	return func(c *Client) {
		c.maxResult = n
	}
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the given bridge.
func NewClient(b Bridge, opts ...ClientOption) *Client {
	c := &Client{
		bridge:    b,
		logger:    zap.NewNop(),
		maxResult: DefaultMaxResult,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do encodes req, executes it and returns the bounded result.
func (c *Client) Do(ctx context.Context, req Request) (string, error) {
	text, err := Encode(req)
	if err != nil {
		return "", err
	}

	id := c.newID()
	log := c.logger.With(zap.String("op", req.Op()), zap.String("request_id", id))
	log.Debug("executing host script", zap.Int("bytes", len(text)))

	out, err := c.bridge.Execute(ctx, text)
	if err != nil {
		return "", &ExecError{ID: id, Op: req.Op(), Err: err}
	}
	out, truncated := Truncate(out, c.maxResult)
	if truncated {
		log.Warn("host result truncated", zap.Int("max", c.maxResult))
	}
	return out, nil
}

// ReadScene reads the current scene. Any failure is treated as "no data":
// the error is logged and ok is false.
func (c *Client) ReadScene(ctx context.Context) (Scene, bool) {
	out, err := c.Do(ctx, ReadGeometry{})
	if err != nil {
		c.logger.Warn("geometry read failed", zap.Error(err))
		return Scene{}, false
	}
	scene, err := ParseScene(out)
	if err != nil {
		c.logger.Warn("geometry result rejected", zap.Error(err))
		return Scene{}, false
	}
	return scene, true
}

// Write executes a mutating request. Failures are logged and returned but
// never retried. When the request is destructive, a host alert reports the
// failure to the user.
func (c *Client) Write(ctx context.Context, req Request) error {
	_, err := c.Do(ctx, req)
	if err == nil {
		return nil
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		c.logger.Warn("host write rejected before execution", zap.String("op", req.Op()), zap.Error(err))
	} else {
		c.logger.Error("host write failed", zap.String("op", req.Op()), zap.Error(err))
	}

	if d, ok := req.(Destructive); ok && d.Destructive() {
		alert := &Alert{Message: "snapkey: " + err.Error()}
		if _, aerr := c.Do(ctx, alert); aerr != nil {
			c.logger.Error("host alert failed", zap.Error(aerr))
		}
	}
	return err
}
