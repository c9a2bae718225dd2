package panel

import (
	"fmt"
	"strings"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
)

// ID identifies a panel slot.
type ID uint8

const (
	Grid ID = iota
	Menu
	Align
	Text
	Keyframe
	Control
	Layer

	numIDs
)

// All lists every panel ID in slot order.
var All = []ID{Grid, Menu, Align, Text, Keyframe, Control, Layer}

var idNames = [...]string{"grid", "menu", "align", "text", "keyframe", "control", "layer"}

// String returns the panel name.
func (id ID) String() string {
	if id < numIDs {
		return idNames[id]
	}
	return fmt.Sprintf("panel(%d)", id)
}

// Valid reports whether id names a known panel.
func (id ID) Valid() bool {
	return id < numIDs
}

// IsPrimary reports whether the panel takes part in mutual exclusion.
func (id ID) IsPrimary() bool {
	return id.Valid() && id != Menu
}

// ParseID parses a panel name (case-insensitive).
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range idNames {
		if n == s {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown panel %q", s)
}

// Panel is implemented by every overlay panel.
type Panel interface {
	// Initialize prepares the panel. It is called once before first use.
	Initialize() error

	// Shutdown releases panel resources.
	Shutdown()

	// Show opens the panel near pos.
	Show(pos mouse.Position)

	// Hide closes the panel and returns its result. The panel commits
	// whatever is currently hovered; hiding a panel that is not visible
	// returns a cancelled result.
	Hide() Result

	// IsVisible reports whether the panel is open.
	IsVisible() bool

	// UpdateHover moves the panel's hover highlight to pos.
	UpdateHover(pos mouse.Position)

	// Result returns the result of a panel that closed itself. It returns
	// the result once; later calls return a cancelled result.
	Result() Result
}

// Clicker is implemented by panels that react to pointer presses. Click
// returns true when the press changed the panel in place, leaving it open
// with nothing to commit.
type Clicker interface {
	Click(pos mouse.Position, buttons mouse.Button) bool
}

// KeyHandler is implemented by panels that react to typed keys. It returns
// true when the key was consumed.
type KeyHandler interface {
	HandleKey(c key.Chord) bool
}

// Result is returned once when a panel goes from visible to hidden.
type Result struct {
	Cancelled bool
	Applied   bool
	Payload   Payload
}

// Cancelled returns a cancelled result.
func Cancelled() Result {
	return Result{Cancelled: true}
}

// Applied returns an applied result carrying p.
func Applied(p Payload) Result {
	return Result{Applied: true, Payload: p}
}

// Slot holds one panel and the orchestrator's view of it.
type Slot struct {
	ID      ID
	Visible bool
	// Pinned marks a panel that stays open after its gesture ends.
	Pinned bool
	Panel  Panel

	// ViaMenu records that the panel was opened through the quick menu.
	ViaMenu bool
}
