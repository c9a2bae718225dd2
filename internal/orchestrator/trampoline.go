package orchestrator

import (
	"fmt"

	"github.com/dshills/snapkey/internal/panel"
)

// MenuTrampoline carries a quick menu choice from the tick that closed the
// menu to the step of the same tick that opens the chosen panel.
type MenuTrampoline struct {
	opening bool
	target  panel.ID
}

// NoTrampoline is the idle trampoline.
var NoTrampoline = MenuTrampoline{}

// Opening returns a trampoline that opens id.
func Opening(id panel.ID) MenuTrampoline {
	return MenuTrampoline{opening: true, target: id}
}

// Target returns the panel to open and whether there is one.
func (t MenuTrampoline) Target() (panel.ID, bool) {
	return t.target, t.opening
}

// String implements fmt.Stringer.
func (t MenuTrampoline) String() string {
	if !t.opening {
		return "none"
	}
	return fmt.Sprintf("opening(%s)", t.target)
}
