// Package orchestrator owns the panel slots and enforces that at most one
// primary panel is visible at a time.
//
// Each tick the scheduler passes the classifier's gesture events to
// Dispatch and then calls Tick once. Dispatch opens, pins and commits
// panels; Tick forwards pointer and key input to visible panels, collects
// the result of every panel that closed itself, routes applied results to
// the transform engine or the host bridge, and finally opens the panel
// chosen from the quick menu.
//
// Cancel events are deferred: the active panel is hidden as cancelled at
// the start of the next Tick.
package orchestrator
