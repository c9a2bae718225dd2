// Package panel defines the contract between the orchestrator and the
// overlay panels, and the values that cross it.
//
// There is one Slot per panel kind. Grid, Align, Text, Keyframe, Control and
// Layer are primary panels and are mutually exclusive; Menu is exempt.
//
// A panel reports exactly one Result when it goes from visible to hidden,
// either returned by Hide or, when the panel closed itself, by Result. The
// Result is the only thing a panel tells the orchestrator: validation
// failures inside a panel are resolved before it reports Applied.
package panel
