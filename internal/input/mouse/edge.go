package mouse

// EdgeTracker detects fresh button presses across polled samples.
// The zero value is ready to use and treats every button as released.
type EdgeTracker struct {
	prev   Button
	primed bool
}

// Update records the current button state and returns the buttons that
// transitioned from released to pressed since the previous sample.
//
// Buttons already down on the very first sample are not reported, so a
// button held while the tool gains focus never counts as a click.
func (t *EdgeTracker) Update(held Button) Button {
	if !t.primed {
		t.primed = true
		t.prev = held
		return ButtonNone
	}
	pressed := held &^ t.prev
	t.prev = held
	return pressed
}

// Held returns the button state recorded by the last Update.
func (t *EdgeTracker) Held() Button {
	return t.prev
}

// Reset forgets the previous sample. The next Update re-primes the tracker.
func (t *EdgeTracker) Reset() {
	t.prev = ButtonNone
	t.primed = false
}
