package term

import (
	"cmp"
	"slices"
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/input/sampler"
)

// DefaultReleaseAfter is the default release window.
const DefaultReleaseAfter = 650 * time.Millisecond

// Input is a sampler.Sampler fed by terminal events. Sample must be called
// from a single goroutine.
type Input struct {
	releaseAfter time.Duration
	events       chan tcell.Event
	done         chan struct{}
	quit         chan struct{}
	quitOnce     sync.Once
	onResize     func(width, height int)

	down    map[key.Chord]time.Time
	mods    key.Modifier
	modsAt  time.Time
	pointer mouse.Position
	buttons mouse.Button
	focused bool
}

var _ sampler.Sampler = (*Input)(nil)

func newInput(releaseAfter time.Duration) *Input {
	if releaseAfter <= 0 {
		releaseAfter = DefaultReleaseAfter
	}
	return &Input{
		releaseAfter: releaseAfter,
		events:       make(chan tcell.Event, 256),
		done:         make(chan struct{}),
		quit:         make(chan struct{}),
		down:         make(map[key.Chord]time.Time),
		focused:      true,
	}
}

// NewInput starts reading events from screen. The reader stops when the
// screen is finalized or Close is called.
func NewInput(screen tcell.Screen, releaseAfter time.Duration) *Input {
	in := newInput(releaseAfter)
	go in.poll(screen)
	return in
}

func (in *Input) poll(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case in.events <- ev:
		case <-in.done:
			return
		}
	}
}

// Close stops forwarding events.
func (in *Input) Close() {
	select {
	case <-in.done:
	default:
		close(in.done)
	}
}

// Quit is closed when the operator presses Ctrl+C.
func (in *Input) Quit() <-chan struct{} {
	return in.quit
}

// OnResize registers a callback run from Sample when the terminal resizes.
func (in *Input) OnResize(fn func(width, height int)) {
	in.onResize = fn
}

// Sample implements sampler.Sampler.
func (in *Input) Sample(now time.Time) sampler.Sample {
	s := sampler.Sample{Time: now}

drain:
	for {
		select {
		case ev := <-in.events:
			in.handle(ev, now, &s)
		default:
			break drain
		}
	}

	for c, at := range in.down {
		if now.Sub(at) >= in.releaseAfter {
			delete(in.down, c)
		}
	}
	if in.mods != key.ModNone && now.Sub(in.modsAt) >= in.releaseAfter {
		in.mods = key.ModNone
	}

	for c := range in.down {
		s.Down = append(s.Down, c)
	}
	slices.SortFunc(s.Down, func(a, b key.Chord) int {
		return cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.Rune, b.Rune))
	})
	s.Mods = in.mods
	s.Pointer = in.pointer
	s.Buttons = in.buttons
	s.Focused = in.focused
	return s
}

func (in *Input) handle(ev tcell.Event, now time.Time, s *sampler.Sample) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			in.quitOnce.Do(func() { close(in.quit) })
			return
		}
		c, ok := chordOf(e)
		if !ok {
			return
		}
		in.down[key.Chord{Key: c.Key, Rune: c.Rune}] = now
		in.mods, in.modsAt = c.Mods, now
		s.Typed = append(s.Typed, c)
		s.MenuRefresh = true

	case *tcell.EventMouse:
		x, y := e.Position()
		in.pointer = mouse.Position{X: x, Y: y}
		held := buttonsOf(e.Buttons())
		if held&^in.buttons != 0 {
			s.Activated = true
		}
		in.buttons = held

	case *tcell.EventFocus:
		in.focused = e.Focused
		if e.Focused {
			s.Activated = true
		}

	case *tcell.EventResize:
		if in.onResize != nil {
			in.onResize(e.Size())
		}
	}
}

// chordOf maps a terminal key event onto a chord. An upper-case letter
// implies Shift, which terminals do not report separately.
func chordOf(e *tcell.EventKey) (key.Chord, bool) {
	var mods key.Modifier
	m := e.Modifiers()
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}

	switch e.Key() {
	case tcell.KeyRune:
		r := e.Rune()
		if r == ' ' {
			return key.SpecialChord(key.KeySpace, mods), true
		}
		if unicode.IsUpper(r) {
			mods = mods.With(key.ModShift)
		}
		return key.RuneChord(r, mods), true
	case tcell.KeyEscape:
		return key.SpecialChord(key.KeyEscape, mods), true
	case tcell.KeyEnter:
		return key.SpecialChord(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.SpecialChord(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.SpecialChord(key.KeyBackspace, mods), true
	}
	return key.Chord{}, false
}

func buttonsOf(b tcell.ButtonMask) mouse.Button {
	var out mouse.Button
	if b&tcell.Button1 != 0 {
		out |= mouse.ButtonLeft
	}
	if b&tcell.Button2 != 0 {
		out |= mouse.ButtonRight
	}
	if b&tcell.Button3 != 0 {
		out |= mouse.ButtonMiddle
	}
	return out
}
