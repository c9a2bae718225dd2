package orchestrator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/gesture"
	"github.com/dshills/snapkey/internal/input/key"
	"github.com/dshills/snapkey/internal/input/mouse"
	"github.com/dshills/snapkey/internal/input/trigger"
	"github.com/dshills/snapkey/internal/oracle"
	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/panel/grid"
	"github.com/dshills/snapkey/internal/panel/menu"
	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/settings"
)

// ErrMissingDependency is returned by New when the client or store is nil.
var ErrMissingDependency = errors.New("orchestrator: missing dependency")

// Input is the pointer and keyboard input delivered to visible panels.
type Input struct {
	Pointer mouse.Position
	// Pressed holds the buttons that went down this tick.
	Pressed mouse.Button
	// Typed holds the chords typed this tick.
	Typed []key.Chord
}

// ChangeFunc is called whenever a slot opens or closes.
type ChangeFunc func(id panel.ID, visible bool)

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOracle sets the oracle notified whenever a panel opens.
func WithOracle(o *oracle.Oracle) Option {
	return func(s *State) {
		s.oracle = o
	}
}

// WithPanel replaces the stock panel for id.
func WithPanel(id panel.ID, p panel.Panel) Option {
	return func(s *State) {
		if id.Valid() {
			s.custom[id] = p
		}
	}
}

// WithMenuEntries sets the quick menu entries.
func WithMenuEntries(entries []menu.Entry) Option {
	return func(s *State) {
		s.entries = entries
	}
}

// WithScreen keeps panels inside screen.
func WithScreen(screen mouse.Rect) Option {
	return func(s *State) {
		s.screen = screen
	}
}

// WithCellSize sets the grid's base cell size.
func WithCellSize(n int) Option {
	return func(s *State) {
		s.cellSize = n
	}
}

// WithRowSize sets the row size of list panels.
func WithRowSize(w, h int) Option {
	return func(s *State) {
		s.rowW, s.rowH = w, h
	}
}

// WithChangeFunc sets a hook called when a slot opens or closes.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(s *State) {
		s.onChange = fn
	}
}

type slot struct {
	panel.Slot
	// commit asks Tick to hide and route the panel after input delivery.
	commit bool
}

// modeChange is a grid toggle waiting to be announced to the host.
type modeChange struct {
	field string
	on    bool
}

// State is the orchestrator. It is owned by a single goroutine.
type State struct {
	client *script.Client
	store  *settings.Store
	oracle *oracle.Oracle
	logger *zap.Logger

	custom   map[panel.ID]panel.Panel
	entries  []menu.Entry
	screen   mouse.Rect
	cellSize int
	rowW     int
	rowH     int
	onChange ChangeFunc

	slots      []slot
	trampoline MenuTrampoline
	cancel     bool
	modes      []modeChange
}

// New builds the seven panel slots and initializes their panels.
func New(client *script.Client, store *settings.Store, opts ...Option) (*State, error) {
	if client == nil || store == nil {
		return nil, ErrMissingDependency
	}
	s := &State{
		client:  client,
		store:   store,
		logger:  zap.NewNop(),
		custom:  make(map[panel.ID]panel.Panel),
		entries: menu.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.slots = make([]slot, len(panel.All))
	for _, id := range panel.All {
		p, ok := s.custom[id]
		if !ok {
			var err error
			if p, err = s.stockPanel(id); err != nil {
				return nil, err
			}
		}
		if err := p.Initialize(); err != nil {
			s.Shutdown()
			return nil, err
		}
		s.slots[id] = slot{Slot: panel.Slot{ID: id, Panel: p}}
	}
	return s, nil
}

// Shutdown shuts down every initialized panel.
func (s *State) Shutdown() {
	for i := range s.slots {
		if p := s.slots[i].Panel; p != nil {
			p.Shutdown()
		}
	}
}

// Get returns the slot for id, or nil for an unknown id.
func (s *State) Get(id panel.ID) *panel.Slot {
	if !id.Valid() || int(id) >= len(s.slots) {
		return nil
	}
	return &s.slots[id].Slot
}

// IsVisible reports whether the slot for id is open.
func (s *State) IsVisible(id panel.ID) bool {
	sl := s.Get(id)
	return sl != nil && sl.Visible
}

// IsPinned reports whether the slot for id is open in sticky mode.
func (s *State) IsPinned(id panel.ID) bool {
	sl := s.Get(id)
	return sl != nil && sl.Visible && sl.Pinned
}

// PrimaryVisible returns the open primary panel, if any.
func (s *State) PrimaryVisible() (panel.ID, bool) {
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.Visible && sl.ID.IsPrimary() {
			return sl.ID, true
		}
	}
	return 0, false
}

// Visible returns the open slots in slot order.
func (s *State) Visible() []panel.ID {
	var out []panel.ID
	for i := range s.slots {
		if s.slots[i].Visible {
			out = append(out, s.slots[i].ID)
		}
	}
	return out
}

// Trampoline returns the pending quick menu choice.
func (s *State) Trampoline() MenuTrampoline {
	return s.trampoline
}

// SetScreen updates the screen bounds of every panel that supports it.
func (s *State) SetScreen(screen mouse.Rect) {
	s.screen = screen
	for i := range s.slots {
		if p, ok := s.slots[i].Panel.(interface{ SetScreen(mouse.Rect) }); ok {
			p.SetScreen(screen)
		}
	}
}

var _ gesture.PanelView = (*State)(nil)

// Dispatch applies one gesture event. at is the pointer position used when
// the event opens a panel.
func (s *State) Dispatch(ctx context.Context, ev gesture.Event, at mouse.Position) {
	if ev.Kind == gesture.Cancel {
		s.cancel = true
		s.trampoline = NoTrampoline
		return
	}

	target := ev.Binding.Target
	sl := s.Get(target)
	if sl == nil {
		s.logger.Warn("event for unknown panel", zap.Stringer("event", ev))
		return
	}

	switch ev.Kind {
	case gesture.Press:
		s.press(ctx, ev.Binding, at)

	case gesture.HoldReached:
		s.open(ctx, target, at, false)

	case gesture.DoubleTap:
		if ev.Sticky {
			if sl.Visible || s.open(ctx, target, at, false) {
				sl.Pinned = true
			}
			return
		}
		if sl.Visible {
			s.finish(ctx, target, sl.Panel.Hide())
		}

	case gesture.Release:
		if !sl.Visible {
			return
		}
		if sl.Pinned {
			// The click that ended sticky mode is delivered by Tick first.
			s.slots[target].commit = true
			return
		}
		s.finish(ctx, target, sl.Panel.Hide())
	}
}

// press handles a fresh press of an instant, combo or menu binding. The
// same binding closes its own panel when it is already open.
func (s *State) press(ctx context.Context, b trigger.Binding, at mouse.Position) {
	if b.Kind == trigger.Hold {
		return
	}
	if s.IsVisible(b.Target) {
		s.dismiss(b.Target)
		return
	}
	if b.Kind == trigger.Menu {
		if cur, busy := s.PrimaryVisible(); busy {
			s.logger.Debug("menu ignored while a primary is open",
				zap.Stringer("visible", cur), zap.Bool("via_menu", s.slots[cur].ViaMenu))
			return
		}
	}
	s.open(ctx, b.Target, at, false)
}

// Tick delivers input to the visible panels, routes the results of panels
// that closed, and opens the panel chosen from the quick menu.
func (s *State) Tick(ctx context.Context, in Input) {
	if s.cancel {
		s.cancel = false
		for _, id := range s.Visible() {
			s.dismiss(id)
		}
	}

	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.Visible {
			continue
		}
		p := sl.Panel
		p.UpdateHover(in.Pointer)
		if in.Pressed.Any() {
			if c, ok := p.(panel.Clicker); ok && c.Click(in.Pointer, in.Pressed) && sl.commit {
				// The click that ended sticky mode was a toggle; stay pinned.
				sl.commit = false
				s.logger.Debug("sticky commit kept open", zap.Stringer("panel", sl.ID))
			}
		}
		if h, ok := p.(panel.KeyHandler); ok {
			for _, c := range in.Typed {
				if !p.IsVisible() {
					break
				}
				h.HandleKey(c)
			}
		}

		switch {
		case !p.IsVisible():
			s.finish(ctx, sl.ID, p.Result())
		case sl.commit:
			s.finish(ctx, sl.ID, p.Hide())
		}
	}

	s.flushModes(ctx)

	if id, ok := s.trampoline.Target(); ok {
		s.trampoline = NoTrampoline
		s.open(ctx, id, in.Pointer, true)
	}
}

// open shows id at pos unless it is already open, another primary is
// open, or the panel's context check fails. A primary replaces an open
// quick menu.
func (s *State) open(ctx context.Context, id panel.ID, pos mouse.Position, viaMenu bool) bool {
	sl := &s.slots[id]
	if sl.Visible {
		return false
	}
	if cur, busy := s.PrimaryVisible(); busy {
		s.logger.Debug("open dropped", zap.Stringer("panel", id), zap.Stringer("visible", cur))
		return false
	}
	if !s.ready(ctx, id) {
		s.logger.Debug("open refused by context check", zap.Stringer("panel", id))
		return false
	}
	if id.IsPrimary() && s.IsVisible(panel.Menu) {
		s.dismiss(panel.Menu)
	}

	sl.Panel.Show(pos)
	sl.Visible = true
	sl.Pinned = false
	sl.ViaMenu = viaMenu
	sl.commit = false
	if s.oracle != nil {
		s.oracle.NotifyPanelActivated()
	}
	s.logger.Debug("panel opened", zap.Stringer("panel", id), zap.Bool("via_menu", viaMenu))
	s.changed(id, true)
	return true
}

// ready runs the context check for panels that need one. A failed read
// counts as not ready.
func (s *State) ready(ctx context.Context, id panel.ID) bool {
	switch id {
	case panel.Grid:
		scene, ok := s.client.ReadScene(ctx)
		return ok && len(scene.Layers) > 0
	case panel.Text:
		scene, ok := s.client.ReadScene(ctx)
		return ok && scene.HasText()
	}
	return true
}

// dismiss closes id without applying anything.
func (s *State) dismiss(id panel.ID) {
	sl := &s.slots[id]
	p := sl.Panel
	if p.IsVisible() {
		p.Hide()
	}
	p.Result()
	s.closed(id)
	s.logger.Debug("panel dismissed", zap.Stringer("panel", id))
}

// finish marks id closed and routes its result.
func (s *State) finish(ctx context.Context, id panel.ID, r panel.Result) {
	s.closed(id)
	s.route(ctx, id, r)
}

func (s *State) closed(id panel.ID) {
	sl := &s.slots[id]
	sl.Visible = false
	sl.Pinned = false
	sl.ViaMenu = false
	sl.commit = false
	s.changed(id, false)
}

func (s *State) changed(id panel.ID, visible bool) {
	if s.onChange != nil {
		s.onChange(id, visible)
	}
}

// onToggle persists a grid mode toggle at once; the host is told on the
// next flush.
func (s *State) onToggle(t grid.Toggle, on bool) {
	field := t.String()
	_, err := s.store.Update(func(st *settings.Settings) {
		if t == grid.MaskMode {
			st.UseMaskRecognition = on
		} else {
			st.UseCompMode = on
		}
	}, field)
	if err != nil {
		s.logger.Warn("persisting mode toggle failed", zap.String("field", field), zap.Error(err))
	}
	s.modes = append(s.modes, modeChange{field: field, on: on})
}

func (s *State) flushModes(ctx context.Context) {
	for _, m := range s.modes {
		_ = s.client.Write(ctx, &script.NotifyModeChanged{Field: m.field, Value: m.on})
	}
	s.modes = s.modes[:0]
}
