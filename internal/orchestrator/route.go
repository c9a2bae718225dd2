package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/snapkey/internal/panel"
	"github.com/dshills/snapkey/internal/script"
	"github.com/dshills/snapkey/internal/settings"
	"github.com/dshills/snapkey/internal/transform"
)

// Host command run by the grid's settings option.
const cmdOpenSettings = "settings.open"

// route consumes a closed panel's result.
func (s *State) route(ctx context.Context, id panel.ID, r panel.Result) {
	log := s.logger.With(zap.Stringer("panel", id))
	if !r.Applied || r.Payload == nil {
		log.Debug("panel cancelled")
		return
	}
	if err := r.Payload.Validate(); err != nil {
		log.Warn("dropping malformed result", zap.Error(err))
		return
	}

	switch p := r.Payload.(type) {
	case panel.MenuPayload:
		s.trampoline = Opening(p.Target)
	case panel.GridPayload:
		s.applyGrid(ctx, p)
	case panel.AlignPayload:
		s.applyAlign(ctx, p)
	case panel.HostPayload:
		_ = s.client.Write(ctx, p.Request())
	default:
		log.Warn("no route for result", zap.String("payload", fmt.Sprintf("%T", p)))
	}
}

func (s *State) applyGrid(ctx context.Context, p panel.GridPayload) {
	switch p.Action {
	case panel.GridCell, panel.GridCustom, panel.GridPaste:
		s.applyAnchor(ctx, p.Selection)
	case panel.GridCopy:
		s.copyAnchor(ctx)
	case panel.GridSettings:
		_ = s.client.Write(ctx, &script.RunCommand{Name: cmdOpenSettings})
	}
}

// transformModes returns the reference and mask modes from the current settings.
func (s *State) transformModes() (transform.ReferenceMode, transform.MaskMode) {
	cur := s.store.Current()
	ref, mask := transform.SelectionReference, transform.MaskOff
	if cur.UseCompMode {
		ref = transform.CompositionReference
	}
	if cur.UseMaskRecognition {
		mask = transform.MaskOn
	}
	return ref, mask
}

// applyAnchor reads fresh geometry, computes the anchor updates for every
// selected object and writes them in one undo group.
func (s *State) applyAnchor(ctx context.Context, sel transform.Selection) {
	scene, ok := s.client.ReadScene(ctx)
	if !ok {
		return
	}
	ref, mask := s.transformModes()
	updates := transform.ComputeBatch(sel, scene.Geometries(), ref, mask, scene.Frame)
	if skipped := len(scene.Layers) - len(updates); skipped > 0 {
		s.logger.Debug("objects skipped", zap.Int("count", skipped), zap.Stringer("selection", sel))
	}
	if len(updates) == 0 {
		return
	}
	_ = s.client.Write(ctx, &script.SetAnchors{Label: "Set Anchor", Updates: updates})
}

// copyAnchor stores the first selected object's anchor ratio as the
// clipboard anchor.
func (s *State) copyAnchor(ctx context.Context) {
	scene, ok := s.client.ReadScene(ctx)
	if !ok || len(scene.Layers) == 0 {
		return
	}
	rx, ry, ok := transform.AnchorRatio(scene.Layers[0].Geometry)
	if !ok {
		s.logger.Debug("anchor not copied: degenerate bounds")
		return
	}
	_, err := s.store.Update(func(st *settings.Settings) {
		st.ClipboardAnchor = &settings.Ratio{X: rx, Y: ry}
	}, settings.FieldClipboardAnchor)
	if err != nil {
		s.logger.Warn("persisting clipboard anchor failed", zap.Error(err))
	}
}

func (s *State) applyAlign(ctx context.Context, p panel.AlignPayload) {
	scene, ok := s.client.ReadScene(ctx)
	if !ok {
		return
	}
	var (
		moves []transform.Move
		label string
	)
	if p.Distribute {
		moves = transform.Distribute(scene.Geometries(), p.Axis, p.Reference, scene.Frame)
		label = "Distribute " + p.Axis.String()
	} else {
		moves = transform.Align(scene.Geometries(), p.Direction, p.Reference, scene.Frame)
		label = "Align " + p.Direction.String()
	}
	if len(moves) == 0 {
		return
	}
	_ = s.client.Write(ctx, &script.MoveLayers{Label: label, Moves: moves})
}
