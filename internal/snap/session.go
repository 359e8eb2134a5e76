package snap

import (
	"time"

	"github.com/google/uuid"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/layout"
	"github.com/goflowspace/linksnap/internal/quadtree"
)

// DragSession is the ephemeral state of one drag gesture. It is created on
// the gesture's first move event, mutated on every move, and discarded at
// drag-stop. It is never persisted or shared across gestures; an abandoned
// session is simply overwritten by the next gesture's first move.
type DragSession struct {
	ID        string
	DraggedID string
	StartedAt time.Time

	index     *quadtree.Tree
	geometry  map[string]*layout.LayerGeometry
	maxSpan   float64
	lastDraft *domain.EdgeDraft
	ticks     int
}

// newSession snapshots everything resolution needs for the whole gesture:
// the quadtree over node positions and the layer geometry measurements
// available right now. Both are built exactly once per gesture.
func newSession(draggedID string, snap domain.Snapshot, oracle layout.Oracle, cfg Config) *DragSession {
	s := &DragSession{
		ID:        uuid.NewString(),
		DraggedID: draggedID,
		StartedAt: time.Now(),
		index:     quadtree.Build(snap.Nodes, cfg.IndexPadding),
		geometry:  make(map[string]*layout.LayerGeometry),
	}
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		b := cfg.EffectiveBounds(n)
		s.maxSpan = max(s.maxSpan, b.W, b.H)
		if !n.IsLayer() {
			continue
		}
		s.geometry[n.ID] = nil
		if oracle == nil {
			continue
		}
		if g, ok := oracle.LayerGeometry(n.ID); ok {
			cached := g
			s.geometry[n.ID] = &cached
		}
	}
	return s
}

// layerGeometry returns the gesture-start measurement for a layer, nil when
// none was available.
func (s *DragSession) layerGeometry(layerID string) *layout.LayerGeometry {
	return s.geometry[layerID]
}

// nextTick advances the throttle counter and reports whether this tick runs
// full resolution. The first tick of a gesture always resolves.
func (s *DragSession) nextTick(factor int) bool {
	t := s.ticks
	s.ticks++
	if factor <= 1 {
		return true
	}
	return t%factor == 0
}

// LastDraft returns the draft behind the currently shown preview, nil when
// no preview is showing.
func (s *DragSession) LastDraft() *domain.EdgeDraft {
	if s == nil || s.lastDraft == nil {
		return nil
	}
	d := *s.lastDraft
	return &d
}
