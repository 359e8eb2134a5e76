package snap

import (
	"math"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/layout"
)

// Resolver finds the nearest eligible connection for a dragged node across
// both topologies: direct node-to-node links and links to a layer's
// mini-pins.
type Resolver struct {
	cfg  Config
	pins PinSource
}

// NewResolver creates a resolver. pins may be nil when the canvas has no
// layer nodes.
func NewResolver(cfg Config, pins PinSource) *Resolver {
	return &Resolver{cfg: cfg.normalized(), pins: pins}
}

// candidate tracks the single best result seen so far.
type candidate struct {
	draft    domain.EdgeDraft
	dist     float64
	pin      bool
	deadZone bool
	found    bool
}

// Resolve returns the draft of the closest eligible connection, or nil when
// nothing qualifies. Missing nodes, an absent index and disallowed dragged
// types all resolve to nil; the function never panics.
func (r *Resolver) Resolve(draggedID string, snap domain.Snapshot, sess *DragSession) *domain.EdgeDraft {
	if sess == nil || sess.index.Len() == 0 {
		return nil
	}
	nodes := snap.NodeIndex()
	dragged, ok := nodes[draggedID]
	if !ok || !dragged.Connectable() {
		return nil
	}

	// The index stores top-left corners, so a candidate's corner can trail
	// its near edge by the node's full span. Widen the broad phase by the
	// largest span in the snapshot; the distance checks below stay exact.
	queryRect := r.cfg.EffectiveBounds(dragged).Expand(r.cfg.ConnectDistance + r.cfg.Padding + sess.maxSpan)
	best := candidate{dist: math.Inf(1)}

	for _, pt := range sess.index.Query(queryRect) {
		if pt.ID == draggedID {
			continue
		}
		other, ok := nodes[pt.ID]
		if !ok || !other.Connectable() {
			continue
		}
		if dragged.Type == domain.NodeTypeChoice && other.Type == domain.NodeTypeChoice {
			continue
		}
		switch {
		case dragged.IsLayer() && other.IsLayer():
			// pin-to-pin container links require an explicit gesture
		case !dragged.IsLayer() && !other.IsLayer():
			r.scoreDirect(dragged, other, &best)
		case other.IsLayer():
			r.scorePins(dragged, other, &snap, sess, &best)
		default:
			r.scorePins(other, dragged, &snap, sess, &best)
		}
	}

	if !best.found || best.dist > r.cfg.ConnectDistance {
		return nil
	}
	// A dead-zone winner suppresses the whole resolution rather than
	// falling back to the runner-up.
	if best.deadZone {
		return nil
	}
	if snap.HasPermanentEdge(best.draft) {
		return nil
	}
	if !best.pin && (snap.HasNonPinEdgeAt(best.draft.Source) || snap.HasNonPinEdgeAt(best.draft.Target)) {
		return nil
	}

	draft := best.draft
	return &draft
}

// scoreDirect scores a plain node-to-node link. Orientation follows x: the
// smaller-x node is the source, its output pin facing the other node's
// input pin. The x gap may be negative while one node overlaps the other;
// pin spans closer than one pin width form the dead zone where no direction
// is meaningful.
func (r *Resolver) scoreDirect(a, b *domain.Node, best *candidate) {
	left, right := a, b
	if r.cfg.EffectiveBounds(b).X < r.cfg.EffectiveBounds(a).X {
		left, right = b, a
	}
	lb := r.cfg.EffectiveBounds(left)
	rb := r.cfg.EffectiveBounds(right)

	gap := r.cfg.inputPinX(rb) - r.cfg.outputPinX(lb)
	dy := r.cfg.pinY(rb) - r.cfg.pinY(lb)
	dist := math.Hypot(gap, dy)
	if dist >= best.dist {
		return
	}
	*best = candidate{
		draft:    domain.EdgeDraft{Source: left.ID, Target: right.ID},
		dist:     dist,
		deadZone: math.Abs(gap) < r.cfg.PinWidth,
		found:    true,
	}
}

// scorePins scores links between a regular node and the unconnected
// mini-pins of a layer, starting pins before ending pins. A starting pin
// takes an inbound edge, so it pairs with the regular node's output pin;
// an ending pin pairs with its input pin.
func (r *Resolver) scorePins(regular, layer *domain.Node, snap *domain.Snapshot, sess *DragSession, best *candidate) {
	if r.pins == nil {
		return
	}
	pins, ok := r.pins.MiniPins(layer.ID)
	if !ok {
		return
	}
	resolved := layout.Resolve(
		r.cfg.EffectiveBounds(layer),
		sess.layerGeometry(layer.ID),
		r.cfg.MiniPinRowHeight,
		len(pins.Ending),
	)
	rb := r.cfg.EffectiveBounds(regular)

	score := func(pin domain.MiniPin) {
		if pin.Connected {
			return
		}
		if pinLinkedTo(snap, pin, regular.ID) {
			return
		}
		pinPt := layout.PinPoint(resolved, pin.Kind, pin.Ordinal)
		var counterpart domain.Point
		var draft domain.EdgeDraft
		if pin.Kind == domain.MiniPinStarting {
			counterpart = domain.Point{X: r.cfg.outputPinX(rb), Y: r.cfg.pinY(rb)}
			draft = domain.EdgeDraft{Source: regular.ID, Target: layer.ID, TargetHandle: pin.ID}
		} else {
			counterpart = domain.Point{X: r.cfg.inputPinX(rb), Y: r.cfg.pinY(rb)}
			draft = domain.EdgeDraft{Source: layer.ID, Target: regular.ID, SourceHandle: pin.ID}
		}
		dist := pinPt.Dist(counterpart)
		if dist >= best.dist {
			return
		}
		*best = candidate{draft: draft, dist: dist, pin: true, found: true}
	}

	for _, pin := range pins.Starting {
		score(pin)
	}
	for _, pin := range pins.Ending {
		score(pin)
	}
}

// pinLinkedTo reports whether one of the pin's existing connections already
// touches the given node.
func pinLinkedTo(snap *domain.Snapshot, pin domain.MiniPin, nodeID string) bool {
	for _, id := range pin.ConnectionIDs {
		if e, ok := snap.EdgeByID(id); ok && e.Touches(nodeID) {
			return true
		}
	}
	return false
}
