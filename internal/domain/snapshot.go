package domain

// Snapshot is a read-only view of the canvas at one instant. The engine
// reads snapshots and writes whole edge slices back; it never reaches into
// store internals. Panning mirrors the camera state: the snap pipeline is
// disabled entirely while it is set.
type Snapshot struct {
	Nodes   []Node
	Edges   []Edge
	Panning bool
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (*Node, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// NodeIndex returns an id lookup map over the snapshot's nodes.
func (s *Snapshot) NodeIndex() map[string]*Node {
	idx := make(map[string]*Node, len(s.Nodes))
	for i := range s.Nodes {
		idx[s.Nodes[i].ID] = &s.Nodes[i]
	}
	return idx
}

// HasPermanentEdge reports whether a committed edge with d's exact endpoint
// tuple already exists.
func (s *Snapshot) HasPermanentEdge(d EdgeDraft) bool {
	for i := range s.Edges {
		e := &s.Edges[i]
		if e.Kind == EdgeKindPermanent && e.Draft() == d {
			return true
		}
	}
	return false
}

// HasNonPinEdgeAt reports whether any committed non-pin edge touches the
// node. Auto-snap never adds a second direct edge to a node; only explicit
// gestures can.
func (s *Snapshot) HasNonPinEdgeAt(nodeID string) bool {
	for i := range s.Edges {
		e := &s.Edges[i]
		if e.Kind == EdgeKindPermanent && !e.IsPin() && e.Touches(nodeID) {
			return true
		}
	}
	return false
}

// EdgeByID returns the edge with the given id.
func (s *Snapshot) EdgeByID(id string) (*Edge, bool) {
	for i := range s.Edges {
		if s.Edges[i].ID == id {
			return &s.Edges[i], true
		}
	}
	return nil, false
}
