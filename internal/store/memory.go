package store

import (
	"sync"

	"github.com/goflowspace/linksnap/internal/domain"
)

// Memory is the in-process canvas store.
type Memory struct {
	mu      sync.RWMutex
	nodes   []domain.Node
	edges   []domain.Edge
	pins    map[string]domain.MiniPins
	panning bool
}

// NewMemory creates an empty canvas store.
func NewMemory() *Memory {
	return &Memory{pins: make(map[string]domain.MiniPins)}
}

// Snapshot returns a point-in-time copy of nodes, edges and the panning
// flag. Callers may hold and mutate it freely.
func (m *Memory) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Snapshot{
		Nodes:   append([]domain.Node(nil), m.nodes...),
		Edges:   append([]domain.Edge(nil), m.edges...),
		Panning: m.panning,
	}
}

// SetEdges replaces the whole edge collection. This is the engine's
// read-modify-write entry point for preview installs and removals.
func (m *Memory) SetEdges(edges []domain.Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append([]domain.Edge(nil), edges...)
}

// SetPanning flips the camera-panning flag the engine checks on every event.
func (m *Memory) SetPanning(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panning = v
}

// MoveNode updates a node's position, reporting whether the node exists.
func (m *Memory) MoveNode(id string, x, y float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.nodes {
		if m.nodes[i].ID == id {
			m.nodes[i].Position = domain.Point{X: x, Y: y}
			return true
		}
	}
	return false
}

// UpsertNode inserts a node or replaces the one with the same id.
func (m *Memory) UpsertNode(n domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.nodes {
		if m.nodes[i].ID == n.ID {
			m.nodes[i] = n
			return
		}
	}
	m.nodes = append(m.nodes, n)
}

// RemoveNode deletes a node together with every edge touching it and its
// pin panel, reporting whether the node existed.
func (m *Memory) RemoveNode(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	nodes := m.nodes[:0]
	for _, n := range m.nodes {
		if n.ID == id {
			found = true
			continue
		}
		nodes = append(nodes, n)
	}
	if !found {
		return false
	}
	m.nodes = nodes

	edges := m.edges[:0]
	for _, e := range m.edges {
		if e.Touches(id) {
			continue
		}
		edges = append(edges, e)
	}
	m.edges = edges
	delete(m.pins, id)
	return true
}

// AddEdge appends an edge, refusing an id collision.
func (m *Memory) AddEdge(e domain.Edge) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.edges {
		if m.edges[i].ID == e.ID {
			return false
		}
	}
	m.edges = append(m.edges, e)
	return true
}

// RemoveEdge deletes an edge by id, reporting whether it existed.
func (m *Memory) RemoveEdge(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.edges {
		if m.edges[i].ID == id {
			m.edges = append(m.edges[:i], m.edges[i+1:]...)
			return true
		}
	}
	return false
}

// MiniPins returns a copy of a layer's pin panel.
func (m *Memory) MiniPins(layerID string) (domain.MiniPins, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pins, ok := m.pins[layerID]
	if !ok {
		return domain.MiniPins{}, false
	}
	return copyPins(pins), true
}

// SetMiniPins replaces a layer's pin panel.
func (m *Memory) SetMiniPins(layerID string, pins domain.MiniPins) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pins[layerID] = copyPins(pins)
}

// LinkPin records an edge on a pin and marks it connected. Reports whether
// the pin was found.
func (m *Memory) LinkPin(layerID, pinID, edgeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withPin(layerID, pinID, func(p *domain.MiniPin) {
		for _, id := range p.ConnectionIDs {
			if id == edgeID {
				return
			}
		}
		p.ConnectionIDs = append(p.ConnectionIDs, edgeID)
		p.Connected = true
	})
}

// UnlinkPin removes an edge from a pin; the pin stays connected only while
// other connections remain. Reports whether the pin was found.
func (m *Memory) UnlinkPin(layerID, pinID, edgeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withPin(layerID, pinID, func(p *domain.MiniPin) {
		ids := p.ConnectionIDs[:0]
		for _, id := range p.ConnectionIDs {
			if id == edgeID {
				continue
			}
			ids = append(ids, id)
		}
		p.ConnectionIDs = ids
		p.Connected = len(ids) > 0
	})
}

// withPin runs fn against the addressed pin under the already-held lock.
func (m *Memory) withPin(layerID, pinID string, fn func(*domain.MiniPin)) bool {
	pins, ok := m.pins[layerID]
	if !ok {
		return false
	}
	for i := range pins.Starting {
		if pins.Starting[i].ID == pinID {
			fn(&pins.Starting[i])
			m.pins[layerID] = pins
			return true
		}
	}
	for i := range pins.Ending {
		if pins.Ending[i].ID == pinID {
			fn(&pins.Ending[i])
			m.pins[layerID] = pins
			return true
		}
	}
	return false
}

// LoadCanvas replaces the whole store with a document's content. Preview
// edges are dropped; documents only carry permanent links.
func (m *Memory) LoadCanvas(c *domain.Canvas) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = append([]domain.Node(nil), c.Nodes...)
	m.edges = m.edges[:0]
	for _, e := range c.Edges {
		if e.IsPreview() {
			continue
		}
		m.edges = append(m.edges, e)
	}
	m.pins = make(map[string]domain.MiniPins, len(c.Pins))
	for layerID, pins := range c.Pins {
		m.pins[layerID] = copyPins(pins)
	}
	m.panning = false
}

// ExportCanvas captures the store as a document: permanent edges only, pin
// panels included.
func (m *Memory) ExportCanvas(id, name string) *domain.Canvas {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := &domain.Canvas{
		ID:    id,
		Name:  name,
		Nodes: append([]domain.Node(nil), m.nodes...),
		Pins:  make(map[string]domain.MiniPins, len(m.pins)),
	}
	for _, e := range m.edges {
		if e.Kind != domain.EdgeKindPermanent {
			continue
		}
		c.Edges = append(c.Edges, e)
	}
	for layerID, pins := range m.pins {
		c.Pins[layerID] = copyPins(pins)
	}
	return c
}

func copyPins(pins domain.MiniPins) domain.MiniPins {
	out := domain.MiniPins{
		Starting: append([]domain.MiniPin(nil), pins.Starting...),
		Ending:   append([]domain.MiniPin(nil), pins.Ending...),
	}
	for i := range out.Starting {
		out.Starting[i].ConnectionIDs = append([]string(nil), out.Starting[i].ConnectionIDs...)
	}
	for i := range out.Ending {
		out.Ending[i].ConnectionIDs = append([]string(nil), out.Ending[i].ConnectionIDs...)
	}
	return out
}
