package snap

import (
	"github.com/goflowspace/linksnap/internal/domain"
)

// Shared fakes for the engine tests. Everything is hand-rolled and
// deterministic; no goroutines, no clocks.

type fakeStore struct {
	snap     domain.Snapshot
	setCalls int
}

func (f *fakeStore) Snapshot() domain.Snapshot { return f.snap }

func (f *fakeStore) SetEdges(edges []domain.Edge) {
	f.snap.Edges = edges
	f.setCalls++
}

func (f *fakeStore) moveNode(id string, x, y float64) {
	for i := range f.snap.Nodes {
		if f.snap.Nodes[i].ID == id {
			f.snap.Nodes[i].Position = domain.Point{X: x, Y: y}
			return
		}
	}
}

func (f *fakeStore) previewEdges() []domain.Edge {
	var out []domain.Edge
	for _, e := range f.snap.Edges {
		if e.IsPreview() {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeStore) permanentEdges() []domain.Edge {
	var out []domain.Edge
	for _, e := range f.snap.Edges {
		if e.Kind == domain.EdgeKindPermanent {
			out = append(out, e)
		}
	}
	return out
}

type fakeSettings struct {
	current domain.EditorSettings
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{current: domain.DefaultEditorSettings()}
}

func (f *fakeSettings) Current() domain.EditorSettings { return f.current }

type fakePins map[string]domain.MiniPins

func (f fakePins) MiniPins(layerID string) (domain.MiniPins, bool) {
	pins, ok := f[layerID]
	return pins, ok
}

// fakeConnector mimics the command layer: a successful connect appends the
// permanent edge to the store, like the real collaborator does.
type fakeConnector struct {
	store          *fakeStore
	fail           error
	choiceDrafts   []domain.EdgeDraft
	narrativeDraft []domain.EdgeDraft
}

func (f *fakeConnector) ConnectAsChoiceOrigin(d domain.EdgeDraft) error {
	f.choiceDrafts = append(f.choiceDrafts, d)
	return f.commit(d)
}

func (f *fakeConnector) ConnectAsNarrativeOrigin(d domain.EdgeDraft) error {
	f.narrativeDraft = append(f.narrativeDraft, d)
	return f.commit(d)
}

func (f *fakeConnector) commit(d domain.EdgeDraft) error {
	if f.fail != nil {
		return f.fail
	}
	if f.store != nil {
		edges := append([]domain.Edge{}, f.store.snap.Edges...)
		edges = append(edges, *domain.NewPermanentEdge(d, domain.EdgeStyle{}))
		f.store.snap.Edges = edges
	}
	return nil
}

func (f *fakeConnector) calls() int {
	return len(f.choiceDrafts) + len(f.narrativeDraft)
}

func testNode(id string, nodeType domain.NodeType, x, y, w, h float64) domain.Node {
	return domain.Node{
		ID:       id,
		Type:     nodeType,
		Position: domain.Point{X: x, Y: y},
		Size:     domain.Size{Width: w, Height: h},
	}
}

func narrative(id string, x, y float64) domain.Node {
	return testNode(id, domain.NodeTypeNarrative, x, y, 100, 60)
}

// testConfig keeps the production pin geometry but resolves on every tick
// unless a test overrides the throttle.
func testConfig(connectDistance float64) Config {
	cfg := DefaultConfig()
	cfg.ConnectDistance = connectDistance
	cfg.ThrottleFactor = 1
	return cfg
}

// sessionFor builds a gesture session directly, bypassing the engine.
func sessionFor(draggedID string, store *fakeStore, cfg Config) *DragSession {
	return newSession(draggedID, store.Snapshot(), nil, cfg.normalized())
}
