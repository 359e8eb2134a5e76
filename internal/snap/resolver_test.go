package snap

import (
	"testing"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/layout"
)

func resolve(t *testing.T, r *Resolver, draggedID string, store *fakeStore, cfg Config) *domain.EdgeDraft {
	t.Helper()
	sess := sessionFor(draggedID, store, cfg)
	return r.Resolve(draggedID, store.Snapshot(), sess)
}

func TestResolveDirect(t *testing.T) {
	cfg := testConfig(150)
	r := NewResolver(cfg, nil)

	t.Run("nearby pair produces a directional draft", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 200, 0)},
		}}

		draft := resolve(t, r, "B", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate, got nil")
		}
		if draft.Source != "A" || draft.Target != "B" {
			t.Errorf("draft = %+v, want A -> B", *draft)
		}
		if draft.IsPin() {
			t.Errorf("direct draft carries handles: %+v", *draft)
		}
	})

	t.Run("pair beyond connect distance yields nil", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 500, 0)},
		}}

		if draft := resolve(t, r, "B", store, cfg); draft != nil {
			t.Errorf("expected nil beyond range, got %+v", *draft)
		}
	})

	t.Run("left node is always the source", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 200, 0)},
		}}

		// Dragging the left node must not flip the direction.
		draft := resolve(t, r, "A", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate, got nil")
		}
		if draft.Source != "A" || draft.Target != "B" {
			t.Errorf("draft = %+v, want A -> B", *draft)
		}
	})

	t.Run("nearest candidate wins", func(t *testing.T) {
		cfg := testConfig(200)
		r := NewResolver(cfg, nil)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				narrative("A", 0, 0),
				narrative("B", 200, 0),
				narrative("C", 240, 0),
			},
		}}

		draft := resolve(t, r, "A", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate, got nil")
		}
		if draft.Target != "B" {
			t.Errorf("winner target = %q, want the closer node B", draft.Target)
		}
	})

	t.Run("overlapping pin spans are a dead zone", func(t *testing.T) {
		// B's input pin sits exactly on A's output pin: gap 0.
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 60, 0)},
		}}

		if draft := resolve(t, r, "B", store, cfg); draft != nil {
			t.Errorf("expected nil in the dead zone, got %+v", *draft)
		}
	})

	t.Run("pin gap of exactly one pin width is live", func(t *testing.T) {
		// gap = -12, one full pin width of overlap, just outside the zone.
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 48, 0)},
		}}

		draft := resolve(t, r, "B", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate at the dead zone boundary")
		}
		if draft.Source != "A" || draft.Target != "B" {
			t.Errorf("draft = %+v, want A -> B", *draft)
		}
	})

	t.Run("deep overlap beyond the pin span still connects", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 10, 0)},
		}}

		draft := resolve(t, r, "B", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate for a drop-onto gesture")
		}
		if draft.Source != "A" || draft.Target != "B" {
			t.Errorf("draft = %+v, want A -> B", *draft)
		}
	})

	t.Run("zero size node falls back to its default width", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				testNode("B", domain.NodeTypeNarrative, 0, 0, 0, 0),
				narrative("A", 300, 0),
			},
		}}

		// With the 220 default width B's output pin lands at x=200;
		// with the raw zero width the pair would be out of range.
		draft := resolve(t, r, "A", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate using the default width")
		}
		if draft.Source != "B" || draft.Target != "A" {
			t.Errorf("draft = %+v, want B -> A", *draft)
		}
	})
}

func TestResolveTypeRules(t *testing.T) {
	cfg := testConfig(150)
	r := NewResolver(cfg, nil)

	t.Run("two choice nodes never pair", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				testNode("A", domain.NodeTypeChoice, 0, 0, 100, 60),
				testNode("B", domain.NodeTypeChoice, 200, 0, 100, 60),
			},
		}}

		if draft := resolve(t, r, "B", store, cfg); draft != nil {
			t.Errorf("choice pair resolved to %+v, want nil", *draft)
		}
	})

	t.Run("choice to narrative is allowed", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				testNode("C", domain.NodeTypeChoice, 0, 0, 100, 60),
				narrative("N", 200, 0),
			},
		}}

		draft := resolve(t, r, "C", store, cfg)
		if draft == nil {
			t.Fatal("expected a candidate, got nil")
		}
		if draft.Source != "C" || draft.Target != "N" {
			t.Errorf("draft = %+v, want C -> N", *draft)
		}
	})

	t.Run("notes are invisible to snapping", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				narrative("A", 0, 0),
				testNode("memo", domain.NodeTypeNote, 200, 0, 100, 60),
			},
		}}

		if draft := resolve(t, r, "A", store, cfg); draft != nil {
			t.Errorf("note resolved to %+v, want nil", *draft)
		}
	})

	t.Run("dragged comment resolves nothing", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				testNode("memo", domain.NodeTypeComment, 0, 0, 100, 60),
				narrative("A", 200, 0),
			},
		}}

		if draft := resolve(t, r, "memo", store, cfg); draft != nil {
			t.Errorf("comment resolved to %+v, want nil", *draft)
		}
	})

	t.Run("two layers never pair", func(t *testing.T) {
		pins := fakePins{
			"L1": {Starting: []domain.MiniPin{{ID: "s0", Kind: domain.MiniPinStarting}}},
			"L2": {Starting: []domain.MiniPin{{ID: "s0", Kind: domain.MiniPinStarting}}},
		}
		r := NewResolver(cfg, pins)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				testNode("L1", domain.NodeTypeLayer, 0, 0, 320, 200),
				testNode("L2", domain.NodeTypeLayer, 340, 0, 320, 200),
			},
		}}

		if draft := resolve(t, r, "L1", store, cfg); draft != nil {
			t.Errorf("layer pair resolved to %+v, want nil", *draft)
		}
	})
}

func TestResolveSuppression(t *testing.T) {
	cfg := testConfig(150)
	r := NewResolver(cfg, nil)

	t.Run("existing link suppresses the same draft", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 200, 0)},
		}}
		existing := domain.NewPermanentEdge(domain.EdgeDraft{Source: "A", Target: "B"}, domain.EdgeStyle{})
		store.snap.Edges = []domain.Edge{*existing}

		if draft := resolve(t, r, "B", store, cfg); draft != nil {
			t.Errorf("duplicate resolved to %+v, want nil", *draft)
		}
	})

	t.Run("occupied endpoint suppresses a direct winner", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				narrative("A", 0, 0),
				narrative("B", 200, 0),
				narrative("C", 2000, 2000),
			},
		}}
		existing := domain.NewPermanentEdge(domain.EdgeDraft{Source: "A", Target: "C"}, domain.EdgeStyle{})
		store.snap.Edges = []domain.Edge{*existing}

		if draft := resolve(t, r, "B", store, cfg); draft != nil {
			t.Errorf("occupied endpoint resolved to %+v, want nil", *draft)
		}
	})

	t.Run("pin links do not occupy an endpoint", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				narrative("A", 0, 0),
				narrative("B", 200, 0),
			},
		}}
		pinEdge := domain.NewPermanentEdge(domain.EdgeDraft{
			Source: "A", Target: "L", TargetHandle: "s0",
		}, domain.EdgeStyle{})
		store.snap.Edges = []domain.Edge{*pinEdge}

		draft := resolve(t, r, "B", store, cfg)
		if draft == nil {
			t.Fatal("pin link blocked a direct candidate")
		}
		if draft.Source != "A" || draft.Target != "B" {
			t.Errorf("draft = %+v, want A -> B", *draft)
		}
	})

	t.Run("preview edges never suppress", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 200, 0)},
		}}
		ghost := domain.NewPreviewEdge(domain.EdgeDraft{Source: "A", Target: "B"}, domain.EdgeStyle{})
		store.snap.Edges = []domain.Edge{*ghost}

		if draft := resolve(t, r, "B", store, cfg); draft == nil {
			t.Fatal("a stale preview suppressed the candidate")
		}
	})
}

func TestResolvePins(t *testing.T) {
	cfg := testConfig(160)
	layerNode := testNode("L", domain.NodeTypeLayer, 300, 0, 320, 200)

	t.Run("free starting pin attracts a nearby node", func(t *testing.T) {
		pins := fakePins{"L": {
			Starting: []domain.MiniPin{
				{ID: "s0", Kind: domain.MiniPinStarting, Ordinal: 0},
				{ID: "s1", Kind: domain.MiniPinStarting, Ordinal: 1, Connected: true},
			},
		}}
		r := NewResolver(cfg, pins)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 80, 10)},
		}}

		draft := resolve(t, r, "N", store, cfg)
		if draft == nil {
			t.Fatal("expected a pin candidate, got nil")
		}
		want := domain.EdgeDraft{Source: "N", Target: "L", TargetHandle: "s0"}
		if *draft != want {
			t.Errorf("draft = %+v, want %+v", *draft, want)
		}
	})

	t.Run("closer pin wins when free", func(t *testing.T) {
		// Same layout as above, but s1 is unconnected. Its row sits
		// slightly nearer to N's output pin, so it must win.
		pins := fakePins{"L": {
			Starting: []domain.MiniPin{
				{ID: "s0", Kind: domain.MiniPinStarting, Ordinal: 0},
				{ID: "s1", Kind: domain.MiniPinStarting, Ordinal: 1},
			},
		}}
		r := NewResolver(cfg, pins)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 80, 10)},
		}}

		draft := resolve(t, r, "N", store, cfg)
		if draft == nil {
			t.Fatal("expected a pin candidate, got nil")
		}
		if draft.TargetHandle != "s1" {
			t.Errorf("winning handle = %q, want s1", draft.TargetHandle)
		}
	})

	t.Run("ending pin links the layer as source", func(t *testing.T) {
		pins := fakePins{"L": {
			Ending: []domain.MiniPin{{ID: "e0", Kind: domain.MiniPinEnding, Ordinal: 0}},
		}}
		r := NewResolver(cfg, pins)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 660, 120)},
		}}

		draft := resolve(t, r, "N", store, cfg)
		if draft == nil {
			t.Fatal("expected a pin candidate, got nil")
		}
		want := domain.EdgeDraft{Source: "L", SourceHandle: "e0", Target: "N"}
		if *draft != want {
			t.Errorf("draft = %+v, want %+v", *draft, want)
		}
	})

	t.Run("dragging the layer itself works symmetrically", func(t *testing.T) {
		pins := fakePins{"L": {
			Starting: []domain.MiniPin{{ID: "s0", Kind: domain.MiniPinStarting, Ordinal: 0}},
		}}
		r := NewResolver(cfg, pins)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 80, 10)},
		}}

		draft := resolve(t, r, "L", store, cfg)
		if draft == nil {
			t.Fatal("expected a pin candidate, got nil")
		}
		want := domain.EdgeDraft{Source: "N", Target: "L", TargetHandle: "s0"}
		if *draft != want {
			t.Errorf("draft = %+v, want %+v", *draft, want)
		}
	})

	t.Run("pin already linked to that node is skipped", func(t *testing.T) {
		pins := fakePins{"L": {
			Starting: []domain.MiniPin{{
				ID: "s0", Kind: domain.MiniPinStarting, Ordinal: 0,
				ConnectionIDs: []string{"conn-1"},
			}},
		}}
		r := NewResolver(cfg, pins)
		// Choice nodes so N and M cannot pair with each other.
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{
				layerNode,
				testNode("N", domain.NodeTypeChoice, 80, 10, 100, 60),
				testNode("M", domain.NodeTypeChoice, 80, 40, 100, 60),
			},
			Edges: []domain.Edge{{
				ID: "conn-1", Source: "N", Target: "L", TargetHandle: "s0",
				Kind: domain.EdgeKindPermanent,
			}},
		}}

		if draft := resolve(t, r, "N", store, cfg); draft != nil {
			t.Errorf("relinked pin resolved to %+v, want nil", *draft)
		}

		// Another node is still welcome on the same pin.
		draft := resolve(t, r, "M", store, cfg)
		if draft == nil {
			t.Fatal("expected the pin to accept a different node")
		}
		if draft.Source != "M" || draft.TargetHandle != "s0" {
			t.Errorf("draft = %+v, want M onto s0", *draft)
		}
	})

	t.Run("no pin source means no layer candidates", func(t *testing.T) {
		r := NewResolver(cfg, nil)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 80, 10)},
		}}

		if draft := resolve(t, r, "N", store, cfg); draft != nil {
			t.Errorf("resolved %+v without a pin source, want nil", *draft)
		}
	})

	t.Run("layer without pins yields nothing", func(t *testing.T) {
		r := NewResolver(cfg, fakePins{})
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 80, 10)},
		}}

		if draft := resolve(t, r, "N", store, cfg); draft != nil {
			t.Errorf("resolved %+v for an unlisted layer, want nil", *draft)
		}
	})

	t.Run("measured panel offset moves the pin rows", func(t *testing.T) {
		pins := fakePins{"L": {
			Starting: []domain.MiniPin{{ID: "s0", Kind: domain.MiniPinStarting, Ordinal: 0}},
		}}
		r := NewResolver(cfg, pins)
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{layerNode, narrative("N", 80, 130)},
		}}

		// With the fallback offset the pin row sits near the layer top and
		// N is out of range; the measured offset pushes it within reach.
		offset := 150.0
		oracle := layout.Static{"L": {StartingPanelOffset: &offset}}
		sess := newSession("N", store.Snapshot(), oracle, cfg.normalized())

		draft := r.Resolve("N", store.Snapshot(), sess)
		if draft == nil {
			t.Fatal("expected a pin candidate with measured geometry")
		}
		if draft.TargetHandle != "s0" {
			t.Errorf("winning handle = %q, want s0", draft.TargetHandle)
		}

		if fallback := r.Resolve("N", store.Snapshot(), sessionFor("N", store, cfg)); fallback != nil {
			t.Errorf("fallback geometry resolved %+v, want nil", *fallback)
		}
	})
}

func TestResolveGuards(t *testing.T) {
	cfg := testConfig(150)
	r := NewResolver(cfg, nil)

	t.Run("nil session", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0), narrative("B", 200, 0)},
		}}

		if draft := r.Resolve("B", store.Snapshot(), nil); draft != nil {
			t.Errorf("nil session resolved to %+v", *draft)
		}
	})

	t.Run("unknown dragged node", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0)},
		}}

		if draft := resolve(t, r, "ghost", store, cfg); draft != nil {
			t.Errorf("unknown node resolved to %+v", *draft)
		}
	})

	t.Run("empty canvas", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{}}

		if draft := resolve(t, r, "A", store, cfg); draft != nil {
			t.Errorf("empty canvas resolved to %+v", *draft)
		}
	})

	t.Run("dragged node alone on the canvas", func(t *testing.T) {
		store := &fakeStore{snap: domain.Snapshot{
			Nodes: []domain.Node{narrative("A", 0, 0)},
		}}

		if draft := resolve(t, r, "A", store, cfg); draft != nil {
			t.Errorf("lone node resolved to %+v", *draft)
		}
	})
}
