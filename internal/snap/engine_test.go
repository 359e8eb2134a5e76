package snap

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/domain"
)

type engineFixture struct {
	engine    *Engine
	store     *fakeStore
	settings  *fakeSettings
	connector *fakeConnector
}

func newEngineFixture(cfg Config, nodes ...domain.Node) *engineFixture {
	store := &fakeStore{snap: domain.Snapshot{Nodes: nodes}}
	settings := newFakeSettings()
	connector := &fakeConnector{store: store}
	engine := NewEngine(cfg, Deps{
		Store:     store,
		Settings:  settings,
		Connector: connector,
		Logger:    zerolog.Nop(),
	})
	return &engineFixture{engine: engine, store: store, settings: settings, connector: connector}
}

// TestEngineDragAndCommit walks a node across the canvas toward a stationary
// one and releases it overlapping the target: the preview appears only once
// the nodes are in range and the drop commits a single left-to-right edge.
func TestEngineDragAndCommit(t *testing.T) {
	cfg := testConfig(160)
	cfg.ThrottleFactor = 3
	f := newEngineFixture(cfg,
		testNode("Y", domain.NodeTypeNarrative, 200, 0, 100, 150),
		testNode("X", domain.NodeTypeNarrative, 600, 600, 100, 150),
	)

	// Ten move events along the straight line from (600,600) to (210,10).
	// The caller contract: position first, then the move notification.
	for i := 1; i <= 10; i++ {
		step := float64(i) / 10
		f.store.moveNode("X", 600-390*step, 600-590*step)
		f.engine.OnDragMove("X")

		if i <= 9 {
			if n := len(f.store.previewEdges()); n != 0 {
				t.Fatalf("preview appeared out of range at step %d", i)
			}
		}
	}

	previews := f.store.previewEdges()
	if len(previews) != 1 {
		t.Fatalf("preview count at drop position = %d, want 1", len(previews))
	}
	if previews[0].Source != "Y" || previews[0].Target != "X" {
		t.Errorf("preview %s -> %s, want Y -> X", previews[0].Source, previews[0].Target)
	}

	f.engine.OnDragStop()

	perms := f.store.permanentEdges()
	if len(perms) != 1 {
		t.Fatalf("permanent edges = %d, want 1", len(perms))
	}
	if perms[0].Source != "Y" || perms[0].Target != "X" {
		t.Errorf("committed %s -> %s, want Y -> X (left node is the source)", perms[0].Source, perms[0].Target)
	}
	if len(f.connector.narrativeDraft) != 1 {
		t.Errorf("narrative commands = %d, want 1", len(f.connector.narrativeDraft))
	}
	if n := len(f.store.previewEdges()); n != 0 {
		t.Errorf("preview edges after stop = %d, want 0", n)
	}
	if f.engine.Session() != nil {
		t.Error("session survived the stop")
	}
}

func TestEngineSessionLifecycle(t *testing.T) {
	cfg := testConfig(150)

	t.Run("session persists across moves of the same node", func(t *testing.T) {
		f := newEngineFixture(cfg, narrative("A", 0, 0), narrative("B", 600, 0))

		f.engine.OnDragMove("B")
		sess := f.engine.Session()
		if sess == nil {
			t.Fatal("no session after the first move")
		}

		f.store.moveNode("B", 500, 0)
		f.engine.OnDragMove("B")
		if f.engine.Session() != sess {
			t.Error("session was rebuilt for the same dragged node")
		}
	})

	t.Run("switching nodes starts a fresh session", func(t *testing.T) {
		f := newEngineFixture(cfg, narrative("A", 0, 0), narrative("B", 600, 0))

		f.engine.OnDragMove("B")
		first := f.engine.Session()

		f.engine.OnDragMove("A")
		second := f.engine.Session()
		if second == first {
			t.Fatal("abandoned session was reused for a different node")
		}
		if second.DraggedID != "A" {
			t.Errorf("session node = %q, want A", second.DraggedID)
		}
	})

	t.Run("stop without a gesture is harmless", func(t *testing.T) {
		f := newEngineFixture(cfg, narrative("A", 0, 0))

		f.engine.OnDragStop()

		if f.connector.calls() != 0 {
			t.Errorf("commands issued = %d, want 0", f.connector.calls())
		}
	})

	t.Run("zero config is filled with defaults", func(t *testing.T) {
		f := newEngineFixture(Config{}, narrative("A", 0, 0))

		got := f.engine.Config()
		want := DefaultConfig()
		if got.ConnectDistance != want.ConnectDistance {
			t.Errorf("connect distance = %v, want %v", got.ConnectDistance, want.ConnectDistance)
		}
		if got.ThrottleFactor != want.ThrottleFactor {
			t.Errorf("throttle factor = %d, want %d", got.ThrottleFactor, want.ThrottleFactor)
		}
	})
}

func TestEnginePanGate(t *testing.T) {
	cfg := testConfig(150)

	t.Run("moves during panning are ignored", func(t *testing.T) {
		f := newEngineFixture(cfg, narrative("A", 0, 0), narrative("B", 200, 0))
		f.store.snap.Panning = true

		f.engine.OnDragMove("B")

		if f.engine.Session() != nil {
			t.Error("session created while panning")
		}
		if f.store.setCalls != 0 {
			t.Errorf("store writes = %d, want 0", f.store.setCalls)
		}
	})

	t.Run("stop during panning discards the gesture whole", func(t *testing.T) {
		f := newEngineFixture(cfg, narrative("A", 0, 0), narrative("B", 200, 0))

		f.engine.OnDragMove("B")
		if len(f.store.previewEdges()) != 1 {
			t.Fatal("expected a preview before panning")
		}

		f.store.snap.Panning = true
		f.engine.OnDragStop()

		if f.connector.calls() != 0 {
			t.Errorf("commands issued = %d, want 0", f.connector.calls())
		}
		if f.engine.Session() != nil {
			t.Error("session survived the pan stop")
		}
		// The whole pipeline is disabled during a pan, so the stray
		// preview stays until the next gesture sweeps it.
		if len(f.store.previewEdges()) != 1 {
			t.Fatal("pan stop touched the edge collection")
		}

		f.store.snap.Panning = false
		f.engine.OnDragStop()
		if n := len(f.store.previewEdges()); n != 0 {
			t.Errorf("stray preview not swept by the next stop, count = %d", n)
		}
	})
}

func TestEngineSnappingToggle(t *testing.T) {
	cfg := testConfig(150)
	f := newEngineFixture(cfg, narrative("A", 0, 0), narrative("B", 200, 0))

	f.engine.OnDragMove("B")
	if len(f.store.previewEdges()) != 1 {
		t.Fatal("expected a preview while snapping is on")
	}

	f.settings.current.LinkSnappingEnabled = false
	f.engine.OnDragMove("B")
	if n := len(f.store.previewEdges()); n != 0 {
		t.Fatalf("preview count after disabling = %d, want 0", n)
	}

	f.engine.OnDragStop()
	if f.connector.calls() != 0 {
		t.Errorf("commands issued = %d, want 0 with snapping off", f.connector.calls())
	}
	if n := len(f.store.permanentEdges()); n != 0 {
		t.Errorf("permanent edges = %d, want 0", n)
	}
}
