package snap

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/domain"
)

func newPreviewFixture(cfg Config) (*PreviewController, *fakeStore, *fakeSettings) {
	store := &fakeStore{snap: domain.Snapshot{
		Nodes: []domain.Node{
			narrative("A", 0, 0),
			narrative("C", 0, 200),
			narrative("B", 200, 0),
		},
	}}
	settings := newFakeSettings()
	resolver := NewResolver(cfg, nil)
	return NewPreviewController(cfg, store, settings, resolver, zerolog.Nop()), store, settings
}

func TestPreviewLifecycle(t *testing.T) {
	cfg := testConfig(150)

	t.Run("winner installs exactly one preview", func(t *testing.T) {
		p, store, _ := newPreviewFixture(cfg)
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)

		previews := store.previewEdges()
		if len(previews) != 1 {
			t.Fatalf("preview count = %d, want 1", len(previews))
		}
		e := previews[0]
		if e.Source != "A" || e.Target != "B" {
			t.Errorf("preview %s -> %s, want A -> B", e.Source, e.Target)
		}
		if !strings.HasPrefix(e.ID, "preview-") {
			t.Errorf("preview id %q lacks the preview prefix", e.ID)
		}
		if got := sess.LastDraft(); got == nil || got.Source != "A" {
			t.Errorf("session draft = %+v, want A -> B", got)
		}
	})

	t.Run("unchanged winner writes nothing", func(t *testing.T) {
		p, store, _ := newPreviewFixture(cfg)
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)
		writes := store.setCalls
		p.OnDragTick(sess)
		p.OnDragTick(sess)

		if store.setCalls != writes {
			t.Errorf("store writes = %d, want %d (no rewrite for a stable winner)", store.setCalls, writes)
		}
		if len(store.previewEdges()) != 1 {
			t.Errorf("preview count = %d, want 1", len(store.previewEdges()))
		}
	})

	t.Run("new winner replaces the old preview", func(t *testing.T) {
		p, store, _ := newPreviewFixture(cfg)
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)
		store.moveNode("B", 200, 200)
		p.OnDragTick(sess)

		previews := store.previewEdges()
		if len(previews) != 1 {
			t.Fatalf("preview count = %d, want 1", len(previews))
		}
		if previews[0].Source != "C" || previews[0].Target != "B" {
			t.Errorf("preview %s -> %s, want C -> B", previews[0].Source, previews[0].Target)
		}
	})

	t.Run("losing the winner removes the preview", func(t *testing.T) {
		p, store, _ := newPreviewFixture(cfg)
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)
		store.moveNode("B", 600, 600)
		p.OnDragTick(sess)

		if n := len(store.previewEdges()); n != 0 {
			t.Errorf("preview count = %d, want 0", n)
		}
		if sess.LastDraft() != nil {
			t.Error("session still tracks a draft after the winner vanished")
		}

		// Nothing left to strip, so further ticks must not write.
		writes := store.setCalls
		p.OnDragTick(sess)
		if store.setCalls != writes {
			t.Errorf("store writes = %d, want %d", store.setCalls, writes)
		}
	})

	t.Run("permanent edges survive preview churn", func(t *testing.T) {
		p, store, _ := newPreviewFixture(cfg)
		keep := domain.NewPermanentEdge(domain.EdgeDraft{Source: "A", Target: "C"}, domain.EdgeStyle{})
		store.snap.Edges = []domain.Edge{*keep}
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)
		store.moveNode("B", 600, 600)
		p.OnDragTick(sess)

		perms := store.permanentEdges()
		if len(perms) != 1 || perms[0].ID != keep.ID {
			t.Errorf("permanent edges = %+v, want the original A -> C", perms)
		}
	})

	t.Run("nil session is a no-op", func(t *testing.T) {
		p, store, _ := newPreviewFixture(cfg)
		p.OnDragTick(nil)
		if store.setCalls != 0 {
			t.Errorf("store writes = %d, want 0", store.setCalls)
		}
	})
}

func TestPreviewThrottle(t *testing.T) {
	cfg := testConfig(150)
	cfg.ThrottleFactor = 3

	p, store, _ := newPreviewFixture(cfg)
	sess := sessionFor("B", store, cfg)

	// Tick 0 always resolves.
	p.OnDragTick(sess)
	if len(store.previewEdges()) != 1 {
		t.Fatalf("preview count after tick 0 = %d, want 1", len(store.previewEdges()))
	}

	// Ticks 1 and 2 are skipped: the stale preview stays even though the
	// node has left the range.
	store.moveNode("B", 600, 600)
	p.OnDragTick(sess)
	p.OnDragTick(sess)
	if len(store.previewEdges()) != 1 {
		t.Fatalf("skipped ticks rewrote the preview")
	}

	// Tick 3 resolves again and clears it.
	p.OnDragTick(sess)
	if n := len(store.previewEdges()); n != 0 {
		t.Errorf("preview count after tick 3 = %d, want 0", n)
	}
}

func TestPreviewSnappingDisabled(t *testing.T) {
	cfg := testConfig(150)

	t.Run("disabled from the start shows nothing", func(t *testing.T) {
		p, store, settings := newPreviewFixture(cfg)
		settings.current.LinkSnappingEnabled = false
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)

		if store.setCalls != 0 {
			t.Errorf("store writes = %d, want 0", store.setCalls)
		}
	})

	t.Run("disabling mid-drag strips the live preview", func(t *testing.T) {
		p, store, settings := newPreviewFixture(cfg)
		sess := sessionFor("B", store, cfg)

		p.OnDragTick(sess)
		if len(store.previewEdges()) != 1 {
			t.Fatal("expected a preview before the toggle")
		}

		settings.current.LinkSnappingEnabled = false
		p.OnDragTick(sess)

		if n := len(store.previewEdges()); n != 0 {
			t.Errorf("preview count = %d, want 0 after disabling", n)
		}
		if sess.LastDraft() != nil {
			t.Error("session still tracks a draft after disabling")
		}
	})
}

func TestPreviewStyling(t *testing.T) {
	cfg := testConfig(150)
	p, store, settings := newPreviewFixture(cfg)
	settings.current.LinkThickness = domain.LinkThicknessThick
	settings.current.LinkStyle = domain.LinkStyleDash
	settings.current.CanvasColorScheme = domain.ColorSchemeDark
	sess := sessionFor("B", store, cfg)

	p.OnDragTick(sess)

	previews := store.previewEdges()
	if len(previews) != 1 {
		t.Fatalf("preview count = %d, want 1", len(previews))
	}
	style := previews[0].Style
	if style.StrokeWidth != 4 {
		t.Errorf("stroke width = %v, want 4 for thick", style.StrokeWidth)
	}
	if !style.Dashed {
		t.Error("dash setting not applied to the preview")
	}
	if style.Opacity >= 1 {
		t.Errorf("opacity = %v, want a faded preview", style.Opacity)
	}
	if previews[0].Kind != domain.EdgeKindPreview {
		t.Errorf("kind = %v, want preview", previews[0].Kind)
	}
}
