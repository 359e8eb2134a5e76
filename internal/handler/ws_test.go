package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/layout"
	"github.com/goflowspace/linksnap/internal/service"
	"github.com/goflowspace/linksnap/internal/settings"
	"github.com/goflowspace/linksnap/internal/snap"
	"github.com/goflowspace/linksnap/internal/store"
)

type dragFixture struct {
	srv   *httptest.Server
	svc   *service.CanvasService
	cache *layout.Cache
}

func newDragFixture(t *testing.T) *dragFixture {
	t.Helper()

	st := store.NewMemory()
	st.UpsertNode(domain.Node{
		ID: "Y", Type: domain.NodeTypeNarrative,
		Position: domain.Point{X: 200, Y: 0},
		Size:     domain.Size{Width: 100, Height: 150},
	})
	st.UpsertNode(domain.Node{
		ID: "X", Type: domain.NodeTypeNarrative,
		Position: domain.Point{X: 600, Y: 600},
		Size:     domain.Size{Width: 100, Height: 150},
	})

	prov := settings.NewStatic(domain.DefaultEditorSettings())
	bus := service.NewEventBus()
	svc := service.NewCanvasService(st, nil, prov, bus, zerolog.Nop())
	cache := layout.NewCache()
	engine := snap.NewEngine(snap.DefaultConfig(), snap.Deps{
		Store:     svc,
		Settings:  prov,
		Pins:      st,
		Oracle:    cache,
		Connector: svc,
		Logger:    zerolog.Nop(),
	})

	h := NewDragHandler(svc, engine, cache, bus, zerolog.Nop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &dragFixture{srv: srv, svc: svc, cache: cache}
}

func (f *dragFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial drag socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TestDragSocketCommit replays a full gesture over the socket: X walks from
// far away to overlap Y, stop lands, and the client hears the preview and
// the commit.
func TestDragSocketCommit(t *testing.T) {
	f := newDragFixture(t)
	conn := f.dial(t)

	for i := 1; i <= 10; i++ {
		step := float64(i) / 10
		msg := DragMessage{
			Type: "move",
			Node: "X",
			X:    600 - 390*step,
			Y:    600 - 590*step,
		}
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("send move %d: %v", i, err)
		}
	}
	if err := conn.WriteJSON(DragMessage{Type: "stop", Node: "X"}); err != nil {
		t.Fatalf("send stop: %v", err)
	}

	seen := map[string]bool{}
	deadline := time.Now().Add(5 * time.Second)
	for !seen["edge.committed"] {
		conn.SetReadDeadline(deadline)
		var ev struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("waiting for commit (saw %v): %v", seen, err)
		}
		seen[ev.Type] = true
	}

	if !seen["edge.preview"] {
		t.Error("no preview event before the commit")
	}

	edges := f.svc.Snapshot().Edges
	if len(edges) != 1 || edges[0].Kind != domain.EdgeKindPermanent {
		t.Fatalf("edges = %+v, want one permanent", edges)
	}
	if edges[0].Source != "Y" || edges[0].Target != "X" {
		t.Errorf("committed %s -> %s, want Y -> X", edges[0].Source, edges[0].Target)
	}
}

func TestDragSocketStateMessages(t *testing.T) {
	f := newDragFixture(t)
	conn := f.dial(t)

	if err := conn.WriteJSON(DragMessage{Type: "pan", Panning: true}); err != nil {
		t.Fatalf("send pan: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !f.svc.Snapshot().Panning {
		if time.Now().After(deadline) {
			t.Fatal("pan state never reached the store")
		}
		time.Sleep(10 * time.Millisecond)
	}

	offset := 36.0
	err := conn.WriteJSON(DragMessage{
		Type:  "geometry",
		Layer: "L",
		Geometry: &layout.LayerGeometry{
			Rect:                domain.Rect{X: 0, Y: 400, W: 320, H: 200},
			StartingPanelOffset: &offset,
		},
	})
	if err != nil {
		t.Fatalf("send geometry: %v", err)
	}
	for f.cache.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("geometry report never reached the cache")
		}
		time.Sleep(10 * time.Millisecond)
	}

	geom, ok := f.cache.LayerGeometry("L")
	if !ok || geom.StartingPanelOffset == nil || *geom.StartingPanelOffset != 36 {
		t.Errorf("cached geometry = %+v", geom)
	}
}
