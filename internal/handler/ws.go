package handler

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/layout"
	"github.com/goflowspace/linksnap/internal/service"
	"github.com/goflowspace/linksnap/internal/snap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The editor UI runs on its own dev server during development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DragMessage is one client-to-server message on the drag socket.
//
// Types: "move" carries the dragged node and its new position, "stop" ends
// the gesture, "pan" flips the viewport pan state, "geometry" reports a
// rendered layer's measurements.
type DragMessage struct {
	Type     string                `json:"type"`
	Node     string                `json:"node,omitempty"`
	X        float64               `json:"x,omitempty"`
	Y        float64               `json:"y,omitempty"`
	Panning  bool                  `json:"panning,omitempty"`
	Layer    string                `json:"layer,omitempty"`
	Geometry *layout.LayerGeometry `json:"geometry,omitempty"`
}

// DragHandler runs the drag gesture protocol over a websocket. Every
// pointer move drives one engine tick; canvas events flow back to the
// client as they are published.
type DragHandler struct {
	svc      *service.CanvasService
	engine   *snap.Engine
	geometry *layout.Cache
	bus      *service.EventBus
	log      zerolog.Logger

	// The engine is single-threaded by contract; gestures from every
	// socket serialize here.
	mu sync.Mutex
}

// NewDragHandler creates a drag socket handler.
func NewDragHandler(svc *service.CanvasService, engine *snap.Engine, geometry *layout.Cache, bus *service.EventBus, log zerolog.Logger) *DragHandler {
	return &DragHandler{
		svc:      svc,
		engine:   engine,
		geometry: geometry,
		bus:      bus,
		log:      log,
	}
}

// ServeHTTP upgrades the connection and runs the message loop until the
// client disconnects.
func (h *DragHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := make(chan service.Event, 64)
	h.bus.Subscribe(events)
	defer h.bus.Unsubscribe(events)

	done := make(chan struct{})
	defer close(done)
	go h.forwardEvents(conn, events, done)

	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("drag socket connected")

	for {
		var msg DragMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn().Err(err).Msg("drag socket closed unexpectedly")
			}
			return
		}
		h.handle(msg)
	}
}

func (h *DragHandler) handle(msg DragMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch msg.Type {
	case "move":
		if err := h.svc.MoveNode(msg.Node, msg.X, msg.Y); err != nil {
			h.log.Debug().Err(err).Msg("move ignored")
			return
		}
		h.engine.OnDragMove(msg.Node)
	case "stop":
		h.engine.OnDragStop()
		if msg.Node != "" {
			if err := h.svc.SavePosition(msg.Node); err != nil {
				h.log.Error().Err(err).Str("node_id", msg.Node).Msg("failed to persist position")
			}
		}
	case "pan":
		h.svc.SetPanning(msg.Panning)
	case "geometry":
		if msg.Layer != "" && msg.Geometry != nil {
			h.geometry.Report(msg.Layer, *msg.Geometry)
		}
	default:
		h.log.Warn().Str("type", msg.Type).Msg("unknown drag message")
	}
}

// forwardEvents relays canvas events to the client. The connection is
// written only from this goroutine; gorilla allows one concurrent writer.
func (h *DragHandler) forwardEvents(conn *websocket.Conn, events <-chan service.Event, done <-chan struct{}) {
	for {
		select {
		case ev := <-events:
			if ev.Type == service.EventNodeMoved {
				// The dragging client already knows where its pointer is
				continue
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
