// Package command mutates the live canvas on behalf of the engine and the
// API, pairing every mutation with its inverse so gestures are undoable.
package command

import (
	"fmt"
	"sync"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/store"
)

// ActionType names an undoable mutation.
type ActionType string

const (
	ActionConnect    ActionType = "connect"
	ActionDisconnect ActionType = "disconnect"
)

// Action is one entry on the undo or redo stack. The edge carries enough to
// apply the action in either direction: connecting is adding it and linking
// its pins, disconnecting is the exact reverse.
type Action struct {
	Type ActionType
	Edge domain.Edge
}

// defaultLimit bounds the undo stack; the oldest entries fall off.
const defaultLimit = 100

// History applies edge mutations to the store and records them.
type History struct {
	mu    sync.Mutex
	store *store.Memory
	undo  []Action
	redo  []Action
	limit int
}

// NewHistory creates an empty history over the given store.
func NewHistory(st *store.Memory) *History {
	return &History{store: st, limit: defaultLimit}
}

// Connect materializes a draft as a permanent edge, links any mini-pins it
// addresses and records the action. Edge ids are content-derived, so an
// identical draft collides with its earlier self; that collision is the
// commit-time duplicate re-check.
func (h *History) Connect(draft domain.EdgeDraft, style domain.EdgeStyle) (*domain.Edge, error) {
	if draft.Source == "" || draft.Target == "" {
		return nil, fmt.Errorf("connect requires both endpoints, got %q -> %q", draft.Source, draft.Target)
	}

	edge := domain.NewPermanentEdge(draft, style)
	if !h.store.AddEdge(*edge) {
		return nil, fmt.Errorf("connection %s -> %s already exists", draft.Source, draft.Target)
	}
	h.linkPins(edge)

	h.mu.Lock()
	h.push(Action{Type: ActionConnect, Edge: *edge})
	h.redo = nil
	h.mu.Unlock()

	return edge, nil
}

// Disconnect removes an edge by id, unlinks its pins and records the
// action.
func (h *History) Disconnect(edgeID string) (*domain.Edge, error) {
	snap := h.store.Snapshot()
	edge, ok := snap.EdgeByID(edgeID)
	if !ok {
		return nil, fmt.Errorf("edge %s not found", edgeID)
	}
	if edge.IsPreview() {
		return nil, fmt.Errorf("edge %s is a preview, nothing to disconnect", edgeID)
	}

	h.store.RemoveEdge(edge.ID)
	h.unlinkPins(edge)

	h.mu.Lock()
	h.push(Action{Type: ActionDisconnect, Edge: *edge})
	h.redo = nil
	h.mu.Unlock()

	return edge, nil
}

// Undo reverses the most recent action, reporting it and whether there was
// one.
func (h *History) Undo() (Action, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return Action{}, false
	}

	last := len(h.undo) - 1
	action := h.undo[last]
	h.undo = h.undo[:last]

	switch action.Type {
	case ActionConnect:
		h.store.RemoveEdge(action.Edge.ID)
		h.unlinkPins(&action.Edge)
	case ActionDisconnect:
		h.store.AddEdge(action.Edge)
		h.linkPins(&action.Edge)
	}

	h.redo = append(h.redo, action)
	return action, true
}

// Redo reapplies the most recently undone action.
func (h *History) Redo() (Action, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return Action{}, false
	}

	last := len(h.redo) - 1
	action := h.redo[last]
	h.redo = h.redo[:last]

	switch action.Type {
	case ActionConnect:
		h.store.AddEdge(action.Edge)
		h.linkPins(&action.Edge)
	case ActionDisconnect:
		h.store.RemoveEdge(action.Edge.ID)
		h.unlinkPins(&action.Edge)
	}

	h.undo = append(h.undo, action)
	return action, true
}

// Depth reports the undo and redo stack sizes.
func (h *History) Depth() (undo, redo int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo), len(h.redo)
}

// Reset drops both stacks. Call it when the canvas is replaced wholesale;
// recorded actions reference edges that no longer exist.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}

// push appends under the held lock, trimming the oldest entry past the
// limit.
func (h *History) push(a Action) {
	h.undo = append(h.undo, a)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
}

func (h *History) linkPins(e *domain.Edge) {
	if e.SourceHandle != "" {
		h.store.LinkPin(e.Source, e.SourceHandle, e.ID)
	}
	if e.TargetHandle != "" {
		h.store.LinkPin(e.Target, e.TargetHandle, e.ID)
	}
}

func (h *History) unlinkPins(e *domain.Edge) {
	if e.SourceHandle != "" {
		h.store.UnlinkPin(e.Source, e.SourceHandle, e.ID)
	}
	if e.TargetHandle != "" {
		h.store.UnlinkPin(e.Target, e.TargetHandle, e.ID)
	}
}
