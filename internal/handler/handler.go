package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/service"
)

// SettingsStore reads and writes the editor settings exposed over
// /api/settings. Both settings providers satisfy it.
type SettingsStore interface {
	Current() domain.EditorSettings
	Update(domain.EditorSettings) error
}

// CanvasHandler handles canvas API requests.
type CanvasHandler struct {
	svc      *service.CanvasService
	settings SettingsStore
	log      zerolog.Logger
}

// NewCanvasHandler creates a new canvas handler.
func NewCanvasHandler(svc *service.CanvasService, settings SettingsStore, log zerolog.Logger) *CanvasHandler {
	return &CanvasHandler{svc: svc, settings: settings, log: log}
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetCanvas returns the complete canvas document. Preview edges are not
// part of the document; live state flows over the event endpoints.
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Canvas(), http.StatusOK)
}

// CreateNode creates a new node.
func (h *CanvasHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var node domain.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpsertNode(r.Context(), node); err != nil {
		h.writeError(w, "Failed to create node", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, node, http.StatusCreated)
}

// UpdateNode creates or replaces the node named in the path.
func (h *CanvasHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var node domain.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	node.ID = id // Path wins over body

	if err := h.svc.UpsertNode(r.Context(), node); err != nil {
		h.writeError(w, "Failed to update node", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, node, http.StatusOK)
}

// DeleteNode removes a node and every edge touching it.
func (h *CanvasHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.RemoveNode(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("node_id", id).Msg("failed to delete node")
		h.writeError(w, "Failed to delete node", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdatePosition moves a node and flushes the final position. REST moves
// are one-shot; gesture streams go over the drag socket instead.
func (h *CanvasHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var pos domain.Point
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.MoveNode(id, pos.X, pos.Y); err != nil {
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	if err := h.svc.SavePosition(id); err != nil {
		h.log.Error().Err(err).Str("node_id", id).Msg("failed to persist position")
	}

	snapshot := h.svc.Snapshot()
	node, _ := snapshot.Node(id)
	h.writeJSON(w, node, http.StatusOK)
}

// UpdatePins replaces a layer's mini-pin panels.
func (h *CanvasHandler) UpdatePins(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var pins domain.MiniPins
	if err := json.NewDecoder(r.Body).Decode(&pins); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetMiniPins(r.Context(), id, pins); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to update pins", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, pins, http.StatusOK)
}

// CreateEdge connects two nodes directly, without a drag gesture. The
// connect semantics follow the source node's type, same as a gesture
// started on that node would.
func (h *CanvasHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var draft domain.EdgeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	snap := h.svc.Snapshot()
	var err error
	if src, ok := snap.Node(draft.Source); ok && src.Type == domain.NodeTypeChoice {
		err = h.svc.ConnectAsChoiceOrigin(draft)
	} else {
		err = h.svc.ConnectAsNarrativeOrigin(draft)
	}
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			h.writeError(w, "Connection already exists", err.Error(), http.StatusConflict)
			return
		}
		h.writeError(w, "Failed to create edge", err.Error(), http.StatusBadRequest)
		return
	}

	snap = h.svc.Snapshot()
	edge, _ := snap.EdgeByID(draft.DigestID())
	h.writeJSON(w, edge, http.StatusCreated)
}

// DeleteEdge disconnects an edge.
func (h *CanvasHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.Disconnect(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to delete edge", err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Undo reverses the most recent connect or disconnect.
func (h *CanvasHandler) Undo(w http.ResponseWriter, r *http.Request) {
	action, ok := h.svc.Undo()
	if !ok {
		h.writeError(w, "Nothing to undo", "", http.StatusConflict)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"direction": "undo",
		"action":    string(action.Type),
		"edge":      action.Edge,
	}, http.StatusOK)
}

// Redo re-applies the most recently undone action.
func (h *CanvasHandler) Redo(w http.ResponseWriter, r *http.Request) {
	action, ok := h.svc.Redo()
	if !ok {
		h.writeError(w, "Nothing to redo", "", http.StatusConflict)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"direction": "redo",
		"action":    string(action.Type),
		"edge":      action.Edge,
	}, http.StatusOK)
}

// GetHistory returns the undo and redo stack depths.
func (h *CanvasHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	undo, redo := h.svc.HistoryDepth()
	h.writeJSON(w, map[string]int{"undo": undo, "redo": redo}, http.StatusOK)
}

// GetSettings returns the current editor settings.
func (h *CanvasHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.settings.Current(), http.StatusOK)
}

// UpdateSettings replaces the editor settings. The engine picks the new
// values up on its next tick; no restart involved.
func (h *CanvasHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var v domain.EditorSettings
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.settings.Update(v); err != nil {
		h.log.Error().Err(err).Msg("failed to save settings")
		h.writeError(w, "Failed to save settings", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, v, http.StatusOK)
}

// ImportYAML replaces the canvas with a YAML document.
func (h *CanvasHandler) ImportYAML(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.ImportYAML(r.Context(), data); err != nil {
		h.writeError(w, "Failed to import YAML", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeImportResult(w)
}

// ImportJSON replaces the canvas with a JSON document.
func (h *CanvasHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.ImportJSON(r.Context(), data); err != nil {
		h.writeError(w, "Failed to import JSON", err.Error(), http.StatusBadRequest)
		return
	}

	h.writeImportResult(w)
}

func (h *CanvasHandler) writeImportResult(w http.ResponseWriter) {
	c := h.svc.Canvas()
	h.writeJSON(w, map[string]interface{}{
		"canvas_id": c.ID,
		"nodes":     len(c.Nodes),
		"edges":     len(c.Edges),
	}, http.StatusOK)
}

// ExportYAML exports the canvas as YAML.
func (h *CanvasHandler) ExportYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=canvas.yaml")

	if err := h.svc.ExportYAML(w); err != nil {
		h.log.Error().Err(err).Msg("failed to export YAML")
		// Can't write an error response, headers are already sent
		return
	}
}

// ExportJSON exports the canvas as JSON.
func (h *CanvasHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportJSON()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to export JSON")
		h.writeError(w, "Failed to export JSON", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=canvas.json")
	w.Write(data)
}

// Helper methods

func (h *CanvasHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (h *CanvasHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.log.Error().Err(err).Msg("failed to encode error response")
	}
}
