package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/goflowspace/linksnap/internal/codec"
	"github.com/goflowspace/linksnap/internal/command"
	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/store"
	"github.com/goflowspace/linksnap/internal/store/sqlite"
)

// SettingsSource yields the editor settings committed edges are styled
// with.
type SettingsSource interface {
	Current() domain.EditorSettings
}

// CanvasService coordinates the in-memory canvas, the undo history, the
// event bus and the sqlite write-through. It sits between the snap engine
// and the store on both sides of the engine's contract: it is the store the
// engine watches, so preview churn surfaces as events, and it is the
// connector the engine commits through.
type CanvasService struct {
	store    *store.Memory
	repo     *sqlite.Repository // nil when running without persistence
	history  *command.History
	settings SettingsSource
	eventBus *EventBus
	log      zerolog.Logger

	canvasID   string
	canvasName string
}

// NewCanvasService creates a service over the given store. repo may be nil;
// the service then keeps everything in memory.
func NewCanvasService(st *store.Memory, repo *sqlite.Repository, settings SettingsSource, eventBus *EventBus, log zerolog.Logger) *CanvasService {
	return &CanvasService{
		store:    st,
		repo:     repo,
		history:  command.NewHistory(st),
		settings: settings,
		eventBus: eventBus,
		log:      log,
		canvasID: "default",
	}
}

// Load pulls a canvas out of sqlite into memory. A missing canvas is not an
// error; the editor starts empty.
func (s *CanvasService) Load(ctx context.Context, canvasID string) error {
	s.canvasID = canvasID
	s.history.Reset()
	if s.repo == nil {
		return nil
	}

	canvas, err := s.repo.LoadCanvas(ctx, canvasID)
	if err != nil {
		return fmt.Errorf("failed to load canvas %s: %w", canvasID, err)
	}
	if canvas == nil {
		// Seed the canvas row so later edge and pin write-throughs have a
		// parent to reference.
		if err := s.repo.SaveCanvas(ctx, &domain.Canvas{ID: canvasID}); err != nil {
			return fmt.Errorf("failed to create canvas %s: %w", canvasID, err)
		}
		return nil
	}

	s.store.LoadCanvas(canvas)
	s.canvasName = canvas.Name
	return nil
}

// Snapshot returns the live canvas state.
func (s *CanvasService) Snapshot() domain.Snapshot {
	return s.store.Snapshot()
}

// Canvas returns the current canvas as a document, previews excluded.
func (s *CanvasService) Canvas() *domain.Canvas {
	return s.store.ExportCanvas(s.canvasID, s.canvasName)
}

// SetEdges forwards the engine's edge writes and turns preview churn into
// events. There is at most one preview in the slice, so the diff is
// presence plus id: a new id means a preview was installed or replaced, an
// empty one means it was cleared.
func (s *CanvasService) SetEdges(edges []domain.Edge) {
	before := previewIn(s.store.Snapshot().Edges)
	s.store.SetEdges(edges)
	after := previewIn(edges)

	switch {
	case after == nil && before != nil:
		s.eventBus.Publish(Event{
			Type:    EventEdgePreviewCleared,
			Payload: map[string]string{"edge_id": before.ID},
		})
	case after != nil && (before == nil || before.ID != after.ID):
		s.eventBus.Publish(Event{Type: EventEdgePreview, Payload: *after})
	}
}

func previewIn(edges []domain.Edge) *domain.Edge {
	for i := range edges {
		if edges[i].IsPreview() {
			return &edges[i]
		}
	}
	return nil
}

// SetPanning flips the camera-panning flag.
func (s *CanvasService) SetPanning(v bool) {
	s.store.SetPanning(v)
}

// ConnectAsChoiceOrigin commits a draft whose source is a choice node.
func (s *CanvasService) ConnectAsChoiceOrigin(draft domain.EdgeDraft) error {
	return s.connect(draft, domain.NodeTypeChoice)
}

// ConnectAsNarrativeOrigin commits a draft originating anywhere else.
func (s *CanvasService) ConnectAsNarrativeOrigin(draft domain.EdgeDraft) error {
	return s.connect(draft, domain.NodeTypeNarrative)
}

func (s *CanvasService) connect(draft domain.EdgeDraft, origin domain.NodeType) error {
	edge, err := s.history.Connect(draft, s.committedStyle())
	if err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventEdgeCommitted,
		Payload: map[string]interface{}{"edge": edge, "origin": string(origin)},
	})

	s.persistEdge(edge)
	s.persistPinsTouching(edge)
	return nil
}

func (s *CanvasService) committedStyle() domain.EdgeStyle {
	set := domain.DefaultEditorSettings()
	if s.settings != nil {
		set = s.settings.Current()
	}
	return domain.DeriveEdgeStyle(set.LinkThickness, set.LinkStyle, set.CanvasColorScheme, false)
}

// Disconnect removes a committed edge, recording its inverse for undo.
func (s *CanvasService) Disconnect(edgeID string) error {
	edge, err := s.history.Disconnect(edgeID)
	if err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventEdgeRemoved,
		Payload: map[string]string{"edge_id": edge.ID},
	})

	s.deletePersistedEdge(edge)
	s.persistPinsTouching(edge)
	return nil
}

// Undo reverses the most recent connect or disconnect.
func (s *CanvasService) Undo() (command.Action, bool) {
	action, ok := s.history.Undo()
	if !ok {
		return command.Action{}, false
	}
	s.publishHistory("undo", action)
	s.persistHistory(action, action.Type == command.ActionConnect)
	return action, true
}

// Redo reapplies the most recently undone action.
func (s *CanvasService) Redo() (command.Action, bool) {
	action, ok := s.history.Redo()
	if !ok {
		return command.Action{}, false
	}
	s.publishHistory("redo", action)
	s.persistHistory(action, action.Type == command.ActionDisconnect)
	return action, true
}

// HistoryDepth reports the undo and redo stack sizes.
func (s *CanvasService) HistoryDepth() (undo, redo int) {
	return s.history.Depth()
}

func (s *CanvasService) publishHistory(direction string, action command.Action) {
	s.eventBus.Publish(Event{
		Type: EventUndoApplied,
		Payload: map[string]string{
			"direction": direction,
			"action":    string(action.Type),
			"edge_id":   action.Edge.ID,
		},
	})
}

// persistHistory mirrors an applied history step into sqlite. removed is
// whether the step left the edge absent from the canvas.
func (s *CanvasService) persistHistory(action command.Action, removed bool) {
	if removed {
		s.deletePersistedEdge(&action.Edge)
	} else {
		s.persistEdge(&action.Edge)
	}
	s.persistPinsTouching(&action.Edge)
}

// MoveNode repositions a node. Moves stay in memory; the caller flushes the
// final position once per gesture with SavePosition.
func (s *CanvasService) MoveNode(id string, x, y float64) error {
	if !s.store.MoveNode(id, x, y) {
		return fmt.Errorf("node %s not found", id)
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeMoved,
		Payload: map[string]interface{}{"node_id": id, "x": x, "y": y},
	})
	return nil
}

// SavePosition writes a node's current coordinates through to sqlite.
func (s *CanvasService) SavePosition(id string) error {
	snapshot := s.store.Snapshot()
	node, ok := snapshot.Node(id)
	if !ok {
		return fmt.Errorf("node %s not found", id)
	}
	if s.repo == nil {
		return nil
	}

	positions := map[string]domain.Point{id: node.Position}
	if err := s.repo.SavePositions(context.Background(), s.canvasID, positions); err != nil {
		return fmt.Errorf("failed to persist position of %s: %w", id, err)
	}
	return nil
}

// UpsertNode creates or replaces a node.
func (s *CanvasService) UpsertNode(ctx context.Context, node domain.Node) error {
	if err := s.validateNode(&node); err != nil {
		return err
	}

	s.store.UpsertNode(node)
	s.eventBus.Publish(Event{
		Type:    EventNodeUpserted,
		Payload: map[string]string{"node_id": node.ID, "type": string(node.Type)},
	})

	s.persistCanvas(ctx)
	return nil
}

// RemoveNode deletes a node along with its edges and pin panel.
func (s *CanvasService) RemoveNode(ctx context.Context, id string) error {
	if !s.store.RemoveNode(id) {
		return fmt.Errorf("node %s not found", id)
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeRemoved,
		Payload: map[string]string{"node_id": id},
	})

	s.persistCanvas(ctx)
	return nil
}

// SetMiniPins replaces a layer's pin panels.
func (s *CanvasService) SetMiniPins(ctx context.Context, layerID string, pins domain.MiniPins) error {
	snapshot := s.store.Snapshot()
	node, ok := snapshot.Node(layerID)
	if !ok {
		return fmt.Errorf("node %s not found", layerID)
	}
	if !node.IsLayer() {
		return fmt.Errorf("node %s is not a layer", layerID)
	}

	s.store.SetMiniPins(layerID, pins)
	s.eventBus.Publish(Event{
		Type:    EventNodeUpserted,
		Payload: map[string]string{"node_id": layerID},
	})

	if s.repo != nil {
		if err := s.repo.SavePins(ctx, s.canvasID, layerID, pins); err != nil {
			s.log.Error().Err(err).Str("layer_id", layerID).Msg("failed to persist pins")
		}
	}
	return nil
}

// ImportYAML replaces the canvas with a YAML document.
func (s *CanvasService) ImportYAML(ctx context.Context, data []byte) error {
	return s.importWith(ctx, codec.NewYAMLCodec(), data)
}

// ImportJSON replaces the canvas with a JSON document.
func (s *CanvasService) ImportJSON(ctx context.Context, data []byte) error {
	return s.importWith(ctx, codec.NewJSONCodec(), data)
}

func (s *CanvasService) importWith(ctx context.Context, imp codec.Importer, data []byte) error {
	canvas, err := imp.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := canvas.Validate(); err != nil {
		return fmt.Errorf("invalid canvas document: %w", err)
	}

	s.store.LoadCanvas(canvas)
	s.history.Reset()
	s.canvasID = canvas.ID
	s.canvasName = canvas.Name

	s.eventBus.Publish(Event{
		Type: EventCanvasReplaced,
		Payload: map[string]interface{}{
			"canvas_id": canvas.ID,
			"nodes":     len(canvas.Nodes),
			"edges":     len(canvas.Edges),
		},
	})

	if s.repo != nil {
		if err := s.repo.SaveCanvas(ctx, canvas); err != nil {
			s.log.Error().Err(err).Str("canvas_id", canvas.ID).Msg("failed to persist imported canvas")
		}
	}
	return nil
}

// ExportYAML writes the canvas as a YAML document.
func (s *CanvasService) ExportYAML(w io.Writer) error {
	return codec.NewYAMLCodec().Export(s.Canvas(), w)
}

// ExportJSON returns the canvas as a JSON document.
func (s *CanvasService) ExportJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := codec.NewJSONCodec().Export(s.Canvas(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write-through helpers. Persistence failures are logged, not returned: the
// in-memory canvas is the source of truth and a gesture must not fail on a
// disk hiccup.

func (s *CanvasService) persistEdge(edge *domain.Edge) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveEdge(context.Background(), s.canvasID, edge); err != nil {
		s.log.Error().Err(err).Str("edge_id", edge.ID).Msg("failed to persist edge")
	}
}

func (s *CanvasService) deletePersistedEdge(edge *domain.Edge) {
	if s.repo == nil {
		return
	}
	if err := s.repo.DeleteEdge(context.Background(), s.canvasID, edge.ID); err != nil {
		s.log.Error().Err(err).Str("edge_id", edge.ID).Msg("failed to delete persisted edge")
	}
}

// persistPinsTouching mirrors the pin panels of any layer the edge attaches
// to through a handle.
func (s *CanvasService) persistPinsTouching(edge *domain.Edge) {
	if s.repo == nil || !edge.IsPin() {
		return
	}

	layers := make([]string, 0, 2)
	if edge.SourceHandle != "" {
		layers = append(layers, edge.Source)
	}
	if edge.TargetHandle != "" {
		layers = append(layers, edge.Target)
	}

	for _, layerID := range layers {
		pins, ok := s.store.MiniPins(layerID)
		if !ok {
			continue
		}
		if err := s.repo.SavePins(context.Background(), s.canvasID, layerID, pins); err != nil {
			s.log.Error().Err(err).Str("layer_id", layerID).Msg("failed to persist pins")
		}
	}
}

func (s *CanvasService) persistCanvas(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveCanvas(ctx, s.Canvas()); err != nil {
		s.log.Error().Err(err).Str("canvas_id", s.canvasID).Msg("failed to persist canvas")
	}
}

// Validation helpers

func (s *CanvasService) validateNode(node *domain.Node) error {
	if node.ID == "" {
		return fmt.Errorf("node ID required")
	}
	if node.Type == "" {
		return fmt.Errorf("node type required")
	}
	return nil
}
