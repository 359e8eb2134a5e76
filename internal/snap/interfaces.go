package snap

import "github.com/goflowspace/linksnap/internal/domain"

// Store is the canvas store surface the engine needs: snapshot reads and
// whole-slice edge writes. The engine never mutates nodes.
type Store interface {
	Snapshot() domain.Snapshot
	SetEdges(edges []domain.Edge)
}

// SettingsSource exposes the editor settings consulted on every tick.
type SettingsSource interface {
	Current() domain.EditorSettings
}

// Connector issues connect commands on drag-stop. Implementations own
// validation, persistence and undo bookkeeping; the engine never retries
// and treats errors as opaque.
type Connector interface {
	ConnectAsChoiceOrigin(draft domain.EdgeDraft) error
	ConnectAsNarrativeOrigin(draft domain.EdgeDraft) error
}

// PinSource exposes a layer's mini-pins grouped by kind.
type PinSource interface {
	MiniPins(layerID string) (domain.MiniPins, bool)
}
