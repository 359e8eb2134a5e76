package domain

// EdgeKind separates committed edges from the ephemeral drag preview.
type EdgeKind string

const (
	EdgeKindPermanent EdgeKind = "permanent"
	EdgeKindPreview   EdgeKind = "preview"
)

// previewIDPrefix is the reserved id space for preview edges so they can
// never collide with a committed edge's digest id.
const previewIDPrefix = "preview-"

// Edge is a directed connection between two nodes, drawn left to right.
// Handles are set only for mini-pin attachments: TargetHandle when the edge
// enters a layer through a starting pin, SourceHandle when it leaves a layer
// through an ending pin.
type Edge struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	SourceHandle string    `json:"sourceHandle,omitempty"`
	TargetHandle string    `json:"targetHandle,omitempty"`
	Kind         EdgeKind  `json:"kind"`
	Style        EdgeStyle `json:"style"`
}

// NewPermanentEdge builds the committed edge for a draft. The id is a digest
// of the full endpoint tuple, so committing the same draft twice yields the
// same id.
func NewPermanentEdge(d EdgeDraft, style EdgeStyle) *Edge {
	return &Edge{
		ID:           d.DigestID(),
		Source:       d.Source,
		Target:       d.Target,
		SourceHandle: d.SourceHandle,
		TargetHandle: d.TargetHandle,
		Kind:         EdgeKindPermanent,
		Style:        style,
	}
}

// NewPreviewEdge builds the ephemeral edge shown while dragging.
func NewPreviewEdge(d EdgeDraft, style EdgeStyle) *Edge {
	return &Edge{
		ID:           previewIDPrefix + d.DigestID(),
		Source:       d.Source,
		Target:       d.Target,
		SourceHandle: d.SourceHandle,
		TargetHandle: d.TargetHandle,
		Kind:         EdgeKindPreview,
		Style:        style,
	}
}

// IsPreview reports whether the edge is the drag preview.
func (e *Edge) IsPreview() bool { return e.Kind == EdgeKindPreview }

// IsPin reports whether the edge attaches to a mini-pin on either end.
func (e *Edge) IsPin() bool { return e.SourceHandle != "" || e.TargetHandle != "" }

// Touches reports whether nodeID is either endpoint.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// Draft returns the edge's endpoint tuple.
func (e *Edge) Draft() EdgeDraft {
	return EdgeDraft{
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
}
