package domain

// NodeType classifies a canvas node.
type NodeType string

const (
	NodeTypeNarrative NodeType = "narrative"
	NodeTypeChoice    NodeType = "choice"
	NodeTypeLayer     NodeType = "layer"
	NodeTypeNote      NodeType = "note"
	NodeTypeComment   NodeType = "comment"
)

// Node is one element on the story canvas. Position is the top-left corner
// in world coordinates. Size.Width may be zero before the renderer has
// reported a measurement; callers substitute a per-type default width in
// that case. Height is always the measured value.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label,omitempty"`
	Position Point    `json:"position"`
	Size     Size     `json:"size"`
}

// NewNode creates a node at the given position.
func NewNode(id string, nodeType NodeType, pos Point, size Size) *Node {
	return &Node{
		ID:       id,
		Type:     nodeType,
		Position: pos,
		Size:     size,
	}
}

// Bounds returns the node's rectangle as stored, without any default width
// substitution.
func (n *Node) Bounds() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, W: n.Size.Width, H: n.Size.Height}
}

// IsLayer reports whether the node is a container carrying mini-pins.
func (n *Node) IsLayer() bool { return n.Type == NodeTypeLayer }

// Connectable reports whether the node may participate in link snapping at
// all, as the dragged node or as a candidate. Annotation nodes never
// connect, and unrecognized types are treated the same way.
func (n *Node) Connectable() bool {
	switch n.Type {
	case NodeTypeNarrative, NodeTypeChoice, NodeTypeLayer:
		return true
	default:
		return false
	}
}
