package snap

import "github.com/goflowspace/linksnap/internal/domain"

// Config collects every tuned threshold of the engine in one injectable
// struct. These are product constants, not protocol invariants; the yaml
// config layer may override any of them.
type Config struct {
	// ConnectDistance is the maximum pin-to-pin Euclidean distance for a
	// candidate to qualify.
	ConnectDistance float64

	// PinOffset is the inset of a node's input/output pin from its
	// vertical edge; PinWidth is the rendered pin width. Together they
	// place the pin center and size the dead-zone span.
	PinOffset float64
	PinWidth  float64

	// Padding widens the candidate query rectangle beyond ConnectDistance
	// so nodes whose pins are in range but whose corners are not still
	// appear in the index result.
	Padding float64

	// PinTopOffset is the fixed y distance from a node's top edge to its
	// pin row.
	PinTopOffset float64

	// ThrottleFactor runs full resolution every Nth move event; 1 resolves
	// on every event.
	ThrottleFactor int

	// MiniPinRowHeight is the fallback row height for layer pin panels
	// when no measurement has been reported.
	MiniPinRowHeight float64

	// IndexPadding pads the quadtree boundary around the node extents.
	IndexPadding float64

	// DefaultWidths substitutes a width for nodes the renderer has not
	// measured yet, keyed by node type.
	DefaultWidths map[domain.NodeType]float64
}

// DefaultConfig returns the tuned production constants.
func DefaultConfig() Config {
	return Config{
		ConnectDistance:  160,
		PinOffset:        14,
		PinWidth:         12,
		Padding:          40,
		PinTopOffset:     24,
		ThrottleFactor:   3,
		MiniPinRowHeight: 28,
		IndexPadding:     50,
		DefaultWidths: map[domain.NodeType]float64{
			domain.NodeTypeNarrative: 220,
			domain.NodeTypeChoice:    180,
			domain.NodeTypeLayer:     320,
			domain.NodeTypeNote:      200,
			domain.NodeTypeComment:   200,
		},
	}
}

// normalized fills non-positive fields with defaults so a partially
// populated Config never divides by zero or disables resolution by
// accident.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.ConnectDistance <= 0 {
		c.ConnectDistance = d.ConnectDistance
	}
	if c.PinOffset <= 0 {
		c.PinOffset = d.PinOffset
	}
	if c.PinWidth <= 0 {
		c.PinWidth = d.PinWidth
	}
	if c.Padding < 0 {
		c.Padding = d.Padding
	}
	if c.PinTopOffset <= 0 {
		c.PinTopOffset = d.PinTopOffset
	}
	if c.ThrottleFactor < 1 {
		c.ThrottleFactor = d.ThrottleFactor
	}
	if c.MiniPinRowHeight <= 0 {
		c.MiniPinRowHeight = d.MiniPinRowHeight
	}
	if c.IndexPadding <= 0 {
		c.IndexPadding = d.IndexPadding
	}
	if c.DefaultWidths == nil {
		c.DefaultWidths = d.DefaultWidths
	}
	return c
}

// EffectiveBounds returns the node's rectangle, substituting the per-type
// default width when the renderer has not reported one yet.
func (c Config) EffectiveBounds(n *domain.Node) domain.Rect {
	b := n.Bounds()
	if b.W <= 0 {
		if w, ok := c.DefaultWidths[n.Type]; ok {
			b.W = w
		}
	}
	return b
}

// inputPinX returns the x center of the input pin on a node's left edge.
func (c Config) inputPinX(b domain.Rect) float64 {
	return b.X + c.PinOffset + c.PinWidth/2
}

// outputPinX returns the x center of the output pin on a node's right edge.
func (c Config) outputPinX(b domain.Rect) float64 {
	return b.MaxX() - c.PinOffset - c.PinWidth/2
}

// pinY returns the y of a node's pin row.
func (c Config) pinY(b domain.Rect) float64 {
	return b.Y + c.PinTopOffset
}
