package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goflowspace/linksnap/internal/domain"
)

// JSONCodec handles JSON canvas documents. JSON documents use the domain
// wire shape directly; the renderer consumes the same structure.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier.
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a canvas document from JSON.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Canvas, error) {
	var canvas domain.Canvas
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&canvas); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if canvas.ID == "" {
		canvas.ID = "default"
	}

	return &canvas, nil
}

// Export writes a canvas document as JSON, previews excluded.
func (c *JSONCodec) Export(canvas *domain.Canvas, w io.Writer) error {
	doc := *canvas
	doc.Edges = make([]domain.Edge, 0, len(canvas.Edges))
	for _, edge := range canvas.Edges {
		if edge.IsPreview() {
			continue
		}
		doc.Edges = append(doc.Edges, edge)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
