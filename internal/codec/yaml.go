package codec

import (
	"fmt"
	"io"
	"sort"

	"github.com/goflowspace/linksnap/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML canvas documents.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier.
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument is the on-disk YAML structure for a canvas.
type yamlDocument struct {
	Canvas yamlCanvas  `yaml:"canvas"`
	Nodes  []yamlNode  `yaml:"nodes"`
	Layers []yamlLayer `yaml:"layers,omitempty"`
	Edges  []yamlEdge  `yaml:"edges,omitempty"`
}

type yamlCanvas struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

type yamlNode struct {
	ID     string  `yaml:"id"`
	Type   string  `yaml:"type"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// yamlLayer carries a layer's pin panels. Pin order in the document is the
// panel order; kind and ordinal are derived from it on import.
type yamlLayer struct {
	ID       string    `yaml:"id"`
	Starting []yamlPin `yaml:"starting,omitempty"`
	Ending   []yamlPin `yaml:"ending,omitempty"`
}

type yamlPin struct {
	ID          string   `yaml:"id"`
	Connections []string `yaml:"connections,omitempty"`
}

type yamlEdge struct {
	ID           string  `yaml:"id,omitempty"`
	Source       string  `yaml:"source"`
	Target       string  `yaml:"target"`
	SourceHandle string  `yaml:"source_handle,omitempty"`
	TargetHandle string  `yaml:"target_handle,omitempty"`
	StrokeWidth  float64 `yaml:"stroke_width,omitempty"`
	Dashed       bool    `yaml:"dashed,omitempty"`
	Opacity      float64 `yaml:"opacity,omitempty"`
	Color        string  `yaml:"color,omitempty"`
}

// Parse imports a canvas document from YAML. All edges in a document are
// permanent; the preview never leaves the process.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Canvas, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	canvas := &domain.Canvas{
		ID:   doc.Canvas.ID,
		Name: doc.Canvas.Name,
	}
	if canvas.ID == "" {
		canvas.ID = "default"
	}

	for _, yn := range doc.Nodes {
		canvas.Nodes = append(canvas.Nodes, domain.Node{
			ID:       yn.ID,
			Type:     domain.NodeType(yn.Type),
			Label:    yn.Label,
			Position: domain.Point{X: yn.X, Y: yn.Y},
			Size:     domain.Size{Width: yn.Width, Height: yn.Height},
		})
	}

	for _, yl := range doc.Layers {
		if canvas.Pins == nil {
			canvas.Pins = make(map[string]domain.MiniPins)
		}
		canvas.Pins[yl.ID] = domain.MiniPins{
			Starting: pinsFromYAML(yl.Starting, domain.MiniPinStarting),
			Ending:   pinsFromYAML(yl.Ending, domain.MiniPinEnding),
		}
	}

	for _, ye := range doc.Edges {
		draft := domain.EdgeDraft{
			Source:       ye.Source,
			Target:       ye.Target,
			SourceHandle: ye.SourceHandle,
			TargetHandle: ye.TargetHandle,
		}
		edge := domain.Edge{
			ID:           ye.ID,
			Source:       ye.Source,
			Target:       ye.Target,
			SourceHandle: ye.SourceHandle,
			TargetHandle: ye.TargetHandle,
			Kind:         domain.EdgeKindPermanent,
			Style: domain.EdgeStyle{
				StrokeWidth: ye.StrokeWidth,
				Dashed:      ye.Dashed,
				Opacity:     ye.Opacity,
				Color:       ye.Color,
			},
		}
		if edge.ID == "" {
			edge.ID = draft.DigestID()
		}
		if edge.Style.Opacity == 0 {
			edge.Style.Opacity = 1
		}
		canvas.Edges = append(canvas.Edges, edge)
	}

	return canvas, nil
}

func pinsFromYAML(pins []yamlPin, kind domain.MiniPinKind) []domain.MiniPin {
	out := make([]domain.MiniPin, 0, len(pins))
	for i, yp := range pins {
		out = append(out, domain.MiniPin{
			ID:            yp.ID,
			Kind:          kind,
			Ordinal:       i,
			ConnectionIDs: yp.Connections,
			Connected:     len(yp.Connections) > 0,
		})
	}
	return out
}

// Export writes a canvas document as YAML. Layers are emitted in id order
// so repeated exports of the same canvas are byte-identical.
func (c *YAMLCodec) Export(canvas *domain.Canvas, w io.Writer) error {
	doc := yamlDocument{
		Canvas: yamlCanvas{ID: canvas.ID, Name: canvas.Name},
		Nodes:  make([]yamlNode, 0, len(canvas.Nodes)),
		Edges:  make([]yamlEdge, 0, len(canvas.Edges)),
	}

	for _, node := range canvas.Nodes {
		doc.Nodes = append(doc.Nodes, yamlNode{
			ID:     node.ID,
			Type:   string(node.Type),
			Label:  node.Label,
			X:      node.Position.X,
			Y:      node.Position.Y,
			Width:  node.Size.Width,
			Height: node.Size.Height,
		})
	}

	layerIDs := make([]string, 0, len(canvas.Pins))
	for id := range canvas.Pins {
		layerIDs = append(layerIDs, id)
	}
	sort.Strings(layerIDs)
	for _, id := range layerIDs {
		pins := canvas.Pins[id]
		doc.Layers = append(doc.Layers, yamlLayer{
			ID:       id,
			Starting: pinsToYAML(pins.Starting),
			Ending:   pinsToYAML(pins.Ending),
		})
	}

	for _, edge := range canvas.Edges {
		if edge.IsPreview() {
			continue
		}
		doc.Edges = append(doc.Edges, yamlEdge{
			ID:           edge.ID,
			Source:       edge.Source,
			Target:       edge.Target,
			SourceHandle: edge.SourceHandle,
			TargetHandle: edge.TargetHandle,
			StrokeWidth:  edge.Style.StrokeWidth,
			Dashed:       edge.Style.Dashed,
			Opacity:      edge.Style.Opacity,
			Color:        edge.Style.Color,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

func pinsToYAML(pins []domain.MiniPin) []yamlPin {
	out := make([]yamlPin, 0, len(pins))
	for _, p := range pins {
		out = append(out, yamlPin{ID: p.ID, Connections: p.ConnectionIDs})
	}
	return out
}
