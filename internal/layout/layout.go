// Package layout isolates rendered-geometry reads behind the Oracle
// interface. The resolver asks it where a layer's mini-pin panels sit on
// screen; when no measurement exists it falls back to fixed heuristics so
// candidate resolution keeps working before the renderer has reported
// anything.
package layout

import "github.com/goflowspace/linksnap/internal/domain"

// Oracle answers geometry questions about rendered layer nodes. Returning
// ok=false means no measurement is available and callers use fallbacks.
type Oracle interface {
	LayerGeometry(layerID string) (LayerGeometry, bool)
}

// LayerGeometry is a possibly partial measurement of a rendered layer. Nil
// fields mean "not measured"; Rect may be the zero value when only panel
// offsets were reported.
type LayerGeometry struct {
	Rect                domain.Rect `json:"rect"`
	StartingPanelOffset *float64    `json:"startingPanelOffset,omitempty"`
	EndingPanelOffset   *float64    `json:"endingPanelOffset,omitempty"`
	MiniPinRowHeight    *float64    `json:"miniPinRowHeight,omitempty"`
}

// Resolved is a fully concrete layer geometry after fallback substitution.
// Offsets are measured from the layer's top edge.
type Resolved struct {
	Rect           domain.Rect
	StartingOffset float64
	EndingOffset   float64
	RowHeight      float64
}

// Resolve merges a measurement with fallback heuristics: the starting panel
// sits flush with the layer top, the ending panel flush with the bottom,
// rows are rowHeight tall. endingCount sizes the bottom panel for the
// flush-to-bottom fallback. geom may be nil.
func Resolve(layerBounds domain.Rect, geom *LayerGeometry, rowHeight float64, endingCount int) Resolved {
	r := Resolved{
		Rect:      layerBounds,
		RowHeight: rowHeight,
	}
	if geom != nil {
		if geom.Rect.W > 0 && geom.Rect.H > 0 {
			r.Rect = geom.Rect
		}
		if geom.MiniPinRowHeight != nil && *geom.MiniPinRowHeight > 0 {
			r.RowHeight = *geom.MiniPinRowHeight
		}
	}

	r.StartingOffset = 0
	r.EndingOffset = r.Rect.H - float64(endingCount)*r.RowHeight
	if r.EndingOffset < 0 {
		r.EndingOffset = 0
	}

	if geom != nil {
		if geom.StartingPanelOffset != nil {
			r.StartingOffset = *geom.StartingPanelOffset
		}
		if geom.EndingPanelOffset != nil {
			r.EndingOffset = *geom.EndingPanelOffset
		}
	}
	return r
}

// PinPoint returns the absolute canvas position of a mini-pin. Starting
// pins attach on the layer's left edge, ending pins on the right edge; rows
// stack downward from the panel offset and the pin sits at its row center.
func PinPoint(r Resolved, kind domain.MiniPinKind, ordinal int) domain.Point {
	row := float64(ordinal)*r.RowHeight + r.RowHeight/2
	if kind == domain.MiniPinEnding {
		return domain.Point{X: r.Rect.MaxX(), Y: r.Rect.Y + r.EndingOffset + row}
	}
	return domain.Point{X: r.Rect.X, Y: r.Rect.Y + r.StartingOffset + row}
}
