package domain

// LinkThickness is the user-facing stroke weight setting.
type LinkThickness string

const (
	LinkThicknessThin    LinkThickness = "thin"
	LinkThicknessRegular LinkThickness = "regular"
	LinkThicknessThick   LinkThickness = "thick"
)

// LinkStyle is the user-facing stroke pattern setting.
type LinkStyle string

const (
	LinkStyleDash  LinkStyle = "dash"
	LinkStyleSolid LinkStyle = "solid"
)

// ColorScheme is the canvas color scheme setting.
type ColorScheme string

const (
	ColorSchemeLight ColorScheme = "light"
	ColorSchemeDark  ColorScheme = "dark"
)

// EdgeStyle carries the rendering attributes an edge was created with. The
// engine derives these from settings at creation time so the renderer never
// has to consult settings per frame.
type EdgeStyle struct {
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// strokeWidths maps the thickness setting to pixels.
var strokeWidths = map[LinkThickness]float64{
	LinkThicknessThin:    1,
	LinkThicknessRegular: 2,
	LinkThicknessThick:   4,
}

const previewOpacity = 0.45

// DeriveEdgeStyle resolves the concrete stroke for the current settings.
// Preview edges render at reduced opacity; unknown thickness values fall
// back to regular.
func DeriveEdgeStyle(t LinkThickness, s LinkStyle, scheme ColorScheme, preview bool) EdgeStyle {
	width, ok := strokeWidths[t]
	if !ok {
		width = strokeWidths[LinkThicknessRegular]
	}
	style := EdgeStyle{
		StrokeWidth: width,
		Dashed:      s == LinkStyleDash,
		Opacity:     1,
		Color:       "#1a192b",
	}
	if scheme == ColorSchemeDark {
		style.Color = "#f0f0f3"
	}
	if preview {
		style.Opacity = previewOpacity
	}
	return style
}
