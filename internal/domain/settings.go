package domain

// EditorSettings are the user preferences the snap engine consults on every
// tick. They are read-only from the engine's point of view; providers live
// in internal/settings.
type EditorSettings struct {
	LinkSnappingEnabled bool          `json:"linkSnappingEnabled"`
	LinkThickness       LinkThickness `json:"linkThickness"`
	LinkStyle           LinkStyle     `json:"linkStyle"`
	CanvasColorScheme   ColorScheme   `json:"canvasColorScheme"`
}

// DefaultEditorSettings returns the out-of-box preferences.
func DefaultEditorSettings() EditorSettings {
	return EditorSettings{
		LinkSnappingEnabled: true,
		LinkThickness:       LinkThicknessRegular,
		LinkStyle:           LinkStyleSolid,
		CanvasColorScheme:   ColorSchemeLight,
	}
}
