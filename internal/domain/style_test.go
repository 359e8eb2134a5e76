package domain

import "testing"

func TestDeriveEdgeStyle(t *testing.T) {
	t.Run("maps thickness to stroke width", func(t *testing.T) {
		thin := DeriveEdgeStyle(LinkThicknessThin, LinkStyleSolid, ColorSchemeLight, false)
		thick := DeriveEdgeStyle(LinkThicknessThick, LinkStyleSolid, ColorSchemeLight, false)
		if thin.StrokeWidth >= thick.StrokeWidth {
			t.Errorf("expected thin (%v) < thick (%v)", thin.StrokeWidth, thick.StrokeWidth)
		}
	})

	t.Run("unknown thickness falls back to regular", func(t *testing.T) {
		got := DeriveEdgeStyle(LinkThickness("huge"), LinkStyleSolid, ColorSchemeLight, false)
		want := DeriveEdgeStyle(LinkThicknessRegular, LinkStyleSolid, ColorSchemeLight, false)
		if got.StrokeWidth != want.StrokeWidth {
			t.Errorf("expected fallback width %v, got %v", want.StrokeWidth, got.StrokeWidth)
		}
	})

	t.Run("dash setting controls the pattern", func(t *testing.T) {
		if !DeriveEdgeStyle(LinkThicknessRegular, LinkStyleDash, ColorSchemeLight, false).Dashed {
			t.Error("expected dashed stroke")
		}
		if DeriveEdgeStyle(LinkThicknessRegular, LinkStyleSolid, ColorSchemeLight, false).Dashed {
			t.Error("expected solid stroke")
		}
	})

	t.Run("preview reduces opacity", func(t *testing.T) {
		preview := DeriveEdgeStyle(LinkThicknessRegular, LinkStyleSolid, ColorSchemeLight, true)
		committed := DeriveEdgeStyle(LinkThicknessRegular, LinkStyleSolid, ColorSchemeLight, false)
		if preview.Opacity >= committed.Opacity {
			t.Errorf("expected preview opacity (%v) below committed (%v)", preview.Opacity, committed.Opacity)
		}
	})

	t.Run("color follows the scheme", func(t *testing.T) {
		light := DeriveEdgeStyle(LinkThicknessRegular, LinkStyleSolid, ColorSchemeLight, false)
		dark := DeriveEdgeStyle(LinkThicknessRegular, LinkStyleSolid, ColorSchemeDark, false)
		if light.Color == dark.Color {
			t.Error("expected scheme to change the stroke color")
		}
	})
}
