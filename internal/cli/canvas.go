package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goflowspace/linksnap/internal/codec"
	"github.com/goflowspace/linksnap/internal/domain"
)

// codecFor picks a codec by file extension. Anything that is not .json is
// treated as YAML, the native document format.
func codecFor(path string) interface {
	codec.Importer
	codec.Exporter
} {
	if strings.HasSuffix(path, ".json") {
		return codec.NewJSONCodec()
	}
	return codec.NewYAMLCodec()
}

func loadCanvas(path string) (*domain.Canvas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open canvas: %w", err)
	}
	defer f.Close()

	return codecFor(path).Parse(f)
}

// parsePoint reads an "x,y" coordinate pair.
func parsePoint(s string) (domain.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Point{}, fmt.Errorf("expected x,y but got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("bad x coordinate %q: %w", parts[0], err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("bad y coordinate %q: %w", parts[1], err)
	}
	return domain.Point{X: x, Y: y}, nil
}
