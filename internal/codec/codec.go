package codec

import (
	"io"

	"github.com/goflowspace/linksnap/internal/domain"
)

// Importer parses a canvas document from an external format.
type Importer interface {
	Parse(r io.Reader) (*domain.Canvas, error)
	Format() string
}

// Exporter writes a canvas document to an external format.
type Exporter interface {
	Export(canvas *domain.Canvas, w io.Writer) error
	Format() string
}
