// Package settings provides the editor settings the snap engine consults
// on every tick: whether snapping is enabled and how committed links are
// styled.
//
// Two providers exist. Static serves a value held in memory; FileProvider
// reads a YAML file and can follow edits to it, so flipping snapping off in
// the file mid-drag is visible to the engine on its next tick.
package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/watcher"
)

// Static serves a fixed settings value that callers can swap at runtime.
type Static struct {
	mu      sync.RWMutex
	current domain.EditorSettings
}

// NewStatic creates a provider serving the given settings.
func NewStatic(s domain.EditorSettings) *Static {
	return &Static{current: s}
}

// Current returns the settings.
func (s *Static) Current() domain.EditorSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the settings. The error is always nil; the signature
// matches FileProvider so callers can hold either provider.
func (s *Static) Update(v domain.EditorSettings) error {
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
	return nil
}

// fileSettings is the on-disk YAML shape. Snapping uses a pointer so a
// file that omits the key keeps the enabled default rather than reading as
// false.
type fileSettings struct {
	LinkSnappingEnabled *bool  `yaml:"link_snapping_enabled"`
	LinkThickness       string `yaml:"link_thickness"`
	LinkStyle           string `yaml:"link_style"`
	CanvasColorScheme   string `yaml:"canvas_color_scheme"`
}

func (f fileSettings) toDomain() domain.EditorSettings {
	set := domain.DefaultEditorSettings()
	if f.LinkSnappingEnabled != nil {
		set.LinkSnappingEnabled = *f.LinkSnappingEnabled
	}
	if f.LinkThickness != "" {
		set.LinkThickness = domain.LinkThickness(f.LinkThickness)
	}
	if f.LinkStyle != "" {
		set.LinkStyle = domain.LinkStyle(f.LinkStyle)
	}
	if f.CanvasColorScheme != "" {
		set.CanvasColorScheme = domain.ColorScheme(f.CanvasColorScheme)
	}
	return set
}

func fromDomain(v domain.EditorSettings) fileSettings {
	enabled := v.LinkSnappingEnabled
	return fileSettings{
		LinkSnappingEnabled: &enabled,
		LinkThickness:       string(v.LinkThickness),
		LinkStyle:           string(v.LinkStyle),
		CanvasColorScheme:   string(v.CanvasColorScheme),
	}
}

// FileProvider serves settings from a YAML file.
type FileProvider struct {
	path string
	log  zerolog.Logger

	mu      sync.RWMutex
	current domain.EditorSettings
}

// NewFileProvider loads the settings file. A missing file is not an error;
// the defaults apply until the file appears.
func NewFileProvider(path string, log zerolog.Logger) (*FileProvider, error) {
	p := &FileProvider{
		path:    path,
		log:     log,
		current: domain.DefaultEditorSettings(),
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns the settings.
func (p *FileProvider) Current() domain.EditorSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Update replaces the settings and writes them back to the file.
func (p *FileProvider) Update(v domain.EditorSettings) error {
	data, err := yaml.Marshal(fromDomain(v))
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	p.set(v)
	return nil
}

// Reload re-reads the file. A missing file resets to defaults; a malformed
// one keeps the previous settings and reports the error.
func (p *FileProvider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.set(domain.DefaultEditorSettings())
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}

	p.set(fs.toDomain())
	return nil
}

// Watch follows the file until the context ends, reloading on changes.
func (p *FileProvider) Watch(ctx context.Context) error {
	w := watcher.New(p.path, func() {
		if err := p.Reload(); err != nil {
			p.log.Warn().Err(err).Str("path", p.path).Msg("failed to reload settings")
		}
	}).WithLogger(p.log)
	return w.Watch(ctx)
}

func (p *FileProvider) set(v domain.EditorSettings) {
	p.mu.Lock()
	p.current = v
	p.mu.Unlock()
}
