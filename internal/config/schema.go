package config

import (
	"github.com/goflowspace/linksnap/internal/domain"
	"github.com/goflowspace/linksnap/internal/snap"
)

// Config is the root configuration structure.
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Settings SettingsConfig `yaml:"settings"`
	Snap     SnapConfig     `yaml:"snap"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the dev server knobs.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	CanvasID string `yaml:"canvas_id"`
}

// DatabaseConfig locates the sqlite mirror.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SettingsConfig locates the editor settings file.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// SnapConfig exposes the snap engine's tunables. Zero values mean "use the
// engine default", so a config file only has to name what it changes.
type SnapConfig struct {
	ConnectDistance  float64            `yaml:"connect_distance"`
	PinOffset        float64            `yaml:"pin_offset"`
	PinWidth         float64            `yaml:"pin_width"`
	Padding          float64            `yaml:"padding"`
	PinTopOffset     float64            `yaml:"pin_top_offset"`
	ThrottleFactor   int                `yaml:"throttle_factor"`
	MiniPinRowHeight float64            `yaml:"mini_pin_row_height"`
	IndexPadding     float64            `yaml:"index_padding"`
	DefaultWidths    map[string]float64 `yaml:"default_widths,omitempty"`
}

// Engine converts the section into the engine's config type.
func (c SnapConfig) Engine() snap.Config {
	cfg := snap.Config{
		ConnectDistance:  c.ConnectDistance,
		PinOffset:        c.PinOffset,
		PinWidth:         c.PinWidth,
		Padding:          c.Padding,
		PinTopOffset:     c.PinTopOffset,
		ThrottleFactor:   c.ThrottleFactor,
		MiniPinRowHeight: c.MiniPinRowHeight,
		IndexPadding:     c.IndexPadding,
	}
	if len(c.DefaultWidths) > 0 {
		cfg.DefaultWidths = make(map[domain.NodeType]float64, len(c.DefaultWidths))
		for nodeType, width := range c.DefaultWidths {
			cfg.DefaultWidths[domain.NodeType(nodeType)] = width
		}
	}
	return cfg
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
