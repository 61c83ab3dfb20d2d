// Package config loads the picker's props from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lululau/rangecal/internal/calendar"
	"github.com/lululau/rangecal/internal/datetext"
	"github.com/lululau/rangecal/internal/drag"
)

const (
	AppName  = "rangecal"
	FileName = "config.yaml"
)

// Display selects how the picker is hosted.
type Display int

const (
	DisplayEmbedded Display = iota
	DisplayPopup
)

func (d Display) String() string {
	if d == DisplayPopup {
		return "popup"
	}
	return "embedded"
}

var (
	ErrInvalidMode       = errors.New("mode must be \"single\" or \"range\"")
	ErrInvalidWeekStart  = errors.New("week_start must be \"sunday\" or \"monday\"")
	ErrInvalidDisplay    = errors.New("display must be \"embedded\" or \"popup\"")
	ErrInvalidMonths     = errors.New("months must be between 1 and 12")
	ErrInvalidRange      = errors.New("default_start must not be after default_end")
	ErrUnsupportedFormat = errors.New("config file must be .yaml, .yml or .toml")
)

// Config holds the validated props consumed at mount and on reload.
type Config struct {
	Mode         drag.Mode
	Months       int
	WeekStart    time.Weekday
	Display      Display
	ShowHeader   bool
	ShowFooter   bool
	ShowTooltips bool
	ShowSubmit   bool
	DefaultRange calendar.Range
	Layer        calendar.Layer
	HolidaysFile string
	LogLevel     string
	LogFormat    string
}

// Default returns the props used when no file exists.
func Default() Config {
	return Config{
		Mode:         drag.ModeRange,
		Months:       3,
		WeekStart:    time.Sunday,
		Display:      DisplayEmbedded,
		ShowHeader:   true,
		ShowFooter:   true,
		ShowTooltips: true,
		ShowSubmit:   true,
		Layer:        calendar.LayerNone,
		LogLevel:     "INFO",
		LogFormat:    "text",
	}
}

// fileConfig mirrors the on-disk keys. Pointers distinguish "unset" from
// false for the toggles.
type fileConfig struct {
	Mode         string `yaml:"mode" toml:"mode"`
	Months       int    `yaml:"months" toml:"months"`
	WeekStart    string `yaml:"week_start" toml:"week_start"`
	Display      string `yaml:"display" toml:"display"`
	ShowHeader   *bool  `yaml:"show_header" toml:"show_header"`
	ShowFooter   *bool  `yaml:"show_footer" toml:"show_footer"`
	ShowTooltips *bool  `yaml:"show_tooltips" toml:"show_tooltips"`
	ShowSubmit   *bool  `yaml:"show_submit" toml:"show_submit"`
	DefaultStart string `yaml:"default_start" toml:"default_start"`
	DefaultEnd   string `yaml:"default_end" toml:"default_end"`
	Layer        string `yaml:"layer" toml:"layer"`
	HolidaysFile string `yaml:"holidays_file" toml:"holidays_file"`
	LogLevel     string `yaml:"log_level" toml:"log_level"`
	LogFormat    string `yaml:"log_format" toml:"log_format"`
}

// DefaultPath returns ~/.config/rangecal/config.yaml (or the platform
// equivalent). RANGECAL_CONFIG overrides it.
func DefaultPath() (string, error) {
	if p := os.Getenv("RANGECAL_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName, FileName), nil
}

// Load reads path. A missing file yields Default with no error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data according to ext (".yaml", ".yml" or ".toml").
func Parse(data []byte, ext string) (Config, error) {
	var fc fileConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return fc.apply(Default())
}

func (fc fileConfig) apply(cfg Config) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(fc.Mode)) {
	case "":
	case "range":
		cfg.Mode = drag.ModeRange
	case "single":
		cfg.Mode = drag.ModeSingle
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidMode, fc.Mode)
	}

	if fc.Months != 0 {
		if fc.Months < 1 || fc.Months > 12 {
			return Config{}, fmt.Errorf("%w: %d", ErrInvalidMonths, fc.Months)
		}
		cfg.Months = fc.Months
	}

	switch strings.ToLower(strings.TrimSpace(fc.WeekStart)) {
	case "":
	case "sunday":
		cfg.WeekStart = time.Sunday
	case "monday":
		cfg.WeekStart = time.Monday
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidWeekStart, fc.WeekStart)
	}

	switch strings.ToLower(strings.TrimSpace(fc.Display)) {
	case "":
	case "embedded":
		cfg.Display = DisplayEmbedded
	case "popup":
		cfg.Display = DisplayPopup
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidDisplay, fc.Display)
	}

	for _, t := range []struct {
		src *bool
		dst *bool
	}{
		{fc.ShowHeader, &cfg.ShowHeader},
		{fc.ShowFooter, &cfg.ShowFooter},
		{fc.ShowTooltips, &cfg.ShowTooltips},
		{fc.ShowSubmit, &cfg.ShowSubmit},
	} {
		if t.src != nil {
			*t.dst = *t.src
		}
	}

	start, err := datetext.Parse(fc.DefaultStart)
	if err != nil {
		return Config{}, fmt.Errorf("default_start: %w", err)
	}
	end, err := datetext.Parse(fc.DefaultEnd)
	if err != nil {
		return Config{}, fmt.Errorf("default_end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return Config{}, ErrInvalidRange
	}
	cfg.DefaultRange = calendar.Range{Start: start, End: end}

	if fc.Layer != "" {
		layer, err := calendar.ParseLayer(fc.Layer)
		if err != nil {
			return Config{}, err
		}
		cfg.Layer = layer
	}

	if fc.HolidaysFile != "" {
		cfg.HolidaysFile = fc.HolidaysFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	return cfg, nil
}
