package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------- Enums ----------

// DisplayMode is the value written to setting.fullscreen in video.txt.
type DisplayMode int

const (
	Borderless DisplayMode = 0
	Fullscreen DisplayMode = 1
)

// TextureQuality is the texture budget level written to video.txt.
// Lower is sharper; the game skips levels 1 and 2 in its own menu.
type TextureQuality int

const (
	QualityTextures     TextureQuality = 0
	BalancedTextures    TextureQuality = 3
	PerformanceTextures TextureQuality = 4
)

var displayModes = map[string]DisplayMode{
	"Borderless": Borderless,
	"Fullscreen": Fullscreen,
}

var textureQualities = map[string]TextureQuality{
	"Quality":     QualityTextures,
	"Balanced":    BalancedTextures,
	"Performance": PerformanceTextures,
}

// DisplayModeLabels returns the accepted display mode labels in menu order.
func DisplayModeLabels() []string {
	return []string{"Fullscreen", "Borderless"}
}

// TextureQualityLabels returns the accepted texture quality labels in menu order.
func TextureQualityLabels() []string {
	return []string{"Balanced", "Performance", "Quality"}
}

// ParseDisplayMode maps a form label to its display mode code.
func ParseDisplayMode(label string) (DisplayMode, error) {
	mode, ok := displayModes[label]
	if !ok {
		return 0, &ValidationError{Field: "display_mode", Value: label, Reason: "unknown display mode"}
	}
	return mode, nil
}

// ParseTextureQuality maps a form label to its texture quality code.
func ParseTextureQuality(label string) (TextureQuality, error) {
	q, ok := textureQualities[label]
	if !ok {
		return 0, &ValidationError{Field: "texture_quality", Value: label, Reason: "unknown texture quality"}
	}
	return q, nil
}

func (m DisplayMode) String() string {
	for label, v := range displayModes {
		if v == m {
			return label
		}
	}
	return fmt.Sprintf("DisplayMode(%d)", int(m))
}

func (q TextureQuality) String() string {
	for label, v := range textureQualities {
		if v == q {
			return label
		}
	}
	return fmt.Sprintf("TextureQuality(%d)", int(q))
}

// ---------- Form ----------

// Form holds the raw values entered by the user, before validation.
type Form struct {
	InstallPath      string `json:"installPath" yaml:"install_path"`
	ResolutionWidth  string `json:"resolutionWidth" yaml:"resolution_width"`
	ResolutionHeight string `json:"resolutionHeight" yaml:"resolution_height"`
	RefreshRate      string `json:"refreshRate" yaml:"refresh_rate"`
	DesiredFPS       string `json:"desiredFps" yaml:"desired_fps"`
	DisplayMode      string `json:"displayMode" yaml:"display_mode"`
	TextureQuality   string `json:"textureQuality" yaml:"texture_quality"`
	ReadOnly         bool   `json:"readOnly" yaml:"read_only"`
}

// Settings is the validated result of a Form. It is a plain value: every
// stage receives its own copy.
type Settings struct {
	InstallPath      string
	ResolutionWidth  int
	ResolutionHeight int
	RefreshRate      int
	DesiredFPS       int
	DisplayMode      DisplayMode
	TextureQuality   TextureQuality
	ReadOnly         bool
}

// ValidationError reports a form field that could not be turned into a setting.
// Besides non-integers it covers out-of-range numbers: width, height and
// refresh rate must be at least 1, desired FPS at least 0.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Collect validates every field of f and returns the populated Settings.
// The first invalid field aborts collection. Numbers must be integers within
// range; a desired FPS of 0 is accepted as uncapped.
func Collect(f Form) (Settings, error) {
	var s Settings

	s.InstallPath = strings.TrimSpace(f.InstallPath)
	if s.InstallPath == "" {
		return Settings{}, &ValidationError{Field: "install_path", Value: f.InstallPath, Reason: "path is required"}
	}

	numeric := []struct {
		field string
		raw   string
		min   int
		dst   *int
	}{
		{"resolution_width", f.ResolutionWidth, 1, &s.ResolutionWidth},
		{"resolution_height", f.ResolutionHeight, 1, &s.ResolutionHeight},
		{"refresh_rate", f.RefreshRate, 1, &s.RefreshRate},
		// fps_max 0 means uncapped
		{"desired_fps", f.DesiredFPS, 0, &s.DesiredFPS},
	}
	for _, n := range numeric {
		v, err := parseInt(n.field, n.raw, n.min)
		if err != nil {
			return Settings{}, err
		}
		*n.dst = v
	}

	mode, err := ParseDisplayMode(f.DisplayMode)
	if err != nil {
		return Settings{}, err
	}
	s.DisplayMode = mode

	quality, err := ParseTextureQuality(f.TextureQuality)
	if err != nil {
		return Settings{}, err
	}
	s.TextureQuality = quality

	s.ReadOnly = f.ReadOnly
	return s, nil
}

func parseInt(field, raw string, min int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not an integer"}
	}
	if v < min {
		return 0, &ValidationError{Field: field, Value: raw, Reason: fmt.Sprintf("must be at least %d", min)}
	}
	return v, nil
}
