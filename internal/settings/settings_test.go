package settings

import (
	"errors"
	"testing"
)

func validForm() Form {
	return Form{
		InstallPath:      "/games/Deadlock",
		ResolutionWidth:  "2560",
		ResolutionHeight: "1440",
		RefreshRate:      "144",
		DesiredFPS:       "141",
		DisplayMode:      "Fullscreen",
		TextureQuality:   "Balanced",
		ReadOnly:         true,
	}
}

func TestCollectValid(t *testing.T) {
	s, err := Collect(validForm())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	if s.ResolutionWidth != 2560 || s.ResolutionHeight != 1440 {
		t.Errorf("resolution = %dx%d, want 2560x1440", s.ResolutionWidth, s.ResolutionHeight)
	}
	if s.RefreshRate != 144 {
		t.Errorf("RefreshRate = %d, want 144", s.RefreshRate)
	}
	if s.DesiredFPS != 141 {
		t.Errorf("DesiredFPS = %d, want 141", s.DesiredFPS)
	}
	if s.DisplayMode != Fullscreen {
		t.Errorf("DisplayMode = %v, want Fullscreen", s.DisplayMode)
	}
	if s.TextureQuality != BalancedTextures {
		t.Errorf("TextureQuality = %v, want Balanced", s.TextureQuality)
	}
	if !s.ReadOnly {
		t.Error("ReadOnly flag was dropped")
	}
	if s.InstallPath != "/games/Deadlock" {
		t.Errorf("InstallPath = %q", s.InstallPath)
	}
}

func TestCollectTrimsWhitespace(t *testing.T) {
	f := validForm()
	f.ResolutionWidth = " 1920 "
	f.InstallPath = "  /games/Deadlock\t"

	s, err := Collect(f)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if s.ResolutionWidth != 1920 {
		t.Errorf("ResolutionWidth = %d, want 1920", s.ResolutionWidth)
	}
	if s.InstallPath != "/games/Deadlock" {
		t.Errorf("InstallPath = %q, want trimmed path", s.InstallPath)
	}
}

func TestCollectUncappedFPS(t *testing.T) {
	f := validForm()
	f.DesiredFPS = "0"
	s, err := Collect(f)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if s.DesiredFPS != 0 {
		t.Errorf("DesiredFPS = %d, want 0", s.DesiredFPS)
	}
}

func TestCollectInvalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Form)
		wantField string
	}{
		{"EmptyPath", func(f *Form) { f.InstallPath = "  " }, "install_path"},
		{"WidthNotNumber", func(f *Form) { f.ResolutionWidth = "wide" }, "resolution_width"},
		{"HeightEmpty", func(f *Form) { f.ResolutionHeight = "" }, "resolution_height"},
		{"HeightZero", func(f *Form) { f.ResolutionHeight = "0" }, "resolution_height"},
		{"WidthNegative", func(f *Form) { f.ResolutionWidth = "-1920" }, "resolution_width"},
		{"RefreshZero", func(f *Form) { f.RefreshRate = "0" }, "refresh_rate"},
		{"RefreshFloat", func(f *Form) { f.RefreshRate = "143.9" }, "refresh_rate"},
		{"FPSNegative", func(f *Form) { f.DesiredFPS = "-1" }, "desired_fps"},
		{"UnknownDisplayMode", func(f *Form) { f.DisplayMode = "Windowed" }, "display_mode"},
		{"UnknownTexture", func(f *Form) { f.TextureQuality = "Ultra" }, "texture_quality"},
		{"LabelCaseMatters", func(f *Form) { f.TextureQuality = "balanced" }, "texture_quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			_, err := Collect(f)
			if err == nil {
				t.Fatal("Collect() should fail")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %v is not a *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestEnumMappingIsFixed(t *testing.T) {
	modes := map[string]int{"Borderless": 0, "Fullscreen": 1}
	for label, want := range modes {
		got, err := ParseDisplayMode(label)
		if err != nil {
			t.Errorf("ParseDisplayMode(%q) error: %v", label, err)
			continue
		}
		if int(got) != want {
			t.Errorf("ParseDisplayMode(%q) = %d, want %d", label, got, want)
		}
	}

	qualities := map[string]int{"Quality": 0, "Balanced": 3, "Performance": 4}
	for label, want := range qualities {
		got, err := ParseTextureQuality(label)
		if err != nil {
			t.Errorf("ParseTextureQuality(%q) error: %v", label, err)
			continue
		}
		if int(got) != want {
			t.Errorf("ParseTextureQuality(%q) = %d, want %d", label, got, want)
		}
	}

	if len(DisplayModeLabels()) != len(modes) {
		t.Errorf("DisplayModeLabels() has %d entries, want %d", len(DisplayModeLabels()), len(modes))
	}
	if len(TextureQualityLabels()) != len(qualities) {
		t.Errorf("TextureQualityLabels() has %d entries, want %d", len(TextureQualityLabels()), len(qualities))
	}
}

func TestEnumStrings(t *testing.T) {
	if Fullscreen.String() != "Fullscreen" {
		t.Errorf("Fullscreen.String() = %q", Fullscreen.String())
	}
	if PerformanceTextures.String() != "Performance" {
		t.Errorf("PerformanceTextures.String() = %q", PerformanceTextures.String())
	}
	if DisplayMode(7).String() != "DisplayMode(7)" {
		t.Errorf("DisplayMode(7).String() = %q", DisplayMode(7).String())
	}
}
