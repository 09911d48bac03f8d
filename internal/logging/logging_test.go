package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		level  string
		want   zerolog.Level
		wantOK bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"", zerolog.InfoLevel, false},
		{"chatty", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			ok := Setup(&bytes.Buffer{}, tt.level)
			if ok != tt.wantOK {
				t.Errorf("Setup(%q) ok = %v, want %v", tt.level, ok, tt.wantOK)
			}
			if zerolog.GlobalLevel() != tt.want {
				t.Errorf("GlobalLevel() = %v, want %v", zerolog.GlobalLevel(), tt.want)
			}
		})
	}
}

func TestSetupWritesToWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	Setup(&buf, "info")
	log.Info().Str("path", "video.txt").Msg("optimized")
	log.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "optimized") || !strings.Contains(out, "video.txt") {
		t.Errorf("log output missing message: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
}
