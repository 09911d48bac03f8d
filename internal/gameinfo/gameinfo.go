// Package gameinfo inserts a block of convars into gameinfo.gi right after the
// opening brace of its ConVars section, at most once.
package gameinfo

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// SectionMarker names the section the block is inserted into.
const SectionMarker = "ConVars"

// Outcome describes what Patch did.
type Outcome int

const (
	// OutcomeInserted means the block was added.
	OutcomeInserted Outcome = iota
	// OutcomeAlreadyPatched means the block was already present.
	OutcomeAlreadyPatched
	// OutcomeMarkerNotFound means no ConVars section followed by a brace
	// exists. The text is returned unchanged.
	OutcomeMarkerNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeAlreadyPatched:
		return "already patched"
	case OutcomeMarkerNotFound:
		return "marker not found"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Changed reports whether the outcome modified the text.
func (o Outcome) Changed() bool { return o == OutcomeInserted }

// Patch returns text with block inserted after the first "ConVars" line whose
// following line holds an opening brace. Line endings are kept as they are.
func Patch(text, block string) (string, Outcome) {
	if strings.Contains(text, strings.TrimSpace(block)) {
		return text, OutcomeAlreadyPatched
	}

	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	b.Grow(len(text) + len(block) + 1)

	inserted := false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		b.WriteString(line)

		if inserted || !strings.Contains(line, SectionMarker) {
			continue
		}
		if i+1 >= len(lines) || !strings.Contains(lines[i+1], "{") {
			continue
		}

		i++
		brace := lines[i]
		b.WriteString(brace)
		if !strings.HasSuffix(brace, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(block)
		b.WriteString("\n")
		inserted = true
	}

	if !inserted {
		return text, OutcomeMarkerNotFound
	}
	return b.String(), OutcomeInserted
}

// Writer persists the patched file.
type Writer interface {
	Overwrite(path string, content []byte, create bool) error
}

// PatchFile applies Patch to the file at path and writes it back when the
// block was inserted.
func PatchFile(path, block string, w Writer) (Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OutcomeMarkerNotFound, fmt.Errorf("failed to read %s: %w", path, err)
	}

	patched, outcome := Patch(string(data), block)
	log.Debug().Str("path", path).Stringer("outcome", outcome).Msg("gameinfo scanned")
	if !outcome.Changed() {
		return outcome, nil
	}

	if err := w.Overwrite(path, []byte(patched), false); err != nil {
		return outcome, err
	}
	return outcome, nil
}
