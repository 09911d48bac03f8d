// Package game knows where Deadlock keeps its configuration and whether the
// game is currently running.
package game

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout holds the paths of every file the optimizer touches inside an
// installation root.
type Layout struct {
	Root     string `json:"root"`
	Citadel  string `json:"citadel"`
	Video    string `json:"video"`
	VideoBak string `json:"videoBak"`
	Autoexec string `json:"autoexec"`
	Gameinfo string `json:"gameinfo"`
}

// NewLayout derives the target paths from an installation root such as
// steamapps/common/Deadlock.
func NewLayout(root string) Layout {
	citadel := filepath.Join(root, "game", "citadel")
	cfg := filepath.Join(citadel, "cfg")
	video := filepath.Join(cfg, "video.txt")
	return Layout{
		Root:     root,
		Citadel:  citadel,
		Video:    video,
		VideoBak: video + ".bak",
		Autoexec: filepath.Join(cfg, "autoexec.cfg"),
		Gameinfo: filepath.Join(citadel, "gameinfo.gi"),
	}
}

// Validate checks that the root looks like a Deadlock installation.
func (l Layout) Validate() error {
	info, err := os.Stat(l.Citadel)
	if err != nil {
		return fmt.Errorf("%s does not look like a Deadlock installation: %w", l.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s does not look like a Deadlock installation: %s is not a directory", l.Root, l.Citadel)
	}
	return nil
}
