package game

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// executableNames are the process names the game runs under. project8 is the
// pre-release name still used by the Linux build.
var executableNames = map[string]bool{
	"deadlock.exe": true,
	"deadlock":     true,
	"project8.exe": true,
	"project8":     true,
}

// Process is a running game instance.
type Process struct {
	Name string `json:"name"`
	PID  int32  `json:"pid"`
}

// FindRunning lists running game processes.
func FindRunning() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var found []Process
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if IsGameExecutable(name) {
			found = append(found, Process{Name: name, PID: p.Pid})
		}
	}
	return found, nil
}

// IsGameExecutable reports whether a process name belongs to the game.
func IsGameExecutable(name string) bool {
	return executableNames[strings.ToLower(name)]
}
