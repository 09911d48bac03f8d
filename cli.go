package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"

	"deadlockoptimizer/internal/backup"
	"deadlockoptimizer/internal/cfgfile"
	"deadlockoptimizer/internal/config"
	"deadlockoptimizer/internal/optimizer"
	"deadlockoptimizer/internal/profiles"
	"deadlockoptimizer/internal/settings"
)

func runCLI(cfg *config.Config, cfgPath string) {
	green := color.New(color.FgHiGreen, color.Bold)
	cyan := color.New(color.FgHiCyan)
	yellow := color.New(color.FgHiYellow)
	red := color.New(color.FgHiRed)

	fmt.Println()
	green.Println("  DEADLOCK COMPETITIVE OPTIMIZER")
	cyan.Printf("  video.txt · autoexec.cfg · gameinfo.gi  v%s\n", Version)
	fmt.Println("  ─────────────────────────────────────────────")
	fmt.Println()

	store := openBackups()

	for {
		prompt := promptui.Select{
			Label: "What would you like to do?",
			Items: []string{
				"⚡ Optimize",
				"🎚️  Choose Profile",
				"♻️  Restore Original Files",
				"❌ Exit",
			},
			Size: 4,
		}

		i, _, err := prompt.Run()
		if err != nil {
			return
		}

		fmt.Println()

		switch i {
		case 0:
			cliOptimize(cfg, cfgPath, store, green, yellow, red)
		case 1:
			cliProfile(cfg, cfgPath, green)
		case 2:
			cliRestore(store, green, yellow, red)
		case 3:
			green.Println("  Good luck in the Cursed Apple! 🔥")
			return
		}
		fmt.Println()
	}
}

func cliOptimize(cfg *config.Config, cfgPath string, store *backup.Store, green, yellow, red *color.Color) {
	form, err := promptForm(cfg.Last)
	if err != nil {
		return
	}

	confirm := cfgfile.ConfirmFunc(func(path string) bool {
		p := promptui.Prompt{
			Label:     fmt.Sprintf("%s is read-only. Make it writable to overwrite it", path),
			IsConfirm: true,
		}
		_, err := p.Run()
		return err == nil
	})

	yellow.Println("  Optimizing...")
	report := optimizer.New(cfg.TemplatesDir, confirm, store).Run(form)

	if st := report.Stage(optimizer.StageSettings); st != nil && st.Status == optimizer.StatusOK {
		cfg.Remember(form)
		if err := config.Save(cfg, cfgPath); err != nil {
			log.Warn().Err(err).Msg("preferences not saved")
		}
	}

	printReport(report, green, yellow, red)
}

func promptForm(last settings.Form) (settings.Form, error) {
	form := last

	path := promptui.Prompt{
		Label:     "Deadlock Path",
		Default:   last.InstallPath,
		AllowEdit: true,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("path is required")
			}
			return nil
		},
	}
	v, err := path.Run()
	if err != nil {
		return form, err
	}
	form.InstallPath = v

	numeric := []struct {
		label string
		dst   *string
	}{
		{"Resolution Width", &form.ResolutionWidth},
		{"Resolution Height", &form.ResolutionHeight},
		{"Refresh Rate", &form.RefreshRate},
		{"Desired FPS", &form.DesiredFPS},
	}
	for _, n := range numeric {
		p := promptui.Prompt{
			Label:     n.label,
			Default:   *n.dst,
			AllowEdit: true,
			Validate:  validateInt,
		}
		v, err := p.Run()
		if err != nil {
			return form, err
		}
		*n.dst = v
	}

	form.DisplayMode, err = selectLabel("Display Mode", settings.DisplayModeLabels(), last.DisplayMode)
	if err != nil {
		return form, err
	}
	form.TextureQuality, err = selectLabel("Texture Quality", settings.TextureQualityLabels(), last.TextureQuality)
	if err != nil {
		return form, err
	}

	readOnly := promptui.Prompt{
		Label:     "Make video.txt read-only to fully save these settings",
		IsConfirm: true,
	}
	if last.ReadOnly {
		readOnly.Default = "y"
	}
	_, err = readOnly.Run()
	form.ReadOnly, err = confirmed(err)
	if err != nil {
		return form, err
	}

	return form, nil
}

// confirmed turns the error of a promptui confirm prompt into an answer.
// Anything but a plain "no" aborts.
func confirmed(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, err
	}
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func selectLabel(label string, items []string, current string) (string, error) {
	cursor := 0
	for i, item := range items {
		if item == current {
			cursor = i
		}
	}
	s := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
	}
	_, v, err := s.Run()
	return v, err
}

func cliProfile(cfg *config.Config, cfgPath string, green *color.Color) {
	all := profiles.AllProfiles()
	items := make([]string, len(all))
	for i, p := range all {
		items[i] = fmt.Sprintf("%s - %s", p.Name, p.Description)
	}

	prompt := promptui.Select{
		Label: "Select Profile",
		Items: items,
		Size:  len(items),
	}
	i, _, err := prompt.Run()
	if err != nil {
		return
	}

	cfg.Profile = all[i].ID
	cfg.Last = all[i].Apply(cfg.Last)
	if err := config.Save(cfg, cfgPath); err != nil {
		color.Red("  Error: %v", err)
		return
	}
	green.Printf("  ✓ %s profile selected. Run Optimize to apply it.\n", all[i].Name)
}

func cliRestore(store *backup.Store, green, yellow, red *color.Color) {
	if store == nil || !store.HasBackup() {
		yellow.Println("  No original files have been saved yet.")
		return
	}

	fmt.Printf("  Originals saved %s:\n", humanize.Time(store.LastSaved()))
	for _, e := range store.Entries() {
		if e.Existed {
			fmt.Printf("    • %s\n", e.Target)
		} else {
			fmt.Printf("    • %s (will be removed)\n", e.Target)
		}
	}

	prompt := promptui.Prompt{
		Label:     "Restore these files",
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return
	}

	if err := store.RestoreAll(); err != nil {
		red.Printf("  Error: %v\n", err)
		return
	}
	green.Println("  ✓ Original files restored!")
}

func printReport(r *optimizer.Report, green, yellow, red *color.Color) {
	for _, w := range r.Warnings {
		yellow.Printf("  ⚠ %s\n", w)
	}

	for _, st := range r.Stages {
		switch st.Status {
		case optimizer.StatusOK:
			if st.Bytes > 0 {
				green.Printf("  ✓ %s (%s)\n", st.Message, humanize.Bytes(uint64(st.Bytes)))
			} else {
				green.Printf("  ✓ %s\n", st.Message)
			}
		case optimizer.StatusSkipped:
			yellow.Printf("  – %s\n", st.Message)
		case optimizer.StatusFailed:
			red.Printf("  ✗ %s\n", st.Message)
			red.Printf("    %s error: %s\n", st.Kind, st.Error)
		}
		for _, w := range st.Warnings {
			yellow.Printf("    ⚠ %s\n", w)
		}
	}

	if r.Success {
		green.Println("\n  Successfully optimized your game!")
	}
}
