package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"deadlockoptimizer/internal/backup"
	"deadlockoptimizer/internal/cfgfile"
	"deadlockoptimizer/internal/config"
	"deadlockoptimizer/internal/optimizer"
	"deadlockoptimizer/internal/profiles"
	"deadlockoptimizer/internal/settings"
)

type App struct {
	ctx context.Context

	// mu serializes actions that touch the install, cfg or backups. Wails
	// runs every bound call on its own goroutine.
	mu      sync.Mutex
	cfg     *config.Config
	cfgPath string
	backups *backup.Store
}

func NewApp(cfg *config.Config, cfgPath string, backups *backup.Store) *App {
	return &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		backups: backups,
	}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// ============================================================
// Form
// ============================================================

func (a *App) GetPreferences() settings.Form {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Last
}

func (a *App) GetDisplayModes() []string {
	return settings.DisplayModeLabels()
}

func (a *App) GetTextureQualities() []string {
	return settings.TextureQualityLabels()
}

func (a *App) BrowseInstallPath() (string, error) {
	a.mu.Lock()
	dir := a.cfg.Last.InstallPath
	a.mu.Unlock()

	return runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		Title:            "Select Deadlock Folder",
		DefaultDirectory: dir,
	})
}

// ============================================================
// Profiles
// ============================================================

func (a *App) GetProfiles() []profiles.Profile {
	return profiles.AllProfiles()
}

func (a *App) ApplyProfile(profileID string, form settings.Form) (settings.Form, error) {
	p := profiles.GetProfileByID(profileID)
	if p == nil {
		return form, fmt.Errorf("unknown profile %q", profileID)
	}
	a.mu.Lock()
	a.cfg.Profile = p.ID
	a.mu.Unlock()
	return p.Apply(form), nil
}

// ============================================================
// Optimize
// ============================================================

func (a *App) Optimize(form settings.Form) *optimizer.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	o := optimizer.New(a.cfg.TemplatesDir, cfgfile.ConfirmFunc(a.confirmWritable), a.backups)
	report := o.Run(form)

	if st := report.Stage(optimizer.StageSettings); st != nil && st.Status == optimizer.StatusOK {
		a.cfg.Remember(form)
		if err := config.Save(a.cfg, a.cfgPath); err != nil {
			log.Warn().Err(err).Msg("preferences not saved")
		}
	}

	if failed := report.Failed(); failed != nil {
		a.showError(failed.Message + " See console for more information.")
		return report
	}

	msg := "Successfully optimized your game!"
	if warnings := report.AllWarnings(); len(warnings) > 0 {
		msg += "\n\n" + strings.Join(warnings, "\n")
	}
	a.showInfo("Success", msg)
	return report
}

func (a *App) confirmWritable(path string) bool {
	answer, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         "File is Read-Only",
		Message:       fmt.Sprintf("%s is currently read-only. Do you want to make it writable to overwrite it?", path),
		Buttons:       []string{"Yes", "No"},
		DefaultButton: "No",
	})
	if err != nil {
		log.Error().Err(err).Msg("read-only confirmation dialog failed")
		return false
	}
	return answer == "Yes"
}

func (a *App) showInfo(title, message string) {
	_, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   title,
		Message: message,
	})
	if err != nil {
		log.Error().Err(err).Msg("info dialog failed")
	}
}

func (a *App) showError(message string) {
	_, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   "Error",
		Message: message,
	})
	if err != nil {
		log.Error().Err(err).Msg("error dialog failed")
	}
}

// ============================================================
// Backup
// ============================================================

func (a *App) HasBackup() bool {
	return a.backups != nil && a.backups.HasBackup()
}

func (a *App) GetBackups() []backup.FileBackup {
	if a.backups == nil {
		return nil
	}
	return a.backups.Entries()
}

func (a *App) RestoreOriginals() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.backups == nil {
		return fmt.Errorf("backups are not available")
	}
	if err := a.backups.RestoreAll(); err != nil {
		a.showError(err.Error())
		return err
	}
	a.showInfo("Restored", "Original Deadlock files restored.")
	return nil
}
