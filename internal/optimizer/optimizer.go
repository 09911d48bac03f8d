// Package optimizer runs the optimize action: validate the form, rewrite
// video.txt and autoexec.cfg, then patch gameinfo.gi. Stages run in order on
// the calling goroutine and the first failure ends the run. Nothing is rolled
// back.
package optimizer

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"deadlockoptimizer/internal/backup"
	"deadlockoptimizer/internal/cfgfile"
	"deadlockoptimizer/internal/fileattr"
	"deadlockoptimizer/internal/game"
	"deadlockoptimizer/internal/gameinfo"
	"deadlockoptimizer/internal/hwid"
	"deadlockoptimizer/internal/render"
	"deadlockoptimizer/internal/settings"
)

const launchHint = "Ensure you have the correct path and have launched Deadlock prior to optimizing."

// Optimizer holds the collaborators of an optimize action.
type Optimizer struct {
	TemplatesDir string
	Writer       *cfgfile.Writer

	// Backups, when set, receives every target before its first overwrite.
	Backups *backup.Store

	// FindRunning, when set, is used to warn that the game is open.
	FindRunning func() ([]game.Process, error)

	// SetReadOnly applies the read-only option to video.txt.
	SetReadOnly func(path string, readOnly bool) error
}

// New returns an Optimizer reading templates from templatesDir.
func New(templatesDir string, confirm cfgfile.Confirmer, backups *backup.Store) *Optimizer {
	return &Optimizer{
		TemplatesDir: templatesDir,
		Writer:       cfgfile.NewWriter(confirm),
		Backups:      backups,
		FindRunning:  game.FindRunning,
		SetReadOnly:  fileattr.SetReadOnly,
	}
}

// Run validates form and, if it is valid, optimizes the installation it names.
func (o *Optimizer) Run(form settings.Form) *Report {
	r := &Report{}

	res := StageResult{Stage: StageSettings, Status: StatusOK, Message: "Settings saved."}
	s, err := settings.Collect(form)
	if err != nil {
		res.fail(err, "Cannot save settings. Ensure you have entered the correct information.")
		log.Error().Err(err).Msg("form validation failed")
		r.add(res)
		return r
	}
	r.add(res)

	o.optimize(s, r)
	return r
}

// Optimize applies already validated settings.
func (o *Optimizer) Optimize(s settings.Settings) *Report {
	r := &Report{}
	o.optimize(s, r)
	return r
}

func (o *Optimizer) optimize(s settings.Settings, r *Report) {
	layout := game.NewLayout(s.InstallPath)

	install := StageResult{Stage: StageInstall, Status: StatusOK, Path: layout.Root, Message: "Found Deadlock installation."}
	if err := layout.Validate(); err != nil {
		install.fail(err, fmt.Sprintf("%s is not a Deadlock folder. %s", layout.Root, launchHint))
		log.Error().Err(err).Msg("install path rejected")
		r.add(install)
		return
	}
	r.add(install)

	if o.FindRunning != nil {
		if procs, err := o.FindRunning(); err != nil {
			log.Debug().Err(err).Msg("could not list processes")
		} else if len(procs) > 0 {
			msg := fmt.Sprintf("Deadlock is running (%s, pid %d); it may overwrite video.txt when it exits.", procs[0].Name, procs[0].PID)
			r.Warnings = append(r.Warnings, msg)
			log.Warn().Msg(msg)
		}
	}

	if !r.add(o.writeVideo(layout, s)) {
		return
	}
	if !r.add(o.writeAutoexec(layout, s)) {
		return
	}

	res, outcome := o.writeGameinfo(layout)
	if res.Status != StatusFailed {
		r.GameinfoOutcome = outcome.String()
	}
	r.add(res)
}

func (o *Optimizer) writeVideo(layout game.Layout, s settings.Settings) StageResult {
	res := StageResult{Stage: StageVideo, Path: layout.Video}

	ids, err := hwid.Extract(layout.Video)
	if err != nil {
		res.fail(err, fmt.Sprintf("Failed to get your Vendor/Device IDs from %s. %s", layout.Video, launchHint))
		log.Error().Err(err).Msg("vendor/device id lookup failed")
		return res
	}
	log.Info().Str("vendor", ids.VendorID).Str("device", ids.DeviceID).Msgf("retrieved vendor/device IDs from %s", layout.Video)

	params, err := render.NewVideoParams(s, ids)
	if err != nil {
		res.fail(err, "Failed to generate new video.txt file. Ensure you have entered the correct information.")
		log.Error().Err(err).Msg("video parameters incomplete")
		return res
	}
	content, err := render.Execute(o.TemplatesDir, render.VideoTemplate, params.Values())
	if err != nil {
		res.fail(err, "Failed to generate new video.txt file. Ensure you have entered the correct information.")
		log.Error().Err(err).Msg("video template failed")
		return res
	}

	w := o.writerFor(&res)
	if err := w.Overwrite(layout.Video, []byte(content), false); err != nil {
		res.fail(err, fmt.Sprintf("Failed to write to %s. %s", layout.Video, launchHint))
		log.Error().Err(err).Msg("video write failed")
		return res
	}
	res.Bytes = len(content)
	log.Info().Msgf("successfully optimized %s", layout.Video)

	o.snapshot(layout.VideoBak, &res)
	if err := o.Writer.Mirror(layout.VideoBak, []byte(content)); err != nil {
		res.warn("Could not update %s: %v", layout.VideoBak, err)
		log.Warn().Err(err).Msg("backup copy not updated")
	}

	if s.ReadOnly && o.SetReadOnly != nil {
		if err := o.SetReadOnly(layout.Video, true); err != nil {
			res.warn("Failed to set %s to read-only. Ensure you have the correct permissions.", layout.Video)
			log.Warn().Err(err).Msg("read-only not applied")
		}
	}

	res.Status = StatusOK
	res.Message = fmt.Sprintf("Optimized %s.", layout.Video)
	return res
}

func (o *Optimizer) writeAutoexec(layout game.Layout, s settings.Settings) StageResult {
	res := StageResult{Stage: StageAutoexec, Path: layout.Autoexec}

	content, err := render.Execute(o.TemplatesDir, render.AutoexecTemplate, render.NewAutoexecParams(s).Values())
	if err != nil {
		res.fail(err, "Failed to get autoexec config from the templates folder. Ensure the program runs next to its configs folder.")
		log.Error().Err(err).Msg("autoexec template failed")
		return res
	}

	w := o.writerFor(&res)
	if err := w.Overwrite(layout.Autoexec, []byte(content), true); err != nil {
		res.fail(err, fmt.Sprintf("Failed to write to %s. %s", layout.Autoexec, launchHint))
		log.Error().Err(err).Msg("autoexec write failed")
		return res
	}

	res.Status = StatusOK
	res.Bytes = len(content)
	res.Message = fmt.Sprintf("Optimized %s.", layout.Autoexec)
	log.Info().Msgf("successfully optimized %s", layout.Autoexec)
	return res
}

func (o *Optimizer) writeGameinfo(layout game.Layout) (StageResult, gameinfo.Outcome) {
	res := StageResult{Stage: StageGameinfo, Path: layout.Gameinfo}

	block, err := render.Load(o.TemplatesDir, render.GameinfoTemplate)
	if err != nil {
		res.fail(err, "Failed to get gameinfo config from the templates folder. Ensure the program runs next to its configs folder.")
		log.Error().Err(err).Msg("gameinfo template failed")
		return res, gameinfo.OutcomeMarkerNotFound
	}

	outcome, err := gameinfo.PatchFile(layout.Gameinfo, block, o.writerFor(&res))
	if err != nil {
		res.fail(err, fmt.Sprintf("Failed to write to %s. %s", layout.Gameinfo, launchHint))
		log.Error().Err(err).Msg("gameinfo patch failed")
		return res, outcome
	}

	switch outcome {
	case gameinfo.OutcomeInserted:
		res.Status = StatusOK
		res.Bytes = len(block)
		res.Message = fmt.Sprintf("Optimized %s.", layout.Gameinfo)
		log.Info().Msgf("successfully optimized %s", layout.Gameinfo)
	case gameinfo.OutcomeAlreadyPatched:
		res.Status = StatusSkipped
		res.Message = "Gameinfo optimization already exists. Skipping insertion."
		log.Info().Msg("gameinfo already optimized")
	case gameinfo.OutcomeMarkerNotFound:
		res.Status = StatusSkipped
		res.Message = fmt.Sprintf("No %s section in %s; left unchanged.", gameinfo.SectionMarker, layout.Gameinfo)
		res.warn("%s has no %s section; the gameinfo tweaks were not applied.", layout.Gameinfo, gameinfo.SectionMarker)
		log.Warn().Msgf("%s section not found in %s", gameinfo.SectionMarker, layout.Gameinfo)
	}
	return res, outcome
}

// snapshot saves the original of path before it is first overwritten. A
// failed snapshot is a warning; the write still goes ahead.
func (o *Optimizer) snapshot(path string, res *StageResult) {
	if o.Backups == nil {
		return
	}
	if err := o.Backups.SaveFile(path); err != nil {
		res.warn("Could not back up the original %s: %v", path, err)
		log.Warn().Err(err).Str("path", path).Msg("original not backed up")
	}
}

// writerFor returns a writer that snapshots each target before overwriting it.
func (o *Optimizer) writerFor(res *StageResult) gameinfo.Writer {
	return snapshotWriter{o: o, res: res}
}

type snapshotWriter struct {
	o   *Optimizer
	res *StageResult
}

func (w snapshotWriter) Overwrite(path string, content []byte, create bool) error {
	w.o.snapshot(path, w.res)
	return w.o.Writer.Overwrite(path, content, create)
}
