package optimizer

import (
	"errors"
	"fmt"

	"deadlockoptimizer/internal/cfgfile"
	"deadlockoptimizer/internal/fileattr"
	"deadlockoptimizer/internal/hwid"
	"deadlockoptimizer/internal/render"
	"deadlockoptimizer/internal/settings"
)

// Stage names, in execution order.
const (
	StageSettings = "settings"
	StageInstall  = "install"
	StageVideo    = "video"
	StageAutoexec = "autoexec"
	StageGameinfo = "gameinfo"
)

// Kind classifies a stage failure.
type Kind string

const (
	KindNone              Kind = ""
	KindValidation        Kind = "validation"
	KindMissingIdentifier Kind = "missing_identifier"
	KindTemplate          Kind = "template"
	KindPermission        Kind = "permission"
	KindIO                Kind = "io"
)

// Classify maps an error to its Kind.
func Classify(err error) Kind {
	var (
		verr *settings.ValidationError
		merr *hwid.MissingIdentifierError
		terr *render.TemplateError
		perr *fileattr.PermissionError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &verr):
		return KindValidation
	case errors.As(err, &merr):
		return KindMissingIdentifier
	case errors.As(err, &terr):
		return KindTemplate
	case errors.As(err, &perr), errors.Is(err, cfgfile.ErrDeclined):
		return KindPermission
	default:
		return KindIO
	}
}

// Status is the terminal state of one stage.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// StageResult is what one stage reports back.
type StageResult struct {
	Stage    string   `json:"stage"`
	Status   Status   `json:"status"`
	Path     string   `json:"path,omitempty"`
	Bytes    int      `json:"bytes,omitempty"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
	Kind     Kind     `json:"kind,omitempty"`
	Error    string   `json:"error,omitempty"`
	Err      error    `json:"-"`
}

func (r *StageResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *StageResult) fail(err error, message string) {
	r.Status = StatusFailed
	r.Err = err
	r.Error = err.Error()
	r.Kind = Classify(err)
	r.Message = message
}

// Report aggregates every stage of one optimize action.
type Report struct {
	Stages          []StageResult `json:"stages"`
	Warnings        []string      `json:"warnings,omitempty"`
	GameinfoOutcome string        `json:"gameinfoOutcome,omitempty"`
	Success         bool          `json:"success"`
}

func (r *Report) add(res StageResult) bool {
	r.Stages = append(r.Stages, res)
	r.Success = res.Status != StatusFailed
	return r.Success
}

// Failed returns the failing stage, or nil when the run succeeded.
func (r *Report) Failed() *StageResult {
	for i := range r.Stages {
		if r.Stages[i].Status == StatusFailed {
			return &r.Stages[i]
		}
	}
	return nil
}

// Err returns the error of the failing stage.
func (r *Report) Err() error {
	if f := r.Failed(); f != nil {
		return fmt.Errorf("%s: %w", f.Stage, f.Err)
	}
	return nil
}

// AllWarnings returns run-level warnings followed by stage warnings.
func (r *Report) AllWarnings() []string {
	out := append([]string(nil), r.Warnings...)
	for _, s := range r.Stages {
		out = append(out, s.Warnings...)
	}
	return out
}

// Stage returns the result for the named stage, or nil if it did not run.
func (r *Report) Stage(name string) *StageResult {
	for i := range r.Stages {
		if r.Stages[i].Stage == name {
			return &r.Stages[i]
		}
	}
	return nil
}
