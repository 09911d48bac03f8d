package render

import (
	"strconv"

	"deadlockoptimizer/internal/hwid"
	"deadlockoptimizer/internal/settings"
)

// Template file names inside the templates directory.
const (
	VideoTemplate    = "video.txt"
	AutoexecTemplate = "autoexec.txt"
	GameinfoTemplate = "gameinfo.txt"
)

// VideoParams carries one field per placeholder of the video template.
type VideoParams struct {
	ResolutionWidth  int
	ResolutionHeight int
	RefreshRate      int
	DesiredFPS       int
	DisplayMode      int
	TextureQuality   int
	DeviceID         string
	VendorID         string
}

// NewVideoParams combines validated settings with the identifiers read from
// the existing video.txt. Both identifiers must be present.
func NewVideoParams(s settings.Settings, ids hwid.IDs) (VideoParams, error) {
	if ids.VendorID == "" {
		return VideoParams{}, &hwid.MissingIdentifierError{Marker: hwid.VendorMarker}
	}
	if ids.DeviceID == "" {
		return VideoParams{}, &hwid.MissingIdentifierError{Marker: hwid.DeviceMarker}
	}
	return VideoParams{
		ResolutionWidth:  s.ResolutionWidth,
		ResolutionHeight: s.ResolutionHeight,
		RefreshRate:      s.RefreshRate,
		DesiredFPS:       s.DesiredFPS,
		DisplayMode:      int(s.DisplayMode),
		TextureQuality:   int(s.TextureQuality),
		DeviceID:         ids.DeviceID,
		VendorID:         ids.VendorID,
	}, nil
}

// Values returns the placeholder map for the video template.
func (p VideoParams) Values() map[string]string {
	return map[string]string{
		"resolution_width":  strconv.Itoa(p.ResolutionWidth),
		"resolution_height": strconv.Itoa(p.ResolutionHeight),
		"refresh_rate":      strconv.Itoa(p.RefreshRate),
		"desired_fps":       strconv.Itoa(p.DesiredFPS),
		"display_mode":      strconv.Itoa(p.DisplayMode),
		"texture_quality":   strconv.Itoa(p.TextureQuality),
		"device_id":         p.DeviceID,
		"vendor_id":         p.VendorID,
	}
}

// AutoexecParams carries the single placeholder of the autoexec template.
type AutoexecParams struct {
	DesiredFPS int
}

func NewAutoexecParams(s settings.Settings) AutoexecParams {
	return AutoexecParams{DesiredFPS: s.DesiredFPS}
}

func (p AutoexecParams) Values() map[string]string {
	return map[string]string{
		"desired_fps": strconv.Itoa(p.DesiredFPS),
	}
}
