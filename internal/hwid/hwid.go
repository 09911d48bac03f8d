// Package hwid reads the GPU vendor and device identifiers that the game
// records in its own video.txt.
package hwid

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	VendorMarker = "VendorID"
	DeviceMarker = "DeviceID"
)

var digits = regexp.MustCompile(`\d+`)

// IDs is the identifier pair found in a video.txt.
type IDs struct {
	VendorID string `json:"vendorId"`
	DeviceID string `json:"deviceId"`
}

// MissingIdentifierError means a marker line was absent or carried no digits.
type MissingIdentifierError struct {
	Path   string
	Marker string
}

func (e *MissingIdentifierError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s is not set", e.Marker)
	}
	return fmt.Sprintf("%s not found in %s", e.Marker, e.Path)
}

// Extract scans path and returns the vendor and device identifiers.
// A later matching line overrides an earlier one.
func Extract(path string) (IDs, error) {
	f, err := os.Open(path)
	if err != nil {
		return IDs{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var ids IDs
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, VendorMarker):
			if d := digits.FindString(line); d != "" {
				ids.VendorID = d
			}
		case strings.Contains(line, DeviceMarker):
			if d := digits.FindString(line); d != "" {
				ids.DeviceID = d
			}
		}
	}
	if err := sc.Err(); err != nil {
		return IDs{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if ids.VendorID == "" {
		return IDs{}, &MissingIdentifierError{Path: path, Marker: VendorMarker}
	}
	if ids.DeviceID == "" {
		return IDs{}, &MissingIdentifierError{Path: path, Marker: DeviceMarker}
	}
	return ids, nil
}
