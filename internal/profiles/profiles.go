package profiles

import "deadlockoptimizer/internal/settings"

// Profile is a named preset for the enumerated form fields. Numeric fields
// depend on the monitor and are never preset.
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DisplayMode    string `json:"displayMode"`
	TextureQuality string `json:"textureQuality"`
	ReadOnly       bool   `json:"readOnly"`
}

// AllProfiles returns the complete list of presets in menu order.
func AllProfiles() []Profile {
	return []Profile{
		Competitive(),
		Balanced(),
		Visual(),
	}
}

// GetProfileByID returns a profile by its ID, or nil if not found.
func GetProfileByID(id string) *Profile {
	for _, p := range AllProfiles() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// Competitive returns the lowest-latency preset.
func Competitive() Profile {
	return Profile{
		ID:             "competitive",
		Name:           "Competitive",
		Description:    "Exclusive fullscreen, lowest texture budget, video.txt locked so the game cannot reset it.",
		DisplayMode:    "Fullscreen",
		TextureQuality: "Performance",
		ReadOnly:       true,
	}
}

// Balanced returns the recommended preset.
func Balanced() Profile {
	return Profile{
		ID:             "balanced",
		Name:           "Balanced (Recommended)",
		Description:    "Exclusive fullscreen with the balanced texture budget.",
		DisplayMode:    "Fullscreen",
		TextureQuality: "Balanced",
	}
}

// Visual returns a preset for alt-tab friendly play with sharp textures.
func Visual() Profile {
	return Profile{
		ID:             "visual",
		Name:           "Visual",
		Description:    "Borderless window with full quality textures.",
		DisplayMode:    "Borderless",
		TextureQuality: "Quality",
	}
}

// Apply copies the profile's presets into f.
func (p Profile) Apply(f settings.Form) settings.Form {
	f.DisplayMode = p.DisplayMode
	f.TextureQuality = p.TextureQuality
	f.ReadOnly = p.ReadOnly
	return f
}
