package firefox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

var (
	// ErrNoProfiles is returned when profiles.ini lists no profiles.
	ErrNoProfiles = errors.New("no Firefox profiles found")
	// ErrProfileNotFound is returned when a named profile does not exist.
	ErrProfileNotFound = errors.New("Firefox profile not found")
)

// Profile is one entry of profiles.ini.
type Profile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Default bool   `json:"default"`
}

// PlacesPath returns the location of the profile's history database.
func (p Profile) PlacesPath() string {
	return filepath.Join(p.Path, "places.sqlite")
}

// DefaultRoot returns the directory holding profiles.ini on this platform.
func DefaultRoot() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("resolving Firefox directory: APPDATA is not set")
		}
		return filepath.Join(appData, "Mozilla", "Firefox"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "Firefox"), nil
	}
	return filepath.Join(home, ".mozilla", "firefox"), nil
}

// Discover reads root/profiles.ini and returns its profiles, default
// first. The default is the profile an [Install...] section points at,
// else the one flagged Default=1, else the only profile.
func Discover(root string) ([]Profile, error) {
	cfg, err := ini.Load(filepath.Join(root, "profiles.ini"))
	if err != nil {
		return nil, fmt.Errorf("reading profiles.ini: %w", err)
	}

	installDefault := ""
	var profiles []Profile
	flagged := -1

	for _, sec := range cfg.Sections() {
		switch {
		case strings.HasPrefix(sec.Name(), "Install"):
			if installDefault == "" {
				installDefault = sec.Key("Default").String()
			}
		case strings.HasPrefix(sec.Name(), "Profile"):
			rel := sec.Key("Path").String()
			if rel == "" {
				continue
			}
			path := rel
			if sec.Key("IsRelative").MustBool(true) {
				path = filepath.Join(root, filepath.FromSlash(rel))
			}
			p := Profile{Name: sec.Key("Name").String(), Path: path}
			if sec.Key("Default").MustBool(false) && flagged < 0 {
				flagged = len(profiles)
			}
			profiles = append(profiles, p)
		}
	}

	if len(profiles) == 0 {
		return nil, ErrNoProfiles
	}

	// [Install] sections may follow the profiles they name.
	if installDefault != "" {
		for i := range profiles {
			rel, err := filepath.Rel(root, profiles[i].Path)
			if err == nil && filepath.ToSlash(rel) == installDefault {
				profiles[i].Default = true
			}
		}
	}

	if !hasDefault(profiles) {
		switch {
		case flagged >= 0:
			profiles[flagged].Default = true
		case len(profiles) == 1:
			profiles[0].Default = true
		}
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Default && !profiles[j].Default
	})

	return profiles, nil
}

func hasDefault(profiles []Profile) bool {
	for _, p := range profiles {
		if p.Default {
			return true
		}
	}
	return false
}

// Select returns the profile called name, or the default profile when
// name is empty.
func Select(profiles []Profile, name string) (Profile, error) {
	if len(profiles) == 0 {
		return Profile{}, ErrNoProfiles
	}
	for _, p := range profiles {
		if name == "" && p.Default {
			return p, nil
		}
		if name != "" && p.Name == name {
			return p, nil
		}
	}
	if name == "" {
		return Profile{}, fmt.Errorf("%w: no default profile, pass a profile name", ErrProfileNotFound)
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
}
