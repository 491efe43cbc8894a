package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runnerr0/histexport/internal/config"
	"github.com/runnerr0/histexport/internal/firefox"
	"github.com/runnerr0/histexport/internal/logger"
)

// loadConfig loads the config named by --config, or the default one.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	path := ""
	if globals != nil {
		path = globals.Config
	}
	return config.LoadOrDefault(path)
}

// buildLogger returns the logger for a command run and a function that
// closes its log file, if any. --verbose forces debug level.
func buildLogger(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	if cfg.Logging.File == "" {
		return logger.New(os.Stderr, level), func() {}, nil
	}

	path, err := config.ExpandPath(cfg.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.New(f, level), func() { f.Close() }, nil
}

// profilesRoot picks the directory holding profiles.ini.
func profilesRoot(override string, cfg *config.Config) (string, error) {
	if override == "" {
		override = cfg.Firefox.ProfilesDir
	}
	if override != "" {
		return config.ExpandPath(override)
	}
	return firefox.DefaultRoot()
}

// resolvePlacesPath finds the history database: an explicit path first,
// then the named (or default) profile.
func resolvePlacesPath(cfg *config.Config, placesFlag, profileFlag string) (string, error) {
	if placesFlag != "" {
		return config.ExpandPath(placesFlag)
	}
	if cfg.Firefox.PlacesPath != "" {
		return config.ExpandPath(cfg.Firefox.PlacesPath)
	}

	root, err := profilesRoot("", cfg)
	if err != nil {
		return "", err
	}
	profiles, err := firefox.Discover(root)
	if err != nil {
		return "", err
	}

	name := profileFlag
	if name == "" {
		name = cfg.Firefox.Profile
	}
	profile, err := firefox.Select(profiles, name)
	if err != nil {
		return "", err
	}
	return profile.PlacesPath(), nil
}

// outputDir picks the download directory.
func outputDir(cfg *config.Config, flag string) (string, error) {
	dir := flag
	if dir == "" {
		dir = cfg.Export.OutputDir
	}
	if dir == "" {
		dir = "."
	}
	return config.ExpandPath(dir)
}

// noticeWriter returns w, or os.Stderr when w is nil.
func noticeWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}
