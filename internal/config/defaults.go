package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Firefox: FirefoxConfig{
			ProfilesDir: "",
			Profile:     "",
			PlacesPath:  "",
		},
		Export: ExportConfig{
			OutputDir:  "~/Downloads",
			MaxResults: 10000,
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}
