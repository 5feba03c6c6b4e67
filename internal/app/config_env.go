package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.URL == "" {
		cfg.URL = os.Getenv("CLIPREAD_URL")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = os.Getenv("CLIPREAD_OUTPUT")
	}
	if cfg.Format == "" {
		cfg.Format = os.Getenv("CLIPREAD_FORMAT")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("CLIPREAD_UA")
	}
	if cfg.ChromePath == "" {
		cfg.ChromePath = os.Getenv("CHROME_PATH")
	}

	if cfg.FetchTimeout == 0 {
		if s := os.Getenv("CLIPREAD_FETCH_TIMEOUT"); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				cfg.FetchTimeout = d
			}
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.DisableRender, "CLIPREAD_NO_RENDER")
	setBool(&cfg.Verbose, "VERBOSE")
}
