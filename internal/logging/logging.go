// Package logging builds the process logger from an embedded profile, with
// the LOG_LEVEL environment variable as a runtime override.
package logging

import (
	_ "embed"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed logging.yaml
var profileYAML []byte

// Profile is the embedded logging configuration.
type Profile struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"addSource"`
}

func loadProfile() Profile {
	var p Profile
	if err := yaml.Unmarshal(profileYAML, &p); err != nil {
		// the profile ships inside the binary; a parse failure is a build
		// defect, fall back to defaults rather than crashing the handler
		return Profile{Level: "info", Format: "json"}
	}
	return p
}

// Level returns the effective log level. LOG_LEVEL overrides the embedded
// profile; unknown values fall back to Info.
func Level() slog.Level {
	if env := strings.TrimSpace(os.Getenv("LOG_LEVEL")); env != "" {
		return parseLevel(env)
	}
	return parseLevel(loadProfile().Level)
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns the process logger configured from the embedded profile.
func New() *slog.Logger {
	p := loadProfile()
	opts := &slog.HandlerOptions{
		Level:     Level(),
		AddSource: p.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(p.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
