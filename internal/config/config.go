// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and ARCHER_ environment variables over them.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"

	"github.com/okian/archer/internal/domain/grade"
	"github.com/okian/archer/internal/domain/verdict"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RosterFile points at a CSV roster. Empty means the embedded academy roster.
	RosterFile string `koanf:"roster_file"`

	// ReadyThreshold and AlmostThreshold are the inclusive lower bounds of
	// the READY and ALMOST verdicts.
	ReadyThreshold  int `koanf:"ready_threshold"`
	AlmostThreshold int `koanf:"almost_threshold"`

	// DefaultGrade is assigned to every skill when a session starts.
	DefaultGrade string `koanf:"default_grade"`

	// MaxReviewChars caps the coach review length.
	MaxReviewChars int `koanf:"max_review_chars"`

	// ImprovementAreas is how many weak skills an ALMOST report lists.
	ImprovementAreas int `koanf:"improvement_areas"`

	// CoachAliases replaces the built-in coach name corrections when set.
	CoachAliases map[string]string `koanf:"coach_aliases"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ReadyThreshold:   verdict.DefaultReadyThreshold,
		AlmostThreshold:  verdict.DefaultAlmostThreshold,
		DefaultGrade:     grade.C.String(),
		MaxReviewChars:   3000,
		ImprovementAreas: 3,
	}
}

// Grade returns the parsed default grade.
func (c *Config) Grade() grade.Grade {
	g, err := grade.Parse(c.DefaultGrade)
	if err != nil {
		return grade.C
	}
	return g
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ReadyThreshold <= c.AlmostThreshold:
		return fmt.Errorf("%w: ready_threshold (%d) must exceed almost_threshold (%d)",
			ErrInvalidConfig, c.ReadyThreshold, c.AlmostThreshold)
	case c.MaxReviewChars <= 0:
		return fmt.Errorf("%w: max_review_chars must be positive", ErrInvalidConfig)
	case c.ImprovementAreas <= 0:
		return fmt.Errorf("%w: improvement_areas must be positive", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	if _, err := grade.Parse(c.DefaultGrade); err != nil {
		return fmt.Errorf("%w: default_grade: %w", ErrInvalidConfig, err)
	}
	return nil
}
