package config

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// Project name limits
	MinProjectNameLen = 2
	MaxProjectNameLen = 64

	// Port limits
	MinUserPort = 1024 // Ports below 1024 require root
	MaxPort     = 65535
)

var (
	validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
	validServiceName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	validModes       = map[string]struct{}{
		"autonomous": {}, "manual": {}, "debug": {},
	}
)

// ValidationError collects multiple validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s",
		strings.Join(e.Errors, "\n  - "))
}

// Add appends a validation error message
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// HasErrors returns true if there are any validation errors
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the config for semantic errors
func (c *Config) Validate() error {
	errs := &ValidationError{}

	// Project name
	if c.Project == "" {
		errs.Add("project name is required")
	} else {
		if !validProjectName.MatchString(c.Project) {
			errs.Add("project name must be alphanumeric with hyphens, starting with a letter")
		}
		if len(c.Project) < MinProjectNameLen {
			errs.Add(fmt.Sprintf("project name must be at least %d characters", MinProjectNameLen))
		}
		if len(c.Project) > MaxProjectNameLen {
			errs.Add(fmt.Sprintf("project name cannot exceed %d characters", MaxProjectNameLen))
		}
	}

	// Default mode
	if _, ok := validModes[c.DefaultMode]; !ok {
		errs.Add("default_mode must be one of: autonomous, manual, debug")
	}

	// Repos: names unique, paths required
	seenRepos := make(map[string]bool)
	for _, r := range c.Repos {
		if r.Name == "" {
			errs.Add("repo name is required")
			continue
		}
		if seenRepos[r.Name] {
			errs.Add(fmt.Sprintf("duplicate repo name: %s", r.Name))
		}
		seenRepos[r.Name] = true
		if r.Path == "" {
			errs.Add(fmt.Sprintf("repo %s: path is required", r.Name))
		}
	}

	// Services: names unique, units required, modes known
	seenServices := make(map[string]bool)
	seenUnits := make(map[string]bool)
	for _, s := range c.Services {
		if s.Name == "" {
			errs.Add("service name is required")
			continue
		}
		if !validServiceName.MatchString(s.Name) {
			errs.Add(fmt.Sprintf("service %s: name must be alphanumeric, starting with a letter", s.Name))
		}
		if seenServices[s.Name] {
			errs.Add(fmt.Sprintf("duplicate service name: %s", s.Name))
		}
		seenServices[s.Name] = true

		if s.Unit == "" {
			errs.Add(fmt.Sprintf("service %s: unit is required", s.Name))
		} else if seenUnits[s.Unit] {
			errs.Add(fmt.Sprintf("duplicate service unit: %s", s.Unit))
		}
		seenUnits[s.Unit] = true

		for _, m := range s.Modes {
			if _, ok := validModes[m]; !ok {
				errs.Add(fmt.Sprintf("service %s: unknown mode %q", s.Name, m))
			}
		}
	}

	// Docs port
	if c.Docs.Port != 0 && (c.Docs.Port < MinUserPort || c.Docs.Port > MaxPort) {
		errs.Add(fmt.Sprintf("docs.port must be between %d and %d", MinUserPort, MaxPort))
	}

	// Logs rotation
	if c.Logs.MaxSizeMB < 0 {
		errs.Add("logs.max_size_mb cannot be negative")
	}
	if c.Logs.MaxBackups < 0 {
		errs.Add("logs.max_backups cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Warnings returns non-fatal issues (call after Validate)
func (c *Config) Warnings() []string {
	var warnings []string
	for _, s := range c.Services {
		if s.Unit != "" && !strings.HasSuffix(s.Unit, ".service") {
			warnings = append(warnings, fmt.Sprintf("service %s: unit %q has no .service suffix", s.Name, s.Unit))
		}
	}
	for _, r := range c.Repos {
		if r.Remote == "" {
			warnings = append(warnings, fmt.Sprintf("repo %s: no remote configured, clone on deploy will fail", r.Name))
		}
	}
	if len(c.Services) == 0 {
		warnings = append(warnings, "no services configured, start/stop will be no-ops")
	}
	return warnings
}

// LoadAndValidate reads and validates the config
func LoadAndValidate(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
