package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the raven config file
	ConfigFileName = "raven.yaml"
	// StateDir is the name of the local state directory
	StateDir = ".raven"
)

// Config represents the raven.yaml configuration
type Config struct {
	Project     string         `yaml:"project"`
	DefaultMode string         `yaml:"default_mode,omitempty"`
	Repos       []Repo         `yaml:"repos"`
	Services    []Service      `yaml:"services"`
	Firmware    FirmwareConfig `yaml:"firmware"`
	Docs        DocsConfig     `yaml:"docs"`
	Logs        LogsConfig     `yaml:"logs"`
}

// Repo describes one repository of the stack
type Repo struct {
	Name   string   `yaml:"name"`
	Path   string   `yaml:"path"`
	Remote string   `yaml:"remote,omitempty"`
	Test   []string `yaml:"test,omitempty"`
}

// Service describes one systemd-managed service of the stack.
// Services start in declared order and stop in reverse order.
type Service struct {
	Name   string   `yaml:"name"`
	Unit   string   `yaml:"unit"`
	Modes  []string `yaml:"modes,omitempty"`
	Health []string `yaml:"health,omitempty"`
}

// RunsIn reports whether the service is part of the given mode.
// A service with no modes listed runs in every mode.
func (s Service) RunsIn(mode string) bool {
	if len(s.Modes) == 0 {
		return true
	}
	for _, m := range s.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// FirmwareConfig contains the firmware build targets
type FirmwareConfig struct {
	Arduino ArduinoTarget `yaml:"arduino"`
	Mbed    MbedTarget    `yaml:"mbed"`
}

// ArduinoTarget configures the arduino-cli build/upload
type ArduinoTarget struct {
	Sketch string `yaml:"sketch"`
	FQBN   string `yaml:"fqbn"`
	Port   string `yaml:"port"`
}

// MbedTarget configures the mbed build/upload
type MbedTarget struct {
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	Toolchain string `yaml:"toolchain"`
	Image     string `yaml:"image,omitempty"`
	Mount     string `yaml:"mount,omitempty"`
}

// DocsConfig contains documentation settings
type DocsConfig struct {
	Dir     string   `yaml:"dir"`
	SiteDir string   `yaml:"site_dir"`
	Build   []string `yaml:"build,omitempty"`
	Port    int      `yaml:"port,omitempty"`
}

// LogsConfig contains log aggregation settings
type LogsConfig struct {
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	Lines      int    `yaml:"lines,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig(projectName string) *Config {
	return &Config{
		Project:     projectName,
		DefaultMode: "autonomous",
		Repos: []Repo{
			{Name: "raven-brain", Path: "raven-brain"},
			{Name: "raven-embedded", Path: "raven-embedded"},
			{Name: "raven-dashboard", Path: "raven-dashboard"},
		},
		Services: []Service{
			{Name: "brain", Unit: "raven-brain.service", Modes: []string{"autonomous", "debug"}},
			{Name: "embedded", Unit: "raven-embedded.service"},
			{Name: "dashboard", Unit: "raven-dashboard.service", Modes: []string{"manual", "debug"}},
		},
		Firmware: FirmwareConfig{
			Arduino: ArduinoTarget{
				Sketch: "raven-embedded/firmware",
				FQBN:   "arduino:avr:mega",
				Port:   "/dev/ttyACM0",
			},
			Mbed: MbedTarget{
				Source:    "raven-embedded/firmware-mbed",
				Target:    "NUCLEO_F401RE",
				Toolchain: "GCC_ARM",
			},
		},
		Docs: DocsConfig{
			Dir:     "docs",
			SiteDir: "site",
			Build:   []string{"mkdocs", "build"},
			Port:    8000,
		},
		Logs: LogsConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			Lines:      50,
		},
	}
}

// Load reads the config from the specified directory
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	return &cfg, nil
}

// Save writes the config to the specified directory
func Save(dir string, cfg *Config) error {
	configPath := filepath.Join(dir, ConfigFileName)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CreateStateDir creates the .raven directory
func CreateStateDir(dir string) error {
	stateDir := filepath.Join(dir, StateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

// Exists checks if a config file exists in the directory
func Exists(dir string) bool {
	configPath := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(configPath)
	return err == nil
}

// applyDefaults fills in missing values with defaults
func applyDefaults(cfg *Config) {
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = "autonomous"
	}
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = "docs"
	}
	if cfg.Docs.SiteDir == "" {
		cfg.Docs.SiteDir = "site"
	}
	if len(cfg.Docs.Build) == 0 {
		cfg.Docs.Build = []string{"mkdocs", "build"}
	}
	if cfg.Docs.Port == 0 {
		cfg.Docs.Port = 8000
	}
	if cfg.Logs.MaxSizeMB == 0 {
		cfg.Logs.MaxSizeMB = 10
	}
	if cfg.Logs.MaxBackups == 0 {
		cfg.Logs.MaxBackups = 3
	}
	if cfg.Logs.Lines == 0 {
		cfg.Logs.Lines = 50
	}
	if cfg.Logs.File == "" {
		cfg.Logs.File = filepath.Join(StateDir, "logs", "raven.log")
	}
	if cfg.Firmware.Arduino.FQBN == "" {
		cfg.Firmware.Arduino.FQBN = "arduino:avr:mega"
	}
	if cfg.Firmware.Arduino.Port == "" {
		cfg.Firmware.Arduino.Port = "/dev/ttyACM0"
	}
	if cfg.Firmware.Mbed.Toolchain == "" {
		cfg.Firmware.Mbed.Toolchain = "GCC_ARM"
	}
}

// RepoByName returns the repo with the given name, or nil
func (c *Config) RepoByName(name string) *Repo {
	for i := range c.Repos {
		if c.Repos[i].Name == name {
			return &c.Repos[i]
		}
	}
	return nil
}

// ServicesForMode returns the services applicable to a mode, in declared order
func (c *Config) ServicesForMode(mode string) []Service {
	var out []Service
	for _, s := range c.Services {
		if s.RunsIn(mode) {
			out = append(out, s)
		}
	}
	return out
}

// FindProjectRoot walks up from the current directory to find raven.yaml
func FindProjectRoot(startDir string) (string, error) {
	dir := startDir
	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", fmt.Errorf("not in a raven project (no %s found)", ConfigFileName)
		}
		dir = parent
	}
}
