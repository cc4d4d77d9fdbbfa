package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig("raven")
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Project != "raven" {
		t.Errorf("expected project raven, got %s", loaded.Project)
	}
	if len(loaded.Services) != len(cfg.Services) {
		t.Errorf("expected %d services, got %d", len(cfg.Services), len(loaded.Services))
	}
	if len(loaded.Repos) != len(cfg.Repos) {
		t.Errorf("expected %d repos, got %d", len(cfg.Repos), len(loaded.Repos))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	minimal := "project: raven\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(minimal), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DefaultMode != "autonomous" {
		t.Errorf("expected default mode autonomous, got %q", cfg.DefaultMode)
	}
	if cfg.Docs.Port != 8000 {
		t.Errorf("expected docs port 8000, got %d", cfg.Docs.Port)
	}
	if cfg.Logs.MaxSizeMB != 10 {
		t.Errorf("expected log max size 10, got %d", cfg.Logs.MaxSizeMB)
	}
	if cfg.Logs.File == "" {
		t.Error("expected default log file to be set")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("project: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if err := Save(root, DefaultConfig("raven")); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot failed: %v", err)
	}
	if found != root {
		t.Errorf("expected %s, got %s", root, found)
	}
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := FindProjectRoot(dir)
	if err == nil {
		t.Fatal("expected error outside a raven project")
	}
}

func TestServicesForMode(t *testing.T) {
	cfg := DefaultConfig("raven")

	testCases := []struct {
		mode     string
		expected []string
	}{
		{"autonomous", []string{"brain", "embedded"}},
		{"manual", []string{"embedded", "dashboard"}},
		{"debug", []string{"brain", "embedded", "dashboard"}},
	}

	for _, tc := range testCases {
		t.Run(tc.mode, func(t *testing.T) {
			services := cfg.ServicesForMode(tc.mode)
			if len(services) != len(tc.expected) {
				t.Fatalf("expected %d services, got %d", len(tc.expected), len(services))
			}
			for i, name := range tc.expected {
				if services[i].Name != name {
					t.Errorf("position %d: expected %s, got %s", i, name, services[i].Name)
				}
			}
		})
	}
}

func TestRunsIn_EmptyModesMeansAll(t *testing.T) {
	svc := Service{Name: "embedded", Unit: "raven-embedded.service"}
	for _, mode := range []string{"autonomous", "manual", "debug"} {
		if !svc.RunsIn(mode) {
			t.Errorf("service with no modes should run in %s", mode)
		}
	}
}

func TestRepoByName(t *testing.T) {
	cfg := DefaultConfig("raven")

	r := cfg.RepoByName("raven-brain")
	if r == nil {
		t.Fatal("expected to find raven-brain")
	}
	if r.Name != "raven-brain" {
		t.Errorf("expected raven-brain, got %s", r.Name)
	}

	if cfg.RepoByName("nope") != nil {
		t.Error("expected nil for unknown repo")
	}
}
