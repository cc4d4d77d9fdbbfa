// Package docs checks, builds, and serves the project documentation.
package docs

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"raven/internal/config"
)

// mdLink matches markdown link targets: [text](target)
var mdLink = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

// CheckError collects documentation problems
type CheckError struct {
	Problems []string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("docs check failed:\n  - %s", strings.Join(e.Problems, "\n  - "))
}

// Manager handles the documentation tree of a project
type Manager struct {
	projectDir string
	cfg        config.DocsConfig

	// run executes the docs build tool (injectable for testing)
	run func(ctx context.Context, dir string, argv []string) error
}

// NewManager creates a docs Manager for the given project directory
func NewManager(projectDir string, cfg config.DocsConfig) *Manager {
	return &Manager{
		projectDir: projectDir,
		cfg:        cfg,
		run:        runBuild,
	}
}

// SetRunner replaces the build tool runner (for testing)
func (m *Manager) SetRunner(fn func(ctx context.Context, dir string, argv []string) error) {
	m.run = fn
}

// Dir returns the absolute docs source directory
func (m *Manager) Dir() string {
	if filepath.IsAbs(m.cfg.Dir) {
		return m.cfg.Dir
	}
	return filepath.Join(m.projectDir, m.cfg.Dir)
}

// SiteDir returns the absolute built-site directory
func (m *Manager) SiteDir() string {
	if filepath.IsAbs(m.cfg.SiteDir) {
		return m.cfg.SiteDir
	}
	return filepath.Join(m.projectDir, m.cfg.SiteDir)
}

// Check verifies the docs tree exists, has an index page, and has no
// dead relative links in its markdown files
func (m *Manager) Check() error {
	dir := m.Dir()
	errs := &CheckError{}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		errs.Problems = append(errs.Problems, fmt.Sprintf("docs directory missing: %s", dir))
		return errs
	}

	if !fileExists(filepath.Join(dir, "index.md")) && !fileExists(filepath.Join(dir, "README.md")) {
		errs.Problems = append(errs.Problems, "no index.md or README.md in docs directory")
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return err
		}
		for _, problem := range checkLinks(path) {
			errs.Problems = append(errs.Problems, problem)
		}
		return nil
	})
	if err != nil {
		errs.Problems = append(errs.Problems, fmt.Sprintf("failed to walk docs tree: %v", err))
	}

	if len(errs.Problems) > 0 {
		return errs
	}
	return nil
}

// Build runs the configured docs build command
func (m *Manager) Build(ctx context.Context) error {
	if len(m.cfg.Build) == 0 {
		return fmt.Errorf("docs.build command is not configured")
	}
	if err := m.run(ctx, m.projectDir, m.cfg.Build); err != nil {
		return fmt.Errorf("docs build failed: %w", err)
	}
	return nil
}

// Serve serves the built site over localhost HTTP until the context is
// cancelled. Returns the bound URL through the ready callback.
func (m *Manager) Serve(ctx context.Context, ready func(url string)) error {
	site := m.SiteDir()
	if _, err := os.Stat(site); err != nil {
		return fmt.Errorf("site directory missing: %s (run 'raven docs build' first)", site)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", m.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w (site is at %s)", addr, err, site)
	}

	if ready != nil {
		ready(fmt.Sprintf("http://%s/", ln.Addr().String()))
	}

	srv := &http.Server{Handler: http.FileServer(http.Dir(site))}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// checkLinks returns problems for dead relative links in a markdown file
func checkLinks(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("could not read %s: %v", path, err)}
	}

	var problems []string
	for _, match := range mdLink.FindAllStringSubmatch(string(data), -1) {
		target := match[1]
		if isExternal(target) {
			continue
		}
		// Strip anchors
		if idx := strings.Index(target, "#"); idx != -1 {
			target = target[:idx]
		}
		if target == "" {
			continue
		}
		resolved := filepath.Join(filepath.Dir(path), target)
		if !fileExists(resolved) {
			problems = append(problems, fmt.Sprintf("%s: dead link %q", path, match[1]))
		}
	}
	return problems
}

func isExternal(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "mailto:")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// runBuild executes argv in dir with output attached to the terminal
func runBuild(ctx context.Context, dir string, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
