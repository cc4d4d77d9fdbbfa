// Package repo synchronizes the fixed set of raven-owned repositories
// configured in raven.yaml.
package repo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"raven/internal/config"
	"raven/internal/git"
)

// DefaultPushMessage is used when no commit message is given
const DefaultPushMessage = "raven: sync from device"

// Action describes what happened to a repo during a sync operation
type Action string

const (
	ActionPulled   Action = "pulled"
	ActionPushed   Action = "pushed"
	ActionCloned   Action = "cloned"
	ActionUpToDate Action = "up-to-date"
	ActionNoOp     Action = "no-op"
	ActionFailed   Action = "failed"
)

// Result is the outcome of a sync operation on a single repo
type Result struct {
	Name   string
	Action Action
	Detail string
	Err    error
}

// Status describes the git state of a single repo
type Status struct {
	Name    string `json:"name"`
	Branch  string `json:"branch,omitempty"`
	Commit  string `json:"commit,omitempty"`
	Dirty   bool   `json:"dirty"`
	Ahead   int    `json:"ahead,omitempty"`
	Behind  int    `json:"behind,omitempty"`
	Missing bool   `json:"missing,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Manager orchestrates git operations across the configured repos
type Manager struct {
	projectDir string
	cfg        *config.Config
	gitExec    git.Executor

	// runTest executes a repo's test command (injectable for testing)
	runTest func(ctx context.Context, dir string, argv []string) error
}

// NewManager creates a Manager for the given project directory
func NewManager(projectDir string, cfg *config.Config) *Manager {
	return &Manager{
		projectDir: projectDir,
		cfg:        cfg,
		gitExec:    git.DefaultExecutor,
		runTest:    runCommand,
	}
}

// SetGitExecutor replaces the git executor (for testing)
func (m *Manager) SetGitExecutor(e git.Executor) {
	m.gitExec = e
}

// Dir returns the absolute checkout path for a repo
func (m *Manager) Dir(r config.Repo) string {
	if filepath.IsAbs(r.Path) {
		return r.Path
	}
	return filepath.Join(m.projectDir, r.Path)
}

// PullAll fast-forwards every configured repo. Missing checkouts are
// cloned from their remote. Failures do not stop the remaining repos.
func (m *Manager) PullAll(ctx context.Context) []Result {
	results := make([]Result, 0, len(m.cfg.Repos))
	for _, r := range m.cfg.Repos {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Name: r.Name, Action: ActionFailed, Err: err})
			continue
		}
		results = append(results, m.pull(r))
	}
	return results
}

func (m *Manager) pull(r config.Repo) Result {
	dir := m.Dir(r)

	if !checkoutExists(dir) {
		if r.Remote == "" {
			return Result{
				Name:   r.Name,
				Action: ActionFailed,
				Err:    fmt.Errorf("checkout missing and no remote configured"),
			}
		}
		if err := m.gitExec.RunSilent("", "clone", r.Remote, dir); err != nil {
			return Result{Name: r.Name, Action: ActionFailed, Err: err}
		}
		return Result{Name: r.Name, Action: ActionCloned, Detail: dir}
	}

	before, _ := git.ShortCommit(m.gitExec, dir)
	out, err := m.gitExec.Run(dir, "pull", "--ff-only")
	if err != nil {
		return Result{Name: r.Name, Action: ActionFailed, Err: err}
	}
	after, _ := git.ShortCommit(m.gitExec, dir)

	if before == after || strings.Contains(out, "Already up to date") {
		return Result{Name: r.Name, Action: ActionUpToDate}
	}
	return Result{Name: r.Name, Action: ActionPulled, Detail: fmt.Sprintf("%s..%s", before, after)}
}

// PushAll commits local changes (when present) and pushes every repo.
// An unmodified, already-pushed repo is a no-op.
func (m *Manager) PushAll(ctx context.Context, message string) []Result {
	if message == "" {
		message = DefaultPushMessage
	}

	results := make([]Result, 0, len(m.cfg.Repos))
	for _, r := range m.cfg.Repos {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Name: r.Name, Action: ActionFailed, Err: err})
			continue
		}
		results = append(results, m.push(r, message))
	}
	return results
}

func (m *Manager) push(r config.Repo, message string) Result {
	dir := m.Dir(r)

	if !checkoutExists(dir) {
		return Result{Name: r.Name, Action: ActionFailed, Err: fmt.Errorf("checkout missing: %s", dir)}
	}

	clean, err := git.IsClean(m.gitExec, dir)
	if err != nil {
		return Result{Name: r.Name, Action: ActionFailed, Err: err}
	}

	committed := false
	if !clean {
		if err := m.gitExec.RunSilent(dir, "add", "-A"); err != nil {
			return Result{Name: r.Name, Action: ActionFailed, Err: err}
		}
		if err := m.gitExec.RunSilent(dir, "commit", "-m", message); err != nil {
			return Result{Name: r.Name, Action: ActionFailed, Err: err}
		}
		committed = true
	}

	ahead, _, err := git.AheadBehind(m.gitExec, dir)
	if err != nil {
		return Result{Name: r.Name, Action: ActionFailed, Err: err}
	}

	if !committed && ahead == 0 {
		return Result{Name: r.Name, Action: ActionNoOp}
	}

	if err := m.gitExec.RunSilent(dir, "push"); err != nil {
		return Result{Name: r.Name, Action: ActionFailed, Err: err}
	}

	detail := fmt.Sprintf("%d commit(s)", ahead)
	if committed {
		detail = fmt.Sprintf("committed + %s", detail)
	}
	return Result{Name: r.Name, Action: ActionPushed, Detail: detail}
}

// StatusAll returns the git state of every configured repo
func (m *Manager) StatusAll(ctx context.Context) []Status {
	statuses := make([]Status, 0, len(m.cfg.Repos))
	for _, r := range m.cfg.Repos {
		statuses = append(statuses, m.status(r))
	}
	return statuses
}

func (m *Manager) status(r config.Repo) Status {
	dir := m.Dir(r)
	s := Status{Name: r.Name}

	if !checkoutExists(dir) {
		s.Missing = true
		return s
	}

	if branch, err := git.CurrentBranch(m.gitExec, dir); err == nil {
		s.Branch = branch
	} else {
		s.Error = err.Error()
		return s
	}

	if commit, err := git.ShortCommit(m.gitExec, dir); err == nil {
		s.Commit = commit
	}

	if clean, err := git.IsClean(m.gitExec, dir); err == nil {
		s.Dirty = !clean
	}

	if ahead, behind, err := git.AheadBehind(m.gitExec, dir); err == nil {
		s.Ahead = ahead
		s.Behind = behind
	}

	return s
}

// Test runs the configured test command for a single repo
func (m *Manager) Test(ctx context.Context, name string) error {
	r := m.cfg.RepoByName(name)
	if r == nil {
		return fmt.Errorf("unknown repo: %s", name)
	}
	return m.testRepo(ctx, *r)
}

// TestAll runs every repo's test command, stopping at the first failure
func (m *Manager) TestAll(ctx context.Context) error {
	for _, r := range m.cfg.Repos {
		if len(r.Test) == 0 {
			continue
		}
		if err := m.testRepo(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) testRepo(ctx context.Context, r config.Repo) error {
	if len(r.Test) == 0 {
		return fmt.Errorf("repo %s has no test command configured", r.Name)
	}

	dir := m.Dir(r)
	if !checkoutExists(dir) {
		return fmt.Errorf("checkout missing: %s", dir)
	}

	fmt.Printf("Testing %s: %s\n", r.Name, strings.Join(r.Test, " "))
	if err := m.runTest(ctx, dir, r.Test); err != nil {
		return fmt.Errorf("tests failed for %s: %w", r.Name, err)
	}
	return nil
}

// Failed returns the results that did not succeed
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Action == ActionFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// checkoutExists reports whether dir contains a git checkout
func checkoutExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// runCommand executes argv in dir with output attached to the terminal
func runCommand(ctx context.Context, dir string, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
