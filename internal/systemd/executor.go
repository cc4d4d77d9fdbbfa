// Package systemd wraps systemctl and journalctl for the raven stack.
package systemd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrUnitNotFound indicates the unit is not known to systemd
	ErrUnitNotFound = errors.New("unit not found")
	// ErrSystemctlNotFound indicates systemctl is not in PATH
	ErrSystemctlNotFound = errors.New("systemctl not found in PATH")
)

// UnitState describes the runtime state of a systemd unit
type UnitState struct {
	Active bool
	Sub    string // e.g. "running", "dead", "failed"
	PID    int
}

// Executor defines the interface for controlling systemd units
type Executor interface {
	// Start starts a unit
	Start(ctx context.Context, unit string) error

	// Stop stops a unit
	Stop(ctx context.Context, unit string) error

	// IsActive reports whether a unit is active
	IsActive(ctx context.Context, unit string) (bool, error)

	// Show returns the runtime state of a unit
	Show(ctx context.Context, unit string) (UnitState, error)

	// Journal returns the last n log lines for a unit
	Journal(ctx context.Context, unit string, lines int) ([]string, error)

	// FollowJournal streams new log lines for a unit to lineFn until
	// the context is cancelled
	FollowJournal(ctx context.Context, unit string, lineFn func(string)) error
}

// DefaultExecutor is the default executor that runs actual systemctl commands
var DefaultExecutor Executor = &realExecutor{}

type realExecutor struct{}

func (e *realExecutor) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "systemctl", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if isNotFound(stderr.String()) {
			return "", ErrUnitNotFound
		}
		return "", fmt.Errorf("systemctl %s failed: %w\n%s",
			strings.Join(args, " "), err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (e *realExecutor) Start(ctx context.Context, unit string) error {
	_, err := e.run(ctx, "start", unit)
	return err
}

func (e *realExecutor) Stop(ctx context.Context, unit string) error {
	_, err := e.run(ctx, "stop", unit)
	return err
}

func (e *realExecutor) IsActive(ctx context.Context, unit string) (bool, error) {
	// is-active exits non-zero for inactive units, so don't treat that
	// as a command failure
	cmd := exec.CommandContext(ctx, "systemctl", "is-active", unit)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()

	state := strings.TrimSpace(stdout.String())
	switch state {
	case "active":
		return true, nil
	case "inactive", "failed", "deactivating", "activating":
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("systemctl is-active %s failed: %w", unit, err)
	}
	return false, nil
}

func (e *realExecutor) Show(ctx context.Context, unit string) (UnitState, error) {
	out, err := e.run(ctx, "show", unit,
		"--property=ActiveState,SubState,MainPID", "--value")
	if err != nil {
		return UnitState{}, err
	}

	state := UnitState{}
	lines := strings.Split(out, "\n")
	if len(lines) > 0 {
		state.Active = strings.TrimSpace(lines[0]) == "active"
	}
	if len(lines) > 1 {
		state.Sub = strings.TrimSpace(lines[1])
	}
	if len(lines) > 2 {
		state.PID, _ = strconv.Atoi(strings.TrimSpace(lines[2]))
	}
	return state, nil
}

func (e *realExecutor) Journal(ctx context.Context, unit string, lines int) ([]string, error) {
	cmd := exec.CommandContext(ctx, "journalctl",
		"-u", unit, "-n", strconv.Itoa(lines), "-o", "cat", "--no-pager")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("journalctl -u %s failed: %w\n%s", unit, err, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func (e *realExecutor) FollowJournal(ctx context.Context, unit string, lineFn func(string)) error {
	cmd := exec.CommandContext(ctx, "journalctl",
		"-f", "-u", unit, "-n", "0", "-o", "cat", "--no-pager")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start journalctl for %s: %w", unit, err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		lineFn(scanner.Text())
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		// Cancellation kills journalctl; that's the normal exit path
		return nil
	}
	if err != nil {
		return fmt.Errorf("journalctl for %s exited: %w", unit, err)
	}
	return nil
}

// CheckInstalled verifies that systemctl is available in PATH
func CheckInstalled() error {
	if _, err := exec.LookPath("systemctl"); err != nil {
		return ErrSystemctlNotFound
	}
	return nil
}

// isNotFound checks systemctl stderr for a missing-unit message
func isNotFound(stderr string) bool {
	return strings.Contains(stderr, "not found") ||
		strings.Contains(stderr, "could not be found") ||
		strings.Contains(stderr, "not loaded")
}
