package logs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raven/internal/config"
	"raven/internal/systemd"
)

// journalExecutor serves canned journal lines per unit
type journalExecutor struct {
	lines map[string][]string
	errs  map[string]error
}

func (j *journalExecutor) Start(ctx context.Context, unit string) error { return nil }
func (j *journalExecutor) Stop(ctx context.Context, unit string) error  { return nil }

func (j *journalExecutor) IsActive(ctx context.Context, unit string) (bool, error) {
	return true, nil
}

func (j *journalExecutor) Show(ctx context.Context, unit string) (systemd.UnitState, error) {
	return systemd.UnitState{Active: true, Sub: "running"}, nil
}

func (j *journalExecutor) Journal(ctx context.Context, unit string, lines int) ([]string, error) {
	if err := j.errs[unit]; err != nil {
		return nil, err
	}
	return j.lines[unit], nil
}

func (j *journalExecutor) FollowJournal(ctx context.Context, unit string, lineFn func(string)) error {
	if err := j.errs[unit]; err != nil {
		return err
	}
	for _, line := range j.lines[unit] {
		lineFn(line)
	}
	<-ctx.Done()
	return nil
}

func testServices() []config.Service {
	return []config.Service{
		{Name: "brain", Unit: "raven-brain.service"},
		{Name: "embedded", Unit: "raven-embedded.service"},
	}
}

func newTestAggregator(out *bytes.Buffer, exec systemd.Executor) *Aggregator {
	a := NewAggregator("", &config.Config{}, testServices(), out)
	a.SetExecutor(exec)
	a.DisableCapture()
	return a
}

func TestTail_PrefixesLinesWithServiceName(t *testing.T) {
	exec := &journalExecutor{lines: map[string][]string{
		"raven-brain.service":    {"planner online", "waypoint reached"},
		"raven-embedded.service": {"imu calibrated"},
	}}

	var out bytes.Buffer
	a := newTestAggregator(&out, exec)
	require.NoError(t, a.Tail(context.Background(), 50))

	got := out.String()
	assert.Contains(t, got, "[brain] planner online\n")
	assert.Contains(t, got, "[brain] waypoint reached\n")
	assert.Contains(t, got, "[embedded] imu calibrated\n")
}

func TestTail_SkipsFailingUnit(t *testing.T) {
	exec := &journalExecutor{
		lines: map[string][]string{
			"raven-embedded.service": {"imu calibrated"},
		},
		errs: map[string]error{
			"raven-brain.service": errors.New("unit not found"),
		},
	}

	var out bytes.Buffer
	a := newTestAggregator(&out, exec)
	require.NoError(t, a.Tail(context.Background(), 50))

	assert.NotContains(t, out.String(), "[brain]")
	assert.Contains(t, out.String(), "[embedded] imu calibrated\n")
}

func TestFollow_StreamsUntilCancelled(t *testing.T) {
	exec := &journalExecutor{lines: map[string][]string{
		"raven-brain.service":    {"tick"},
		"raven-embedded.service": {"tock"},
	}}

	var out bytes.Buffer
	a := newTestAggregator(&out, exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, a.Follow(ctx))
	assert.Contains(t, out.String(), "[brain] tick\n")
	assert.Contains(t, out.String(), "[embedded] tock\n")
}

func TestFollow_ReportsFollowerFailure(t *testing.T) {
	exec := &journalExecutor{
		lines: map[string][]string{
			"raven-embedded.service": {"tock"},
		},
		errs: map[string]error{
			"raven-brain.service": errors.New("journalctl exited"),
		},
	}

	var out bytes.Buffer
	a := newTestAggregator(&out, exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Follow(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raven-brain.service")
}

func TestCaptureFile_MirrorsLines(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Logs: config.LogsConfig{File: "raven.log", MaxSizeMB: 10, MaxBackups: 3},
	}

	exec := &journalExecutor{lines: map[string][]string{
		"raven-brain.service": {"planner online"},
	}}

	var out bytes.Buffer
	a := NewAggregator(dir, cfg, testServices(), &out)
	a.SetExecutor(exec)
	require.NoError(t, a.Tail(context.Background(), 50))

	data, err := os.ReadFile(filepath.Join(dir, "raven.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[brain] planner online"))
}
