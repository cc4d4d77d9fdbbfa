package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raven/internal/config"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)

	in := &Session{
		Project:   "raven",
		Mode:      "autonomous",
		Services:  []string{"raven-brain.service", "raven-embedded.service"},
		StartedAt: started,
	}
	require.NoError(t, Save(dir, in))

	out, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Project, out.Project)
	assert.Equal(t, in.Mode, out.Mode)
	assert.Equal(t, in.Services, out.Services)
	assert.True(t, in.StartedAt.Equal(out.StartedAt))
}

func TestLoad_NoSession(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, config.StateDir)
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, SessionFileName), []byte("{not json"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, &Session{Project: "raven", Mode: "manual"}))

	entries, err := os.ReadDir(filepath.Join(dir, config.StateDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SessionFileName, entries[0].Name())
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, &Session{Project: "raven", Mode: "debug"}))
	require.NoError(t, Clear(dir))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestClear_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, Clear(t.TempDir()))
}
