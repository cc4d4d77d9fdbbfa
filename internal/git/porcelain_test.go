package git

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedExecutor struct {
	out string
	err error
}

func (s *scriptedExecutor) Run(dir string, args ...string) (string, error) {
	return s.out, s.err
}

func (s *scriptedExecutor) RunSilent(dir string, args ...string) error {
	return s.err
}

func TestIsClean(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want bool
	}{
		{"empty output", "", true},
		{"whitespace only", "\n", true},
		{"modified file", " M brain.py\n", false},
		{"untracked file", "?? notes.txt\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, err := IsClean(&scriptedExecutor{out: tt.out}, "/repo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, clean)
		})
	}
}

func TestIsClean_Error(t *testing.T) {
	_, err := IsClean(&scriptedExecutor{err: errors.New("not a git repository")}, "/repo")
	assert.Error(t, err)
}

func TestAheadBehind(t *testing.T) {
	ahead, behind, err := AheadBehind(&scriptedExecutor{out: "3\t1\n"}, "/repo")
	require.NoError(t, err)
	assert.Equal(t, 3, ahead)
	assert.Equal(t, 1, behind)
}

func TestAheadBehind_NoUpstream(t *testing.T) {
	e := &scriptedExecutor{err: errors.New("fatal: no upstream configured for branch 'main'")}
	ahead, behind, err := AheadBehind(e, "/repo")
	require.NoError(t, err)
	assert.Zero(t, ahead)
	assert.Zero(t, behind)
}

func TestAheadBehind_MalformedOutput(t *testing.T) {
	_, _, err := AheadBehind(&scriptedExecutor{out: "garbage"}, "/repo")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unexpected rev-list output"))
}
