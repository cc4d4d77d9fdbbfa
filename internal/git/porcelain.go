package git

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentBranch returns the checked-out branch name
func CurrentBranch(e Executor, dir string) (string, error) {
	return e.Run(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// IsClean reports whether the worktree has no uncommitted changes
func IsClean(e Executor, dir string) (bool, error) {
	out, err := e.Run(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// AheadBehind returns how many commits the branch is ahead of and behind
// its upstream. Returns (0, 0, nil) when no upstream is configured.
func AheadBehind(e Executor, dir string) (ahead, behind int, err error) {
	out, err := e.Run(dir, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		// No upstream configured is a normal state, not an error
		if strings.Contains(err.Error(), "upstream") {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}

	ahead, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	behind, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	return ahead, behind, nil
}

// ShortCommit returns the abbreviated HEAD commit hash
func ShortCommit(e Executor, dir string) (string, error) {
	return e.Run(dir, "rev-parse", "--short", "HEAD")
}
