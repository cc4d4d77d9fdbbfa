package docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raven/internal/config"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	projectDir := t.TempDir()
	cfg := config.DocsConfig{Dir: "docs", SiteDir: "site", Port: 0}
	return NewManager(projectDir, cfg), filepath.Join(projectDir, "docs")
}

func TestCheck_ValidTree(t *testing.T) {
	m, docsDir := newTestManager(t)
	writeDoc(t, docsDir, "index.md", "# Raven\n\nSee [setup](setup.md).\n")
	writeDoc(t, docsDir, "setup.md", "# Setup\n\nBack to [index](index.md#top).\n")

	assert.NoError(t, m.Check())
}

func TestCheck_MissingDirectory(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.Check()
	require.Error(t, err)

	var checkErr *CheckError
	require.ErrorAs(t, err, &checkErr)
	require.Len(t, checkErr.Problems, 1)
	assert.Contains(t, checkErr.Problems[0], "docs directory missing")
}

func TestCheck_MissingIndex(t *testing.T) {
	m, docsDir := newTestManager(t)
	writeDoc(t, docsDir, "setup.md", "# Setup\n")

	err := m.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index.md or README.md")
}

func TestCheck_ReadmeCountsAsIndex(t *testing.T) {
	m, docsDir := newTestManager(t)
	writeDoc(t, docsDir, "README.md", "# Raven\n")

	assert.NoError(t, m.Check())
}

func TestCheck_DeadRelativeLink(t *testing.T) {
	m, docsDir := newTestManager(t)
	writeDoc(t, docsDir, "index.md", "See [missing page](gone.md).\n")

	err := m.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dead link "gone.md"`)
}

func TestCheck_ExternalLinksAreSkipped(t *testing.T) {
	m, docsDir := newTestManager(t)
	writeDoc(t, docsDir, "index.md",
		"See [upstream](https://example.com/missing) and [mail](mailto:ops@example.com).\n")

	assert.NoError(t, m.Check())
}

func TestCheck_NestedDirectories(t *testing.T) {
	m, docsDir := newTestManager(t)
	writeDoc(t, docsDir, "index.md", "# Raven\n")
	writeDoc(t, docsDir, "guides/flashing.md", "Broken: [x](nope.md)\n")

	err := m.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.md")
}

func TestBuild_RunsConfiguredCommand(t *testing.T) {
	projectDir := t.TempDir()
	cfg := config.DocsConfig{Dir: "docs", SiteDir: "site", Build: []string{"mkdocs", "build"}}
	m := NewManager(projectDir, cfg)

	var ran [][]string
	m.SetRunner(func(ctx context.Context, dir string, argv []string) error {
		ran = append(ran, argv)
		return nil
	})

	require.NoError(t, m.Build(context.Background()))
	require.Len(t, ran, 1)
	assert.Equal(t, []string{"mkdocs", "build"}, ran[0])
}

func TestBuild_NoCommandConfigured(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs.build command is not configured")
}

func TestBuild_PropagatesFailure(t *testing.T) {
	projectDir := t.TempDir()
	cfg := config.DocsConfig{Dir: "docs", SiteDir: "site", Build: []string{"mkdocs", "build"}}
	m := NewManager(projectDir, cfg)
	m.SetRunner(func(ctx context.Context, dir string, argv []string) error {
		return errors.New("exit status 1")
	})

	err := m.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs build failed")
}

func TestServe_MissingSite(t *testing.T) {
	m, _ := newTestManager(t)
	err := m.Serve(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site directory missing")
}

func TestServe_ServesBuiltSite(t *testing.T) {
	projectDir := t.TempDir()
	cfg := config.DocsConfig{Dir: "docs", SiteDir: "site", Port: 0}
	m := NewManager(projectDir, cfg)
	writeDoc(t, filepath.Join(projectDir, "site"), "index.html", "<h1>Raven</h1>")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	urlCh := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Serve(ctx, func(url string) { urlCh <- url })
	}()

	var url string
	select {
	case url = <-urlCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server never shut down")
	}
}
