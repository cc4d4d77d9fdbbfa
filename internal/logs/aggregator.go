// Package logs tails the journals of the stack's services, multiplexed
// onto one stream and mirrored into a size-rotated capture file.
package logs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"raven/internal/config"
	"raven/internal/systemd"
)

// Aggregator multiplexes journal output for a set of services
type Aggregator struct {
	services []config.Service
	exec     systemd.Executor

	mu      sync.Mutex
	out     io.Writer
	capture io.WriteCloser // nil when capture is disabled
}

// NewAggregator creates an Aggregator for the given services. Journal
// lines are written to out and mirrored to the rotating capture file
// from the logs config.
func NewAggregator(projectDir string, cfg *config.Config, services []config.Service, out io.Writer) *Aggregator {
	a := &Aggregator{
		services: services,
		exec:     systemd.DefaultExecutor,
		out:      out,
	}

	if cfg.Logs.File != "" {
		path := cfg.Logs.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectDir, path)
		}
		a.capture = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.Logs.MaxSizeMB,
			MaxBackups: cfg.Logs.MaxBackups,
		}
	}

	return a
}

// SetExecutor replaces the systemd executor (for testing)
func (a *Aggregator) SetExecutor(e systemd.Executor) {
	a.exec = e
}

// DisableCapture turns off the capture file (for testing)
func (a *Aggregator) DisableCapture() {
	a.capture = nil
}

// Tail prints the last n journal lines of each service
func (a *Aggregator) Tail(ctx context.Context, lines int) error {
	for _, svc := range a.services {
		entries, err := a.exec.Journal(ctx, svc.Unit, lines)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read journal for %s: %v\n", svc.Unit, err)
			continue
		}
		for _, line := range entries {
			a.writeLine(svc.Name, line)
		}
	}
	return a.Close()
}

// Follow streams new journal lines of every service until the context
// is cancelled. One stuck unit does not block the others.
func (a *Aggregator) Follow(ctx context.Context) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(a.services))

	for _, svc := range a.services {
		wg.Add(1)
		go func(svc config.Service) {
			defer wg.Done()
			err := a.exec.FollowJournal(ctx, svc.Unit, func(line string) {
				a.writeLine(svc.Name, line)
			})
			if err != nil {
				errCh <- fmt.Errorf("%s: %w", svc.Unit, err)
			}
		}(svc)
	}

	wg.Wait()
	close(errCh)

	if err := a.Close(); err != nil {
		return err
	}

	// Report the first follower failure, if any
	for err := range errCh {
		return err
	}
	return nil
}

// writeLine emits one prefixed line to the stream and the capture file
func (a *Aggregator) writeLine(name, line string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	formatted := fmt.Sprintf("[%s] %s\n", name, line)
	fmt.Fprint(a.out, formatted)
	if a.capture != nil {
		a.capture.Write([]byte(formatted))
	}
}

// Close flushes and closes the capture file
func (a *Aggregator) Close() error {
	if a.capture == nil {
		return nil
	}
	return a.capture.Close()
}
