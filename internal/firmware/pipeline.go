// Package firmware builds and uploads microcontroller firmware images.
package firmware

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"raven/internal/config"
)

// Arch identifies a firmware target architecture
type Arch string

const (
	ArchArduino Arch = "arduino"
	ArchMbed    Arch = "mbed"
)

// ParseArch validates an architecture string. Unknown values fail here,
// before any build step runs.
func ParseArch(s string) (Arch, error) {
	switch Arch(s) {
	case ArchArduino, ArchMbed:
		return Arch(s), nil
	}
	return "", fmt.Errorf("unsupported architecture %q (expected arduino or mbed)", s)
}

// Pipeline compiles and uploads firmware for the configured targets
type Pipeline struct {
	projectDir string
	cfg        config.FirmwareConfig

	// run executes a build tool with output attached to the terminal
	// (injectable for testing)
	run func(ctx context.Context, dir string, argv []string) error
}

// NewPipeline creates a Pipeline for the given project directory
func NewPipeline(projectDir string, cfg config.FirmwareConfig) *Pipeline {
	return &Pipeline{
		projectDir: projectDir,
		cfg:        cfg,
		run:        runStreamed,
	}
}

// SetRunner replaces the build tool runner (for testing)
func (p *Pipeline) SetRunner(fn func(ctx context.Context, dir string, argv []string) error) {
	p.run = fn
}

// Build compiles the firmware for the given architecture
func (p *Pipeline) Build(ctx context.Context, arch Arch) error {
	switch arch {
	case ArchArduino:
		return p.buildArduino(ctx)
	case ArchMbed:
		return p.buildMbed(ctx)
	}
	return fmt.Errorf("unsupported architecture %q (expected arduino or mbed)", arch)
}

// Flash compiles and then uploads the firmware for the given architecture
func (p *Pipeline) Flash(ctx context.Context, arch Arch) error {
	if err := p.Build(ctx, arch); err != nil {
		return err
	}

	switch arch {
	case ArchArduino:
		return p.uploadArduino(ctx)
	case ArchMbed:
		return p.uploadMbed()
	}
	return fmt.Errorf("unsupported architecture %q (expected arduino or mbed)", arch)
}

func (p *Pipeline) buildArduino(ctx context.Context) error {
	t := p.cfg.Arduino
	if t.Sketch == "" {
		return fmt.Errorf("firmware.arduino.sketch is not configured")
	}

	sketch := p.resolve(t.Sketch)
	err := p.run(ctx, p.projectDir, []string{
		"arduino-cli", "compile", "--fqbn", t.FQBN, sketch,
	})
	if err != nil {
		return fmt.Errorf("arduino build failed: %w", err)
	}
	return nil
}

func (p *Pipeline) uploadArduino(ctx context.Context) error {
	t := p.cfg.Arduino
	sketch := p.resolve(t.Sketch)
	err := p.run(ctx, p.projectDir, []string{
		"arduino-cli", "upload", "-p", t.Port, "--fqbn", t.FQBN, sketch,
	})
	if err != nil {
		return fmt.Errorf("arduino upload failed: %w", err)
	}
	return nil
}

func (p *Pipeline) buildMbed(ctx context.Context) error {
	t := p.cfg.Mbed
	if t.Source == "" {
		return fmt.Errorf("firmware.mbed.source is not configured")
	}
	if t.Target == "" {
		return fmt.Errorf("firmware.mbed.target is not configured")
	}

	err := p.run(ctx, p.resolve(t.Source), []string{
		"mbed", "compile", "-t", t.Toolchain, "-m", t.Target,
	})
	if err != nil {
		return fmt.Errorf("mbed build failed: %w", err)
	}
	return nil
}

// uploadMbed copies the built image onto the board's mass-storage mount
func (p *Pipeline) uploadMbed() error {
	t := p.cfg.Mbed
	if t.Mount == "" {
		return fmt.Errorf("firmware.mbed.mount is not configured (mbed boards flash via mass storage)")
	}

	image := t.Image
	if image == "" {
		// mbed's default build output layout
		image = filepath.Join(t.Source, "BUILD", t.Target, t.Toolchain,
			filepath.Base(t.Source)+".bin")
	}
	image = p.resolve(image)

	dst := filepath.Join(t.Mount, filepath.Base(image))
	if err := copyFile(image, dst); err != nil {
		return fmt.Errorf("mbed upload failed: %w", err)
	}
	return nil
}

// resolve makes a config path absolute relative to the project directory
func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.projectDir, path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// runStreamed executes argv in dir with output attached to the terminal
func runStreamed(ctx context.Context, dir string, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
