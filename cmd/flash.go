package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/firmware"
	"raven/internal/ui"
)

var (
	flashArch      string
	flashBuildOnly bool
)

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Build and upload firmware to the embedded controller",
	Long: `Compile the firmware for the selected architecture and upload it to
the target board.

Architectures:
  arduino  build and upload with arduino-cli (default)
  mbed     build with mbed-cli and copy the image to the board's mount

An unknown architecture fails before any build step runs.`,
	Args: cobra.NoArgs,
	RunE: runFlash,
}

func init() {
	flashCmd.Flags().StringVar(&flashArch, "arch", "arduino", "Target architecture (arduino or mbed)")
	flashCmd.Flags().BoolVar(&flashBuildOnly, "build-only", false, "Compile without uploading")

	rootCmd.AddCommand(flashCmd)
}

func runFlash(cmd *cobra.Command, args []string) error {
	// Validate the architecture before touching the toolchain
	arch, err := firmware.ParseArch(flashArch)
	if err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	projectDir, err := config.FindProjectRoot(dir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadAndValidate(projectDir)
	if err != nil {
		return err
	}

	pipeline := firmware.NewPipeline(projectDir, cfg.Firmware)

	if flashBuildOnly {
		ui.Info("Building %s firmware...", arch)
		if err := pipeline.Build(cmd.Context(), arch); err != nil {
			ui.Error("Build failed: %v", err)
			return err
		}
		ui.Success("Firmware built.")
		return nil
	}

	ui.Info("Flashing %s firmware...", arch)
	if err := pipeline.Flash(cmd.Context(), arch); err != nil {
		ui.Error("Flash failed: %v", err)
		return err
	}

	ui.Success("Firmware flashed.")
	return nil
}
