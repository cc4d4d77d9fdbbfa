package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"raven/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new raven project",
	Long: `Initialize a new raven project in the current directory.

Writes a raven.yaml with the standard stack layout (brain, embedded,
dashboard) and creates the .raven/ state directory. Edit the file to
match the device's actual services and repo paths.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initName string

func init() {
	initCmd.Flags().StringVarP(&initName, "name", "n", "", "Project name (default: directory name)")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Check if already initialized
	if config.Exists(dir) {
		return fmt.Errorf("raven project already exists in this directory")
	}

	// Determine project name
	projectName := initName
	if projectName == "" {
		projectName = filepath.Base(dir)
	}

	// Create config
	cfg := config.DefaultConfig(projectName)

	// Save config
	if err := config.Save(dir, cfg); err != nil {
		return err
	}

	// Create state directory
	if err := config.CreateStateDir(dir); err != nil {
		return err
	}

	// Ensure .raven/ is in .gitignore
	if err := appendToGitignore(dir, ".raven/"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not update .gitignore: %v\n", err)
	}

	fmt.Printf("Initialized raven project: %s\n", projectName)
	fmt.Printf("  Services: %d\n", len(cfg.Services))
	fmt.Printf("  Repos: %d\n", len(cfg.Repos))
	fmt.Printf("\nCreated:\n")
	fmt.Printf("  %s\n", config.ConfigFileName)
	fmt.Printf("  %s/\n", config.StateDir)

	return nil
}

// appendToGitignore adds an entry to .gitignore if not already present
func appendToGitignore(dir, entry string) error {
	gitignorePath := filepath.Join(dir, ".gitignore")

	// Read existing content
	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	// Check if already present
	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return nil // Already there
		}
	}

	// Append
	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	// Add newline if file doesn't end with one
	if len(content) > 0 && content[len(content)-1] != '\n' {
		f.WriteString("\n")
	}
	_, err = f.WriteString(entry + "\n")
	return err
}
