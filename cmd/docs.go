package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/docs"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Documentation management",
	Long:  "Check, build, and serve the project documentation.",
}

var docsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the docs tree and report dead links",
	Args:  cobra.NoArgs,
	RunE:  runDocsCheck,
}

var docsBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the documentation site",
	Args:  cobra.NoArgs,
	RunE:  runDocsBuild,
}

var docsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Serve the built site over localhost HTTP",
	Args:  cobra.NoArgs,
	RunE:  runDocsOpen,
}

func init() {
	docsCmd.AddCommand(docsCheckCmd)
	docsCmd.AddCommand(docsBuildCmd)
	docsCmd.AddCommand(docsOpenCmd)
	rootCmd.AddCommand(docsCmd)
}

func docsManager() (*docs.Manager, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	projectDir, err := config.FindProjectRoot(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, err
	}

	return docs.NewManager(projectDir, cfg.Docs), nil
}

func runDocsCheck(cmd *cobra.Command, args []string) error {
	mgr, err := docsManager()
	if err != nil {
		return err
	}

	if err := mgr.Check(); err != nil {
		return err
	}

	fmt.Println("Docs check passed")
	return nil
}

func runDocsBuild(cmd *cobra.Command, args []string) error {
	mgr, err := docsManager()
	if err != nil {
		return err
	}

	if err := mgr.Build(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Docs built: %s\n", mgr.SiteDir())
	return nil
}

func runDocsOpen(cmd *cobra.Command, args []string) error {
	mgr, err := docsManager()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mgr.Serve(ctx, func(url string) {
		fmt.Printf("Serving docs at %s (ctrl-c to stop)\n", url)
	})
}
