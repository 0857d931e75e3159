// Package commands provides the CLI commands for routegen.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/routegen/internal/logging"
	"github.com/abdul-hamid-achik/routegen/internal/version"
	"github.com/abdul-hamid-achik/routegen/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "routegen",
	Short: "routegen - file-system based route generation for Vue",
	Long: `routegen turns a directory of Vue page components into a vue-router
route table. Directories become nested routes, "_name" files become params
and a <route> custom block adds meta and other route options.

Quick Start:
  routegen init        Create a routegen.yaml
  routegen generate    Write the route module
  routegen routes      Show the route tree
  routegen dev         Regenerate on change and serve the routes

Documentation: https://github.com/abdul-hamid-achik/routegen`,
	Version: version.GetVersion(),
}

var (
	cfgFile    string
	projectDir string
	verbose    bool
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for automation and LLM agents)")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: routegen.yaml in the project directory)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")

	// Commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the logger handed to the libraries. JSON mode keeps
// stdout clean, so only warnings and errors reach stderr.
func newLogger() *slog.Logger {
	if jsonOutput && !verbose {
		return slog.New(logging.NewHandler(os.Stderr, &logging.Options{Level: slog.LevelWarn}))
	}
	return logging.New(verbose)
}

// loadProject loads the configuration of the project directory and makes
// its paths absolute.
func loadProject() (*config.Config, string, error) {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	cfg, used, err := config.Load(dir, cfgFile)
	if err != nil {
		return nil, "", err
	}
	return cfg.Resolve(dir), used, nil
}

// relPath shortens path for display.
func relPath(path string) string {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}

// fail reports err in the active output mode and exits.
func fail(err error) {
	if jsonOutput {
		printJSONError(err)
	} else {
		fmt.Printf("  %s %v\n\n", red("Error:"), err)
	}
	os.Exit(1)
}
