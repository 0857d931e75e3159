package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/routegen/pkg/generator"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate the route module from the pages directory",
	Long: `Scan the pages directory and write the vue-router route table.

The module is only rewritten when its content changes, so bundlers in watch
mode do not rebuild needlessly.

Examples:
  routegen generate                Write the route module
  routegen generate --dry-run      Check pages without writing
  routegen generate --stdout       Print the module instead of writing it
  routegen generate --json         Output JSON for automation`,
	Run: runGenerate,
}

var (
	generateDryRun bool
	generateStdout bool
)

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Render and validate without writing")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "Print the module to stdout instead of writing it")
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, _, err := loadProject()
	if err != nil {
		fail(err)
	}

	quiet := jsonOutput || generateStdout
	if !quiet {
		fmt.Fprintf(stdout, "\n  %s Generate Routes\n\n", cyan("routegen"))
		fmt.Fprintf(stdout, "  %s Scanning %s...\n", yellow("→"), relPath(cfg.Pages))
	}

	result, err := generator.Generate(cfg, generator.Options{
		Logger: newLogger(),
		DryRun: generateDryRun || generateStdout,
	})
	if err != nil {
		fail(err)
	}

	if generateStdout {
		fmt.Fprint(stdout, result.Code)
		return
	}

	if jsonOutput {
		printSuccess(GenerateOutput{
			OutFile:     result.OutFile,
			Written:     result.Written,
			DryRun:      generateDryRun,
			TotalRoutes: result.RouteCount(),
			TotalPages:  len(result.Pages),
			Warnings:    result.Warnings,
			DurationMS:  result.Duration.Milliseconds(),
		})
		return
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  %s %s: %s\n", yellow("Warning:"), w.FilePath, w.Message)
	}

	fmt.Fprintf(stdout, "  %s Found %d pages, %d routes\n", green("✓"), len(result.Pages), result.RouteCount())
	switch {
	case generateDryRun:
		fmt.Fprintf(stdout, "  %s Dry run, nothing written\n\n", cyan("ℹ"))
	case result.Written:
		fmt.Fprintf(stdout, "  %s Wrote %s\n\n", green("✓"), relPath(result.OutFile))
	default:
		fmt.Fprintf(stdout, "  %s %s is up to date\n\n", green("✓"), relPath(result.OutFile))
	}
}
