package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/routegen/pkg/generator"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes the pages directory produces",
	Long: `Resolve the pages directory and print the route tree without writing
anything.

Examples:
  routegen routes
  routegen routes --json`,
	Run: runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) {
	cfg, _, err := loadProject()
	if err != nil {
		fail(err)
	}

	result, err := generator.Generate(cfg, generator.Options{Logger: newLogger(), DryRun: true})
	if err != nil {
		fail(err)
	}

	routes := flattenRoutes(result.Routes)

	if jsonOutput {
		printSuccess(RoutesOutput{
			Routes:      routes,
			Warnings:    result.Warnings,
			TotalRoutes: len(routes),
			TotalPages:  len(result.Pages),
		})
		return
	}

	fmt.Fprintf(stdout, "\n  %s Routes\n\n", cyan("routegen"))

	if len(routes) == 0 {
		fmt.Fprintf(stdout, "  No pages found in %s\n\n", relPath(cfg.Pages))
		return
	}

	for _, r := range routes {
		indent := strings.Repeat("  ", r.Depth)
		name := r.Name
		if name == "" {
			name = "-"
		}
		marker := ""
		if r.HasBlock || r.HasMeta {
			marker = " " + yellow("◆")
		}
		fmt.Fprintf(stdout, "  %s%-30s %-20s %s%s\n", indent, green(r.FullPath), cyan(name), faint(r.File), marker)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "\n  %s %s: %s", yellow("Warning:"), w.FilePath, w.Message)
	}

	fmt.Fprintf(stdout, "\n  Total: %d routes from %d pages\n\n", len(routes), len(result.Pages))
}
