package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/routegen/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve routegen tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout so editors and
agents can resolve and generate routes.

Tools:
  resolve_routes    Resolve a list of page paths into a route tree
  generate_routes   Scan the pages directory and write the module
  list_routes       List the routes of the project
  info              Show the project configuration
  validate          Check the configuration and every page`,
	Run: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := mcp.NewServer(dir).Serve(); err != nil {
		// stdout belongs to the protocol
		fmt.Fprintf(os.Stderr, "mcp server error: %v\n", err)
		os.Exit(1)
	}
}
