package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/routegen/pkg/routetree"
)

// jsonOutput is the global flag for JSON output mode
var jsonOutput bool

// stdout is where command output goes; tests swap it
var stdout io.Writer = os.Stdout

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// JSONResponse is the standard response wrapper for JSON output
type JSONResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RouteOutput represents a single route in JSON output
type RouteOutput struct {
	Name      string `json:"name,omitempty"`
	Path      string `json:"path"`
	FullPath  string `json:"full_path"`
	File      string `json:"file"`
	Depth     int    `json:"depth"`
	HasBlock  bool   `json:"has_block,omitempty"`
	HasMeta   bool   `json:"has_meta,omitempty"`
	Component string `json:"component"`
}

// RoutesOutput represents the JSON output for the routes command
type RoutesOutput struct {
	Routes      []RouteOutput       `json:"routes"`
	Warnings    []routetree.Warning `json:"warnings,omitempty"`
	TotalRoutes int                 `json:"total_routes"`
	TotalPages  int                 `json:"total_pages"`
}

// GenerateOutput represents the JSON output for the generate command
type GenerateOutput struct {
	OutFile     string              `json:"out_file"`
	Written     bool                `json:"written"`
	DryRun      bool                `json:"dry_run,omitempty"`
	TotalRoutes int                 `json:"total_routes"`
	TotalPages  int                 `json:"total_pages"`
	Warnings    []routetree.Warning `json:"warnings,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
}

// DevOutput represents the JSON output for the dev command
type DevOutput struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
	Pages  string `json:"pages,omitempty"`
	Error  string `json:"error,omitempty"`
}

// InitOutput represents the JSON output for the init command
type InitOutput struct {
	ConfigFile string   `json:"config_file"`
	Pages      string   `json:"pages"`
	OutFile    string   `json:"out_file"`
	NextSteps  []string `json:"next_steps"`
}

// VersionOutput represents the JSON output for the version command
type VersionOutput struct {
	Version       string `json:"version"`
	SchemaVersion int    `json:"schema_version"`
}

// flattenRoutes lists the route tree depth-first. FullPath joins each child
// path onto its ancestors.
func flattenRoutes(routes []*routetree.Route) []RouteOutput {
	out := []RouteOutput{}
	var walk func(rs []*routetree.Route, parent string, depth int)
	walk = func(rs []*routetree.Route, parent string, depth int) {
		for _, r := range rs {
			full := joinRoutePath(parent, r.Path)
			out = append(out, RouteOutput{
				Name:      r.Name,
				Path:      r.Path,
				FullPath:  full,
				File:      r.File,
				Depth:     depth,
				HasBlock:  r.Block != nil,
				HasMeta:   r.Meta() != nil,
				Component: r.Component,
			})
			walk(r.Children, full, depth+1)
		}
	}
	walk(routes, "", 0)
	return out
}

func joinRoutePath(parent, path string) string {
	switch {
	case strings.HasPrefix(path, "/"):
		return path
	case path == "":
		if parent == "" {
			return "/"
		}
		return parent
	case parent == "" || parent == "/":
		return "/" + path
	default:
		return parent + "/" + path
	}
}

// printJSON outputs data as formatted JSON to stdout
func printJSON(v any) {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
	}
}

// printSuccess outputs a successful JSON response
func printSuccess(data any) {
	printJSON(JSONResponse{Success: true, Data: data})
}

// printJSONError outputs an error as JSON
func printJSONError(err error) {
	printJSON(JSONResponse{Success: false, Error: err.Error()})
}
