// Package routetree resolves a flat list of page files into a nested route
// table. Directories become parent/child nesting, "_name" segments become
// route parameters and a trailing "index" file maps to its directory.
package routetree

import (
	"log/slog"

	"github.com/abdul-hamid-achik/routegen/pkg/sfc"
)

// Custom block types understood by the resolver.
const (
	// BlockRoute is the <route> block merged into the route record
	BlockRoute = "route"
	// BlockRouteMeta is the deprecated <route-meta> block holding only meta
	BlockRouteMeta = "route-meta"
)

// Route represents one generated route record.
type Route struct {
	// Name is the route name; empty when the route has a default child
	Name string `json:"name,omitempty"`
	// Path is the route pattern, relative for child routes
	Path string `json:"path"`
	// Component is the import path of the page component
	Component string `json:"component"`
	// Specifier is the identifier the component is imported as
	Specifier string `json:"specifier"`
	// ChunkName is the bundler chunk label
	ChunkName string `json:"chunkName"`
	// PathSegments are the de-omitted, extension-free segments
	PathSegments []string `json:"pathSegments"`
	// File is the page path relative to the pages directory
	File string `json:"file"`
	// Block is the parsed <route> block, if any
	Block *RouteBlock `json:"route,omitempty"`
	// BlockSpecifier is the identifier the <route> block is imported as
	// when blocks are not inlined; set only when Block is
	BlockSpecifier string `json:"blockSpecifier,omitempty"`
	// LegacyMeta is the content of a deprecated <route-meta> block
	LegacyMeta any `json:"routeMeta,omitempty"`
	// Children are the nested routes
	Children []*Route `json:"children,omitempty"`
}

// Meta returns the effective route meta. A meta field in the <route> block
// takes precedence over a <route-meta> block.
func (r *Route) Meta() any {
	if r.Block != nil && r.Block.HasMeta {
		return r.Block.Meta
	}
	return r.LegacyMeta
}

// HasDefaultChild reports whether one of the children matches the parent path.
func (r *Route) HasDefaultChild() bool {
	for _, c := range r.Children {
		if c.Path == "" {
			return true
		}
	}
	return false
}

// RouteBlock is the structured content of a <route> block.
type RouteBlock struct {
	// Lang is the block language ("json" or "yaml")
	Lang string `json:"lang"`
	// Index is the position of the block among the file's custom blocks
	Index int `json:"index"`
	// Name overrides the derived route name when non-empty
	Name string `json:"name,omitempty"`
	// Meta is the meta payload, passed through verbatim
	Meta any `json:"meta,omitempty"`
	// HasMeta reports whether the block declared a meta key
	HasMeta bool `json:"-"`
	// Extra holds every other route option
	Extra map[string]any `json:"extra,omitempty"`
}

// Warning represents a non-fatal issue found during resolution.
type Warning struct {
	FilePath string `json:"file"`
	Message  string `json:"message"`
}

// BlockReader returns the custom blocks of a page file.
type BlockReader func(path string) ([]sfc.Block, error)

// Options configures route resolution.
type Options struct {
	// ImportPrefix is prepended to every component path (e.g. "@/pages/")
	ImportPrefix string
	// Nested makes top-level patterns relative (no leading slash)
	Nested bool
	// OptionalParams marks a trailing parameter optional when its
	// directory has no index file
	OptionalParams bool
	// ReadBlocks supplies custom blocks; nil means no file has any
	ReadBlocks BlockReader
	// Logger receives diagnostics; nil discards them
	Logger *slog.Logger
}

// Result holds the resolved routes.
type Result struct {
	// Routes are the top-level routes in match order
	Routes []*Route
	// Warnings are non-fatal issues, such as deprecated blocks
	Warnings []Warning
}

// Count returns the number of routes in the tree.
func (r *Result) Count() int {
	return countRoutes(r.Routes)
}

func countRoutes(routes []*Route) int {
	n := len(routes)
	for _, r := range routes {
		n += countRoutes(r.Children)
	}
	return n
}

// Walk calls fn for every route in depth-first order.
func Walk(routes []*Route, fn func(r *Route, depth int)) {
	walk(routes, 0, fn)
}

func walk(routes []*Route, depth int, fn func(r *Route, depth int)) {
	for _, r := range routes {
		fn(r, depth)
		walk(r.Children, depth+1, fn)
	}
}
