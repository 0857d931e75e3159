package routetree

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/routegen/internal/logging"
	"github.com/abdul-hamid-achik/routegen/pkg/sfc"
)

// resolver carries the per-call state of a resolution.
type resolver struct {
	opts     Options
	log      *slog.Logger
	used     map[string]int // identifier -> times seen
	warnings []Warning
}

// Resolve turns page paths (slash-separated, relative to the pages
// directory) into a route tree. It fails on the first custom block that
// cannot be read or parsed.
func Resolve(paths []string, opts Options) (*Result, error) {
	r := &resolver{
		opts: opts,
		log:  opts.Logger,
		used: make(map[string]int),
	}
	if r.log == nil {
		r.log = logging.Discard()
	}

	routes, err := r.children(BuildTrie(paths), 0)
	if err != nil {
		return nil, err
	}

	return &Result{Routes: routes, Warnings: r.warnings}, nil
}

// children resolves every child of a directory node and orders the result.
func (r *resolver) children(dir *Trie, parentDepth int) ([]*Route, error) {
	optionalTail := r.opts.OptionalParams && !dir.hasIndexFile()

	var routes []*Route
	for _, child := range dir.Children() {
		resolved, err := r.node(child, parentDepth, optionalTail)
		if err != nil {
			return nil, err
		}
		routes = append(routes, resolved...)
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return ComparePathSegments(routes[i].PathSegments, routes[j].PathSegments) < 0
	})
	return routes, nil
}

// node resolves one trie node. A directory without a file of its own
// contributes its children directly to the parent level.
func (r *resolver) node(n *Trie, parentDepth int, optionalTail bool) ([]*Route, error) {
	if !n.IsTerminal() {
		return r.children(n, parentDepth)
	}

	route, err := r.route(n.Value, parentDepth, optionalTail)
	if err != nil {
		return nil, err
	}

	if len(n.Keys()) > 0 {
		children, err := r.children(n, len(route.PathSegments))
		if err != nil {
			return nil, err
		}
		route.Children = children
		if route.HasDefaultChild() {
			route.Name = ""
		}
	}

	if route.Block != nil && route.Block.Name != "" {
		route.Name = route.Block.Name
	}

	return []*Route{route}, nil
}

// route builds the record for a single file.
func (r *resolver) route(segments []string, parentDepth int, optionalTail bool) (*Route, error) {
	file := strings.Join(segments, "/")
	stems := mapPath(segments)
	actual := actualPath(segments)

	tail := optionalTail && len(actual) == len(stems) &&
		Classify(stems[len(stems)-1], true).Kind == SegmentDynamic

	route := &Route{
		Name:         MakeName(actual),
		Path:         MakePattern(actual, parentDepth, r.opts.Nested, tail),
		Component:    r.opts.ImportPrefix + file,
		Specifier:    r.unique(MakeSpecifier(stems)),
		ChunkName:    MakeChunkName(stems),
		PathSegments: actual,
		File:         file,
	}

	if err := r.mergeBlocks(file, route); err != nil {
		return nil, err
	}
	if route.Block != nil {
		route.BlockSpecifier = r.unique(route.Specifier + "_route")
	}

	r.log.Debug("resolved route", "file", file, "path", route.Path, "name", route.Name)
	return route, nil
}

// unique reserves an import identifier, suffixing base when it is taken.
func (r *resolver) unique(base string) string {
	r.used[base]++
	if n := r.used[base]; n > 1 {
		candidate := base + "_" + strconv.Itoa(n)
		for r.used[candidate] > 0 {
			n++
			candidate = base + "_" + strconv.Itoa(n)
		}
		r.used[candidate]++
		return candidate
	}
	return base
}

// mergeBlocks reads the custom blocks of a file and merges the route
// options they carry. Both block kinds are always parsed so that a broken
// <route-meta> fails even when a <route> block supplies the meta.
func (r *resolver) mergeBlocks(file string, route *Route) error {
	if r.opts.ReadBlocks == nil {
		return nil
	}

	blocks, err := r.opts.ReadBlocks(file)
	if err != nil {
		return fmt.Errorf("failed to read custom blocks of %s: %w", file, err)
	}

	if b, ok := sfc.Find(blocks, BlockRoute); ok {
		rb, err := ParseRouteBlock(file, b)
		if err != nil {
			return err
		}
		route.Block = rb
	}

	if b, ok := sfc.Find(blocks, BlockRouteMeta); ok {
		msg := "<route-meta> custom block is deprecated, use <route> instead"
		r.warnings = append(r.warnings, Warning{FilePath: file, Message: msg})
		r.log.Warn(msg, "file", file)

		meta, err := ParseLegacyMeta(file, b)
		if err != nil {
			return err
		}
		route.LegacyMeta = meta
	}

	return nil
}

// ComparePathSegments orders sibling routes so that, position by position,
// static segments come before parameters. When one list runs out first the
// shorter one sorts first. Equal lists compare as 0.
func ComparePathSegments(a, b []string) int {
	for i := 0; ; i++ {
		if i >= len(a) || i >= len(b) {
			return len(a) - len(b)
		}
		ad, bd := IsDynamic(a[i]), IsDynamic(b[i])
		if ad != bd {
			if ad {
				return 1
			}
			return -1
		}
	}
}
