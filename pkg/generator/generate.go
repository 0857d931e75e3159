package generator

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/routegen/internal/logging"
	"github.com/abdul-hamid-achik/routegen/pkg/config"
	"github.com/abdul-hamid-achik/routegen/pkg/routetree"
	"github.com/abdul-hamid-achik/routegen/pkg/scanner"
	"github.com/abdul-hamid-achik/routegen/pkg/sfc"
)

// Options configures a generation run.
type Options struct {
	// Logger receives diagnostics; nil discards them
	Logger *slog.Logger
	// Reader reads custom blocks; nil reads every file from disk. The dev
	// server passes a caching reader rooted at the pages directory.
	Reader *sfc.Reader
	// DryRun renders and validates without writing OutFile
	DryRun bool
}

// Result holds the outcome of a generation run.
type Result struct {
	// Pages are the discovered page files relative to the pages directory
	Pages []string `json:"pages"`
	// Routes is the resolved route tree
	Routes []*routetree.Route `json:"routes"`
	// Warnings are non-fatal issues found while resolving
	Warnings []routetree.Warning `json:"warnings,omitempty"`
	// OutFile is the path of the generated module
	OutFile string `json:"outFile"`
	// Written reports whether OutFile changed on disk
	Written bool `json:"written"`
	// Code is the generated module source
	Code string `json:"-"`
	// Duration is how long the run took
	Duration time.Duration `json:"duration"`
}

// RouteCount returns the number of routes in the tree.
func (r *Result) RouteCount() int {
	return (&routetree.Result{Routes: r.Routes}).Count()
}

// Generate scans cfg.Pages, resolves the route tree and writes the module to
// cfg.OutFile. Paths in cfg are used as given; callers resolve them against
// the project directory first. OutFile is left untouched when its content
// would not change.
func Generate(cfg *config.Config, opts Options) (*Result, error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	s := scanner.NewScanner(cfg.Pages)
	s.SetPattern(cfg.Pattern)
	s.SetIgnore(cfg.Ignore)
	s.SetLogger(log)

	pages, err := s.Scan()
	if err != nil {
		return nil, err
	}
	log.Debug("scanned pages", "dir", cfg.Pages, "count", len(pages))

	reader := opts.Reader
	if reader == nil {
		reader = sfc.NewReader(cfg.Pages)
	}

	resolved, err := routetree.Resolve(pages, routetree.Options{
		ImportPrefix:   cfg.ImportPrefix,
		Nested:         cfg.Nested,
		OptionalParams: cfg.OptionalParams,
		ReadBlocks:     reader.Blocks,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}

	code, err := Render(resolved.Routes, RenderOptions{
		Dynamic:         cfg.DynamicImport,
		ChunkNamePrefix: cfg.ChunkNamePrefix,
		InlineBlock:     cfg.InlineRouteBlock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render routes: %w", err)
	}

	if cfg.ValidateOutput {
		if err := Validate(code); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Pages:    pages,
		Routes:   resolved.Routes,
		Warnings: resolved.Warnings,
		OutFile:  cfg.OutFile,
		Code:     code,
	}

	if !opts.DryRun {
		written, err := writeIfChanged(cfg.OutFile, []byte(code))
		if err != nil {
			return nil, err
		}
		result.Written = written
	}

	result.Duration = time.Since(start)
	log.Debug("generated routes",
		"out", cfg.OutFile,
		"routes", result.RouteCount(),
		"written", result.Written,
		"duration", result.Duration)

	return result, nil
}

// writeIfChanged writes data to path unless the file already holds it.
func writeIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
