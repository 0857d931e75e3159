package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abdul-hamid-achik/routegen/internal/version"
	"github.com/abdul-hamid-achik/routegen/pkg/config"
	"github.com/abdul-hamid-achik/routegen/pkg/generator"
	"github.com/abdul-hamid-achik/routegen/pkg/routetree"
)

// routeInfo is the flattened view of a route returned by list_routes.
type routeInfo struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path"`
	File string `json:"file"`
}

func (s *Server) loadConfig() (*config.Config, string, error) {
	cfg, used, err := config.Load(s.workdir, "")
	if err != nil {
		return nil, "", err
	}
	return cfg.Resolve(s.workdir), used, nil
}

func (s *Server) handleResolveRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("paths", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("paths is required"), nil
	}

	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}

	res, err := routetree.Resolve(paths, routetree.Options{
		ImportPrefix:   req.GetString("import_prefix", config.Default().ImportPrefix),
		Nested:         req.GetBool("nested", false),
		OptionalParams: req.GetBool("optional_params", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"success": true,
		"total":   res.Count(),
		"routes":  res.Routes,
	})
}

func (s *Server) handleGenerateRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _, err := s.loadConfig()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := generator.Generate(cfg, generator.Options{DryRun: req.GetBool("dry_run", false)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := map[string]any{
		"success":  true,
		"total":    result.RouteCount(),
		"out_file": result.OutFile,
		"written":  result.Written,
		"warnings": result.Warnings,
	}
	if req.GetBool("include_code", false) {
		out["code"] = result.Code
	}
	return jsonResult(out)
}

func (s *Server) handleListRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _, err := s.loadConfig()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := generator.Generate(cfg, generator.Options{DryRun: true})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	routes := make([]routeInfo, 0, result.RouteCount())
	routetree.Walk(result.Routes, func(r *routetree.Route, depth int) {
		routes = append(routes, routeInfo{
			Name: r.Name,
			Path: strings.Repeat("  ", depth) + r.Path,
			File: r.File,
		})
	})

	return jsonResult(map[string]any{
		"total":  len(routes),
		"routes": routes,
	})
}

func (s *Server) handleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, used, err := s.loadConfig()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, pagesErr := os.Stat(cfg.Pages)
	_, pkgErr := os.Stat(filepath.Join(s.workdir, "package.json"))

	return jsonResult(map[string]any{
		"version":          version.GetVersion(),
		"schema_version":   version.GetGeneratorSchemaVersion(),
		"has_config":       used != "",
		"config_file":      used,
		"has_pages":        pagesErr == nil,
		"has_package_json": pkgErr == nil,
		"config":           cfg,
	})
}

func (s *Server) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var issues []string

	cfg, _, err := s.loadConfig()
	if err != nil {
		issues = append(issues, err.Error())
	} else {
		if info, err := os.Stat(cfg.Pages); err != nil || !info.IsDir() {
			rel, _ := filepath.Rel(s.workdir, cfg.Pages)
			issues = append(issues, fmt.Sprintf("%s/ directory not found", filepath.ToSlash(rel)))
		} else if _, err := generator.Generate(cfg, generator.Options{DryRun: true}); err != nil {
			issues = append(issues, err.Error())
		}
	}

	return jsonResult(map[string]any{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
