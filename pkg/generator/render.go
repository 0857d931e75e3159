// Package generator renders a resolved route tree into an ES module and
// writes it next to the application's router.
package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/abdul-hamid-achik/routegen/internal/version"
	"github.com/abdul-hamid-achik/routegen/pkg/routetree"
)

// RenderOptions controls the shape of the generated module.
type RenderOptions struct {
	// Dynamic emits lazy import() calls with a chunk name comment
	Dynamic bool
	// ChunkNamePrefix is prepended to every chunk name
	ChunkNamePrefix string
	// InlineBlock merges <route> blocks into the entries; when false each
	// block is imported from its component and spread into the entry
	InlineBlock bool
}

// identRe matches keys that can be written without quotes.
var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

const moduleTemplate = `// Code generated by routegen. DO NOT EDIT.
// Generator schema: {{.Schema}}

{{range .Imports}}{{.}}
{{end}}
export default [{{.Routes}}]
`

var moduleTmpl = template.Must(template.New("module").Parse(moduleTemplate))

// Render returns the source of a module whose default export is the route
// table.
func Render(routes []*routetree.Route, opts RenderOptions) (string, error) {
	var imports []string
	routetree.Walk(routes, func(r *routetree.Route, _ int) {
		imports = append(imports, importLine(r, opts))
		if !opts.InlineBlock && r.Block != nil {
			imports = append(imports, blockImportLine(r))
		}
	})

	var body strings.Builder
	for i, r := range routes {
		if i > 0 {
			body.WriteString(",")
		}
		if err := writeRoute(&body, r, opts, 1); err != nil {
			return "", err
		}
	}
	if len(routes) > 0 {
		body.WriteString("\n")
	}

	var buf bytes.Buffer
	err := moduleTmpl.Execute(&buf, map[string]any{
		"Schema":  version.GetGeneratorSchemaVersion(),
		"Imports": imports,
		"Routes":  body.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func importLine(r *routetree.Route, opts RenderOptions) string {
	if opts.Dynamic {
		return fmt.Sprintf(`const %s = () => import(/* webpackChunkName: %s */ %s)`,
			r.Specifier, quote(opts.ChunkNamePrefix+r.ChunkName), quote(r.Component))
	}
	return fmt.Sprintf(`import %s from %s`, r.Specifier, quote(r.Component))
}

func blockImportLine(r *routetree.Route) string {
	src := fmt.Sprintf("%s?vue&type=custom&index=%d&blockType=route&lang=%s",
		r.Component, r.Block.Index, r.Block.Lang)
	return fmt.Sprintf(`import %s from %s`, r.BlockSpecifier, quote(src))
}

// writeRoute writes one route object literal at the given depth.
func writeRoute(w *strings.Builder, r *routetree.Route, opts RenderOptions, depth int) error {
	pad := strings.Repeat("  ", depth)
	field := strings.Repeat("  ", depth+1)

	w.WriteString("\n" + pad + "{\n")

	if r.Name != "" {
		fmt.Fprintf(w, "%sname: %s,\n", field, quote(r.Name))
	}
	fmt.Fprintf(w, "%spath: %s,\n", field, quote(r.Path))
	fmt.Fprintf(w, "%scomponent: %s,\n", field, r.Specifier)

	meta := r.Meta()
	if !opts.InlineBlock && r.Block != nil {
		// the imported block supplies its own meta
		meta = r.LegacyMeta
	}
	if meta != nil {
		v, err := literal(meta, field)
		if err != nil {
			return fmt.Errorf("failed to render meta of %s: %w", r.File, err)
		}
		fmt.Fprintf(w, "%smeta: %s,\n", field, v)
	}

	if r.Block != nil {
		if opts.InlineBlock {
			keys := make([]string, 0, len(r.Block.Extra))
			for k := range r.Block.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				v, err := literal(r.Block.Extra[k], field)
				if err != nil {
					return fmt.Errorf("failed to render %s of %s: %w", k, r.File, err)
				}
				fmt.Fprintf(w, "%s%s: %s,\n", field, key(k), v)
			}
		} else {
			fmt.Fprintf(w, "%s...%s,\n", field, r.BlockSpecifier)
		}
	}

	if len(r.Children) > 0 {
		fmt.Fprintf(w, "%schildren: [", field)
		for i, c := range r.Children {
			if i > 0 {
				w.WriteString(",")
			}
			if err := writeRoute(w, c, opts, depth+2); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "\n%s],\n", field)
	}

	w.WriteString(pad + "}")
	return nil
}

// literal renders a value as an indented JSON literal, which is valid
// JavaScript.
func literal(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(indent, "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func quote(s string) string {
	v, _ := literal(s, "")
	return v
}

func key(k string) string {
	if identRe.MatchString(k) {
		return k
	}
	return quote(k)
}

// RenderJSON returns the route tree as indented JSON.
func RenderJSON(routes []*routetree.Route) ([]byte, error) {
	if routes == nil {
		routes = []*routetree.Route{}
	}
	return json.MarshalIndent(routes, "", "  ")
}
