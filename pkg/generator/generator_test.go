package generator

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/routegen/pkg/config"
	"github.com/abdul-hamid-achik/routegen/pkg/routetree"
	"github.com/abdul-hamid-achik/routegen/pkg/sfc"
)

// writePages creates page files below dir.
func writePages(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Pages = filepath.Join(dir, "pages")
	cfg.OutFile = filepath.Join(dir, "router", "routes.js")
	return cfg
}

func resolve(t *testing.T, paths []string) []*routetree.Route {
	t.Helper()
	res, err := routetree.Resolve(paths, routetree.Options{ImportPrefix: "@/pages/"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return res.Routes
}

func TestRender(t *testing.T) {
	routes := resolve(t, []string{"index.vue", "users.vue", "users/index.vue", "users/_id.vue"})

	tests := []struct {
		name    string
		opts    RenderOptions
		want    []string
		notWant []string
	}{
		{
			name: "dynamic imports",
			opts: RenderOptions{Dynamic: true, InlineBlock: true},
			want: []string{
				`const index = () => import(/* webpackChunkName: "index" */ "@/pages/index.vue")`,
				`const users__id = () => import(/* webpackChunkName: "users-id" */ "@/pages/users/_id.vue")`,
				`path: "/users",`,
				`name: "users-id",`,
				`path: ":id",`,
				`children: [`,
			},
			notWant: []string{`import users from`},
		},
		{
			name: "static imports",
			opts: RenderOptions{InlineBlock: true},
			want: []string{
				`import index from "@/pages/index.vue"`,
				`import users_index from "@/pages/users/index.vue"`,
			},
			notWant: []string{"webpackChunkName"},
		},
		{
			name: "chunk name prefix",
			opts: RenderOptions{Dynamic: true, ChunkNamePrefix: "page-", InlineBlock: true},
			want: []string{`webpackChunkName: "page-users-index"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Render(routes, tt.opts)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.HasPrefix(code, "// Code generated by routegen. DO NOT EDIT.") {
				t.Errorf("missing generated header:\n%s", code)
			}
			for _, w := range tt.want {
				if !strings.Contains(code, w) {
					t.Errorf("output missing %q:\n%s", w, code)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(code, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, code)
				}
			}
			if err := Validate(code); err != nil {
				t.Errorf("Validate() error = %v\n%s", err, code)
			}
		})
	}
}

func TestRender_DefaultChildDropsParentName(t *testing.T) {
	routes := resolve(t, []string{"users.vue", "users/index.vue"})

	code, err := Render(routes, RenderOptions{InlineBlock: true})
	if err != nil {
		t.Fatal(err)
	}
	// only the default child carries the name
	if n := strings.Count(code, `name: "users",`); n != 1 {
		t.Errorf("name \"users\" appears %d times, want 1:\n%s", n, code)
	}
	if !strings.Contains(code, `path: "",`) {
		t.Errorf("default child missing:\n%s", code)
	}
}

func TestRender_Empty(t *testing.T) {
	code, err := Render(nil, RenderOptions{Dynamic: true, InlineBlock: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(code, "export default []") {
		t.Errorf("expected empty route table:\n%s", code)
	}
	if err := Validate(code); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestRender_RouteBlock(t *testing.T) {
	routes := []*routetree.Route{{
		Name:           "about",
		Path:           "/about",
		Component:      "@/pages/about.vue",
		Specifier:      "about",
		ChunkName:      "about",
		File:           "about.vue",
		BlockSpecifier: "about_route",
		Block: &routetree.RouteBlock{
			Lang:    "json",
			Index:   1,
			Meta:    map[string]any{"title": "About"},
			HasMeta: true,
			Extra:   map[string]any{"props": true, "alias": "/info", "before-enter": "x"},
		},
	}}

	t.Run("inline", func(t *testing.T) {
		code, err := Render(routes, RenderOptions{InlineBlock: true})
		if err != nil {
			t.Fatal(err)
		}
		for _, w := range []string{`"title": "About"`, `props: true,`, `alias: "/info",`, `"before-enter": "x",`} {
			if !strings.Contains(code, w) {
				t.Errorf("output missing %q:\n%s", w, code)
			}
		}
		if strings.Index(code, "alias:") > strings.Index(code, "props:") {
			t.Error("extra keys should be sorted")
		}
		if err := Validate(code); err != nil {
			t.Errorf("Validate() error = %v\n%s", err, code)
		}
	})

	t.Run("imported", func(t *testing.T) {
		code, err := Render(routes, RenderOptions{InlineBlock: false})
		if err != nil {
			t.Fatal(err)
		}
		wantImport := `import about_route from "@/pages/about.vue?vue&type=custom&index=1&blockType=route&lang=json"`
		if !strings.Contains(code, wantImport) {
			t.Errorf("output missing %q:\n%s", wantImport, code)
		}
		if !strings.Contains(code, "...about_route,") {
			t.Errorf("block should be spread into the entry:\n%s", code)
		}
		if strings.Contains(code, "props:") || strings.Contains(code, "meta:") {
			t.Errorf("imported block should not be inlined:\n%s", code)
		}
		if err := Validate(code); err != nil {
			t.Errorf("Validate() error = %v\n%s", err, code)
		}
	})
}

func TestRender_ReservedWordPages(t *testing.T) {
	routes := resolve(t, []string{"new.vue", "delete.vue", "default.vue", "class.vue", "import.vue"})

	for _, opts := range []RenderOptions{{Dynamic: true, InlineBlock: true}, {InlineBlock: true}} {
		code, err := Render(routes, opts)
		if err != nil {
			t.Fatal(err)
		}
		if err := Validate(code); err != nil {
			t.Errorf("Validate() error = %v\n%s", err, code)
		}
		if !strings.Contains(code, `name: "new",`) {
			t.Errorf("route name should keep the page name:\n%s", code)
		}
	}
}

func TestRender_NoHTMLEscaping(t *testing.T) {
	routes := []*routetree.Route{{
		Name:      "a<b>&c",
		Path:      "/about",
		Component: "@/pages/about.vue",
		Specifier: "about",
		ChunkName: "about",
		File:      "about.vue",
		Block: &routetree.RouteBlock{
			Meta:    map[string]any{"title": "Q&A <beta>"},
			HasMeta: true,
		},
	}}

	code, err := Render(routes, RenderOptions{InlineBlock: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{`name: "a<b>&c",`, `"title": "Q&A <beta>"`} {
		if !strings.Contains(code, w) {
			t.Errorf("output missing %q:\n%s", w, code)
		}
	}
	if strings.Contains(code, `\u0026`) || strings.Contains(code, `\u003c`) {
		t.Errorf("output is HTML-escaped:\n%s", code)
	}
}

func TestRender_BlockImportsDoNotCollide(t *testing.T) {
	res, err := routetree.Resolve([]string{"foo.vue", "foo/route.vue"}, routetree.Options{
		ImportPrefix: "@/pages/",
		ReadBlocks: func(path string) ([]sfc.Block, error) {
			if path != "foo.vue" {
				return nil, nil
			}
			return []sfc.Block{{Type: "route", Content: `{"meta":{"a":1}}`}}, nil
		},
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	code, err := Render(res.Routes, RenderOptions{Dynamic: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(code); err != nil {
		t.Errorf("Validate() error = %v\n%s", err, code)
	}
	if !strings.Contains(code, "...foo_route,") {
		t.Errorf("block should be spread into the entry:\n%s", code)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"valid module", "export default [{ path: '/' }]\n", false},
		{"dynamic import", "const a = () => import('./a.vue')\nexport default [a]\n", false},
		{"unbalanced", "export default [{ path: '/' }\n", true},
		{"trailing garbage", "export default []\n}}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.src)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	routes := resolve(t, []string{"foo.vue", "foo/_bar.vue"})

	data, err := RenderJSON(routes)
	if err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0]["path"] != "/foo" {
		t.Fatalf("got %v", got)
	}
	children, _ := got[0]["children"].([]any)
	if len(children) != 1 {
		t.Fatalf("children = %v", got[0]["children"])
	}

	empty, err := RenderJSON(nil)
	if err != nil || string(empty) != "[]" {
		t.Errorf("RenderJSON(nil) = %s, %v", empty, err)
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writePages(t, cfg.Pages, map[string]string{
		"index.vue":          "<template><div/></template>",
		"about.vue":          "<template><div/></template>\n<route>\n{ \"meta\": { \"title\": \"About\" } }\n</route>\n",
		"users/_id.vue":      "<template><div/></template>",
		"__partials__/x.vue": "<template/>",
	})

	result, err := Generate(cfg, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(result.Pages) != 3 {
		t.Errorf("Pages = %v, want 3 pages", result.Pages)
	}
	if result.RouteCount() != 3 {
		t.Errorf("RouteCount() = %d, want 3", result.RouteCount())
	}
	if !result.Written {
		t.Error("first run should write the module")
	}

	data, err := os.ReadFile(cfg.OutFile)
	if err != nil {
		t.Fatalf("out file not written: %v", err)
	}
	if string(data) != result.Code {
		t.Error("written file differs from result code")
	}
	if !strings.Contains(result.Code, `"title": "About"`) {
		t.Errorf("route block meta missing:\n%s", result.Code)
	}

	again, err := Generate(cfg, Options{})
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if again.Written {
		t.Error("unchanged output should not be rewritten")
	}
	if again.Code != result.Code {
		t.Error("generation is not deterministic")
	}
}

func TestGenerate_DryRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writePages(t, cfg.Pages, map[string]string{"index.vue": "<template/>"})

	result, err := Generate(cfg, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Written {
		t.Error("dry run should not write")
	}
	if _, err := os.Stat(cfg.OutFile); !os.IsNotExist(err) {
		t.Error("dry run created the out file")
	}
}

func TestGenerate_MalformedBlock(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writePages(t, cfg.Pages, map[string]string{
		"broken.vue": "<route>\n{ \"meta\": { \"a\": 1, } }\n</route>\n",
	})

	_, err := Generate(cfg, Options{})
	if err == nil {
		t.Fatal("expected error for malformed block")
	}
	var blockErr *routetree.BlockParseError
	if !errors.As(err, &blockErr) {
		t.Fatalf("error = %T %v, want BlockParseError", err, err)
	}
	if blockErr.File != "broken.vue" {
		t.Errorf("File = %q, want broken.vue", blockErr.File)
	}
	if _, statErr := os.Stat(cfg.OutFile); !os.IsNotExist(statErr) {
		t.Error("failed generation must not write the out file")
	}
}

func TestGenerate_DeprecatedMeta(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writePages(t, cfg.Pages, map[string]string{
		"legacy.vue": "<route-meta>\n{ \"auth\": true }\n</route-meta>\n",
	})

	result, err := Generate(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].FilePath != "legacy.vue" {
		t.Errorf("Warnings = %v", result.Warnings)
	}
	if !strings.Contains(result.Code, `"auth": true`) {
		t.Errorf("legacy meta missing:\n%s", result.Code)
	}
}

func TestGenerate_CachingReader(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	writePages(t, cfg.Pages, map[string]string{
		"a.vue": "<template/>",
		"b.vue": "<template/>",
	})

	reader, err := sfc.NewCachingReader(cfg.Pages, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(cfg, Options{Reader: reader}); err != nil {
		t.Fatal(err)
	}
	if reader.Len() != 2 {
		t.Errorf("cache holds %d files, want 2", reader.Len())
	}
}

func TestGenerate_MissingPages(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	result, err := Generate(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.RouteCount() != 0 {
		t.Errorf("RouteCount() = %d, want 0", result.RouteCount())
	}
	if !strings.Contains(result.Code, "export default []") {
		t.Errorf("expected empty module:\n%s", result.Code)
	}
}
