package sfc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantTypes []string
		wantLang  []string
	}{
		{
			name:      "no custom blocks",
			src:       "<template><div>Hi</div></template>\n<script>export default {}</script>",
			wantTypes: nil,
		},
		{
			name:      "route block",
			src:       "<template><div/></template>\n<route>\n{ \"name\": \"Foo\" }\n</route>",
			wantTypes: []string{"route"},
			wantLang:  []string{""},
		},
		{
			name:      "route block with lang",
			src:       "<route lang=\"yaml\">\nname: Foo\n</route>\n<template><p>x</p></template>",
			wantTypes: []string{"route"},
			wantLang:  []string{"yaml"},
		},
		{
			name:      "several custom blocks",
			src:       "<route-meta>{}</route-meta><i18n lang='json'>{}</i18n><route>{}</route>",
			wantTypes: []string{"route-meta", "i18n", "route"},
			wantLang:  []string{"", "json", ""},
		},
		{
			name:      "upper case tag",
			src:       "<ROUTE>{}</ROUTE>",
			wantTypes: []string{"route"},
			wantLang:  []string{""},
		},
		{
			name:      "self closing custom block",
			src:       "<docs />",
			wantTypes: []string{"docs"},
			wantLang:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(blocks) != len(tt.wantTypes) {
				t.Fatalf("Parse() returned %d blocks, want %d: %+v", len(blocks), len(tt.wantTypes), blocks)
			}
			for i, b := range blocks {
				if b.Type != tt.wantTypes[i] {
					t.Errorf("blocks[%d].Type = %q, want %q", i, b.Type, tt.wantTypes[i])
				}
				if b.Lang != tt.wantLang[i] {
					t.Errorf("blocks[%d].Lang = %q, want %q", i, b.Lang, tt.wantLang[i])
				}
				if b.Index != i {
					t.Errorf("blocks[%d].Index = %d, want %d", i, b.Index, i)
				}
			}
		})
	}
}

func TestParse_Content(t *testing.T) {
	src := "<template><div/></template>\n<route>\n{ \"name\": \"Test\", \"meta\": { \"title\": \"Hello\" } }\n</route>\n"
	blocks, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, ok := Find(blocks, "route")
	if !ok {
		t.Fatal("route block not found")
	}
	want := `{ "name": "Test", "meta": { "title": "Hello" } }`
	if strings.TrimSpace(b.Content) != want {
		t.Errorf("Content = %q, want %q", b.Content, want)
	}
}

func TestParse_Unclosed(t *testing.T) {
	if _, err := Parse([]byte("<route>{}")); err == nil {
		t.Error("expected error for unclosed block")
	}
}

func TestFind_Missing(t *testing.T) {
	if _, ok := Find(nil, "route"); ok {
		t.Error("Find() on empty list should report false")
	}
}

func TestReader_Blocks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "users", "index.vue")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte(`<route>{"name":"a"}</route>`), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewReader(dir)
	blocks, err := r.Blocks("users/index.vue")
	if err != nil {
		t.Fatalf("Blocks() error = %v", err)
	}
	if len(blocks) != 1 || blocks[0].Type != "route" {
		t.Errorf("unexpected blocks: %+v", blocks)
	}

	if _, err := r.Blocks("missing.vue"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCachingReader(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "foo.vue")
	if err := os.WriteFile(file, []byte(`<route>{"name":"a"}</route>`), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewCachingReader(dir, 4)
	if err != nil {
		t.Fatalf("NewCachingReader() error = %v", err)
	}

	if _, err := r.Blocks("foo.vue"); err != nil {
		t.Fatalf("Blocks() error = %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	// Rewrite with different size and a later mtime; the cache must notice.
	if err := os.WriteFile(file, []byte(`<route>{"name":"b"}</route><docs></docs>`), 0644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(file, later, later); err != nil {
		t.Fatal(err)
	}

	blocks, err := r.Blocks("foo.vue")
	if err != nil {
		t.Fatalf("Blocks() error = %v", err)
	}
	if len(blocks) != 2 {
		t.Errorf("expected refreshed blocks, got %+v", blocks)
	}

	r.Forget("foo.vue")
	if r.Len() != 0 {
		t.Errorf("Len() after Forget = %d, want 0", r.Len())
	}
}
