package routetree

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		last     bool
		wantKind SegmentKind
		wantName string
	}{
		{"static", "users", false, SegmentStatic, "users"},
		{"static with hyphen", "user-profile", true, SegmentStatic, "user-profile"},
		{"dynamic", "_id", true, SegmentDynamic, "id"},
		{"dynamic interior", "_slug", false, SegmentDynamic, "slug"},
		{"index last", "index", true, SegmentIndex, "index"},
		{"index interior", "index", false, SegmentStatic, "index"},
		{"bare marker", "_", true, SegmentDynamic, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input, tt.last)
			if got.Kind != tt.wantKind {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.input, got.Kind, tt.wantKind)
			}
			if got.Name != tt.wantName {
				t.Errorf("Classify(%q).Name = %q, want %q", tt.input, got.Name, tt.wantName)
			}
			if got.Raw != tt.input {
				t.Errorf("Classify(%q).Raw = %q, want %q", tt.input, got.Raw, tt.input)
			}
		})
	}
}

func TestStripExt(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo.vue", "foo"},
		{"foo.page.vue", "foo"},
		{"foo", "foo"},
		{"foo.", "foo."},
		{"_id.vue", "_id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripExt(tt.input); got != tt.want {
				t.Errorf("StripExt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakePattern(t *testing.T) {
	tests := []struct {
		name        string
		segments    []string
		parentDepth int
		nested      bool
		optional    bool
		want        string
	}{
		{"root", []string{}, 0, false, false, "/"},
		{"root nested", []string{}, 0, true, false, ""},
		{"static", []string{"a", "b"}, 0, false, false, "/a/b"},
		{"dynamic", []string{"users", "_id"}, 0, false, false, "/users/:id"},
		{"relative child", []string{"users", "_id"}, 1, false, false, ":id"},
		{"default child", []string{"users"}, 1, false, false, ""},
		{"optional tail", []string{"users", "_id"}, 0, false, true, "/users/:id?"},
		{"depth beyond segments", []string{"a"}, 3, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakePattern(tt.segments, tt.parentDepth, tt.nested, tt.optional)
			if got != tt.want {
				t.Errorf("MakePattern() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMakeNames(t *testing.T) {
	tests := []struct {
		stems         []string
		wantName      string
		wantChunk     string
		wantSpecifier string
	}{
		{[]string{"index"}, "index", "index", "index"},
		{[]string{"users", "_id"}, "users-id", "users-id", "users__id"},
		{[]string{"users", "index"}, "users", "users-index", "users_index"},
		{[]string{"1test"}, "1test", "1test", "_1test"},
		{[]string{"user-list"}, "user-list", "user-list", "user_list"},
	}

	for _, tt := range tests {
		t.Run(tt.wantChunk, func(t *testing.T) {
			segments := append([]string(nil), tt.stems...)
			segments[len(segments)-1] += ".vue"

			if got := MakeName(actualPath(segments)); got != tt.wantName {
				t.Errorf("MakeName() = %q, want %q", got, tt.wantName)
			}
			if got := MakeChunkName(tt.stems); got != tt.wantChunk {
				t.Errorf("MakeChunkName() = %q, want %q", got, tt.wantChunk)
			}
			if got := MakeSpecifier(tt.stems); got != tt.wantSpecifier {
				t.Errorf("MakeSpecifier() = %q, want %q", got, tt.wantSpecifier)
			}
		})
	}
}

func TestActualPath(t *testing.T) {
	tests := []struct {
		input []string
		want  []string
	}{
		{[]string{"index.vue"}, []string{}},
		{[]string{"a", "index.vue"}, []string{"a"}},
		{[]string{"a", "b.vue"}, []string{"a", "b"}},
		{[]string{"index", "a.vue"}, []string{"index", "a"}},
	}

	for _, tt := range tests {
		if got := actualPath(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("actualPath(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMakeSpecifier_ReservedWords(t *testing.T) {
	tests := []struct {
		stems []string
		want  string
	}{
		{[]string{"new"}, "_new"},
		{[]string{"delete"}, "_delete"},
		{[]string{"default"}, "_default"},
		{[]string{"class"}, "_class"},
		{[]string{"import"}, "_import"},
		{[]string{"users", "new"}, "users_new"},
		{[]string{"newest"}, "newest"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := MakeSpecifier(tt.stems); got != tt.want {
				t.Errorf("MakeSpecifier(%v) = %q, want %q", tt.stems, got, tt.want)
			}
		})
	}
}
