package routetree

import (
	"regexp"
	"strings"
)

// SegmentKind represents the type of a path segment.
type SegmentKind int

const (
	// SegmentStatic is a literal path segment (e.g., "users")
	SegmentStatic SegmentKind = iota
	// SegmentDynamic is a route parameter (e.g., "_id")
	SegmentDynamic
	// SegmentIndex is a trailing "index" file, omitted from the URL
	SegmentIndex
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentDynamic:
		return "dynamic"
	case SegmentIndex:
		return "index"
	default:
		return "static"
	}
}

// Segment represents a classified path segment.
type Segment struct {
	// Raw is the segment as it appears in the path, extension stripped
	Raw string
	// Name is the literal text or the parameter name
	Name string
	// Kind is the segment kind
	Kind SegmentKind
}

const (
	dynamicPrefix = "_"
	indexStem     = "index"
)

// identUnsafeRe matches characters that may not appear in a generated identifier.
var identUnsafeRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// reservedWords cannot be bound as identifiers in module code.
var reservedWords = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "eval": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "new": true, "null": true,
	"package": true, "private": true, "protected": true, "public": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
}

// Classify parses one path segment. The index sentinel is only recognized
// in the last position; an interior directory called "index" is static.
func Classify(segment string, last bool) Segment {
	seg := Segment{Raw: segment}

	switch {
	case last && segment == indexStem:
		seg.Name = segment
		seg.Kind = SegmentIndex
	case IsDynamic(segment):
		seg.Name = strings.TrimPrefix(segment, dynamicPrefix)
		seg.Kind = SegmentDynamic
	default:
		seg.Name = segment
		seg.Kind = SegmentStatic
	}

	return seg
}

// IsDynamic checks if a segment names a route parameter.
func IsDynamic(segment string) bool {
	return strings.HasPrefix(segment, dynamicPrefix)
}

// Display returns the segment without its dynamic marker.
func (s Segment) Display() string {
	return s.Name
}

// Param renders the segment as it appears in a route pattern.
func (s Segment) Param(optional bool) string {
	if s.Kind != SegmentDynamic {
		return s.Raw
	}
	if optional {
		return ":" + s.Name + "?"
	}
	return ":" + s.Name
}

// StripExt removes the extension from a file name. Everything from the first
// dot is dropped as long as at least one character follows it, so
// "page.client.vue" becomes "page" while "foo." is left untouched.
func StripExt(name string) string {
	i := strings.IndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name
	}
	return name[:i]
}

// mapPath replaces the last segment of a split path by its stem.
func mapPath(segments []string) []string {
	if len(segments) == 0 {
		return nil
	}
	last := len(segments) - 1
	out := make([]string, 0, len(segments))
	out = append(out, segments[:last]...)
	return append(out, StripExt(segments[last]))
}

// actualPath is mapPath with a trailing index sentinel removed.
func actualPath(segments []string) []string {
	out := mapPath(segments)
	if n := len(out); n > 0 && Classify(out[n-1], true).Kind == SegmentIndex {
		out = out[:n-1]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// joinDisplay joins segments with sep, dropping dynamic markers.
func joinDisplay(segments []string, sep string) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = Classify(s, false).Display()
	}
	return strings.Join(parts, sep)
}

// MakeName derives a route name from a de-omitted segment list.
// Example: ["users", "_id"] -> "users-id"
func MakeName(pathSegments []string) string {
	name := joinDisplay(pathSegments, "-")
	if name == "" {
		return indexStem
	}
	return name
}

// MakeChunkName derives a bundler chunk label from a stem path. Unlike the
// name it keeps a trailing index: ["users", "index"] -> "users-index".
func MakeChunkName(stemSegments []string) string {
	return joinDisplay(stemSegments, "-")
}

// MakeSpecifier derives an import identifier from a stem path.
// Examples: ["1test", "user-list"] -> "_1test_user_list", ["new"] -> "_new"
func MakeSpecifier(stemSegments []string) string {
	ident := identUnsafeRe.ReplaceAllString(strings.Join(stemSegments, "_"), "_")
	if ident == "" || (ident[0] >= '0' && ident[0] <= '9') || reservedWords[ident] {
		ident = "_" + ident
	}
	return ident
}

// MakePattern builds a route pattern from a de-omitted segment list, skipping
// the first parentDepth segments already claimed by ancestor routes.
func MakePattern(pathSegments []string, parentDepth int, nested, optionalTail bool) string {
	if parentDepth > len(pathSegments) {
		parentDepth = len(pathSegments)
	}
	rest := pathSegments[parentDepth:]

	parts := make([]string, len(rest))
	for i, s := range rest {
		parts[i] = Classify(s, false).Param(optionalTail && i == len(rest)-1)
	}

	prefix := ""
	if parentDepth == 0 && !nested {
		prefix = "/"
	}
	return prefix + strings.Join(parts, "/")
}
