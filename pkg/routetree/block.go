package routetree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/routegen/pkg/sfc"
	"gopkg.in/yaml.v3"
)

// reservedKeys are computed by the resolver and never taken from a block.
var reservedKeys = map[string]bool{
	"path":      true,
	"component": true,
	"children":  true,
}

// BlockParseError is returned when a custom block does not hold valid
// structured data.
type BlockParseError struct {
	// File is the page path the block belongs to
	File string
	// Block is the block type (e.g. "route")
	Block string
	// Err is the underlying parse error
	Err error
}

func (e *BlockParseError) Error() string {
	return fmt.Sprintf("invalid <%s> block in %s: %v", e.Block, e.File, e.Err)
}

func (e *BlockParseError) Unwrap() error {
	return e.Err
}

// ParseRouteBlock parses a <route> block into route options.
func ParseRouteBlock(file string, b sfc.Block) (*RouteBlock, error) {
	v, lang, err := decodeBlock(b)
	if err != nil {
		return nil, &BlockParseError{File: file, Block: b.Type, Err: err}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &BlockParseError{File: file, Block: b.Type, Err: fmt.Errorf("expected an object, got %s", describe(v))}
	}

	rb := &RouteBlock{Lang: lang, Index: b.Index}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := obj[k]
		switch {
		case k == "name":
			// a name that is not a string keeps the derived one
			if name, ok := val.(string); ok {
				rb.Name = name
			}
		case k == "meta":
			rb.Meta = val
			rb.HasMeta = true
		case reservedKeys[k]:
			// computed by the resolver
		default:
			if rb.Extra == nil {
				rb.Extra = make(map[string]any)
			}
			rb.Extra[k] = val
		}
	}

	return rb, nil
}

// ParseLegacyMeta parses a deprecated <route-meta> block. Any value is
// accepted as the meta payload.
func ParseLegacyMeta(file string, b sfc.Block) (any, error) {
	v, _, err := decodeBlock(b)
	if err != nil {
		return nil, &BlockParseError{File: file, Block: b.Type, Err: err}
	}
	return v, nil
}

// decodeBlock decodes the block content according to its lang attribute.
func decodeBlock(b sfc.Block) (any, string, error) {
	lang := strings.ToLower(strings.TrimSpace(b.Lang))
	switch lang {
	case "", "json":
		v, err := decodeJSON(b.Content)
		return v, "json", err
	case "yaml", "yml":
		v, err := decodeYAML(b.Content)
		return v, "yaml", err
	default:
		return nil, lang, fmt.Errorf("unsupported lang %q", b.Lang)
	}
}

// decodeJSON decodes exactly one JSON value. Numbers are kept as json.Number
// so that they are rendered back verbatim.
func decodeJSON(content string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeYAML(content string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(content), &v); err != nil {
		return nil, err
	}
	return normalizeYAML(v), nil
}

// normalizeYAML converts maps with non-string keys so the value can be
// marshaled to JSON.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeYAML(val)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range x {
			x[i] = normalizeYAML(val)
		}
		return x
	default:
		return v
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, int, int64, float64, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
