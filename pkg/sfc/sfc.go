// Package sfc extracts the top-level blocks of a single-file component
// (.vue) so that custom blocks such as <route> can be read without a full
// component compiler.
package sfc

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

// Block is a custom top-level block of a component file.
type Block struct {
	// Type is the lowercased tag name (e.g. "route")
	Type string
	// Content is the raw inner text of the block
	Content string
	// Index is the position of the block among the custom blocks of the file
	Index int
	// Lang is the value of the lang attribute, empty when absent
	Lang string
	// Attrs holds every attribute of the opening tag
	Attrs map[string]string
}

// standardBlocks are the blocks owned by the component compiler itself.
var standardBlocks = map[string]bool{
	"template": true,
	"script":   true,
	"style":    true,
}

// IsStandard reports whether a tag is one of the compiler-owned blocks.
func IsStandard(tag string) bool {
	return standardBlocks[strings.ToLower(tag)]
}

// Parse returns the custom blocks of a component file in source order.
func Parse(src []byte) ([]Block, error) {
	l := html.NewLexer(parse.NewInputBytes(src))

	var (
		blocks  []Block
		cur     *Block
		inTag   bool // between "<name" and ">" of the current top-level tag
		depth   int  // nesting of tags named like the current block
		body    strings.Builder
		custom  int
		nestTag bool // between "<name" and ">" of a nested same-name tag
	)

	for {
		tt, data := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return nil, err
			}
			if cur != nil {
				return nil, fmt.Errorf("unclosed <%s> block", cur.Type)
			}
			return blocks, nil

		case html.StartTagToken:
			name := strings.ToLower(string(l.Text()))
			if cur == nil {
				cur = &Block{Type: name, Attrs: map[string]string{}}
				inTag = true
				depth = 1
				body.Reset()
				continue
			}
			if name == cur.Type {
				nestTag = true
			}
			body.Write(data)

		case html.AttributeToken:
			if inTag {
				key := strings.ToLower(string(l.Text()))
				val := strings.Trim(string(l.AttrVal()), `"'`)
				cur.Attrs[key] = val
				if key == "lang" {
					cur.Lang = val
				}
				continue
			}
			if cur != nil {
				body.Write(data)
			}

		case html.StartTagCloseToken:
			if inTag {
				inTag = false
				continue
			}
			if nestTag {
				nestTag = false
				depth++
			}
			if cur != nil {
				body.Write(data)
			}

		case html.StartTagVoidToken:
			if inTag {
				// <route /> has no content
				inTag = false
				blocks = appendBlock(blocks, cur, "", &custom)
				cur = nil
				continue
			}
			nestTag = false
			if cur != nil {
				body.Write(data)
			}

		case html.EndTagToken:
			if cur == nil {
				continue
			}
			if strings.ToLower(string(l.Text())) == cur.Type {
				depth--
				if depth == 0 {
					blocks = appendBlock(blocks, cur, body.String(), &custom)
					cur = nil
					continue
				}
			}
			body.Write(data)

		default:
			if cur != nil && !inTag {
				body.Write(data)
			}
		}
	}
}

func appendBlock(blocks []Block, b *Block, content string, custom *int) []Block {
	if IsStandard(b.Type) {
		return blocks
	}
	b.Content = content
	b.Index = *custom
	*custom++
	return append(blocks, *b)
}

// Find returns the first block of the given type.
func Find(blocks []Block, typ string) (Block, bool) {
	for _, b := range blocks {
		if b.Type == typ {
			return b, true
		}
	}
	return Block{}, false
}
