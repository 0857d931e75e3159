package routetree

import (
	"sort"
	"strings"
)

// Trie groups file paths by directory. A node holds the original segments of
// the file that ends at it (extension intact) and its children keyed by
// segment stem. Children are kept in lexical key order.
type Trie struct {
	// Value is the split original path of the file ending here, nil for
	// directories without a file of their own
	Value []string

	keys     []string
	children map[string]*Trie
}

// BuildTrie inserts every path into a fresh trie. When two paths share the
// same stem at the same position the later one wins.
func BuildTrie(paths []string) *Trie {
	root := &Trie{}
	for _, p := range paths {
		p = strings.TrimPrefix(p, "/")
		if p == "" {
			continue
		}
		segments := strings.Split(p, "/")
		root.insert(mapPath(segments), segments)
	}
	return root
}

func (t *Trie) insert(key, value []string) {
	node := t
	for _, k := range key {
		node = node.child(k)
	}
	node.Value = value
}

// child returns the child for key, creating it when missing.
func (t *Trie) child(key string) *Trie {
	if t.children == nil {
		t.children = make(map[string]*Trie)
	}
	if c, ok := t.children[key]; ok {
		return c
	}

	c := &Trie{}
	t.children[key] = c
	i := sort.SearchStrings(t.keys, key)
	t.keys = append(t.keys, "")
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = key
	return c
}

// IsTerminal reports whether a file ends at this node.
func (t *Trie) IsTerminal() bool {
	return t.Value != nil
}

// Keys returns the child keys in order.
func (t *Trie) Keys() []string {
	return t.keys
}

// Child returns the child stored under key, or nil.
func (t *Trie) Child(key string) *Trie {
	return t.children[key]
}

// Children returns the child nodes in key order.
func (t *Trie) Children() []*Trie {
	out := make([]*Trie, len(t.keys))
	for i, k := range t.keys {
		out[i] = t.children[k]
	}
	return out
}

// hasIndexFile reports whether the directory represented by t contains an
// index file.
func (t *Trie) hasIndexFile() bool {
	c := t.Child(indexStem)
	return c != nil && c.IsTerminal()
}
