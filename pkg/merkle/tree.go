// Package merkle builds inclusion-proof trees over pre-hashed leaves.
//
// The caller hashes raw data; this package only arranges digests. An internal
// node is SHA-256 over the concatenated hex strings of its children, not
// their binary digests. That is the wire contract shared with independent
// verifier implementations, so it must never change. A level with an odd
// number of nodes duplicates its last node to pair it with itself.
package merkle

import "github.com/statetrust/veristate/pkg/canonicalize"

// Tree is an immutable inclusion-proof tree. A nil *Tree represents the
// absent tree produced by an empty leaf set.
type Tree struct {
	levels [][]string // levels[0] = leaves, last level = [root]
}

// New builds a tree from pre-hashed leaves. Returns nil for an empty leaf
// set: an empty input has no root. A single leaf is its own root.
func New(leaves []string) *Tree {
	if len(leaves) == 0 {
		return nil
	}

	level := make([]string, len(leaves))
	copy(level, leaves)

	t := &Tree{levels: [][]string{level}}
	for len(level) > 1 {
		level = nextLevel(level)
		t.levels = append(t.levels, level)
	}
	return t
}

// Root returns the root hash. Empty string for the absent (nil) tree.
func (t *Tree) Root() string {
	if t == nil {
		return ""
	}
	return t.levels[len(t.levels)-1][0]
}

// LeafCount returns the number of leaves the tree was built from.
func (t *Tree) LeafCount() int {
	if t == nil {
		return 0
	}
	return len(t.levels[0])
}

func nextLevel(level []string) []string {
	nodes := level
	if len(nodes)%2 == 1 {
		nodes = make([]string, len(level), len(level)+1)
		copy(nodes, level)
		nodes = append(nodes, nodes[len(nodes)-1])
	}

	next := make([]string, len(nodes)/2)
	for i := 0; i < len(nodes); i += 2 {
		next[i/2] = nodeHash(nodes[i], nodes[i+1])
	}
	return next
}

// nodeHash combines two child digests by hashing the concatenation of their
// hex string forms.
func nodeHash(left, right string) string {
	return canonicalize.HashBytes([]byte(left + right))
}
