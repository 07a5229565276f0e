package merkle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statetrust/veristate/pkg/canonicalize"
)

func leafFixture(n int) []string {
	leaves := make([]string, n)
	for i := range leaves {
		leaves[i] = canonicalize.HashString(fmt.Sprintf("attestation-%d", i))
	}
	return leaves
}

func TestNew_Empty(t *testing.T) {
	tree := New(nil)
	assert.Nil(t, tree)
	assert.Equal(t, "", tree.Root())
	assert.Equal(t, 0, tree.LeafCount())
	assert.Nil(t, tree.Proof(0))
}

func TestNew_SingleLeaf(t *testing.T) {
	leaf := canonicalize.HashString("only")
	tree := New([]string{leaf})
	require.NotNil(t, tree)

	assert.Equal(t, leaf, tree.Root(), "single leaf is its own root")

	proof := tree.Proof(0)
	require.NotNil(t, proof)
	assert.Empty(t, proof.Siblings)
	assert.Equal(t, leaf, proof.Root)
	assert.True(t, VerifyProof(proof))
}

func TestProof_AllIndexesVerify(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 16, 33} {
		tree := New(leafFixture(n))
		require.NotNil(t, tree, "n=%d", n)

		for i := 0; i < n; i++ {
			proof := tree.Proof(i)
			require.NotNil(t, proof, "n=%d i=%d", n, i)
			assert.True(t, VerifyProof(proof), "n=%d i=%d", n, i)
			assert.Equal(t, tree.Root(), proof.Root)
		}
	}
}

func TestProof_OutOfRange(t *testing.T) {
	tree := New(leafFixture(4))
	assert.Nil(t, tree.Proof(-1))
	assert.Nil(t, tree.Proof(4))
	assert.Nil(t, tree.Proof(100))
}

func TestVerifyProof_FlippedSiblingFails(t *testing.T) {
	tree := New(leafFixture(8))

	for i := 0; i < 8; i++ {
		proof := tree.Proof(i)
		require.NotNil(t, proof)

		for s := range proof.Siblings {
			tampered := *proof
			tampered.Siblings = append([]Sibling(nil), proof.Siblings...)
			tampered.Siblings[s].Hash = canonicalize.HashString("tampered")
			assert.False(t, VerifyProof(&tampered), "leaf %d sibling %d", i, s)
		}
	}
}

func TestVerifyProof_NilAndBadDirection(t *testing.T) {
	assert.False(t, VerifyProof(nil))

	tree := New(leafFixture(2))
	proof := tree.Proof(0)
	require.NotNil(t, proof)
	proof.Siblings[0].Direction = "up"
	assert.False(t, VerifyProof(proof))
}

func TestTree_OddLevelDuplication(t *testing.T) {
	// Three leaves: the third is paired with itself at the first level.
	leaves := leafFixture(3)
	tree := New(leaves)

	proof := tree.Proof(2)
	require.NotNil(t, proof)
	require.Len(t, proof.Siblings, 2)
	assert.Equal(t, leaves[2], proof.Siblings[0].Hash, "odd leaf pairs with itself")
	assert.Equal(t, DirectionRight, proof.Siblings[0].Direction)
	assert.True(t, VerifyProof(proof))
}

func TestTree_Deterministic(t *testing.T) {
	leaves := leafFixture(11)
	assert.Equal(t, New(leaves).Root(), New(leaves).Root())
}

func TestTree_RootChangesWithAnyLeaf(t *testing.T) {
	leaves := leafFixture(6)
	base := New(leaves).Root()

	for i := range leaves {
		mutated := append([]string(nil), leaves...)
		mutated[i] = canonicalize.HashString("mutated")
		assert.NotEqual(t, base, New(mutated).Root(), "leaf %d", i)
	}
}
