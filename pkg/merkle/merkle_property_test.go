package merkle

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/statetrust/veristate/pkg/canonicalize"
)

func hashAll(values []string) []string {
	leaves := make([]string, len(values))
	for i, v := range values {
		leaves[i] = canonicalize.HashString(v)
	}
	return leaves
}

// Property: for any non-empty leaf set, every index produces a proof that
// verifies against the root.
func TestMerkleProofsAlwaysVerify(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("all proofs verify", prop.ForAll(
		func(values []string) bool {
			if len(values) == 0 {
				return true
			}
			tree := New(hashAll(values))
			for i := 0; i < tree.LeafCount(); i++ {
				if !VerifyProof(tree.Proof(i)) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}

// Property: tree construction is deterministic.
func TestMerkleRootDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("identical leaves yield identical roots", prop.ForAll(
		func(values []string) bool {
			leaves := hashAll(values)
			return New(leaves).Root() == New(leaves).Root()
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}
