package merkle

// Direction indicates which side a sibling sits on relative to the node
// being proven.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Sibling is one step of an inclusion proof.
type Sibling struct {
	Hash      string    `json:"hash"`
	Direction Direction `json:"direction"`
}

// Proof is a self-contained inclusion proof: verification needs no access to
// the original tree.
type Proof struct {
	LeafHash  string    `json:"leafHash"`
	LeafIndex int       `json:"leafIndex"`
	Siblings  []Sibling `json:"siblings"`
	Root      string    `json:"root"`
}

// Proof returns the inclusion proof for the leaf at index, or nil when the
// tree is absent or the index is out of range. A single-leaf tree yields a
// proof with zero siblings whose root equals the leaf.
func (t *Tree) Proof(index int) *Proof {
	if t == nil || index < 0 || index >= len(t.levels[0]) {
		return nil
	}

	proof := &Proof{
		LeafHash:  t.levels[0][index],
		LeafIndex: index,
		Siblings:  []Sibling{},
		Root:      t.Root(),
	}

	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]

		var sibling Sibling
		if idx%2 == 0 {
			siblingIdx := idx + 1
			if siblingIdx >= len(nodes) {
				// Odd level: the node was paired with itself.
				siblingIdx = idx
			}
			sibling = Sibling{Hash: nodes[siblingIdx], Direction: DirectionRight}
		} else {
			sibling = Sibling{Hash: nodes[idx-1], Direction: DirectionLeft}
		}

		proof.Siblings = append(proof.Siblings, sibling)
		idx /= 2
	}

	return proof
}

// VerifyProof folds the siblings over the leaf hash and compares the result
// to the proof's root. It returns a boolean and never panics; a nil proof or
// an unknown direction verifies as false.
func VerifyProof(proof *Proof) bool {
	if proof == nil {
		return false
	}

	current := proof.LeafHash
	for _, sibling := range proof.Siblings {
		switch sibling.Direction {
		case DirectionLeft:
			current = nodeHash(sibling.Hash, current)
		case DirectionRight:
			current = nodeHash(current, sibling.Hash)
		default:
			return false
		}
	}
	return current == proof.Root
}
