package bundle

import (
	"fmt"
	"time"

	"github.com/statetrust/veristate/pkg/contracts"
	"github.com/statetrust/veristate/pkg/snapshot"
)

// VerificationResult reports a bundle's internal consistency. Verdict is
// PASS iff the discrepancy list is empty.
type VerificationResult struct {
	Verdict         contracts.Verdict `json:"verdict"`
	BundleHashValid bool              `json:"bundleHashValid"`
	GlobalHashValid bool              `json:"globalHashValid"`
	Discrepancies   []string          `json:"discrepancies"`
	VerifiedAt      time.Time         `json:"verifiedAt"`
}

// VerifyIntegrity independently recomputes every hash a bundle carries from
// the bundle's own visible fields and reports each mismatch found. A single
// call can surface multiple independent problems at once.
func VerifyIntegrity(b ExportableStateBundle) (VerificationResult, error) {
	discrepancies := []string{}

	// 1. Recompute the bundle seal from the stored global hash and event
	// hashes.
	sealHash, err := computeBundleHash(b.GlobalStateHash.Hash, b.EventHashes, b.ChainHashes)
	if err != nil {
		return VerificationResult{}, err
	}
	bundleHashValid := sealHash == b.BundleHash
	if !bundleHashValid {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"bundle hash mismatch: stored %s, recomputed %s", b.BundleHash, sealHash))
	}

	// 2. Recompute the global state hash from the embedded snapshots.
	recomputed, err := snapshot.ComputeGlobalStateHash(b.LedgerSnapshot, b.RegistrumSnapshot, b.ChainHashes)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("verify bundle integrity: %w", err)
	}
	globalHashValid := recomputed.Hash == b.GlobalStateHash.Hash
	if !globalHashValid {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"global state hash mismatch: stored %s, recomputed %s",
			b.GlobalStateHash.Hash, recomputed.Hash))
	}

	// 3. Compare each stored subsystem hash against its recomputation, even
	// when already covered by the global mismatch above.
	if recomputed.Subsystems.Ledger != b.GlobalStateHash.Subsystems.Ledger {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"ledger subsystem hash mismatch: stored %s, recomputed %s",
			b.GlobalStateHash.Subsystems.Ledger, recomputed.Subsystems.Ledger))
	}
	if recomputed.Subsystems.Registrum != b.GlobalStateHash.Subsystems.Registrum {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"registrum subsystem hash mismatch: stored %s, recomputed %s",
			b.GlobalStateHash.Subsystems.Registrum, recomputed.Subsystems.Registrum))
	}

	return VerificationResult{
		Verdict:         contracts.VerdictFor(len(discrepancies) == 0),
		BundleHashValid: bundleHashValid,
		GlobalHashValid: globalHashValid,
		Discrepancies:   discrepancies,
		VerifiedAt:      time.Now().UTC(),
	}, nil
}
