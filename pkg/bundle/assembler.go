// Package bundle assembles and re-verifies exportable, tamper-evident state
// bundles.
//
// A bundle carries everything an external verifier needs to prove internal
// consistency with zero access to the live system: both raw snapshots, the
// derived GlobalStateHash, the observed event hashes, optional per-chain
// hashes, and a bundleHash sealing the bundle's own contents. bundleHash and
// globalStateHash are each independently recomputable from the bundle's
// visible fields; a bundle failing either recomputation is tampered or
// corrupt.
package bundle

import (
	"fmt"
	"time"

	"github.com/statetrust/veristate/pkg/canonicalize"
	"github.com/statetrust/veristate/pkg/snapshot"
)

// Version is the current bundle format version.
const Version = 1

// ExportableStateBundle is a self-verifying export of system state.
// ExportedAt is informational and excluded from every hash.
type ExportableStateBundle struct {
	Version           int                      `json:"version"`
	LedgerSnapshot    any                      `json:"ledgerSnapshot"`
	RegistrumSnapshot any                      `json:"registrumSnapshot"`
	GlobalStateHash   snapshot.GlobalStateHash `json:"globalStateHash"`
	EventHashes       []string                 `json:"eventHashes"`
	ChainHashes       map[string]string        `json:"chainHashes,omitempty"`
	ExportedAt        time.Time                `json:"exportedAt"`
	BundleHash        string                   `json:"bundleHash"`
}

// CreateStateBundle computes the GlobalStateHash from the snapshots, seals
// the bundle contents with a bundleHash, and returns the complete bundle.
func CreateStateBundle(ledger, registrum any, eventHashes []string, chainHashes map[string]string) (ExportableStateBundle, error) {
	state, err := snapshot.ComputeGlobalStateHash(ledger, registrum, chainHashes)
	if err != nil {
		return ExportableStateBundle{}, fmt.Errorf("create state bundle: %w", err)
	}

	if eventHashes == nil {
		eventHashes = []string{}
	}

	bundleHash, err := computeBundleHash(state.Hash, eventHashes, chainHashes)
	if err != nil {
		return ExportableStateBundle{}, err
	}

	return ExportableStateBundle{
		Version:           Version,
		LedgerSnapshot:    ledger,
		RegistrumSnapshot: registrum,
		GlobalStateHash:   state,
		EventHashes:       eventHashes,
		ChainHashes:       chainHashes,
		ExportedAt:        time.Now().UTC(),
		BundleHash:        bundleHash,
	}, nil
}

// computeBundleHash seals the bundle's own contents. chainHashes is included
// only when non-empty, mirroring the GlobalStateHash rule, and a nil event
// list canonicalizes as the empty list.
func computeBundleHash(globalHash string, eventHashes []string, chainHashes map[string]string) (string, error) {
	if eventHashes == nil {
		eventHashes = []string{}
	}
	view := map[string]any{
		"globalHash":  globalHash,
		"eventHashes": eventHashes,
	}
	if len(chainHashes) > 0 {
		view["chainHashes"] = chainHashes
	}

	h, err := canonicalize.CanonicalHash(view)
	if err != nil {
		return "", fmt.Errorf("compute bundle hash: %w", err)
	}
	return h, nil
}
