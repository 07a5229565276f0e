// Package snapshot hashes subsystem snapshots and combines them into a single
// top-level content address.
//
// The ledger and registrum snapshots are hashed independently; the global
// hash is a hash-of-hashes over the canonical form of the subsystem digests
// (plus per-chain hashes when present), never a concatenation. Changing one
// subsystem therefore changes only its own digest and the top-level hash.
package snapshot

import (
	"fmt"
	"time"

	"github.com/statetrust/veristate/pkg/canonicalize"
)

// SubsystemHashes holds the independently verifiable per-subsystem digests.
type SubsystemHashes struct {
	Ledger    string `json:"ledger"`
	Registrum string `json:"registrum"`
}

// GlobalStateHash is the combined content address of the full system state.
// ComputedAt is informational only and never participates in any hash.
type GlobalStateHash struct {
	Hash       string          `json:"hash"`
	ComputedAt time.Time       `json:"computedAt"`
	Subsystems SubsystemHashes `json:"subsystems"`
}

// HashLedgerSnapshot returns the canonical SHA-256 digest of a ledger
// snapshot ({version, accounts, entries, createdAt} as produced by the
// ledger subsystem, but treated opaquely here).
func HashLedgerSnapshot(s any) (string, error) {
	h, err := canonicalize.CanonicalHash(s)
	if err != nil {
		return "", fmt.Errorf("hash ledger snapshot: %w", err)
	}
	return h, nil
}

// HashRegistrumSnapshot returns the canonical SHA-256 digest of a registrar
// snapshot. The snapshot is structurally typed and canonicalized as-is.
func HashRegistrumSnapshot(s any) (string, error) {
	h, err := canonicalize.CanonicalHash(s)
	if err != nil {
		return "", fmt.Errorf("hash registrum snapshot: %w", err)
	}
	return h, nil
}

// ComputeGlobalStateHash hashes both subsystem snapshots independently and
// combines them (with optional per-chain hashes) into one GlobalStateHash.
// chainHashes is included in the combined digest only when non-empty.
func ComputeGlobalStateHash(ledger, registrum any, chainHashes map[string]string) (GlobalStateHash, error) {
	ledgerHash, err := HashLedgerSnapshot(ledger)
	if err != nil {
		return GlobalStateHash{}, err
	}
	registrumHash, err := HashRegistrumSnapshot(registrum)
	if err != nil {
		return GlobalStateHash{}, err
	}

	top, err := CombineHashes(ledgerHash, registrumHash, chainHashes)
	if err != nil {
		return GlobalStateHash{}, err
	}

	return GlobalStateHash{
		Hash:       top,
		ComputedAt: time.Now().UTC(),
		Subsystems: SubsystemHashes{
			Ledger:    ledgerHash,
			Registrum: registrumHash,
		},
	}, nil
}

// CombineHashes computes the top-level hash-of-hashes from already-computed
// subsystem digests. Exposed so a verifier can re-derive the top-level hash
// from a bundle's stored subsystem hashes without the snapshots.
func CombineHashes(ledgerHash, registrumHash string, chainHashes map[string]string) (string, error) {
	view := map[string]any{
		"ledger":    ledgerHash,
		"registrum": registrumHash,
	}
	if len(chainHashes) > 0 {
		view["chains"] = chainHashes
	}
	h, err := canonicalize.CanonicalHash(view)
	if err != nil {
		return "", fmt.Errorf("combine subsystem hashes: %w", err)
	}
	return h, nil
}
