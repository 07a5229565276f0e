// Package verifier produces independent VerifierReports from exported state
// bundles.
//
// This package is intentionally minimal with ZERO server or network
// dependencies. It is the pipeline each independent verifier process runs
// against a downloaded bundle, and it trusts only the cryptographic
// primitives (SHA-256, RFC 8785 canonicalization) and the bundle format,
// never the operator that produced the bundle.
package verifier

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/statetrust/veristate/pkg/bundle"
	"github.com/statetrust/veristate/pkg/contracts"
	"github.com/statetrust/veristate/pkg/snapshot"
)

// Version identifies the verifier build; the CLI logs it alongside each run.
const Version = "1.0.0"

// ReportFromBundle re-runs the deterministic verification pipeline against
// an already-decoded bundle and produces this verifier's report. Subsystem
// checks are recomputed here independently rather than copied from the
// bundle's own claims.
func ReportFromBundle(b bundle.ExportableStateBundle, verifierID string) (contracts.VerifierReport, error) {
	result, err := bundle.VerifyIntegrity(b)
	if err != nil {
		return contracts.VerifierReport{}, fmt.Errorf("verifier %s: %w", verifierID, err)
	}

	ledgerHash, err := snapshot.HashLedgerSnapshot(b.LedgerSnapshot)
	if err != nil {
		return contracts.VerifierReport{}, fmt.Errorf("verifier %s: %w", verifierID, err)
	}
	registrumHash, err := snapshot.HashRegistrumSnapshot(b.RegistrumSnapshot)
	if err != nil {
		return contracts.VerifierReport{}, fmt.Errorf("verifier %s: %w", verifierID, err)
	}

	checks := map[string]bool{
		"bundleHash": result.BundleHashValid,
		"globalHash": result.GlobalHashValid,
		"ledger":     ledgerHash == b.GlobalStateHash.Subsystems.Ledger,
		"registrum":  registrumHash == b.GlobalStateHash.Subsystems.Registrum,
	}

	return contracts.VerifierReport{
		ReportID:        "rpt_" + uuid.NewString(),
		VerifierID:      verifierID,
		Verdict:         result.Verdict,
		SubsystemChecks: checks,
		Discrepancies:   result.Discrepancies,
		BundleHash:      b.BundleHash,
		VerifiedAt:      time.Now().UTC(),
	}, nil
}

// VerifyBundleBytes schema-validates, decodes, and verifies raw bundle
// bytes. A malformed bundle is an error ("verification could not run"),
// never a FAIL report.
func VerifyBundleBytes(data []byte, verifierID string) (contracts.VerifierReport, error) {
	b, err := bundle.Decode(data)
	if err != nil {
		return contracts.VerifierReport{}, err
	}
	return ReportFromBundle(b, verifierID)
}

// VerifyBundleFile reads and verifies a bundle JSON file.
func VerifyBundleFile(path, verifierID string) (contracts.VerifierReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return contracts.VerifierReport{}, fmt.Errorf("read bundle: %w", err)
	}
	return VerifyBundleBytes(data, verifierID)
}
