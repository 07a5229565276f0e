package contracts

import "time"

// VerifierReport is the judgment of one independent verifier process about
// one exported state bundle. Reports are produced outside the consensus
// aggregator (each verifier re-runs the deterministic pipeline itself) and
// combined by strict majority.
type VerifierReport struct {
	ReportID        string          `json:"reportId"`
	VerifierID      string          `json:"verifierId"`
	Verdict         Verdict         `json:"verdict"`
	SubsystemChecks map[string]bool `json:"subsystemChecks"`
	Discrepancies   []string        `json:"discrepancies"`
	BundleHash      string          `json:"bundleHash"`
	VerifiedAt      time.Time       `json:"verifiedAt"`
}
