// Package consensus combines the verdicts of independent verifier processes
// into one system verdict.
//
// The aggregator is oblivious to why a verifier reported FAIL (bad bundle
// hash, missing quorum upstream, timeout in its collection layer); it only
// reduces pre-computed verdicts. Consensus requires a strict majority and an
// exact tie resolves to FAIL.
package consensus

import (
	"time"

	"github.com/statetrust/veristate/pkg/contracts"
)

// ConsensusResult is the aggregated judgment over a set of verifier reports.
type ConsensusResult struct {
	Verdict        contracts.Verdict `json:"verdict"`
	TotalVerifiers int               `json:"totalVerifiers"`
	PassCount      int               `json:"passCount"`
	FailCount      int               `json:"failCount"`
	AgreementRatio float64           `json:"agreementRatio"`
	QuorumReached  bool              `json:"quorumReached"`
	Dissenters     []string          `json:"dissenters"`
	ConsensusAt    time.Time         `json:"consensusAt"`
}

// IsConsensusReached reports whether enough verifiers have reported,
// independent of what they reported.
func IsConsensusReached(reports []contracts.VerifierReport, minimumVerifiers int) bool {
	return len(reports) >= minimumVerifiers
}

// AggregateVerifierReports reduces the reports to one ConsensusResult.
//
// The verdict is PASS iff passing reports form a strict majority
// (passCount > total/2). Dissenters are the verifier IDs whose verdict
// differs from the chosen one, in input order. Ordering can carry
// diagnostic meaning (first reporter first) and is never sorted or
// deduplicated. An empty report list yields the zero FAIL result.
func AggregateVerifierReports(reports []contracts.VerifierReport, minimumVerifiers int) ConsensusResult {
	now := time.Now().UTC()

	if len(reports) == 0 {
		return ConsensusResult{
			Verdict:        contracts.VerdictFail,
			TotalVerifiers: 0,
			PassCount:      0,
			FailCount:      0,
			AgreementRatio: 0,
			QuorumReached:  false,
			Dissenters:     []string{},
			ConsensusAt:    now,
		}
	}

	total := len(reports)
	passCount := 0
	for _, r := range reports {
		if r.Verdict == contracts.VerdictPass {
			passCount++
		}
	}
	failCount := total - passCount

	// Strict majority; 2*passCount avoids float comparison on the tie.
	verdict := contracts.VerdictFor(2*passCount > total)

	agreeing := 0
	dissenters := []string{}
	for _, r := range reports {
		if r.Verdict == verdict {
			agreeing++
		} else {
			dissenters = append(dissenters, r.VerifierID)
		}
	}

	return ConsensusResult{
		Verdict:        verdict,
		TotalVerifiers: total,
		PassCount:      passCount,
		FailCount:      failCount,
		AgreementRatio: float64(agreeing) / float64(total),
		QuorumReached:  total >= minimumVerifiers,
		Dissenters:     dissenters,
		ConsensusAt:    now,
	}
}
