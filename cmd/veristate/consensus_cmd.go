package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/statetrust/veristate/pkg/config"
	"github.com/statetrust/veristate/pkg/consensus"
	"github.com/statetrust/veristate/pkg/contracts"
	"github.com/statetrust/veristate/pkg/store"
)

// runConsensusCmd implements `veristate consensus`.
//
// Aggregates verifier reports, either from report files passed as
// positional arguments or from the local archive via --bundle-hash,
// and decides the consensus verdict.
//
// Exit codes:
//
//	0 = consensus PASS
//	1 = consensus FAIL or quorum not reached
//	2 = runtime error
func runConsensusCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("consensus", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		bundleHash string
		minVer     int
		jsonOutput bool
	)

	cmd.StringVar(&bundleHash, "bundle-hash", "", "Aggregate archived reports for this bundle hash")
	cmd.IntVar(&minVer, "min", 0, "Minimum verifiers for quorum (default from environment)")
	cmd.BoolVar(&jsonOutput, "json", false, "Output consensus result as JSON to stdout")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	if minVer <= 0 {
		minVer = cfg.MinimumVerifiers
	}

	var reports []contracts.VerifierReport
	if bundleHash != "" {
		arc, err := store.Open(cfg.DatabasePath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: open archive: %v\n", err)
			return 2
		}
		defer arc.Close()
		reports, err = arc.ListReportsByBundle(context.Background(), bundleHash)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: load reports: %v\n", err)
			return 2
		}
	} else {
		paths := cmd.Args()
		if len(paths) == 0 {
			_, _ = fmt.Fprintln(stderr, "Error: pass report files or --bundle-hash")
			return 2
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "Error: read report: %v\n", err)
				return 2
			}
			r, err := contracts.DecodeVerifierReport(string(data))
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "Error: parse report %s: %v\n", path, err)
				return 2
			}
			reports = append(reports, *r)
		}
	}

	result := consensus.AggregateVerifierReports(reports, minVer)

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		_, _ = fmt.Fprintln(stdout, string(data))
	} else {
		_, _ = fmt.Fprintf(stdout, "Consensus: %s\n", result.Verdict)
		_, _ = fmt.Fprintf(stdout, "Verifiers: %d (pass=%d fail=%d)\n",
			result.TotalVerifiers, result.PassCount, result.FailCount)
		_, _ = fmt.Fprintf(stdout, "Agreement: %.2f\n", result.AgreementRatio)
		if !result.QuorumReached {
			_, _ = fmt.Fprintf(stdout, "Quorum NOT reached (minimum %d)\n", minVer)
		}
		for _, d := range result.Dissenters {
			_, _ = fmt.Fprintf(stdout, "  dissenter: %s\n", d)
		}
	}

	if result.Verdict != contracts.VerdictPass || !result.QuorumReached {
		return 1
	}
	return 0
}
