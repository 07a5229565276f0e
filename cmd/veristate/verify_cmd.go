package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"github.com/statetrust/veristate/pkg/config"
	"github.com/statetrust/veristate/pkg/contracts"
	"github.com/statetrust/veristate/pkg/observability"
	"github.com/statetrust/veristate/pkg/store"
	"github.com/statetrust/veristate/pkg/verifier"
)

// runVerifyCmd implements `veristate verify`.
//
// Verifies an exported state bundle offline: schema, seal, global hash,
// and per-subsystem hashes. Produces a verifier report suitable for
// consensus aggregation.
//
// Exit codes:
//
//	0 = verification passed
//	1 = verification failed
//	2 = runtime error
func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		bundlePath string
		verifierID string
		reportPath string
		jsonOutput bool
		archive    bool
	)

	cmd.StringVar(&bundlePath, "bundle", "", "Path to state bundle JSON (REQUIRED)")
	cmd.StringVar(&verifierID, "verifier-id", "", "Verifier identity (default from environment)")
	cmd.StringVar(&reportPath, "report", "", "Write verifier report to file")
	cmd.BoolVar(&jsonOutput, "json", false, "Output report as JSON to stdout")
	cmd.BoolVar(&archive, "archive", false, "Also store the report in the local archive")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if bundlePath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --bundle is required")
		return 2
	}

	cfg := config.Load()
	if verifierID == "" {
		verifierID = cfg.VerifierID
	}

	ctx := context.Background()
	obsCfg := observability.DefaultConfig()
	obsCfg.Enabled = cfg.TelemetryEnabled
	if cfg.OTLPEndpoint != "" {
		obsCfg.OTLPEndpoint = cfg.OTLPEndpoint
	}
	obs, err := observability.New(ctx, obsCfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: telemetry init: %v\n", err)
		return 2
	}
	defer func() { _ = obs.Shutdown(ctx) }()

	slog.Debug("verifying bundle",
		"bundle", bundlePath, "verifier_id", verifierID, "verifier_version", verifier.Version)

	ctx, done := obs.TrackOperation(ctx, "verify_bundle",
		attribute.String("verifier.id", verifierID))
	report, err := verifier.VerifyBundleFile(bundlePath, verifierID)
	done(err)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: verification failed: %v\n", err)
		return 2
	}

	if reportPath != "" {
		data, _ := json.MarshalIndent(report, "", "  ")
		if err := os.WriteFile(reportPath, data, 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: cannot write report: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
	}

	if archive {
		arc, err := store.Open(cfg.DatabasePath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: open archive: %v\n", err)
			return 2
		}
		defer arc.Close()
		if err := arc.StoreReport(ctx, report); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: archive report: %v\n", err)
			return 2
		}
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(report, "", "  ")
		_, _ = fmt.Fprintln(stdout, string(data))
	} else {
		if report.Verdict == contracts.VerdictPass {
			_, _ = fmt.Fprintln(stdout, "State bundle verification PASSED")
			_, _ = fmt.Fprintf(stdout, "Bundle: %s\n", bundlePath)
			_, _ = fmt.Fprintf(stdout, "Bundle hash: %s\n", report.BundleHash)
		} else {
			_, _ = fmt.Fprintln(stdout, "State bundle verification FAILED")
			_, _ = fmt.Fprintf(stdout, "Bundle: %s\n", bundlePath)
			for _, d := range report.Discrepancies {
				_, _ = fmt.Fprintf(stdout, "  - %s\n", d)
			}
		}
	}

	if report.Verdict != contracts.VerdictPass {
		return 1
	}
	return 0
}
