package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/statetrust/veristate/pkg/bundle"
	"github.com/statetrust/veristate/pkg/config"
	"github.com/statetrust/veristate/pkg/store"
)

// runBundleCmd implements `veristate bundle`.
//
// Assembles a sealed, exportable state bundle from snapshot JSON files and
// writes it to --out (or stdout). With --archive the bundle is also stored
// in the local sqlite archive.
func runBundleCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("bundle", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		ledgerPath    string
		registrumPath string
		eventsPath    string
		chainsPath    string
		outPath       string
		archive       bool
	)

	cmd.StringVar(&ledgerPath, "ledger", "", "Path to ledger snapshot JSON (REQUIRED)")
	cmd.StringVar(&registrumPath, "registrum", "", "Path to registrum snapshot JSON (REQUIRED)")
	cmd.StringVar(&eventsPath, "events", "", "Path to JSON array of event hashes")
	cmd.StringVar(&chainsPath, "chains", "", "Path to JSON object of per-chain hashes")
	cmd.StringVar(&outPath, "out", "", "Write bundle to file instead of stdout")
	cmd.BoolVar(&archive, "archive", false, "Also store the bundle in the local archive")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if ledgerPath == "" || registrumPath == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --ledger and --registrum are required")
		return 2
	}

	var ledger, registrum any
	if err := readJSONFile(ledgerPath, &ledger); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: ledger snapshot: %v\n", err)
		return 2
	}
	if err := readJSONFile(registrumPath, &registrum); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: registrum snapshot: %v\n", err)
		return 2
	}

	var eventHashes []string
	if eventsPath != "" {
		if err := readJSONFile(eventsPath, &eventHashes); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: event hashes: %v\n", err)
			return 2
		}
	}

	var chainHashes map[string]string
	if chainsPath != "" {
		if err := readJSONFile(chainsPath, &chainHashes); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: chain hashes: %v\n", err)
			return 2
		}
	}

	b, err := bundle.CreateStateBundle(ledger, registrum, eventHashes, chainHashes)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: bundle assembly failed: %v\n", err)
		return 2
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: encode bundle: %v\n", err)
		return 2
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: write bundle: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Bundle written to %s\n", outPath)
		_, _ = fmt.Fprintf(stdout, "Bundle hash: %s\n", b.BundleHash)
	} else {
		_, _ = fmt.Fprintln(stdout, string(data))
	}

	if archive {
		cfg := config.Load()
		arc, err := store.Open(cfg.DatabasePath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: open archive: %v\n", err)
			return 2
		}
		defer arc.Close()
		if err := arc.StoreBundle(context.Background(), b); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: archive bundle: %v\n", err)
			return 2
		}
		slog.Info("bundle archived", "bundle_hash", b.BundleHash, "db", cfg.DatabasePath)
	}

	return 0
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
