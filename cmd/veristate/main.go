package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/statetrust/veristate/pkg/config"
)

// Dispatcher
func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
//
// Exit codes:
//
//	0 = success / verification passed
//	1 = verification or consensus failed
//	2 = runtime error or bad usage
func Run(args []string, stdout, stderr io.Writer) int {
	setupLogging(stderr)

	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "bundle":
		return runBundleCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "audit":
		return runAuditCmd(args[2:], stdout, stderr)
	case "consensus":
		return runConsensusCmd(args[2:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "veristate %s\n", versionString)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

const versionString = "1.0.0"

func setupLogging(stderr io.Writer) {
	cfg := config.Load()
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "veristate %s\n", versionString)
	fmt.Fprintln(w, "Deterministic state verification for financial record snapshots.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  veristate <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	printCommand(w, "bundle", "Assemble an exportable state bundle (--ledger, --registrum, --out)")
	printCommand(w, "verify", "Verify a state bundle offline (--bundle, --json)")
	printCommand(w, "audit", "Replay multi-chain event logs (--events, --expected)")
	printCommand(w, "consensus", "Aggregate verifier reports (report files or --bundle-hash)")
	printCommand(w, "version", "Show version information")
	printCommand(w, "help", "Show this help")
	fmt.Fprintln(w, "")
}

func printCommand(w io.Writer, name, desc string) {
	fmt.Fprintf(w, "  %-12s %s\n", name, desc)
}
