// Command dagmerge loads a DAG resolution scenario from YAML, runs the
// resolver, independently re-validates the result, and exports it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bigsur-network/dagmerge/pkg/config"
	"github.com/bigsur-network/dagmerge/pkg/export"
	"github.com/bigsur-network/dagmerge/pkg/resolve"
	"github.com/bigsur-network/dagmerge/pkg/telemetry"
	"github.com/bigsur-network/dagmerge/pkg/validation"
)

const version = "1.0.0"

var (
	scenarioPath = flag.String("scenario", "", "Path to YAML scenario file (required)")
	outputDir    = flag.String("output", ".", "Output directory for generated files")
	format       = flag.String("format", "json", "Export format: json, svg, or all")
	strategy     = flag.String("strategy", "auto", "Rejection strategy: auto, exact, or branch-and-bound")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
	versionF     = flag.Bool("version", false, "Print version and exit")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("dagmerge version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scenario flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, all\n", *format)
		os.Exit(1)
	}

	validStrategies := map[string]bool{"auto": true, "exact": true, "branch-and-bound": true}
	if !validStrategies[*strategy] {
		fmt.Fprintf(os.Stderr, "Error: invalid strategy %q, must be one of: auto, exact, branch-and-bound\n", *strategy)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := telemetry.New(level).Module("cmd")

	log.Info("loading scenario", "path", *scenarioPath)

	sc, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	log.Info("scenario loaded", "blocks", len(sc.Blocks), "deploys", len(sc.Deploys), "channels", len(sc.Channels))
	if hash, err := sc.Hash(); err == nil {
		log.Info("scenario hash", "sha256", fmt.Sprintf("%x", hash))
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	in, collab := sc.Build()

	var strat resolve.RejectionStrategy
	switch *strategy {
	case "exact":
		strat = resolve.ExactEnumerator{}
	case "branch-and-bound":
		strat = resolve.BranchAndBoundEnumerator{Cost: collab.Cost}
	}

	start := time.Now()
	log.Info("resolving")

	result, err := resolve.ResolveDAG(in, collab, strat)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	elapsed := time.Since(start)
	log.Info("resolved", "elapsed", elapsed.String(), "accepted", result.Accepted.Cardinality(), "rejected", result.Rejected.Cardinality())

	conflictSet := result.Accepted.Union(result.Rejected)
	if err := validation.CheckResult(result, in, collab, conflictSet); err != nil {
		return fmt.Errorf("result failed independent validation: %w", err)
	}
	log.Info("independent validation passed")

	artifact := export.BuildArtifact(result, conflictSet, collab)
	baseName := "resolution"

	if *format == "json" || *format == "all" {
		if err := exportJSON(log, artifact, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(log, artifact, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Resolved %d deploys (%d accepted, %d rejected) in %v\n",
		conflictSet.Cardinality(), result.Accepted.Cardinality(), result.Rejected.Cardinality(), elapsed)
	return nil
}

func exportJSON(log *telemetry.Logger, artifact export.Artifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	log.Info("exporting json", "path", filename)
	if err := export.SaveJSONToFile(artifact, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	return nil
}

func exportSVG(log *telemetry.Logger, artifact export.Artifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	log.Info("exporting svg", "path", filename)
	opts := export.DefaultSVGOptions()
	if err := export.SaveSVGToFile(artifact, filename, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: dagmerge -scenario <scenario.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'dagmerge -help' for detailed help")
}

func printHelp() {
	fmt.Printf("dagmerge version %s\n\n", version)
	fmt.Println("Resolves conflicting deploys over a block DAG into accepted/rejected sets.")
	fmt.Println("\nUsage:")
	fmt.Println("  dagmerge -scenario <scenario.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -scenario string")
	fmt.Println("        Path to YAML scenario file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, svg, or all (default: json)")
	fmt.Println("  -strategy string")
	fmt.Println("        Rejection strategy: auto, exact, or branch-and-bound (default: auto)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  dagmerge -scenario scenario.yaml")
	fmt.Println("  dagmerge -scenario scenario.yaml -format all -output ./out")
	fmt.Println("  dagmerge -scenario scenario.yaml -strategy exact -verbose")
}
