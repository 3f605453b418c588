// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"vin-reconcile/internal/config"
	"vin-reconcile/internal/documents"
	"vin-reconcile/internal/help"
	"vin-reconcile/internal/observability"
	"vin-reconcile/internal/parallel"
	"vin-reconcile/internal/paths"
	"vin-reconcile/internal/policy"
	"vin-reconcile/internal/preprocessors/pdftext"
	"vin-reconcile/internal/reconcile"
	"vin-reconcile/internal/reference"
	"vin-reconcile/internal/version"

	"vin-reconcile/internal/formatters"
	_ "vin-reconcile/internal/formatters/csv"
	_ "vin-reconcile/internal/formatters/json"
	_ "vin-reconcile/internal/formatters/text"
	_ "vin-reconcile/internal/formatters/xlsx"
	_ "vin-reconcile/internal/formatters/yaml"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Exit codes
const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// configFlags holds command line flag values
type configFlags struct {
	excelFile    string
	sheet        string
	vinColumn    int
	pdfInputs    stringList
	recursive    bool
	configFile   string
	profileName  string
	listProfiles bool
	outputFormat string
	outputFile   string
	policy       string
	prefixes     string
	docCheck     string
	matcher      string
	workers      int
	validatePDF  bool
	maxPages     int
	suggest      bool
	verbose      bool
	debug        bool
	noColor      bool
	showHelp     bool
	showVersion  bool
}

// finalConfig is the merged result of defaults, config file, profile,
// environment and explicit flags, in increasing precedence.
type finalConfig struct {
	format      string
	policy      policy.Policy
	docCheck    reconcile.DocumentOnlyCheck
	matcher     reconcile.MatchStrategy
	workers     int
	suggest     bool
	recursive   bool
	verbose     bool
	debug       bool
	noColor     bool
	sheet       string
	vinColumn   int
	validatePDF bool
	maxPages    int
}

// app carries the process streams and the pluggable document extractor.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	extract func(pdftext.Options) documents.ExtractFunc
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{stdout: os.Stdout, stderr: os.Stderr, extract: documents.PDFExtractor}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func newFlagSet(flags *configFlags, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("vin-reconcile", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&flags.excelFile, "excel", "", "Reference table (.xlsx or .csv) listing the declared VINs")
	fs.StringVar(&flags.sheet, "sheet", "", "Worksheet to read (default: first sheet)")
	fs.IntVar(&flags.vinColumn, "vin-column", reconcile.DefaultVINColumn, "Zero-based column holding the VINs")
	fs.Var(&flags.pdfInputs, "pdf", "PDF file, directory or glob pattern (repeatable)")
	fs.BoolVar(&flags.recursive, "recursive", false, "Descend into subdirectories of --pdf directories")
	fs.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&flags.profileName, "profile", "", "Profile name to use from config file")
	fs.BoolVar(&flags.listProfiles, "list-profiles", false, "List available profiles in config file")
	fs.StringVar(&flags.outputFormat, "format", "", "Output format: "+strings.Join(formatters.List(), ", ")+" (default: text)")
	fs.StringVar(&flags.outputFile, "output", "", "Path to output file (if not specified, output to stdout)")
	fs.StringVar(&flags.policy, "policy", "", "Validation policy: format, learned, fixed (default: learned)")
	fs.StringVar(&flags.prefixes, "prefixes", "", "WMI prefixes for --policy fixed, e.g. 9G5,9G6")
	fs.StringVar(&flags.docCheck, "doc-check", "", "Filter for document-only tokens: validator, plausibility (default: validator)")
	fs.StringVar(&flags.matcher, "matcher", "", "Matching strategy: regex, indexed (default: regex)")
	fs.IntVar(&flags.workers, "workers", 0, "Parallel workers (default: CPU count, max 8)")
	fs.BoolVar(&flags.validatePDF, "validate-pdf", false, "Check PDF structure before extracting text")
	fs.IntVar(&flags.maxPages, "max-pages", 0, "Pages read per PDF (default: 0, every page)")
	fs.BoolVar(&flags.suggest, "suggest", false, "Suggest likely typos for VINs not found in documents")
	fs.BoolVar(&flags.verbose, "verbose", false, "Show run details, suggestions and raw invalid cells")
	fs.BoolVar(&flags.debug, "debug", false, "Trace every step with timings on stderr")
	fs.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&flags.showHelp, "help", false, "Show help information")
	fs.BoolVar(&flags.showVersion, "version", false, "Show version information")
	return fs
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// loadConfiguration loads the configuration file or returns default config
func (a *app) loadConfiguration(configFile string) *config.Config {
	cfg, err := config.LoadConfigOrDefault(configFile)
	if err != nil {
		fmt.Fprintf(a.stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(a.stderr, "Using default configuration\n")
	}
	return cfg
}

// resolveConfiguration layers explicit flags over the effective profile.
func resolveConfiguration(fs *flag.FlagSet, flags *configFlags, cfg *config.Config, eff config.Profile) (finalConfig, error) {
	final := finalConfig{
		format:      eff.Format,
		workers:     eff.Workers,
		suggest:     eff.Suggest,
		recursive:   eff.Recursive,
		verbose:     eff.Verbose,
		debug:       eff.Debug,
		noColor:     eff.NoColor,
		sheet:       cfg.Reference.Sheet,
		vinColumn:   cfg.Reference.VINColumn,
		validatePDF: cfg.Documents.ValidatePDF,
		maxPages:    cfg.Documents.MaxPages,
	}
	kind, prefixes, docCheck, matcher := eff.Policy, eff.Prefixes, eff.DocumentOnlyCheck, eff.Matcher

	if isFlagSet(fs, "format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}
	if isFlagSet(fs, "policy") {
		kind = flags.policy
	}
	if isFlagSet(fs, "prefixes") {
		prefixes = flags.prefixes
		// A prefix list on the command line implies the fixed policy.
		if !isFlagSet(fs, "policy") {
			kind = string(policy.FixedPrefixList)
		}
	}
	if isFlagSet(fs, "doc-check") {
		docCheck = flags.docCheck
	}
	if isFlagSet(fs, "matcher") {
		matcher = flags.matcher
	}
	if isFlagSet(fs, "workers") {
		final.workers = flags.workers
	}
	if isFlagSet(fs, "suggest") {
		final.suggest = flags.suggest
	}
	if isFlagSet(fs, "recursive") {
		final.recursive = flags.recursive
	}
	if isFlagSet(fs, "verbose") {
		final.verbose = flags.verbose
	}
	if isFlagSet(fs, "debug") {
		final.debug = flags.debug
	}
	if isFlagSet(fs, "no-color") {
		final.noColor = flags.noColor
	}
	if isFlagSet(fs, "sheet") {
		final.sheet = flags.sheet
	}
	if isFlagSet(fs, "vin-column") {
		final.vinColumn = flags.vinColumn
	}
	if isFlagSet(fs, "validate-pdf") {
		final.validatePDF = flags.validatePDF
	}
	if isFlagSet(fs, "max-pages") {
		final.maxPages = flags.maxPages
	}

	var err error
	if final.policy, err = policy.Parse(kind, prefixes); err != nil {
		return final, err
	}
	if final.docCheck, err = reconcile.ParseDocumentOnlyCheck(docCheck); err != nil {
		return final, err
	}
	if final.matcher, err = reconcile.ParseMatchStrategy(matcher); err != nil {
		return final, err
	}
	if _, ok := formatters.Get(final.format); !ok {
		return final, fmt.Errorf("unsupported format '%s'. Available formats: %s", final.format, strings.Join(formatters.List(), ", "))
	}
	if final.workers < 0 || final.vinColumn < 0 || final.maxPages < 0 {
		return final, fmt.Errorf("--workers, --vin-column and --max-pages must not be negative")
	}
	if final.workers == 0 {
		final.workers = parallel.DefaultWorkers()
	}
	return final, nil
}

func (a *app) usageError(format string, args ...interface{}) int {
	fmt.Fprintf(a.stderr, "Error: "+format+"\n", args...)
	fmt.Fprintln(a.stderr, "Run 'vin-reconcile --help' for usage.")
	return exitUsage
}

func (a *app) run(ctx context.Context, args []string) int {
	var flags configFlags
	fs := newFlagSet(&flags, a.stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			help.NewSystem(a.stdout, !isTerminal(a.stdout)).ShowGeneralHelp(formatters.List())
			return exitOK
		}
		return exitUsage
	}

	if flags.showHelp {
		h := help.NewSystem(a.stdout, flags.noColor || !isTerminal(a.stdout))
		h.RegisterTopic(formatsTopic())
		rest := fs.Args()
		switch {
		case len(rest) == 0:
			h.ShowGeneralHelp(formatters.List())
		case rest[0] == "topics":
			h.ShowTopicsHelp()
		case !h.ShowTopicHelp(rest[0]):
			fmt.Fprintf(a.stderr, "Unknown help topic: %s\n", rest[0])
			h.ShowTopicsHelp()
			return exitUsage
		}
		return exitOK
	}

	if flags.showVersion {
		fmt.Fprintln(a.stdout, version.Info())
		return exitOK
	}

	if len(fs.Args()) > 0 {
		return a.usageError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := config.LoadEnv(""); err != nil {
		fmt.Fprintf(a.stderr, "Warning: %v\n", err)
	}

	cfg := a.loadConfiguration(flags.configFile)

	if flags.listProfiles {
		a.listProfiles(cfg)
		return exitOK
	}

	eff, err := cfg.Effective(flags.profileName)
	if err != nil {
		return a.usageError("%v", err)
	}
	if err := eff.ApplyEnv(); err != nil {
		return a.usageError("%v", err)
	}

	final, err := resolveConfiguration(fs, &flags, cfg, eff)
	if err != nil {
		return a.usageError("%v", err)
	}

	if flags.excelFile == "" {
		return a.usageError("--excel is required")
	}
	if len(flags.pdfInputs) == 0 {
		return a.usageError("at least one --pdf is required")
	}

	// Colors only make sense on an interactive terminal.
	if flags.outputFile != "" || !isTerminal(a.stdout) {
		final.noColor = true
	}
	if final.noColor {
		color.NoColor = true
	}

	level := observability.ObservabilityMetrics
	if final.debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, a.stderr)
	if observer.DebugObserver != nil {
		observer.DebugObserver.LogDetail("config", fmt.Sprintf("Policy: %s, document check: %s, matcher: %s, workers: %d",
			final.policy, final.docCheck, final.matcher, final.workers))
		if eff.Description != "" {
			observer.DebugObserver.LogDetail("config", fmt.Sprintf("Profile %s: %s", flags.profileName, eff.Description))
		}
	}

	result, err := a.reconcile(ctx, flags, final, observer)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitRun
	}

	return a.writeReport(result, flags.outputFile, final)
}

// reconcile reads the inputs and runs the engine.
func (a *app) reconcile(ctx context.Context, flags configFlags, final finalConfig, observer *observability.StandardObserver) (*reconcile.Result, error) {
	table, err := reference.ReadTable(flags.excelFile, reference.Options{Sheet: final.sheet, VINColumn: final.vinColumn})
	if err != nil {
		return nil, err
	}

	files, err := documents.Resolve(flags.pdfInputs, final.recursive)
	if err != nil {
		return nil, err
	}
	if observer.DebugObserver != nil {
		observer.DebugObserver.LogMetric("documents", "files", len(files))
	}

	loader := &documents.Loader{
		Extract:  a.extract(pdftext.Options{MaxPages: final.maxPages, Validate: final.validatePDF}),
		Workers:  final.workers,
		Observer: observer,
	}
	docs, err := loader.Load(ctx, files)
	if err != nil {
		return nil, err
	}

	engine := reconcile.NewEngine(reconcile.Options{
		Policy:       final.policy,
		DocumentOnly: final.docCheck,
		Matcher:      final.matcher,
		Workers:      final.workers,
		Suggest:      final.suggest,
		Observer:     observer,
	})
	return engine.Run(ctx, reconcile.Input{Reference: table, Documents: docs})
}

func (a *app) writeReport(result *reconcile.Result, outputFile string, final finalConfig) int {
	formatter, _ := formatters.Get(final.format)

	warn := color.New(color.FgYellow)
	if final.format != "text" || outputFile != "" || formatter.Binary() {
		for _, w := range result.Warnings {
			warn.Fprintf(a.stderr, "Warning: %s\n", w)
		}
	}

	out, err := formatters.Export(final.format, result, formatters.FormatterOptions{Verbose: final.verbose, NoColor: final.noColor})
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitRun
	}

	if outputFile == "" && formatter.Binary() {
		outputFile = formatters.DefaultFileName(final.format)
	}
	if outputFile == "" {
		if _, err := a.stdout.Write(out); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitRun
		}
		return exitOK
	}

	if err := paths.ValidatePath(outputFile); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitRun
	}
	if err := os.WriteFile(outputFile, out, 0o644); err != nil {
		fmt.Fprintf(a.stderr, "Error writing output file: %v\n", err)
		return exitRun
	}
	fmt.Fprintf(a.stderr, "Report written to %s (%d records)\n", outputFile, len(result.Records))
	return exitOK
}

// formatsTopic describes the registered report formats.
func formatsTopic() help.Topic {
	t := help.Topic{Name: "formats", ShortDescription: "Available report formats"}
	for _, info := range formatters.GetSupportedFormats() {
		line := fmt.Sprintf("%-6s %s (%s, %s)", info.Name, info.Description, info.Extension, info.MimeType)
		if info.Binary {
			line += "; written to " + formatters.DefaultFileName(info.Name) + " unless --output is set"
		}
		t.Lines = append(t.Lines, line)
	}
	t.Examples = []string{"vin-reconcile --excel fleet.xlsx --pdf docs/ --format xlsx --output report.xlsx"}
	return t
}

func (a *app) listProfiles(cfg *config.Config) {
	fmt.Fprintln(a.stdout, "Available profiles:")
	for _, name := range cfg.ListProfiles() {
		p := cfg.Profiles[name]
		if p.Description != "" {
			fmt.Fprintf(a.stdout, "  %-12s %s\n", name, p.Description)
		} else {
			fmt.Fprintf(a.stdout, "  %s\n", name)
		}
	}
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
