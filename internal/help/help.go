// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"vin-reconcile/internal/version"

	"github.com/fatih/color"
)

// Topic is a help page reachable with --help <name>.
type Topic struct {
	Name             string
	ShortDescription string
	Lines            []string
	Examples         []string
}

// System manages help content for the application
type System struct {
	out     io.Writer
	topics  map[string]Topic
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	h := &System{
		out:     out,
		topics:  make(map[string]Topic),
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"example":  color.New(color.FgMagenta),
		},
	}
	for _, t := range builtinTopics() {
		h.RegisterTopic(t)
	}
	return h
}

// RegisterTopic adds a help topic to the system
func (h *System) RegisterTopic(t Topic) {
	h.topics[strings.ToLower(t.Name)] = t
}

func (h *System) paint(name, s string) string {
	if h.noColor {
		return s
	}
	return h.colors[name].Sprint(s)
}

func (h *System) println(name, s string) {
	fmt.Fprintln(h.out, h.paint(name, s))
}

// ShowGeneralHelp displays general help information. formats lists the
// registered report formats.
func (h *System) ShowGeneralHelp(formats []string) {
	title := fmt.Sprintf("vin-reconcile %s - reconcile declared VINs against PDF documents", version.Short())
	h.println("title", title)
	fmt.Fprintln(h.out, strings.Repeat("=", len(title)))
	fmt.Fprintln(h.out)
	h.println("header", "USAGE:")
	fmt.Fprintln(h.out, "  vin-reconcile --excel <reference.xlsx> --pdf <file|dir|glob> [--pdf ...] [options]")
	fmt.Fprintln(h.out)

	h.println("header", "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --excel\t<path>\tReference table (.xlsx or .csv) listing the declared VINs (required)")
	fmt.Fprintln(w, "  --sheet\t<name>\tWorksheet to read (default: first sheet)")
	fmt.Fprintln(w, "  --vin-column\t<n>\tZero-based column holding the VINs (default: 1)")
	fmt.Fprintln(w, "  --pdf\t<path>\tPDF file, directory or glob pattern; repeatable (required)")
	fmt.Fprintln(w, "  --recursive\t\tDescend into subdirectories of --pdf directories")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles in config file")
	fmt.Fprintf(w, "  --format\t<format>\tOutput format: %s (default: text)\n", strings.Join(formats, ", "))
	fmt.Fprintln(w, "  --output\t<path>\tPath to output file (default: stdout, or a report file for binary formats)")
	fmt.Fprintln(w, "  --policy\t<policy>\tValidation policy: format, learned, fixed (default: learned)")
	fmt.Fprintln(w, "  --prefixes\t<list>\tWMI prefixes for --policy fixed, e.g. 9G5,9G6")
	fmt.Fprintln(w, "  --doc-check\t<check>\tFilter for document-only tokens: validator, plausibility (default: validator)")
	fmt.Fprintln(w, "  --matcher\t<matcher>\tMatching strategy: regex, indexed (default: regex)")
	fmt.Fprintln(w, "  --workers\t<n>\tParallel workers for extraction and matching (default: CPU count, max 8)")
	fmt.Fprintln(w, "  --validate-pdf\t\tCheck PDF structure before extracting text")
	fmt.Fprintln(w, "  --max-pages\t<n>\tPages read per PDF (default: 0, every page)")
	fmt.Fprintln(w, "  --suggest\t\tSuggest likely typos for VINs not found in documents")
	fmt.Fprintln(w, "  --verbose\t\tShow run details, suggestions and raw invalid cells")
	fmt.Fprintln(w, "  --debug\t\tTrace every step with timings on stderr")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help topics\t\tList help topics (formats, policies, statuses, document-check)")
	fmt.Fprintln(w, "  --help <topic>\t\tShow a help topic")
	w.Flush()

	fmt.Fprintln(h.out)
	h.println("header", "EXAMPLES:")
	h.println("example", "    vin-reconcile --excel fleet.xlsx --pdf invoices/")
	h.println("example", "    vin-reconcile --excel fleet.xlsx --pdf 'scans/*.pdf' --format xlsx --output report.xlsx")
	h.println("example", "    vin-reconcile --excel fleet.csv --pdf a.pdf --pdf b.pdf --policy fixed --prefixes 9G5,9G6")
	h.println("example", "    vin-reconcile --excel fleet.xlsx --pdf invoices/ --profile explore")

	fmt.Fprintln(h.out)
	h.println("header", "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: vin-reconcile.yaml, .vin-reconcile.yaml or .yml variants (in current directory)")
	fmt.Fprintln(h.out, "  User config: <user config dir>/vin-reconcile/config.yaml")
	fmt.Fprintln(h.out, "  Environment: VIN_RECONCILE_POLICY, VIN_RECONCILE_PREFIXES, VIN_RECONCILE_FORMAT (also read from .env)")
	fmt.Fprintln(h.out, "  Environment: VIN_RECONCILE_CONFIG_DIR - Override config directory")
	fmt.Fprintln(h.out)
	h.println("header", "EXIT CODES:")
	fmt.Fprintln(h.out, "  0 success, 1 run failure, 2 usage error")
}

// ShowTopicsHelp lists the help topics
func (h *System) ShowTopicsHelp() {
	h.println("title", "Help topics")
	fmt.Fprintln(h.out)

	names := make([]string, 0, len(h.topics))
	for name := range h.topics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, name := range names {
		t := h.topics[name]
		fmt.Fprintf(w, "  %s\t%s\n", h.paint("emphasis", t.Name), t.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For a specific topic, use:")
	h.println("example", "  vin-reconcile --help <topic>")
}

// ShowTopicHelp displays one topic. It reports false for unknown topics.
func (h *System) ShowTopicHelp(name string) bool {
	t, ok := h.topics[strings.ToLower(name)]
	if !ok {
		return false
	}

	h.println("title", strings.ToUpper(t.Name))
	fmt.Fprintln(h.out, strings.Repeat("=", len(t.Name)))
	fmt.Fprintln(h.out)
	for _, l := range t.Lines {
		fmt.Fprintln(h.out, "  "+l)
	}
	if len(t.Examples) > 0 {
		fmt.Fprintln(h.out)
		h.println("header", "EXAMPLES:")
		for _, e := range t.Examples {
			h.println("example", "  "+e)
		}
	}
	return true
}

func builtinTopics() []Topic {
	return []Topic{
		{
			Name:             "policies",
			ShortDescription: "How reference VINs are validated",
			Lines: []string{
				"format   A VIN is 17 characters of A-Z and 0-9 without I, O or Q.",
				"learned  Format, and the first three characters (the WMI) must be one",
				"         of the WMIs seen in the reference table itself.",
				"fixed    Format, and the WMI must be in the --prefixes list.",
				"",
				"When learned finds no valid VIN at all it falls back to format",
				"and reports a warning.",
			},
			Examples: []string{
				"vin-reconcile --excel fleet.xlsx --pdf docs/ --policy format",
				"vin-reconcile --excel fleet.xlsx --pdf docs/ --policy fixed --prefixes 9G5,9G6",
			},
		},
		{
			Name:             "statuses",
			ShortDescription: "What each report status means",
			Lines: []string{
				"Found in documents         Reference VIN present in at least one PDF.",
				"Not found                  Reference VIN present in no PDF.",
				"Found only in documents    VIN-like token in the PDFs that the reference lacks.",
				"Invalid format or pattern  Reference cell rejected by the validation policy.",
				"",
				"Matching ignores case and whitespace, including line breaks inside a VIN.",
				"Duplicate in Source is Yes when a VIN is listed more than once.",
			},
		},
		{
			Name:             "document-check",
			ShortDescription: "How document-only VINs are recognised",
			Lines: []string{
				"Every 17-character run of VIN characters in the documents is a candidate.",
				"validator     Keep candidates the validation policy accepts.",
				"plausibility  Keep candidates that look like VINs: at least two letters",
				"              in the WMI, four digits after position 6, and no run of",
				"              six or more letters.",
			},
		},
	}
}
