// Package output renders a packing run report for humans. It owns all
// terminal formatting; the engine and writer never print.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"texpack/pkg/types"
)

// Format selects how the report is rendered.
type Format int

const (
	// FormatAuto picks terminal or plain text based on the output device.
	FormatAuto Format = iota
	// FormatTerminal renders with colors.
	FormatTerminal
	// FormatText renders plain text, for pipes and logs.
	FormatText
	// FormatJSON renders the raw report as JSON.
	FormatJSON
)

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat resolves FormatAuto against the actual output device,
// honoring NO_COLOR.
func DetectFormat(out *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return FormatText
	}
	return FormatTerminal
}

type styles struct {
	header  lipgloss.Style
	packed  lipgloss.Style
	skipped lipgloss.Style
	failed  lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(colored bool) styles {
	if !colored {
		return styles{}
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true),
		packed:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		skipped: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Printer writes a run report to one writer in one format.
type Printer struct {
	w           io.Writer
	format      Format
	showDetails bool
	st          styles
}

// NewPrinter builds a printer. FormatAuto must already be resolved via
// DetectFormat; the printer treats it as plain text.
func NewPrinter(w io.Writer, format Format, showDetails bool) *Printer {
	return &Printer{
		w:           w,
		format:      format,
		showDetails: showDetails,
		st:          newStyles(format == FormatTerminal),
	}
}

// Report renders the full run report: one line per combination grouped
// by folder, the quietly skipped sets, and a closing tally.
func (p *Printer) Report(report *types.RunReport) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, group := range groupOrder(report) {
		if group != "." {
			fmt.Fprintln(p.w, p.st.header.Render(group+"/"))
		}
		for _, r := range report.Results {
			if r.Group != group {
				continue
			}
			p.resultLine(r)
		}
		p.skippedSets(report, group)
	}

	packed, skipped, failed := report.Tally()
	fmt.Fprintf(p.w, "\n%d packed, %d skipped, %d failed\n", packed, skipped, failed)
	return nil
}

func (p *Printer) resultLine(r types.PackResult) {
	switch {
	case r.Outcome == types.Packed:
		line := fmt.Sprintf("  %s %s", p.st.packed.Render("✓"), r.OutputFile)
		if !r.Resolution.IsZero() {
			line += " " + p.st.detail.Render("("+r.Resolution.String()+")")
		}
		fmt.Fprintln(p.w, line)
	case r.Outcome.Failed():
		fmt.Fprintf(p.w, "  %s %s [%s]: %s\n",
			p.st.failed.Render("✗"), r.BaseName, r.ModeName, r.Detail)
	case p.showDetails:
		// Skips are noise in the default view.
		fmt.Fprintf(p.w, "  %s %s [%s]: %s\n",
			p.st.skipped.Render("-"), r.BaseName, r.ModeName, r.Detail)
	}
}

func (p *Printer) skippedSets(report *types.RunReport, group string) {
	sets := report.SkippedSets[group]
	if len(sets) == 0 || !p.showDetails {
		return
	}
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(p.w, "  %s set %q had nothing to pack (%s)\n",
			p.st.skipped.Render("-"), name, strings.Join(sets[name], ", "))
	}
}

// groupOrder returns the group folders in first-seen order, which the
// engine emits sorted by path.
func groupOrder(report *types.RunReport) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range report.Results {
		if !seen[r.Group] {
			seen[r.Group] = true
			out = append(out, r.Group)
		}
	}
	for group := range report.SkippedSets {
		if !seen[group] {
			seen[group] = true
			out = append(out, group)
		}
	}
	return out
}
