// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/shortlister/internal/types"
	"github.com/mattn/go-runewidth"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// nameWidth is the display width of the name column
	nameWidth = 18
)

// signalLabels are the column headers of the breakdown, in table order
var signalLabels = []struct {
	signal types.Signal
	label  string
}{
	{types.SignalVerifiedMastery, "MASTERY"},
	{types.SignalExperienceMatch, "EXP"},
	{types.SignalOCRSkills, "OCR"},
	{types.SignalProjectLevel, "LEVEL"},
	{types.SignalBonusSkills, "BONUS"},
	{types.SignalProjectRelevance, "REL"},
}

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content.
// Widths are measured in terminal cells so wide runes keep the border aligned.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", fit(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fit(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// PrintWeights outputs the weights used for a ranking.
func (p *Printer) PrintWeights(weights types.SignalWeights) {
	var sb strings.Builder
	for i, sl := range signalLabels {
		sb.WriteString(fmt.Sprintf("%-8s %.2f", sl.label, weights.Get(sl.signal)))
		if i%3 == 2 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("   ")
		}
	}
	p.printBox("WEIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintShortlist outputs the ranked candidates of a job with their per-signal scores.
func (p *Printer) PrintShortlist(jobID string, results []types.RankedResult) {
	if len(results) == 0 {
		p.printBox("SHORTLIST "+jobID, "No applicants to rank.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-3s %s %6s", "#", fit("NAME", nameWidth), "SCORE"))
	for _, sl := range signalLabels {
		sb.WriteString(fmt.Sprintf(" %*s", columnWidth(sl.label), sl.label))
	}
	sb.WriteString("\n")

	for i, r := range results {
		name := r.Name
		if strings.TrimSpace(name) == "" {
			name = r.CandidateID
		}
		sb.WriteString(fmt.Sprintf("%-3d %s %6.2f", i+1, fit(name, nameWidth), r.FinalScore))
		for _, sl := range signalLabels {
			sb.WriteString(fmt.Sprintf(" %*.1f", columnWidth(sl.label), r.Breakdown[sl.signal]))
		}
		if i < len(results)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("SHORTLIST %s (%d applicants)", jobID, len(results)), sb.String())
}

func columnWidth(label string) int {
	return max(len(label), 5)
}
