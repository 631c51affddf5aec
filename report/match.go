// Package report renders comparison results: the per instruction match
// report, JSON summaries and the matrix overview table.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"gitlab.com/akita/simcmp/align"
	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/metrics"
)

const (
	longDash  = 153
	shortDash = 39
)

// Match is everything the match report shows.
type Match struct {
	Result *metrics.Result

	// Stages are the candidate stage columns printed per row.
	Stages []string

	// Boundary listings, nil when not captured.
	Initial  *align.Boundary
	Trailing *align.Boundary

	// Symbol tables used to annotate boundary listings. Either may be nil.
	CandSymbols *disasm.SymbolTable
	RefSymbols  *disasm.SymbolTable
}

// MatchPath returns where the match report of a run is stored.
func MatchPath(dir, arch string, vlen, lane int, target string) string {
	return filepath.Join(dir, "match", arch,
		fmt.Sprintf("zvl%db", vlen),
		fmt.Sprintf("vlane%d", lane),
		fmt.Sprintf("match_%s.txt", target))
}

// WriteMatchFile writes the report to path, creating its directory.
func WriteMatchFile(path string, m Match) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = WriteMatch(f, m)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteMatch renders the report.
func WriteMatch(w io.Writer, m Match) error {
	out := bufio.NewWriter(w)

	if m.Initial != nil && m.Initial.Len() > 0 {
		fmt.Fprintln(out, "Initial:")
		writeBoundary(out, *m.Initial, m.CandSymbols, m.RefSymbols)
	}

	fmt.Fprintln(out, "Matching:")
	dash(out, longDash)
	writeHeader(out, m.Stages)
	dash(out, longDash)
	for _, row := range m.Result.Rows {
		writeRow(out, row, m.Stages)
	}
	dash(out, longDash)
	writeSummary(out, m.Result)
	dash(out, longDash)

	if m.Trailing != nil && m.Trailing.Len() > 0 {
		fmt.Fprintln(out, "Trailing:")
		writeBoundary(out, *m.Trailing, m.CandSymbols, m.RefSymbols)
	}

	return out.Flush()
}

func dash(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("-", n))
}

func writeHeader(w io.Writer, stages []string) {
	fmt.Fprint(w, "PC E     | Instr E    | Asm E    | Instr V    | Asm V    | "+
		"Delta ETISS | Delta RTL   | Diff E - V  | ")
	width := stageWidth(stages)
	for _, name := range stages {
		fmt.Fprintf(w, "%-*s| ", width+15, name)
	}
	fmt.Fprintln(w, "Cycles V        | Markers")
}

func writeRow(w io.Writer, row metrics.Row, stages []string) {
	fmt.Fprintf(w, "%08x | %-10s | %08x | %-10s | %08x | dE: %7d | dV: %7d | Diff: %5d |",
		row.Cand.PC, row.Cand.Mnemonic, row.Cand.Raw,
		row.Ref.Mnemonic, row.Ref.Raw,
		row.DeltaCand, row.DeltaRef, row.Diff)

	width := stageWidth(stages)
	for _, name := range stages {
		v, found := row.Cand.Stages.Get(name)
		if found {
			fmt.Fprintf(w, " %-*s %13d |", width+1, name+":", v)
		} else {
			fmt.Fprintf(w, " %-*s %13s |", width+1, name+":", "-")
		}
	}

	fmt.Fprintf(w, " Cyc V: %8d |", row.Ref.Cycle)
	if markers := row.Anomalies.Markers(); markers != "" {
		fmt.Fprint(w, " ", markers)
	}
	fmt.Fprintln(w)
}

func stageWidth(stages []string) int {
	width := 0
	for _, s := range stages {
		if len(s) > width {
			width = len(s)
		}
	}
	return width
}

func writeSummary(w io.Writer, r *metrics.Result) {
	for _, t := range r.Totals {
		fmt.Fprintf(w, "ETISS %s cycles: %d | RTL cycles: %d | Diff: %d\n",
			t.Stage, t.Cand, t.Ref, t.Diff)
	}
	fmt.Fprintf(w, "Instructions: %d (RTL %d, ETISS %d)",
		r.InstructionCount, r.RefInstructions, r.CandInstructions)
	if r.LengthMismatch {
		fmt.Fprint(w, " (L!)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sum of differences: %d | Absolute sum of differences: %d | "+
		"Average difference per instruction: %.4f | Divergent: %d\n",
		r.SumDiff, r.AbsSumDiff, r.AvgAbsDiff, r.Divergent)
	fmt.Fprintf(w, "CPI ETISS: %.4f | CPI RTL: %.4f | Ratio: %.4f | Error: %.4f%%\n",
		r.CPICand, r.CPIRef, r.CPIRatio, r.ErrorPercent)
	if len(r.Intervals) > 1 {
		fmt.Fprintf(w, "Interval error: mean %.4f%% | std %.4f%% over %d intervals\n",
			r.IntervalErrorMean, r.IntervalErrorStd, len(r.Intervals))
	}
	for _, row := range r.Worst {
		fmt.Fprintf(w, "Worst: #%d %08x %s | dE: %d | dV: %d | Diff: %d\n",
			row.Index, row.Cand.PC, row.Cand.Mnemonic,
			row.DeltaCand, row.DeltaRef, row.Diff)
	}
}

func writeBoundary(w io.Writer, b align.Boundary, candSyms, refSyms *disasm.SymbolTable) {
	dash(w, shortDash)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ETISS", "", "Verilator", ""})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i := 0; i < b.Len(); i++ {
		c, r := b.Cand[i], b.Ref[i]
		table.Append([]string{
			entryText(c), symbolText(c, candSyms),
			entryText(r), symbolText(r, refSyms),
		})
	}
	table.Render()
	dash(w, shortDash)
}

func entryText(e align.Entry) string {
	if e.Filler {
		return e.Mnemonic
	}
	return fmt.Sprintf("%-8s: %08x", e.Mnemonic, e.Raw)
}

func symbolText(e align.Entry, syms *disasm.SymbolTable) string {
	if e.Filler || syms == nil {
		return ""
	}
	return syms.Describe(e.PC)
}
