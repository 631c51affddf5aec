package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/timing/stage"
)

// CandidateFormat describes the ETISS instruction log layout.
type CandidateFormat struct {
	PCField       int
	MnemonicField int
	RawField      int

	// Characters cut off the PC token before parsing it as hex.
	PCTrimLeft  int
	PCTrimRight int

	// TimingOffset pairs log entry i+TimingOffset with timing row i. A
	// positive offset means the log starts with entries that have no timing
	// row. A negative offset inserts that many placeholder steps in front
	// of the log, for logs that omit instructions the timing table has.
	TimingOffset int

	// SyntheticMnemonic names the inserted placeholder steps.
	SyntheticMnemonic string
}

// DefaultCandidateFormat reads the PC as 0x-prefixed hex from field 0, the
// mnemonic from field 2 and the binary instruction word from field 4. The
// first log entry has no timing row.
func DefaultCandidateFormat() CandidateFormat {
	return CandidateFormat{
		PCField:           0,
		MnemonicField:     2,
		RawField:          4,
		PCTrimLeft:        2,
		PCTrimRight:       0,
		TimingOffset:      1,
		SyntheticMnemonic: "auipc",
	}
}

// Validate checks the field layout.
func (f CandidateFormat) Validate() error {
	if f.PCField < 0 || f.MnemonicField < 0 || f.RawField < 0 {
		return fmt.Errorf("negative field index")
	}
	if f.PCTrimLeft < 0 || f.PCTrimRight < 0 {
		return fmt.Errorf("negative pc trim")
	}
	return nil
}

func (f CandidateFormat) minFields() int {
	n := f.PCField
	if f.MnemonicField > n {
		n = f.MnemonicField
	}
	if f.RawField > n {
		n = f.RawField
	}
	return n + 1
}

// CandidateReader parses an ETISS instruction log together with its
// timing table. Each step's cycle comes from the stage column that the
// selection assigns to the step's latency class.
type CandidateReader struct {
	format     CandidateFormat
	classifier *stage.Classifier
	selection  stage.Selection
	anchors    disasm.Anchors
	annotated  io.Writer
	verbose    bool
}

// NewCandidateReader creates a reader with the default format and stage
// selection.
func NewCandidateReader(anchors disasm.Anchors) CandidateReader {
	return CandidateReader{
		format:     DefaultCandidateFormat(),
		classifier: stage.Default(),
		selection:  stage.DefaultSelection(),
		anchors:    anchors,
	}
}

// WithFormat sets the log layout.
func (r CandidateReader) WithFormat(f CandidateFormat) CandidateReader {
	r.format = f
	return r
}

// WithClassifier sets the latency classifier.
func (r CandidateReader) WithClassifier(c *stage.Classifier) CandidateReader {
	r.classifier = c
	return r
}

// WithSelection sets the commit stage per class.
func (r CandidateReader) WithSelection(s stage.Selection) CandidateReader {
	r.selection = s
	return r
}

// WithAnnotation writes a copy of the log with the binary instruction word
// rewritten as hex to w.
func (r CandidateReader) WithAnnotation(w io.Writer) CandidateReader {
	r.annotated = w
	return r
}

// WithVerbose logs where the anchors matched.
func (r CandidateReader) WithVerbose(verbose bool) CandidateReader {
	r.verbose = verbose
	return r
}

// ReadFiles reads the instruction log and timing table from disk.
func (r CandidateReader) ReadFiles(logPath, timingPath string) (*Trace, error) {
	logFile, err := os.Open(logPath)
	if err != nil {
		return nil, err
	}
	defer logFile.Close()

	t, err := r.readLog(logFile, logPath)
	if err != nil {
		return nil, err
	}
	t.Path = logPath

	table, err := ReadTimingTableFile(timingPath)
	if err != nil {
		return nil, err
	}

	if err := r.applyTiming(t, table); err != nil {
		return nil, fmt.Errorf("%s: %w", timingPath, err)
	}
	return t, nil
}

// Read reads the instruction log and the timing table.
func (r CandidateReader) Read(log, timing io.Reader) (*Trace, error) {
	t, err := r.readLog(log, "")
	if err != nil {
		return nil, err
	}

	table, err := ReadTimingTable(timing)
	if err != nil {
		return nil, err
	}

	if err := r.applyTiming(t, table); err != nil {
		return nil, err
	}
	return t, nil
}

func (r CandidateReader) readLog(in io.Reader, path string) (*Trace, error) {
	if err := r.format.Validate(); err != nil {
		return nil, err
	}

	t := &Trace{Name: "ETISS"}
	for i := 0; i < -r.format.TimingOffset; i++ {
		t.Steps = append(t.Steps, Step{Mnemonic: r.format.SyntheticMnemonic})
	}

	var out *bufio.Writer
	if r.annotated != nil {
		out = bufio.NewWriter(r.annotated)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		step, err := r.parseStep(fields)
		if err != nil {
			return nil, &LineError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		t.mark(len(t.Steps), step.PC, r.anchors, r.verbose)
		t.Steps = append(t.Steps, step)

		if out != nil {
			fields[r.format.RawField] = fmt.Sprintf("%08x", step.Raw)
			fmt.Fprintln(out, strings.Join(fields, " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if out != nil {
		if err := out.Flush(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (r CandidateReader) parseStep(fields []string) (Step, error) {
	f := r.format
	if len(fields) < f.minFields() {
		return Step{}, fmt.Errorf("%d fields, need %d", len(fields), f.minFields())
	}

	pcTok := fields[f.PCField]
	if len(pcTok) <= f.PCTrimLeft+f.PCTrimRight {
		return Step{}, fmt.Errorf("pc %q too short", pcTok)
	}
	pc, err := strconv.ParseUint(pcTok[f.PCTrimLeft:len(pcTok)-f.PCTrimRight], 16, 64)
	if err != nil {
		return Step{}, fmt.Errorf("pc %q", pcTok)
	}

	raw, err := strconv.ParseUint(strings.TrimPrefix(fields[f.RawField], "0b"), 2, 32)
	if err != nil {
		return Step{}, fmt.Errorf("instruction %q", fields[f.RawField])
	}

	return Step{
		PC:       pc,
		Raw:      uint32(raw),
		Mnemonic: fields[f.MnemonicField],
	}, nil
}

func (r CandidateReader) applyTiming(t *Trace, table *TimingTable) error {
	columns := make(map[stage.Class]int, len(stage.Classes))
	for _, c := range stage.Classes {
		cols, err := table.Columns(r.selection.Stage(c))
		if err != nil {
			return err
		}
		columns[c] = cols[0]
	}

	first := r.format.TimingOffset
	if first < 0 {
		first = 0
	}
	if first+len(table.Rows) > len(t.Steps) {
		return fmt.Errorf("%w: %d rows from step %d, %d steps",
			ErrTimingOverrun, len(table.Rows), first, len(t.Steps))
	}

	t.Layout = table.Layout
	previous := int64(0)
	for i, row := range table.Rows {
		step := &t.Steps[first+i]
		class := r.classifier.Classify(step.Mnemonic)

		step.Cycle = row[columns[class]]
		step.Delta = step.Cycle - previous
		step.Stages = NewSnapshot(table.Layout, row)
		previous = step.Cycle
	}

	return nil
}
