package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/insts"
)

const maxLineSize = 1024 * 1024

// ReferenceReader parses the Verilator trace: comma separated lines of
// "pc,instruction,cycle,delta" in hex, hex, decimal, decimal.
type ReferenceReader struct {
	decoder   insts.Decoder
	anchors   disasm.Anchors
	annotated io.Writer
	verbose   bool
}

// NewReferenceReader creates a reader that marks the given anchors.
func NewReferenceReader(decoder insts.Decoder, anchors disasm.Anchors) ReferenceReader {
	return ReferenceReader{
		decoder: decoder,
		anchors: anchors,
	}
}

// WithAnnotation writes every retained line, prefixed by its decoded
// mnemonic, to w.
func (r ReferenceReader) WithAnnotation(w io.Writer) ReferenceReader {
	r.annotated = w
	return r
}

// WithVerbose logs where the anchors matched.
func (r ReferenceReader) WithVerbose(verbose bool) ReferenceReader {
	r.verbose = verbose
	return r
}

// ReadFile reads the trace stored at path.
func (r ReferenceReader) ReadFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := r.read(f, path)
	if t != nil {
		t.Path = path
	}
	return t, err
}

// Read reads a trace from in.
func (r ReferenceReader) Read(in io.Reader) (*Trace, error) {
	return r.read(in, "")
}

func (r ReferenceReader) read(in io.Reader, path string) (*Trace, error) {
	t := &Trace{Name: "RTL"}

	var out *bufio.Writer
	if r.annotated != nil {
		out = bufio.NewWriter(r.annotated)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Split(strings.TrimSpace(line), ",")
		if len(fields) < 4 {
			continue
		}

		step, err := r.parseStep(fields)
		if err != nil {
			return nil, &LineError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		t.mark(len(t.Steps), step.PC, r.anchors, r.verbose)
		t.Steps = append(t.Steps, step)

		if out != nil {
			fmt.Fprintf(out, "%s, %s\n", step.Mnemonic, line)
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

func (r ReferenceReader) parseStep(fields []string) (Step, error) {
	pc, err := parseHex(fields[0], 64)
	if err != nil {
		return Step{}, fmt.Errorf("pc %q", fields[0])
	}
	raw, err := parseHex(fields[1], 32)
	if err != nil {
		return Step{}, fmt.Errorf("instruction %q", fields[1])
	}
	cycle, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return Step{}, fmt.Errorf("cycle %q", fields[2])
	}
	delta, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return Step{}, fmt.Errorf("delta %q", fields[3])
	}

	return Step{
		PC:       pc,
		Raw:      uint32(raw),
		Mnemonic: r.decoder.Decode(uint32(raw)).String(),
		Cycle:    cycle,
		Delta:    delta,
	}, nil
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, bits)
}
