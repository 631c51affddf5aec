// Package trace reads the instruction traces of the reference RTL
// simulation and of the performance simulator into a common Step model.
package trace

import (
	"errors"
	"fmt"
	"log"

	"gitlab.com/akita/simcmp/disasm"
)

var (
	// ErrMalformedLine is wrapped by every LineError.
	ErrMalformedLine = errors.New("malformed line")

	// ErrUnknownStage is returned when a timing table lacks a stage column
	// that the stage selection needs.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrMissingTiming is returned when a step that needs stage counters
	// has no timing row.
	ErrMissingTiming = errors.New("missing timing")

	// ErrTimingOverrun is returned when the timing table has more rows than
	// the instruction log has instructions to pair them with.
	ErrTimingOverrun = errors.New("timing rows exceed instructions")
)

// LineError locates a parse failure in an input file.
type LineError struct {
	Path string
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d: %s: %s", path, e.Line, ErrMalformedLine, e.Msg)
}

// Unwrap lets errors.Is match ErrMalformedLine.
func (e *LineError) Unwrap() error {
	return ErrMalformedLine
}

// A Step is one executed instruction.
type Step struct {
	PC       uint64
	Raw      uint32
	Mnemonic string

	// Cycle is the cumulative cycle at which the instruction counts as
	// done, Delta the difference to the previous instruction.
	Cycle int64
	Delta int64

	// Stages holds every stage counter of the timing row. Only candidate
	// steps with a timing row have one.
	Stages Snapshot
}

// Timed tells if the step carries a timing row.
func (s Step) Timed() bool {
	return s.Stages.Valid()
}

// Mark is the first trace index at which an anchor address executed.
type Mark struct {
	Index int
	Found bool
}

// Trace is an ordered list of steps with the positions of both anchors.
type Trace struct {
	Name   string
	Path   string
	Steps  []Step
	Layout *Layout

	Start Mark
	End   Mark
}

// Len returns the number of steps.
func (t *Trace) Len() int {
	return len(t.Steps)
}

func (t *Trace) mark(index int, pc uint64, anchors disasm.Anchors, verbose bool) {
	if !t.Start.Found && anchors.Start.Matches(pc) {
		t.Start = Mark{Index: index, Found: true}
		if verbose {
			log.Printf("(AddressMatcher) Matched %s start: %d", t.Name, index)
		}
	}
	if !t.End.Found && anchors.End.Matches(pc) {
		t.End = Mark{Index: index, Found: true}
		if verbose {
			log.Printf("(AddressMatcher) Matched %s end: %d", t.Name, index)
		}
	}
}
