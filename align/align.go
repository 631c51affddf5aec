// Package align carves the anchored windows out of a reference and a
// candidate trace and pairs their instructions by position.
package align

import (
	"errors"
	"fmt"

	"github.com/pkg/math"

	"gitlab.com/akita/simcmp/trace"
)

var (
	// ErrAnchorNotExecuted is returned when a trace never reached an anchor
	// address.
	ErrAnchorNotExecuted = errors.New("anchor not executed")

	// ErrInvertedWindow is returned when the end anchor executed no later
	// than the start anchor.
	ErrInvertedWindow = errors.New("window end not after start")
)

// Window is the index range between the anchor steps of a trace. The
// instructions it counts are those after Start up to and including End,
// so the sum of their deltas is the cycle distance between the anchors.
type Window struct {
	Start int
	End   int
}

// Len returns the number of instructions in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// WindowOf derives the window from the anchor marks of a trace.
func WindowOf(t *trace.Trace) (Window, error) {
	switch {
	case !t.Start.Found && !t.End.Found:
		return Window{}, fmt.Errorf("%s: %w: start and end", t.Name, ErrAnchorNotExecuted)
	case !t.Start.Found:
		return Window{}, fmt.Errorf("%s: %w: start", t.Name, ErrAnchorNotExecuted)
	case !t.End.Found:
		return Window{}, fmt.Errorf("%s: %w: end", t.Name, ErrAnchorNotExecuted)
	}

	w := Window{Start: t.Start.Index, End: t.End.Index}
	if w.End <= w.Start {
		return w, fmt.Errorf("%s: %w: start %d, end %d",
			t.Name, ErrInvertedWindow, w.Start, w.End)
	}
	return w, nil
}

// Pair is the aligned windows of both traces. Instructions are paired by
// position from the step following each start anchor; pairing stops at
// the shorter window.
type Pair struct {
	Ref  Window
	Cand Window

	Length         int
	LengthMismatch bool
}

// RefIndex returns the reference trace index of the i-th pair.
func (p Pair) RefIndex(i int) int {
	return p.Ref.Start + 1 + i
}

// CandIndex returns the candidate trace index of the i-th pair.
func (p Pair) CandIndex(i int) int {
	return p.Cand.Start + 1 + i
}

// Align computes the windows of both traces. A length mismatch is not an
// error; it is flagged on the pair.
func Align(ref, cand *trace.Trace) (Pair, error) {
	var p Pair
	var err error

	p.Ref, err = WindowOf(ref)
	if err != nil {
		return p, err
	}
	p.Cand, err = WindowOf(cand)
	if err != nil {
		return p, err
	}

	p.Length = math.MinInt(p.Ref.Len(), p.Cand.Len())
	p.LengthMismatch = p.Ref.Len() != p.Cand.Len()

	return p, nil
}
