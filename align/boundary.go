package align

import "gitlab.com/akita/simcmp/trace"

// Entry is one instruction of a boundary listing.
type Entry struct {
	PC       uint64
	Raw      uint32
	Mnemonic string
	Filler   bool
}

// Filler pads the shorter side of a boundary listing.
var Filler = Entry{Mnemonic: "-", Filler: true}

// Boundary lists the instructions outside the windows, side by side.
type Boundary struct {
	Cand []Entry
	Ref  []Entry
}

// Len returns the number of listing rows.
func (b Boundary) Len() int {
	return len(b.Cand)
}

// Initial returns the instructions strictly before the start anchors.
func Initial(ref, cand *trace.Trace, p Pair) Boundary {
	return makeBoundary(
		entries(cand.Steps[:p.Cand.Start]),
		entries(ref.Steps[:p.Ref.Start]),
	)
}

// Trailing returns the instructions strictly after the end anchors.
func Trailing(ref, cand *trace.Trace, p Pair) Boundary {
	return makeBoundary(
		entries(after(cand.Steps, p.Cand.End)),
		entries(after(ref.Steps, p.Ref.End)),
	)
}

func makeBoundary(cand, ref []Entry) Boundary {
	cand, ref = PadToEqual(cand, ref, Filler)
	return Boundary{Cand: cand, Ref: ref}
}

func after(steps []trace.Step, index int) []trace.Step {
	if index+1 >= len(steps) {
		return nil
	}
	return steps[index+1:]
}

func entries(steps []trace.Step) []Entry {
	out := make([]Entry, len(steps))
	for i, s := range steps {
		out[i] = Entry{PC: s.PC, Raw: s.Raw, Mnemonic: s.Mnemonic}
	}
	return out
}

// PadToEqual appends filler to the shorter slice until both have the same
// length. Existing elements are never changed.
func PadToEqual[T any](a, b []T, filler T) ([]T, []T) {
	a = a[:len(a):len(a)]
	b = b[:len(b):len(b)]
	for len(a) < len(b) {
		a = append(a, filler)
	}
	for len(b) < len(a) {
		b = append(b, filler)
	}
	return a, b
}
