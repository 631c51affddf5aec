package metrics

import (
	"gonum.org/v1/gonum/stat"

	"gitlab.com/akita/simcmp/align"
	"gitlab.com/akita/simcmp/trace"
)

// Interval is the CPI of both traces over a run of consecutive paired
// instructions.
type Interval struct {
	First int
	Count int

	CPIRef       float64
	CPICand      float64
	ErrorPercent float64

	// Valid is false when the reference did not advance, leaving the
	// error undefined.
	Valid bool
}

func (r *Result) computeIntervals(
	ref, cand *trace.Trace,
	p align.Pair,
	cols []int,
	size int,
) {
	var errs []float64

	for first := 0; first < p.Length; first += size {
		count := size
		if first+count > p.Length {
			count = p.Length - first
		}

		last := first + count - 1
		rs, re := p.RefIndex(first)-1, p.RefIndex(last)
		cs, ce := p.CandIndex(first)-1, p.CandIndex(last)

		iv := Interval{
			First:   first,
			Count:   count,
			CPIRef:  float64(ref.Steps[re].Cycle-ref.Steps[rs].Cycle) / float64(count),
			CPICand: float64(elapsed(cand, cs, ce, cols)) / float64(count),
		}
		if iv.CPIRef != 0 {
			iv.ErrorPercent = (iv.CPICand/iv.CPIRef - 1) * 100
			iv.Valid = true
			errs = append(errs, iv.ErrorPercent)
		}

		r.Intervals = append(r.Intervals, iv)
	}

	if len(errs) > 0 {
		r.IntervalErrorMean = stat.Mean(errs, nil)
	}
	if len(errs) > 1 {
		r.IntervalErrorStd = stat.StdDev(errs, nil)
	}
}
