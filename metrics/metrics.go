// Package metrics compares the per instruction timing of the aligned
// windows and derives CPI figures for both traces.
package metrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"gitlab.com/akita/simcmp/align"
	"gitlab.com/akita/simcmp/timing/stage"
	"gitlab.com/akita/simcmp/trace"
)

// ErrDivisionByZero is returned instead of producing an undefined CPI or
// ratio.
var ErrDivisionByZero = errors.New("division by zero")

// Options tune the metric computation.
type Options struct {
	// Threshold on |diff| above which a row diverges.
	Threshold int64

	// CPIStages are the candidate stage columns considered for the
	// candidate CPI. Empty means every column of the timing table.
	CPIStages []string

	// TotalStages are the candidate stages whose elapsed cycles are
	// reported next to the reference total.
	TotalStages []string

	// Interval is the instruction count of one windowed CPI sample. 0
	// disables the series.
	Interval int

	// TopK is the number of worst rows kept. 0 disables.
	TopK int
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{
		Threshold:   10,
		TotalStages: []string{stage.WB, stage.VDisp},
		Interval:    100,
		TopK:        10,
	}
}

// Total compares the elapsed cycles of one candidate stage against the
// reference counter.
type Total struct {
	Stage string `json:"stage"`
	Cand  int64  `json:"cand"`
	Ref   int64  `json:"ref"`
	Diff  int64  `json:"diff"`
}

// Result holds the comparison of one pair of traces. When Compute fails
// part way, the fields computed so far are kept.
type Result struct {
	Rows []Row

	InstructionCount int
	RefInstructions  int
	CandInstructions int
	LengthMismatch   bool

	SumDiff    int64
	AbsSumDiff int64
	MeanDiff   float64
	StdDiff    float64
	AvgAbsDiff float64
	Divergent  int

	CPIRef       float64
	CPICand      float64
	CPIRatio     float64
	ErrorPercent float64

	Totals []Total

	Intervals         []Interval
	IntervalErrorMean float64
	IntervalErrorStd  float64

	Worst []Row
}

// Compute derives all metrics over the aligned pair.
func Compute(ref, cand *trace.Trace, p align.Pair, opts Options) (*Result, error) {
	r := &Result{
		InstructionCount: p.Length,
		RefInstructions:  p.Ref.Len(),
		CandInstructions: p.Cand.Len(),
		LengthMismatch:   p.LengthMismatch,
	}

	if err := checkTimed(cand, p.Cand.Start, p.Cand.End); err != nil {
		return r, err
	}

	r.computeRows(ref, cand, p, opts)

	cols, err := cpiColumns(cand, opts.CPIStages)
	if err != nil {
		return r, err
	}

	r.computeTotals(ref, cand, p, opts.TotalStages)

	if err := r.computeCPI(ref, cand, p, cols); err != nil {
		return r, err
	}

	if opts.Interval > 0 {
		r.computeIntervals(ref, cand, p, cols, opts.Interval)
	}

	return r, nil
}

func checkTimed(t *trace.Trace, first, last int) error {
	for i := first; i <= last; i++ {
		if !t.Steps[i].Timed() {
			return fmt.Errorf("%s step %d: %w", t.Name, i, trace.ErrMissingTiming)
		}
	}
	return nil
}

func (r *Result) computeRows(ref, cand *trace.Trace, p align.Pair, opts Options) {
	var worst *FixedNumQueueImpl
	if opts.TopK > 0 {
		worst = NewFixedNumQueue(opts.TopK)
	}

	diffs := make([]float64, 0, p.Length)
	r.Rows = make([]Row, p.Length)
	for i := 0; i < p.Length; i++ {
		rs := ref.Steps[p.RefIndex(i)]
		cs := cand.Steps[p.CandIndex(i)]

		row := Row{
			Index:     i,
			RefIndex:  p.RefIndex(i),
			CandIndex: p.CandIndex(i),
			Ref:       rs,
			Cand:      cs,
			DeltaRef:  rs.Delta,
			DeltaCand: cs.Delta,
			Diff:      cs.Delta - rs.Delta,
			Anomalies: classify(rs, cs, opts.Threshold),
		}
		r.Rows[i] = row

		r.SumDiff += row.Diff
		r.AbsSumDiff += abs(row.Diff)
		if row.Anomalies.Divergent() {
			r.Divergent++
		}
		diffs = append(diffs, float64(row.Diff))

		if worst != nil && row.Diff != 0 {
			worst.Push(row)
		}
	}

	if len(diffs) > 0 {
		r.MeanDiff = stat.Mean(diffs, nil)
		r.AvgAbsDiff = float64(r.AbsSumDiff) / float64(len(diffs))
	}
	if len(diffs) > 1 {
		r.StdDiff = stat.StdDev(diffs, nil)
	}

	if worst != nil {
		for _, e := range worst.Descending() {
			r.Worst = append(r.Worst, e.(Row))
		}
	}
}

func cpiColumns(cand *trace.Trace, names []string) ([]int, error) {
	if cand.Layout == nil {
		return nil, fmt.Errorf("%s: %w", cand.Name, trace.ErrMissingTiming)
	}
	if len(names) == 0 {
		names = cand.Layout.Names()
	}

	cols := make([]int, len(names))
	for i, n := range names {
		c, found := cand.Layout.Index(n)
		if !found {
			return nil, fmt.Errorf("%w: %s", trace.ErrUnknownStage, n)
		}
		cols[i] = c
	}
	return cols, nil
}

// elapsed is the candidate cycle count between two steps: the largest
// stage advance measured from the latest stage at the first step.
func elapsed(cand *trace.Trace, from, to int, cols []int) int64 {
	start := cand.Steps[from].Stages
	end := cand.Steps[to].Stages

	baseline := start.At(cols[0])
	for _, c := range cols[1:] {
		if v := start.At(c); v > baseline {
			baseline = v
		}
	}

	longest := end.At(cols[0]) - baseline
	for _, c := range cols[1:] {
		if v := end.At(c) - baseline; v > longest {
			longest = v
		}
	}
	return longest
}

func (r *Result) computeCPI(ref, cand *trace.Trace, p align.Pair, cols []int) error {
	if p.Ref.Len() <= 0 || p.Cand.Len() <= 0 {
		return fmt.Errorf("%w: empty window", ErrDivisionByZero)
	}

	refCycles := ref.Steps[p.Ref.End].Cycle - ref.Steps[p.Ref.Start].Cycle
	r.CPIRef = float64(refCycles) / float64(p.Ref.Len())

	candCycles := elapsed(cand, p.Cand.Start, p.Cand.End, cols)
	r.CPICand = float64(candCycles) / float64(p.Cand.Len())

	if r.CPIRef == 0 {
		return fmt.Errorf("%w: reference CPI is zero", ErrDivisionByZero)
	}
	r.CPIRatio = r.CPICand / r.CPIRef
	r.ErrorPercent = (r.CPIRatio - 1) * 100

	return nil
}

func (r *Result) computeTotals(ref, cand *trace.Trace, p align.Pair, stages []string) {
	last := p.Ref.End - 1
	refTotal := ref.Steps[last].Cycle - ref.Steps[p.Ref.Start].Cycle

	for _, name := range stages {
		first, found := cand.Steps[p.Cand.Start].Stages.Get(name)
		if !found {
			continue
		}
		end, _ := cand.Steps[p.Cand.End-1].Stages.Get(name)

		r.Totals = append(r.Totals, Total{
			Stage: name,
			Cand:  end - first,
			Ref:   refTotal,
			Diff:  end - first - refTotal,
		})
	}
}
