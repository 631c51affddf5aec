package comparison

import (
	"errors"

	"gitlab.com/akita/simcmp/align"
	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/metrics"
	"gitlab.com/akita/simcmp/profiler"
	"gitlab.com/akita/simcmp/report"
	"gitlab.com/akita/simcmp/trace"
)

// ErrorKind classifies why a run failed.
type ErrorKind string

// Failure kinds of a run.
const (
	KindNone              ErrorKind = ""
	KindPathMissing       ErrorKind = "PathMissing"
	KindAddressNotFound   ErrorKind = "AddressNotFound"
	KindAnchorNotExecuted ErrorKind = "AnchorNotExecuted"
	KindInvertedWindow    ErrorKind = "InvertedWindow"
	KindMalformedLine     ErrorKind = "MalformedLine"
	KindUnknownStage      ErrorKind = "UnknownStage"
	KindMissingTiming     ErrorKind = "MissingTiming"
	KindTimingOverrun     ErrorKind = "TimingOverrun"
	KindDivisionByZero    ErrorKind = "DivisionByZero"
	KindIO                ErrorKind = "IO"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrPathMissing, KindPathMissing},
	{disasm.ErrAddressNotFound, KindAddressNotFound},
	{align.ErrAnchorNotExecuted, KindAnchorNotExecuted},
	{align.ErrInvertedWindow, KindInvertedWindow},
	{trace.ErrMalformedLine, KindMalformedLine},
	{trace.ErrUnknownStage, KindUnknownStage},
	{trace.ErrMissingTiming, KindMissingTiming},
	{trace.ErrTimingOverrun, KindTimingOverrun},
	{metrics.ErrDivisionByZero, KindDivisionByZero},
}

// KindOf returns the kind of err. Errors outside the taxonomy are IO.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindIO
}

// Result is the outcome of one run. A failed run keeps the metrics that
// were computed before the failure.
type Result struct {
	RunID     string    `json:"run_id"`
	Job       Job       `json:"job"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	InstructionCount int  `json:"instruction_count"`
	RefInstructions  int  `json:"ref_instructions"`
	CandInstructions int  `json:"cand_instructions"`
	LengthMismatch   bool `json:"length_mismatch"`

	SumDiff    int64   `json:"sum_diff"`
	AbsSumDiff int64   `json:"abs_sum_diff"`
	MeanDiff   float64 `json:"mean_diff"`
	StdDiff    float64 `json:"std_diff"`
	AvgAbsDiff float64 `json:"avg_abs_diff"`
	Divergent  int     `json:"divergent"`

	CPIReference    float64 `json:"cpi_reference"`
	CPICandidate    float64 `json:"cpi_candidate"`
	CPIRatio        float64 `json:"cpi_ratio"`
	CPIErrorPercent float64 `json:"cpi_error_percent"`

	Totals            []metrics.Total `json:"totals,omitempty"`
	IntervalErrorMean float64         `json:"interval_error_mean"`
	IntervalErrorStd  float64         `json:"interval_error_std"`

	Classes      map[string]*profiler.ClassFeature `json:"classes,omitempty"`
	TopMnemonics []profiler.MnemonicCount          `json:"top_mnemonics,omitempty"`
	Phases       map[string]float64                `json:"phases"`
	WallTime     float64                           `json:"walltime"`

	ReportPath  string `json:"report_path,omitempty"`
	SummaryPath string `json:"summary_path,omitempty"`

	metrics *metrics.Result
}

// Metrics returns the full metrics of the run, nil if none were computed.
func (r *Result) Metrics() *metrics.Result {
	return r.metrics
}

func (r *Result) fail(err error) *Result {
	r.OK = false
	r.Error = err.Error()
	r.ErrorKind = KindOf(err)
	return r
}

func (r *Result) setMetrics(m *metrics.Result) {
	if m == nil {
		return
	}

	r.metrics = m
	r.InstructionCount = m.InstructionCount
	r.RefInstructions = m.RefInstructions
	r.CandInstructions = m.CandInstructions
	r.LengthMismatch = m.LengthMismatch
	r.SumDiff = m.SumDiff
	r.AbsSumDiff = m.AbsSumDiff
	r.MeanDiff = m.MeanDiff
	r.StdDiff = m.StdDiff
	r.AvgAbsDiff = m.AvgAbsDiff
	r.Divergent = m.Divergent
	r.CPIReference = m.CPIRef
	r.CPICandidate = m.CPICand
	r.CPIRatio = m.CPIRatio
	r.CPIErrorPercent = m.ErrorPercent
	r.Totals = m.Totals
	r.IntervalErrorMean = m.IntervalErrorMean
	r.IntervalErrorStd = m.IntervalErrorStd
}

// MatrixRow summarizes the run for the matrix overview.
func (r *Result) MatrixRow() report.MatrixRow {
	row := report.MatrixRow{
		Arch:         r.Job.Arch,
		VLEN:         r.Job.VLEN,
		LaneWidth:    r.Job.LaneWidth,
		Target:       r.Job.Target,
		OK:           r.OK,
		CPIRef:       r.CPIReference,
		CPICand:      r.CPICandidate,
		ErrorPercent: r.CPIErrorPercent,
		AbsSumDiff:   r.AbsSumDiff,
		AvgAbsDiff:   r.AvgAbsDiff,
	}

	switch {
	case !r.OK:
		row.Note = string(r.ErrorKind)
	case r.LengthMismatch:
		row.Note = "LengthMismatch"
	}
	return row
}
