// Package comparison runs one comparison of a reference trace against a
// candidate trace: it locates both windows, computes the metrics and writes
// the reports.
package comparison

import (
	"io"
	"os"

	"github.com/rs/xid"

	"gitlab.com/akita/simcmp/align"
	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/insts"
	"gitlab.com/akita/simcmp/metrics"
	"gitlab.com/akita/simcmp/profiler"
	"gitlab.com/akita/simcmp/report"
	"gitlab.com/akita/simcmp/timing/stage"
	"gitlab.com/akita/simcmp/trace"
	"gitlab.com/akita/simcmp/utils"
)

// Phase names recorded in Result.Phases.
const (
	PhaseAddresses = "addresses"
	PhaseReference = "reference"
	PhaseCandidate = "candidate"
	PhaseAlign     = "align"
	PhaseMetrics   = "metrics"
	PhaseReport    = "report"
)

// A Comparator runs jobs. It keeps no state between runs and can be used
// from several goroutines.
type Comparator struct {
	layout     Layout
	startLabel string
	endLabel   string

	decoder    insts.Decoder
	classifier *stage.Classifier
	selection  stage.Selection
	format     trace.CandidateFormat
	options    metrics.Options
	printed    []string

	initial  bool
	trailing bool
	annotate bool
	summary  bool
	verbose  bool

	console *utils.Console
}

// Run compares the traces of one job. Failures are reported in the
// result, never returned.
func (c *Comparator) Run(job Job) *Result {
	res := &Result{
		RunID: xid.New().String(),
		Job:   job,
	}
	walltime := profiler.NewWallTime()
	res.Phases = walltime.Phases

	c.console.Title("Analyzing %s (%s)", job.Target, job.String())

	paths := c.layout.Expand(job)
	if err := paths.Check(); err != nil {
		c.console.Error("check_path", "%v", err)
		return res.fail(err)
	}

	var refAnchors, candAnchors disasm.Anchors
	var refListing, candListing *disasm.Listing
	err := walltime.Measure(PhaseAddresses, func() error {
		var err error
		refAnchors, refListing, err = disasm.LocateAnchors(paths.RefDump, c.startLabel, c.endLabel)
		if err != nil {
			return err
		}
		candAnchors, candListing, err = disasm.LocateAnchors(paths.CandDump, c.startLabel, c.endLabel)
		return err
	})
	if err != nil {
		c.console.Error("AddressMatcher", "%v", err)
		return res.fail(err)
	}
	c.console.Info("AddressMatcher", "RTL Start Address: %s", refAnchors.Start)
	c.console.Info("AddressMatcher", "RTL End Address: %s", refAnchors.End)
	c.console.Info("AddressMatcher", "ETISS Start Address: %s", candAnchors.Start)
	c.console.Info("AddressMatcher", "ETISS End Address: %s", candAnchors.End)

	var ref, cand *trace.Trace
	err = walltime.Measure(PhaseReference, func() error {
		return c.annotated(paths.RefAnnotated, func(w io.Writer) error {
			r := trace.NewReferenceReader(c.decoder, refAnchors).WithVerbose(c.verbose)
			if w != nil {
				r = r.WithAnnotation(w)
			}
			var err error
			ref, err = r.ReadFile(paths.RefTrace)
			return err
		})
	})
	if err != nil {
		c.console.Error("Trace", "%v", err)
		return res.fail(err)
	}

	err = walltime.Measure(PhaseCandidate, func() error {
		return c.annotated(paths.CandAnnotated, func(w io.Writer) error {
			r := trace.NewCandidateReader(candAnchors).
				WithFormat(c.format).
				WithClassifier(c.classifier).
				WithSelection(c.selection).
				WithVerbose(c.verbose)
			if w != nil {
				r = r.WithAnnotation(w)
			}
			var err error
			cand, err = r.ReadFiles(paths.CandLog, paths.CandTiming)
			return err
		})
	})
	if err != nil {
		c.console.Error("Trace", "%v", err)
		return res.fail(err)
	}

	var pair align.Pair
	err = walltime.Measure(PhaseAlign, func() error {
		var err error
		pair, err = align.Align(ref, cand)
		return err
	})
	if err != nil {
		c.console.Error("AddressMatcher", "%v", err)
		return res.fail(err)
	}
	if pair.LengthMismatch {
		c.console.Warn("AddressMatcher", "RTL and ETISS instructions not equal!")
	}
	c.console.Info("AddressMatcher", "Verilator: (%d, %d): %d Instructions",
		pair.Ref.Start, pair.Ref.End, pair.Ref.Len())
	c.console.Info("AddressMatcher", "ETISS: (%d, %d): %d Instructions",
		pair.Cand.Start, pair.Cand.End, pair.Cand.Len())

	var m *metrics.Result
	err = walltime.Measure(PhaseMetrics, func() error {
		var err error
		m, err = metrics.Compute(ref, cand, pair, c.options)
		return err
	})
	res.setMetrics(m)
	c.profile(res, m)
	if err != nil {
		c.console.Error("Cycles", "%v", err)
		return res.fail(err)
	}
	c.printCycles(m)

	err = walltime.Measure(PhaseReport, func() error {
		return c.writeReports(res, paths, m, ref, cand, pair, refListing, candListing)
	})
	if err != nil {
		c.console.Error("Report", "%v", err)
		return res.fail(err)
	}

	res.OK = true
	res.WallTime = walltime.Total()
	if c.verbose {
		for _, phase := range walltime.Order() {
			c.console.Info("WallTime", "%s: %.4fs", phase, res.Phases[phase])
		}
	}

	if c.summary {
		res.SummaryPath = report.SummaryPath(res.ReportPath, job.Target)
		if err := report.WriteJSONFile(res.SummaryPath, res); err != nil {
			c.console.Error("Report", "%v", err)
			return res.fail(err)
		}
	}

	c.console.Success("Report", "%s", res.ReportPath)
	return res
}

func (c *Comparator) annotated(path string, read func(w io.Writer) error) error {
	if !c.annotate {
		return read(nil)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = read(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *Comparator) profile(res *Result, m *metrics.Result) {
	if m == nil || len(m.Rows) == 0 {
		return
	}

	p := profiler.NewInstsProfiler(c.classifier)
	p.CollectAll(m)
	res.Classes = p.Classes
	res.TopMnemonics = p.Top(10)
}

func (c *Comparator) printCycles(m *metrics.Result) {
	c.console.Info("Cycles", "Sum of differences: %d", m.SumDiff)
	c.console.Info("Cycles", "Absolute sum of differences: %d", m.AbsSumDiff)
	c.console.Info("Cycles", "Average difference per instruction: %.4f", m.AvgAbsDiff)
	c.console.Info("Cycles", "CPI ETISS: %.4f, CPI RTL: %.4f", m.CPICand, m.CPIRef)
	c.console.Info("Cycles", "ETISS CPI is %.4f%% of RTL CPI", m.CPIRatio*100)
	c.console.Info("Cycles", "Error: %.4f%%", m.ErrorPercent)
}

func (c *Comparator) writeReports(
	res *Result,
	paths Paths,
	m *metrics.Result,
	ref, cand *trace.Trace,
	pair align.Pair,
	refListing, candListing *disasm.Listing,
) error {
	match := report.Match{
		Result:      m,
		Stages:      c.printed,
		CandSymbols: candListing.Symbols,
		RefSymbols:  refListing.Symbols,
	}
	if c.initial {
		b := align.Initial(ref, cand, pair)
		match.Initial = &b
	}
	if c.trailing {
		b := align.Trailing(ref, cand, pair)
		match.Trailing = &b
	}

	job := res.Job
	res.ReportPath = report.MatchPath(paths.ReportDir, job.Arch, job.VLEN, job.LaneWidth, job.Target)
	return report.WriteMatchFile(res.ReportPath, match)
}
