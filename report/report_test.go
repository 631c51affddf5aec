package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/simcmp/align"
	"gitlab.com/akita/simcmp/disasm"
	"gitlab.com/akita/simcmp/metrics"
	"gitlab.com/akita/simcmp/report"
	"gitlab.com/akita/simcmp/timing/stage"
	"gitlab.com/akita/simcmp/trace"
)

func sampleResult() *metrics.Result {
	layout, err := trace.NewLayout([]string{stage.EX, stage.WB})
	Expect(err).NotTo(HaveOccurred())

	cand := trace.Step{
		PC: 0x80000010, Raw: 0x010572d7, Mnemonic: "vsetvli",
		Delta:  14,
		Stages: trace.NewSnapshot(layout, []int64{120, 121}),
	}
	ref := trace.Step{
		PC: 0x80000010, Raw: 0x010572d7, Mnemonic: "vsetvli",
		Cycle: 300, Delta: 2,
	}

	return &metrics.Result{
		Rows: []metrics.Row{{
			Ref: ref, Cand: cand,
			DeltaRef: 2, DeltaCand: 14, Diff: 12,
			Anomalies: metrics.CandSlower | metrics.OverThreshold,
		}},
		InstructionCount: 1,
		RefInstructions:  1,
		CandInstructions: 1,
		SumDiff:          12,
		AbsSumDiff:       12,
		AvgAbsDiff:       12,
		Divergent:        1,
		CPIRef:           2,
		CPICand:          14,
		CPIRatio:         7,
		ErrorPercent:     600,
		Totals: []metrics.Total{
			{Stage: stage.WB, Cand: 14, Ref: 2, Diff: 12},
		},
	}
}

var _ = Describe("Match report", func() {
	var (
		buf   *bytes.Buffer
		match report.Match
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		match = report.Match{
			Result: sampleResult(),
			Stages: []string{stage.EX, stage.WB, stage.VRes},
		}
	})

	It("should render one row per pair with markers", func() {
		Expect(report.WriteMatch(buf, match)).To(Succeed())

		out := buf.String()
		Expect(out).To(HavePrefix("Matching:\n" + strings.Repeat("-", 153) + "\n"))
		Expect(out).To(ContainSubstring("80000010 | vsetvli    | 010572d7 | vsetvli    | 010572d7 | dE:      14 | dV:       2 | Diff:    12 |"))
		Expect(out).To(ContainSubstring("EX_stage:              120 |"))
		Expect(out).To(ContainSubstring("V_RES_stage:             - |"))
		Expect(out).To(ContainSubstring("(D+!) (DT!)"))
	})

	It("should render the summary lines", func() {
		Expect(report.WriteMatch(buf, match)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("ETISS WB_stage cycles: 14 | RTL cycles: 2 | Diff: 12\n"))
		Expect(out).To(ContainSubstring("CPI ETISS: 14.0000 | CPI RTL: 2.0000 | Ratio: 7.0000 | Error: 600.0000%"))
		Expect(out).NotTo(ContainSubstring("(L!)"))
		Expect(out).NotTo(ContainSubstring("Initial:"))
	})

	It("should flag a length mismatch", func() {
		match.Result.LengthMismatch = true

		Expect(report.WriteMatch(buf, match)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("(L!)"))
	})

	It("should list boundary regions side by side", func() {
		syms := disasm.NewSymbolTable()
		syms.Add("_start", 0x80000000)
		match.Initial = &align.Boundary{
			Cand: []align.Entry{
				{PC: 0x80000000, Raw: 0x97, Mnemonic: "auipc"},
				{PC: 0x80000004, Raw: 0x93, Mnemonic: "addi"},
			},
			Ref: []align.Entry{
				{PC: 0x80000000, Raw: 0x97, Mnemonic: "auipc"},
				align.Filler,
			},
		}
		match.CandSymbols = syms

		Expect(report.WriteMatch(buf, match)).To(Succeed())

		out := buf.String()
		Expect(out).To(HavePrefix("Initial:\n"))
		Expect(out).To(ContainSubstring("auipc   : 00000097"))
		Expect(out).To(ContainSubstring("<_start+0x4>"))
		Expect(out).To(ContainSubstring("Verilator"))
		Expect(strings.Index(out, "Initial:")).To(BeNumerically("<", strings.Index(out, "Matching:")))
	})

	It("should put trailing regions last", func() {
		match.Trailing = &align.Boundary{
			Cand: []align.Entry{{PC: 0x80000040, Raw: 0x8067, Mnemonic: "jalr"}},
			Ref:  []align.Entry{align.Filler},
		}

		Expect(report.WriteMatch(buf, match)).To(Succeed())

		out := buf.String()
		Expect(strings.Index(out, "Trailing:")).To(BeNumerically(">", strings.Index(out, "CPI ETISS")))
	})
})

var _ = Describe("Paths", func() {
	It("should lay out match reports by configuration", func() {
		Expect(report.MatchPath("out", "rv32im_zve32x", 256, 64, "matmul")).
			To(Equal(filepath.Join("out", "match", "rv32im_zve32x", "zvl256b", "vlane64", "match_matmul.txt")))
	})

	It("should put the summary next to the match report", func() {
		p := report.MatchPath("out", "rv32im_zve32x", 256, 64, "matmul")

		Expect(report.SummaryPath(p, "matmul")).
			To(Equal(filepath.Join("out", "match", "rv32im_zve32x", "zvl256b", "vlane64", "summary_matmul.json")))
	})
})

var _ = Describe("Files", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "report")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	It("should create the report directory", func() {
		p := report.MatchPath(dir, "rv32imf_zve32f", 128, 32, "conv")

		Expect(report.WriteMatchFile(p, report.Match{Result: sampleResult()})).To(Succeed())

		data, err := os.ReadFile(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("Matching:"))
	})

	It("should dump JSON", func() {
		p := filepath.Join(dir, "a", "summary.json")

		Expect(report.WriteJSONFile(p, map[string]int{"insts_num": 3})).To(Succeed())

		data, _ := os.ReadFile(p)
		var v map[string]int
		Expect(json.Unmarshal(data, &v)).To(Succeed())
		Expect(v["insts_num"]).To(Equal(3))
	})
})

var _ = Describe("Matrix table", func() {
	It("should render successful and failed runs", func() {
		buf := new(bytes.Buffer)

		report.WriteMatrix(buf, []report.MatrixRow{
			{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 32, Target: "matmul",
				OK: true, CPIRef: 2, CPICand: 2.2, ErrorPercent: 10, AbsSumDiff: 40, AvgAbsDiff: 0.4},
			{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 64, Target: "conv",
				Note: "PathMissing"},
		})

		out := buf.String()
		Expect(out).To(ContainSubstring("matmul"))
		Expect(out).To(ContainSubstring("+10.00"))
		Expect(out).To(ContainSubstring("PathMissing"))
	})
})
