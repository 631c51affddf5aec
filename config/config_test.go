package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/simcmp/comparison"
	"gitlab.com/akita/simcmp/config"
	"gitlab.com/akita/simcmp/timing/stage"
)

var _ = Describe("Config", func() {
	var cfg config.Config

	BeforeEach(func() {
		cfg = config.Defaults()
	})

	It("should accept the defaults", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Metrics.Threshold).To(Equal(int64(10)))
		Expect(cfg.Stages.Selection).To(Equal(stage.DefaultSelection()))
	})

	It("should override only the keys in the file", func() {
		src := strings.Join([]string{
			"[Metrics]",
			"Threshold = 4",
			"",
			"[Matrix]",
			"VLENs = [128, 256]",
			"Workers = 2",
			"",
			"[Stages.Selection]",
			`LongVector = "V_WB_stage"`,
		}, "\n")

		Expect(config.Decode(strings.NewReader(src), &cfg)).To(Succeed())

		Expect(cfg.Metrics.Threshold).To(Equal(int64(4)))
		Expect(cfg.Metrics.Interval).To(Equal(100))
		Expect(cfg.Matrix.VLENs).To(Equal([]int{128, 256}))
		Expect(cfg.Matrix.Workers).To(Equal(2))
		Expect(cfg.Stages.Selection.LongVector).To(Equal(stage.VWB))
		Expect(cfg.Stages.Selection.Scalar).To(Equal(stage.EX))
	})

	It("should reject unknown fields", func() {
		err := config.Decode(strings.NewReader("[Metrics]\nTreshold = 4\n"), &cfg)
		Expect(err).To(MatchError(ContainSubstring("Treshold")))
	})

	It("should fail on a value of the wrong type", func() {
		dir, err := os.MkdirTemp("", "config")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path := filepath.Join(dir, "simcmp.toml")
		Expect(os.WriteFile(path, []byte("[Metrics]\nThreshold = \"x\"\n"), 0644)).To(Succeed())

		Expect(config.Load(path, &cfg)).NotTo(Succeed())
	})

	It("should dump the configuration", func() {
		var buf bytes.Buffer
		Expect(config.Dump(&buf, cfg)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("[Metrics]"))
		Expect(buf.String()).To(ContainSubstring("Threshold = 10"))
		Expect(buf.String()).To(ContainSubstring("address_match_start"))
	})

	It("should dump the effective class tables", func() {
		cfg.Stages.ShortInsts = []string{"vmv_v_v", "vadd_vv"}

		var buf bytes.Buffer
		Expect(config.Dump(&buf, cfg)).To(Succeed())

		var back config.Config
		Expect(config.Decode(&buf, &back)).To(Succeed())
		Expect(back.Stages.ShortInsts).To(Equal([]string{"vadd_vv", "vmv_v_v"}))
		Expect(back.Stages.LongInsts).To(Equal(stage.Default().Members(stage.LongVectorSignal)))
		Expect(back.Stages.VsetInsts).NotTo(BeEmpty())
	})

	It("should reject bad values", func() {
		cfg.Metrics.Threshold = -1
		Expect(cfg.Validate()).To(HaveOccurred())

		cfg = config.Defaults()
		cfg.Matrix.VLENs = []int{96}
		Expect(cfg.Validate()).To(MatchError("illegal VLEN 96"))

		cfg = config.Defaults()
		cfg.Matrix.Archs = []string{"rv64gc"}
		Expect(cfg.Validate()).To(MatchError("illegal arch rv64gc"))

		cfg = config.Defaults()
		cfg.Anchors.End = cfg.Anchors.Start
		Expect(cfg.Validate()).To(HaveOccurred())

		cfg = config.Defaults()
		cfg.Stages.Selection.Scalar = ""
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should reject overlapping class lists", func() {
		cfg.Stages.LongInsts = []string{"vadd_vv"}
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should build a custom classifier", func() {
		cfg.Stages.LongInsts = []string{"vle32_v", "vredsum_vs"}
		cfg.Stages.ShortInsts = []string{"vadd_vv"}

		c, err := cfg.Classifier()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Classify("vredsum_vs")).To(Equal(stage.LongVectorSignal))
		Expect(c.Classify("vsetvli")).To(Equal(stage.VectorConfig))
		Expect(c.Classify("vmul_vv")).To(Equal(stage.Scalar))
	})
})

var _ = Describe("Matrix", func() {
	It("should keep only legal lane widths", func() {
		Expect(config.LegalLane(64, 32)).To(BeTrue())
		Expect(config.LegalLane(64, 64)).To(BeFalse())
		Expect(config.LegalLane(256, 128)).To(BeTrue())
		Expect(config.LegalLane(256, 256)).To(BeFalse())
		Expect(config.LegalLane(1024, 16)).To(BeFalse())
	})

	It("should expand the matrix in order", func() {
		m := config.MatrixConfig{
			Archs:   []string{"rv32im_zve32x"},
			VLENs:   []int{64, 128},
			Lanes:   []int{32, 64},
			Targets: []string{"a", "b"},
			Workers: 1,
		}

		Expect(m.Jobs()).To(Equal([]comparison.Job{
			{Arch: "rv32im_zve32x", VLEN: 64, LaneWidth: 32, Target: "a"},
			{Arch: "rv32im_zve32x", VLEN: 64, LaneWidth: 32, Target: "b"},
			{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 32, Target: "a"},
			{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 32, Target: "b"},
			{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 64, Target: "a"},
			{Arch: "rv32im_zve32x", VLEN: 128, LaneWidth: 64, Target: "b"},
		}))
	})
})
