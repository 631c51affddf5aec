package stage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/simcmp/timing/stage"
)

var _ = Describe("Classifier", func() {
	var classifier *stage.Classifier

	BeforeEach(func() {
		classifier = stage.Default()
	})

	It("should classify vector configuration", func() {
		for _, m := range []string{"vsetvl", "vsetvli", "vsetivli"} {
			Expect(classifier.Classify(m)).To(Equal(stage.VectorConfig))
		}
	})

	It("should classify long latency vector ops", func() {
		for _, m := range []string{"vle32_v", "vse8_u", "vl8r_v", "vcpop_m", "vfirst_m", "vmv_x_s", "vcompress_vm"} {
			Expect(classifier.Classify(m)).To(Equal(stage.LongVectorSignal), m)
		}
	})

	It("should classify short latency vector ops", func() {
		for _, m := range []string{"vadd_vv", "vmv_v_x", "vmerge_vim", "vsext_vf2", "vredsum_vs", "vmv_s_x", "vnsrl_wi"} {
			Expect(classifier.Classify(m)).To(Equal(stage.ShortVectorSignal), m)
		}
	})

	It("should fall back to scalar", func() {
		Expect(classifier.Classify("addi")).To(Equal(stage.Scalar))
		Expect(classifier.Classify("")).To(Equal(stage.Scalar))
		Expect(classifier.Classify("unknown")).To(Equal(stage.Scalar))
	})

	It("should be deterministic", func() {
		for i := 0; i < 10; i++ {
			Expect(classifier.Classify("vle16_v")).To(Equal(stage.LongVectorSignal))
		}
	})

	It("should keep the classes pairwise disjoint", func() {
		seen := make(map[string]stage.Class)
		for _, class := range stage.Classes {
			for _, m := range classifier.Members(class) {
				prev, found := seen[m]
				Expect(found).To(BeFalse(), "%s in %s and %s", m, prev, class)
				seen[m] = class
			}
		}
		Expect(classifier.Members(stage.Scalar)).To(BeEmpty())
	})

	It("should refuse overlapping tables", func() {
		_, err := stage.NewClassifier(
			[]string{"vsetvli"},
			[]string{"vle32_v"},
			[]string{"vadd_vv", "vle32_v"},
		)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Selection", func() {
	It("should pick the default commit stages", func() {
		sel := stage.DefaultSelection()

		Expect(sel.Stage(stage.VectorConfig)).To(Equal(stage.OffIQ))
		Expect(sel.Stage(stage.ShortVectorSignal)).To(Equal(stage.OffSig))
		Expect(sel.Stage(stage.LongVectorSignal)).To(Equal(stage.VEX))
		Expect(sel.Stage(stage.Scalar)).To(Equal(stage.EX))
	})

	It("should list distinct columns", func() {
		sel := stage.Selection{
			VectorConfig: stage.ID,
			ShortVector:  stage.EX,
			LongVector:   stage.EX,
			Scalar:       stage.EX,
		}

		Expect(sel.Columns()).To(ConsistOf(stage.ID, stage.EX))
	})

	It("should name classes", func() {
		Expect(stage.LongVectorSignal.String()).To(Equal("LongVectorSignal"))
	})
})
