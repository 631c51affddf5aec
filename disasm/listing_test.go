package disasm_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitlab.com/akita/simcmp/disasm"
)

const listingText = `
matmul.elf:     file format elf32-littleriscv


Disassembly of section .text:

80000000 <_start>:
80000000:	00000297          	auipc	t0,0x0
80000004:	01028293          	addi	t0,t0,16

80000010 <address_match_start>:
80000010:	010572d7          	vsetvli	t0,a0,e32,m1,tu,mu
80000014:	02056007          	vle32.v	v0,(a0)

80000040 <address_match_end>:
80000040:	00008067          	ret
`

var _ = Describe("Listing", func() {
	It("should collect labels", func() {
		l, err := disasm.ParseListing(strings.NewReader(listingText))

		Expect(err).NotTo(HaveOccurred())
		Expect(l.Symbols.Len()).To(Equal(3))
		Expect(l.Symbols.Address("_start")).To(Equal(disasm.AddressOf(0x80000000)))
	})

	It("should find both anchors", func() {
		l, _ := disasm.ParseListing(strings.NewReader(listingText))

		a := l.Anchors(disasm.DefaultStartLabel, disasm.DefaultEndLabel)

		Expect(a.Validate()).To(Succeed())
		Expect(a.Start.Matches(0x80000010)).To(BeTrue())
		Expect(a.End.Matches(0x80000040)).To(BeTrue())
		Expect(a.Start.String()).To(Equal("80000010"))
	})

	It("should report a missing end label", func() {
		text := strings.Replace(listingText, "<address_match_end>:", "<other>:", 1)
		l, _ := disasm.ParseListing(strings.NewReader(text))

		a := l.Anchors(disasm.DefaultStartLabel, disasm.DefaultEndLabel)
		err := a.Validate()

		Expect(errors.Is(err, disasm.ErrAddressNotFound)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("address_match_end"))
		Expect(a.End.Valid()).To(BeFalse())
		Expect(a.End.Matches(0)).To(BeFalse())
	})

	It("should accept an anchor at address zero", func() {
		l, _ := disasm.ParseListing(strings.NewReader(
			"00000000 <address_match_start>:\n00000020 <address_match_end>:\n"))

		a := l.Anchors(disasm.DefaultStartLabel, disasm.DefaultEndLabel)

		Expect(a.Validate()).To(Succeed())
		Expect(a.Start.Matches(0)).To(BeTrue())
	})

	It("should accept prefixed addresses and labels anywhere on the line", func() {
		l, _ := disasm.ParseListing(strings.NewReader(
			"0x80000010 <address_match_start>:\n" +
				"0X80000040  label <address_match_end>: ret\n" +
				"80000044:\t00008067\tj\t80000010 <address_match_start>\n"))

		a := l.Anchors(disasm.DefaultStartLabel, disasm.DefaultEndLabel)

		Expect(a.Validate()).To(Succeed())
		Expect(a.Start.Matches(0x80000010)).To(BeTrue())
		Expect(a.End.Matches(0x80000040)).To(BeTrue())
		Expect(l.Symbols.Len()).To(Equal(2))
	})

	It("should resolve addresses to the enclosing label", func() {
		l, _ := disasm.ParseListing(strings.NewReader(listingText))

		Expect(l.Symbols.Describe(0x80000014)).To(Equal("<address_match_start+0x4>"))
		Expect(l.Symbols.Describe(0x80000040)).To(Equal("<address_match_end>"))
		Expect(l.Symbols.Describe(0x10)).To(Equal(""))
	})

	Context("when reading from disk", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "disasm")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)
		})

		It("should locate anchors", func() {
			path := filepath.Join(dir, "matmul.dump")
			Expect(os.WriteFile(path, []byte(listingText), 0644)).To(Succeed())

			a, l, err := disasm.LocateAnchors(path,
				disasm.DefaultStartLabel, disasm.DefaultEndLabel)

			Expect(err).NotTo(HaveOccurred())
			Expect(l.Path).To(Equal(path))
			Expect(a.End.String()).To(Equal("80000040"))
		})

		It("should fail on a missing file", func() {
			_, _, err := disasm.LocateAnchors(filepath.Join(dir, "none.dump"),
				disasm.DefaultStartLabel, disasm.DefaultEndLabel)

			Expect(err).To(HaveOccurred())
		})
	})
})
