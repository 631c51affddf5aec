// Package insts decodes raw RISC-V instruction words into the mnemonics the
// performance simulator prints in its instruction log.
package insts

// Result is the outcome of decoding one instruction word. It is either a
// decoded mnemonic or Unrecognized; decoding never fails with an error.
type Result struct {
	mnemonic string
	decoded  bool
}

// Unrecognized is returned for words the decoder does not know.
var Unrecognized = Result{}

// Decoded wraps a mnemonic into a Result.
func Decoded(mnemonic string) Result {
	return Result{mnemonic: mnemonic, decoded: true}
}

// Mnemonic returns the decoded mnemonic and whether decoding succeeded.
func (r Result) Mnemonic() (string, bool) {
	return r.mnemonic, r.decoded
}

// IsDecoded tells if the word was recognized.
func (r Result) IsDecoded() bool {
	return r.decoded
}

func (r Result) String() string {
	if !r.decoded {
		return "unknown"
	}
	return r.mnemonic
}

// A Decoder maps a raw instruction word to a mnemonic.
type Decoder interface {
	Decode(word uint32) Result
}

// RVDecoder decodes RV32IMF, Zicsr and the RVV integer/float subset used by
// the Zve32x and Zve32f targets. Mnemonics are lower case with dots
// replaced by underscores, for example vle32_v or fadd_s.
type RVDecoder struct{}

// NewRVDecoder creates a new decoder.
func NewRVDecoder() *RVDecoder {
	return &RVDecoder{}
}

// Decode returns the mnemonic of the word, or Unrecognized.
func (d *RVDecoder) Decode(word uint32) Result {
	// Compressed encodings
	if word&0x3 != 0x3 {
		return Unrecognized
	}

	switch opcode(word) {
	case 0x37:
		return Decoded("lui")
	case 0x17:
		return Decoded("auipc")
	case 0x6F:
		return Decoded("jal")
	case 0x67:
		if funct3(word) == 0 {
			return Decoded("jalr")
		}
	case 0x63:
		return lookup(branchTable, funct3(word))
	case 0x03:
		return lookup(loadTable, funct3(word))
	case 0x23:
		return lookup(storeTable, funct3(word))
	case 0x13:
		return decodeOpImm(word)
	case 0x33:
		return decodeOp(word)
	case 0x0F:
		return lookup(fenceTable, funct3(word))
	case 0x73:
		return decodeSystem(word)
	case 0x07:
		if funct3(word) == 2 {
			return Decoded("flw")
		}
		return decodeVectorLoad(word)
	case 0x27:
		if funct3(word) == 2 {
			return Decoded("fsw")
		}
		return decodeVectorStore(word)
	case 0x53:
		return decodeOpFP(word)
	case 0x43, 0x47, 0x4B, 0x4F:
		return decodeFusedFP(word)
	case 0x57:
		return decodeOpV(word)
	}

	return Unrecognized
}

func lookup(table map[uint32]string, key uint32) Result {
	name, found := table[key]
	if !found {
		return Unrecognized
	}
	return Decoded(name)
}

func opcode(word uint32) uint32 { return word & 0x7F }
func funct3(word uint32) uint32 { return (word >> 12) & 0x7 }
func rs1(word uint32) uint32    { return (word >> 15) & 0x1F }
func rs2(word uint32) uint32    { return (word >> 20) & 0x1F }
func funct7(word uint32) uint32 { return word >> 25 }
func funct6(word uint32) uint32 { return word >> 26 }
func vmBit(word uint32) uint32  { return (word >> 25) & 0x1 }
