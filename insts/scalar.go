package insts

var branchTable = map[uint32]string{
	0x0: "beq",
	0x1: "bne",
	0x4: "blt",
	0x5: "bge",
	0x6: "bltu",
	0x7: "bgeu",
}

var loadTable = map[uint32]string{
	0x0: "lb",
	0x1: "lh",
	0x2: "lw",
	0x4: "lbu",
	0x5: "lhu",
}

var storeTable = map[uint32]string{
	0x0: "sb",
	0x1: "sh",
	0x2: "sw",
}

var fenceTable = map[uint32]string{
	0x0: "fence",
	0x1: "fence_i",
}

var opImmTable = map[uint32]string{
	0x0: "addi",
	0x2: "slti",
	0x3: "sltiu",
	0x4: "xori",
	0x6: "ori",
	0x7: "andi",
}

// keyed by funct7<<3 | funct3
var opTable = map[uint32]string{
	0x00<<3 | 0x0: "add",
	0x20<<3 | 0x0: "sub",
	0x00<<3 | 0x1: "sll",
	0x00<<3 | 0x2: "slt",
	0x00<<3 | 0x3: "sltu",
	0x00<<3 | 0x4: "xor",
	0x00<<3 | 0x5: "srl",
	0x20<<3 | 0x5: "sra",
	0x00<<3 | 0x6: "or",
	0x00<<3 | 0x7: "and",
	0x01<<3 | 0x0: "mul",
	0x01<<3 | 0x1: "mulh",
	0x01<<3 | 0x2: "mulhsu",
	0x01<<3 | 0x3: "mulhu",
	0x01<<3 | 0x4: "div",
	0x01<<3 | 0x5: "divu",
	0x01<<3 | 0x6: "rem",
	0x01<<3 | 0x7: "remu",
}

var csrTable = map[uint32]string{
	0x1: "csrrw",
	0x2: "csrrs",
	0x3: "csrrc",
	0x5: "csrrwi",
	0x6: "csrrsi",
	0x7: "csrrci",
}

var privTable = map[uint32]string{
	0x00000073: "ecall",
	0x00100073: "ebreak",
	0x30200073: "mret",
	0x10500073: "wfi",
}

func decodeOpImm(word uint32) Result {
	switch funct3(word) {
	case 0x1:
		if funct7(word) == 0 {
			return Decoded("slli")
		}
		return Unrecognized
	case 0x5:
		switch funct7(word) {
		case 0x00:
			return Decoded("srli")
		case 0x20:
			return Decoded("srai")
		}
		return Unrecognized
	}
	return lookup(opImmTable, funct3(word))
}

func decodeOp(word uint32) Result {
	return lookup(opTable, funct7(word)<<3|funct3(word))
}

func decodeSystem(word uint32) Result {
	if funct3(word) == 0 {
		return lookup(privTable, word)
	}
	return lookup(csrTable, funct3(word))
}

func decodeOpFP(word uint32) Result {
	f3 := funct3(word)
	switch funct7(word) {
	case 0x00:
		return Decoded("fadd_s")
	case 0x04:
		return Decoded("fsub_s")
	case 0x08:
		return Decoded("fmul_s")
	case 0x0C:
		return Decoded("fdiv_s")
	case 0x2C:
		return Decoded("fsqrt_s")
	case 0x10:
		return lookup(map[uint32]string{0: "fsgnj_s", 1: "fsgnjn_s", 2: "fsgnjx_s"}, f3)
	case 0x14:
		return lookup(map[uint32]string{0: "fmin_s", 1: "fmax_s"}, f3)
	case 0x50:
		return lookup(map[uint32]string{0: "fle_s", 1: "flt_s", 2: "feq_s"}, f3)
	case 0x60:
		return lookup(map[uint32]string{0: "fcvt_w_s", 1: "fcvt_wu_s"}, rs2(word))
	case 0x68:
		return lookup(map[uint32]string{0: "fcvt_s_w", 1: "fcvt_s_wu"}, rs2(word))
	case 0x70:
		return lookup(map[uint32]string{0: "fmv_x_w", 1: "fclass_s"}, f3)
	case 0x78:
		return Decoded("fmv_w_x")
	}
	return Unrecognized
}

func decodeFusedFP(word uint32) Result {
	// single precision only
	if (word>>25)&0x3 != 0 {
		return Unrecognized
	}
	switch opcode(word) {
	case 0x43:
		return Decoded("fmadd_s")
	case 0x47:
		return Decoded("fmsub_s")
	case 0x4B:
		return Decoded("fnmsub_s")
	default:
		return Decoded("fnmadd_s")
	}
}
