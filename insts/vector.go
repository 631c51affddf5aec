package insts

import "fmt"

type vform uint8

const (
	formVV vform = 1 << iota
	formVX
	formVI
	formVF
)

type vkind uint8

const (
	kindPlain vkind = iota
	kindNarrow
	kindReduce
	kindMask
)

type vop struct {
	name  string
	forms vform
	kind  vkind
}

const (
	fVVX  = formVV | formVX
	fVVXI = formVV | formVX | formVI
	fVXI  = formVX | formVI
	fVVF  = formVV | formVF
)

var opiTable = map[uint32]vop{
	0x00: {"vadd", fVVXI, kindPlain},
	0x02: {"vsub", fVVX, kindPlain},
	0x03: {"vrsub", fVXI, kindPlain},
	0x04: {"vminu", fVVX, kindPlain},
	0x05: {"vmin", fVVX, kindPlain},
	0x06: {"vmaxu", fVVX, kindPlain},
	0x07: {"vmax", fVVX, kindPlain},
	0x09: {"vand", fVVXI, kindPlain},
	0x0A: {"vor", fVVXI, kindPlain},
	0x0B: {"vxor", fVVXI, kindPlain},
	0x0C: {"vrgather", fVVXI, kindPlain},
	0x0E: {"vslideup", fVXI, kindPlain},
	0x0F: {"vslidedown", fVXI, kindPlain},
	0x18: {"vmseq", fVVXI, kindPlain},
	0x19: {"vmsne", fVVXI, kindPlain},
	0x1A: {"vmsltu", fVVX, kindPlain},
	0x1B: {"vmslt", fVVX, kindPlain},
	0x1C: {"vmsleu", fVVXI, kindPlain},
	0x1D: {"vmsle", fVVXI, kindPlain},
	0x1E: {"vmsgtu", fVXI, kindPlain},
	0x1F: {"vmsgt", fVXI, kindPlain},
	0x20: {"vsaddu", fVVXI, kindPlain},
	0x21: {"vsadd", fVVXI, kindPlain},
	0x22: {"vssubu", fVVX, kindPlain},
	0x23: {"vssub", fVVX, kindPlain},
	0x25: {"vsll", fVVXI, kindPlain},
	0x27: {"vsmul", fVVX, kindPlain},
	0x28: {"vsrl", fVVXI, kindPlain},
	0x29: {"vsra", fVVXI, kindPlain},
	0x2A: {"vssrl", fVVXI, kindPlain},
	0x2B: {"vssra", fVVXI, kindPlain},
	0x2C: {"vnsrl", fVVXI, kindNarrow},
	0x2D: {"vnsra", fVVXI, kindNarrow},
	0x2E: {"vnclipu", fVVXI, kindNarrow},
	0x2F: {"vnclip", fVVXI, kindNarrow},
	0x30: {"vwredsumu", formVV, kindReduce},
	0x31: {"vwredsum", formVV, kindReduce},
}

var opmTable = map[uint32]vop{
	0x00: {"vredsum", formVV, kindReduce},
	0x01: {"vredand", formVV, kindReduce},
	0x02: {"vredor", formVV, kindReduce},
	0x03: {"vredxor", formVV, kindReduce},
	0x04: {"vredminu", formVV, kindReduce},
	0x05: {"vredmin", formVV, kindReduce},
	0x06: {"vredmaxu", formVV, kindReduce},
	0x07: {"vredmax", formVV, kindReduce},
	0x08: {"vaaddu", fVVX, kindPlain},
	0x09: {"vaadd", fVVX, kindPlain},
	0x0A: {"vasubu", fVVX, kindPlain},
	0x0B: {"vasub", fVVX, kindPlain},
	0x0E: {"vslide1up", formVX, kindPlain},
	0x0F: {"vslide1down", formVX, kindPlain},
	0x18: {"vmandn", formVV, kindMask},
	0x19: {"vmand", formVV, kindMask},
	0x1A: {"vmor", formVV, kindMask},
	0x1B: {"vmxor", formVV, kindMask},
	0x1C: {"vmorn", formVV, kindMask},
	0x1D: {"vmnand", formVV, kindMask},
	0x1E: {"vmnor", formVV, kindMask},
	0x1F: {"vmxnor", formVV, kindMask},
	0x20: {"vdivu", fVVX, kindPlain},
	0x21: {"vdiv", fVVX, kindPlain},
	0x22: {"vremu", fVVX, kindPlain},
	0x23: {"vrem", fVVX, kindPlain},
	0x24: {"vmulhu", fVVX, kindPlain},
	0x25: {"vmul", fVVX, kindPlain},
	0x26: {"vmulhsu", fVVX, kindPlain},
	0x27: {"vmulh", fVVX, kindPlain},
	0x29: {"vmadd", fVVX, kindPlain},
	0x2B: {"vnmsub", fVVX, kindPlain},
	0x2D: {"vmacc", fVVX, kindPlain},
	0x2F: {"vnmsac", fVVX, kindPlain},
	0x30: {"vwaddu", fVVX, kindPlain},
	0x31: {"vwadd", fVVX, kindPlain},
	0x32: {"vwsubu", fVVX, kindPlain},
	0x33: {"vwsub", fVVX, kindPlain},
	0x34: {"vwaddu_w", fVVX, kindPlain},
	0x35: {"vwadd_w", fVVX, kindPlain},
	0x36: {"vwsubu_w", fVVX, kindPlain},
	0x37: {"vwsub_w", fVVX, kindPlain},
	0x38: {"vwmulu", fVVX, kindPlain},
	0x3A: {"vwmulsu", fVVX, kindPlain},
	0x3B: {"vwmul", fVVX, kindPlain},
	0x3C: {"vwmaccu", fVVX, kindPlain},
	0x3D: {"vwmacc", fVVX, kindPlain},
	0x3E: {"vwmaccus", formVX, kindPlain},
	0x3F: {"vwmaccsu", fVVX, kindPlain},
}

var opfTable = map[uint32]vop{
	0x00: {"vfadd", fVVF, kindPlain},
	0x01: {"vfredusum", formVV, kindReduce},
	0x02: {"vfsub", fVVF, kindPlain},
	0x03: {"vfredosum", formVV, kindReduce},
	0x04: {"vfmin", fVVF, kindPlain},
	0x05: {"vfredmin", formVV, kindReduce},
	0x06: {"vfmax", fVVF, kindPlain},
	0x07: {"vfredmax", formVV, kindReduce},
	0x08: {"vfsgnj", fVVF, kindPlain},
	0x09: {"vfsgnjn", fVVF, kindPlain},
	0x0A: {"vfsgnjx", fVVF, kindPlain},
	0x18: {"vmfeq", fVVF, kindPlain},
	0x19: {"vmfle", fVVF, kindPlain},
	0x1B: {"vmflt", fVVF, kindPlain},
	0x1C: {"vmfne", fVVF, kindPlain},
	0x20: {"vfdiv", fVVF, kindPlain},
	0x24: {"vfmul", fVVF, kindPlain},
	0x28: {"vfmadd", fVVF, kindPlain},
	0x2C: {"vfmacc", fVVF, kindPlain},
	0x2D: {"vfnmacc", fVVF, kindPlain},
	0x2E: {"vfmsac", fVVF, kindPlain},
	0x2F: {"vfnmsac", fVVF, kindPlain},
}

var vxunaryTable = map[uint32]string{
	0x02: "vzext_vf8",
	0x03: "vsext_vf8",
	0x04: "vzext_vf4",
	0x05: "vsext_vf4",
	0x06: "vzext_vf2",
	0x07: "vsext_vf2",
}

var vmunaryTable = map[uint32]string{
	0x01: "vmsbf_m",
	0x02: "vmsof_m",
	0x03: "vmsif_m",
	0x10: "viota_m",
	0x11: "vid_v",
}

var vwxunaryTable = map[uint32]string{
	0x00: "vmv_x_s",
	0x10: "vcpop_m",
	0x11: "vfirst_m",
}

var formSuffix = map[vform]string{
	formVV: "vv",
	formVX: "vx",
	formVI: "vi",
	formVF: "vf",
}

func suffix(kind vkind, form vform) string {
	switch kind {
	case kindNarrow:
		return map[vform]string{formVV: "wv", formVX: "wx", formVI: "wi"}[form]
	case kindReduce:
		return "vs"
	case kindMask:
		return "mm"
	}
	return formSuffix[form]
}

func decodeOpV(word uint32) Result {
	var form vform
	var table map[uint32]vop

	switch funct3(word) {
	case 0x0:
		form, table = formVV, opiTable
	case 0x1:
		form, table = formVV, opfTable
	case 0x2:
		form, table = formVV, opmTable
	case 0x3:
		form, table = formVI, opiTable
	case 0x4:
		form, table = formVX, opiTable
	case 0x5:
		form, table = formVF, opfTable
	case 0x6:
		form, table = formVX, opmTable
	default:
		return decodeVsetvl(word)
	}

	if r, handled := decodeOpVSpecial(word, form); handled {
		return r
	}

	op, found := table[funct6(word)]
	if !found || op.forms&form == 0 {
		return Unrecognized
	}
	return Decoded(op.name + "_" + suffix(op.kind, form))
}

func decodeVsetvl(word uint32) Result {
	switch {
	case word>>31 == 0:
		return Decoded("vsetvli")
	case word>>30 == 0x3:
		return Decoded("vsetivli")
	case funct7(word) == 0x40:
		return Decoded("vsetvl")
	}
	return Unrecognized
}

// decodeOpVSpecial handles the funct6 slots whose mnemonic depends on vm or on
// the rs1/rs2 fields.
func decodeOpVSpecial(word uint32, form vform) (Result, bool) {
	f3 := funct3(word)
	f6 := funct6(word)
	vm := vmBit(word)
	isOPI := f3 == 0x0 || f3 == 0x3 || f3 == 0x4
	isOPM := f3 == 0x2 || f3 == 0x6
	isOPF := f3 == 0x1 || f3 == 0x5

	switch {
	case isOPI && f6 == 0x10:
		if vm != 0 {
			return Unrecognized, true
		}
		return Decoded("vadc_" + formSuffix[form] + "m"), true
	case isOPI && f6 == 0x11:
		if vm == 0 {
			return Decoded("vmadc_" + formSuffix[form] + "m"), true
		}
		return Decoded("vmadc_" + formSuffix[form]), true
	case isOPI && f6 == 0x12:
		if vm != 0 || form == formVI {
			return Unrecognized, true
		}
		return Decoded("vsbc_" + formSuffix[form] + "m"), true
	case isOPI && f6 == 0x13:
		if form == formVI {
			return Unrecognized, true
		}
		if vm == 0 {
			return Decoded("vmsbc_" + formSuffix[form] + "m"), true
		}
		return Decoded("vmsbc_" + formSuffix[form]), true
	case isOPI && f6 == 0x17:
		if vm == 0 {
			return Decoded("vmerge_" + formSuffix[form] + "m"), true
		}
		if rs2(word) != 0 {
			return Unrecognized, true
		}
		return Decoded("vmv_v_" + formSuffix[form][1:]), true
	case isOPI && f6 == 0x27 && form == formVI:
		switch nr := rs1(word) + 1; nr {
		case 1, 2, 4, 8:
			return Decoded(fmt.Sprintf("vmv%dr_v", nr)), true
		}
		return Unrecognized, true
	case isOPM && f6 == 0x10:
		if form == formVX {
			if rs2(word) != 0 {
				return Unrecognized, true
			}
			return Decoded("vmv_s_x"), true
		}
		return lookup(vwxunaryTable, rs1(word)), true
	case isOPM && f6 == 0x12 && form == formVV:
		return lookup(vxunaryTable, rs1(word)), true
	case isOPM && f6 == 0x14 && form == formVV:
		return lookup(vmunaryTable, rs1(word)), true
	case isOPM && f6 == 0x17 && form == formVV:
		return Decoded("vcompress_vm"), true
	case isOPF && f6 == 0x10:
		if form == formVF {
			return Decoded("vfmv_s_f"), true
		}
		if rs1(word) == 0 {
			return Decoded("vfmv_f_s"), true
		}
		return Unrecognized, true
	case isOPF && f6 == 0x17 && form == formVF:
		if vm == 0 {
			return Decoded("vfmerge_vfm"), true
		}
		return Decoded("vfmv_v_f"), true
	}

	return Result{}, false
}

var vectorWidth = map[uint32]int{
	0x0: 8,
	0x5: 16,
	0x6: 32,
	0x7: 64,
}

func decodeVectorLoad(word uint32) Result {
	eew, found := vectorWidth[funct3(word)]
	if !found {
		return Unrecognized
	}
	nf := word>>29 + 1
	seg := ""
	if nf > 1 {
		seg = fmt.Sprintf("seg%d", nf)
	}

	switch mop := (word >> 26) & 0x3; mop {
	case 0x0:
		switch rs2(word) {
		case 0x00:
			return Decoded(fmt.Sprintf("vl%se%d_v", seg, eew))
		case 0x08:
			return Decoded(fmt.Sprintf("vl%dre%d_v", nf, eew))
		case 0x0B:
			if eew == 8 {
				return Decoded("vlm_v")
			}
		case 0x10:
			return Decoded(fmt.Sprintf("vl%se%dff_v", seg, eew))
		}
		return Unrecognized
	case 0x1:
		return Decoded(fmt.Sprintf("vlux%sei%d_v", seg, eew))
	case 0x2:
		return Decoded(fmt.Sprintf("vls%se%d_v", seg, eew))
	default:
		return Decoded(fmt.Sprintf("vlox%sei%d_v", seg, eew))
	}
}

func decodeVectorStore(word uint32) Result {
	eew, found := vectorWidth[funct3(word)]
	if !found {
		return Unrecognized
	}
	nf := word>>29 + 1
	seg := ""
	if nf > 1 {
		seg = fmt.Sprintf("seg%d", nf)
	}

	switch mop := (word >> 26) & 0x3; mop {
	case 0x0:
		switch rs2(word) {
		case 0x00:
			return Decoded(fmt.Sprintf("vs%se%d_v", seg, eew))
		case 0x08:
			if eew == 8 {
				return Decoded(fmt.Sprintf("vs%dr_v", nf))
			}
		case 0x0B:
			if eew == 8 {
				return Decoded("vsm_v")
			}
		}
		return Unrecognized
	case 0x1:
		return Decoded(fmt.Sprintf("vsux%sei%d_v", seg, eew))
	case 0x2:
		return Decoded(fmt.Sprintf("vss%se%d_v", seg, eew))
	default:
		return Decoded(fmt.Sprintf("vsox%sei%d_v", seg, eew))
	}
}
