package stage

// VsetInsts retire right after decode.
var VsetInsts = []string{"vsetvl", "vsetvli", "vsetivli"}

// LongVectorInsts signal completion after vector execute: memory accesses
// and cross-lane operations with variable latency.
var LongVectorInsts = concat(
	vectorLoadStore,
	[]string{
		"vcompress_vm",
		"vcpop_m",
		"vfirst_m",
		"vmv_x_s",
	},
)

// ShortVectorInsts signal completion once dispatched to the vector unit.
var ShortVectorInsts = concat(
	intArithVV,
	intArithVX,
	intArithVI,
	[]string{"vmv_v_v", "vmv_v_x", "vmv_v_i"},
	[]string{"vmerge_vvm", "vmerge_vxm", "vmerge_vim"},
	[]string{
		"vsext_vf2", "vsext_vf4", "vsext_vf8",
		"vzext_vf2", "vzext_vf4", "vzext_vf8",
	},
	narrowing,
	reductions,
	maskLogical,
	[]string{"vmv_s_x"},
)

var vectorLoadStore = []string{
	"vle8_v", "vle16_v", "vle32_v",
	"vse8_v", "vse16_v", "vse32_v",
	"vse8_u", "vse16_u", "vse32_u",
	"vlse8_v", "vlse16_v", "vlse32_v",
	"vsse8_v", "vsse16_v", "vsse32_v",
	"vluxei8_v", "vluxei16_v", "vluxei32_v",
	"vloxei8_v", "vloxei16_v", "vloxei32_v",
	"vsuxei8_v", "vsuxei16_v", "vsuxei32_v",
	"vsoxei8_v", "vsoxei16_v", "vsoxei32_v",
	"vle8ff_v", "vle16ff_v", "vle32ff_v",
	"vlm_v", "vsm_v",
	"vl8r_v", "vl16r_v", "vl32r_v", "vsr_v",
	"vl1re8_v", "vl1re16_v", "vl1re32_v",
	"vl2re8_v", "vl2re16_v", "vl2re32_v",
	"vl4re8_v", "vl4re16_v", "vl4re32_v",
	"vl8re8_v", "vl8re16_v", "vl8re32_v",
	"vs1r_v", "vs2r_v", "vs4r_v", "vs8r_v",
}

var intArithVV = []string{
	"vadd_vv", "vsub_vv",
	"vwaddu_vv", "vwsubu_vv", "vwadd_vv", "vwsub_vv",
	"vwaddu_w_vv", "vwsubu_w_vv", "vwadd_w_vv", "vwsub_w_vv",
	"vadc_vvm", "vmadc_vvm", "vmadc_vv", "vsbc_vvm", "vmsbc_vvm", "vmsbc_vv",
	"vand_vv", "vor_vv", "vxor_vv",
	"vsll_vv", "vsrl_vv", "vsra_vv",
	"vmseq_vv", "vmsne_vv", "vmsltu_vv", "vmslt_vv", "vmsleu_vv", "vmsle_vv",
	"vminu_vv", "vmin_vv", "vmaxu_vv", "vmax_vv",
	"vmul_vv", "vmulh_vv", "vmulhu_vv", "vmulhsu_vv",
	"vdivu_vv", "vdiv_vv", "vremu_vv", "vrem_vv",
	"vwmul_vv", "vwmulu_vv", "vwmulsu_vv",
	"vmacc_vv", "vnmsac_vv", "vmadd_vv", "vnmsub_vv",
	"vwmaccu_vv", "vwmacc_vv", "vwmaccsu_vv",
	"vsaddu_vv", "vsadd_vv", "vssubu_vv", "vssub_vv",
	"vaaddu_vv", "vaadd_vv", "vasubu_vv", "vasub_vv",
	"vsmul_vv", "vssrl_vv", "vssra_vv",
}

var intArithVX = []string{
	"vadd_vx", "vsub_vx", "vrsub_vx",
	"vwaddu_vx", "vwsubu_vx", "vwadd_vx", "vwsub_vx",
	"vwaddu_w_vx", "vwsubu_w_vx", "vwadd_w_vx", "vwsub_w_vx",
	"vadc_vxm", "vmadc_vxm", "vmadc_vx", "vsbc_vxm", "vmsbc_vxm", "vmsbc_vx",
	"vand_vx", "vor_vx", "vxor_vx",
	"vsll_vx", "vsrl_vx", "vsra_vx",
	"vmseq_vx", "vmsne_vx", "vmsltu_vx", "vmslt_vx", "vmsleu_vx", "vmsle_vx",
	"vmsgtu_vx", "vmsgt_vx",
	"vminu_vx", "vmin_vx", "vmaxu_vx", "vmax_vx",
	"vmul_vx", "vmulh_vx", "vmulhu_vx", "vmulhsu_vx",
	"vdivu_vx", "vdiv_vx", "vremu_vx", "vrem_vx",
	"vwmul_vx", "vwmulu_vx", "vwmulsu_vx",
	"vmacc_vx", "vnmsac_vx", "vmadd_vx", "vnmsub_vx",
	"vwmaccu_vx", "vwmacc_vx", "vwmaccsu_vx", "vwmaccus_vx",
	"vsaddu_vx", "vsadd_vx", "vssubu_vx", "vssub_vx",
	"vaaddu_vx", "vaadd_vx", "vasubu_vx", "vasub_vx",
	"vsmul_vx", "vssrl_vx", "vssra_vx",
	"vslideup_vx", "vslidedown_vx", "vslide1up_vx", "vslide1down_vx",
}

var intArithVI = []string{
	"vadd_vi", "vrsub_vi",
	"vadc_vim", "vmadc_vim", "vmadc_vi",
	"vand_vi", "vor_vi", "vxor_vi",
	"vsll_vi", "vsrl_vi", "vsra_vi",
	"vmseq_vi", "vmsne_vi", "vmsleu_vi", "vmsle_vi", "vmsgtu_vi", "vmsgt_vi",
	"vsaddu_vi", "vsadd_vi",
	"vssrl_vi", "vssra_vi",
	"vslideup_vi", "vslidedown_vi",
}

var narrowing = []string{
	"vnsrl_wv", "vnsrl_wx", "vnsrl_wi",
	"vnsra_wv", "vnsra_wx", "vnsra_wi",
	"vnclipu_wv", "vnclipu_wx", "vnclipu_wi",
	"vnclip_wv", "vnclip_wx", "vnclip_wi",
}

var reductions = []string{
	"vredsum_vs", "vredmaxu_vs", "vredmax_vs", "vredminu_vs", "vredmin_vs",
	"vredand_vs", "vredor_vs", "vredxor_vs",
	"vwredsumu_vs", "vwredsum_vs",
}

var maskLogical = []string{
	"vmand_mm", "vmnand_mm", "vmandn_mm", "vmxor_mm",
	"vmor_mm", "vmnor_mm", "vmorn_mm", "vmxnor_mm",
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
