// Package stage decides which pipeline stage counter marks an instruction as
// done in the performance simulator's timing table.
package stage

import "fmt"

// Stage column names of the timing table.
const (
	IF     = "IF_stage"
	ID     = "ID_stage"
	EX     = "EX_stage"
	WB     = "WB_stage"
	VDisp  = "V_DISP_stage"
	VEX    = "V_EX_stage"
	VWB    = "V_WB_stage"
	VRes   = "V_RES_stage"
	OffIQ  = "OFF_IQ_stage"
	OffSig = "OFF_SIG_stage"
)

// Tracked lists every stage the timing table is expected to carry.
var Tracked = []string{IF, ID, EX, WB, VDisp, VEX, VWB, VRes, OffIQ, OffSig}

// Printed lists the stages shown in the match report.
var Printed = []string{ID, EX, VDisp, VEX, VWB, VRes, OffIQ, OffSig}

// Class is the latency class of an instruction.
type Class int

// The four latency classes.
const (
	Scalar Class = iota
	VectorConfig
	ShortVectorSignal
	LongVectorSignal
)

// Classes lists all classes in priority order.
var Classes = []Class{VectorConfig, LongVectorSignal, ShortVectorSignal, Scalar}

func (c Class) String() string {
	switch c {
	case Scalar:
		return "Scalar"
	case VectorConfig:
		return "VectorConfig"
	case ShortVectorSignal:
		return "ShortVectorSignal"
	case LongVectorSignal:
		return "LongVectorSignal"
	}
	panic(fmt.Sprintf("unknown class %d", int(c)))
}

// Selection maps each class to the stage column used as its commit cycle.
type Selection struct {
	VectorConfig string
	ShortVector  string
	LongVector   string
	Scalar       string
}

// DefaultSelection returns the stage choice of the Vicuna timing model.
func DefaultSelection() Selection {
	return Selection{
		VectorConfig: OffIQ,
		ShortVector:  OffSig,
		LongVector:   VEX,
		Scalar:       EX,
	}
}

// Stage returns the commit stage for the class.
func (s Selection) Stage(c Class) string {
	switch c {
	case VectorConfig:
		return s.VectorConfig
	case ShortVectorSignal:
		return s.ShortVector
	case LongVectorSignal:
		return s.LongVector
	case Scalar:
		return s.Scalar
	}
	panic(fmt.Sprintf("unknown class %d", int(c)))
}

// Columns returns the distinct stage names the selection refers to.
func (s Selection) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, c := range Classes {
		name := s.Stage(c)
		if !seen[name] {
			seen[name] = true
			cols = append(cols, name)
		}
	}
	return cols
}
