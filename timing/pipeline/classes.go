package pipeline

import (
	"github.com/sarchlab/tomasulo-sim/fu"
	"github.com/sarchlab/tomasulo-sim/insts"
	"github.com/sarchlab/tomasulo-sim/rs"
)

// classUnit bundles one class's matched RS and FU pools. RS slot i and FU
// unit i of the same class are not paired by index: a slot dispatches to
// whichever unit FreeUnit finds, and fu.Result.RSIndex ties a finished
// result back to its originating slot.
type classUnit struct {
	rs *rs.Pool
	fu *fu.Pool
}

// numClasses is the number of RS/FU classes, one more than the highest
// rs.Class constant.
const numClasses = int(rs.ClassMUL) + 1

// poolSizes gives the fixed slot/unit count for each RS/FU class.
var poolSizes = [numClasses]int{
	rs.ClassLoad:    2,
	rs.ClassStore:   1,
	rs.ClassBEQ:     2,
	rs.ClassCallRet: 1,
	rs.ClassAddSub:  4,
	rs.ClassNAND:    1,
	rs.ClassMUL:     1,
}

func newClasses() [numClasses]classUnit {
	var out [numClasses]classUnit
	for class, n := range poolSizes {
		out[class] = classUnit{
			rs: rs.NewPool(rs.Class(class), n),
			fu: fu.NewPool(rs.Class(class), n),
		}
	}
	return out
}

// representativeOp returns an opcode belonging to class, used only to
// drive timing-table lookups keyed by insts.Op. Every opcode sharing a
// class carries the same latency and address-phase figures, so which
// member of the class is picked here is immaterial.
func representativeOp(class rs.Class) insts.Op {
	switch class {
	case rs.ClassLoad:
		return insts.OpLOAD
	case rs.ClassStore:
		return insts.OpSTORE
	case rs.ClassBEQ:
		return insts.OpBEQ
	case rs.ClassCallRet:
		return insts.OpCALL
	case rs.ClassAddSub:
		return insts.OpADD
	case rs.ClassNAND:
		return insts.OpNAND
	case rs.ClassMUL:
		return insts.OpMUL
	default:
		return insts.OpADD
	}
}
