// Package cdb implements the Common Data Bus: a single result-broadcast
// slot per cycle, arbitrated oldest-by-ROB-order among pending results.
package cdb

import (
	"github.com/sarchlab/tomasulo-sim/fu"
	"github.com/sarchlab/tomasulo-sim/rob"
)

// Broadcast is the externally observable state of the bus during the
// cycle it carries a result.
type Broadcast struct {
	Rob   int
	Value rob.Value
	Op    fu.Result // retained for RSIndex/Op so write-back can release the RS slot
}

// Arbitrate picks the winner among pending from a circular-distance
// function (typically rob.Buffer.Distance), oldest first; ties broken by
// lowest ROB index. Returns the winning index into pending and ok=false
// if pending is empty. Losers are left untouched for the caller to retry
// next cycle; Arbitrate never drops a result.
func Arbitrate(pending []fu.Result, distance func(robIdx int) int) (int, bool) {
	if len(pending) == 0 {
		return -1, false
	}

	best := 0
	bestDist := distance(pending[0].Rob)
	for i := 1; i < len(pending); i++ {
		d := distance(pending[i].Rob)
		if d < bestDist || (d == bestDist && pending[i].Rob < pending[best].Rob) {
			best = i
			bestDist = d
		}
	}
	return best, true
}
