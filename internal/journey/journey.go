// Package journey walks a Round Engine's final labels back from a
// destination stop to its origin, producing an ordered leg list.
package journey

import (
	"github.com/antigravity/transit-raptor/internal/raptor"
	"github.com/antigravity/transit-raptor/internal/schedule"
)

// Leg is one boarding or transfer step. ViaTrip is schedule.NoTrip for
// a same-station transfer leg.
type Leg struct {
	FromStop schedule.StopID
	ViaTrip  schedule.TripID
	ToStop   schedule.StopID
}

// Reconstruct walks predecessor pointers from dest back to the origin
// and returns the legs in travel order. A dest of schedule.NoStop (the
// destination was never reached) returns nil.
func Reconstruct(labels []raptor.Label, dest schedule.StopID) []Leg {
	if dest == schedule.NoStop {
		return nil
	}

	var legs []Leg
	cur := dest
	for labels[cur].ViaStop != schedule.SelfStop {
		legs = append(legs, Leg{
			FromStop: labels[cur].ViaStop,
			ViaTrip:  labels[cur].ViaTrip,
			ToStop:   cur,
		})
		cur = labels[cur].ViaStop
	}

	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}

	// A leading transfer-only leg is pathological (no trip was ever
	// boarded before it). Callers that print a boarding time should
	// skip it rather than report a non-existent trip departure.
	return legs
}

// HasLeadingTransfer reports whether legs[0] is a transfer, the
// pathological case spec.md §4.5 calls out.
func HasLeadingTransfer(legs []Leg) bool {
	return len(legs) > 0 && legs[0].ViaTrip == schedule.NoTrip
}

// BoardingLegs counts legs with a real trip (excludes transfers),
// i.e. the number of distinct trips boarded to reach the destination.
func BoardingLegs(legs []Leg) int {
	n := 0
	for _, l := range legs {
		if l.ViaTrip != schedule.NoTrip {
			n++
		}
	}
	return n
}
