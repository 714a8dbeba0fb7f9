// Package raptor is the Round Engine: the RAPTOR-style K-round
// earliest-arrival search. It reads a schedule.Store and a resolved
// query.Plan and never returns an error — an out-of-range id reaching
// this package is a programmer error in an upstream component, not
// something a query caller can act on.
package raptor

import (
	"sort"

	"github.com/antigravity/transit-raptor/internal/config"
	"github.com/antigravity/transit-raptor/internal/obs"
	"github.com/antigravity/transit-raptor/internal/query"
	"github.com/antigravity/transit-raptor/internal/schedule"
)

// Label is the per-stop, per-round search record spec.md §3 defines.
// TravelTimeS is an offset from the query's departure second, never an
// absolute clock value.
type Label struct {
	TravelTimeS uint32
	ViaTrip     schedule.TripID
	ViaStop     schedule.StopID
}

// Result is everything a caller needs to report a journey or inspect
// the round-by-round search.
type Result struct {
	RoundSnapshots [][]Label
	DestStop       schedule.StopID
	FinalLabels    []Label
}

// Engine runs queries against one immutable Store. An Engine is safe
// to share across goroutines; each call to Search owns its own labels,
// frontier and exclusion state.
type Engine struct {
	store    *schedule.Store
	tunables config.Tunables
}

// New builds an Engine over store using the given tunables.
func New(store *schedule.Store, tunables config.Tunables) *Engine {
	return &Engine{store: store, tunables: tunables}
}

// Search runs up to rounds rounds of trip-traversal and transfer
// phases and returns the per-round snapshots plus the best reached
// destination, if any.
func (e *Engine) Search(plan query.Plan, rounds int) Result {
	store := e.store
	labels := make([]Label, store.NumStops())
	for i := range labels {
		labels[i] = Label{TravelTimeS: schedule.Unreached, ViaTrip: schedule.NoTrip, ViaStop: schedule.NoStop}
	}
	for _, s := range plan.OriginStops {
		labels[s] = Label{TravelTimeS: 0, ViaTrip: schedule.NoTrip, ViaStop: schedule.SelfStop}
	}

	snapshots := make([][]Label, rounds+1)
	snapshots[0] = cloneLabels(labels)

	frontier := append([]schedule.StopID(nil), plan.OriginStops...)
	sortStops(frontier)

	excludedOrUsed := make(map[schedule.TripID]bool, len(plan.Excluded))
	for t := range plan.Excluded {
		excludedOrUsed[t] = true
	}

	boardingWindow := uint32(e.tunables.BoardingWindowSeconds)
	queryEnd := plan.DepartureS + uint32(e.tunables.QueryWindowSeconds)
	roundsRun := 0

	for k := 1; k <= rounds; k++ {
		roundsRun = k
		travelAdded := make(map[schedule.StopID]bool)

		for _, s := range frontier {
			windowStart := plan.DepartureS + labels[s].TravelTimeS
			windowEnd := windowStart + boardingWindow
			if windowEnd > queryEnd {
				windowEnd = queryEnd
			}
			boardable := store.StopDepartures(s, windowStart, windowEnd, plan.ActiveTrips, excludedOrUsed)
			for _, t := range boardable {
				excludedOrUsed[t] = true
			}
			for _, t := range boardable {
				rows := store.TripStops(t)
				hopOn := -1
				for i, row := range rows {
					if row.Stop == s {
						hopOn = i
						break
					}
				}
				if hopOn == -1 {
					continue
				}
				for i := hopOn + 1; i < len(rows); i++ {
					row := rows[i]
					arrOff := row.ArrivalTimeS - plan.DepartureS
					if arrOff < labels[row.Stop].TravelTimeS {
						labels[row.Stop] = Label{TravelTimeS: arrOff, ViaTrip: t, ViaStop: s}
						travelAdded[row.Stop] = true
					}
				}
			}
		}

		touched := sortedKeys(travelAdded)
		nextSet := make(map[schedule.StopID]bool, len(travelAdded))
		for s := range travelAdded {
			nextSet[s] = true
		}

		for _, s := range touched {
			_, station, _, isTransfer := store.StopInfo(s)
			if !isTransfer {
				continue
			}
			for _, sp := range store.StationPlatforms(station) {
				if sp == s {
					continue
				}
				clockS := int(plan.DepartureS + labels[s].TravelTimeS)
				cost := uint32(e.tunables.TransferTime(uint32(s), uint32(sp), clockS, 0))
				cand := labels[s].TravelTimeS + cost
				if cand < labels[sp].TravelTimeS {
					labels[sp] = Label{TravelTimeS: cand, ViaTrip: schedule.NoTrip, ViaStop: s}
					nextSet[sp] = true
				}
			}
		}

		snapshots[k] = cloneLabels(labels)
		obs.StopsTouchedPerRound.Observe(float64(len(nextSet)))

		if len(nextSet) == 0 {
			for j := k + 1; j <= rounds; j++ {
				snapshots[j] = snapshots[k]
			}
			break
		}
		frontier = sortedKeys(nextSet)
	}
	obs.RoundsExecuted.Observe(float64(roundsRun))

	dest := schedule.NoStop
	best := schedule.Unreached
	for _, d := range plan.DestinationStops {
		if labels[d].TravelTimeS < best {
			best = labels[d].TravelTimeS
			dest = d
		}
	}
	if dest == schedule.NoStop {
		obs.QueriesUnreached.Inc()
	}

	return Result{RoundSnapshots: snapshots, DestStop: dest, FinalLabels: labels}
}

func cloneLabels(l []Label) []Label {
	out := make([]Label, len(l))
	copy(out, l)
	return out
}

func sortStops(s []schedule.StopID) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

func sortedKeys(set map[schedule.StopID]bool) []schedule.StopID {
	out := make([]schedule.StopID, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sortStops(out)
	return out
}
