package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/antigravity/transit-raptor/internal/journey"
	"github.com/antigravity/transit-raptor/internal/obs"
	"github.com/antigravity/transit-raptor/internal/query"
	"github.com/antigravity/transit-raptor/internal/raptor"
	"github.com/antigravity/transit-raptor/internal/schedule"
	"github.com/antigravity/transit-raptor/internal/txerr"
)

type queryRequest struct {
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	Date               string `json:"date"`
	Departure          string `json:"departure"`
	Rounds             int    `json:"rounds"`
	UseDisruptions     bool   `json:"use_disruptions"`
	ExcludedShortNames []int  `json:"excluded_short_names,omitempty"`
}

type legResponse struct {
	FromStop   string `json:"from_stop"`
	ToStop     string `json:"to_stop"`
	IsTransfer bool   `json:"is_transfer"`
	ViaTrip    *int   `json:"via_trip_short_name,omitempty"`
}

type queryResponse struct {
	Unreached            bool          `json:"unreached"`
	DestStop             string        `json:"dest_stop,omitempty"`
	ArrivalOffsetSeconds uint32        `json:"arrival_offset_seconds,omitempty"`
	Legs                 []legResponse `json:"legs,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, `{"status":"error","store":"not loaded"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if req.Rounds <= 0 {
		req.Rounds = 8
	}

	var excluded []int
	if req.UseDisruptions {
		excluded = req.ExcludedShortNames
	}

	plan, err := query.Resolve(s.store, req.Origin, req.Destination, req.Date, req.Departure, excluded)
	if err != nil {
		if errors.Is(err, txerr.ErrUnknownStopArea) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, txerr.ErrInvalidInputSchedule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// ErrEmptyServiceDate is non-fatal: the plan is still usable,
		// the search will just report every destination unreached.
		slog.WarnContext(r.Context(), "query on empty service date", "error", err)
	}

	start := time.Now()
	engine := raptor.New(s.store, s.tunables)
	result := engine.Search(plan, req.Rounds)
	obs.QueryDuration.Observe(time.Since(start).Seconds())

	resp := queryResponse{Unreached: result.DestStop == schedule.NoStop}
	if !resp.Unreached {
		name, _, _, _ := s.store.StopInfo(result.DestStop)
		resp.DestStop = name
		resp.ArrivalOffsetSeconds = result.FinalLabels[result.DestStop].TravelTimeS

		legs := journey.Reconstruct(result.FinalLabels, result.DestStop)
		resp.Legs = make([]legResponse, 0, len(legs))
		for _, l := range legs {
			fromName, _, _, _ := s.store.StopInfo(l.FromStop)
			toName, _, _, _ := s.store.StopInfo(l.ToStop)
			lr := legResponse{FromStop: fromName, ToStop: toName, IsTransfer: l.ViaTrip == schedule.NoTrip}
			if !lr.IsTransfer {
				shortName, _ := s.store.TripInfo(l.ViaTrip)
				lr.ViaTrip = &shortName
			}
			resp.Legs = append(resp.Legs, lr)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
