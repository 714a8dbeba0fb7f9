package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/antigravity/transit-raptor/internal/config"
	"github.com/antigravity/transit-raptor/internal/journey"
	"github.com/antigravity/transit-raptor/internal/obs"
	"github.com/antigravity/transit-raptor/internal/query"
	"github.com/antigravity/transit-raptor/internal/raptor"
	"github.com/antigravity/transit-raptor/internal/schedule"
	"github.com/antigravity/transit-raptor/internal/txerr"
)

var (
	flagOrigin      string
	flagDestination string
	flagDate        string
	flagTime        string
	flagRounds      int
	flagExcluded    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one earliest-arrival query and print the journey",
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&flagOrigin, "source", "s", "", "origin stop-area name")
	queryCmd.Flags().StringVarP(&flagDestination, "end", "e", "", "destination stop-area name")
	queryCmd.Flags().StringVarP(&flagDate, "date", "d", "", "service date, YYYYMMDD")
	queryCmd.Flags().StringVarP(&flagTime, "time", "t", "", "departure time, HH:MM[:SS]")
	queryCmd.Flags().IntVarP(&flagRounds, "rounds", "r", 8, "maximum number of boarding rounds")
	queryCmd.Flags().StringVarP(&flagExcluded, "exclude", "x", "", "space-separated disrupted trip short-names / series roots")
	queryCmd.MarkFlagRequired("source")
	queryCmd.MarkFlagRequired("end")
	queryCmd.MarkFlagRequired("date")
	queryCmd.MarkFlagRequired("time")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	excluded, err := parseExcluded(flagExcluded)
	if err != nil {
		return err
	}

	plan, err := query.Resolve(store, flagOrigin, flagDestination, flagDate, flagTime, excluded)
	if err != nil && !errors.Is(err, txerr.ErrEmptyServiceDate) {
		return err
	}
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "warning:", err)
	}

	start := time.Now()
	engine := raptor.New(store, cfg.Tunables)
	result := engine.Search(plan, flagRounds)
	obs.QueryDuration.Observe(time.Since(start).Seconds())

	printJourney(cmd, store, result)
	return nil
}

func parseExcluded(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid excluded short-name %q: %w", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func printJourney(cmd *cobra.Command, store *schedule.Store, result raptor.Result) {
	out := cmd.OutOrStdout()
	if result.DestStop == schedule.NoStop {
		fmt.Fprintln(out, "destination unreachable with given parameters")
		return
	}

	name, _, _, _ := store.StopInfo(result.DestStop)
	offset := result.FinalLabels[result.DestStop].TravelTimeS
	fmt.Fprintf(out, "arrived at %s after %s\n", name, formatDuration(offset))

	legs := journey.Reconstruct(result.FinalLabels, result.DestStop)
	for i, l := range legs {
		fromName, _, _, _ := store.StopInfo(l.FromStop)
		toName, _, _, _ := store.StopInfo(l.ToStop)
		if l.ViaTrip == schedule.NoTrip {
			fmt.Fprintf(out, "  %d. transfer: %s -> %s\n", i+1, fromName, toName)
			continue
		}
		shortName, _ := store.TripInfo(l.ViaTrip)
		fmt.Fprintf(out, "  %d. line %d: %s -> %s\n", i+1, shortName, fromName, toName)
	}
}

func formatDuration(seconds uint32) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
