package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/transit-raptor/internal/cache"
	"github.com/antigravity/transit-raptor/internal/config"
	"github.com/antigravity/transit-raptor/internal/loader"
	"github.com/antigravity/transit-raptor/internal/optimize"
	"github.com/antigravity/transit-raptor/internal/schedule"
	"github.com/antigravity/transit-raptor/internal/txerr"
)

// buildStore produces the Schedule Store the query and serve
// subcommands both need: pick a raw table Source by --mode, consult
// the optimized-schedule cache when --cache is set, and fall back to
// running the Optimizer otherwise.
func buildStore(ctx context.Context, cfg *config.Config) (*schedule.Store, error) {
	src, closeSrc, err := newSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	tables, err := loader.LoadAll(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", txerr.ErrInvalidInputSchedule, err)
	}

	if !flagUseCache {
		return optimize.Build(tables)
	}

	c, err := cache.Open(defaultCachePath)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	rawHash := cache.HashRawTables(tables)
	if store, ok, err := c.Load(ctx, rawHash); err != nil {
		return nil, err
	} else if ok {
		slog.InfoContext(ctx, "loaded schedule from cache", "path", defaultCachePath)
		return store, nil
	}

	store, err := optimize.Build(tables)
	if err != nil {
		return nil, err
	}
	if err := c.Store(ctx, store, rawHash); err != nil {
		return nil, fmt.Errorf("writing schedule cache: %w", err)
	}
	return store, nil
}

func newSource(ctx context.Context, cfg *config.Config) (loader.Source, func(), error) {
	switch flagLoaderMode {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, func() {}, fmt.Errorf("connecting to database: %w", err)
		}
		return loader.PostgresSource{Pool: pool}, pool.Close, nil
	case "csv", "":
		if flagInputDir == "" {
			return nil, func() {}, fmt.Errorf("%w: -i/--input is required in csv mode", txerr.ErrInvalidInputSchedule)
		}
		if strings.HasSuffix(strings.ToLower(flagInputDir), ".zip") {
			return loader.CSVSource{ZipPath: flagInputDir}, func() {}, nil
		}
		return loader.CSVSource{Dir: flagInputDir}, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("%w: unknown loader mode %q", txerr.ErrInvalidInputSchedule, flagLoaderMode)
	}
}
