package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/contractcheck/internal/catalog"
	"github.com/JonMunkholm/contractcheck/internal/config"
	"github.com/JonMunkholm/contractcheck/internal/core"
	_ "github.com/JonMunkholm/contractcheck/internal/core/rules" // Register field rules
	"github.com/JonMunkholm/contractcheck/internal/entity"
	"github.com/JonMunkholm/contractcheck/internal/report"
	"github.com/JonMunkholm/contractcheck/internal/sample"
	"github.com/JonMunkholm/contractcheck/internal/store"
)

// app holds the collaborators built from the configuration.
type app struct {
	checker   *core.Checker
	issues    *store.FileStore
	publisher *report.Publisher
	pool      *pgxpool.Pool
}

// Close releases the database pool, if any.
func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func newApp(ctx context.Context, cfg *config.Config, opts ...core.CheckerOption) (*app, error) {
	cat, err := loadCatalog(cfg.Contracts.CatalogPath)
	if err != nil {
		return nil, err
	}

	a := &app{}
	if cfg.Database.Enabled() {
		a.pool, err = openPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
	}

	entities, err := a.entityDirectory(cfg.Entities)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.issues, err = store.NewFileStore(cfg.Output.IssuesDir, cfg.Output.IssuesFormat)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.publisher = &report.Publisher{Issues: a.issues, HTMLDir: cfg.Output.ReportDir}

	if cfg.Output.PersistIssues {
		pg := store.NewPostgres(a.pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.publisher.Sink = pg
	}

	opts = append([]core.CheckerOption{
		core.WithSampleInspection(sample.Detector{}, sample.Sniffer{}),
	}, opts...)
	a.checker = core.NewChecker(cat, entities, core.CheckerConfig{
		Dir:                 cfg.Contracts.Dir,
		Sheet:               cfg.Contracts.Sheet,
		HeaderRow:           cfg.Contracts.HeaderRow,
		SampleDirName:       cfg.Contracts.SampleDirName,
		SampleEncodingLines: cfg.Contracts.SampleEncodingLines,
	}, opts...)

	slog.Info("rules registered", "count", core.RuleCount(), "header_columns", len(cat.Header()))
	return a, nil
}

// loadCatalog reads the catalog file, falling back to the built-in catalog
// when no path is configured or the file does not exist.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("catalog file not found, using built-in catalog", "path", path)
		return catalog.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

func (a *app) entityDirectory(cfg config.EntityConfig) (core.EntityDirectory, error) {
	if a.pool != nil {
		slog.Info("using database entity directory", "table", cfg.Table)
		return entity.NewPostgres(a.pool, cfg.Table), nil
	}
	dir, err := entity.LoadFile(cfg.File)
	if err != nil {
		return nil, err
	}
	slog.Info("using file entity directory", "path", cfg.File, "entities", dir.Len())
	return dir, nil
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
