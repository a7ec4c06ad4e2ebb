// Package cli wires ingestd's capability adapters together behind a cobra
// command tree: a root.go-style persistent-flag/viper bootstrap feeding a
// per-command construction sequence.
package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ingestd/ingestd/internal/capability"
	"github.com/ingestd/ingestd/internal/config"
	"github.com/ingestd/ingestd/internal/docingest"
	"github.com/ingestd/ingestd/internal/docstore"
	"github.com/ingestd/ingestd/internal/logging"
	"github.com/ingestd/ingestd/internal/objectstore"
	"github.com/ingestd/ingestd/internal/orchestrator"
	"github.com/ingestd/ingestd/internal/pathplanner"
	"github.com/ingestd/ingestd/internal/pgstore"
	"github.com/ingestd/ingestd/internal/schema"
	"github.com/ingestd/ingestd/internal/sqlexec"
	"github.com/ingestd/ingestd/internal/vectorstore"
	"github.com/ingestd/ingestd/internal/vectorwriter"
)

// pipeline bundles the constructed orchestrator with the resources its
// dependencies hold open, so callers can defer a single Close.
type pipeline struct {
	orch *orchestrator.Orchestrator
	pool *pgxpool.Pool
}

func (p *pipeline) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// buildPipeline loads configuration and constructs every capability adapter,
// wiring them into an Orchestrator: connect storage, then build the
// components layered on top of it, in dependency order.
func buildPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Pretty: true})

	pool, err := pgstore.Connect(ctx, cfg.Relational.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to relational store: %w", err)
	}

	relational := pgstore.New(pool)

	catalog, err := schema.NewCatalog(ctx, relational)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("loading schema catalog: %w", err)
	}
	executor := sqlexec.NewExecutor(relational, catalog)

	objects, err := objectstore.New(cfg.ObjectStore.Root)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("opening object store: %w", err)
	}

	// docStore stays a nil capability.DocumentStore (not a typed-nil
	// *docstore.Store) when documents are disabled, so docingest's
	// `deps.Store != nil` guard behaves correctly.
	var docStore capability.DocumentStore
	if cfg.Document.Enabled() {
		docs, err := docstore.New(cfg.Document.Root(cfg.ObjectStore.Root))
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("opening document store: %w", err)
		}
		docStore = docs
	}

	var plannerFactory docingest.PlannerFactory
	if cfg.PathPlanner.Enabled {
		plannerFactory = func(modality, collectionHint string) capability.PathPlanner {
			return pathplanner.New(modality, collectionHint)
		}
	}

	ingestor := docingest.New(docingest.Dependencies{
		Store:   docStore,
		Objects: objects,
		Planner: plannerFactory,
	})

	var vectors *vectorwriter.Writer
	if cfg.Vector.Persistent() {
		index, err := vectorstore.NewPersistent(cfg.Vector.PersistPath, cfg.Vector.Collection)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("opening persistent vector index: %w", err)
		}
		vectors = vectorwriter.New(index)
	} else {
		index, err := vectorstore.New()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("opening vector index: %w", err)
		}
		vectors = vectorwriter.New(index)
	}

	orch := orchestrator.New(orchestrator.Dependencies{
		Executor:      executor,
		Catalog:       catalog,
		Ingestor:      ingestor,
		Vectors:       vectors,
		DefaultTenant: cfg.DefaultTenantID,
		Logger:        logging.Logger,
	})

	return &pipeline{orch: orch, pool: pool}, nil
}
