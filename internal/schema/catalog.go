// Package schema implements the schema evolution engine: inverted-index
// candidate retrieval, per-candidate attribute matching, and the
// same_table/evolved_table/evolved_table_jsonb/new_table decision table.
package schema

import (
	"context"

	"github.com/ingestd/ingestd/internal/attrmatch"
)

// TableDescriptor is what the engine knows about one existing table: its
// column names, inferred/declared Postgres type per column, and its primary
// key column, if any.
type TableDescriptor struct {
	Name       string
	Columns    []string
	Types      map[string]attrmatch.PGType
	PrimaryKey string
}

// Catalog is the descriptor-cache capability the engine depends on — an
// injected interface rather than a concrete store, so tests can substitute
// an in-memory fake. The concrete implementation, internal/schema/cache.go,
// refreshes from Postgres information_schema via a RelationalStore and
// caches with otter.
type Catalog interface {
	// Tables returns every known table descriptor, excluding schema_jobs.
	Tables(ctx context.Context) ([]TableDescriptor, error)
	// Refresh reloads descriptors from the backing store and swaps them in,
	// blocking readers only during the swap. It returns once the new
	// descriptors are visible, so an INSERT issued after it sees them.
	Refresh(ctx context.Context) error
}
