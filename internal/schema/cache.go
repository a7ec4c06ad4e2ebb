package schema

import (
	"context"
	"fmt"
	"sync"

	"github.com/maypok86/otter"

	"github.com/ingestd/ingestd/internal/attrmatch"
	"github.com/ingestd/ingestd/internal/capability"
)

// schemaJobsTable is the pre-existing bookkeeping table the engine must
// never surface as a candidate or mutate.
const schemaJobsTable = "schema_jobs"

// descriptorCacheWeight bounds the otter cache by descriptor count rather
// than byte size — table descriptors are small and few.
const descriptorCacheWeight = 4096

// relationalCatalog is the Catalog implementation backing production use:
// descriptors are loaded from information_schema via a RelationalStore and
// cached in otter, with a RWMutex serializing refreshes against readers —
// a refresh must finish before any dependent INSERT proceeds, and otter's
// own per-key atomicity doesn't cover a whole-table-set swap.
type relationalCatalog struct {
	store capability.RelationalStore

	mu    sync.RWMutex
	cache otter.Cache[string, TableDescriptor]
	names []string // table names, kept alongside cache for full-Tables() iteration
}

// NewCatalog constructs a Catalog backed by store, performing an initial
// load before returning.
func NewCatalog(ctx context.Context, store capability.RelationalStore) (Catalog, error) {
	cache, err := otter.MustBuilder[string, TableDescriptor](descriptorCacheWeight).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("building descriptor cache: %w", err)
	}
	c := &relationalCatalog{store: store, cache: cache}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *relationalCatalog) Tables(ctx context.Context) ([]TableDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]TableDescriptor, 0, len(c.names))
	for _, name := range c.names {
		if d, ok := c.cache.Get(name); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *relationalCatalog) Refresh(ctx context.Context) error {
	tableNames, err := c.store.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	descriptors := make(map[string]TableDescriptor, len(tableNames))
	var names []string
	for _, name := range tableNames {
		if name == schemaJobsTable {
			continue
		}
		cols, err := c.store.ListColumns(ctx, name)
		if err != nil {
			return fmt.Errorf("listing columns for %q: %w", name, err)
		}
		desc := TableDescriptor{
			Name:    name,
			Columns: make([]string, len(cols)),
			Types:   make(map[string]attrmatch.PGType, len(cols)),
		}
		for i, col := range cols {
			desc.Columns[i] = col.Name
			desc.Types[col.Name] = mapPGType(col.PGType)
			if col.IsPrimary {
				desc.PrimaryKey = col.Name
			}
		}
		descriptors[name] = desc
		names = append(names, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
	for name, desc := range descriptors {
		c.cache.Set(name, desc)
	}
	c.names = names
	return nil
}

// mapPGType maps information_schema's data_type strings down to the
// coarser PGType families attrmatch reasons about.
func mapPGType(dataType string) attrmatch.PGType {
	switch dataType {
	case "integer":
		return attrmatch.TypeInteger
	case "bigint":
		return attrmatch.TypeBigint
	case "numeric", "decimal":
		return attrmatch.TypeNumeric
	case "real", "double precision":
		return attrmatch.TypeReal
	case "character varying":
		return attrmatch.TypeVarchar
	case "text":
		return attrmatch.TypeText
	case "character":
		return attrmatch.TypeChar
	case "boolean":
		return attrmatch.TypeBoolean
	case "timestamp without time zone", "timestamp with time zone":
		return attrmatch.TypeTimestamp
	case "date":
		return attrmatch.TypeDate
	case "time without time zone", "time with time zone":
		return attrmatch.TypeTime
	default:
		return attrmatch.TypeUnknown
	}
}
