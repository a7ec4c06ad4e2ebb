package sqlexec

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ingestd/ingestd/internal/attrmatch"
	"github.com/ingestd/ingestd/internal/capability"
	"github.com/ingestd/ingestd/internal/model"
	"github.com/ingestd/ingestd/internal/schema"
)

// insertBatchSize is the row count per InsertBatch call.
const insertBatchSize = 100

// onConflictPKTemplate is the clause passed to InsertBatch when a primary
// key is known, making re-ingestion of the same rows a no-op instead of a
// unique-violation error.
const onConflictPKTemplate = "ON CONFLICT (%s) DO NOTHING"

// alterSuppressNameSimilarity and alterSuppressTypeCompat gate ALTER
// suppression: a new field that is this similar in name and type to an
// existing column is remapped onto it instead of getting its own ADD
// COLUMN.
const alterSuppressNameSimilarity = 0.8
const alterSuppressTypeCompat = 0.7

// Outcome reports what Apply did for one batch.
type Outcome struct {
	TableName string
	Attempted int
	Inserted  int
}

// Executor turns a schema.Decision into the concrete CREATE/ALTER/INSERT
// sequence against a RelationalStore.
type Executor struct {
	store   capability.RelationalStore
	catalog schema.Catalog

	// mu serializes the whole create/alter/insert/refresh sequence for a
	// table so two files discovering the same new table or new column don't
	// race each other's DDL.
	mu sync.Mutex
}

// NewExecutor constructs an Executor against store and the schema catalog
// it must keep in sync after DDL.
func NewExecutor(store capability.RelationalStore, catalog schema.Catalog) *Executor {
	return &Executor{store: store, catalog: catalog}
}

// Apply executes decision against rows, returning how many were attempted
// and actually inserted. explicitPK is the caller-requested primary key
// column for a new_table decision, if any (priority: explicit request →
// first ID attribute → none); pass "" when there is none.
func (e *Executor) Apply(ctx context.Context, decision schema.Decision, newAttributes []string, explicitPK string, rows []model.Row) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch decision.Kind {
	case schema.DecisionNewTable:
		return e.applyNewTable(ctx, decision, newAttributes, explicitPK, rows)
	case schema.DecisionSameTable:
		return e.applyMapped(ctx, decision, rows, nil)
	case schema.DecisionEvolvedTable:
		if err := e.applyAlter(ctx, decision, rows); err != nil {
			return Outcome{}, err
		}
		return e.applyMapped(ctx, decision, rows, nil)
	case schema.DecisionEvolvedTableJSONB:
		if err := e.ensureJSONBColumn(ctx, decision.TableName); err != nil {
			return Outcome{}, err
		}
		return e.applyMapped(ctx, decision, rows, decision.NewFields)
	default:
		return Outcome{}, fmt.Errorf("sqlexec: unknown decision kind %q", decision.Kind)
	}
}

// applyNewTable builds and executes a CREATE TABLE for newAttributes, then
// inserts rows 1:1 against the freshly created columns.
func (e *Executor) applyNewTable(ctx context.Context, decision schema.Decision, newAttributes []string, explicitPK string, rows []model.Row) (Outcome, error) {
	pk := choosePrimaryKey(newAttributes, explicitPK)

	// Column identifiers are normalized at creation time so the persisted
	// schema matches the same canonical form the inverted index and
	// attribute matcher key on, rather than carrying raw header text (e.g.
	// "Product Name") straight into quoted SQL identifiers.
	columns := make([]ColumnDef, len(newAttributes))
	identity := make(attrmatch.Mapping, len(newAttributes))
	for i, attr := range newAttributes {
		pgType, varcharLen := InferColumnType(columnSamples(rows, attr))
		isPK := attr == pk
		col := attrmatch.Normalize(attr)
		columns[i] = ColumnDef{
			Name:       col,
			Type:       pgType,
			VarcharLen: varcharLen,
			PrimaryKey: isPK,
			Identity:   isPK && isIntegerFamily(pgType),
		}
		identity[attr] = col
	}

	ddl := BuildCreateTableSQL(decision.TableName, columns)
	if err := e.store.CreateTable(ctx, ddl); err != nil {
		return Outcome{}, fmt.Errorf("creating table %q: %w", decision.TableName, err)
	}
	if err := e.catalog.Refresh(ctx); err != nil {
		return Outcome{}, fmt.Errorf("refreshing catalog after create: %w", err)
	}

	onConflict := ""
	if pk != "" {
		onConflict = fmt.Sprintf(onConflictPKTemplate, quoteIdent(attrmatch.Normalize(pk)))
	}
	return e.insert(ctx, decision.TableName, identity, nil, onConflict, rows)
}

// applyAlter adds one column per decision.NewFields, unless a new field is
// similar enough in name and inferred type to an already-unmapped existing
// column that it should be remapped onto it instead (ALTER suppression).
func (e *Executor) applyAlter(ctx context.Context, decision schema.Decision, rows []model.Row) error {
	if len(decision.NewFields) == 0 {
		return nil
	}

	tables, err := e.catalog.Tables(ctx)
	if err != nil {
		return fmt.Errorf("listing tables before alter: %w", err)
	}
	var existing schema.TableDescriptor
	for _, t := range tables {
		if t.Name == decision.TableName {
			existing = t
			break
		}
	}

	claimed := make(map[string]bool, len(decision.Mapping))
	for _, target := range decision.Mapping {
		claimed[target] = true
	}

	altered := false
	for _, field := range decision.NewFields {
		pgType, varcharLen := InferColumnType(columnSamples(rows, field))

		remapped := false
		for _, col := range existing.Columns {
			if claimed[col] {
				continue
			}
			if attrmatch.NameSimilarity(field, col) < alterSuppressNameSimilarity {
				continue
			}
			existingType := existing.Types[col]
			typeCompat := attrmatch.TypeCompatibilityNoSample
			if existingType != attrmatch.TypeUnknown {
				typeCompat = attrmatch.TypeCompatibility(pgType, existingType)
			}
			if typeCompat < alterSuppressTypeCompat {
				continue
			}
			decision.Mapping[field] = col
			claimed[col] = true
			remapped = true
			break
		}
		if remapped {
			continue
		}

		if err := e.store.AlterTableAddColumn(ctx, decision.TableName, field, sqlTypeName(pgType, varcharLen)); err != nil {
			return fmt.Errorf("altering table %q to add %q: %w", decision.TableName, field, err)
		}
		decision.Mapping[field] = field
		altered = true
	}

	if !altered {
		return nil
	}
	return e.catalog.Refresh(ctx)
}

// ensureJSONBColumn adds the overflow column if the table doesn't already
// have one.
func (e *Executor) ensureJSONBColumn(ctx context.Context, table string) error {
	cols, err := e.store.ListColumns(ctx, table)
	if err != nil {
		return fmt.Errorf("listing columns for %q: %w", table, err)
	}
	for _, c := range cols {
		if c.Name == extraColumnName {
			return nil
		}
	}
	if err := e.store.AlterTableAddColumn(ctx, table, extraColumnName, "JSONB"); err != nil {
		return fmt.Errorf("adding %q column to %q: %w", extraColumnName, table, err)
	}
	return e.catalog.Refresh(ctx)
}

// applyMapped inserts rows against an existing table using mapping
// (new-attribute -> existing-column) for the matched fields. jsonbFields, if
// non-empty, are packed per-row into the extra JSONB column instead of
// getting their own columns (evolved_table_jsonb).
//
// The target table already exists, so re-ingesting rows already present
// (e.g. re-processing the same file) must not raise a unique violation on
// its primary key: applyMapped looks up the existing PK and applies the
// same ON CONFLICT DO NOTHING suppression applyNewTable uses for a fresh
// table.
func (e *Executor) applyMapped(ctx context.Context, decision schema.Decision, rows []model.Row, jsonbFields []string) (Outcome, error) {
	onConflict, err := e.existingTableConflictClause(ctx, decision.TableName)
	if err != nil {
		return Outcome{}, err
	}

	mapping := decision.Mapping
	if len(jsonbFields) == 0 {
		return e.insert(ctx, decision.TableName, mapping, nil, onConflict, rows)
	}

	jsonbSet := make(map[string]bool, len(jsonbFields))
	for _, f := range jsonbFields {
		jsonbSet[f] = true
	}
	return e.insert(ctx, decision.TableName, mapping, jsonbSet, onConflict, rows)
}

// existingTableConflictClause looks up table's primary key from the cached
// catalog and returns the ON CONFLICT clause to suppress duplicate-PK
// inserts, or "" if the table has no primary key.
func (e *Executor) existingTableConflictClause(ctx context.Context, table string) (string, error) {
	tables, err := e.catalog.Tables(ctx)
	if err != nil {
		return "", fmt.Errorf("listing tables before insert: %w", err)
	}
	for _, t := range tables {
		if t.Name != table {
			continue
		}
		if t.PrimaryKey == "" {
			return "", nil
		}
		return fmt.Sprintf(onConflictPKTemplate, quoteIdent(t.PrimaryKey)), nil
	}
	return "", nil
}

// insert batches rows into table, translating each row's attribute names to
// target column names via mapping (falling back to the attribute's own name
// when unmapped, which is correct for a freshly created table where mapping
// is the identity). Attributes in jsonbFields are excluded from their own
// column and instead packed into the extra JSONB column.
func (e *Executor) insert(ctx context.Context, table string, mapping attrmatch.Mapping, jsonbFields map[string]bool, onConflict string, rows []model.Row) (Outcome, error) {
	if len(rows) == 0 {
		return Outcome{TableName: table}, nil
	}

	targetColumns := collectTargetColumns(mapping, jsonbFields)
	includeExtra := len(jsonbFields) > 0
	columns := targetColumns
	if includeExtra {
		columns = append(append([]string{}, targetColumns...), extraColumnName)
	}

	var total Outcome
	total.TableName = table

	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		values := make([][]any, len(batch))
		for i, row := range batch {
			values[i] = rowValues(row, mapping, targetColumns, jsonbFields, includeExtra)
		}

		attempted, inserted, err := e.store.InsertBatch(ctx, table, columns, values, onConflict)
		if err != nil {
			return Outcome{}, fmt.Errorf("inserting batch into %q: %w", table, err)
		}
		total.Attempted += attempted
		total.Inserted += inserted
	}

	return total, nil
}

// collectTargetColumns returns the deterministic, sorted list of target
// column names that the row values (excluding any JSONB-packed attribute)
// will be bound against.
func collectTargetColumns(mapping attrmatch.Mapping, jsonbFields map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for source, target := range mapping {
		if jsonbFields[source] {
			continue
		}
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}
	sort.Strings(out)
	return out
}

// rowValues builds one positional value slice matching columns' order, plus
// a trailing JSONB-encoded map when includeExtra is set.
func rowValues(row model.Row, mapping attrmatch.Mapping, targetColumns []string, jsonbFields map[string]bool, includeExtra bool) []any {
	bySource := make(map[string]model.Scalar, len(row))
	targetFromSource := make(map[string]string, len(mapping))
	for source, target := range mapping {
		targetFromSource[source] = target
	}
	for source, target := range targetFromSource {
		if scalar, ok := row[source]; ok {
			bySource[target] = scalar
		}
	}

	values := make([]any, 0, len(targetColumns)+1)
	for _, col := range targetColumns {
		if scalar, ok := bySource[col]; ok {
			values = append(values, scalar.Any())
		} else {
			values = append(values, nil)
		}
	}

	if includeExtra {
		extra := make(map[string]any)
		for source := range jsonbFields {
			if scalar, ok := row[source]; ok {
				extra[source] = scalar.Any()
			}
		}
		encoded, err := json.Marshal(extra)
		if err != nil {
			encoded = []byte("{}")
		}
		values = append(values, string(encoded))
	}

	return values
}

// columnSamples pulls one attribute's values out of every row, for type
// inference at CREATE TABLE time.
func columnSamples(rows []model.Row, attr string) []model.Scalar {
	samples := make([]model.Scalar, 0, len(rows))
	for _, row := range rows {
		if v, ok := row[attr]; ok {
			samples = append(samples, v)
		} else {
			samples = append(samples, model.Null())
		}
	}
	return samples
}

// choosePrimaryKey picks a new table's primary key: explicit caller
// request, then the first ID attribute in the input, then none.
func choosePrimaryKey(attrs []string, explicitPK string) string {
	if explicitPK != "" {
		for _, a := range attrs {
			if a == explicitPK {
				return a
			}
		}
	}
	for _, a := range attrs {
		if attrmatch.IsIDAttribute(a) {
			return a
		}
	}
	return ""
}
