// Package capability defines the storage and processing interfaces the
// ingestion pipeline depends on, so concrete stores (Postgres, bleve,
// chromem-go, local disk) can be swapped without touching component logic.
package capability

import "context"

// ColumnInfo describes one column as reported by information_schema.
type ColumnInfo struct {
	Name      string
	PGType    string
	MaxLen    int // character_maximum_length, 0 if not applicable
	Nullable  bool
	IsPrimary bool
}

// RelationalStore is the SQL-backed store the schema engine and executor
// read and write against.
type RelationalStore interface {
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]ColumnInfo, error)
	CreateTable(ctx context.Context, ddl string) error
	AlterTableAddColumn(ctx context.Context, table, column, pgType string) error
	InsertBatch(ctx context.Context, table string, columns []string, rows [][]any, onConflict string) (attempted, inserted int, err error)
	Max(ctx context.Context, table, column string) (int64, error)
	Exec(ctx context.Context, sqlText string) error
}

// Cursor iterates DocumentStore query results.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode() (map[string]any, error)
	Close() error
}

// DocumentStore is the unstructured-document persistence layer unmapped
// rows are written to.
type DocumentStore interface {
	InsertOne(ctx context.Context, collection string, doc map[string]any) (string, error)
	InsertMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error)
	Find(ctx context.Context, collection string, filter map[string]any, limit int) (Cursor, error)
}

// Node is one vector-index entry to upsert.
type Node struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  map[string]any
}

// ScoredNode is a Node returned from a similarity query, with its score.
type ScoredNode struct {
	Node
	Score float32
}

// VectorIndex is the embedding store ingestion writes to and the search
// path queries.
type VectorIndex interface {
	Upsert(ctx context.Context, nodes []Node) error
	Query(ctx context.Context, embedding []float32, k int) ([]ScoredNode, error)
	Available() bool
}

// ObjectStore persists media file bytes outside the relational/document
// stores.
type ObjectStore interface {
	CopyInto(ctx context.Context, src, destRelative string) (finalDest string, err error)
	Resolve(relative string) (string, error)
}

// EncodedFile is the result of embedding a non-text file.
type EncodedFile struct {
	Embedding []float32
	Modality  string
}

// Embedder produces vector embeddings for text and media.
type Embedder interface {
	EncodeText(ctx context.Context, text string) ([]float32, error)
	EncodeFile(ctx context.Context, path string, modality string) (EncodedFile, error)
	Available() bool
}

// TextExtractor pulls plain text out of a document file (pdf, docx, etc).
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PlannedPath is where a file should ultimately live, as decided by a
// PathPlanner.
type PlannedPath struct {
	RelativePath   string
	CollectionHint string
}

// PathPlanner decides storage placement for ingested files: identity
// implementation by default, pluggable for future routing rules.
type PathPlanner interface {
	Plan(ctx context.Context, description, filename string) (PlannedPath, error)
}
