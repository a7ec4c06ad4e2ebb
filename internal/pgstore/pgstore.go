// Package pgstore implements capability.RelationalStore against a real
// Postgres database via pgx/v5's connection pool.
package pgstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ingestd/ingestd/internal/capability"
)

// DefaultPoolConfig sets conservative connection-pool defaults sized for a
// single ingest daemon rather than a load-generation fleet.
func DefaultPoolConfig(connString string) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	return config, nil
}

// Connect establishes and verifies a connection pool against connString.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := DefaultPoolConfig(connString)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Store implements capability.RelationalStore against a pgxpool.Pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ capability.RelationalStore = (*Store)(nil)

const listTablesSQL = `
SELECT table_name FROM information_schema.tables
WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
ORDER BY table_name`

func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

const listColumnsSQL = `
SELECT
	c.column_name,
	c.data_type,
	COALESCE(c.character_maximum_length, 0),
	(c.is_nullable = 'YES'),
	(pk.attname IS NOT NULL)
FROM information_schema.columns c
LEFT JOIN (
	SELECT a.attname
	FROM pg_index i
	JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
	WHERE i.indrelid = $1::regclass AND i.indisprimary
) pk ON pk.attname = c.column_name
WHERE c.table_schema = 'public' AND c.table_name = $1
ORDER BY c.ordinal_position`

func (s *Store) ListColumns(ctx context.Context, table string) ([]capability.ColumnInfo, error) {
	rows, err := s.pool.Query(ctx, listColumnsSQL, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns for %q: %w", table, err)
	}
	defer rows.Close()

	var cols []capability.ColumnInfo
	for rows.Next() {
		var c capability.ColumnInfo
		if err := rows.Scan(&c.Name, &c.PGType, &c.MaxLen, &c.Nullable, &c.IsPrimary); err != nil {
			return nil, fmt.Errorf("scanning column of %q: %w", table, err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *Store) CreateTable(ctx context.Context, ddl string) error {
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("executing create table: %w", err)
	}
	return nil
}

func (s *Store) AlterTableAddColumn(ctx context.Context, table, column, pgType string) error {
	sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", quoteIdent(table), quoteIdent(column), pgType)
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("altering table %q: %w", table, err)
	}
	return nil
}

// InsertBatch inserts rows via a single multi-VALUES INSERT statement (the
// caller has already grouped rows into batches of bounded size). attempted
// is always len(rows); inserted reflects the command tag's affected-row
// count, which is lower than attempted exactly when onConflict suppressed
// duplicates.
func (s *Store) InsertBatch(ctx context.Context, table string, columns []string, rows [][]any, onConflict string) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	quotedCols := make([]string, len(columns))
	for i, c := range columns {
		quotedCols[i] = quoteIdent(c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", quoteIdent(table), strings.Join(quotedCols, ", "))

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			args = append(args, v)
			fmt.Fprintf(&sb, "$%d", len(args))
		}
		sb.WriteByte(')')
	}
	if onConflict != "" {
		sb.WriteByte(' ')
		sb.WriteString(onConflict)
	}

	tag, err := s.pool.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, 0, fmt.Errorf("inserting into %q: %w", table, err)
	}
	return len(rows), int(tag.RowsAffected()), nil
}

const maxSQL = `SELECT COALESCE(MAX(%s), 0) FROM %s`

func (s *Store) Max(ctx context.Context, table, column string) (int64, error) {
	var max int64
	sql := fmt.Sprintf(maxSQL, quoteIdent(column), quoteIdent(table))
	if err := s.pool.QueryRow(ctx, sql).Scan(&max); err != nil {
		return 0, fmt.Errorf("reading max(%s) from %q: %w", column, table, err)
	}
	return max, nil
}

func (s *Store) Exec(ctx context.Context, sqlText string) error {
	if _, err := s.pool.Exec(ctx, sqlText); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
