package sqlexec

import (
	"fmt"
	"strings"

	"github.com/ingestd/ingestd/internal/attrmatch"
)

// ColumnDef is one column to emit in a CREATE TABLE statement.
type ColumnDef struct {
	Name       string
	Type       attrmatch.PGType
	VarcharLen int
	PrimaryKey bool
	// Identity marks an integer-typed primary key as GENERATED BY DEFAULT
	// AS IDENTITY instead of a bare PRIMARY KEY, so Postgres owns a real
	// backing sequence and a later insert can omit the column entirely.
	Identity bool
}

// quoteIdent double-quotes a Postgres identifier, escaping embedded quotes.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// BuildCreateTableSQL emits columns in the order given — the order
// attributes first arrived in.
func BuildCreateTableSQL(table string, columns []ColumnDef) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		def := fmt.Sprintf("%s %s", quoteIdent(c.Name), sqlTypeName(c.Type, c.VarcharLen))
		switch {
		case c.PrimaryKey && c.Identity:
			def += " GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
		case c.PrimaryKey:
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", quoteIdent(table), strings.Join(defs, ",\n  "))
}

// extraColumnName is the JSONB overflow column for evolved_table_jsonb
// decisions.
const extraColumnName = "extra"
