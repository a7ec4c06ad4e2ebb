// Package sqlexec implements type inference and CREATE/ALTER/INSERT
// execution against the relational store, driving the single-table
// create/alter/insert state machine the schema engine decides between.
package sqlexec

import (
	"fmt"

	"github.com/ingestd/ingestd/internal/attrmatch"
)

// sqlTypeName renders a PGType family as the literal Postgres DDL type,
// including any parameterization (varchar length).
func sqlTypeName(t attrmatch.PGType, varcharLen int) string {
	switch t {
	case attrmatch.TypeInteger:
		return "INTEGER"
	case attrmatch.TypeBigint:
		return "BIGINT"
	case attrmatch.TypeNumeric:
		return "NUMERIC"
	case attrmatch.TypeReal:
		return "REAL"
	case attrmatch.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", varcharLen)
	case attrmatch.TypeText:
		return "TEXT"
	case attrmatch.TypeChar:
		return "CHAR"
	case attrmatch.TypeBoolean:
		return "BOOLEAN"
	case attrmatch.TypeTimestamp:
		return "TIMESTAMP"
	case attrmatch.TypeDate:
		return "DATE"
	case attrmatch.TypeTime:
		return "TIME"
	default:
		return "TEXT"
	}
}

// isIntegerFamily reports whether t can carry an IDENTITY default, used to
// decide primary-key synthesis strategy.
func isIntegerFamily(t attrmatch.PGType) bool {
	return t == attrmatch.TypeInteger || t == attrmatch.TypeBigint
}
