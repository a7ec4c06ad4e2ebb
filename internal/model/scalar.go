// Package model defines the data types shared across the ingestion pipeline:
// the tagged scalar variant carried in rows, the row/attribute/chunk/file
// records, and vector index nodes.
package model

import (
	"fmt"
	"time"
)

// ScalarKind tags the dynamic type carried by a Scalar.
type ScalarKind int

const (
	KindNull ScalarKind = iota
	KindBool
	KindInt
	KindReal
	KindText
	KindTimestamp
)

func (k ScalarKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Scalar is the tagged union of values a Row cell can hold. Exactly one of
// the typed fields is meaningful, selected by Kind.
type Scalar struct {
	Kind ScalarKind
	Bool bool
	Int  int64
	Real float64
	Text string
	Time time.Time
}

func Null() Scalar                 { return Scalar{Kind: KindNull} }
func BoolVal(b bool) Scalar        { return Scalar{Kind: KindBool, Bool: b} }
func IntVal(i int64) Scalar        { return Scalar{Kind: KindInt, Int: i} }
func RealVal(f float64) Scalar     { return Scalar{Kind: KindReal, Real: f} }
func TextVal(s string) Scalar      { return Scalar{Kind: KindText, Text: s} }
func TimeVal(t time.Time) Scalar   { return Scalar{Kind: KindTimestamp, Time: t} }

// IsNull reports whether the scalar carries no value.
func (s Scalar) IsNull() bool { return s.Kind == KindNull }

// Any returns the scalar's value boxed as interface{}, suitable for passing
// to a RelationalStore parameter binder.
func (s Scalar) Any() any {
	switch s.Kind {
	case KindNull:
		return nil
	case KindBool:
		return s.Bool
	case KindInt:
		return s.Int
	case KindReal:
		return s.Real
	case KindText:
		return s.Text
	case KindTimestamp:
		return s.Time
	default:
		return nil
	}
}

// String renders the scalar for display/summarization purposes.
func (s Scalar) String() string {
	switch s.Kind {
	case KindNull:
		return ""
	case KindBool:
		return fmt.Sprintf("%t", s.Bool)
	case KindInt:
		return fmt.Sprintf("%d", s.Int)
	case KindReal:
		return fmt.Sprintf("%g", s.Real)
	case KindText:
		return s.Text
	case KindTimestamp:
		return s.Time.Format(time.RFC3339)
	default:
		return ""
	}
}
