package sqlexec

import (
	"github.com/ingestd/ingestd/internal/attrmatch"
	"github.com/ingestd/ingestd/internal/model"
)

// inferenceSampleSize caps how many non-null sample values participate in
// type inference.
const inferenceSampleSize = 100

// textToVarcharCutoff is the max string length still eligible for VARCHAR;
// anything longer becomes TEXT.
const textToVarcharCutoff = varcharCap

// varcharRoundingUnit and varcharCap implement "n rounded up to the next 50
// and capped at 1000".
const varcharRoundingUnit = 50
const varcharCap = 1000
const defaultVarcharLen = 50

// InferColumnType infers a Postgres column type from a column's sample
// values. Returns the type family and, for VARCHAR, its length parameter
// (ignored otherwise).
func InferColumnType(samples []model.Scalar) (attrmatch.PGType, int) {
	nonNull := make([]model.Scalar, 0, len(samples))
	for _, s := range samples {
		if !s.IsNull() {
			nonNull = append(nonNull, s)
		}
	}
	if len(nonNull) == 0 {
		return attrmatch.TypeText, 0
	}
	if len(nonNull) > inferenceSampleSize {
		nonNull = nonNull[:inferenceSampleSize]
	}

	kinds := make(map[model.ScalarKind]bool)
	for _, s := range nonNull {
		kinds[s.Kind] = true
	}

	if len(kinds) == 1 {
		for kind := range kinds {
			return singleKindType(kind, nonNull)
		}
	}

	if len(kinds) == 2 && kinds[model.KindInt] && kinds[model.KindReal] {
		return attrmatch.TypeReal, 0
	}

	return attrmatch.TypeText, 0
}

func singleKindType(kind model.ScalarKind, samples []model.Scalar) (attrmatch.PGType, int) {
	switch kind {
	case model.KindBool:
		return attrmatch.TypeBoolean, 0
	case model.KindInt:
		return attrmatch.TypeInteger, 0
	case model.KindReal:
		return attrmatch.TypeNumeric, 0
	case model.KindTimestamp:
		return attrmatch.TypeTimestamp, 0
	case model.KindText:
		return varcharOrText(samples)
	default:
		return attrmatch.TypeText, 0
	}
}

func varcharOrText(samples []model.Scalar) (attrmatch.PGType, int) {
	maxLen := 0
	for _, s := range samples {
		if len(s.Text) > maxLen {
			maxLen = len(s.Text)
		}
	}
	if maxLen > textToVarcharCutoff {
		return attrmatch.TypeText, 0
	}
	if maxLen == 0 {
		return attrmatch.TypeVarchar, defaultVarcharLen
	}
	rounded := ((maxLen / varcharRoundingUnit) + 1) * varcharRoundingUnit
	if rounded > varcharCap {
		rounded = varcharCap
	}
	return attrmatch.TypeVarchar, rounded
}
