package attrmatch

// PGType is the family of inferred/declared column types the similarity
// scorer reasons about. internal/sqlexec maps its own richer type strings
// down to these families when asking for compatibility.
type PGType string

const (
	TypeInteger   PGType = "integer"
	TypeBigint    PGType = "bigint"
	TypeNumeric   PGType = "numeric"
	TypeReal      PGType = "real"
	TypeVarchar   PGType = "varchar"
	TypeText      PGType = "text"
	TypeChar      PGType = "char"
	TypeBoolean   PGType = "boolean"
	TypeTimestamp PGType = "timestamp"
	TypeDate      PGType = "date"
	TypeTime      PGType = "time"
	TypeUnknown   PGType = ""
)

var numericFamily = map[PGType]bool{TypeInteger: true, TypeBigint: true, TypeNumeric: true, TypeReal: true}
var textFamily = map[PGType]bool{TypeVarchar: true, TypeText: true, TypeChar: true}
var datetimeFamily = map[PGType]bool{TypeTimestamp: true, TypeDate: true, TypeTime: true}

// TypeCompatibility scores how compatible two column type families are:
// 1.0 exact, 0.9 within the same numeric or text family, 0.8 within the
// datetime family, 0.3 otherwise. Callers that have no sample value to
// infer a type from should use TypeCompatibilityNoSample.
func TypeCompatibility(a, b PGType) float64 {
	if a == b {
		return 1.0
	}
	if numericFamily[a] && numericFamily[b] {
		return 0.9
	}
	if textFamily[a] && textFamily[b] {
		return 0.9
	}
	if datetimeFamily[a] && datetimeFamily[b] {
		return 0.8
	}
	return 0.3
}

// TypeCompatibilityNoSample is the compatibility score used when an existing
// type is known but there is no sample value to infer the incoming type
// from.
const TypeCompatibilityNoSample = 0.7

// TypeCompatibilityUnknown is used when the existing column's type is
// unknown, whether or not a sample value is available; similarity falls
// back to name similarity alone by treating type compatibility as
// neutral-favorable.
const TypeCompatibilityUnknown = 1.0

// NameSimilarity scores two attribute names: 1.0 for exact normalized
// equality, 0.95 for same synonym class, otherwise the maximum of
// token-overlap Jaccard (weighted 0.8) and SequenceMatcher ratio on
// normalized forms.
func NameSimilarity(a, b string) float64 {
	normA, normB := Normalize(a), Normalize(b)
	if normA == normB {
		return 1.0
	}
	if AreSynonyms(a, b) {
		return 0.95
	}
	seq := Ratio(normA, normB)
	overlap := tokenOverlap(normA, normB) * 0.8
	if seq > overlap {
		return seq
	}
	return overlap
}

func tokenOverlap(normA, normB string) float64 {
	ta, tb := Tokenize(normA), Tokenize(normB)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	intersection := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// CombinedScore computes the 0.7/0.3 weighted combination of name
// similarity and type compatibility.
func CombinedScore(nameSim, typeCompat float64) float64 {
	return 0.7*nameSim + 0.3*typeCompat
}
