package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/ingestd/ingestd/internal/attrmatch"
)

// topCandidateCount is how many ranked candidates get a full AttributeMatcher
// evaluation.
const topCandidateCount = 3

// Decision kind values.
const (
	DecisionSameTable         = "same_table"
	DecisionEvolvedTable      = "evolved_table"
	DecisionEvolvedTableJSONB = "evolved_table_jsonb"
	DecisionNewTable          = "new_table"
)

// evolvedTableThreshold is the floor for either evolution decision
// regardless of the dynamic threshold.
const evolvedTableThreshold = 0.5

// jsonbFieldCutoff is the new-field count above which extra fields are
// folded into a JSONB column instead of individual ADD COLUMNs.
const jsonbFieldCutoff = 3

// newTableNamePrefix and maxTableNameLength bound the synthesized table name
// for a new_table decision.
const newTableNamePrefix = "table_"
const maxTableNameLength = 50

// Decision is the engine's verdict for one incoming attribute set.
type Decision struct {
	Kind       string
	TableName  string // empty when Kind == DecisionNewTable and no name was requested
	Mapping    attrmatch.Mapping
	NewFields  []string
	MatchRatio float64
	Reason     string
}

// DynamicThreshold returns 0.6 for fewer than 10 incoming attributes, 0.8
// otherwise.
func DynamicThreshold(numAttributes int) float64 {
	if numAttributes < 10 {
		return 0.6
	}
	return 0.8
}

// Decide runs the full schema evolution decision procedure.
func Decide(ctx context.Context, catalog Catalog, newAttributes []string, sampleType attrmatch.SampleTypeFunc) (Decision, error) {
	if len(newAttributes) == 0 {
		return Decision{
			Kind:      DecisionNewTable,
			NewFields: newAttributes,
			Reason:    "no attributes provided",
		}, nil
	}

	candidates, err := CandidateTables(ctx, catalog, newAttributes)
	if err != nil {
		return Decision{}, err
	}
	if len(candidates) == 0 {
		return Decision{
			Kind:      DecisionNewTable,
			NewFields: newAttributes,
			Reason:    "no matching tables found",
			TableName: synthesizeTableName(newAttributes),
		}, nil
	}

	tables, err := catalog.Tables(ctx)
	if err != nil {
		return Decision{}, err
	}
	byName := make(map[string]TableDescriptor, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	threshold := DynamicThreshold(len(newAttributes))

	var bestTable string
	var bestResult attrmatch.Result
	bestScore := 0.0
	evaluateN := topCandidateCount
	if len(candidates) < evaluateN {
		evaluateN = len(candidates)
	}
	for _, c := range candidates[:evaluateN] {
		t, ok := byName[c.Table]
		if !ok {
			continue
		}
		existing := make([]attrmatch.ExistingAttr, len(t.Columns))
		for i, col := range t.Columns {
			existing[i] = attrmatch.ExistingAttr{Name: col, PGType: t.Types[col]}
		}
		result := attrmatch.Match(newAttributes, existing, sampleType)
		if result.Score > bestScore {
			bestScore = result.Score
			bestTable = c.Table
			bestResult = result
		}
	}

	if bestTable == "" {
		return Decision{
			Kind:      DecisionNewTable,
			NewFields: newAttributes,
			Reason:    "no suitable match found",
			TableName: synthesizeTableName(newAttributes),
		}, nil
	}

	numNewFields := len(bestResult.NewFields)

	switch {
	case bestScore >= threshold && numNewFields == 0:
		return Decision{
			Kind:       DecisionSameTable,
			TableName:  bestTable,
			Mapping:    bestResult.Mapping,
			NewFields:  bestResult.NewFields,
			MatchRatio: bestScore,
			Reason:     fmt.Sprintf("perfect match (%.0f%%) with no new fields", bestScore*100),
		}, nil
	case bestScore >= evolvedTableThreshold && numNewFields <= jsonbFieldCutoff:
		return Decision{
			Kind:       DecisionEvolvedTable,
			TableName:  bestTable,
			Mapping:    bestResult.Mapping,
			NewFields:  bestResult.NewFields,
			MatchRatio: bestScore,
			Reason:     fmt.Sprintf("good match (%.0f%%) with %d new field(s) (<=%d)", bestScore*100, numNewFields, jsonbFieldCutoff),
		}, nil
	case bestScore >= evolvedTableThreshold && numNewFields > jsonbFieldCutoff:
		return Decision{
			Kind:       DecisionEvolvedTableJSONB,
			TableName:  bestTable,
			Mapping:    bestResult.Mapping,
			NewFields:  bestResult.NewFields,
			MatchRatio: bestScore,
			Reason:     fmt.Sprintf("good match (%.0f%%) with %d new fields (>%d, using JSONB)", bestScore*100, numNewFields, jsonbFieldCutoff),
		}, nil
	default:
		return Decision{
			Kind:       DecisionNewTable,
			NewFields:  newAttributes,
			MatchRatio: bestScore,
			Reason:     fmt.Sprintf("low match (%.0f%%) below threshold (%.0f%%)", bestScore*100, threshold*100),
			TableName:  synthesizeTableName(newAttributes),
		}, nil
	}
}

// synthesizeTableName builds a name from the first three normalized
// attributes, prefixed table_, truncated to 50 characters.
func synthesizeTableName(attrs []string) string {
	n := 3
	if len(attrs) < n {
		n = len(attrs)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = attrmatch.Normalize(attrs[i])
	}
	name := newTableNamePrefix + strings.Join(parts, "_")
	if len(name) > maxTableNameLength {
		name = name[:maxTableNameLength]
	}
	return name
}
