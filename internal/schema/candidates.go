package schema

import (
	"context"
	"sort"

	"github.com/ingestd/ingestd/internal/attrmatch"
)

// candidateMinMatches is the floor on matched attributes for a table to be
// considered a candidate at all.
const candidateMinMatches = 1

// semanticPromotionThreshold is the similarity score above which an
// unmatched attribute still promotes a table to candidacy.
const semanticPromotionThreshold = 0.4

// Candidate is one table under consideration, with the set of normalized
// new attributes that matched it (exactly or semantically).
type Candidate struct {
	Table        string
	MatchedAttrs map[string]struct{}
}

// invertedIndex maps a normalized regular (non-ID) attribute name to the set
// of tables that carry a column normalizing to it.
func buildInvertedIndex(tables []TableDescriptor) map[string]map[string]struct{} {
	index := make(map[string]map[string]struct{})
	for _, t := range tables {
		for _, col := range t.Columns {
			if attrmatch.IsIDAttribute(col) {
				continue
			}
			norm := attrmatch.Normalize(col)
			if index[norm] == nil {
				index[norm] = make(map[string]struct{})
			}
			index[norm][t.Name] = struct{}{}
		}
	}
	return index
}

// CandidateTables narrows the full table set down to plausible matches for
// newAttributes: a first pass via the inverted index on exact normalized
// attribute matches, then a semantic pass promoting any table with an
// existing column that is a synonym of, or scores >= semanticPromotionThreshold
// against, a not-yet-matched new attribute. Results are sorted by match
// count, descending.
func CandidateTables(ctx context.Context, catalog Catalog, newAttributes []string) ([]Candidate, error) {
	tables, err := catalog.Tables(ctx)
	if err != nil {
		return nil, err
	}

	var regular []string
	for _, a := range newAttributes {
		if !attrmatch.IsIDAttribute(a) {
			regular = append(regular, a)
		}
	}

	index := buildInvertedIndex(tables)
	matches := make(map[string]map[string]struct{})

	for _, attr := range regular {
		norm := attrmatch.Normalize(attr)
		for table := range index[norm] {
			if matches[table] == nil {
				matches[table] = make(map[string]struct{})
			}
			matches[table][norm] = struct{}{}
		}
	}

	for _, attr := range regular {
		norm := attrmatch.Normalize(attr)
		for _, t := range tables {
			if _, already := matches[t.Name][norm]; already {
				continue
			}
			for _, existingCol := range t.Columns {
				if attrmatch.IsIDAttribute(existingCol) {
					continue
				}
				normExisting := attrmatch.Normalize(existingCol)
				if norm == normExisting || attrmatch.AreSynonyms(attr, existingCol) {
					addMatch(matches, t.Name, norm)
					break
				}
				if attrmatch.NameSimilarity(attr, existingCol) >= semanticPromotionThreshold {
					addMatch(matches, t.Name, norm)
					break
				}
			}
		}
	}

	var candidates []Candidate
	for table, matched := range matches {
		if len(matched) >= candidateMinMatches {
			candidates = append(candidates, Candidate{Table: table, MatchedAttrs: matched})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i].MatchedAttrs) > len(candidates[j].MatchedAttrs)
	})
	return candidates, nil
}

func addMatch(matches map[string]map[string]struct{}, table, norm string) {
	if matches[table] == nil {
		matches[table] = make(map[string]struct{})
	}
	matches[table][norm] = struct{}{}
}
