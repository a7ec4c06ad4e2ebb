package attrmatch

import "strings"

// ExistingAttr describes one column of an existing table for matching
// purposes.
type ExistingAttr struct {
	Name   string
	PGType PGType // empty if unknown
}

// Mapping is new-attribute-name -> existing-attribute-name.
type Mapping map[string]string

// SampleTypeFunc returns the inferred type of a new attribute's sample
// value, if one is available.
type SampleTypeFunc func(newAttr string) (PGType, bool)

// Result is the outcome of Match: the mapping, the attributes left
// unmatched, and the match ratio (fraction of *regular* — non-ID —
// attributes that obtained a match).
type Result struct {
	Mapping   Mapping
	NewFields []string
	Score     float64
}

// Match runs the attribute matching procedure: ID attributes are matched to
// ID attributes by exact match, then the
// same-concept rule (exactly one ID on each side), then substring
// containment on the token "id"; regular attributes are matched greedily in
// original order against the best unclaimed existing attribute scoring
// ≥ 0.6.
func Match(newAttrs []string, existing []ExistingAttr, sampleType SampleTypeFunc) Result {
	const matchThreshold = 0.6

	mapping := make(Mapping)
	var newFields []string

	newIDs, newRegular := partitionIDs(newAttrs)
	existingNames := make([]string, len(existing))
	existingByName := make(map[string]ExistingAttr, len(existing))
	for i, e := range existing {
		existingNames[i] = e.Name
		existingByName[e.Name] = e
	}
	existingIDs, existingRegular := partitionIDs(existingNames)

	matchIDAttributes(newIDs, existingIDs, mapping, &newFields)

	claimed := make(map[string]bool)
	for _, e := range mapping {
		claimed[Normalize(e)] = true
	}

	for _, n := range newRegular {
		best, bestScore := "", 0.0
		for _, e := range existingRegular {
			if claimed[Normalize(e)] {
				continue
			}
			score := scoreAttributePair(n, e, existingByName[e], sampleType)
			if score > bestScore {
				best, bestScore = e, score
			}
		}
		if best != "" && bestScore >= matchThreshold {
			mapping[n] = best
			claimed[Normalize(best)] = true
		} else {
			newFields = append(newFields, n)
		}
	}

	score := 0.0
	if len(newRegular) > 0 {
		matched := 0
		for _, n := range newRegular {
			if _, ok := mapping[n]; ok {
				matched++
			}
		}
		score = float64(matched) / float64(len(newRegular))
	} else if len(mapping) > 0 {
		score = 1.0
	}

	return Result{Mapping: mapping, NewFields: newFields, Score: score}
}

func scoreAttributePair(newAttr, existingAttr string, existing ExistingAttr, sampleType SampleTypeFunc) float64 {
	nameSim := NameSimilarity(newAttr, existingAttr)

	typeCompat := TypeCompatibilityUnknown
	if existing.PGType != TypeUnknown {
		if sampleType != nil {
			if newType, ok := sampleType(newAttr); ok {
				typeCompat = TypeCompatibility(newType, existing.PGType)
			} else {
				typeCompat = TypeCompatibilityNoSample
			}
		} else {
			typeCompat = TypeCompatibilityNoSample
		}
	}
	return CombinedScore(nameSim, typeCompat)
}

func partitionIDs(attrs []string) (ids, regular []string) {
	for _, a := range attrs {
		if IsIDAttribute(a) {
			ids = append(ids, a)
		} else {
			regular = append(regular, a)
		}
	}
	return
}

// matchIDAttributes applies the three ID-matching rules in priority order:
// exact normalized equality, the single-ID-on-both-sides same-concept rule,
// then substring containment on "id". Unmatched new IDs are appended to
// newFields.
func matchIDAttributes(newIDs, existingIDs []string, mapping Mapping, newFields *[]string) {
	claimedExisting := make(map[string]bool)

	for _, newID := range newIDs {
		normNew := Normalize(newID)
		matched := false

		for _, existingID := range existingIDs {
			if claimedExisting[existingID] {
				continue
			}
			if Normalize(existingID) == normNew {
				mapping[newID] = existingID
				claimedExisting[existingID] = true
				matched = true
				break
			}
		}

		if !matched && len(newIDs) == 1 && len(existingIDs) == 1 && !claimedExisting[existingIDs[0]] {
			mapping[newID] = existingIDs[0]
			claimedExisting[existingIDs[0]] = true
			matched = true
		}

		if !matched {
			for _, existingID := range existingIDs {
				if claimedExisting[existingID] {
					continue
				}
				normExisting := Normalize(existingID)
				if strings.Contains(normNew, "id") && strings.Contains(normExisting, "id") {
					if strings.Contains(normNew, normExisting) || strings.Contains(normExisting, normNew) {
						mapping[newID] = existingID
						claimedExisting[existingID] = true
						matched = true
						break
					}
				}
			}
		}

		if !matched {
			*newFields = append(*newFields, newID)
		}
	}
}
