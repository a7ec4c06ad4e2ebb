package docingest

import (
	_ "embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// taxonomyFallback is returned when no keyword from any category matches.
// The fixed taxonomy includes "general" as the catch-all, not present as
// its own keyword list.
const taxonomyFallback = "general"

// taxonomy maps collection name -> its keyword list. Loaded once at package
// init from the embedded data file, so the vocabulary can evolve without a
// code change.
var taxonomy map[string][]string

func init() {
	if err := yaml.Unmarshal(taxonomyYAML, &taxonomy); err != nil {
		panic("docingest: failed to parse embedded taxonomy.yaml: " + err.Error())
	}
}

// ClassifyCollection infers a collection_hint by counting, for each
// taxonomy category, how many of its keywords appear as a substring of the
// normalized text. The category with the highest count wins; ties break on
// category name, the alphabetically first one winning. Empty or entirely
// non-matching text returns the "general" fallback.
func ClassifyCollection(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return taxonomyFallback
	}

	categories := make([]string, 0, len(taxonomy))
	for category := range taxonomy {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	best := taxonomyFallback
	bestScore := 0
	for _, category := range categories {
		score := 0
		for _, keyword := range taxonomy[category] {
			if strings.Contains(normalized, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}
	return best
}
