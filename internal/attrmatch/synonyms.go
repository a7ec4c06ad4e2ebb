package attrmatch

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var synonymsYAML []byte

// synonymGroups maps group name -> member attribute spellings. Loaded once
// at package init from the embedded data file.
var synonymGroups map[string][]string

// synonymIndex maps a normalized attribute spelling -> its group name, built
// once from synonymGroups for O(1) lookups.
var synonymIndex map[string]string

func init() {
	if err := yaml.Unmarshal(synonymsYAML, &synonymGroups); err != nil {
		panic("attrmatch: failed to parse embedded synonyms.yaml: " + err.Error())
	}
	synonymIndex = make(map[string]string)
	for group, members := range synonymGroups {
		for _, m := range members {
			synonymIndex[Normalize(m)] = group
		}
	}
}

// SynonymGroup returns the synonym class name an attribute belongs to, if
// any.
func SynonymGroup(attr string) (string, bool) {
	g, ok := synonymIndex[Normalize(attr)]
	return g, ok
}

// AreSynonyms reports whether two attribute names belong to the same
// synonym class.
func AreSynonyms(a, b string) bool {
	ga, ok := SynonymGroup(a)
	if !ok {
		return false
	}
	gb, ok := SynonymGroup(b)
	if !ok {
		return false
	}
	return ga == gb
}
