package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTabularIsSQL(t *testing.T) {
	result := Classify(Input{
		Kind:        KindTabular,
		ColumnNames: []string{"id", "name", "price"},
	})
	assert.Equal(t, "SQL", result.Classification)
	assert.Greater(t, result.SQLScore, result.NoSQLScore)
}

func TestClassifyJSONFlatArrayIdenticalKeysIsSQL(t *testing.T) {
	parsed := []any{
		map[string]any{"id": "1", "name": "alice"},
		map[string]any{"id": "2", "name": "bob"},
	}
	result := Classify(Input{
		Kind:        KindJSON,
		ColumnNames: []string{"id", "name"},
		Parsed:      parsed,
	})
	assert.Equal(t, "SQL", result.Classification)
}

func TestClassifyJSONDivergentKeysIsNoSQL(t *testing.T) {
	parsed := []any{
		map[string]any{"id": "1", "name": "alice"},
		map[string]any{"id": "2", "nickname": "bob"},
	}
	result := Classify(Input{Kind: KindJSON, Parsed: parsed})
	assert.Equal(t, "NoSQL", result.Classification)
}

func TestClassifyJSONNestedIsNoSQL(t *testing.T) {
	parsed := map[string]any{
		"name":    "alice",
		"address": map[string]any{"city": "nyc"},
	}
	result := Classify(Input{Kind: KindJSON, Parsed: parsed})
	assert.Equal(t, "NoSQL", result.Classification)
}

func TestClassifyLargeStringFieldAddsNoSQLEvidence(t *testing.T) {
	bigText := make([]byte, 600)
	for i := range bigText {
		bigText[i] = 'x'
	}
	parsed := map[string]any{"description": string(bigText)}
	result := Classify(Input{Kind: KindJSON, Parsed: parsed})

	var found bool
	for _, sig := range result.Signals {
		if sig.NoSQLDelta > 0 && sig.Name == "string field with length > 500 in sample" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestClassifyXMLRepeatingUniformSiblingsIsSQL(t *testing.T) {
	result := Classify(Input{
		Kind:           KindXML,
		XMLSiblingTags: []string{"item", "item", "item"},
		XMLSiblingAttrs: []map[string]struct{}{
			{"id": {}}, {"id": {}}, {"id": {}},
		},
	})
	assert.Equal(t, "SQL", result.Classification)
}

func TestClassifyHTMLTableWithHeaderIsSQL(t *testing.T) {
	result := Classify(Input{Kind: KindHTML, HTMLHasTableHeader: true})
	assert.Equal(t, "SQL", result.Classification)
}

func TestClassifyPlainTextLongNoDelimiterIsNoSQL(t *testing.T) {
	longText := make([]byte, 6000)
	for i := range longText {
		longText[i] = 'a'
	}
	result := Classify(Input{Kind: KindText, TextContent: string(longText)})
	assert.Equal(t, "NoSQL", result.Classification)
}

func TestClassifyPlainTextWithDelimiterRegularityReattemptsAsSQL(t *testing.T) {
	result := Classify(Input{
		Kind:                       KindText,
		TextContent:                "a,b,c\n1,2,3\n",
		TextHasDelimiterRegularity: true,
	})
	assert.Equal(t, "SQL", result.Classification)
}

func TestClassifyIDLikeAttributeAddsSQLEvidence(t *testing.T) {
	result := Classify(Input{Kind: KindJSON, ColumnNames: []string{"user_id", "name"}})
	var found bool
	for _, sig := range result.Signals {
		if sig.SQLDelta > 0 && sig.Name == "contains ID-like attribute" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestClassifyConfidenceIsAbsoluteNormalizedDelta(t *testing.T) {
	result := Classify(Input{Kind: KindTabular})
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}
