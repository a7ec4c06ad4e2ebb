package attrmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreSynonyms(t *testing.T) {
	assert.True(t, AreSynonyms("price", "cost"))
	assert.True(t, AreSynonyms("stock", "quantity_available"))
	assert.True(t, AreSynonyms("email", "email_address"))
	assert.False(t, AreSynonyms("name", "age"))
}

func TestNameSimilarityExactAndSynonym(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("name", "name"))
	assert.Equal(t, 0.95, NameSimilarity("cost", "price"))
}

func TestMatchAttributeMapping(t *testing.T) {
	// Existing columns id, name, price, stock; new file has id,
	// product_name, cost, quantity.
	newAttrs := []string{"id", "product_name", "cost", "quantity"}
	existing := []ExistingAttr{
		{Name: "id", PGType: TypeInteger},
		{Name: "name", PGType: TypeVarchar},
		{Name: "price", PGType: TypeNumeric},
		{Name: "stock", PGType: TypeInteger},
	}

	result := Match(newAttrs, existing, nil)

	require.Equal(t, "id", result.Mapping["id"])
	require.Equal(t, "name", result.Mapping["product_name"])
	require.Equal(t, "price", result.Mapping["cost"])
	require.Equal(t, "stock", result.Mapping["quantity"])
	assert.Empty(t, result.NewFields)
	assert.Equal(t, 1.0, result.Score)
}

func TestMatchBareIDSchema(t *testing.T) {
	// Scenario 5: existing table has only "id"; new file has id, email, phone.
	newAttrs := []string{"id", "email", "phone"}
	existing := []ExistingAttr{{Name: "id", PGType: TypeInteger}}

	result := Match(newAttrs, existing, nil)

	assert.Equal(t, "id", result.Mapping["id"])
	assert.ElementsMatch(t, []string{"email", "phone"}, result.NewFields)
}

func TestMatchNeverDoubleMapsExistingAttribute(t *testing.T) {
	// Two very similar new attributes competing for the same existing
	// column must not both win it.
	newAttrs := []string{"cost", "price_amount"}
	existing := []ExistingAttr{{Name: "price", PGType: TypeNumeric}}

	result := Match(newAttrs, existing, nil)

	claimed := map[string]int{}
	for _, e := range result.Mapping {
		claimed[e]++
	}
	for e, n := range claimed {
		assert.LessOrEqualf(t, n, 1, "existing attribute %q mapped more than once", e)
	}
}

func TestMatchSingleIDOnBothSidesSameConcept(t *testing.T) {
	result := Match([]string{"employee_id"}, []ExistingAttr{{Name: "id"}}, nil)
	assert.Equal(t, "id", result.Mapping["employee_id"])
}

func TestMatchScoreExcludesIDAttributes(t *testing.T) {
	newAttrs := []string{"id", "zzz_unmatched_field"}
	existing := []ExistingAttr{{Name: "id"}}
	result := Match(newAttrs, existing, nil)
	// 0 of 1 regular attribute matched -> score 0, even though the ID matched.
	assert.Equal(t, 0.0, result.Score)
	assert.Contains(t, result.NewFields, "zzz_unmatched_field")
}
