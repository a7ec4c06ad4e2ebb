package schema

import (
	"context"
	"testing"

	"github.com/ingestd/ingestd/internal/attrmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	tables []TableDescriptor
}

func (f *fakeCatalog) Tables(ctx context.Context) ([]TableDescriptor, error) {
	return f.tables, nil
}

func (f *fakeCatalog) Refresh(ctx context.Context) error { return nil }

func TestDynamicThreshold(t *testing.T) {
	assert.Equal(t, 0.6, DynamicThreshold(5))
	assert.Equal(t, 0.6, DynamicThreshold(9))
	assert.Equal(t, 0.8, DynamicThreshold(10))
	assert.Equal(t, 0.8, DynamicThreshold(20))
}

func TestDecideNoAttributesIsNewTable(t *testing.T) {
	catalog := &fakeCatalog{}
	decision, err := Decide(context.Background(), catalog, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DecisionNewTable, decision.Kind)
}

func TestDecideNoCandidatesIsNewTableWithSynthesizedName(t *testing.T) {
	catalog := &fakeCatalog{}
	decision, err := Decide(context.Background(), catalog, []string{"widget_name", "widget_price"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DecisionNewTable, decision.Kind)
	assert.Equal(t, "table_widget_name_widget_price", decision.TableName)
}

func TestDecidePerfectMatchIsSameTable(t *testing.T) {
	catalog := &fakeCatalog{tables: []TableDescriptor{
		{Name: "products", Columns: []string{"id", "name", "price"}, Types: map[string]attrmatch.PGType{
			"id": attrmatch.TypeInteger, "name": attrmatch.TypeVarchar, "price": attrmatch.TypeNumeric,
		}},
	}}
	decision, err := Decide(context.Background(), catalog, []string{"id", "name", "price"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DecisionSameTable, decision.Kind)
	assert.Equal(t, "products", decision.TableName)
}

func TestDecideGoodMatchFewNewFieldsIsEvolvedTable(t *testing.T) {
	catalog := &fakeCatalog{tables: []TableDescriptor{
		{Name: "products", Columns: []string{"id", "name", "price"}, Types: map[string]attrmatch.PGType{
			"id": attrmatch.TypeInteger, "name": attrmatch.TypeVarchar, "price": attrmatch.TypeNumeric,
		}},
	}}
	decision, err := Decide(context.Background(), catalog, []string{"id", "name", "price", "weight"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DecisionEvolvedTable, decision.Kind)
	assert.Contains(t, decision.NewFields, "weight")
}

func TestDecideGoodMatchManyNewFieldsIsEvolvedTableJSONB(t *testing.T) {
	catalog := &fakeCatalog{tables: []TableDescriptor{
		{Name: "products", Columns: []string{"id", "name", "price", "weight", "color"}, Types: map[string]attrmatch.PGType{
			"id": attrmatch.TypeInteger, "name": attrmatch.TypeVarchar, "price": attrmatch.TypeNumeric,
			"weight": attrmatch.TypeNumeric, "color": attrmatch.TypeVarchar,
		}},
	}}
	decision, err := Decide(context.Background(), catalog, []string{
		"id", "name", "price", "weight", "color", "vendor", "sku", "batch", "origin",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, DecisionEvolvedTableJSONB, decision.Kind)
}

func TestDecideLowMatchIsNewTable(t *testing.T) {
	catalog := &fakeCatalog{tables: []TableDescriptor{
		{Name: "products", Columns: []string{"id", "name"}, Types: map[string]attrmatch.PGType{
			"id": attrmatch.TypeInteger, "name": attrmatch.TypeVarchar,
		}},
	}}
	decision, err := Decide(context.Background(), catalog, []string{"id", "completely_unrelated_field"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DecisionNewTable, decision.Kind)
}

func TestSynthesizeTableNameTruncatesAt50Chars(t *testing.T) {
	name := synthesizeTableName([]string{
		"a_very_long_attribute_name_indeed_quite_long",
		"another_extremely_long_attribute_name_here",
		"yet_another_ridiculously_long_attribute_name",
	})
	assert.LessOrEqual(t, len(name), 50)
	assert.True(t, len(name) > 0)
}
