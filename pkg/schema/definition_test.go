package schema

import (
	"testing"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinition_YAML(t *testing.T) {
	doc := `
name: case-status
description: Support case lifecycle
navigation_rule: "New={Working}, Working=!{New}"
values:
  - label: New
    value: New
  - label: Working
    value: Working
    valid_for: [0]
  - label: Closed
    value: Closed
`
	def, err := ParseDefinition([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "case-status", def.Name)
	assert.Equal(t, "New={Working}, Working=!{New}", def.NavigationRule)
	require.Len(t, def.Values, 3)
	assert.Equal(t, []int{0}, def.Values[1].ValidFor)
	assert.NoError(t, ValidateDefinition(def))
}

func TestParseDefinition_JSON(t *testing.T) {
	def, err := ParseDefinition([]byte(`{"name":"p","values":[{"label":"A","value":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "p", def.Name)
	assert.Equal(t, "a", def.Values[0].Value)
}

func TestMarshalDefinition_RoundTrip(t *testing.T) {
	def := domain.Definition{
		Name:           "p",
		Values:         []domain.PicklistValue{{Label: "A", Value: "a", ValidFor: []int{0}}},
		NavigationRule: "a={a}",
	}
	data, err := MarshalDefinition(def)
	require.NoError(t, err)

	back, err := ParseDefinition(data)
	require.NoError(t, err)
	assert.Equal(t, def, back)
}

func TestValidateDefinition_CollectsEveryFailure(t *testing.T) {
	def := domain.Definition{
		Values: []domain.PicklistValue{
			{Value: "a", ValidFor: []int{9}},
			{Value: ""},
			{Value: "a"},
			{Value: "b,c"},
		},
	}

	err := ValidateDefinition(def)
	require.Error(t, err)

	var keys []string
	for _, e := range ValidationErrors(err) {
		var ve *ValidationError
		require.ErrorAs(t, e, &ve)
		keys = append(keys, ve.Key)
	}
	assert.ElementsMatch(t, []string{
		"name",
		"values[0].valid_for",
		"values[1].value",
		"values[2].value",
		"values[3].value",
	}, keys)
	assert.Contains(t, err.Error(), "5 validation errors")
}
