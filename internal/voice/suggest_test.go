package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Its-Zach/grandline/pkg/types"
)

func TestSuggestPhoneticMisspelling(t *testing.T) {
	entities := []types.NamedEntity{
		{ID: 1, Name: "Luffy"},
		{ID: 2, Name: "Zoro"},
		{ID: 3, Name: "Nami"},
	}

	// "loofy" shares Double Metaphone codes with "Luffy" and scores well
	// on Jaro-Winkler, so it should surface as a suggestion even though
	// Resolve rejects it.
	_, resolved := Resolve(entities, "loofy")
	assert.False(t, resolved)

	suggestion, ok := Suggest(entities, "loofy")
	assert.True(t, ok)
	assert.Equal(t, "Luffy", suggestion)
}

func TestSuggestCloseSpelling(t *testing.T) {
	entities := []types.NamedEntity{
		{ID: 1, Name: "Alabasta"},
		{ID: 2, Name: "Wano"},
	}

	suggestion, ok := Suggest(entities, "alabaster")
	assert.True(t, ok)
	assert.Equal(t, "Alabasta", suggestion)
}

func TestSuggestNoCandidate(t *testing.T) {
	entities := []types.NamedEntity{{ID: 1, Name: "Luffy"}}

	_, ok := Suggest(entities, "qqq")
	assert.False(t, ok)
}

func TestSuggestEmptyInputs(t *testing.T) {
	entities := []types.NamedEntity{{ID: 1, Name: "Luffy"}}

	_, ok := Suggest(entities, "")
	assert.False(t, ok)

	_, ok = Suggest(nil, "loofy")
	assert.False(t, ok)
}
