package forms

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(ids ...uuid.UUID) RecipeLookup {
	return func(query []uuid.UUID) (map[uuid.UUID]bool, error) {
		found := map[uuid.UUID]bool{}
		for _, q := range query {
			for _, id := range ids {
				if q == id {
					found[q] = true
				}
			}
		}
		return found, nil
	}
}

func cleanCollection(t *testing.T, values url.Values, lookup RecipeLookup) (CollectionInput, Errors) {
	t.Helper()
	form, err := BindCollectionForm(Data{Values: values})
	require.NoError(t, err)
	in, errs, err := form.Clean(lookup)
	require.NoError(t, err)
	return in, errs
}

func TestCollectionFormRequiresRecipes(t *testing.T) {
	_, errs := cleanCollection(t, url.Values{"title": {"Empty"}}, lookupFrom())
	assert.Equal(t, []string{MsgRequired}, errs["recipes"])
}

func TestCollectionFormUnknownRecipe(t *testing.T) {
	known, unknown := uuid.New(), uuid.New()
	_, errs := cleanCollection(t, url.Values{
		"title":   {"Mixed"},
		"recipes": {known.String(), unknown.String()},
	}, lookupFrom(known))
	assert.Equal(t, []string{"Select a valid choice. " + unknown.String() + " is not one of the available choices."}, errs["recipes"])
}

func TestCollectionFormInvalidID(t *testing.T) {
	_, errs := cleanCollection(t, url.Values{"title": {"Bad"}, "recipes": {"42"}}, lookupFrom())
	assert.Equal(t, []string{"“42” is not a valid value."}, errs["recipes"])
}

func TestCollectionFormDeduplicates(t *testing.T) {
	id := uuid.New()
	in, errs := cleanCollection(t, url.Values{
		"title":   {" Weeknight "},
		"recipes": {id.String(), id.String()},
	}, lookupFrom(id))
	require.True(t, errs.Empty(), "%v", errs)
	assert.Equal(t, "Weeknight", in.Title)
	assert.Equal(t, []uuid.UUID{id}, in.RecipeIDs)
}
