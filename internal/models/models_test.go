package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngredientString(t *testing.T) {
	assert.Equal(t, "1 gms of Salt", RecipeIngredient{Name: "Salt", Quantity: 1, Unit: UnitGrams}.String())
	assert.Equal(t, "0.5 cup of Rice", RecipeIngredient{Name: "Rice", Quantity: 0.5, Unit: UnitCup}.String())
}

func TestCollectionString(t *testing.T) {
	c := RecipeCollection{Title: "Weeknight", Recipes: []Recipe{{Title: "Dal"}, {Title: "Rasam"}}}
	assert.Equal(t, "Weeknight (2 recipes)", c.String())
}

func TestImageString(t *testing.T) {
	img := RecipeImage{Recipe: &Recipe{Title: "Dosa"}}
	assert.Equal(t, "Image for Dosa", img.String())
}

func TestChoiceLabels(t *testing.T) {
	assert.Equal(t, "North Indian", CuisineNorthIndian.Label())
	assert.Equal(t, "Non-Veg", FoodTypeNonVeg.Label())
	assert.Equal(t, "Hard", DifficultyHard.Label())
	assert.Equal(t, "tbsp", UnitTablespoon.Label())

	assert.True(t, Unit(6).Valid())
	assert.False(t, Unit(7).Valid())
	assert.False(t, Cuisine(0).Valid())
}

func TestCuisinesMatching(t *testing.T) {
	assert.Equal(t, []Cuisine{CuisineSouthIndian, CuisineNorthIndian}, CuisinesMatching("INDIAN"))
	assert.Equal(t, []Cuisine{CuisineChinese}, CuisinesMatching("chin"))
	assert.Empty(t, CuisinesMatching("thai"))
}

func TestTotalIngredients(t *testing.T) {
	r := Recipe{Ingredients: []RecipeIngredient{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, 2, r.TotalIngredients())
	assert.Equal(t, "", Recipe{}.String())
}
