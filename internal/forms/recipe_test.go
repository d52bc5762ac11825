package forms

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

func validRecipeValues() url.Values {
	return url.Values{
		"title":            {"  Masala Dosa "},
		"servings":         {"4"},
		"preparation_time": {"00:20:00"},
		"total_time":       {"1h"},
		"calories":         {"350"},
		"instructions":     {"Soak rice.\nGrind batter.\nCook on tawa.\n"},
		"cuisine":          {"1"},
		"food_type":        {"1"},
		"difficulty":       {"2"},
		"featured":         {"on"},
	}
}

func cleanRecipe(t *testing.T, values url.Values) (RecipeInput, Errors) {
	t.Helper()
	form, err := BindRecipeForm(Data{Values: values})
	require.NoError(t, err)
	return form.Clean()
}

func TestRecipeFormClean(t *testing.T) {
	in, errs := cleanRecipe(t, validRecipeValues())
	require.True(t, errs.Empty(), "%v", errs)

	assert.Equal(t, "Masala Dosa", in.Title)
	assert.Equal(t, 4, in.Servings)
	assert.Equal(t, 20*time.Minute, in.PreparationTime)
	assert.Equal(t, time.Hour, in.TotalTime)
	assert.Equal(t, models.CuisineSouthIndian, in.Cuisine)
	assert.Equal(t, models.DifficultyMedium, in.Difficulty)
	assert.True(t, in.Featured)

	var r models.Recipe
	in.Apply(&r)
	assert.Equal(t, "Masala Dosa", r.Title)
	assert.Equal(t, 350, r.Calories)
}

func TestRecipeFormRequiredFields(t *testing.T) {
	_, errs := cleanRecipe(t, url.Values{})
	for _, field := range []string{"title", "servings", "preparation_time", "total_time", "calories", "instructions", "cuisine", "food_type", "difficulty"} {
		assert.Equal(t, []string{MsgRequired}, errs[field], field)
	}
	assert.False(t, errs.Has("featured"))
}

func TestRecipeFormRejectsBlankLines(t *testing.T) {
	for _, text := range []string{"Step one\n\nStep two", "Step one\n   \nStep two", "Step one\r\n\r\nStep two"} {
		values := validRecipeValues()
		values.Set("instructions", text)
		_, errs := cleanRecipe(t, values)
		assert.Equal(t, []string{MsgBlankLines}, errs["instructions"], "%q", text)
	}
}

func TestRecipeFormPreparationAfterTotal(t *testing.T) {
	cases := [][2]string{
		{"01:30:00", "01:00:00"},
		{"90m", "1h"},
		{"1 day, 00:00:00", "23:59:59"},
	}
	for _, c := range cases {
		values := validRecipeValues()
		values.Set("preparation_time", c[0])
		values.Set("total_time", c[1])
		_, errs := cleanRecipe(t, values)
		assert.Equal(t, []string{MsgPrepAfterTotal}, errs["preparation_time"], "%v", c)
		assert.False(t, errs.Has("total_time"))
	}

	values := validRecipeValues()
	values.Set("preparation_time", "01:00:00")
	values.Set("total_time", "01:00:00")
	_, errs := cleanRecipe(t, values)
	assert.True(t, errs.Empty(), "equal durations are allowed")
}

func TestRecipeFormFieldErrors(t *testing.T) {
	values := validRecipeValues()
	values.Set("title", strings.Repeat("a", 256))
	values.Set("servings", "-1")
	values.Set("calories", "many")
	values.Set("total_time", "soon")
	values.Set("cuisine", "9")
	values.Set("food_type", "veg")

	_, errs := cleanRecipe(t, values)
	assert.Equal(t, []string{"Ensure this value has at most 255 characters (it has 256)."}, errs["title"])
	assert.Equal(t, []string{MsgMinZero}, errs["servings"])
	assert.Equal(t, []string{MsgInvalidInteger}, errs["calories"])
	assert.Equal(t, []string{MsgInvalidDuration}, errs["total_time"])
	assert.Equal(t, []string{"Select a valid choice. 9 is not one of the available choices."}, errs["cuisine"])
	assert.Equal(t, []string{"Select a valid choice. veg is not one of the available choices."}, errs["food_type"])
	// The cross-field rule needs both durations
	assert.False(t, errs.Has("preparation_time"))
}

func TestRecipeFormRejectsOverflowingPreparationTime(t *testing.T) {
	values := validRecipeValues()
	values.Set("preparation_time", "106752 00:00:00")
	values.Set("total_time", "00:10:00")

	_, errs := cleanRecipe(t, values)
	assert.Equal(t, []string{MsgInvalidDuration}, errs["preparation_time"])
}

func TestNewRecipeFormRoundTrips(t *testing.T) {
	r := &models.Recipe{
		Title: "Rasam", Servings: 2, PreparationTime: 10 * time.Minute, TotalTime: 35 * time.Minute,
		Calories: 120, Instructions: "Boil.", Cuisine: models.CuisineSouthIndian,
		FoodType: models.FoodTypeVegan, Difficulty: models.DifficultyEasy,
	}
	form := NewRecipeForm(r)
	assert.Equal(t, "00:10:00", form.PreparationTime)
	assert.Equal(t, "", form.Featured)

	in, errs := form.Clean()
	require.True(t, errs.Empty(), "%v", errs)
	assert.Equal(t, 35*time.Minute, in.TotalTime)
	assert.False(t, in.Featured)
}
