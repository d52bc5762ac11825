package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// RecipeForm holds the raw values of the recipe fields
type RecipeForm struct {
	Title           string `form:"title" json:"title" validate:"required,max=255"`
	Servings        string `form:"servings" json:"servings" validate:"required"`
	PreparationTime string `form:"preparation_time" json:"preparation_time" validate:"required"`
	TotalTime       string `form:"total_time" json:"total_time" validate:"required"`
	Calories        string `form:"calories" json:"calories" validate:"required"`
	Instructions    string `form:"instructions" json:"instructions" validate:"required"`
	Cuisine         string `form:"cuisine" json:"cuisine" validate:"required"`
	FoodType        string `form:"food_type" json:"food_type" validate:"required"`
	Difficulty      string `form:"difficulty" json:"difficulty" validate:"required"`
	Featured        string `form:"featured" json:"featured"`
}

// RecipeInput is a cleaned RecipeForm
type RecipeInput struct {
	Title           string
	Servings        int
	PreparationTime time.Duration
	TotalTime       time.Duration
	Calories        int
	Instructions    string
	Cuisine         models.Cuisine
	FoodType        models.FoodType
	Difficulty      models.Difficulty
	Featured        bool
}

// Apply copies the cleaned values onto r
func (in RecipeInput) Apply(r *models.Recipe) {
	r.Title = in.Title
	r.Servings = in.Servings
	r.PreparationTime = in.PreparationTime
	r.TotalTime = in.TotalTime
	r.Calories = in.Calories
	r.Instructions = in.Instructions
	r.Cuisine = in.Cuisine
	r.FoodType = in.FoodType
	r.Difficulty = in.Difficulty
	r.Featured = in.Featured
}

// BindRecipeForm reads the recipe fields from a submitted body
func BindRecipeForm(d Data) (RecipeForm, error) {
	var f RecipeForm
	if err := bind(&f, d.Values); err != nil {
		return f, err
	}
	f.trim()
	return f, nil
}

// NewRecipeForm returns the initial values of an edit form
func NewRecipeForm(r *models.Recipe) RecipeForm {
	if r == nil {
		return RecipeForm{}
	}
	f := RecipeForm{
		Title:           r.Title,
		Servings:        strconv.Itoa(r.Servings),
		PreparationTime: DurationString(r.PreparationTime),
		TotalTime:       DurationString(r.TotalTime),
		Calories:        strconv.Itoa(r.Calories),
		Instructions:    r.Instructions,
		Cuisine:         strconv.Itoa(int(r.Cuisine)),
		FoodType:        strconv.Itoa(int(r.FoodType)),
		Difficulty:      strconv.Itoa(int(r.Difficulty)),
	}
	if r.Featured {
		f.Featured = "on"
	}
	return f
}

func (f *RecipeForm) trim() {
	for _, p := range []*string{
		&f.Title, &f.Servings, &f.PreparationTime, &f.TotalTime, &f.Calories,
		&f.Instructions, &f.Cuisine, &f.FoodType, &f.Difficulty, &f.Featured,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// Clean validates every field and the cross-field rules
func (f RecipeForm) Clean() (RecipeInput, Errors) {
	errs := Errors{}
	validateStruct(f, errs)

	in := RecipeInput{
		Title:        f.Title,
		Instructions: f.Instructions,
		Featured:     parseCheckbox(f.Featured),
	}

	if !errs.Has("servings") {
		in.Servings = cleanNonNegativeInt(f.Servings, "servings", errs)
	}
	if !errs.Has("calories") {
		in.Calories = cleanNonNegativeInt(f.Calories, "calories", errs)
	}

	prepOK := !errs.Has("preparation_time")
	if prepOK {
		in.PreparationTime, prepOK = cleanDuration(f.PreparationTime, "preparation_time", errs)
	}
	totalOK := !errs.Has("total_time")
	if totalOK {
		in.TotalTime, totalOK = cleanDuration(f.TotalTime, "total_time", errs)
	}

	if !errs.Has("instructions") && hasBlankLine(f.Instructions) {
		errs.Add("instructions", MsgBlankLines)
	}

	if !errs.Has("cuisine") {
		if v, ok := cleanChoice(f.Cuisine, "cuisine", errs, func(n int) bool { return models.Cuisine(n).Valid() }); ok {
			in.Cuisine = models.Cuisine(v)
		}
	}
	if !errs.Has("food_type") {
		if v, ok := cleanChoice(f.FoodType, "food_type", errs, func(n int) bool { return models.FoodType(n).Valid() }); ok {
			in.FoodType = models.FoodType(v)
		}
	}
	if !errs.Has("difficulty") {
		if v, ok := cleanChoice(f.Difficulty, "difficulty", errs, func(n int) bool { return models.Difficulty(n).Valid() }); ok {
			in.Difficulty = models.Difficulty(v)
		}
	}

	if prepOK && totalOK && in.PreparationTime > in.TotalTime {
		errs.Add("preparation_time", MsgPrepAfterTotal)
	}

	return in, errs
}

// hasBlankLine reports a line that is empty or only whitespace. A trailing
// line break does not start a new line.
func hasBlankLine(text string) bool {
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			return true
		}
	}
	return false
}

// splitLines splits on \n, \r\n and \r, dropping the empty tail after a
// final line break
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func cleanNonNegativeInt(raw, field string, errs Errors) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, MsgInvalidInteger)
		return 0
	}
	if n < 0 {
		errs.Add(field, MsgMinZero)
		return 0
	}
	return n
}

func cleanDuration(raw, field string, errs Errors) (time.Duration, bool) {
	d, err := ParseDuration(raw)
	if err != nil {
		errs.Add(field, MsgInvalidDuration)
		return 0, false
	}
	return d, true
}

func cleanChoice(raw, field string, errs Errors, valid func(int) bool) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || !valid(n) {
		errs.Add(field, invalidChoice(raw))
		return 0, false
	}
	return n, true
}

func invalidChoice(v string) string {
	return "Select a valid choice. " + v + " is not one of the available choices."
}
