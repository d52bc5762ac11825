package forms

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// CollectionForm holds the raw values of a collection submission
type CollectionForm struct {
	Title   string   `form:"title" json:"title" validate:"required,max=255"`
	Recipes []string `form:"recipes" json:"recipes"`
}

// CollectionInput is a cleaned CollectionForm
type CollectionInput struct {
	Title     string
	RecipeIDs []uuid.UUID
}

// RecipeLookup reports which of ids exist
type RecipeLookup func(ids []uuid.UUID) (map[uuid.UUID]bool, error)

// BindCollectionForm reads the collection fields from a submitted body
func BindCollectionForm(d Data) (CollectionForm, error) {
	var f CollectionForm
	if err := bind(&f, d.Values); err != nil {
		return f, err
	}
	f.Title = strings.TrimSpace(f.Title)
	return f, nil
}

// NewCollectionForm returns the initial values of an edit form
func NewCollectionForm(c *models.RecipeCollection) CollectionForm {
	f := CollectionForm{Recipes: []string{}}
	if c == nil {
		return f
	}
	f.Title = c.Title
	for _, r := range c.Recipes {
		f.Recipes = append(f.Recipes, r.ID.String())
	}
	return f
}

// Clean validates the title and resolves the selected recipe ids. The
// membership is required and every id must exist.
func (f CollectionForm) Clean(exists RecipeLookup) (CollectionInput, Errors, error) {
	errs := Errors{}
	validateStruct(f, errs)
	in := CollectionInput{Title: f.Title}

	seen := map[uuid.UUID]bool{}
	for _, raw := range f.Recipes {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.Add("recipes", "“"+raw+"” is not a valid value.")
			return in, errs, nil
		}
		if !seen[id] {
			seen[id] = true
			in.RecipeIDs = append(in.RecipeIDs, id)
		}
	}
	if len(in.RecipeIDs) == 0 {
		errs.Add("recipes", MsgRequired)
		return in, errs, nil
	}

	found, err := exists(in.RecipeIDs)
	if err != nil {
		return in, errs, err
	}
	for _, id := range in.RecipeIDs {
		if !found[id] {
			errs.Add("recipes", invalidChoice(id.String()))
			break
		}
	}
	return in, errs, nil
}
