package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
)

// UserView is the public part of a user
type UserView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func userView(u models.User) UserView {
	return UserView{ID: u.ID, Username: u.Username}
}

// ChoiceView is one resolved enumeration value
type ChoiceView struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// ChoiceLists are the option lists of the filter and edit forms
type ChoiceLists struct {
	Cuisine    []models.Choice `json:"cuisine"`
	FoodType   []models.Choice `json:"food_type"`
	Difficulty []models.Choice `json:"difficulty"`
	Unit       []models.Choice `json:"unit,omitempty"`
}

func filterChoices() ChoiceLists {
	return ChoiceLists{
		Cuisine:    models.CuisineChoices,
		FoodType:   models.FoodTypeChoices,
		Difficulty: models.DifficultyChoices,
	}
}

func formChoices() ChoiceLists {
	c := filterChoices()
	c.Unit = models.UnitChoices
	return c
}

// RecipeSummary is a recipe as shown in lists
type RecipeSummary struct {
	ID              uuid.UUID  `json:"id"`
	URL             string     `json:"url"`
	Title           string     `json:"title"`
	Author          UserView   `json:"author"`
	Servings        int        `json:"servings"`
	PreparationTime string     `json:"preparation_time"`
	TotalTime       string     `json:"total_time"`
	Calories        int        `json:"calories"`
	Cuisine         ChoiceView `json:"cuisine"`
	FoodType        ChoiceView `json:"food_type"`
	Difficulty      ChoiceView `json:"difficulty"`
	Featured        bool       `json:"featured"`
	CreatedAt       time.Time  `json:"created_at"`
}

func recipeSummary(r models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:              r.ID,
		URL:             recipeURL(r.ID),
		Title:           r.Title,
		Author:          userView(r.Author),
		Servings:        r.Servings,
		PreparationTime: forms.FormatDuration(r.PreparationTime),
		TotalTime:       forms.FormatDuration(r.TotalTime),
		Calories:        r.Calories,
		Cuisine:         ChoiceView{int(r.Cuisine), r.Cuisine.Label()},
		FoodType:        ChoiceView{int(r.FoodType), r.FoodType.Label()},
		Difficulty:      ChoiceView{int(r.Difficulty), r.Difficulty.Label()},
		Featured:        r.Featured,
		CreatedAt:       r.CreatedAt,
	}
}

type IngredientView struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Quantity float64    `json:"quantity"`
	Unit     ChoiceView `json:"unit"`
	Optional bool       `json:"optional"`
	Display  string     `json:"display"`
}

type ImageView struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Display     string    `json:"display"`
}

type CollectionRef struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Title string    `json:"title"`
}

// RecipeDetail is a recipe with its ingredients, images and collections
type RecipeDetail struct {
	RecipeSummary
	Instructions     string           `json:"instructions"`
	Ingredients      []IngredientView `json:"ingredients"`
	TotalIngredients int              `json:"total_ingredients"`
	Images           []ImageView      `json:"images"`
	Collections      []CollectionRef  `json:"collections"`
	IsOwner          bool             `json:"is_owner"`
	EditURL          string           `json:"edit_url,omitempty"`
	DeleteURL        string           `json:"delete_url,omitempty"`
}

func recipeDetail(r *models.Recipe, store storage.Storage, viewer uuid.UUID) RecipeDetail {
	d := RecipeDetail{
		RecipeSummary:    recipeSummary(*r),
		Instructions:     r.Instructions,
		Ingredients:      make([]IngredientView, 0, len(r.Ingredients)),
		TotalIngredients: r.TotalIngredients(),
		Images:           make([]ImageView, 0, len(r.Images)),
		Collections:      make([]CollectionRef, 0, len(r.Collections)),
		IsOwner:          viewer != uuid.Nil && viewer == r.AuthorID,
	}
	for _, ing := range r.Ingredients {
		d.Ingredients = append(d.Ingredients, IngredientView{
			ID:       ing.ID,
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ChoiceView{int(ing.Unit), ing.Unit.Label()},
			Optional: ing.Optional,
			Display:  ing.String(),
		})
	}
	for _, img := range r.Images {
		img.Recipe = r
		d.Images = append(d.Images, ImageView{
			ID:          img.ID,
			URL:         store.URL(img.File),
			Description: img.Description,
			UploadedAt:  img.UploadedAt,
			Display:     img.String(),
		})
	}
	for _, c := range r.Collections {
		d.Collections = append(d.Collections, CollectionRef{ID: c.ID, URL: collectionURL(c.ID), Title: c.Title})
	}
	if d.IsOwner {
		d.EditURL = recipeURL(r.ID) + "edit/"
		d.DeleteURL = recipeURL(r.ID) + "delete/"
	}
	return d
}

// CollectionView is a collection with its member recipes
type CollectionView struct {
	ID          uuid.UUID       `json:"id"`
	URL         string          `json:"url"`
	Title       string          `json:"title"`
	Display     string          `json:"display"`
	Owner       UserView        `json:"owner"`
	RecipeCount int             `json:"recipe_count"`
	Recipes     []RecipeSummary `json:"recipes"`
	CreatedAt   time.Time       `json:"created_at"`
	IsOwner     bool            `json:"is_owner"`
}

func collectionView(c models.RecipeCollection, viewer uuid.UUID) CollectionView {
	v := CollectionView{
		ID:          c.ID,
		URL:         collectionURL(c.ID),
		Title:       c.Title,
		Display:     c.String(),
		Owner:       userView(c.User),
		RecipeCount: c.RecipeCount(),
		Recipes:     make([]RecipeSummary, 0, len(c.Recipes)),
		CreatedAt:   c.CreatedAt,
		IsOwner:     viewer != uuid.Nil && viewer == c.UserID,
	}
	for _, r := range c.Recipes {
		v.Recipes = append(v.Recipes, recipeSummary(r))
	}
	return v
}

// formView is the body of a form page, rendered blank or with errors
type formView struct {
	Form           interface{}        `json:"form"`
	Errors         forms.Errors       `json:"errors"`
	NonFieldErrors []string           `json:"non_field_errors"`
	Ingredients    *forms.FormSetView `json:"ingredients,omitempty"`
	Images         *forms.FormSetView `json:"images,omitempty"`
	Choices        *ChoiceLists       `json:"choices,omitempty"`
	RecipeChoices  []RecipeChoice     `json:"recipe_choices,omitempty"`
}

func newFormView(form interface{}, errs forms.Errors) formView {
	if errs == nil {
		errs = forms.Errors{}
	}
	return formView{Form: form, Errors: errs.Fields(), NonFieldErrors: errs.NonField()}
}

// RecipeChoice is one option of the collection recipe selector
type RecipeChoice struct {
	Value uuid.UUID `json:"value"`
	Label string    `json:"label"`
}

func recipeURL(id uuid.UUID) string {
	return "/recipes/" + id.String() + "/"
}

func collectionURL(id uuid.UUID) string {
	return "/collections/" + id.String() + "/"
}
