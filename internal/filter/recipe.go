package filter

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// Recipe sort values
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortCaloriesAsc  = "calories_asc"
	SortCaloriesDesc = "calories_desc"
)

// RecipeParams are the recognised recipe list parameters. Facets that fail
// to parse are left nil and do not filter.
type RecipeParams struct {
	Search       string             `json:"search"`
	Cuisine      *models.Cuisine    `json:"cuisine,omitempty"`
	FoodType     *models.FoodType   `json:"food_type,omitempty"`
	Difficulty   *models.Difficulty `json:"difficulty,omitempty"`
	Mine         bool               `json:"mine"`
	MinCalories  *int               `json:"min_calories,omitempty"`
	MaxCalories  *int               `json:"max_calories,omitempty"`
	MaxTotalTime *time.Duration     `json:"max_total_time,omitempty"`
	Sort         string             `json:"sort"`
}

// ParseRecipeParams reads the recipe list query string
func ParseRecipeParams(q url.Values) RecipeParams {
	p := RecipeParams{
		Search:      strings.TrimSpace(q.Get("search")),
		Mine:        parseBool(q.Get("mine")),
		MinCalories: parseInt(q, "min_calories"),
		MaxCalories: parseInt(q, "max_calories"),
		Sort:        SortNewest,
	}

	if n, err := strconv.Atoi(q.Get("cuisine")); err == nil && models.Cuisine(n).Valid() {
		v := models.Cuisine(n)
		p.Cuisine = &v
	}
	if n, err := strconv.Atoi(q.Get("food_type")); err == nil && models.FoodType(n).Valid() {
		v := models.FoodType(n)
		p.FoodType = &v
	}
	if n, err := strconv.Atoi(q.Get("difficulty")); err == nil && models.Difficulty(n).Valid() {
		v := models.Difficulty(n)
		p.Difficulty = &v
	}
	if raw := q.Get("max_total_time"); raw != "" {
		if d, err := forms.ParseDuration(raw); err == nil {
			p.MaxTotalTime = &d
		}
	}

	switch s := q.Get("sort"); s {
	case SortOldest, SortCaloriesAsc, SortCaloriesDesc:
		p.Sort = s
	}
	return p
}

// Scopes returns one scope per active filter. viewer is uuid.Nil for
// anonymous requests.
func (p RecipeParams) Scopes(viewer uuid.UUID) []Scope {
	var scopes []Scope
	if p.Search != "" {
		scopes = append(scopes, recipeSearch(p.Search))
	}
	if p.Cuisine != nil {
		scopes = append(scopes, equals("recipes.cuisine", int(*p.Cuisine)))
	}
	if p.FoodType != nil {
		scopes = append(scopes, equals("recipes.food_type", int(*p.FoodType)))
	}
	if p.Difficulty != nil {
		scopes = append(scopes, equals("recipes.difficulty", int(*p.Difficulty)))
	}
	if p.MinCalories != nil {
		scopes = append(scopes, compare("recipes.calories >= ?", *p.MinCalories))
	}
	if p.MaxCalories != nil {
		scopes = append(scopes, compare("recipes.calories <= ?", *p.MaxCalories))
	}
	if p.MaxTotalTime != nil {
		scopes = append(scopes, compare("recipes.total_time <= ?", int64(*p.MaxTotalTime)))
	}
	if p.Mine {
		if viewer == uuid.Nil {
			scopes = append(scopes, matchNothing)
		} else {
			scopes = append(scopes, equals("recipes.author_id", viewer))
		}
	}
	return scopes
}

// Apply adds every scope to db
func (p RecipeParams) Apply(db *gorm.DB, viewer uuid.UUID) *gorm.DB {
	for _, s := range p.Scopes(viewer) {
		db = db.Scopes(s)
	}
	return db
}

// Order returns the ORDER BY clause of the selected sort
func (p RecipeParams) Order() string {
	switch p.Sort {
	case SortOldest:
		return "recipes.created_at ASC, recipes.id ASC"
	case SortCaloriesAsc:
		return "recipes.calories ASC, recipes.created_at DESC"
	case SortCaloriesDesc:
		return "recipes.calories DESC, recipes.created_at DESC"
	default:
		return "recipes.created_at DESC, recipes.id DESC"
	}
}

// recipeSearch matches title, author username, cuisine label or any
// ingredient name. Each branch is a predicate on the recipe row, so no
// duplicates arise.
func recipeSearch(term string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		like := likePattern(term)

		authors := fresh(db).Table("users").Select("users.id").Where(ilike("users.username"), like)
		ingredients := fresh(db).Table("recipe_ingredients").Select("1").
			Where("recipe_ingredients.recipe_id = recipes.id").
			Where(ilike("recipe_ingredients.name"), like)

		cond := fresh(db).Where(ilike("recipes.title"), like).
			Or("recipes.author_id IN (?)", authors).
			Or("EXISTS (?)", ingredients)

		if cuisines := models.CuisinesMatching(term); len(cuisines) > 0 {
			values := make([]int, len(cuisines))
			for i, c := range cuisines {
				values[i] = int(c)
			}
			cond = cond.Or("recipes.cuisine IN ?", values)
		}
		return db.Where(cond)
	}
}

func equals(col string, v interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", v)
	}
}

func compare(expr string, v interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(expr, v)
	}
}
