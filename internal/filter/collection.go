package filter

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionParams are the recognised collection list parameters
type CollectionParams struct {
	Search string `json:"search"`
	Mine   bool   `json:"mine"`
	Sort   string `json:"sort"`
}

// ParseCollectionParams reads the collection list query string
func ParseCollectionParams(q url.Values) CollectionParams {
	p := CollectionParams{
		Search: strings.TrimSpace(q.Get("search")),
		Mine:   parseBool(q.Get("mine")),
		Sort:   SortNewest,
	}
	if q.Get("sort") == SortOldest {
		p.Sort = SortOldest
	}
	return p
}

// Scopes returns one scope per active filter
func (p CollectionParams) Scopes(viewer uuid.UUID) []Scope {
	var scopes []Scope
	if p.Search != "" {
		scopes = append(scopes, collectionSearch(p.Search))
	}
	if p.Mine {
		if viewer == uuid.Nil {
			scopes = append(scopes, matchNothing)
		} else {
			scopes = append(scopes, equals("recipe_collections.user_id", viewer))
		}
	}
	return scopes
}

// Apply adds every scope to db
func (p CollectionParams) Apply(db *gorm.DB, viewer uuid.UUID) *gorm.DB {
	for _, s := range p.Scopes(viewer) {
		db = db.Scopes(s)
	}
	return db
}

// Order returns the ORDER BY clause of the selected sort
func (p CollectionParams) Order() string {
	if p.Sort == SortOldest {
		return "recipe_collections.created_at ASC, recipe_collections.id ASC"
	}
	return "recipe_collections.created_at DESC, recipe_collections.id DESC"
}

// collectionSearch matches title, owner username or any member recipe title
func collectionSearch(term string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		like := likePattern(term)

		owners := fresh(db).Table("users").Select("users.id").Where(ilike("users.username"), like)
		members := fresh(db).Table("recipe_collection_recipes").Select("1").
			Joins("JOIN recipes ON recipes.id = recipe_collection_recipes.recipe_id").
			Where("recipe_collection_recipes.recipe_collection_id = recipe_collections.id").
			Where(ilike("recipes.title"), like)

		cond := fresh(db).Where(ilike("recipe_collections.title"), like).
			Or("recipe_collections.user_id IN (?)", owners).
			Or("EXISTS (?)", members)
		return db.Where(cond)
	}
}
