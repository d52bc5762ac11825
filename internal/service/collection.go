package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/pagination"
)

// CollectionService handles recipe collection operations
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// CollectionQuery selects one page of the collection list
type CollectionQuery struct {
	Params  filter.CollectionParams
	Viewer  uuid.UUID
	Page    string
	PerPage int
}

func preloadCollection(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Recipes", func(db *gorm.DB) *gorm.DB {
		return db.Order("recipes.title, recipes.id")
	})
}

// ListCollections returns one filtered page of collections
func (s *CollectionService) ListCollections(ctx context.Context, q CollectionQuery) (*pagination.Page[models.RecipeCollection], error) {
	query := q.Params.Apply(s.db.WithContext(ctx).Model(&models.RecipeCollection{}), q.Viewer)
	return pagination.Paginate[models.RecipeCollection](query, q.Params.Order(), q.Page, q.PerPage, preloadCollection)
}

func (s *CollectionService) CountCollections(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeCollection{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return count, nil
}

// GetCollection loads a collection with its owner and recipes
func (s *CollectionService) GetCollection(ctx context.Context, id uuid.UUID) (*models.RecipeCollection, error) {
	var collection models.RecipeCollection
	err := s.db.WithContext(ctx).Scopes(preloadCollection).
		Preload("Recipes.Author").
		First(&collection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return &collection, nil
}

// ExistingRecipeIDs reports which of ids name a stored recipe
func (s *CollectionService) ExistingRecipeIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := map[uuid.UUID]bool{}
	if len(ids) == 0 {
		return found, nil
	}

	var existing []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("failed to look up recipes: %w", err)
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

func recipeRefs(ids []uuid.UUID) []models.Recipe {
	refs := make([]models.Recipe, len(ids))
	for i, id := range ids {
		refs[i] = models.Recipe{ID: id}
	}
	return refs
}

// CreateCollection stores a new collection owned by ownerID
func (s *CollectionService) CreateCollection(ctx context.Context, ownerID uuid.UUID, in forms.CollectionInput) (*models.RecipeCollection, error) {
	collection := &models.RecipeCollection{
		Title:   in.Title,
		UserID:  ownerID,
		Recipes: recipeRefs(in.RecipeIDs),
	}
	// Only the join rows are written for the referenced recipes
	if err := s.db.WithContext(ctx).Omit("User", "Recipes.*").Create(collection).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	logging.Info().
		Str("collection_id", collection.ID.String()).
		Int("recipes", len(in.RecipeIDs)).
		Msg("Collection created")
	return collection, nil
}

// UpdateCollection renames a collection and replaces its membership set
func (s *CollectionService) UpdateCollection(ctx context.Context, collection *models.RecipeCollection, in forms.CollectionInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(collection).Update("title", in.Title).Error; err != nil {
			return fmt.Errorf("failed to update collection: %w", err)
		}
		if err := tx.Exec("DELETE FROM recipe_collection_recipes WHERE recipe_collection_id = ?", collection.ID).Error; err != nil {
			return fmt.Errorf("failed to clear collection recipes: %w", err)
		}
		for _, id := range in.RecipeIDs {
			err := tx.Exec("INSERT INTO recipe_collection_recipes (recipe_collection_id, recipe_id) VALUES (?, ?)", collection.ID, id).Error
			if err != nil {
				return fmt.Errorf("failed to add recipe to collection: %w", err)
			}
		}
		collection.Title = in.Title
		collection.Recipes = recipeRefs(in.RecipeIDs)
		return nil
	})
}

// DeleteCollection removes a collection and its membership rows. The recipes
// themselves are kept.
func (s *CollectionService) DeleteCollection(ctx context.Context, collection *models.RecipeCollection) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_collection_recipes WHERE recipe_collection_id = ?", collection.ID).Error; err != nil {
			return fmt.Errorf("failed to clear collection recipes: %w", err)
		}
		res := tx.Delete(&models.RecipeCollection{}, "id = ?", collection.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete collection: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCollectionNotFound
		}
		return nil
	})
}
