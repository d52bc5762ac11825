package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/pagination"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db      *gorm.DB
	storage storage.Storage
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, store storage.Storage) *RecipeService {
	return &RecipeService{
		db:      db,
		storage: store,
	}
}

// RecipeQuery selects one page of the recipe list. Featured nil lists both
// featured and regular recipes.
type RecipeQuery struct {
	Params   filter.RecipeParams
	Viewer   uuid.UUID
	Featured *bool
	Page     string
	PerPage  int
}

// RecipeSubmission is a validated recipe form with its formsets. Recipe is
// nil on create.
type RecipeSubmission struct {
	Recipe      *models.Recipe
	AuthorID    uuid.UUID
	Input       forms.RecipeInput
	Ingredients *forms.IngredientFormSet
	Images      *forms.ImageFormSet
}

func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author")
}

// ListRecipes returns one filtered page of recipes
func (s *RecipeService) ListRecipes(ctx context.Context, q RecipeQuery) (*pagination.Page[models.Recipe], error) {
	query := q.Params.Apply(s.db.WithContext(ctx).Model(&models.Recipe{}), q.Viewer)
	if q.Featured != nil {
		query = query.Where("recipes.featured = ?", *q.Featured)
	}
	return pagination.Paginate[models.Recipe](query, q.Params.Order(), q.Page, q.PerPage, preloadAuthor)
}

// GetRecipe loads a recipe with everything its detail page shows
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.name, recipe_ingredients.id") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_images.uploaded_at, recipe_images.id") }).
		Preload("Collections").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// SaveRecipe creates or updates a recipe together with its ingredient and
// image rows. Uploaded files are stored first; the rows are written in one
// transaction and the stored files are removed again when it fails.
func (s *RecipeService) SaveRecipe(ctx context.Context, sub RecipeSubmission) (*models.Recipe, error) {
	stored, err := s.storeUploads(ctx, sub.Images)
	if err != nil {
		return nil, err
	}
	newKeys := make([]string, 0, len(stored))
	for _, key := range stored {
		newKeys = append(newKeys, key)
	}

	recipe := sub.Recipe
	if recipe == nil {
		recipe = &models.Recipe{AuthorID: sub.AuthorID}
	}
	sub.Input.Apply(recipe)

	var obsolete []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		if err := saveIngredients(tx, recipe.ID, sub.Ingredients); err != nil {
			return err
		}
		keys, err := saveImages(tx, recipe.ID, sub.Images, stored)
		if err != nil {
			return err
		}
		obsolete = keys
		return nil
	})
	if err != nil {
		s.removeFiles(ctx, newKeys)
		return nil, err
	}

	s.removeFiles(ctx, obsolete)
	logging.Info().
		Str("recipe_id", recipe.ID.String()).
		Str("author_id", recipe.AuthorID.String()).
		Msg("Recipe saved")
	return recipe, nil
}

// storeUploads saves every uploaded file and returns the keys by row index
func (s *RecipeService) storeUploads(ctx context.Context, fs *forms.ImageFormSet) (map[int]string, error) {
	stored := map[int]string{}
	if fs == nil {
		return stored, nil
	}

	var keys []string
	for _, row := range fs.Rows {
		if row.Skip || row.Delete || row.Upload == nil {
			continue
		}
		key := storage.ImageKey(row.Upload.Ext)
		if err := s.saveUpload(ctx, key, row.Upload); err != nil {
			s.removeFiles(ctx, keys)
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		stored[row.Index] = key
		keys = append(keys, key)
	}
	return stored, nil
}

func (s *RecipeService) saveUpload(ctx context.Context, key string, upload *forms.ImageUpload) error {
	f, err := upload.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return s.storage.Save(ctx, key, f, upload.ContentType)
}

// removeFiles deletes stored objects; failures are logged and left behind
func (s *RecipeService) removeFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("Failed to remove stored image")
		}
	}
}

func saveIngredients(tx *gorm.DB, recipeID uuid.UUID, fs *forms.IngredientFormSet) error {
	if fs == nil {
		return nil
	}
	for _, row := range fs.Rows {
		if row.Skip {
			continue
		}

		if !row.Initial {
			ing := models.RecipeIngredient{RecipeID: recipeID}
			row.Input.Apply(&ing)
			if err := tx.Create(&ing).Error; err != nil {
				return fmt.Errorf("failed to create ingredient: %w", err)
			}
			continue
		}

		var ing models.RecipeIngredient
		if err := tx.Where("id = ? AND recipe_id = ?", row.ID, recipeID).First(&ing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &RowError{Formset: fs.Prefix, Index: row.Index, Field: "id", Message: forms.MsgInvalidRowChoice}
			}
			return fmt.Errorf("failed to load ingredient: %w", err)
		}
		if row.Delete {
			if err := tx.Delete(&ing).Error; err != nil {
				return fmt.Errorf("failed to delete ingredient: %w", err)
			}
			continue
		}
		row.Input.Apply(&ing)
		if err := tx.Save(&ing).Error; err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
	}
	return nil
}

// saveImages writes the image rows and returns the keys of files that are no
// longer referenced once the transaction commits
func saveImages(tx *gorm.DB, recipeID uuid.UUID, fs *forms.ImageFormSet, stored map[int]string) ([]string, error) {
	if fs == nil {
		return nil, nil
	}

	var obsolete []string
	for _, row := range fs.Rows {
		if row.Skip {
			continue
		}

		if !row.Initial {
			img := models.RecipeImage{RecipeID: recipeID, File: stored[row.Index], Description: row.Form.Description}
			if err := tx.Omit(clause.Associations).Create(&img).Error; err != nil {
				return nil, fmt.Errorf("failed to create image: %w", err)
			}
			continue
		}

		var img models.RecipeImage
		if err := tx.Where("id = ? AND recipe_id = ?", row.ID, recipeID).First(&img).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &RowError{Formset: fs.Prefix, Index: row.Index, Field: "id", Message: forms.MsgInvalidRowChoice}
			}
			return nil, fmt.Errorf("failed to load image: %w", err)
		}
		if row.Delete {
			if err := tx.Delete(&img).Error; err != nil {
				return nil, fmt.Errorf("failed to delete image: %w", err)
			}
			obsolete = append(obsolete, img.File)
			continue
		}

		img.Description = row.Form.Description
		if key, ok := stored[row.Index]; ok {
			obsolete = append(obsolete, img.File)
			img.File = key
			img.UploadedAt = time.Now()
		}
		if err := tx.Omit(clause.Associations).Save(&img).Error; err != nil {
			return nil, fmt.Errorf("failed to update image: %w", err)
		}
	}
	return obsolete, nil
}

// DeleteRecipe removes a recipe, its child rows, its collection memberships
// and its stored image files
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipe *models.Recipe) error {
	var files []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RecipeImage{}).Where("recipe_id = ?", recipe.ID).Pluck("file", &files).Error; err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}
		if err := tx.Exec("DELETE FROM recipe_collection_recipes WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return fmt.Errorf("failed to delete collection memberships: %w", err)
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", recipe.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.removeFiles(ctx, files)
	logging.Info().Str("recipe_id", recipe.ID.String()).Msg("Recipe deleted")
	return nil
}

// ListAuthors returns every user, ordered by username
func (s *RecipeService) ListAuthors(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// FeaturedRecipes returns the latest featured recipes
func (s *RecipeService) FeaturedRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Preload("Author").
		Where("featured = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// ListAllRecipes returns every recipe by title, for the collection form
func (s *RecipeService) ListAllRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Order("title, id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}
