package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/pagination"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// IAuthService defines the interface for account operations
type IAuthService interface {
	SignUp(ctx context.Context, in forms.SignUpInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, q RecipeQuery) (*pagination.Page[models.Recipe], error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	SaveRecipe(ctx context.Context, sub RecipeSubmission) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, recipe *models.Recipe) error
	ListAuthors(ctx context.Context) ([]models.User, error)
	FeaturedRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	CountRecipes(ctx context.Context) (int64, error)
	ListAllRecipes(ctx context.Context) ([]models.Recipe, error)
}

// ICollectionService defines the interface for collection operations
type ICollectionService interface {
	ListCollections(ctx context.Context, q CollectionQuery) (*pagination.Page[models.RecipeCollection], error)
	CountCollections(ctx context.Context) (int64, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*models.RecipeCollection, error)
	ExistingRecipeIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	CreateCollection(ctx context.Context, ownerID uuid.UUID, in forms.CollectionInput) (*models.RecipeCollection, error)
	UpdateCollection(ctx context.Context, collection *models.RecipeCollection, in forms.CollectionInput) error
	DeleteCollection(ctx context.Context, collection *models.RecipeCollection) error
}
