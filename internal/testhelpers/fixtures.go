package testhelpers

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// TestPassword is the password of every fixture user
const TestPassword = "correct-horse-42"

// CreateUser inserts a user whose password is TestPassword
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateRecipe inserts a valid recipe by author. Options adjust the recipe
// before insert.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, title string, opts ...func(*models.Recipe)) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:        author.ID,
		Title:           title,
		Servings:        2,
		PreparationTime: 10 * time.Minute,
		TotalTime:       30 * time.Minute,
		Calories:        300,
		Instructions:    "Mix.\nCook.",
		Cuisine:         models.CuisineSouthIndian,
		FoodType:        models.FoodTypeVeg,
		Difficulty:      models.DifficultyEasy,
	}
	for _, opt := range opts {
		opt(recipe)
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", title, err)
	}
	return recipe
}

// CreateCollection inserts a collection owned by user containing recipes
func CreateCollection(t *testing.T, db *gorm.DB, user *models.User, title string, recipes ...*models.Recipe) *models.RecipeCollection {
	t.Helper()
	collection := &models.RecipeCollection{Title: title, UserID: user.ID}
	for _, r := range recipes {
		collection.Recipes = append(collection.Recipes, models.Recipe{ID: r.ID})
	}
	if err := db.Omit("Recipes.*").Create(collection).Error; err != nil {
		t.Fatalf("failed to create collection %s: %v", title, err)
	}
	return collection
}
