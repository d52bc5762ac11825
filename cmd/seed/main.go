package main

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// Password shared by every seeded account
const seedPassword = "testpassword123"

var seedUsers = []forms.SignUpInput{
	{Username: "johndoe", Email: "john.doe@example.com", Password: seedPassword},
	{Username: "janesmith", Email: "jane.smith@example.com", Password: seedPassword},
	{Username: "bobwilson", Email: "bob.wilson@example.com", Password: seedPassword},
}

type seedRecipe struct {
	author      string
	recipe      models.Recipe
	ingredients []models.RecipeIngredient
}

var seedRecipes = []seedRecipe{
	{
		author: "johndoe",
		recipe: models.Recipe{
			Title: "Masala Dosa", Servings: 4, Calories: 420, Featured: true,
			PreparationTime: 30 * time.Minute, TotalTime: 50 * time.Minute,
			Instructions: "Soak rice and lentils overnight.\nGrind and ferment the batter.\nCook the potato masala.\nSpread the batter thin and fill.",
			Cuisine:      models.CuisineSouthIndian, FoodType: models.FoodTypeVegan, Difficulty: models.DifficultyHard,
		},
		ingredients: []models.RecipeIngredient{
			{Name: "Rice", Quantity: 300, Unit: models.UnitGrams},
			{Name: "Urad dal", Quantity: 100, Unit: models.UnitGrams},
			{Name: "Potato", Quantity: 4, Unit: models.UnitNumber},
			{Name: "Mustard seeds", Quantity: 1, Unit: models.UnitTeaspoon, Optional: true},
		},
	},
	{
		author: "janesmith",
		recipe: models.Recipe{
			Title: "Butter Chicken", Servings: 4, Calories: 650,
			PreparationTime: 20 * time.Minute, TotalTime: time.Hour,
			Instructions: "Marinate the chicken.\nGrill until charred.\nSimmer in the tomato butter sauce.",
			Cuisine:      models.CuisineNorthIndian, FoodType: models.FoodTypeNonVeg, Difficulty: models.DifficultyMedium,
		},
		ingredients: []models.RecipeIngredient{
			{Name: "Chicken", Quantity: 500, Unit: models.UnitGrams},
			{Name: "Butter", Quantity: 3, Unit: models.UnitTablespoon},
			{Name: "Tomato puree", Quantity: 1, Unit: models.UnitCup},
		},
	},
	{
		author: "bobwilson",
		recipe: models.Recipe{
			Title: "Veg Hakka Noodles", Servings: 2, Calories: 380, Featured: true,
			PreparationTime: 15 * time.Minute, TotalTime: 25 * time.Minute,
			Instructions: "Boil the noodles.\nStir fry the vegetables on high heat.\nToss everything with the sauces.",
			Cuisine:      models.CuisineChinese, FoodType: models.FoodTypeVeg, Difficulty: models.DifficultyEasy,
		},
		ingredients: []models.RecipeIngredient{
			{Name: "Noodles", Quantity: 200, Unit: models.UnitGrams},
			{Name: "Cabbage", Quantity: 1, Unit: models.UnitCup},
			{Name: "Soy sauce", Quantity: 2, Unit: models.UnitTablespoon},
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()
	users, err := seedAccounts(ctx, db, service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed users")
	}

	var created []models.Recipe
	for _, s := range seedRecipes {
		recipe, err := seedOne(ctx, db, users[s.author], s)
		if err != nil {
			logging.Error().Err(err).Str("title", s.recipe.Title).Msg("Failed to save recipe")
			continue
		}
		created = append(created, *recipe)
		logging.Info().Str("title", recipe.Title).Msg("Successfully created recipe")
	}

	if len(created) > 0 {
		collection := models.RecipeCollection{Title: "Weeknight favourites", UserID: users["johndoe"].ID, Recipes: created}
		if err := db.WithContext(ctx).Omit("User", "Recipes.*").Create(&collection).Error; err != nil {
			logging.Fatal().Err(err).Msg("Failed to create collection")
		}
	}

	logging.Info().Int("recipes", len(created)).Msg("Seeding finished")
}

// seedAccounts signs up every seed user, reusing accounts that already exist
func seedAccounts(ctx context.Context, db *gorm.DB, auth *service.AuthService) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(seedUsers))
	for _, in := range seedUsers {
		user, err := auth.SignUp(ctx, in)
		if errors.Is(err, service.ErrUsernameTaken) {
			user = &models.User{}
			err = db.WithContext(ctx).Where("username = ?", in.Username).First(user).Error
		}
		if err != nil {
			return nil, err
		}
		out[in.Username] = user
	}
	return out, nil
}

func seedOne(ctx context.Context, db *gorm.DB, author *models.User, s seedRecipe) (*models.Recipe, error) {
	recipe := s.recipe
	recipe.AuthorID = author.ID
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		for _, ing := range s.ingredients {
			ing.RecipeID = recipe.ID
			if err := tx.Create(&ing).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}
