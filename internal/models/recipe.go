package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a user-authored dish with timing, nutrition and classification
type Recipe struct {
	ID              uuid.UUID     `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	AuthorID        uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author          User          `gorm:"foreignKey:AuthorID" json:"author"`
	Title           string        `gorm:"size:255;not null" json:"title"`
	Servings        int           `gorm:"not null" json:"servings"`
	PreparationTime time.Duration `gorm:"type:bigint;not null" json:"preparation_time"`
	TotalTime       time.Duration `gorm:"type:bigint;not null" json:"total_time"`
	Calories        int           `gorm:"not null" json:"calories"`
	Instructions    string        `gorm:"type:text;not null" json:"instructions"`
	Featured        bool          `gorm:"not null;default:false;index" json:"featured"`
	Cuisine         Cuisine       `gorm:"type:smallint;not null" json:"cuisine"`
	FoodType        FoodType      `gorm:"type:smallint;not null" json:"food_type"`
	Difficulty      Difficulty    `gorm:"type:smallint;not null" json:"difficulty"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Images      []RecipeImage      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Collections []RecipeCollection `gorm:"many2many:recipe_collection_recipes;" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TotalIngredients returns the number of loaded ingredients
func (r Recipe) TotalIngredients() int {
	return len(r.Ingredients)
}

func (r Recipe) String() string {
	return r.Title
}

// RecipeIngredient is one line of a recipe's ingredient list
type RecipeIngredient struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Quantity float64   `gorm:"not null" json:"quantity"`
	Unit     Unit      `gorm:"type:smallint;not null" json:"unit"`
	Optional bool      `gorm:"not null;default:false" json:"optional"`
}

func (i *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// String renders e.g. "1 gms of Salt"
func (i RecipeIngredient) String() string {
	return fmt.Sprintf("%s %s of %s", strconv.FormatFloat(i.Quantity, 'f', -1, 64), i.Unit.Label(), i.Name)
}

// RecipeImage references an uploaded image file by its storage key
type RecipeImage struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Recipe      *Recipe   `gorm:"foreignKey:RecipeID" json:"-"`
	File        string    `gorm:"size:255;not null" json:"file"`
	Description string    `gorm:"size:255" json:"description"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (i *RecipeImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i RecipeImage) String() string {
	if i.Recipe == nil {
		return "Image"
	}
	return "Image for " + i.Recipe.Title
}
