package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeCollection is a named, user-owned group of recipes
type RecipeCollection struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Recipes   []Recipe  `gorm:"many2many:recipe_collection_recipes;" json:"recipes,omitempty"`
}

func (c *RecipeCollection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RecipeCount returns the number of loaded recipes
func (c RecipeCollection) RecipeCount() int {
	return len(c.Recipes)
}

func (c RecipeCollection) String() string {
	return fmt.Sprintf("%s (%d recipes)", c.Title, c.RecipeCount())
}

// All lists every model for auto-migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeImage{},
		&RecipeCollection{},
	}
}
