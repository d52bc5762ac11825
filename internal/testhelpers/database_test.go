package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

func TestSetupSQLiteIsolated(t *testing.T) {
	a := SetupSQLite(t)
	b := SetupSQLite(t)

	CreateUser(t, a, "alice")

	var count int64
	require.NoError(t, b.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFixtures(t *testing.T) {
	db := SetupSQLite(t)
	user := CreateUser(t, db, "bob")
	recipe := CreateRecipe(t, db, user, "Dal", func(r *models.Recipe) { r.Featured = true })
	collection := CreateCollection(t, db, user, "Favourites", recipe)

	var loaded models.RecipeCollection
	require.NoError(t, db.Preload("Recipes").First(&loaded, "id = ?", collection.ID).Error)
	require.Len(t, loaded.Recipes, 1)
	assert.Equal(t, "Dal", loaded.Recipes[0].Title)
	assert.True(t, loaded.Recipes[0].Featured)
}
