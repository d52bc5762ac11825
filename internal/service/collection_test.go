package service_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func TestCollectionLifecycle(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "asha")
	sambar := testhelpers.CreateRecipe(t, db, owner, "Sambar")
	rasam := testhelpers.CreateRecipe(t, db, owner, "Rasam")
	curd := testhelpers.CreateRecipe(t, db, owner, "Curd Rice")

	created, err := svc.CreateCollection(ctx, owner.ID, forms.CollectionInput{
		Title: "Lunch", RecipeIDs: []uuid.UUID{sambar.ID, rasam.ID},
	})
	require.NoError(t, err)

	loaded, err := svc.GetCollection(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", loaded.User.Username)
	assert.Equal(t, "Lunch (2 recipes)", loaded.String())
	assert.Equal(t, "Rasam", loaded.Recipes[0].Title)
	assert.Equal(t, "asha", loaded.Recipes[0].Author.Username)

	require.NoError(t, svc.UpdateCollection(ctx, loaded, forms.CollectionInput{
		Title: "Sunday lunch", RecipeIDs: []uuid.UUID{curd.ID},
	}))
	loaded, err = svc.GetCollection(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunday lunch", loaded.Title)
	require.Len(t, loaded.Recipes, 1)
	assert.Equal(t, curd.ID, loaded.Recipes[0].ID)

	require.NoError(t, svc.DeleteCollection(ctx, loaded))
	_, err = svc.GetCollection(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrCollectionNotFound)

	var recipes, links int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Table("recipe_collection_recipes").Count(&links).Error)
	assert.Equal(t, int64(3), recipes)
	assert.Zero(t, links)

	assert.ErrorIs(t, svc.DeleteCollection(ctx, loaded), service.ErrCollectionNotFound)
}

func TestExistingRecipeIDs(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewCollectionService(db)
	owner := testhelpers.CreateUser(t, db, "asha")
	recipe := testhelpers.CreateRecipe(t, db, owner, "Sambar")
	missing := uuid.New()

	found, err := svc.ExistingRecipeIDs(context.Background(), []uuid.UUID{recipe.ID, missing})
	require.NoError(t, err)
	assert.True(t, found[recipe.ID])
	assert.False(t, found[missing])

	form := forms.CollectionForm{Title: "Mine", Recipes: []string{missing.String()}}
	_, errs, err := form.Clean(func(ids []uuid.UUID) (map[uuid.UUID]bool, error) {
		return svc.ExistingRecipeIDs(context.Background(), ids)
	})
	require.NoError(t, err)
	assert.True(t, errs.Has("recipes"))
}

func TestListCollections(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewCollectionService(db)
	owner := testhelpers.CreateUser(t, db, "asha")
	other := testhelpers.CreateUser(t, db, "dev")
	r := testhelpers.CreateRecipe(t, db, owner, "Sambar")
	testhelpers.CreateCollection(t, db, owner, "Lunch", r)
	testhelpers.CreateCollection(t, db, other, "Dinner", r)

	page, err := svc.ListCollections(context.Background(), service.CollectionQuery{
		Params:  filter.ParseCollectionParams(url.Values{"mine": {"true"}}),
		Viewer:  other.ID,
		Page:    "",
		PerPage: 3,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Dinner", page.Items[0].Title)
	assert.Equal(t, "dev", page.Items[0].User.Username)
	assert.Equal(t, 1, page.Items[0].RecipeCount())

	count, err := svc.CountCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
