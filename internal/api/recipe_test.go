package api_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func recipeIDFromLocation(t *testing.T, location string) uuid.UUID {
	t.Helper()
	require.True(t, strings.HasPrefix(location, "/recipes/"), location)
	id, err := uuid.Parse(strings.Trim(strings.TrimPrefix(location, "/recipes/"), "/"))
	require.NoError(t, err)
	return id
}

func TestCreateRecipe(t *testing.T) {
	app := newTestApp(t)
	chef := testhelpers.CreateUser(t, app.db, "chef")

	values := testhelpers.RecipeValues("Rava Upma")
	values.Set("ingredients-TOTAL_FORMS", "2")
	values.Set("ingredients-0-name", "Semolina")
	values.Set("ingredients-0-quantity", "1")
	values.Set("ingredients-0-unit", "6")
	values.Set("images-TOTAL_FORMS", "1")
	values.Set("images-0-description", "Served hot")

	req := testhelpers.MultipartRequest(t, http.MethodPost, "/recipes/create/", values,
		testhelpers.File{Field: "images-0-image", Name: "upma.png", Content: testhelpers.PNG})
	w := app.do(t, req, chef)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	id := recipeIDFromLocation(t, w.Header().Get("Location"))

	var recipe models.Recipe
	require.NoError(t, app.db.Preload("Ingredients").Preload("Images").First(&recipe, "id = ?", id).Error)
	assert.Equal(t, chef.ID, recipe.AuthorID)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "Semolina", recipe.Ingredients[0].Name)
	require.Len(t, recipe.Images, 1)
	_, err := os.Stat(filepath.Join(app.store.Root(), recipe.Images[0].File))
	assert.NoError(t, err)
}

func TestCreateRecipeRerendersInvalidForm(t *testing.T) {
	app := newTestApp(t)
	chef := testhelpers.CreateUser(t, app.db, "chef")

	t.Run("invalid recipe field", func(t *testing.T) {
		values := testhelpers.RecipeValues("")
		values.Set("preparation_time", "01:00:00")

		w := app.do(t, testhelpers.MultipartRequest(t, http.MethodPost, "/recipes/create/", values), chef)
		require.Equal(t, http.StatusOK, w.Code)
		errs := fieldErrors(t, w)
		assert.Equal(t, []interface{}{forms.MsgRequired}, errs["title"])
		assert.Contains(t, errs["preparation_time"], forms.MsgPrepAfterTotal)
	})

	t.Run("overflowing preparation time", func(t *testing.T) {
		values := testhelpers.RecipeValues("Sambar")
		values.Set("preparation_time", "106752 00:00:00")

		w := app.do(t, testhelpers.MultipartRequest(t, http.MethodPost, "/recipes/create/", values), chef)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{forms.MsgInvalidDuration}, fieldErrors(t, w)["preparation_time"])
	})

	for _, quantity := range []string{"lots", "NaN", "Inf"} {
		t.Run("invalid ingredient quantity "+quantity, func(t *testing.T) {
			values := testhelpers.RecipeValues("Sambar")
			values.Set("ingredients-TOTAL_FORMS", "1")
			values.Set("ingredients-0-name", "Toor dal")
			values.Set("ingredients-0-quantity", quantity)
			values.Set("ingredients-0-unit", "1")

			w := app.do(t, testhelpers.MultipartRequest(t, http.MethodPost, "/recipes/create/", values), chef)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			ingredients := decode(t, w)["ingredients"].(map[string]interface{})
			row := ingredients["rows"].([]interface{})[0].(map[string]interface{})
			assert.Equal(t, quantity, row["values"].(map[string]interface{})["quantity"])
			assert.Equal(t, []interface{}{forms.MsgInvalidNumber}, row["errors"].(map[string]interface{})["quantity"])
		})
	}

	t.Run("non image upload", func(t *testing.T) {
		values := testhelpers.RecipeValues("Sambar")
		values.Set("images-TOTAL_FORMS", "1")

		w := app.do(t, testhelpers.MultipartRequest(t, http.MethodPost, "/recipes/create/", values,
			testhelpers.File{Field: "images-0-image", Name: "notes.png", Content: []byte("plain text")}), chef)
		require.Equal(t, http.StatusOK, w.Code)
		images := decode(t, w)["images"].(map[string]interface{})
		row := images["rows"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, []interface{}{forms.MsgInvalidImage}, row["errors"].(map[string]interface{})["image"])
	})

	var count int64
	require.NoError(t, app.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeDetail(t *testing.T) {
	app := newTestApp(t)
	chef := testhelpers.CreateUser(t, app.db, "chef")
	guest := testhelpers.CreateUser(t, app.db, "guest")
	recipe := testhelpers.CreateRecipe(t, app.db, chef, "Appam")
	testhelpers.CreateCollection(t, app.db, guest, "Kerala", recipe)

	w := app.get(t, "/recipes/"+recipe.ID.String()+"/", chef)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)["recipe"].(map[string]interface{})
	assert.Equal(t, "Appam", detail["title"])
	assert.Equal(t, true, detail["is_owner"])
	assert.Equal(t, "/recipes/"+recipe.ID.String()+"/edit/", detail["edit_url"])
	assert.Len(t, detail["collections"], 1)

	detail = decode(t, app.get(t, "/recipes/"+recipe.ID.String()+"/", guest))["recipe"].(map[string]interface{})
	assert.Equal(t, false, detail["is_owner"])
	assert.NotContains(t, detail, "edit_url")

	assert.Equal(t, http.StatusFound, app.get(t, "/recipes/"+recipe.ID.String()+"/", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.get(t, "/recipes/not-a-uuid/", chef).Code)
	assert.Equal(t, http.StatusNotFound, app.get(t, "/recipes/"+uuid.NewString()+"/", chef).Code)
}

func TestEditRecipe(t *testing.T) {
	app := newTestApp(t)
	chef := testhelpers.CreateUser(t, app.db, "chef")
	guest := testhelpers.CreateUser(t, app.db, "guest")
	recipe := testhelpers.CreateRecipe(t, app.db, chef, "Kesari")
	editURL := "/recipes/" + recipe.ID.String() + "/edit/"

	w := app.get(t, editURL, chef)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Kesari", body["form"].(map[string]interface{})["title"])
	assert.Contains(t, body, "choices")

	assert.Equal(t, http.StatusForbidden, app.get(t, editURL, guest).Code)
	w = app.do(t, testhelpers.MultipartRequest(t, http.MethodPost, editURL, testhelpers.RecipeValues("Stolen")), guest)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, testhelpers.MultipartRequest(t, http.MethodPost, editURL, testhelpers.RecipeValues("Rava Kesari")), chef)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/recipes/"+recipe.ID.String()+"/", w.Header().Get("Location"))

	var updated models.Recipe
	require.NoError(t, app.db.First(&updated, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Rava Kesari", updated.Title)
	assert.Equal(t, chef.ID, updated.AuthorID)
}

func TestDeleteRecipe(t *testing.T) {
	app := newTestApp(t)
	chef := testhelpers.CreateUser(t, app.db, "chef")
	guest := testhelpers.CreateUser(t, app.db, "guest")
	recipe := testhelpers.CreateRecipe(t, app.db, chef, "Payasam")
	deleteURL := "/recipes/" + recipe.ID.String() + "/delete/"

	assert.Equal(t, http.StatusForbidden, app.postForm(t, deleteURL, url.Values{}, guest).Code)

	w := app.postForm(t, deleteURL, url.Values{}, chef)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes/", w.Header().Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, http.StatusNotFound, app.postForm(t, deleteURL, url.Values{}, chef).Code)
}

func TestListRecipes(t *testing.T) {
	app := newTestApp(t)
	chef := testhelpers.CreateUser(t, app.db, "chef")
	for _, title := range []string{"Idli", "Dosa", "Vada", "Uttapam"} {
		testhelpers.CreateRecipe(t, app.db, chef, title)
	}
	testhelpers.CreateRecipe(t, app.db, chef, "Special Dosa", func(r *models.Recipe) { r.Featured = true })

	w := app.get(t, "/recipes/?sort=oldest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	regular := body["recipes"].(map[string]interface{})
	assert.EqualValues(t, 4, regular["count"])
	assert.EqualValues(t, 2, regular["num_pages"])
	items := regular["items"].([]interface{})
	require.Len(t, items, 3)
	assert.Equal(t, "Idli", items[0].(map[string]interface{})["title"])

	featured := body["featured_recipes"].(map[string]interface{})
	assert.EqualValues(t, 1, featured["count"])
	assert.Len(t, body["users"], 1)
	assert.Contains(t, body["choices"], "cuisine")

	body = decode(t, app.get(t, "/recipes/?search=dosa&page=7", nil))
	regular = body["recipes"].(map[string]interface{})
	assert.EqualValues(t, 1, regular["number"])
	assert.Len(t, regular["items"], 1)
}
