package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/storage"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	store  *storage.LocalStorage
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	auth := service.NewAuthService(db, "test-secret", time.Hour).WithHashCost(4)
	router := gin.New()
	api.RegisterRoutes(router, api.Deps{
		DB:            db,
		Auth:          auth,
		Recipes:       service.NewRecipeService(db, store),
		Collections:   service.NewCollectionService(db),
		Storage:       store,
		PageSize:      3,
		MaxUploadSize: 1 << 20,
		TokenTTL:      time.Hour,
	})
	return &testApp{router: router, db: db, auth: auth, store: store}
}

// do serves req, signed in as user when user is not nil
func (a *testApp) do(t *testing.T, req *http.Request, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	if user != nil {
		token, err := a.auth.GenerateToken(user)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(t *testing.T, target string, user *models.User) *httptest.ResponseRecorder {
	return a.do(t, httptest.NewRequest(http.MethodGet, target, nil), user)
}

func (a *testApp) postForm(t *testing.T, target string, values url.Values, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req, user)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// fieldErrors returns the errors object of a rendered form
func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	errs, ok := decode(t, w)["errors"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errs
}
