package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

type fakeValidator map[string]*types.TokenClaims

var _ middleware.TokenValidator = fakeValidator{}

func (f fakeValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if claims, ok := f[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	validator := fakeValidator{"good": {UserID: userID, Username: "lata"}}

	router := gin.New()
	router.Use(middleware.Authenticate(validator))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s", middleware.CurrentUserID(c), middleware.CurrentUsername(c))
	})

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"anonymous", func(r *http.Request) {}, uuid.Nil.String() + "|"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "good"}) }, userID.String() + "|lata"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, userID.String() + "|lata"},
		{"invalid token continues anonymously", func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") }, uuid.Nil.String() + "|"},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token good") }, uuid.Nil.String() + "|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestLoginRequired(t *testing.T) {
	validator := fakeValidator{"good": {UserID: uuid.New(), Username: "lata"}}
	router := gin.New()
	router.Use(middleware.Authenticate(validator))
	router.GET("/recipes/create/", middleware.LoginRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes/create/?x=1", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/accounts/login/?next=%2Frecipes%2Fcreate%2F%3Fx%3D1", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/recipes/create/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "good"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
