package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/forms"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/middleware"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// AuthHandler serves sign-up, login and logout
type AuthHandler struct {
	auth     service.IAuthService
	tokenTTL time.Duration
	secure   bool
}

func NewAuthHandler(auth service.IAuthService, tokenTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL, secure: secure}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/signup/", h.SignUpForm)
	r.POST("/signup/", h.SignUp)
	r.GET("/login/", h.LoginForm)
	r.POST("/login/", h.Login)
	r.POST("/logout/", h.Logout)
}

func (h *AuthHandler) SignUpForm(c *gin.Context) {
	c.JSON(http.StatusOK, newFormView(forms.SignUpForm{}, nil))
}

// SignUp creates the account and signs the new user in
func (h *AuthHandler) SignUp(c *gin.Context) {
	d, err := forms.ParseData(c.Request, 1<<20)
	if err != nil {
		writeBodyError(c, err)
		return
	}
	form, err := forms.BindSignUpForm(d)
	if err != nil {
		writeBodyError(c, err)
		return
	}

	in, errs := form.Clean()
	if !errs.Empty() {
		c.JSON(http.StatusOK, newFormView(form, errs))
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), in)
	if errors.Is(err, service.ErrUsernameTaken) {
		errs.Add("username", forms.MsgUsernameTaken)
		c.JSON(http.StatusOK, newFormView(form, errs))
		return
	}
	if err != nil {
		writeServiceError(c, err, "failed to create account")
		return
	}

	logging.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	if !h.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, newFormView(forms.LoginForm{Next: c.Query("next")}, nil))
}

// Login checks the credentials and redirects to next
func (h *AuthHandler) Login(c *gin.Context) {
	d, err := forms.ParseData(c.Request, 1<<20)
	if err != nil {
		writeBodyError(c, err)
		return
	}
	form, err := forms.BindLoginForm(d)
	if err != nil {
		writeBodyError(c, err)
		return
	}
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	errs := form.Clean()
	if !errs.Empty() {
		c.JSON(http.StatusOK, newFormView(form, errs))
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		errs.Add(forms.NonFieldErrors, forms.MsgInvalidLogin)
		c.JSON(http.StatusOK, newFormView(form, errs))
		return
	}
	if err != nil {
		writeServiceError(c, err, "failed to sign in")
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		writeServiceError(c, err, "failed to start session")
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secure, true)
	return true
}

// safeNext keeps redirects on this site. Browsers drop tabs and line breaks
// from a Location, so any control character rejects the value.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	if strings.IndexFunc(next, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
