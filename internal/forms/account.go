package forms

import (
	"strings"
	"unicode/utf8"
)

// SignUpForm holds the raw values of the registration form
type SignUpForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"required,max=254,email"`
	Password1 string `form:"password1" json:"-" validate:"required"`
	Password2 string `form:"password2" json:"-" validate:"required"`
}

// SignUpInput is a cleaned SignUpForm
type SignUpInput struct {
	Username string
	Email    string
	Password string
}

func BindSignUpForm(d Data) (SignUpForm, error) {
	var f SignUpForm
	if err := bind(&f, d.Values); err != nil {
		return f, err
	}
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return f, nil
}

// Clean validates the fields. Password errors attach to password2. The
// username uniqueness check is left to the caller.
func (f SignUpForm) Clean() (SignUpInput, Errors) {
	errs := Errors{}
	validateStruct(f, errs)
	in := SignUpInput{Username: f.Username, Email: f.Email, Password: f.Password1}

	if errs.Has("password1") || errs.Has("password2") {
		return in, errs
	}
	if f.Password1 != f.Password2 {
		errs.Add("password2", MsgPasswordMismatch)
		return in, errs
	}
	if utf8.RuneCountInString(f.Password2) < 8 {
		errs.Add("password2", MsgPasswordShort)
	}
	if isDigits(f.Password2) {
		errs.Add("password2", MsgPasswordNumeric)
	}
	return in, errs
}

// LoginForm holds the raw values of the login form
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"-" validate:"required"`
	Next     string `form:"next" json:"next"`
}

func BindLoginForm(d Data) (LoginForm, error) {
	var f LoginForm
	if err := bind(&f, d.Values); err != nil {
		return f, err
	}
	f.Username = strings.TrimSpace(f.Username)
	return f, nil
}

func (f LoginForm) Clean() Errors {
	errs := Errors{}
	validateStruct(f, errs)
	return errs
}
