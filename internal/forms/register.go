package forms

import "strings"

const MinPasswordLength = 8

// RegisterForm mirrors the classic username + password confirmation signup form.
type RegisterForm struct {
	Username  string `form:"username" validate:"required,min=3,max=64,username"`
	Password1 string `form:"password1" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func (f *RegisterForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next" validate:"-"`
}

func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}
