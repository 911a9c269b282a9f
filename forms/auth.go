package forms

import "strings"

type RegisterForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=150,username"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
	Password1 string `form:"password1" json:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" json:"password2" binding:"required,eqfield=Password1"`
}

// Validate applies the password rules the tags cannot express.
func (f RegisterForm) Validate() Errors {
	errs := Errors{}
	if strings.Trim(f.Password1, "0123456789") == "" {
		errs.Add("password1", "This password is entirely numeric.")
	}
	if strings.EqualFold(f.Password1, f.Username) {
		errs.Add("password1", "The password is too similar to the username.")
	}
	return errs.OrNil()
}

type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
