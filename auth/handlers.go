package auth

import (
	"errors"
	"net/http"
	"sync"

	"github.com/AndreyPae/storefront/controllers/common"
	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	dummyOnce sync.Once
	dummyHash string
)

// dummyPasswordHash keeps login timing the same whether or not the user exists.
func dummyPasswordHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("not-a-real-password")
	})
	return dummyHash
}

// GET /register/
func RegisterForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"fields": []string{"username", "email", "password1", "password2"}})
	}
}

// POST /register/
func Register(s store.Store, sessions *Sessions, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.RegisterForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}
		if errs := form.Validate(); errs != nil {
			common.Invalid(c, errs)
			return
		}

		hash, err := HashPassword(form.Password1)
		if err != nil {
			common.Fail(c, err, "user")
			return
		}
		user := models.User{
			Username:     form.Username,
			Email:        form.Email,
			PasswordHash: hash,
		}
		if err := s.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				common.Invalid(c, forms.Errors{"username": "A user with that username already exists."})
				return
			}
			common.Fail(c, err, "user")
			return
		}

		logrus.WithField("user_id", user.ID).Info("user registered")
		startSession(c, sessions, &user, http.StatusCreated, secureCookie)
	}
}

// GET /login/
func LoginForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"fields": []string{"username", "password"}})
	}
}

// POST /login/
// Unknown users and wrong passwords get the same answer.
func Login(s store.Store, sessions *Sessions, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.LoginForm
		if errs := forms.Bind(c, &form); errs != nil {
			common.Invalid(c, errs)
			return
		}

		user, err := s.UserByUsername(c.Request.Context(), form.Username)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			common.Fail(c, err, "user")
			return
		}
		if user == nil {
			CheckPassword(dummyPasswordHash(), form.Password)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please enter a correct username and password."})
			return
		}
		if !CheckPassword(user.PasswordHash, form.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please enter a correct username and password."})
			return
		}

		startSession(c, sessions, user, http.StatusOK, secureCookie)
	}
}

// POST /logout/
func Logout(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, "", -1, "/", "", secureCookie, true)
		common.Done(c, http.StatusOK, "/login/", gin.H{"message": "Logged out"})
	}
}

func startSession(c *gin.Context, sessions *Sessions, user *models.User, status int, secureCookie bool) {
	token, exp, err := sessions.Issue(user)
	if err != nil {
		common.Fail(c, err, "session")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(sessions.TTL().Seconds()), "/", "", secureCookie, true)
	common.Done(c, status, "/", gin.H{
		"user":       user,
		"token":      token,
		"expires_at": exp,
	})
}
