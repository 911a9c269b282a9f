package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/AndreyPae/storefront/models"
	"github.com/AndreyPae/storefront/store"
)

// EnsureSuperuser creates a superuser with its cart unless username is taken.
// It reports whether a user was created. An existing user is left untouched.
func EnsureSuperuser(ctx context.Context, s store.Store, username, email, password string) (bool, error) {
	if _, err := s.UserByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsSuperuser:  true,
	}
	if err := s.CreateUser(ctx, &user); err != nil {
		return false, fmt.Errorf("create superuser %q: %w", username, err)
	}
	return true, nil
}
