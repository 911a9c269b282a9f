// Package common holds the response helpers shared by the handlers.
package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AndreyPae/storefront/forms"
	"github.com/AndreyPae/storefront/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ParseID reads a positive integer path parameter. A malformed id answers 404,
// the same as a route that does not match.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}

// Fail maps a store error to a response. what names the entity in messages.
func Fail(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this " + what})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": what + " already exists"})
	default:
		logrus.WithError(err).
			WithField("method", c.Request.Method).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Invalid answers a form that did not validate.
func Invalid(c *gin.Context, errs forms.Errors) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": errs})
}

// Done answers a successful mutation. location names the view the client
// should go to next.
func Done(c *gin.Context, status int, location string, body interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(status, body)
}
