// Package httperr maps store and presentation errors onto JSON responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/presentation"
	"github.com/tigerlilly/tigerlilly/pkg/tigerlilly/store"
)

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, presentation.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Respond writes err as {"error": ...}. Constraint violations also carry
// the offending fields. Unexpected errors are logged and hidden.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	body := gin.H{"error": err.Error()}

	var cv *store.ConstraintViolation
	if errors.As(err, &cv) {
		body["fields"] = cv.Fields
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		body["error"] = "Internal server error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// BadRequest writes a 400 for malformed input such as bind failures.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
