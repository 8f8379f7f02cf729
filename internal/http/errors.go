package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devconnect/internal/domain"
	"devconnect/internal/github"
	"devconnect/internal/storage"
)

// errorMessages holds the client-facing text for each known sentinel.
var errorMessages = []struct {
	err     error
	message string
}{
	{domain.ErrUnauthorized, "No token, authorization denied"},
	{domain.ErrInvalidToken, "Token is not valid"},
	{domain.ErrForbidden, "User not authorized"},
	{domain.ErrAlreadyLiked, "Post already liked"},
	{domain.ErrNotLiked, "Post has not yet been liked"},
	{domain.ErrUserNotFound, "User not found"},
	{domain.ErrProfileNotFound, "Profile not found"},
	{domain.ErrEntryNotFound, "Entry not found"},
	{domain.ErrPostNotFound, "Post not found"},
	{domain.ErrCommentNotFound, "Comment does not exist"},
	{github.ErrNotFound, "No Github profile found"},
	{github.ErrUnavailable, "Github is temporarily unavailable"},
	{storage.ErrNotConfigured, "avatar storage not configured"},
}

// statusOf returns the HTTP status for a known error, or 0.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyLiked), errors.Is(err, domain.ErrNotLiked):
		return http.StatusBadRequest
	case domain.IsNotFound(err), errors.Is(err, github.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, github.ErrUnavailable), errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return 0
}

// respondError maps service errors onto the API's status codes and bodies.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "Invalid Credentials"}}})
		return
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "User already exist"}}})
		return
	}

	if status := statusOf(err); status != 0 {
		c.JSON(status, gin.H{"message": messageOf(err)})
		return
	}

	h.logger.WithError(err).WithField("route", routeOf(c)).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
}

func messageOf(err error) string {
	for _, known := range errorMessages {
		if errors.Is(err, known.err) {
			return known.message
		}
	}
	return err.Error()
}

// bindJSON decodes the body, reporting malformed JSON as a validation failure.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, domain.NewValidationError("body", "request body must be valid JSON"))
		return false
	}
	return true
}
