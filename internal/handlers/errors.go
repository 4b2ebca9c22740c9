package handlers

import (
	"errors"

	"blogapi/internal/apperror"
	"blogapi/internal/middleware"
	"blogapi/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError writes {"error": message} with the status of err. Internal
// failures are logged and replaced by a generic message.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal {
		log.WithError(err).
			WithField("request_id", middleware.RequestIDFromContext(c)).
			Error(appErr.Message)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(appErr.Status(), gin.H{"error": appErr.Message})
}

// storeError converts repository sentinels into client-facing errors.
func storeError(err error, notFound string, conflict string, internal string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, repository.ErrConflict):
		return apperror.Conflict(conflict)
	default:
		return apperror.Internal(internal, err)
	}
}
