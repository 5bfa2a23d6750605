package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/prepx-tracker-api/internal/middleware"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// userIDParam reads the :userId path segment.
func userIDParam(c *gin.Context) (string, error) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	return userID, nil
}

// viewMeta records cache and timing details for a derived view response.
func viewMeta(c *gin.Context, cacheHit bool, start time.Time) map[string]interface{} {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetProcessingTime(c, start)
	return middleware.Meta(c)
}

func bindError(err error) error {
	return appErrors.WrapAs(err, appErrors.ErrValidation, "invalid request body")
}
