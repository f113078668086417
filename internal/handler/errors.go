package handler

import (
	"net/http"
	"strings"
	"time"

	"ecopark/internal/apperror"
	"ecopark/internal/logger"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError writes err as the standard envelope. Errors that are not
// AppErrors are logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		c.JSON(appErr.HTTPStatus, response.ErrorWithCode(appErr.HTTPStatus, string(appErr.Code), appErr.Message, appErr.Fields))
		return
	}

	logger.Log.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, response.ErrorWithCode(http.StatusInternalServerError, string(apperror.ErrCodeInternal), "Internal server error", nil))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest, string(apperror.ErrCodeBadRequest), msg, nil))
}

// parseDate accepts YYYY-MM-DD or RFC3339.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
