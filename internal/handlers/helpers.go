package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Bilal-BS/PF-Tracker/internal/errors"
	"github.com/Bilal-BS/PF-Tracker/internal/logger"
	"github.com/Bilal-BS/PF-Tracker/internal/middleware"
	"github.com/Bilal-BS/PF-Tracker/internal/uuid"
)

const dateOnlyLayout = "2006-01-02"

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
// dateOnly reports which form was given. The result is in UTC.
func parseFlexibleTime(value string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	if t, err = time.Parse(dateOnlyLayout, value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

func invalidDate(field string) *apperrors.AppError {
	return apperrors.WithDetails(apperrors.ErrInvalidInput, "Validation failed", []apperrors.FieldError{{
		Field:   field,
		Message: field + " must be a valid date (YYYY-MM-DD or RFC 3339)",
	}})
}

// parseDate parses a required date field of a request body.
func parseDate(field, value string) (time.Time, error) {
	t, _, err := parseFlexibleTime(value)
	if err != nil {
		return time.Time{}, invalidDate(field)
	}
	return t, nil
}

// parseDateRange parses optional startDate/endDate query values. A date-only
// endDate covers that whole day.
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if start != "" {
		t, _, err := parseFlexibleTime(start)
		if err != nil {
			return nil, nil, invalidDate("startDate")
		}
		startDate = &t
	}
	if end != "" {
		t, dateOnly, err := parseFlexibleTime(end)
		if err != nil {
			return nil, nil, invalidDate("endDate")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		endDate = &t
	}

	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate must not be after endDate")
	}
	return startDate, endDate, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, middleware.ErrorBody(appErr))
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, middleware.ErrorBody(apperrors.ErrInternalServer))
}

// MessageResponse is returned by operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
