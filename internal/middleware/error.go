package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "bliq/internal/errors"
	"bliq/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses. AppErrors are returned with
// their code and message; binding errors become INVALID_INPUT; unexpected
// errors are logged and return a generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
					"request_id", requestid.Get(c),
				)
			}
			writeError(c, appErr)
			return
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			writeError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, ValidationErrorsToText(validationErrs)))
			return
		}

		// Unexpected error: log full details, return generic message
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", requestid.Get(c),
		)
		writeError(c, apperrors.ErrInternalServer)
	}
}

func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// ValidationErrorToText renders a single field error for API clients.
func ValidationErrorToText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "email":
		return "Invalid email format"
	case "tx_type", "type_filter":
		return fmt.Sprintf("%s must be INCOME or EXPENSE", e.Field())
	case "tx_status":
		return fmt.Sprintf("%s must be CONFIRMED or PENDING", e.Field())
	case "birth_date":
		return fmt.Sprintf("%s must be a past date in YYYY-MM-DD format", e.Field())
	}
	return fmt.Sprintf("%s is not valid", e.Field())
}

// ValidationErrorsToText joins the messages of all failed fields.
func ValidationErrorsToText(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, ValidationErrorToText(e))
	}
	return strings.Join(msgs, "; ")
}
