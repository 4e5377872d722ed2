package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "bliq/internal/errors"
	"bliq/internal/validator"
)

type bindRequest struct {
	Type  string `form:"type" binding:"required,tx_type"`
	Email string `form:"email" binding:"required,email"`
}

func TestErrorHandler(t *testing.T) {
	validator.Register()

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.Wrap(apperrors.ErrLedgerUnavailable, errors.New("db down")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/bind", func(c *gin.Context) {
		var req bindRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			_ = c.Error(err)
		}
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("after write"))
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"app_error", "/app", http.StatusServiceUnavailable, "LEDGER_UNAVAILABLE"},
		{"unexpected_error", "/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"validation_error", "/bind?type=TRANSFER&email=x", http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}

	t.Run("written_response_kept", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/written", nil)
		if rec.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
	})
}
