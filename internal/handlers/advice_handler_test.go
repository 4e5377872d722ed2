package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "bliq/internal/errors"
	"bliq/internal/ledger"
)

func setupAdviceRouter(handler *AdviceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/months/:month/advice", injectUserID(testUserID), handler.GetAdvice)
	return r
}

func TestAdviceHandler_GetAdvice(t *testing.T) {
	t.Run("returns 200 with advice", func(t *testing.T) {
		svc := &mockAdviceService{
			getAdviceFn: func(userID string, month ledger.Month) (string, error) {
				if userID != testUserID || month != ledger.June {
					t.Errorf("unexpected args %s %v", userID, month)
				}
				return "Gastos sob controle.\nContinue assim.", nil
			},
		}
		rec := doRequest(setupAdviceRouter(NewAdviceHandler(svc)), "POST", "/months/Junho/advice", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["month"] != "Junho" || result["advice"] != "Gastos sob controle.\nContinue assim." {
			t.Errorf("unexpected response %v", result)
		}
	})

	t.Run("returns 503 when the advisor fails", func(t *testing.T) {
		svc := &mockAdviceService{
			getAdviceFn: func(string, ledger.Month) (string, error) {
				return "", apperrors.Wrap(apperrors.ErrAdviceUnavailable, errors.New("quota"))
			},
		}
		rec := doRequest(setupAdviceRouter(NewAdviceHandler(svc)), "POST", "/months/6/advice", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ADVICE_UNAVAILABLE")
	})

	t.Run("returns 400 on unknown month", func(t *testing.T) {
		rec := doRequest(setupAdviceRouter(NewAdviceHandler(&mockAdviceService{})), "POST", "/months/13/advice", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_MONTH")
	})
}
