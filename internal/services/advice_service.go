package services

import (
	"context"
	"time"

	"bliq/internal/advice"
	apperrors "bliq/internal/errors"
	"bliq/internal/ledger"
	"bliq/internal/logger"
)

// adviceService asks an Advisor about a month of the user's ledger.
type adviceService struct {
	ledger  LedgerServicer
	advisor advice.Advisor
	timeout time.Duration
}

// NewAdviceService creates a new AdviceServicer. A positive timeout bounds
// each advisor call.
func NewAdviceService(ledgerService LedgerServicer, advisor advice.Advisor, timeout time.Duration) AdviceServicer {
	return &adviceService{ledger: ledgerService, advisor: advisor, timeout: timeout}
}

// GetAdvice returns commentary on the month. Advisor failures map to
// ErrAdviceUnavailable and never touch the ledger.
func (s *adviceService) GetAdvice(ctx context.Context, userID string, month ledger.Month) (string, error) {
	txs, err := s.ledger.MonthTransactions(ctx, userID, month)
	if err != nil {
		return "", err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.advisor.Advise(ctx, month, txs)
	if err != nil {
		logger.Get().Warnw("advice unavailable", "user_id", userID, "month", month.String(), "error", err)
		return "", apperrors.Wrap(apperrors.ErrAdviceUnavailable, err)
	}
	return text, nil
}
