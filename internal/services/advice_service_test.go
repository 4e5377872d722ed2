package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bliq/internal/ledger"
	"bliq/internal/testutil"
)

type mockAdvisor struct {
	adviseFn func(ctx context.Context, month ledger.Month, txs []ledger.Transaction) (string, error)
}

func (m *mockAdvisor) Advise(ctx context.Context, month ledger.Month, txs []ledger.Transaction) (string, error) {
	return m.adviseFn(ctx, month, txs)
}

func TestGetAdvice(t *testing.T) {
	t.Run("passes month transactions", func(t *testing.T) {
		ledgerSvc, _, _ := newLedgerServiceForTest(t)
		tx, _, err := ledgerSvc.AddTransaction(context.Background(), "user-1", ledger.October,
			testutil.TestDraft(ledger.TransactionTypeIncome, ledger.StatusConfirmed, "10"))
		testutil.AssertNoError(t, err)

		var gotMonth ledger.Month
		var gotTxs []ledger.Transaction
		advisor := &mockAdvisor{adviseFn: func(ctx context.Context, month ledger.Month, txs []ledger.Transaction) (string, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected advisor context to carry a deadline")
			}
			gotMonth, gotTxs = month, txs
			return "Tudo certo.", nil
		}}

		svc := NewAdviceService(ledgerSvc, advisor, time.Second)
		text, err := svc.GetAdvice(context.Background(), "user-1", ledger.October)
		testutil.AssertNoError(t, err)

		if text != "Tudo certo." {
			t.Errorf("unexpected advice %q", text)
		}
		if gotMonth != ledger.October || len(gotTxs) != 1 || gotTxs[0].ID != tx.ID {
			t.Errorf("advisor got month %v with %d transactions", gotMonth, len(gotTxs))
		}
	})

	t.Run("advisor failure", func(t *testing.T) {
		ledgerSvc, _, _ := newLedgerServiceForTest(t)
		advisor := &mockAdvisor{adviseFn: func(context.Context, ledger.Month, []ledger.Transaction) (string, error) {
			return "", errors.New("quota exceeded")
		}}

		svc := NewAdviceService(ledgerSvc, advisor, 0)
		_, err := svc.GetAdvice(context.Background(), "user-1", ledger.October)
		testutil.AssertAppError(t, err, "ADVICE_UNAVAILABLE")

		// The ledger keeps working after an advice failure.
		_, err = ledgerSvc.GetLedger(context.Background(), "user-1")
		testutil.AssertNoError(t, err)
	})

	t.Run("invalid month", func(t *testing.T) {
		ledgerSvc, _, _ := newLedgerServiceForTest(t)
		svc := NewAdviceService(ledgerSvc, &mockAdvisor{}, 0)
		_, err := svc.GetAdvice(context.Background(), "user-1", ledger.Month(-1))
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})
}
