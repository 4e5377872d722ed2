package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "bliq/internal/errors"
	"bliq/internal/ledger"
	"bliq/internal/logger"
	"bliq/internal/store"
)

const saveTimeout = 10 * time.Second

// ledgerSession is the in-memory ledger of one user. mu serializes every
// operation on the session.
type ledgerSession struct {
	mu      sync.Mutex
	state   *ledger.State
	version int64
	dirty   bool
}

func (s *ledgerSession) saveState() SaveState {
	return SaveState{Version: s.version, Unsaved: s.dirty}
}

// ledgerService keeps one ledger session per user and saves the full
// snapshot after every successful mutation.
type ledgerService struct {
	store store.SnapshotStore

	mu       sync.Mutex
	sessions map[string]*ledgerSession

	mutations *prometheus.CounterVec
	saveFails prometheus.Counter
}

// NewLedgerService creates a new LedgerServicer. Metrics are registered on
// reg when it is not nil.
func NewLedgerService(snapshots store.SnapshotStore, reg prometheus.Registerer) LedgerServicer {
	factory := promauto.With(reg)
	return &ledgerService{
		store:    snapshots,
		sessions: make(map[string]*ledgerSession),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bliq_ledger_mutations_total",
			Help: "Ledger mutations by action and outcome",
		}, []string{"action", "result"}),
		saveFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "bliq_ledger_save_failures_total",
			Help: "Snapshot saves rejected by the store",
		}),
	}
}

// session returns the locked session of userID, loading the stored snapshot
// on first use. The caller must unlock it.
func (s *ledgerService) session(ctx context.Context, userID string) (*ledgerSession, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &ledgerSession{}
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	if sess.state != nil {
		s.flush(ctx, userID, sess)
		return sess, nil
	}

	state, version, err := s.store.Load(ctx, userID)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		sess.state, sess.version = ledger.NewState(), 0
	case err != nil:
		sess.mu.Unlock()
		logger.Get().Errorw("failed to load ledger snapshot", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrLedgerUnavailable, err)
	default:
		sess.state, sess.version = state, version
	}
	return sess, nil
}

// flush saves the session when a previous save failed. Failures are logged
// and leave the session dirty.
func (s *ledgerService) flush(ctx context.Context, userID string, sess *ledgerSession) {
	if !sess.dirty {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	version, err := s.store.Save(saveCtx, userID, sess.state)
	if err != nil {
		s.saveFails.Inc()
		logger.Get().Errorw("failed to save ledger snapshot", "user_id", userID, "version", sess.version, "error", err)
		return
	}
	sess.version = version
	sess.dirty = false
}

// mutate applies fn to the user's ledger and saves the result. fn must leave
// the state untouched when it returns an error. A fn that reports changed
// false skips the save.
func (s *ledgerService) mutate(ctx context.Context, userID, action string, fn func(st *ledger.State) (bool, error)) (SaveState, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		s.mutations.WithLabelValues(action, "error").Inc()
		return SaveState{}, err
	}
	defer sess.mu.Unlock()

	changed, err := fn(sess.state)
	if err != nil {
		s.mutations.WithLabelValues(action, "rejected").Inc()
		return sess.saveState(), err
	}
	if !changed {
		s.mutations.WithLabelValues(action, "noop").Inc()
		return sess.saveState(), nil
	}

	sess.dirty = true
	s.flush(ctx, userID, sess)
	if sess.dirty {
		s.mutations.WithLabelValues(action, "unsaved").Inc()
	} else {
		s.mutations.WithLabelValues(action, "ok").Inc()
	}
	return sess.saveState(), nil
}

// read runs fn against the user's ledger under the session lock.
func (s *ledgerService) read(ctx context.Context, userID string, fn func(st *ledger.State, save SaveState)) error {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	defer sess.mu.Unlock()

	fn(sess.state, sess.saveState())
	return nil
}

// GetLedger returns every month, the category registry and the year summary.
func (s *ledgerService) GetLedger(ctx context.Context, userID string) (*LedgerView, error) {
	var view *LedgerView
	err := s.read(ctx, userID, func(st *ledger.State, save SaveState) {
		months := make(map[string]ledger.MonthData, len(ledger.Months()))
		for _, m := range ledger.Months() {
			months[m.String()] = st.Month(m)
		}
		view = &LedgerView{
			Months:     months,
			Categories: st.Categories(),
			Summary:    st.YearSummary(),
			SaveState:  save,
		}
	})
	return view, err
}

// GetYearSummary returns the totals of all twelve months.
func (s *ledgerService) GetYearSummary(ctx context.Context, userID string) ([]ledger.MonthSummary, error) {
	var summary []ledger.MonthSummary
	err := s.read(ctx, userID, func(st *ledger.State, _ SaveState) {
		summary = st.YearSummary()
	})
	return summary, err
}

// GetMonth returns the month's totals and the transactions matching query.
func (s *ledgerService) GetMonth(ctx context.Context, userID string, month ledger.Month, query MonthQuery) (*MonthView, error) {
	if !month.Valid() {
		return nil, apperrors.ErrInvalidMonth
	}
	if !query.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be ALL, INCOME or EXPENSE")
	}

	var view *MonthView
	err := s.read(ctx, userID, func(st *ledger.State, _ SaveState) {
		view = &MonthView{
			Month:        month,
			Settings:     st.Month(month).Settings,
			Totals:       st.Totals(month),
			Transactions: st.Filter(month, query.Search, query.Type),
		}
	})
	return view, err
}

// MonthTransactions returns the month's transactions in store order.
func (s *ledgerService) MonthTransactions(ctx context.Context, userID string, month ledger.Month) ([]ledger.Transaction, error) {
	if !month.Valid() {
		return nil, apperrors.ErrInvalidMonth
	}

	var txs []ledger.Transaction
	err := s.read(ctx, userID, func(st *ledger.State, _ SaveState) {
		txs = st.Transactions(month)
	})
	return txs, err
}

// AddTransaction records a new transaction at the head of the month.
func (s *ledgerService) AddTransaction(ctx context.Context, userID string, month ledger.Month, draft ledger.Draft) (ledger.Transaction, SaveState, error) {
	var created ledger.Transaction
	save, err := s.mutate(ctx, userID, "add_transaction", func(st *ledger.State) (bool, error) {
		tx, err := st.AddTransaction(month, draft)
		created = tx
		return err == nil, err
	})
	return created, save, err
}

// UpdateTransaction replaces an existing transaction in place.
func (s *ledgerService) UpdateTransaction(ctx context.Context, userID string, month ledger.Month, tx ledger.Transaction) (ledger.Transaction, SaveState, error) {
	var updated ledger.Transaction
	save, err := s.mutate(ctx, userID, "update_transaction", func(st *ledger.State) (bool, error) {
		out, err := st.UpdateTransaction(month, tx)
		updated = out
		return err == nil, err
	})
	return updated, save, err
}

// DeleteTransaction removes a transaction. Removing an unknown id is a no-op
// reported as false.
func (s *ledgerService) DeleteTransaction(ctx context.Context, userID string, month ledger.Month, id string) (bool, SaveState, error) {
	var removed bool
	save, err := s.mutate(ctx, userID, "delete_transaction", func(st *ledger.State) (bool, error) {
		ok, err := st.RemoveTransaction(month, id)
		removed = ok
		return ok, err
	})
	return removed, save, err
}

// ConfirmTransaction marks a pending transaction as confirmed. changed is
// false when the transaction was already confirmed.
func (s *ledgerService) ConfirmTransaction(ctx context.Context, userID string, month ledger.Month, id string) (ledger.Transaction, bool, SaveState, error) {
	var confirmed ledger.Transaction
	var changed bool
	save, err := s.mutate(ctx, userID, "confirm_transaction", func(st *ledger.State) (bool, error) {
		before, found := st.FindTransaction(month, id)
		tx, err := st.ConfirmTransaction(month, id)
		confirmed = tx
		changed = err == nil && found && !before.IsConfirmed()
		return changed, err
	})
	return confirmed, changed, save, err
}

// ToggleCarryOver flips the month's carry-over flag.
func (s *ledgerService) ToggleCarryOver(ctx context.Context, userID string, month ledger.Month) (ledger.MonthSettings, SaveState, error) {
	var settings ledger.MonthSettings
	save, err := s.mutate(ctx, userID, "toggle_carry_over", func(st *ledger.State) (bool, error) {
		carry, err := st.ToggleCarryOver(month)
		settings.CarryOverBalance = carry
		return err == nil, err
	})
	return settings, save, err
}

// ListCategories returns the category registry in insertion order.
func (s *ledgerService) ListCategories(ctx context.Context, userID string) ([]ledger.Category, error) {
	var categories []ledger.Category
	err := s.read(ctx, userID, func(st *ledger.State, _ SaveState) {
		categories = st.Categories()
	})
	return categories, err
}

// AddCategory appends a category to the registry.
func (s *ledgerService) AddCategory(ctx context.Context, userID, name, icon, color string) (ledger.Category, SaveState, error) {
	var created ledger.Category
	save, err := s.mutate(ctx, userID, "add_category", func(st *ledger.State) (bool, error) {
		c, err := st.AddCategory(name, icon, color)
		created = c
		return err == nil, err
	})
	return created, save, err
}

// RemoveCategory deletes a category. Transactions keep the category name.
func (s *ledgerService) RemoveCategory(ctx context.Context, userID, id string) (bool, SaveState, error) {
	var removed bool
	save, err := s.mutate(ctx, userID, "remove_category", func(st *ledger.State) (bool, error) {
		removed = st.RemoveCategory(id)
		return removed, nil
	})
	return removed, save, err
}
