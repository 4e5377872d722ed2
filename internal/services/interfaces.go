package services

import (
	"context"
	"time"

	"bliq/internal/ledger"
	"bliq/internal/models"
	"bliq/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string, birthDate *time.Time) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	RequestPasswordReset(email string) (string, error)
	ResetPassword(token, newPassword string) (string, error)
}

// SaveState reports how the latest mutation reached the snapshot store.
// Unsaved is true when the mutation is applied in memory but the store
// rejected it; the next ledger call retries the save.
type SaveState struct {
	Version int64 `json:"version"`
	Unsaved bool  `json:"unsaved"`
}

// LedgerView is the whole ledger of a user.
type LedgerView struct {
	Months     map[string]ledger.MonthData `json:"months"`
	Categories []ledger.Category          `json:"categories"`
	Summary    []ledger.MonthSummary      `json:"summary"`
	SaveState
}

// MonthView is one month with its totals and a filtered transaction list.
// Totals always cover the whole month regardless of the filter.
type MonthView struct {
	Month        ledger.Month         `json:"month"`
	Settings     ledger.MonthSettings `json:"settings"`
	Totals       ledger.Totals        `json:"totals"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// MonthQuery narrows the transaction list of a MonthView.
type MonthQuery struct {
	Search string
	Type   ledger.TypeFilter
}

// LedgerServicer defines the contract for the per-user monthly ledger.
type LedgerServicer interface {
	GetLedger(ctx context.Context, userID string) (*LedgerView, error)
	GetYearSummary(ctx context.Context, userID string) ([]ledger.MonthSummary, error)
	GetMonth(ctx context.Context, userID string, month ledger.Month, query MonthQuery) (*MonthView, error)
	AddTransaction(ctx context.Context, userID string, month ledger.Month, draft ledger.Draft) (ledger.Transaction, SaveState, error)
	UpdateTransaction(ctx context.Context, userID string, month ledger.Month, tx ledger.Transaction) (ledger.Transaction, SaveState, error)
	DeleteTransaction(ctx context.Context, userID string, month ledger.Month, id string) (bool, SaveState, error)
	ConfirmTransaction(ctx context.Context, userID string, month ledger.Month, id string) (ledger.Transaction, bool, SaveState, error)
	ToggleCarryOver(ctx context.Context, userID string, month ledger.Month) (ledger.MonthSettings, SaveState, error)
	ListCategories(ctx context.Context, userID string) ([]ledger.Category, error)
	AddCategory(ctx context.Context, userID, name, icon, color string) (ledger.Category, SaveState, error)
	RemoveCategory(ctx context.Context, userID, id string) (bool, SaveState, error)
	MonthTransactions(ctx context.Context, userID string, month ledger.Month) ([]ledger.Transaction, error)
}

// AdviceServicer defines the contract for month commentary.
type AdviceServicer interface {
	GetAdvice(ctx context.Context, userID string, month ledger.Month) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	ListUserLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
