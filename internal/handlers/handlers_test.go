package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"bliq/internal/ledger"
	"bliq/internal/models"
	"bliq/internal/pagination"
	"bliq/internal/services"
	"bliq/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(name, email, password string, birthDate *time.Time) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	verifyPasswordFn        func(user *models.User, password string) bool
	attemptLoginFn          func(email, password string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
	requestPasswordResetFn  func(email string) (string, error)
	resetPasswordFn         func(token, newPassword string) (string, error)
}

func (m *mockUserService) CreateUser(name, email, password string, birthDate *time.Time) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, password, birthDate)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) RequestPasswordReset(email string) (string, error) {
	if m.requestPasswordResetFn != nil {
		return m.requestPasswordResetFn(email)
	}
	return "", nil
}

func (m *mockUserService) ResetPassword(token, newPassword string) (string, error) {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(token, newPassword)
	}
	return "", nil
}

var _ services.UserServicer = (*mockUserService)(nil)

type mockLedgerService struct {
	getLedgerFn          func(userID string) (*services.LedgerView, error)
	getYearSummaryFn     func(userID string) ([]ledger.MonthSummary, error)
	getMonthFn           func(userID string, month ledger.Month, query services.MonthQuery) (*services.MonthView, error)
	addTransactionFn     func(userID string, month ledger.Month, draft ledger.Draft) (ledger.Transaction, services.SaveState, error)
	updateTransactionFn  func(userID string, month ledger.Month, tx ledger.Transaction) (ledger.Transaction, services.SaveState, error)
	deleteTransactionFn  func(userID string, month ledger.Month, id string) (bool, services.SaveState, error)
	confirmTransactionFn func(userID string, month ledger.Month, id string) (ledger.Transaction, bool, services.SaveState, error)
	toggleCarryOverFn    func(userID string, month ledger.Month) (ledger.MonthSettings, services.SaveState, error)
	listCategoriesFn     func(userID string) ([]ledger.Category, error)
	addCategoryFn        func(userID, name, icon, color string) (ledger.Category, services.SaveState, error)
	removeCategoryFn     func(userID, id string) (bool, services.SaveState, error)
	monthTransactionsFn  func(userID string, month ledger.Month) ([]ledger.Transaction, error)
}

func (m *mockLedgerService) GetLedger(_ context.Context, userID string) (*services.LedgerView, error) {
	if m.getLedgerFn != nil {
		return m.getLedgerFn(userID)
	}
	return &services.LedgerView{}, nil
}

func (m *mockLedgerService) GetYearSummary(_ context.Context, userID string) ([]ledger.MonthSummary, error) {
	if m.getYearSummaryFn != nil {
		return m.getYearSummaryFn(userID)
	}
	return nil, nil
}

func (m *mockLedgerService) GetMonth(_ context.Context, userID string, month ledger.Month, query services.MonthQuery) (*services.MonthView, error) {
	if m.getMonthFn != nil {
		return m.getMonthFn(userID, month, query)
	}
	return &services.MonthView{Month: month}, nil
}

func (m *mockLedgerService) AddTransaction(_ context.Context, userID string, month ledger.Month, draft ledger.Draft) (ledger.Transaction, services.SaveState, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(userID, month, draft)
	}
	return draft.WithID("tx-1"), services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) UpdateTransaction(_ context.Context, userID string, month ledger.Month, tx ledger.Transaction) (ledger.Transaction, services.SaveState, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, month, tx)
	}
	return tx, services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) DeleteTransaction(_ context.Context, userID string, month ledger.Month, id string) (bool, services.SaveState, error) {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, month, id)
	}
	return true, services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) ConfirmTransaction(_ context.Context, userID string, month ledger.Month, id string) (ledger.Transaction, bool, services.SaveState, error) {
	if m.confirmTransactionFn != nil {
		return m.confirmTransactionFn(userID, month, id)
	}
	return ledger.Transaction{ID: id, Status: ledger.StatusConfirmed}, true, services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) ToggleCarryOver(_ context.Context, userID string, month ledger.Month) (ledger.MonthSettings, services.SaveState, error) {
	if m.toggleCarryOverFn != nil {
		return m.toggleCarryOverFn(userID, month)
	}
	return ledger.MonthSettings{CarryOverBalance: true}, services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) ListCategories(_ context.Context, userID string) ([]ledger.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(userID)
	}
	return ledger.DefaultCategories(), nil
}

func (m *mockLedgerService) AddCategory(_ context.Context, userID, name, icon, color string) (ledger.Category, services.SaveState, error) {
	if m.addCategoryFn != nil {
		return m.addCategoryFn(userID, name, icon, color)
	}
	return ledger.Category{ID: "cat-1", Name: name, Icon: icon, Color: color}, services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) RemoveCategory(_ context.Context, userID, id string) (bool, services.SaveState, error) {
	if m.removeCategoryFn != nil {
		return m.removeCategoryFn(userID, id)
	}
	return true, services.SaveState{Version: 1}, nil
}

func (m *mockLedgerService) MonthTransactions(_ context.Context, userID string, month ledger.Month) ([]ledger.Transaction, error) {
	if m.monthTransactionsFn != nil {
		return m.monthTransactionsFn(userID, month)
	}
	return nil, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

type mockAdviceService struct {
	getAdviceFn func(userID string, month ledger.Month) (string, error)
}

func (m *mockAdviceService) GetAdvice(_ context.Context, userID string, month ledger.Month) (string, error) {
	if m.getAdviceFn != nil {
		return m.getAdviceFn(userID, month)
	}
	return "", nil
}

var _ services.AdviceServicer = (*mockAdviceService)(nil)

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	mu             sync.Mutex
	entries        []auditEntry
	listUserLogsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID})
}

func (m *mockAuditService) ListUserLogs(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if m.listUserLogsFn != nil {
		return m.listUserLogsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.AuditLog{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.action
	}
	return out
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

const testUserID = "0190b3c4-7d2e-7000-8000-0000000000aa"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
