package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bliq/internal/advice"
	"bliq/internal/handlers"
	"bliq/internal/logger"
	"bliq/internal/models"
	"bliq/internal/router"
	"bliq/internal/services"
	"bliq/internal/store"
	"bliq/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.LedgerSnapshot{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	return newApp(setupIsolatedDB(t))
}

// newApp wires services, handlers and routes on top of an existing database.
// Each call starts with empty ledger sessions, like a restarted server.
func newApp(conn *gorm.DB) *testApp {
	userService := services.NewUserService(conn, time.Hour)
	auditService := services.NewAuditService(conn)
	ledgerService := services.NewLedgerService(store.NewGormStore(conn), prometheus.NewRegistry())
	adviceService := services.NewAdviceService(ledgerService, advice.NewStaticAdvisor(), 5*time.Second)

	authConfig := handlers.AuthConfig{
		AccessTTL:        15 * time.Minute,
		RememberTTL:      24 * time.Hour,
		ExposeResetToken: true,
	}
	engine := router.New(router.Handlers{
		Auth:     handlers.NewAuthHandler(userService, auditService, authConfig),
		Ledger:   handlers.NewLedgerHandler(ledgerService, auditService),
		Category: handlers.NewCategoryHandler(ledgerService, auditService),
		Advice:   handlers.NewAdviceHandler(adviceService),
		Activity: handlers.NewActivityHandler(auditService),
	}, router.Options{Gatherer: prometheus.NewRegistry()})

	return &testApp{DB: conn, Router: engine}
}

// restart returns a fresh application stack over the same database.
func (app *testApp) restart() *testApp {
	return newApp(app.DB)
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode extracts error.code from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// expectStatus fails the test when rec does not carry the wanted status.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// assertAmount compares a JSON decimal field with an expected value.
func assertAmount(t *testing.T, obj map[string]interface{}, key, want string) {
	t.Helper()
	raw, ok := obj[key]
	if !ok {
		t.Fatalf("missing %s in %v", key, obj)
	}
	got, err := decimal.NewFromString(fmt.Sprint(raw))
	if err != nil {
		t.Fatalf("%s is not a decimal: %v", key, raw)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s = %s, got %s", key, want, got)
	}
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), user["id"].(string)
}

// loginUser logs in with remember set and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"remember":true}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// addTransaction posts a transaction to month and returns the created object.
func (app *testApp) addTransaction(t *testing.T, token, month, body string) map[string]interface{} {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/v1/months/"+month+"/transactions", body, token)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["transaction"].(map[string]interface{})
}

// getMonth fetches a month listing.
func (app *testApp) getMonth(t *testing.T, token, monthAndQuery string) map[string]interface{} {
	t.Helper()
	rec := app.request(http.MethodGet, "/api/v1/months/"+monthAndQuery, "", token)
	expectStatus(t, rec, http.StatusOK)
	return parseJSON(t, rec)
}
