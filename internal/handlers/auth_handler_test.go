package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bliq/internal/errors"
	"bliq/internal/middleware"
	"bliq/internal/models"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.POST("/auth/forgot-password", handler.ForgotPassword)
	r.POST("/auth/reset-password", handler.ResetPassword)
	r.GET("/profile", injectUserID(testUserID), handler.GetProfile)
	return r
}

func newTestUser(email string) *models.User {
	user := &models.User{Email: email, Name: "Ana"}
	user.ID = testUserID
	return user
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotBirth *time.Time
		userSvc := &mockUserService{
			createUserFn: func(name, email, _ string, birthDate *time.Time) (*models.User, error) {
				gotBirth = birthDate
				user := newTestUser(email)
				user.Name = name
				user.BirthDate = birthDate
				return user, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Ana","email":"ana@example.com","password":"password123","birth_date":"1990-05-17"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == nil || result["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
		if _, ok := result["refresh_token"]; ok {
			t.Error("registration should not issue a refresh token")
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "ana@example.com" || user["birth_date"] != "1990-05-17" {
			t.Errorf("unexpected user payload %v", user)
		}
		if gotBirth == nil || gotBirth.Year() != 1990 {
			t.Errorf("expected birth date to be passed, got %v", gotBirth)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"ana@example.com","password":"password123"}`},
		{"missing email", `{"name":"Ana","password":"password123"}`},
		{"short password", `{"name":"Ana","email":"ana@example.com","password":"short"}`},
		{"invalid email", `{"name":"Ana","email":"not-an-email","password":"password123"}`},
		{"future birth date", `{"name":"Ana","email":"ana@example.com","password":"password123","birth_date":"2999-01-01"}`},
		{"malformed birth date", `{"name":"Ana","email":"ana@example.com","password":"password123","birth_date":"17/05/1990"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, AuthConfig{})
			rec := doRequest(setupAuthRouter(handler), "POST", "/auth/register", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string, _ *time.Time) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/register",
			`{"name":"Ana","email":"ana@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("without remember issues access token only", func(t *testing.T) {
		stored := false
		userSvc := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return newTestUser(email), nil
			},
			storeRefreshTokenHashFn: func(_, _ string) error {
				stored = true
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{AccessTTL: time.Minute})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/login",
			`{"email":"ana@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == "" {
			t.Error("expected access token")
		}
		if _, ok := result["refresh_token"]; ok {
			t.Error("expected no refresh token without remember")
		}
		if result["expires_in"] != float64(60) {
			t.Errorf("expected expires_in 60, got %v", result["expires_in"])
		}
		if stored {
			t.Error("no refresh token hash should be stored")
		}
	})

	t.Run("with remember issues refresh token", func(t *testing.T) {
		var storedHash string
		userSvc := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return newTestUser(email), nil
			},
			storeRefreshTokenHashFn: func(_, hash string) error {
				storedHash = hash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/login",
			`{"email":"ana@example.com","password":"password123","remember":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		refresh, _ := parseJSON(t, rec)["refresh_token"].(string)
		if refresh == "" {
			t.Fatal("expected refresh token")
		}
		if storedHash != middleware.HashToken(refresh) {
			t.Error("expected the refresh token hash to be stored")
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/login",
			`{"email":"ana@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 423 on locked account", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrAccountLocked
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/login",
			`{"email":"ana@example.com","password":"password123"}`)

		if rec.Code != http.StatusLocked {
			t.Fatalf("expected 423, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	user := newTestUser("ana@example.com")
	refresh, err := middleware.GenerateRefreshToken(user, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	t.Run("rotates a valid refresh token", func(t *testing.T) {
		storedHash := middleware.HashToken(refresh)
		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(string) (string, error) { return storedHash, nil },
			storeRefreshTokenHashFn: func(_, hash string) error {
				storedHash = hash
				return nil
			},
			getUserByIDFn: func(string) (*models.User, error) { return user, nil },
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/refresh",
			`{"refresh_token":"`+refresh+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		next, _ := parseJSON(t, rec)["refresh_token"].(string)
		if next == "" || storedHash != middleware.HashToken(next) {
			t.Error("expected rotated refresh token hash to be stored")
		}
	})

	t.Run("rejects a revoked refresh token", func(t *testing.T) {
		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(string) (string, error) { return "", nil },
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/refresh",
			`{"refresh_token":"`+refresh+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects an access token", func(t *testing.T) {
		access, _ := middleware.GenerateAccessToken(user, time.Minute)
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/refresh",
			`{"refresh_token":"`+access+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("forgot password answers generically", func(t *testing.T) {
		for _, token := range []string{"", "secret-token"} {
			userSvc := &mockUserService{
				requestPasswordResetFn: func(string) (string, error) { return token, nil },
			}
			handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
			rec := doRequest(setupAuthRouter(handler), "POST", "/auth/forgot-password",
				`{"email":"ana@example.com"}`)

			if rec.Code != http.StatusAccepted {
				t.Fatalf("expected 202, got %d", rec.Code)
			}
			result := parseJSON(t, rec)
			if _, ok := result["reset_token"]; ok {
				t.Error("reset token must not be exposed by default")
			}
		}
	})

	t.Run("forgot password exposes token when configured", func(t *testing.T) {
		userSvc := &mockUserService{
			requestPasswordResetFn: func(string) (string, error) { return "secret-token", nil },
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{ExposeResetToken: true})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/forgot-password",
			`{"email":"ana@example.com"}`)

		if parseJSON(t, rec)["reset_token"] != "secret-token" {
			t.Error("expected reset token in development mode")
		}
	})

	t.Run("reset password is audited", func(t *testing.T) {
		audit := &mockAuditService{}
		userSvc := &mockUserService{
			resetPasswordFn: func(token, password string) (string, error) {
				if token != "secret-token" || password != "brand-new-pass" {
					t.Errorf("unexpected reset args %q %q", token, password)
				}
				return testUserID, nil
			},
		}
		handler := NewAuthHandler(userSvc, audit, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/reset-password",
			`{"token":"secret-token","password":"brand-new-pass"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := audit.actions(); len(got) != 1 || got[0] != "PASSWORD_RESET" {
			t.Errorf("expected PASSWORD_RESET audit entry, got %v", got)
		}
	})

	t.Run("reset password with bad token", func(t *testing.T) {
		userSvc := &mockUserService{
			resetPasswordFn: func(_, _ string) (string, error) { return "", apperrors.ErrInvalidResetToken },
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "POST", "/auth/reset-password",
			`{"token":"nope","password":"brand-new-pass"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_RESET_TOKEN")
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns 200 with user", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				if id != testUserID {
					t.Errorf("unexpected id %s", id)
				}
				return newTestUser("ana@example.com"), nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, AuthConfig{})
		rec := doRequest(setupAuthRouter(handler), "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID {
			t.Errorf("expected id %s, got %v", testUserID, user["id"])
		}
	})

	t.Run("returns 401 without user in context", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, AuthConfig{})
		r := gin.New()
		r.GET("/profile", handler.GetProfile)

		rec := doRequest(r, "GET", "/profile", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
