package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bliq/internal/ledger"
	"bliq/internal/models"
	"bliq/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// TestDraft returns a valid transaction draft dated in 2024.
func TestDraft(typ ledger.TransactionType, status ledger.TransactionStatus, amount string) ledger.Draft {
	return ledger.Draft{
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:      decimal.RequireFromString(amount),
		Date:        ledger.NewDate(2024, time.March, 15),
		Category:    "Outros",
		Type:        typ,
		Status:      status,
	}
}

// CreateTestSnapshot saves state as the stored ledger of userID.
func CreateTestSnapshot(t *testing.T, s store.SnapshotStore, userID string, state *ledger.State) int64 {
	t.Helper()

	version, err := s.Save(context.Background(), userID, state)
	if err != nil {
		t.Fatalf("failed to save test snapshot: %v", err)
	}
	return version
}
