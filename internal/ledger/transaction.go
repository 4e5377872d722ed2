package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "bliq/internal/errors"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// TransactionStatus tells whether a transaction has settled.
type TransactionStatus string

const (
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusPending   TransactionStatus = "PENDING"
)

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusPending
}

// Amounts carry at most AmountScale decimal places and fewer than
// AmountIntegerDigits digits before the point.
const (
	AmountScale         = 2
	AmountIntegerDigits = 12
)

// validateAmount checks the exponent before any arithmetic so a huge
// exponent never gets expanded into its digits.
func validateAmount(a decimal.Decimal) error {
	if a.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	exp := int64(a.Exponent())
	if exp < -2*AmountIntegerDigits || int64(a.NumDigits())+exp > AmountIntegerDigits {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be below 1000000000000")
	}
	if !a.Equal(a.Truncate(AmountScale)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most 2 decimal places")
	}
	return nil
}

// Draft holds the user-supplied fields of a transaction before an ID is minted.
type Draft struct {
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Date        Date              `json:"date"`
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
}

// Transaction is a single income or expense entry of a month.
//
// Category is a soft reference to a category name. Removing the category
// leaves the transaction untouched and the name is kept as free text.
type Transaction struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Date        Date              `json:"date"`
	Category    string            `json:"category"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
}

// Draft returns the user-supplied fields of the transaction.
func (t Transaction) Draft() Draft {
	return Draft{
		Description: t.Description,
		Amount:      t.Amount,
		Date:        t.Date,
		Category:    t.Category,
		Type:        t.Type,
		Status:      t.Status,
	}
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool { return t.Type == TransactionTypeIncome }

// IsConfirmed reports whether the transaction has settled.
func (t Transaction) IsConfirmed() bool { return t.Status == StatusConfirmed }

// Validate checks the invariants of a transaction before it enters a store.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if err := validateAmount(d.Amount); err != nil {
		return err
	}
	if d.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if !d.Type.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}
	if !d.Status.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be CONFIRMED or PENDING")
	}
	return nil
}

// WithID returns the transaction made of d's trimmed fields under id.
func (d Draft) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
		Date:        d.Date,
		Category:    strings.TrimSpace(d.Category),
		Type:        d.Type,
		Status:      d.Status,
	}
}
