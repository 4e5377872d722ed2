package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	apperrors "bliq/internal/errors"
)

// Month is one of the twelve fixed month buckets of the ledger year.
// The ledger has no notion of multiple years.
type Month int

const (
	January Month = iota
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

const monthCount = 12

var monthNames = [monthCount]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Months returns the twelve months in calendar order.
func Months() []Month {
	months := make([]Month, monthCount)
	for i := range months {
		months[i] = Month(i)
	}
	return months
}

// Valid reports whether m is one of the twelve months.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// Index returns the zero-based calendar position of the month.
func (m Month) Index() int { return int(m) }

// String returns the locale name of the month, e.g. "Março".
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, apperrors.ErrInvalidMonth
	}
	return []byte(monthNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMonth resolves a month from its locale name (case-insensitive) or its
// 1-based calendar number.
func ParseMonth(s string) (Month, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return 0, apperrors.ErrInvalidMonth
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > monthCount {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidMonth, fmt.Sprintf("month number %d is out of range", n))
		}
		return Month(n - 1), nil
	}

	for i, name := range monthNames {
		if strings.EqualFold(name, s) {
			return Month(i), nil
		}
	}
	return 0, apperrors.WithMessage(apperrors.ErrInvalidMonth, fmt.Sprintf("unknown month %q", s))
}
