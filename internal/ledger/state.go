// Package ledger implements the monthly ledger: twelve month buckets of
// transactions, a category registry, balance propagation across months and
// the headline totals of a month.
//
// A State is not safe for concurrent use. Every mutation validates its input
// before touching the state, so a failed call leaves the ledger unchanged.
package ledger

import (
	"encoding/json"
	"fmt"

	apperrors "bliq/internal/errors"
)

// MonthSettings holds per-month configuration.
type MonthSettings struct {
	CarryOverBalance bool `json:"carryOverBalance"`
}

// MonthData is the content of one month bucket. Transactions are kept
// newest-first in insertion order.
type MonthData struct {
	Transactions []Transaction `json:"transactions"`
	Settings     MonthSettings `json:"settings"`
}

func (d MonthData) clone() MonthData {
	txs := make([]Transaction, len(d.Transactions))
	copy(txs, d.Transactions)
	return MonthData{Transactions: txs, Settings: d.Settings}
}

// State is the ledger root of a single user.
type State struct {
	months     [monthCount]MonthData
	categories []Category
}

// NewState returns a ledger with twelve empty months and the default categories.
func NewState() *State {
	return &State{categories: DefaultCategories()}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{categories: s.Categories()}
	for i := range s.months {
		out.months[i] = s.months[i].clone()
	}
	return out
}

// Month returns a copy of the month bucket. A month that never received a
// transaction is returned empty with carry-over disabled.
func (s *State) Month(m Month) MonthData {
	if !m.Valid() {
		return MonthData{Transactions: []Transaction{}}
	}
	return s.months[m].clone()
}

// Transactions returns a copy of the month's transactions in store order.
func (s *State) Transactions(m Month) []Transaction {
	return s.Month(m).Transactions
}

// ToggleCarryOver flips the carry-over flag of the month and returns the new value.
func (s *State) ToggleCarryOver(m Month) (bool, error) {
	if !m.Valid() {
		return false, apperrors.ErrInvalidMonth
	}
	s.months[m].Settings.CarryOverBalance = !s.months[m].Settings.CarryOverBalance
	return s.months[m].Settings.CarryOverBalance, nil
}

// SetCarryOver sets the carry-over flag of the month.
func (s *State) SetCarryOver(m Month, carry bool) error {
	if !m.Valid() {
		return apperrors.ErrInvalidMonth
	}
	s.months[m].Settings.CarryOverBalance = carry
	return nil
}

type snapshot struct {
	Months     map[string]MonthData `json:"months"`
	Categories []Category           `json:"categories"`
}

// MarshalJSON encodes the state as a snapshot keyed by month name.
func (s *State) MarshalJSON() ([]byte, error) {
	snap := snapshot{
		Months:     make(map[string]MonthData, monthCount),
		Categories: s.Categories(),
	}
	for _, m := range Months() {
		data := s.months[m].clone()
		snap.Months[m.String()] = data
	}
	return json.Marshal(snap)
}

// UnmarshalJSON decodes a snapshot. Months absent from the document are
// initialized empty. Unknown month names, a month given under two keys and
// invalid transactions are rejected.
func (s *State) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	var decoded State
	var seen [monthCount]bool
	for name, md := range snap.Months {
		m, err := ParseMonth(name)
		if err != nil {
			return fmt.Errorf("snapshot month %q: %w", name, err)
		}
		if seen[m] {
			return fmt.Errorf("snapshot month %q: %s given twice", name, m)
		}
		seen[m] = true
		for _, tx := range md.Transactions {
			if err := tx.Draft().Validate(); err != nil {
				return fmt.Errorf("snapshot month %q transaction %q: %w", name, tx.ID, err)
			}
		}
		if md.Transactions == nil {
			md.Transactions = []Transaction{}
		}
		decoded.months[m] = md
	}
	decoded.categories = snap.Categories
	if decoded.categories == nil {
		decoded.categories = []Category{}
	}

	*s = decoded
	return nil
}
