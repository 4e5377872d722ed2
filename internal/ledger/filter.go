package ledger

import (
	"strings"

	"golang.org/x/text/cases"
)

// TypeFilter restricts a listing to one transaction type, or none.
type TypeFilter string

const (
	FilterAll     TypeFilter = "ALL"
	FilterIncome  TypeFilter = TypeFilter(TransactionTypeIncome)
	FilterExpense TypeFilter = TypeFilter(TransactionTypeExpense)
)

// Valid reports whether f is a known filter. The empty filter means ALL.
func (f TypeFilter) Valid() bool {
	switch f {
	case "", FilterAll, FilterIncome, FilterExpense:
		return true
	}
	return false
}

func (f TypeFilter) matches(t TransactionType) bool {
	return f == "" || f == FilterAll || TransactionType(f) == t
}

// Filter returns the month's transactions whose description or category
// contains term, ignoring case, and whose type matches typ.
func (s *State) Filter(m Month, term string, typ TypeFilter) []Transaction {
	return FilterTransactions(s.Transactions(m), term, typ)
}

// FilterTransactions is the pure form of State.Filter. The result is a fresh
// slice that keeps the relative order of txs.
func FilterTransactions(txs []Transaction, term string, typ TypeFilter) []Transaction {
	folder := cases.Fold()
	needle := folder.String(term)

	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !typ.matches(tx.Type) {
			continue
		}
		if needle != "" &&
			!strings.Contains(folder.String(tx.Description), needle) &&
			!strings.Contains(folder.String(tx.Category), needle) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
