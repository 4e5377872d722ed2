package ledger

import "github.com/shopspring/decimal"

// Totals are the headline figures of a month. They are derived on every call
// and never stored.
type Totals struct {
	Opening          decimal.Decimal `json:"opening"`
	ConfirmedIncome  decimal.Decimal `json:"confirmedIncome"`
	ConfirmedExpense decimal.Decimal `json:"confirmedExpense"`
	PendingIncome    decimal.Decimal `json:"pendingIncome"`
	PendingExpense   decimal.Decimal `json:"pendingExpense"`
	Net              decimal.Decimal `json:"net"`
	Projected        decimal.Decimal `json:"projected"`
}

// Totals computes the figures of month m using its opening balance.
func (s *State) Totals(m Month) Totals {
	return Summarize(s.OpeningBalance(m), s.Transactions(m))
}

// Summarize reduces a transaction list on top of an opening balance.
//
//	Net       = opening + confirmed income - confirmed expense
//	Projected = opening + all income - all expense
func Summarize(opening decimal.Decimal, txs []Transaction) Totals {
	t := Totals{
		Opening:          opening,
		ConfirmedIncome:  decimal.Zero,
		ConfirmedExpense: decimal.Zero,
		PendingIncome:    decimal.Zero,
		PendingExpense:   decimal.Zero,
	}

	for _, tx := range txs {
		switch {
		case tx.IsIncome() && tx.IsConfirmed():
			t.ConfirmedIncome = t.ConfirmedIncome.Add(tx.Amount)
		case tx.IsIncome():
			t.PendingIncome = t.PendingIncome.Add(tx.Amount)
		case tx.IsConfirmed():
			t.ConfirmedExpense = t.ConfirmedExpense.Add(tx.Amount)
		default:
			t.PendingExpense = t.PendingExpense.Add(tx.Amount)
		}
	}

	t.Net = opening.Add(t.ConfirmedIncome).Sub(t.ConfirmedExpense)
	t.Projected = opening.
		Add(t.ConfirmedIncome.Add(t.PendingIncome)).
		Sub(t.ConfirmedExpense.Add(t.PendingExpense))
	return t
}

// MonthSummary pairs a month with its totals.
type MonthSummary struct {
	Month            Month  `json:"month"`
	CarryOverBalance bool   `json:"carryOverBalance"`
	TransactionCount int    `json:"transactionCount"`
	Totals           Totals `json:"totals"`
}

// YearSummary returns the totals of all twelve months in calendar order.
func (s *State) YearSummary() []MonthSummary {
	out := make([]MonthSummary, 0, monthCount)
	for _, m := range Months() {
		out = append(out, MonthSummary{
			Month:            m,
			CarryOverBalance: s.months[m].Settings.CarryOverBalance,
			TransactionCount: len(s.months[m].Transactions),
			Totals:           s.Totals(m),
		})
	}
	return out
}
