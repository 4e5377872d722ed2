package ledger

import "github.com/shopspring/decimal"

// Net returns confirmed income minus confirmed expense of the month alone.
// Pending transactions never contribute.
func (s *State) Net(m Month) decimal.Decimal {
	if !m.Valid() {
		return decimal.Zero
	}
	net := decimal.Zero
	for _, tx := range s.months[m].Transactions {
		if !tx.IsConfirmed() {
			continue
		}
		if tx.IsIncome() {
			net = net.Add(tx.Amount)
		} else {
			net = net.Sub(tx.Amount)
		}
	}
	return net
}

// CumulativeThrough walks the months from January through m inclusive. A
// month after January whose carry-over flag is off discards the running
// total before its own net is added.
func (s *State) CumulativeThrough(m Month) decimal.Decimal {
	cumulative := decimal.Zero
	if !m.Valid() {
		return cumulative
	}
	for i := January; i <= m; i++ {
		if i > January && !s.months[i].Settings.CarryOverBalance {
			cumulative = decimal.Zero
		}
		cumulative = cumulative.Add(s.Net(i))
	}
	return cumulative
}

// OpeningBalance is the balance carried into m: the cumulative chain through
// the previous month when m carries over, zero otherwise. January always
// opens at zero.
func (s *State) OpeningBalance(m Month) decimal.Decimal {
	if !m.Valid() || m == January || !s.months[m].Settings.CarryOverBalance {
		return decimal.Zero
	}
	return s.CumulativeThrough(m - 1)
}
