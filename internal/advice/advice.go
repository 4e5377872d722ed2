// Package advice produces natural-language commentary on a month of
// transactions. Advice is read-only: nothing it returns feeds back into the
// ledger.
package advice

import (
	"context"

	"bliq/internal/ledger"
)

// Advisor turns a month and its transactions into free text. The text may
// contain newline-separated paragraphs.
type Advisor interface {
	Advise(ctx context.Context, month ledger.Month, txs []ledger.Transaction) (string, error)
}
