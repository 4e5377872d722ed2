package advice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bliq/internal/ledger"

	"github.com/shopspring/decimal"
)

// StaticAdvisor derives a short summary from the month's figures without any
// external call. It serves deployments without a Gemini API key.
type StaticAdvisor struct{}

// NewStaticAdvisor creates a StaticAdvisor.
func NewStaticAdvisor() *StaticAdvisor {
	return &StaticAdvisor{}
}

// Advise implements Advisor.
func (StaticAdvisor) Advise(_ context.Context, month ledger.Month, txs []ledger.Transaction) (string, error) {
	if len(txs) == 0 {
		return fmt.Sprintf("Nenhuma transação registrada em %s.", month), nil
	}

	totals := ledger.Summarize(decimal.Zero, txs)
	lines := []string{
		fmt.Sprintf("Em %s você recebeu %s e gastou %s em transações confirmadas, com saldo de %s.",
			month, money(totals.ConfirmedIncome), money(totals.ConfirmedExpense), money(totals.Net)),
	}

	if !totals.PendingIncome.IsZero() || !totals.PendingExpense.IsZero() {
		lines = append(lines, fmt.Sprintf("Ainda há %s a receber e %s a pagar; considerando as pendências o saldo previsto é %s.",
			money(totals.PendingIncome), money(totals.PendingExpense), money(totals.Projected)))
	}

	if category, amount, ok := largestExpenseCategory(txs); ok {
		lines = append(lines, fmt.Sprintf("A categoria com maior gasto foi %s, somando %s.", category, money(amount)))
	}

	if totals.Projected.IsNegative() {
		lines = append(lines, "O mês tende a fechar no vermelho: revise as despesas pendentes antes de confirmá-las.")
	}

	return strings.Join(lines, "\n"), nil
}

func largestExpenseCategory(txs []ledger.Transaction) (string, decimal.Decimal, bool) {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.IsIncome() {
			continue
		}
		name := tx.Category
		if name == "" {
			name = "sem categoria"
		}
		sums[name] = sums[name].Add(tx.Amount)
	}
	if len(sums) == 0 {
		return "", decimal.Zero, false
	}

	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if sums[name].GreaterThan(sums[best]) {
			best = name
		}
	}
	return best, sums[best], true
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}
