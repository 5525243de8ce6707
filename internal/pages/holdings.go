package pages

import (
	"fmt"

	"finorbit/internal/chart"
	"finorbit/internal/payload"
)

// Balances is the "balances" blob: one row of month-end balances per
// account. Totals is optional and shown as the footer row.
type Balances struct {
	Months   []string         `json:"months"`
	Accounts []AccountBalance `json:"accounts"`
	Totals   []float64        `json:"totals"`
}

type AccountBalance struct {
	Account string    `json:"account_name"`
	Values  []float64 `json:"values"`
}

type BalanceRow struct {
	Account string
	Cells   []string
}

// BalanceMatrix is the account by month table of the holdings report.
type BalanceMatrix struct {
	Months []string
	Rows   []BalanceRow
	Totals []string
}

type HoldingsView struct {
	Evolution *chart.StackedBar
	Matrix    *BalanceMatrix
}

// HoldingsReport is the yearly cash holdings report.
type HoldingsReport struct{}

func (HoldingsReport) Name() string  { return PageHoldingsReport }
func (HoldingsReport) Title() string { return "Cash Holdings" }
func (HoldingsReport) Path() string  { return "/reports/holdings" }

func (m HoldingsReport) Build(env Env) (*Page, error) {
	page := newPage(m)
	view := &HoldingsView{}

	bar, err := stackedBar(env, chart.CanvasTarget{ChartID: "holdingsEvolutionChart"})
	if err != nil {
		return nil, err
	}
	if bar != nil {
		view.Evolution = bar
		page.addChart(bar)
	}

	var balances Balances
	ok, err := decode(env.Bundle, "balances", &balances)
	if err != nil {
		return nil, err
	}
	if ok {
		if view.Matrix, err = balanceMatrix(env, balances); err != nil {
			return nil, err
		}
	}

	page.Data = view
	return page, nil
}

func balanceMatrix(env Env, b Balances) (*BalanceMatrix, error) {
	width := len(b.Months)
	m := &BalanceMatrix{Months: b.Months, Rows: make([]BalanceRow, len(b.Accounts))}
	for i, acc := range b.Accounts {
		if len(acc.Values) != width {
			return nil, fmt.Errorf("%w: balances: account %q has %d values for %d months",
				payload.ErrMalformedPayload, acc.Account, len(acc.Values), width)
		}
		m.Rows[i] = BalanceRow{Account: acc.Account, Cells: currencies(env, acc.Values)}
	}
	if len(b.Totals) > 0 {
		if len(b.Totals) != width {
			return nil, fmt.Errorf("%w: balances: %d totals for %d months",
				payload.ErrMalformedPayload, len(b.Totals), width)
		}
		m.Totals = currencies(env, b.Totals)
	}
	return m, nil
}

func currencies(env Env, values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = env.Format.Currency(v)
	}
	return out
}
