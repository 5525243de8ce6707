package pages

import (
	"fmt"

	"finorbit/internal/chart"
	"finorbit/internal/payload"
	"finorbit/internal/table"
)

// TransactionsTable is the table ID of the summary transaction table.
const TransactionsTable = "transactions"

// SavingsColors are the fixed colors of the savings rule donut.
var SavingsColors = []string{"#10b981", "#6366f1", "#f59e0b"}

type SummaryView struct {
	KPIs     []KPIView
	Expenses *chart.Donut
	Savings  *chart.Donut
	// Table is nil when the page has no transactions.
	Table *table.View
}

// Summary is the finances summary page.
type Summary struct{}

func (Summary) Name() string  { return PageSummary }
func (Summary) Title() string { return "Finances" }
func (Summary) Path() string  { return "/finances/summary" }

func (m Summary) Build(env Env) (*Page, error) {
	page := newPage(m)
	view := &SummaryView{}
	var err error

	if view.KPIs, err = readKPIs(env); err != nil {
		return nil, err
	}

	view.Expenses, err = donut(env,
		chart.DonutTarget{ChartID: "expenseChart", LegendID: "expenseLegend"},
		"expense-labels", "expense-data", nil)
	if err != nil {
		return nil, err
	}
	if view.Expenses != nil {
		page.addChart(view.Expenses)
	}

	view.Savings, err = donut(env,
		chart.DonutTarget{ChartID: "savingsRuleChart", LegendID: "savingsLegend"},
		"savings-labels", "savings-data", SavingsColors)
	if err != nil {
		return nil, err
	}
	if view.Savings != nil {
		page.addChart(view.Savings)
	}

	rows, opts, err := m.TableRows(env, TransactionsTable)
	if err != nil {
		return nil, err
	}
	if rows != nil && env.Tables != nil {
		v := env.Tables.Open(m.Name(), TransactionsTable, rows, opts...).View()
		view.Table = &v
	}

	page.Data = view
	return page, nil
}

// TableRows decodes the "transactions" blob. A page without the blob has
// no table: nil rows and no error.
func (Summary) TableRows(env Env, tableID string) ([]*table.Row, []table.Option, error) {
	if tableID != TransactionsTable {
		return nil, nil, fmt.Errorf("%w: table %s", payload.ErrMissing, tableID)
	}
	var txs []table.Transaction
	ok, err := decode(env.Bundle, TransactionsTable, &txs)
	if err != nil || !ok {
		return nil, nil, err
	}
	var money table.AmountFormatter
	if env.Format != nil {
		money = env.Format
	}
	rows, err := table.FromTransactions(txs, money)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", payload.ErrMalformedPayload, TransactionsTable, err)
	}
	return rows, nil, nil
}
