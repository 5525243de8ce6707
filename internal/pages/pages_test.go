package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finorbit/internal/chart"
	"finorbit/internal/format"
	"finorbit/internal/log"
	"finorbit/internal/payload"
	"finorbit/internal/table"
)

type recordingOpener struct {
	opened []string
}

func (o *recordingOpener) Open(page, tableID string, rows []*table.Row, opts ...table.Option) *table.Session {
	o.opened = append(o.opened, page+"/"+tableID)
	return table.NewSession("sess-1", page, rows, opts...)
}

func newEnv(t *testing.T, doc string) Env {
	t.Helper()
	b, err := payload.ParseJSON([]byte(doc))
	require.NoError(t, err)
	f := format.Default()
	return Env{
		Bundle: b,
		Charts: chart.NewFactory(f),
		Format: f,
		Tables: &recordingOpener{},
		Logger: log.Discard(),
		Now:    func() time.Time { return time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC) },
	}
}

func TestRegistry(t *testing.T) {
	r := Default()

	m, err := r.Lookup(PageSummary)
	require.NoError(t, err)
	assert.Equal(t, "/finances/summary", m.Path())

	m, ok := r.ByPath("/reports/holdings")
	require.True(t, ok)
	assert.Equal(t, PageHoldingsReport, m.Name())

	_, err = r.Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownPage)

	_, err = NewRegistry(Home{}, Home{})
	assert.Error(t, err)
}

func TestSummary_Build(t *testing.T) {
	env := newEnv(t, `{
		"kpis": [{"label": "Income", "value": 3200}, {"label": "Savings rate", "value": 21.35, "kind": "percent"}],
		"expense-labels": ["Rent", "Food", "Travel"],
		"expense-data": [900, 450.5, 120],
		"savings-labels": ["Savings", "Fixed", "Variable"],
		"savings-data": [500, 1200, 800],
		"transactions": [
			{"id": "t1", "date": "2024-01-03", "amount": -12.5, "category": "Food", "description": "Bakery"},
			{"id": "t2", "date": "2024-01-01", "amount": 3200, "category": "Salary"},
			{"id": "t3", "date": "2024-01-02", "amount": "-900", "category": "Rent"}
		]
	}`)
	env.Focus = "food"

	page, err := Summary{}.Build(env)
	require.NoError(t, err)
	assert.Equal(t, "summary_page", page.Template)
	assert.Len(t, page.Charts, 2)

	view := page.Data.(*SummaryView)
	require.Len(t, view.KPIs, 2)
	assert.Equal(t, "3.200,00 €", view.KPIs[0].Display)
	assert.Equal(t, "21.4%", view.KPIs[1].Display)

	require.NotNil(t, view.Expenses)
	assert.Equal(t, "Rent", view.Expenses.Slices[0].Datum.Label)
	assert.Equal(t, 1, view.Expenses.Sync.HighlightedLegend(), "focus highlights Food")

	require.NotNil(t, view.Savings)
	assert.Equal(t, "#6366f1", view.Savings.Slices[0].Datum.Color, "Fixed keeps its own color after sorting")

	require.NotNil(t, view.Table)
	assert.Len(t, view.Table.Rows, 3)
	assert.Equal(t, "2287.5", view.Table.Total.String())
	assert.Equal(t, []string{"summary/transactions"}, env.Tables.(*recordingOpener).opened)
}

func TestSummary_MissingPayloadSkipsWidgets(t *testing.T) {
	env := newEnv(t, `{"expense-labels": ["Rent"]}`)

	page, err := Summary{}.Build(env)
	require.NoError(t, err)

	view := page.Data.(*SummaryView)
	assert.Nil(t, view.Expenses)
	assert.Nil(t, view.Savings)
	assert.Nil(t, view.Table)
	assert.Empty(t, view.KPIs)
	assert.Empty(t, page.Charts)
	assert.Empty(t, env.Tables.(*recordingOpener).opened)
}

func TestSummary_MalformedPayload(t *testing.T) {
	cases := map[string]string{
		"values not numbers": `{"expense-labels": ["Rent"], "expense-data": ["x"]}`,
		"length mismatch":    `{"expense-labels": ["Rent", "Food"], "expense-data": [1]}`,
		"bad date":           `{"transactions": [{"date": "yesterday", "amount": 1, "category": "A"}]}`,
		"kpis not a list":    `{"kpis": {"label": "x"}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Summary{}.Build(newEnv(t, doc))
			assert.ErrorIs(t, err, payload.ErrMalformedPayload)
		})
	}
}

func TestSummary_TableRowsUnknownTable(t *testing.T) {
	_, _, err := Summary{}.TableRows(Env{Bundle: payload.Bundle{}}, "other")
	assert.ErrorIs(t, err, payload.ErrMissing)
}

func TestInvestments_Build(t *testing.T) {
	env := newEnv(t, `{
		"performance-data": [{"label": "Jan 24", "market": 1000, "invested": 900}, {"label": "Feb 24", "market": 1100, "invested": 950}],
		"allocation-labels": ["ETF", "Bonds"],
		"allocation-data": [700, 300],
		"bar-labels": ["Jan 24", "Feb 24"],
		"bar-datasets": [{"label": "ETF", "data": [100, 50], "stack": "a"}],
		"portfolio": [
			{"name": "World ETF", "invested": 900, "current_value": 1000, "profit_loss": 100, "roi": 11.11, "allocation": 66.66},
			{"name": "Bonds", "invested": 400, "current_value": 380, "profit_loss": -20, "roi": -5, "allocation": 33.34}
		]
	}`)

	page, err := Investments{}.Build(env)
	require.NoError(t, err)
	assert.Len(t, page.Charts, 3)

	view := page.Data.(*InvestmentsView)
	require.NotNil(t, view.Performance)
	require.NotNil(t, view.Allocation)
	require.NotNil(t, view.Contributions)
	assert.Equal(t, "a", view.Contributions.Datasets[0]["stack"])

	require.NotNil(t, view.Portfolio)
	assert.Equal(t, 25, view.Portfolio.Options.PageLength)
	assert.Equal(t, [][]any{{4, "desc"}}, view.Portfolio.Options.Order)
	assert.Equal(t, "Search asset...", view.Portfolio.Options.Language.SearchPlaceholder)
	assert.Equal(t, "Allocation", view.Portfolio.Options.Columns[4])

	rows := view.Portfolio.Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "67%", rows[0].ProgressWidth)
	assert.Equal(t, "66.7%", rows[0].AllocationLabel)
	assert.Equal(t, "text-danger", rows[1].ProfitClass)
	assert.Equal(t, "-20,00 €", rows[1].ProfitLossLabel)
}

func TestProgressWidth(t *testing.T) {
	assert.Equal(t, "0%", progressWidth(-3))
	assert.Equal(t, "50%", progressWidth(49.5))
	assert.Equal(t, "100%", progressWidth(120))
}

func TestHoldingsReport_Build(t *testing.T) {
	env := newEnv(t, `{
		"bar-labels": ["Jan 24", "Feb 24"],
		"bar-datasets": [{"label": "Checking", "data": [1000, 1200]}, {"label": "Savings", "data": [5000, 5100]}],
		"balances": {
			"months": ["Jan 24", "Feb 24"],
			"accounts": [{"account_name": "Checking", "values": [1000, 1200]}],
			"totals": [6000, 6300]
		}
	}`)

	page, err := HoldingsReport{}.Build(env)
	require.NoError(t, err)

	view := page.Data.(*HoldingsView)
	require.NotNil(t, view.Evolution)
	assert.Equal(t, chart.Palette[1], view.Evolution.Datasets[1]["backgroundColor"])
	require.NotNil(t, view.Matrix)
	assert.Equal(t, []string{"1.000,00 €", "1.200,00 €"}, view.Matrix.Rows[0].Cells)
	assert.Equal(t, []string{"6.000,00 €", "6.300,00 €"}, view.Matrix.Totals)
}

func TestHoldingsReport_RaggedMatrix(t *testing.T) {
	env := newEnv(t, `{"balances": {"months": ["Jan 24"], "accounts": [{"account_name": "A", "values": [1, 2]}]}}`)
	_, err := HoldingsReport{}.Build(env)
	assert.ErrorIs(t, err, payload.ErrMalformedPayload)
}

func TestFinanceReport_Build(t *testing.T) {
	env := newEnv(t, `{
		"annual-savings-labels": ["Savings", "Fixed", "Variable"],
		"annual-savings-data": [0, 0, 0],
		"monthly-data": [{"month": "Jan", "income": 3000, "expenses": 3100, "savings": -100}]
	}`)

	page, err := FinanceReport{}.Build(env)
	require.NoError(t, err)

	view := page.Data.(*FinanceReportView)
	require.NotNil(t, view.Savings)
	for _, s := range view.Savings.Slices {
		assert.Equal(t, "0%", s.PercentLabel)
	}
	require.Len(t, view.Months, 1)
	assert.Equal(t, "text-danger", view.Months[0].SavingsClass)
	assert.Equal(t, "3.100,00 €", view.Months[0].Expenses)
}

func TestHome_Build(t *testing.T) {
	env := newEnv(t, `{
		"net-worth": {"current": 152340.5, "last_market_date": "2024-05-31"},
		"net-worth-history": [{"label": "May 24", "value": 150000}, {"label": "Jun 24", "value": 152340.5}]
	}`)

	page, err := Home{}.Build(env)
	require.NoError(t, err)

	view := page.Data.(*HomeView)
	assert.Equal(t, "152.340,50 €", view.NetWorth)
	assert.Equal(t, "31.05.2024", view.LastMarketDate)
	assert.True(t, view.Stale)
	require.NotNil(t, view.History)
	assert.Contains(t, page.Charts, "netWorthChart")
}

func TestHome_Empty(t *testing.T) {
	page, err := Home{}.Build(newEnv(t, `{}`))
	require.NoError(t, err)

	view := page.Data.(*HomeView)
	assert.Equal(t, "0,00 €", view.NetWorth)
	assert.False(t, view.Stale)
	assert.Nil(t, view.History)
	assert.Empty(t, page.Charts)
}
