package pages

import "finorbit/internal/chart"

// MonthFlow is one entry of the "monthly-data" blob.
type MonthFlow struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
	Savings  float64 `json:"savings"`
}

type MonthFlowRow struct {
	Month        string
	Income       string
	Expenses     string
	Fixed        string
	Variable     string
	Savings      string
	SavingsClass string
}

type FinanceReportView struct {
	KPIs    []KPIView
	Savings *chart.Donut
	Months  []MonthFlowRow
}

// FinanceReport is the yearly cash flow report.
type FinanceReport struct{}

func (FinanceReport) Name() string  { return PageFinanceReport }
func (FinanceReport) Title() string { return "Financial Report" }
func (FinanceReport) Path() string  { return "/reports/finances" }

func (m FinanceReport) Build(env Env) (*Page, error) {
	page := newPage(m)
	view := &FinanceReportView{}
	var err error

	if view.KPIs, err = readKPIs(env); err != nil {
		return nil, err
	}

	view.Savings, err = donut(env,
		chart.DonutTarget{ChartID: "annualSavingsChart", LegendID: "annualSavingsLegend"},
		"annual-savings-labels", "annual-savings-data", SavingsColors)
	if err != nil {
		return nil, err
	}
	if view.Savings != nil {
		page.addChart(view.Savings)
	}

	var months []MonthFlow
	if _, err := decode(env.Bundle, "monthly-data", &months); err != nil {
		return nil, err
	}
	for _, mf := range months {
		row := MonthFlowRow{
			Month:        mf.Month,
			Income:       env.Format.Currency(mf.Income),
			Expenses:     env.Format.Currency(mf.Expenses),
			Fixed:        env.Format.Currency(mf.Fixed),
			Variable:     env.Format.Currency(mf.Variable),
			Savings:      env.Format.Currency(mf.Savings),
			SavingsClass: "text-success",
		}
		if mf.Savings < 0 {
			row.SavingsClass = "text-danger"
		}
		view.Months = append(view.Months, row)
	}

	page.Data = view
	return page, nil
}
