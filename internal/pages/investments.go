package pages

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finorbit/internal/chart"
	"finorbit/internal/format"
)

// AssetPageLength is the page size of the portfolio grid.
const AssetPageLength = 25

// Asset is one entry of the "portfolio" blob.
type Asset struct {
	Name         string  `json:"name"`
	Invested     float64 `json:"invested"`
	CurrentValue float64 `json:"current_value"`
	ProfitLoss   float64 `json:"profit_loss"`
	ROI          float64 `json:"roi"`
	// Allocation is the asset's share of the portfolio value, in percent.
	Allocation float64 `json:"allocation"`
}

// AssetRow is a formatted portfolio grid row. The raw values feed the
// grid's data-order attributes.
type AssetRow struct {
	Asset
	InvestedLabel   string
	ValueLabel      string
	ProfitLossLabel string
	ROILabel        string
	AllocationLabel string
	// ProgressWidth is the allocation bar's target CSS width, applied once
	// the grid has rendered.
	ProgressWidth string
	ProfitClass   string
}

// GridOptions configures the client-side tabular grid of the portfolio.
type GridOptions struct {
	PageLength int          `json:"pageLength"`
	Order      [][]any      `json:"order"`
	Language   GridLanguage `json:"language"`
	Columns    []string     `json:"-"`
}

type GridLanguage struct {
	Search            string `json:"search"`
	SearchPlaceholder string `json:"searchPlaceholder"`
}

// AssetColumns are the portfolio grid headers; the grid sorts by
// allocation, descending.
var AssetColumns = []string{"Asset", "Invested", "Market Value", "Profit/Loss", "Allocation", "ROI"}

func DefaultGridOptions() GridOptions {
	return GridOptions{
		PageLength: AssetPageLength,
		Order:      [][]any{{4, "desc"}},
		Language:   GridLanguage{Search: "", SearchPlaceholder: "Search asset..."},
		Columns:    AssetColumns,
	}
}

type AssetTable struct {
	ID      string
	Rows    []AssetRow
	Options GridOptions
}

type InvestmentsView struct {
	KPIs          []KPIView
	Performance   *chart.Line
	Allocation    *chart.Donut
	Contributions *chart.StackedBar
	Portfolio     *AssetTable
}

// Investments is the portfolio dashboard.
type Investments struct{}

func (Investments) Name() string  { return PageInvestments }
func (Investments) Title() string { return "Investments" }
func (Investments) Path() string  { return "/investments" }

func (m Investments) Build(env Env) (*Page, error) {
	page := newPage(m)
	view := &InvestmentsView{}
	var err error

	if view.KPIs, err = readKPIs(env); err != nil {
		return nil, err
	}

	var points []chart.PerformancePoint
	if _, err := decode(env.Bundle, "performance-data", &points); err != nil {
		return nil, err
	}
	if line := env.Charts.NewPerformanceLine(chart.CanvasTarget{ChartID: "performanceChart"}, points); line != nil {
		view.Performance = line
		page.addChart(line)
	}

	view.Allocation, err = donut(env,
		chart.DonutTarget{ChartID: "allocationChart", LegendID: "allocationLegend"},
		"allocation-labels", "allocation-data", nil)
	if err != nil {
		return nil, err
	}
	if view.Allocation != nil {
		page.addChart(view.Allocation)
	}

	view.Contributions, err = stackedBar(env, chart.CanvasTarget{ChartID: "monthlyContributionsChart"})
	if err != nil {
		return nil, err
	}
	if view.Contributions != nil {
		page.addChart(view.Contributions)
	}

	var assets []Asset
	ok, err := decode(env.Bundle, "portfolio", &assets)
	if err != nil {
		return nil, err
	}
	if ok {
		view.Portfolio = &AssetTable{
			ID:      "portfolioTable",
			Rows:    assetRows(env.Format, assets),
			Options: DefaultGridOptions(),
		}
	}

	page.Data = view
	return page, nil
}

func assetRows(f *format.Formatter, assets []Asset) []AssetRow {
	rows := make([]AssetRow, len(assets))
	for i, a := range assets {
		rows[i] = AssetRow{
			Asset:           a,
			InvestedLabel:   f.Currency(a.Invested),
			ValueLabel:      f.Currency(a.CurrentValue),
			ProfitLossLabel: f.Currency(a.ProfitLoss),
			ROILabel:        f.Percentage(a.ROI),
			AllocationLabel: f.Percentage(a.Allocation),
			ProgressWidth:   progressWidth(a.Allocation),
			ProfitClass:     "text-success",
		}
		if a.ProfitLoss < 0 {
			rows[i].ProfitClass = "text-danger"
		}
	}
	return rows
}

// progressWidth rounds the allocation to a whole percent, clamped to the
// bar's range.
func progressWidth(allocation float64) string {
	w := decimal.NewFromFloat(allocation).Round(0).IntPart()
	w = min(max(w, 0), 100)
	return fmt.Sprintf("%d%%", w)
}
