package pages

import (
	"fmt"

	"finorbit/internal/chart"
	"finorbit/internal/payload"
	"finorbit/internal/table"
)

// staleAfterDays is how old the oldest market snapshot may get before the
// home page flags the net worth as outdated.
const staleAfterDays = 30

// NetWorth is the "net-worth" blob of the home page.
type NetWorth struct {
	Current        *float64 `json:"current"`
	LastMarketDate string   `json:"last_market_date"`
}

type HomeView struct {
	NetWorth       string
	LastMarketDate string
	Stale          bool
	KPIs           []KPIView
	History        *chart.Line
}

// Home is the landing page: net worth and its history.
type Home struct{}

func (Home) Name() string  { return PageHome }
func (Home) Title() string { return "Overview" }
func (Home) Path() string  { return "/" }

func (m Home) Build(env Env) (*Page, error) {
	page := newPage(m)
	view := &HomeView{}

	var nw NetWorth
	ok, err := decode(env.Bundle, "net-worth", &nw)
	if err != nil {
		return nil, err
	}
	view.NetWorth = env.Format.CurrencyOrZero(nw.Current)
	if ok && nw.LastMarketDate != "" {
		date, err := table.ParseDate(nw.LastMarketDate)
		if err != nil {
			return nil, fmt.Errorf("%w: net-worth: %v", payload.ErrMalformedPayload, err)
		}
		view.LastMarketDate = date.Format("02.01.2006")
		view.Stale = env.now().Sub(date).Hours() > 24*staleAfterDays
	}

	if view.KPIs, err = readKPIs(env); err != nil {
		return nil, err
	}

	var history []chart.NetWorthPoint
	if _, err := decode(env.Bundle, "net-worth-history", &history); err != nil {
		return nil, err
	}
	if line := env.Charts.NewNetWorthLine(chart.CanvasTarget{ChartID: "netWorthChart"}, history); line != nil {
		view.History = line
		page.addChart(line)
	}

	page.Data = view
	return page, nil
}
