package chart

// PerformancePoint is one month of the portfolio performance series.
type PerformancePoint struct {
	Label    string  `json:"label"`
	Market   float64 `json:"market"`
	Invested float64 `json:"invested"`
}

// NetWorthPoint is one month of the net worth history.
type NetWorthPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Line is a line chart with currency ticks.
type Line struct {
	Target   CanvasTarget
	Labels   []string
	Series   []map[string]any
	Tooltips [][]string
}

// NewPerformanceLine plots market value against invested capital.
func (fa *Factory) NewPerformanceLine(target CanvasTarget, points []PerformancePoint) *Line {
	if !target.Valid() || len(points) == 0 {
		return nil
	}
	labels := make([]string, len(points))
	market := make([]float64, len(points))
	invested := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Label
		market[i] = p.Market
		invested[i] = p.Invested
	}
	return &Line{
		Target: target,
		Labels: labels,
		Series: []map[string]any{
			{
				"label":           "Market Value",
				"data":            market,
				"borderColor":     "#0d6efd",
				"backgroundColor": "rgba(13, 110, 253, 0.1)",
				"fill":            true,
				"tension":         0.4,
				"borderWidth":     3,
				"pointRadius":     2,
			},
			{
				"label":       "Invested",
				"data":        invested,
				"borderColor": "#adb5bd",
				"borderDash":  []int{5, 5},
				"fill":        false,
				"tension":     0,
				"borderWidth": 2,
				"pointRadius": 0,
			},
		},
		Tooltips: [][]string{
			fa.tooltipLines("Market Value", market),
			fa.tooltipLines("Invested", invested),
		},
	}
}

// NewNetWorthLine plots the net worth history as one filled series.
func (fa *Factory) NewNetWorthLine(target CanvasTarget, points []NetWorthPoint) *Line {
	if !target.Valid() || len(points) == 0 {
		return nil
	}
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Label
		values[i] = p.Value
	}
	return &Line{
		Target: target,
		Labels: labels,
		Series: []map[string]any{{
			"label":           "Net Worth",
			"data":            values,
			"borderColor":     Palette[0],
			"backgroundColor": "rgba(79, 70, 229, 0.1)",
			"fill":            true,
			"tension":         0.4,
			"borderWidth":     3,
			"pointRadius":     2,
		}},
		Tooltips: [][]string{fa.tooltipLines("Net Worth", values)},
	}
}

func (fa *Factory) tooltipLines(label string, values []float64) []string {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = label + ": " + fa.format.Currency(v)
	}
	return lines
}

func (l *Line) ChartID() string {
	return l.Target.ChartID
}

func (l *Line) Config() Config {
	meta := newMeta(l.Target.ChartID)
	meta.Tooltips = l.Tooltips
	meta.TickFormat = "currency"
	return Config{
		Type: "line",
		Data: ConfigData{Labels: l.Labels, Datasets: l.Series},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"interaction":         map[string]any{"mode": "index", "intersect": false},
			"plugins": map[string]any{
				"legend": map[string]any{"display": true, "position": "bottom"},
			},
			"scales": map[string]any{
				"x": map[string]any{"grid": map[string]any{"display": false}},
				"y": map[string]any{"beginAtZero": true},
			},
		},
		Meta: meta,
	}
}
