package chart

import "encoding/json"

// Config is a Chart.js configuration plus the Meta block read by the
// dashboard script. Chart.js never sees Meta; the script strips it before
// constructing the chart.
type Config struct {
	Type    string         `json:"type"`
	Data    ConfigData     `json:"data"`
	Options map[string]any `json:"options"`
	Meta    Meta           `json:"meta"`
}

type ConfigData struct {
	Labels   []string         `json:"labels"`
	Datasets []map[string]any `json:"datasets"`
}

// Meta carries everything Chart.js callbacks cannot express as JSON.
type Meta struct {
	ChartID string `json:"chartId"`
	// LegendID is the external legend container of a donut.
	LegendID string `json:"legendId,omitempty"`
	// Tooltips[dataset][point] is the preformatted tooltip line.
	Tooltips [][]string `json:"tooltips,omitempty"`
	// TickFormat names the formatter applied to value axis ticks.
	TickFormat string `json:"tickFormat,omitempty"`
	// ActiveIndex is the segment active at first paint, -1 for none.
	ActiveIndex int `json:"activeIndex"`
	// HighlightIndex is the legend card highlighted at first paint, -1 for none.
	HighlightIndex int `json:"highlightIndex"`
}

// Renderer is implemented by every chart the factory builds.
type Renderer interface {
	ChartID() string
	Config() Config
}

// MarshalConfig renders r's configuration as JSON for embedding in a page.
func MarshalConfig(r Renderer) ([]byte, error) {
	return json.Marshal(r.Config())
}

func newMeta(chartID string) Meta {
	return Meta{ChartID: chartID, ActiveIndex: -1, HighlightIndex: -1}
}
