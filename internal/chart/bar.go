package chart

import (
	"encoding/json"
	"maps"
	"strings"
)

// Dataset is one stacked bar series as it arrives in the page payload.
// Fields other than label and data are passed to Chart.js untouched.
type Dataset map[string]any

// Label returns the dataset's "label" field.
func (d Dataset) Label() string {
	s, _ := d["label"].(string)
	return s
}

// Values returns the dataset's "data" field as numbers. Non-numeric
// entries read as zero.
func (d Dataset) Values() []float64 {
	switch raw := d["data"].(type) {
	case []float64:
		return raw
	case []any:
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = toFloat(v)
		}
		return out
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

// CanvasTarget names the canvas of a chart without an external legend.
type CanvasTarget struct {
	ChartID string
}

func (t CanvasTarget) Valid() bool {
	return strings.TrimSpace(t.ChartID) != ""
}

// StackedBar stacks every dataset on both axes.
type StackedBar struct {
	Target   CanvasTarget
	Labels   []string
	Datasets []Dataset
	Tooltips [][]string
}

// NewStackedBar assigns dataset i the palette color i and precomputes the
// "<label>: <amount>" tooltip of every bar. A missing target yields
// (nil, nil).
func (fa *Factory) NewStackedBar(target CanvasTarget, labels []string, datasets []Dataset) (*StackedBar, error) {
	if !target.Valid() {
		return nil, nil
	}
	b := &StackedBar{
		Target:   target,
		Labels:   labels,
		Datasets: make([]Dataset, len(datasets)),
		Tooltips: make([][]string, len(datasets)),
	}
	for i, ds := range datasets {
		colored := maps.Clone(ds)
		if colored == nil {
			colored = Dataset{}
		}
		colored["backgroundColor"] = PaletteColor(i)
		colored["borderRadius"] = 0
		colored["borderSkipped"] = false
		b.Datasets[i] = colored

		values := ds.Values()
		lines := make([]string, len(values))
		for j, v := range values {
			lines[j] = ds.Label() + ": " + fa.format.Currency(v)
		}
		b.Tooltips[i] = lines
	}
	return b, nil
}

func (b *StackedBar) ChartID() string {
	return b.Target.ChartID
}

func (b *StackedBar) Config() Config {
	datasets := make([]map[string]any, len(b.Datasets))
	for i, ds := range b.Datasets {
		datasets[i] = ds
	}
	meta := newMeta(b.Target.ChartID)
	meta.Tooltips = b.Tooltips
	meta.TickFormat = "currency"

	return Config{
		Type: "bar",
		Data: ConfigData{Labels: b.Labels, Datasets: datasets},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"interaction":         map[string]any{"mode": "index", "intersect": false},
			"plugins": map[string]any{
				"legend": map[string]any{
					"display":  true,
					"position": "bottom",
					"labels": map[string]any{
						"boxWidth":      12,
						"usePointStyle": true,
						"font":          map[string]any{"size": 11},
					},
				},
				"tooltip": map[string]any{"mode": "index", "intersect": false},
			},
			"scales": map[string]any{
				"x": map[string]any{"stacked": true, "grid": map[string]any{"display": false}},
				"y": map[string]any{"stacked": true, "beginAtZero": true},
			},
		},
		Meta: meta,
	}
}
