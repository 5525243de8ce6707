package chart

import (
	"fmt"
	"slices"
	"strings"
)

// DonutTarget names the canvas and the legend container of a donut.
type DonutTarget struct {
	ChartID  string
	LegendID string
}

func (t DonutTarget) Valid() bool {
	return strings.TrimSpace(t.ChartID) != "" && strings.TrimSpace(t.LegendID) != ""
}

// SegmentRef addresses one rendered segment of the chart.
type SegmentRef struct {
	DatasetIndex int `json:"datasetIndex"`
	Index        int `json:"index"`
}

// LegendRef addresses one rendered legend card.
type LegendRef struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

// Slice pairs a datum with both of its rendered handles so the segment and
// the legend card cannot drift apart.
type Slice struct {
	Index        int
	Datum        ChartDatum
	Percent      float64
	PercentLabel string
	ValueLabel   string
	Tooltip      string
	Segment      SegmentRef
	Legend       LegendRef
}

// LegendCard is the template view of one slice.
type LegendCard struct {
	Slice
	Highlighted bool
}

// Donut is an interactive donut chart with an external legend.
type Donut struct {
	Target DonutTarget
	Slices []Slice
	Total  float64
	Sync   *HoverSync
}

// NewDonut builds a donut. A missing target or empty values yields
// (nil, nil): the widget is optional and simply not drawn.
func (fa *Factory) NewDonut(target DonutTarget, labels []string, values []float64, colors []string) (*Donut, error) {
	if !target.Valid() || len(values) == 0 {
		return nil, nil
	}
	data, err := Data(labels, values, colors)
	if err != nil {
		return nil, fmt.Errorf("donut %s: %w", target.ChartID, err)
	}

	slices.SortStableFunc(data, func(a, b ChartDatum) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	var total float64
	for _, d := range data {
		total += d.Value
	}

	d := &Donut{
		Target: target,
		Slices: make([]Slice, len(data)),
		Total:  total,
		Sync:   NewHoverSync(len(data)),
	}
	for i, datum := range data {
		s := Slice{
			Index:        i,
			Datum:        datum,
			PercentLabel: "0%",
			ValueLabel:   fa.format.Currency(datum.Value),
			Tooltip:      fa.format.Currency(datum.Value),
			Segment:      SegmentRef{DatasetIndex: 0, Index: i},
			Legend:       LegendRef{ID: fmt.Sprintf("%s-item-%d", target.LegendID, i), Index: i},
		}
		if total != 0 {
			s.Percent = roundTo1(datum.Value / total * 100)
			s.PercentLabel = fa.format.Percentage(s.Percent)
		}
		d.Slices[i] = s
	}
	return d, nil
}

func (d *Donut) ChartID() string {
	return d.Target.ChartID
}

// IndexOf returns the slice index of label or -1.
func (d *Donut) IndexOf(label string) int {
	for _, s := range d.Slices {
		if strings.EqualFold(s.Datum.Label, label) {
			return s.Index
		}
	}
	return -1
}

// Focus highlights label on both sides of the hover link, as if the pointer
// rested on its legend card and its segment. Unknown labels are ignored.
func (d *Donut) Focus(label string) bool {
	i := d.IndexOf(label)
	if i < 0 {
		return false
	}
	d.Sync.EnterLegend(i)
	d.Sync.HoverSegment(i)
	return true
}

// Cards returns the legend cards in slice order.
func (d *Donut) Cards() []LegendCard {
	cards := make([]LegendCard, len(d.Slices))
	for i, s := range d.Slices {
		cards[i] = LegendCard{Slice: s, Highlighted: d.Sync.HighlightedLegend() == i}
	}
	return cards
}

func (d *Donut) Config() Config {
	n := len(d.Slices)
	labels := make([]string, n)
	values := make([]float64, n)
	colors := make([]string, n)
	tooltips := make([]string, n)
	for i, s := range d.Slices {
		labels[i] = s.Datum.Label
		values[i] = s.Datum.Value
		colors[i] = s.Datum.Color
		tooltips[i] = s.Tooltip
	}

	meta := newMeta(d.Target.ChartID)
	meta.LegendID = d.Target.LegendID
	meta.Tooltips = [][]string{tooltips}
	meta.ActiveIndex = d.Sync.ActiveSegment()
	meta.HighlightIndex = d.Sync.HighlightedLegend()

	return Config{
		Type: "doughnut",
		Data: ConfigData{
			Labels: labels,
			Datasets: []map[string]any{{
				"data":            values,
				"backgroundColor": colors,
				"cutout":          "50%",
				"borderColor":     "#fff",
				"borderWidth":     3,
			}},
		},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"plugins": map[string]any{
				"legend": map[string]any{"display": false},
			},
		},
		Meta: meta,
	}
}
