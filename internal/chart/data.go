// Package chart builds the Chart.js configurations rendered on the
// dashboards: interactive donuts with a hover-linked legend, stacked bar
// charts and line charts.
package chart

import (
	"errors"
	"fmt"
)

// Palette is the fixed default color cycle.
var Palette = []string{
	"#4F46E5", // indigo
	"#10B981", // emerald
	"#36b9cc", // sky blue
	"#F59E0B", // amber
	"#8B5CF6", // violet
	"#F43F5E", // rose
	"#64748B", // slate
}

var (
	ErrLengthMismatch = errors.New("labels and values differ in length")
	ErrEmptyTarget    = errors.New("chart target is empty")
)

// ChartDatum is one (label, value, color) triple.
type ChartDatum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Data zips parallel label/value arrays. Colors cycle when there are fewer
// colors than labels; an empty color list falls back to Palette.
func Data(labels []string, values []float64, colors []string) ([]ChartDatum, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrLengthMismatch, len(labels), len(values))
	}
	if len(colors) == 0 {
		colors = Palette
	}
	data := make([]ChartDatum, len(labels))
	for i, label := range labels {
		data[i] = ChartDatum{
			Label: label,
			Value: values[i],
			Color: colors[i%len(colors)],
		}
	}
	return data, nil
}

// PaletteColor returns the palette entry for position i.
func PaletteColor(i int) string {
	return Palette[i%len(Palette)]
}
