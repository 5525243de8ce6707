package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDatasets(t *testing.T, raw string) []Dataset {
	t.Helper()
	var ds []Dataset
	require.NoError(t, json.Unmarshal([]byte(raw), &ds))
	return ds
}

func TestNewStackedBar_ColorsAndPassthrough(t *testing.T) {
	fa := newTestFactory()
	ds := make([]Dataset, 9)
	for i := range ds {
		ds[i] = Dataset{"label": "acc", "data": []any{1.0}, "stack": "s1"}
	}
	b, err := fa.NewStackedBar(CanvasTarget{ChartID: "holdingsEvolutionChart"}, []string{"Jan 24"}, ds)
	require.NoError(t, err)

	for i, d := range b.Datasets {
		assert.Equal(t, Palette[i%len(Palette)], d["backgroundColor"])
		assert.Equal(t, "s1", d["stack"])
		assert.Equal(t, false, d["borderSkipped"])
	}
	assert.Equal(t, Palette[0], b.Datasets[7]["backgroundColor"])
	_, touched := ds[0]["backgroundColor"]
	assert.False(t, touched, "input datasets are not mutated")
}

func TestNewStackedBar_Tooltips(t *testing.T) {
	fa := newTestFactory()
	ds := decodeDatasets(t, `[{"label":"Checking","data":[1500.5, 20]},{"label":"Savings","data":[3000]}]`)
	b, err := fa.NewStackedBar(CanvasTarget{ChartID: "c"}, []string{"Jan", "Feb"}, ds)
	require.NoError(t, err)

	assert.Equal(t, []string{"Checking: 1.500,50 €", "Checking: 20,00 €"}, b.Tooltips[0])
	assert.Equal(t, []string{"Savings: 3.000,00 €"}, b.Tooltips[1])

	cfg := b.Config()
	assert.Equal(t, "bar", cfg.Type)
	assert.Equal(t, "currency", cfg.Meta.TickFormat)
	scales := cfg.Options["scales"].(map[string]any)
	assert.Equal(t, true, scales["x"].(map[string]any)["stacked"])
	assert.Equal(t, true, scales["y"].(map[string]any)["stacked"])
	legend := cfg.Options["plugins"].(map[string]any)["legend"].(map[string]any)
	assert.Equal(t, "bottom", legend["position"])
}

func TestNewStackedBar_NoTarget(t *testing.T) {
	b, err := newTestFactory().NewStackedBar(CanvasTarget{}, nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestNewPerformanceLine(t *testing.T) {
	fa := newTestFactory()
	assert.Nil(t, fa.NewPerformanceLine(CanvasTarget{ChartID: "p"}, nil))

	l := fa.NewPerformanceLine(CanvasTarget{ChartID: "performanceChart"}, []PerformancePoint{
		{Label: "Jan 24", Market: 1100, Invested: 1000},
		{Label: "Feb 24", Market: 1250, Invested: 1100},
	})
	require.NotNil(t, l)
	cfg := l.Config()
	assert.Equal(t, []string{"Jan 24", "Feb 24"}, cfg.Data.Labels)
	require.Len(t, cfg.Data.Datasets, 2)
	assert.Equal(t, "Market Value", cfg.Data.Datasets[0]["label"])
	assert.Equal(t, []float64{1000, 1100}, cfg.Data.Datasets[1]["data"])
	assert.Equal(t, "Invested: 1.100,00 €", cfg.Meta.Tooltips[1][1])
}

func TestNewNetWorthLine(t *testing.T) {
	l := newTestFactory().NewNetWorthLine(CanvasTarget{ChartID: "netWorthChart"}, []NetWorthPoint{{Label: "Nov 24", Value: 52000}})
	require.NotNil(t, l)
	assert.Equal(t, "netWorthChart", l.ChartID())
	assert.Equal(t, "line", l.Config().Type)
}
