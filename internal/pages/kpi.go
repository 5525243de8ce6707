package pages

import "finorbit/internal/format"

// KPI is one headline figure as it arrives in the "kpis" blob.
type KPI struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
	// Kind selects the formatter: "currency" (default), "percent" or "number".
	Kind string `json:"kind"`
	Hint string `json:"hint"`
}

// KPIView is a formatted KPI card.
type KPIView struct {
	Label   string
	Display string
	Hint    string
	// Class colors signed figures.
	Class string
}

func kpiViews(f *format.Formatter, kpis []KPI) []KPIView {
	views := make([]KPIView, 0, len(kpis))
	for _, k := range kpis {
		v := KPIView{Label: k.Label, Hint: k.Hint}
		switch k.Kind {
		case "percent":
			v.Display = f.PercentageOrZero(k.Value)
		case "number":
			if k.Value != nil {
				v.Display = f.Number(*k.Value)
			} else {
				v.Display = "0"
			}
		default:
			v.Display = f.CurrencyOrZero(k.Value)
		}
		v.Class = signClass(k.Value)
		views = append(views, v)
	}
	return views
}

func signClass(v *float64) string {
	switch {
	case v == nil:
		return ""
	case *v < 0:
		return "text-danger"
	default:
		return "text-success"
	}
}

func readKPIs(env Env) ([]KPIView, error) {
	var kpis []KPI
	if _, err := decode(env.Bundle, "kpis", &kpis); err != nil {
		return nil, err
	}
	return kpiViews(env.Format, kpis), nil
}
