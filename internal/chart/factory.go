package chart

import "finorbit/internal/format"

// Factory builds charts for one page. It holds no state besides the
// formatter used for tooltips and legend labels.
type Factory struct {
	format *format.Formatter
}

func NewFactory(f *format.Formatter) *Factory {
	if f == nil {
		f = format.Default()
	}
	return &Factory{format: f}
}

// Formatter exposes the formatter charts use for their labels.
func (fa *Factory) Formatter() *format.Formatter {
	return fa.format
}
