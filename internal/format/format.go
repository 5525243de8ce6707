// Package format renders money, percentages and plain numbers for the
// dashboards using one fixed locale convention (German grouping with a
// trailing currency symbol by default).
//
// Values are rounded half away from zero with shopspring/decimal before the
// locale printer sees them, so the printer never has to round.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "de-DE"
	DefaultCurrency = "€"

	numberFractionDigits = 3
)

// Formatter is safe for concurrent use once constructed.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// New builds a Formatter for the given BCP 47 locale and currency symbol.
func New(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	if symbol == "" {
		symbol = DefaultCurrency
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}, nil
}

// Default returns the de-DE / EUR formatter.
func Default() *Formatter {
	return &Formatter{
		printer: message.NewPrinter(language.MustParse(DefaultLocale)),
		symbol:  DefaultCurrency,
	}
}

// Currency formats v with grouping, two fraction digits and the trailing
// symbol: 1234.5 -> "1.234,50 €".
func (f *Formatter) Currency(v float64) string {
	return f.CurrencyDecimal(decimal.NewFromFloat(v))
}

// CurrencyOrZero treats a nil value as zero.
func (f *Formatter) CurrencyOrZero(v *float64) string {
	if v == nil {
		return f.CurrencyDecimal(decimal.Zero)
	}
	return f.Currency(*v)
}

func (f *Formatter) CurrencyDecimal(d decimal.Decimal) string {
	rounded := d.Round(2).InexactFloat64()
	return f.printer.Sprint(number.Decimal(rounded, number.Scale(2))) + " " + f.symbol
}

// Percentage renders one fraction digit followed by "%": 12.34 -> "12.3%".
// The separator is always a dot, matching how the legend cards have always
// rendered percentages.
func (f *Formatter) Percentage(v float64) string {
	return decimal.NewFromFloat(v).Round(1).StringFixed(1) + "%"
}

// PercentageOrZero renders a nil value as "0%".
func (f *Formatter) PercentageOrZero(v *float64) string {
	if v == nil {
		return "0%"
	}
	return f.Percentage(*v)
}

// Number groups thousands and keeps up to three fraction digits without
// padding: 1234 -> "1.234", 1234.5 -> "1.234,5".
func (f *Formatter) Number(v float64) string {
	return f.NumberDecimal(decimal.NewFromFloat(v))
}

func (f *Formatter) NumberDecimal(d decimal.Decimal) string {
	rounded := d.Round(numberFractionDigits).InexactFloat64()
	return f.printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(numberFractionDigits)))
}

// Symbol returns the trailing currency symbol.
func (f *Formatter) Symbol() string {
	return f.symbol
}
