package chart

import "github.com/shopspring/decimal"

func roundTo1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
