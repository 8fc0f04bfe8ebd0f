package query

import (
	"github.com/shopspring/decimal"
)

// WeightNotAvailable — маркер отсутствующего веса, отличный от нуля.
const WeightNotAvailable = "N/D"

var tonne = decimal.NewFromInt(1000)

// FormatWeight форматирует вес: от 1000 кг — в тоннах, иначе в килограммах, всегда 2 знака.
func FormatWeight(w decimal.NullDecimal) string {
	if !w.Valid {
		return WeightNotAvailable
	}
	if w.Decimal.GreaterThanOrEqual(tonne) {
		return w.Decimal.Div(tonne).StringFixed(2) + " Ton"
	}
	return w.Decimal.StringFixed(2) + " kg"
}

// FormatAmount форматирует денежную величину с двумя знаками после точки.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
