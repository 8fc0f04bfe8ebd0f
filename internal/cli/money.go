package cli

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(-math.MaxInt64)
)

// formatMoney форматирует сумму по правилам валюты (BRL: R$1.234,56).
// Сумма, не помещающаяся в int64 минимальных единиц, выводится без форматтера.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return amount.StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return cur.Formatter().Format(minor.IntPart())
}
