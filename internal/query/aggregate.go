package query

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Totals — итоги по отфильтрованному представлению.
type Totals struct {
	TotalValue       decimal.Decimal
	TotalWeight      decimal.Decimal
	CommissionAmount decimal.Decimal
}

// Aggregate считает итоги. Некорректный или пустой процент комиссии даёт нулевую комиссию, а не ошибку.
func Aggregate(view []domain.Order, commissionPercent string) Totals {
	pct, ok := ParseCommission(commissionPercent)
	if !ok {
		pct = decimal.Zero
	}
	return AggregatePercent(view, pct)
}

// AggregatePercent считает итоги для уже разобранного процента комиссии.
// Отрицательный процент трактуется как некорректный.
func AggregatePercent(view []domain.Order, commissionPercent decimal.Decimal) Totals {
	totals := Totals{
		TotalValue:       decimal.Zero,
		TotalWeight:      decimal.Zero,
		CommissionAmount: decimal.Zero,
	}
	for _, order := range view {
		totals.TotalValue = totals.TotalValue.Add(order.ValueAmount)
		if order.WeightKg.Valid {
			totals.TotalWeight = totals.TotalWeight.Add(order.WeightKg.Decimal)
		}
	}
	if !commissionPercent.IsNegative() {
		totals.CommissionAmount = totals.TotalValue.Mul(commissionPercent).Div(hundred)
	}
	return totals
}

// ParseCommission разбирает процент комиссии; ok=false для пустого, нечислового или отрицательного значения.
func ParseCommission(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil || pct.IsNegative() {
		return decimal.Zero, false
	}
	return pct, true
}
