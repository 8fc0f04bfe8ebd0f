// Package query строит отфильтрованные представления журнала и итоги по ним.
// Все функции чистые: они не изменяют переданную коллекцию.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// Apply возвращает заказы, удовлетворяющие фильтру, отсортированные по номеру по убыванию.
func Apply(orders []domain.Order, f domain.Filter) []domain.Order {
	query := strings.ToLower(f.NameQuery)

	view := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if !f.Status.Matches(order.Completed) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(order.ClientName), query) {
			continue
		}
		// Границы дат включительные, нулевая дата — без ограничения.
		if !f.DateFrom.IsZero() && order.CreatedDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && order.CreatedDate.After(f.DateTo) {
			continue
		}
		view = append(view, order)
	}

	slices.SortStableFunc(view, func(a, b domain.Order) int {
		return cmp.Compare(b.Number, a.Number)
	})
	return view
}
