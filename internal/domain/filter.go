package domain

import (
	"fmt"
	"strings"
)

// StatusFilter ограничивает выборку по статусу завершения.
type StatusFilter string

const (
	StatusAny       StatusFilter = "any"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// ParseStatusFilter разбирает значение фильтра статуса.
// Пустая строка означает «любой»; португальские значения оставлены для совместимости со старым интерфейсом.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all", "todos":
		return StatusAny, nil
	case "completed", "finalizado", "finalizados":
		return StatusCompleted, nil
	case "pending", "nao", "não", "nao-finalizado":
		return StatusPending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusFilter, s)
	}
}

// Matches сообщает, проходит ли статус completed через фильтр.
func (f StatusFilter) Matches(completed bool) bool {
	switch f {
	case StatusCompleted:
		return completed
	case StatusPending:
		return !completed
	default:
		return true
	}
}

// Filter — спецификация выборки; все условия объединяются через AND.
// Нулевые значения полей означают отсутствие ограничения.
type Filter struct {
	Status    StatusFilter
	NameQuery string
	DateFrom  Date
	DateTo    Date
}
