package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// EventType определяет тип события журнала
type EventType string

const (
	EventTypeOrderAdded         EventType = EventType(domain.ChangeOrderAdded)
	EventTypeOrderStatusToggled EventType = EventType(domain.ChangeOrderStatusToggled)
	EventTypeOrderRemoved       EventType = EventType(domain.ChangeOrderRemoved)
)

// TopicLedgerEvents — topic по умолчанию для ленты изменений журнала
const TopicLedgerEvents = "pedidos.ledger.events"

// LedgerEvent — сообщение об одном изменении журнала заказов.
// Суммы передаются строками с двумя знаками, чтобы не терять точность.
type LedgerEvent struct {
	EventID     string    `json:"event_id"`
	EventType   EventType `json:"event_type"`
	OrderID     int64     `json:"order_id"`
	Number      int       `json:"number"`
	ClientName  string    `json:"client_name"`
	WeightKg    string    `json:"weight_kg,omitempty"`
	ValueAmount string    `json:"value_amount"`
	Completed   bool      `json:"completed"`
	CreatedDate string    `json:"created_date"`
	Orders      int       `json:"orders"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewLedgerEvent создает событие из изменения журнала
func NewLedgerEvent(change domain.Change) *LedgerEvent {
	order := change.Order
	event := &LedgerEvent{
		EventID:     uuid.NewString(),
		EventType:   EventType(change.Kind),
		OrderID:     order.ID,
		Number:      order.Number,
		ClientName:  order.ClientName,
		ValueAmount: order.ValueAmount.StringFixed(2),
		Completed:   order.Completed,
		CreatedDate: order.CreatedDate.String(),
		Orders:      len(change.Snapshot.Orders),
		Timestamp:   change.At,
	}
	if order.HasWeight() {
		event.WeightKg = order.WeightKg.Decimal.StringFixed(2)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}

// Key — ключ партиционирования: все события одного заказа попадают в одну партицию.
func (e *LedgerEvent) Key() string {
	return strconv.FormatInt(e.OrderID, 10)
}

// ParseLedgerEvent парсит LedgerEvent из сообщения
func ParseLedgerEvent(message *sarama.ConsumerMessage) (*LedgerEvent, error) {
	var event LedgerEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger event: %w", err)
	}
	return &event, nil
}
