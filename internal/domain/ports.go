package domain

import "time"

// Snapshot — полное состояние журнала для сохранения на диск.
type Snapshot struct {
	// LastID — последний выданный идентификатор; не уменьшается после удалений.
	LastID int64
	Orders []Order
}

// Clone возвращает независимую копию снимка.
func (s Snapshot) Clone() Snapshot {
	orders := make([]Order, len(s.Orders))
	copy(orders, s.Orders)
	return Snapshot{LastID: s.LastID, Orders: orders}
}

// ChangeKind определяет тип изменения журнала.
type ChangeKind string

const (
	ChangeOrderAdded         ChangeKind = "order.added"
	ChangeOrderStatusToggled ChangeKind = "order.status_toggled"
	ChangeOrderRemoved       ChangeKind = "order.removed"
)

// Change описывает одну успешную мутацию журнала.
type Change struct {
	Kind ChangeKind
	// Order — состояние заказа после изменения (для удаления — последнее известное).
	Order Order
	// Snapshot — состояние всего журнала после изменения.
	Snapshot Snapshot
	At       time.Time
}

// Listener получает уведомления о мутациях журнала.
// Notify вызывается под блокировкой хранилища и не должен блокироваться.
type Listener interface {
	Notify(change Change)
}

// ListenerFunc адаптирует функцию к интерфейсу Listener.
type ListenerFunc func(change Change)

// Notify вызывает f(change).
func (f ListenerFunc) Notify(change Change) { f(change) }
