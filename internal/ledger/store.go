package ledger

import (
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// Store — единственный владелец коллекции заказов.
// Все мутации проходят через Add/ToggleStatus/Remove и сериализуются одним мьютексом.
type Store struct {
	mu      sync.RWMutex
	orders  []domain.Order
	numbers map[int]struct{}
	lastID  int64

	numbering Numbering
	clock     func() time.Time
	location  *time.Location
	listeners []domain.Listener
	recorder  Recorder
	logger    *log.Entry
}

// New создаёт хранилище и наполняет его состоянием из снимка.
func New(initial domain.Snapshot, options ...Option) *Store {
	opts := Options{
		Numbering: AutoNumbering,
		Clock:     time.Now,
		Location:  time.UTC,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "ledger")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	s := &Store{
		numbers:   make(map[int]struct{}, len(initial.Orders)),
		numbering: opts.Numbering,
		clock:     opts.Clock,
		location:  opts.Location,
		listeners: opts.Listeners,
		recorder:  opts.Recorder,
		logger:    logger,
	}
	s.hydrate(initial)
	return s
}

// hydrate копирует снимок в хранилище и чинит дубли номеров, оставшиеся от старых версий.
func (s *Store) hydrate(initial domain.Snapshot) {
	s.lastID = initial.LastID
	s.orders = make([]domain.Order, 0, len(initial.Orders))

	maxNumber := 0
	for _, order := range initial.Orders {
		if order.Number > maxNumber {
			maxNumber = order.Number
		}
	}

	for _, order := range initial.Orders {
		if order.ID > s.lastID {
			s.lastID = order.ID
		}
		if _, dup := s.numbers[order.Number]; dup {
			maxNumber++
			s.logger.WithFields(log.Fields{
				"order_id":   order.ID,
				"old_number": order.Number,
				"new_number": maxNumber,
			}).Warn("duplicate order number in stored state, renumbering")
			order.Number = maxNumber
		}
		s.numbers[order.Number] = struct{}{}
		s.orders = append(s.orders, order)
	}

	if s.recorder != nil {
		s.recorder.SetOrders(len(s.orders))
	}
	s.logger.WithField("orders", len(s.orders)).Debug("ledger hydrated")
}

// Numbering возвращает текущую стратегию нумерации.
func (s *Store) Numbering() Numbering { return s.numbering }

// Add проверяет черновик и добавляет заказ в конец коллекции.
// При ошибке возвращает domain.ValidationErrors со всеми проваленными проверками; коллекция не меняется.
func (s *Store) Add(draft domain.Draft) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parsed, errs := draft.Parse(s.numbering == ManualNumbering, s.numberTaken)
	if len(errs) > 0 {
		if s.recorder != nil {
			s.recorder.RecordValidationFailure(errs)
		}
		s.logger.WithField("errors", errs.Error()).Debug("order rejected")
		return domain.Order{}, errs
	}

	number := parsed.Number
	if s.numbering == AutoNumbering {
		number = s.nextAutoNumber()
	}

	now := s.clock()
	s.lastID++
	order := domain.Order{
		ID:          s.lastID,
		Number:      number,
		ClientName:  parsed.ClientName,
		Description: parsed.Description,
		WeightKg:    parsed.WeightKg,
		ValueAmount: parsed.ValueAmount,
		Completed:   parsed.Completed,
		CreatedDate: domain.DateOf(now.In(s.location)),
	}

	s.orders = append(s.orders, order)
	s.numbers[order.Number] = struct{}{}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"number":   order.Number,
	}).Info("order added")
	s.notify(domain.ChangeOrderAdded, order, now)

	return order, nil
}

// ToggleStatus инвертирует Completed у заказа. Неизвестный id — не ошибка, а no-op.
func (s *Store) ToggleStatus(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.WithField("order_id", id).Debug("toggle ignored: order not found")
		return
	}

	s.orders[idx].Completed = !s.orders[idx].Completed
	order := s.orders[idx]

	s.logger.WithFields(log.Fields{
		"order_id":  id,
		"completed": order.Completed,
	}).Info("order status toggled")
	s.notify(domain.ChangeOrderStatusToggled, order, s.clock())
}

// Remove удаляет заказ. Неизвестный id — no-op.
// Подтверждение удаления — забота вызывающей стороны.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.WithField("order_id", id).Debug("remove ignored: order not found")
		return
	}

	order := s.orders[idx]
	s.orders = slices.Delete(s.orders, idx, idx+1)
	delete(s.numbers, order.Number)

	s.logger.WithFields(log.Fields{
		"order_id": id,
		"number":   order.Number,
	}).Info("order removed")
	s.notify(domain.ChangeOrderRemoved, order, s.clock())
}

// Count возвращает размер коллекции.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// List возвращает копию коллекции в порядке добавления.
func (s *Store) List() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get возвращает заказ по id.
func (s *Store) Get(id int64) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Order{}, false
	}
	return s.orders[idx], true
}

// Snapshot возвращает полное состояние журнала.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{LastID: s.lastID, Orders: s.orders}.Clone()
}

func (s *Store) indexOf(id int64) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) numberTaken(n int) bool {
	_, ok := s.numbers[n]
	return ok
}

// nextAutoNumber возвращает count+1; если номер занят (после удалений), берёт следующий свободный.
func (s *Store) nextAutoNumber() int {
	n := len(s.orders) + 1
	for s.numberTaken(n) {
		n++
	}
	return n
}

// notify рассылает изменение listeners; вызывается под s.mu.
func (s *Store) notify(kind domain.ChangeKind, order domain.Order, at time.Time) {
	change := domain.Change{
		Kind:     kind,
		Order:    order,
		Snapshot: s.snapshotLocked(),
		At:       at,
	}
	if s.recorder != nil {
		s.recorder.RecordChange(change)
		s.recorder.SetOrders(len(s.orders))
	}
	for _, listener := range s.listeners {
		listener.Notify(change)
	}
}
