package ledger

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// Numbering задаёт стратегию назначения номеров заказов.
type Numbering int

const (
	// AutoNumbering назначает номер count+1 (с пропуском занятых), поле Draft.Number игнорируется.
	AutoNumbering Numbering = iota
	// ManualNumbering требует номер от вызывающей стороны и проверяет его уникальность.
	ManualNumbering
)

// ParseNumbering разбирает значение из конфигурации.
func ParseNumbering(s string) (Numbering, bool) {
	switch s {
	case "", "auto":
		return AutoNumbering, true
	case "manual":
		return ManualNumbering, true
	default:
		return AutoNumbering, false
	}
}

func (n Numbering) String() string {
	if n == ManualNumbering {
		return "manual"
	}
	return "auto"
}

// Recorder принимает метрики хранилища. Реализация — metrics.LedgerMetrics.
type Recorder interface {
	RecordChange(change domain.Change)
	RecordValidationFailure(errs domain.ValidationErrors)
	SetOrders(count int)
}

// Options задаёт параметры Store.
type Options struct {
	Logger    *log.Entry
	Numbering Numbering
	Clock     func() time.Time
	Location  *time.Location
	Listeners []domain.Listener
	Recorder  Recorder
}

// Option настраивает Store.
type Option func(*Options)

// WithLogger задаёт logger хранилища.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithNumbering задаёт стратегию нумерации.
func WithNumbering(n Numbering) Option {
	return func(opts *Options) {
		opts.Numbering = n
	}
}

// WithClock подменяет источник текущего времени (для тестов).
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// WithLocation задаёт часовой пояс, в котором вычисляется дата создания.
func WithLocation(loc *time.Location) Option {
	return func(opts *Options) {
		opts.Location = loc
	}
}

// WithListener подписывает listener на изменения журнала.
func WithListener(listener domain.Listener) Option {
	return func(opts *Options) {
		if listener != nil {
			opts.Listeners = append(opts.Listeners, listener)
		}
	}
}

// WithRecorder задаёт приёмник метрик.
func WithRecorder(recorder Recorder) Option {
	return func(opts *Options) {
		opts.Recorder = recorder
	}
}
