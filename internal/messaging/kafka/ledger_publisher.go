package kafka

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

const defaultQueueSize = 256

// Результаты публикации для Recorder.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Recorder учитывает исход публикации событий.
type Recorder interface {
	RecordEventPublish(result string)
}

// PublisherOptions задаёт параметры LedgerPublisher.
type PublisherOptions struct {
	Logger    *log.Entry
	Topic     string
	QueueSize int
	Recorder  Recorder
	Retry     RetryConfig
}

// PublisherOption настраивает LedgerPublisher.
type PublisherOption func(*PublisherOptions)

// WithLogger задаёт logger паблишера.
func WithLogger(logger *log.Entry) PublisherOption {
	return func(opts *PublisherOptions) {
		opts.Logger = logger
	}
}

// WithTopic задаёт topic для событий журнала.
func WithTopic(topic string) PublisherOption {
	return func(opts *PublisherOptions) {
		opts.Topic = topic
	}
}

// WithQueueSize задаёт размер очереди событий.
func WithQueueSize(size int) PublisherOption {
	return func(opts *PublisherOptions) {
		opts.QueueSize = size
	}
}

// WithRecorder задаёт приёмник метрик публикации.
func WithRecorder(recorder Recorder) PublisherOption {
	return func(opts *PublisherOptions) {
		opts.Recorder = recorder
	}
}

// LedgerPublisher — Listener журнала, который отправляет изменения в Kafka.
// Notify только ставит событие в очередь; при переполнении событие
// отбрасывается с предупреждением, мутации журнала никогда не ждут брокер.
type LedgerPublisher struct {
	publisher EventPublisher
	topic     string
	logger    *log.Entry
	recorder  Recorder
	retry     RetryConfig

	mu     sync.Mutex
	closed bool
	queue  chan *LedgerEvent
	done   chan struct{}
}

// NewLedgerPublisher создаёт паблишер и запускает фоновую отправку.
func NewLedgerPublisher(publisher EventPublisher, options ...PublisherOption) *LedgerPublisher {
	opts := PublisherOptions{
		Topic:     TopicLedgerEvents,
		QueueSize: defaultQueueSize,
		Retry:     DefaultRetryConfig(),
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "ledger-publisher")
	}
	if opts.Topic == "" {
		opts.Topic = TopicLedgerEvents
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	p := &LedgerPublisher{
		publisher: publisher,
		topic:     opts.Topic,
		logger:    logger,
		recorder:  opts.Recorder,
		retry:     opts.Retry.normalized(),
		queue:     make(chan *LedgerEvent, opts.QueueSize),
		done:      make(chan struct{}),
	}
	go p.run()
	return p
}

// Notify реализует domain.Listener.
func (p *LedgerPublisher) Notify(change domain.Change) {
	event := NewLedgerEvent(change)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- event:
	default:
		p.logger.WithFields(log.Fields{
			"event_type": event.EventType,
			"order_id":   event.OrderID,
		}).Warn("ledger event queue is full, dropping event")
		p.record(ResultDropped)
	}
}

func (p *LedgerPublisher) run() {
	defer close(p.done)

	for event := range p.queue {
		if err := p.publishWithRetry(event); err != nil {
			p.logger.WithError(err).WithFields(log.Fields{
				"event_id":   event.EventID,
				"event_type": event.EventType,
				"attempts":   p.retry.MaxAttempts,
			}).Warn("failed to publish ledger event")
			p.record(ResultFailed)
			continue
		}
		p.record(ResultSent)
	}
}

func (p *LedgerPublisher) record(result string) {
	if p.recorder != nil {
		p.recorder.RecordEventPublish(result)
	}
}

// Close перестаёт принимать события и ждёт отправки очереди или отмены ctx.
func (p *LedgerPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ domain.Listener = (*LedgerPublisher)(nil)
