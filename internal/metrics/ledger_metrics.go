package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// LedgerMetrics содержит метрики журнала заказов.
type LedgerMetrics struct {
	// Счётчики мутаций
	changes *prometheus.CounterVec
	// Ошибки проверки черновиков по полю и причине
	validationFailures *prometheus.CounterVec

	// Запись снимков на диск
	snapshotWrites   *prometheus.CounterVec
	snapshotDuration prometheus.Histogram

	// Gauge текущего размера журнала
	orders prometheus.Gauge

	// Публикация событий в Kafka
	events *prometheus.CounterVec
}

// NewLedgerMetrics создаёт метрики в реестре по умолчанию.
func NewLedgerMetrics() *LedgerMetrics {
	return NewLedgerMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewLedgerMetricsWithRegisterer создаёт метрики в переданном реестре (для тестов — отдельный prometheus.NewRegistry()).
func NewLedgerMetricsWithRegisterer(registerer prometheus.Registerer) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LedgerMetrics{
		changes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_ledger_changes_total",
			Help: "Total number of ledger mutations grouped by kind",
		}, []string{"kind"}),
		validationFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_validation_failures_total",
			Help: "Total number of rejected draft fields grouped by field and reason",
		}, []string{"field", "reason"}),
		snapshotWrites: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_snapshot_writes_total",
			Help: "Total number of ledger snapshot writes grouped by result",
		}, []string{"result"}),
		snapshotDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pedidos_snapshot_write_duration_seconds",
			Help:    "Duration of ledger snapshot writes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		orders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "pedidos_orders",
			Help: "Number of orders currently in the ledger",
		}),
		events: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pedidos_ledger_events_total",
			Help: "Total number of ledger events handed to Kafka grouped by result",
		}, []string{"result"}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordChange увеличивает счётчик мутаций данного типа.
func (m *LedgerMetrics) RecordChange(change domain.Change) {
	m.changes.WithLabelValues(string(change.Kind)).Inc()
}

// RecordValidationFailure учитывает каждую проваленную проверку поля.
func (m *LedgerMetrics) RecordValidationFailure(errs domain.ValidationErrors) {
	for _, fe := range errs {
		m.validationFailures.WithLabelValues(string(fe.Field), string(fe.Reason)).Inc()
	}
}

// SetOrders выставляет текущий размер журнала.
func (m *LedgerMetrics) SetOrders(count int) {
	m.orders.Set(float64(count))
}

// RecordSnapshotWrite учитывает запись снимка и её длительность.
func (m *LedgerMetrics) RecordSnapshotWrite(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.snapshotWrites.WithLabelValues(result).Inc()
	m.snapshotDuration.Observe(duration.Seconds())
}

// RecordEventPublish учитывает исход публикации события (sent, failed, dropped).
func (m *LedgerMetrics) RecordEventPublish(result string) {
	m.events.WithLabelValues(result).Inc()
}
