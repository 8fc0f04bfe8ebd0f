package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewLedgerMetrics(t *testing.T) {
	metrics := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	if metrics.changes == nil {
		t.Error("changes counter should not be nil")
	}
	if metrics.validationFailures == nil {
		t.Error("validationFailures counter should not be nil")
	}
	if metrics.snapshotWrites == nil {
		t.Error("snapshotWrites counter should not be nil")
	}
	if metrics.snapshotDuration == nil {
		t.Error("snapshotDuration histogram should not be nil")
	}
	if metrics.orders == nil {
		t.Error("orders gauge should not be nil")
	}
	if metrics.events == nil {
		t.Error("events counter should not be nil")
	}
}

func TestNewLedgerMetrics_DoubleRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewLedgerMetricsWithRegisterer(reg)
	second := NewLedgerMetricsWithRegisterer(reg)

	first.RecordChange(domain.Change{Kind: domain.ChangeOrderAdded})
	second.RecordChange(domain.Change{Kind: domain.ChangeOrderAdded})

	if got := counterValue(t, first.changes, string(domain.ChangeOrderAdded)); got != 2.0 {
		t.Errorf("expected shared counter value 2.0, got %f", got)
	}
}

func TestRecordChange(t *testing.T) {
	metrics := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordChange(domain.Change{Kind: domain.ChangeOrderAdded})
	metrics.RecordChange(domain.Change{Kind: domain.ChangeOrderRemoved})
	metrics.RecordChange(domain.Change{Kind: domain.ChangeOrderAdded})

	if got := counterValue(t, metrics.changes, string(domain.ChangeOrderAdded)); got != 2.0 {
		t.Errorf("expected 2 adds, got %f", got)
	}
	if got := counterValue(t, metrics.changes, string(domain.ChangeOrderRemoved)); got != 1.0 {
		t.Errorf("expected 1 remove, got %f", got)
	}
}

func TestRecordValidationFailure(t *testing.T) {
	metrics := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordValidationFailure(domain.ValidationErrors{
		{Field: domain.FieldClientName, Reason: domain.ReasonRequired},
		{Field: domain.FieldValueAmount, Reason: domain.ReasonNotANumber},
	})

	if got := counterValue(t, metrics.validationFailures, "clientName", "required"); got != 1.0 {
		t.Errorf("expected 1 clientName failure, got %f", got)
	}
	if got := counterValue(t, metrics.validationFailures, "valueAmount", "notANumber"); got != 1.0 {
		t.Errorf("expected 1 valueAmount failure, got %f", got)
	}
}

func TestSetOrders(t *testing.T) {
	metrics := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())
	metrics.SetOrders(7)

	gauge := &dto.Metric{}
	if err := metrics.orders.Write(gauge); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gauge.Gauge.GetValue() != 7.0 {
		t.Errorf("expected 7 orders, got %f", gauge.Gauge.GetValue())
	}
}

func TestRecordSnapshotWrite(t *testing.T) {
	metrics := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordSnapshotWrite(10*time.Millisecond, nil)
	metrics.RecordSnapshotWrite(5*time.Millisecond, errors.New("disk full"))

	if got := counterValue(t, metrics.snapshotWrites, "ok"); got != 1.0 {
		t.Errorf("expected 1 ok write, got %f", got)
	}
	if got := counterValue(t, metrics.snapshotWrites, "error"); got != 1.0 {
		t.Errorf("expected 1 failed write, got %f", got)
	}

	histogram := &dto.Metric{}
	if err := metrics.snapshotDuration.Write(histogram); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if histogram.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", histogram.Histogram.GetSampleCount())
	}
}

func TestRecordEventPublish(t *testing.T) {
	metrics := NewLedgerMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordEventPublish("sent")
	metrics.RecordEventPublish("sent")
	metrics.RecordEventPublish("dropped")

	if got := counterValue(t, metrics.events, "sent"); got != 2.0 {
		t.Errorf("expected 2 sent events, got %f", got)
	}
	if got := counterValue(t, metrics.events, "dropped"); got != 1.0 {
		t.Errorf("expected 1 dropped event, got %f", got)
	}
}
