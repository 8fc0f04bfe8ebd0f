package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

type mockConsumerGroup struct {
	consumeFn func(context.Context, []string, sarama.ConsumerGroupHandler) error
	errorsCh  chan error
	closeFn   func() error
}

func (m *mockConsumerGroup) Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, topics, handler)
	}
	return nil
}

func (m *mockConsumerGroup) Errors() <-chan error {
	return m.errorsCh
}

func (m *mockConsumerGroup) Close() error {
	if m.closeFn != nil {
		return m.closeFn()
	}
	if m.errorsCh != nil {
		close(m.errorsCh)
	}
	return nil
}

func (m *mockConsumerGroup) Pause(map[string][]int32)  {}
func (m *mockConsumerGroup) Resume(map[string][]int32) {}
func (m *mockConsumerGroup) PauseAll()                 {}
func (m *mockConsumerGroup) ResumeAll()                {}

type mockSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (m *mockSession) Claims() map[string][]int32               { return nil }
func (m *mockSession) MemberID() string                         { return "member" }
func (m *mockSession) GenerationID() int32                      { return 1 }
func (m *mockSession) MarkOffset(string, int32, int64, string)  {}
func (m *mockSession) Commit()                                  {}
func (m *mockSession) ResetOffset(string, int32, int64, string) {}
func (m *mockSession) Context() context.Context                 { return m.ctx }
func (m *mockSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	m.marked = append(m.marked, msg)
}

type mockClaim struct {
	topic     string
	partition int32
	messages  chan *sarama.ConsumerMessage
}

func (m *mockClaim) Topic() string                            { return m.topic }
func (m *mockClaim) Partition() int32                         { return m.partition }
func (m *mockClaim) InitialOffset() int64                     { return 0 }
func (m *mockClaim) HighWaterMarkOffset() int64               { return 0 }
func (m *mockClaim) Messages() <-chan *sarama.ConsumerMessage { return m.messages }

func ledgerMessage(t *testing.T, offset int64) *sarama.ConsumerMessage {
	t.Helper()
	event := NewLedgerEvent(sampleChange(domain.ChangeOrderAdded))
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return &sarama.ConsumerMessage{Topic: TopicLedgerEvents, Offset: offset, Key: []byte(event.Key()), Value: value}
}

func TestNewConsumerErrors(t *testing.T) {
	handler := func(context.Context, *LedgerEvent) error { return nil }
	if _, err := NewConsumer([]string{"invalid-broker:9092"}, "group", []string{"topic"}, false, handler); err == nil {
		t.Fatal("expected new consumer error")
	}
}

func TestConsumerStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	consumeCalls := 0
	errorsCh := make(chan error, 1)
	group := &mockConsumerGroup{
		errorsCh: errorsCh,
		consumeFn: func(_ context.Context, _ []string, _ sarama.ConsumerGroupHandler) error {
			consumeCalls++
			cancel()
			return nil
		},
		closeFn: func() error {
			close(errorsCh)
			return nil
		},
	}

	consumer := &Consumer{
		consumer: group,
		topics:   []string{TopicLedgerEvents},
		handler:  func(context.Context, *LedgerEvent) error { return nil },
		logger:   log.WithField("test", "consumer"),
	}

	errorsCh <- errors.New("background error")
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := consumer.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if consumeCalls == 0 {
		t.Fatal("expected consume call")
	}
}

func TestConsumerStopError(t *testing.T) {
	errorsCh := make(chan error)
	group := &mockConsumerGroup{errorsCh: errorsCh, closeFn: func() error {
		close(errorsCh)
		return errors.New("close failed")
	}}
	consumer := &Consumer{consumer: group, logger: log.WithField("test", "stop")}
	if err := consumer.Stop(); err == nil {
		t.Fatal("expected stop error")
	}
}

func TestConsumerSetupCleanup(t *testing.T) {
	consumer := &Consumer{}
	if err := consumer.Setup(nil); err != nil {
		t.Fatalf("setup should return nil: %v", err)
	}
	if err := consumer.Cleanup(nil); err != nil {
		t.Fatalf("cleanup should return nil: %v", err)
	}
}

func TestConsumeClaim(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received []*LedgerEvent
	consumer := &Consumer{
		handler: func(_ context.Context, event *LedgerEvent) error {
			received = append(received, event)
			return nil
		},
		logger: log.WithField("test", "claim"),
	}

	session := &mockSession{ctx: ctx}
	claim := &mockClaim{topic: TopicLedgerEvents, partition: 0, messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- ledgerMessage(t, 1)
	claim.messages <- &sarama.ConsumerMessage{Topic: TopicLedgerEvents, Offset: 2, Value: []byte("not json")}
	close(claim.messages)

	if err := consumer.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("ConsumeClaim failed: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected one event, got %d", len(received))
	}
	if received[0].ClientName != "Ana" || received[0].EventType != EventTypeOrderAdded {
		t.Errorf("unexpected event %+v", received[0])
	}
	if len(session.marked) != 2 {
		t.Fatalf("expected both messages marked, got %d", len(session.marked))
	}
}

func TestConsumeClaimFailedHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &Consumer{
		handler: func(context.Context, *LedgerEvent) error { return errors.New("failed") },
		logger:  log.WithField("test", "claim-fail"),
	}

	session := &mockSession{ctx: ctx}
	claim := &mockClaim{topic: TopicLedgerEvents, partition: 0, messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- ledgerMessage(t, 1)
	close(claim.messages)

	if err := consumer.ConsumeClaim(session, claim); err != nil {
		t.Fatalf("ConsumeClaim failed: %v", err)
	}
	if len(session.marked) != 0 {
		t.Fatalf("failed message should not be marked, got %d", len(session.marked))
	}
}

func TestConsumeClaimStopsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	consumer := &Consumer{
		handler: func(context.Context, *LedgerEvent) error { return nil },
		logger:  log.WithField("test", "claim-stop"),
	}
	session := &mockSession{ctx: ctx}
	claim := &mockClaim{topic: TopicLedgerEvents, partition: 0, messages: make(chan *sarama.ConsumerMessage)}

	done := make(chan struct{})
	go func() {
		_ = consumer.ConsumeClaim(session, claim)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ConsumeClaim did not stop after context cancellation")
	}
}

func TestParseLedgerEvent(t *testing.T) {
	event, err := ParseLedgerEvent(ledgerMessage(t, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ValueAmount != "100.00" {
		t.Errorf("expected value 100.00, got %s", event.ValueAmount)
	}
	if _, err := ParseLedgerEvent(&sarama.ConsumerMessage{Value: []byte("{")}); err == nil {
		t.Fatal("expected parse error")
	}
}
