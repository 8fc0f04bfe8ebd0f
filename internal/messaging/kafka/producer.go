package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// EventPublisher отправляет событие журнала в topic.
type EventPublisher interface {
	PublishLedgerEvent(topic string, event *LedgerEvent) error
}

// Заголовки сообщения: по ним потребитель фильтрует события, не разбирая тело.
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// Producer представляет Kafka producer для публикации событий
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // Для идемпотентности

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}, nil
}

// PublishLedgerEvent публикует событие с ключом по заказу и заголовками типа и id.
func (p *Producer) PublishLedgerEvent(topic string, event *LedgerEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}

	fields := log.Fields{
		"topic":      topic,
		"key":        event.Key(),
		"event_type": event.EventType,
		"order_id":   event.OrderID,
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.Key()),
		Value: sarama.ByteEncoder(eventData),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderEventType), Value: []byte(event.EventType)},
			{Key: []byte(HeaderEventID), Value: []byte(event.EventID)},
		},
		Timestamp: event.Timestamp,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(fields).Error("failed to send ledger event to kafka")
		return fmt.Errorf("failed to send %s event for order %d: %w", event.EventType, event.OrderID, err)
	}

	fields["partition"] = partition
	fields["offset"] = offset
	p.logger.WithFields(fields).Debug("ledger event sent to kafka")

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ EventPublisher = (*Producer)(nil)
