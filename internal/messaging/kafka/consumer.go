package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// EventHandler обрабатывает событие журнала, прочитанное из Kafka
type EventHandler func(ctx context.Context, event *LedgerEvent) error

// Consumer читает ленту изменений журнала (команда `pedidos tail`)
type Consumer struct {
	consumer sarama.ConsumerGroup
	topics   []string
	handler  EventHandler
	logger   *log.Entry
	wg       sync.WaitGroup
}

// NewConsumer создает новый Kafka consumer. fromBeginning читает topic с самого старого offset.
func NewConsumer(brokers []string, groupID string, topics []string, fromBeginning bool, handler EventHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	if fromBeginning {
		config.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &Consumer{
		consumer: consumer,
		topics:   topics,
		handler:  handler,
		logger:   log.WithField("component", "kafka-consumer"),
	}, nil
}

// Start запускает consumer
func (c *Consumer) Start(ctx context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			// Consume завершается при rebalance, поэтому вызывается в цикле
			if err := c.consumer.Consume(ctx, c.topics, c); err != nil {
				c.logger.WithError(err).Error("error from consumer")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for err := range c.consumer.Errors() {
			c.logger.WithError(err).Error("consumer error")
		}
	}()

	c.logger.WithField("topics", c.topics).Info("kafka consumer started")
	return nil
}

// Stop останавливает consumer
func (c *Consumer) Stop() error {
	if err := c.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	c.wg.Wait()
	c.logger.Info("kafka consumer stopped")
	return nil
}

// Setup вызывается при старте consumer session
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup вызывается при завершении consumer session
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim обрабатывает сообщения из partition.
// Нечитаемые сообщения пропускаются; при ошибке обработчика offset не фиксируется.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			fields := log.Fields{
				"topic":     message.Topic,
				"partition": message.Partition,
				"offset":    message.Offset,
			}

			event, err := ParseLedgerEvent(message)
			if err != nil {
				c.logger.WithError(err).WithFields(fields).Warn("skipping malformed message")
				session.MarkMessage(message, "")
				continue
			}

			if err := c.handler(session.Context(), event); err != nil {
				c.logger.WithError(err).WithFields(fields).Error("message processing failed")
				continue
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
