package kafka

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// RetryConfig — повторы отправки события при ошибке брокера.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// WithRetry задаёт политику повторов отправки.
func WithRetry(config RetryConfig) PublisherOption {
	return func(opts *PublisherOptions) {
		opts.Retry = config
	}
}

func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = 1
	}
	return c
}

// publishWithRetry отправляет событие, повторяя попытки с экспоненциальной задержкой.
func (p *LedgerPublisher) publishWithRetry(event *LedgerEvent) error {
	var lastErr error
	delay := p.retry.InitialDelay

	for attempt := 1; attempt <= p.retry.MaxAttempts; attempt++ {
		err := p.publisher.PublishLedgerEvent(p.topic, event)
		if err == nil {
			if attempt > 1 {
				p.logger.WithFields(log.Fields{
					"event_id": event.EventID,
					"attempt":  attempt,
				}).Info("ledger event published after retry")
			}
			return nil
		}
		lastErr = err

		if attempt < p.retry.MaxAttempts {
			p.logger.WithError(err).WithFields(log.Fields{
				"event_id": event.EventID,
				"attempt":  attempt,
				"delay":    delay,
			}).Debug("publish failed, retrying")

			time.Sleep(delay)

			delay = time.Duration(float64(delay) * p.retry.BackoffFactor)
			if p.retry.MaxDelay > 0 && delay > p.retry.MaxDelay {
				delay = p.retry.MaxDelay
			}
		}
	}
	return lastErr
}
