package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/health"
	"github.com/vladislavdragonenkov/pedidos/internal/ledger"
	"github.com/vladislavdragonenkov/pedidos/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/pedidos/internal/metrics"
	"github.com/vladislavdragonenkov/pedidos/internal/storage/jsonfile"
	"github.com/vladislavdragonenkov/pedidos/internal/storage/memory"
)

// Dependencies содержит журнал и всё, что слушает его изменения.
type Dependencies struct {
	Store   *ledger.Store
	Metrics *metrics.LedgerMetrics
	Logger  *log.Entry

	// Writer — запись снимков на диск; nil, если журнал только в памяти.
	Writer *jsonfile.Writer
	// Memory — приёмник снимков в режиме без файла.
	Memory *memory.SnapshotStore
	// Publisher — лента изменений в Kafka; nil без brokers.
	Publisher *kafka.LedgerPublisher

	producer *kafka.Producer
}

// NewDependencies загружает журнал и подключает слушателей по конфигу.
func NewDependencies(cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Metrics: metrics.NewLedgerMetrics(),
		Logger:  logger,
	}

	options := []ledger.Option{
		ledger.WithLogger(logger.WithField("component", "ledger")),
		ledger.WithNumbering(cfg.NumberingMode()),
		ledger.WithLocation(loc),
		ledger.WithRecorder(deps.Metrics),
	}

	var initial domain.Snapshot
	if cfg.DataFile != "" {
		initial = jsonfile.Load(cfg.DataFile, logger.WithField("component", "jsonfile"))
		deps.Writer = jsonfile.NewWriter(cfg.DataFile,
			jsonfile.WithLogger(logger.WithField("component", "snapshot-writer")),
			jsonfile.WithRecorder(deps.Metrics),
		)
		options = append(options, ledger.WithListener(deps.Writer))
	} else {
		logger.Warn("data_file is empty, ledger is kept in memory only")
		deps.Memory = memory.NewSnapshotStore(initial)
		options = append(options, ledger.WithListener(deps.Memory))
	}

	// Ошибка Kafka не фатальна: журнал работает без ленты.
	if producer, err := initKafkaProducer(cfg.Kafka.Brokers, logger); err == nil && producer != nil {
		deps.producer = producer
		deps.Publisher = kafka.NewLedgerPublisher(producer,
			kafka.WithLogger(logger.WithField("component", "ledger-publisher")),
			kafka.WithTopic(cfg.Kafka.Topic),
			kafka.WithQueueSize(cfg.Kafka.QueueSize),
			kafka.WithRecorder(deps.Metrics),
		)
		options = append(options, ledger.WithListener(deps.Publisher))
	}

	deps.Store = ledger.New(initial, options...)
	deps.Metrics.SetOrders(deps.Store.Count())

	logger.WithFields(log.Fields{
		"orders":    deps.Store.Count(),
		"data_file": cfg.DataFile,
		"numbering": cfg.NumberingMode().String(),
	}).Info("ledger opened")

	return deps, nil
}

// RegisterHealthChecks добавляет проверки зависимостей в health handler.
func (d *Dependencies) RegisterHealthChecks(handler *health.Handler) {
	if d.Writer != nil {
		handler.RegisterChecker("snapshot", health.NewSnapshotChecker(d.Writer))
	}

	var source health.LedgerSource
	if d.Store != nil {
		source = d.Store
	}
	handler.RegisterChecker("ledger", health.NewLedgerChecker(source, d.persistence()))
}

func (d *Dependencies) persistence() health.Persistence {
	switch {
	case d.Writer != nil:
		return health.PersistenceFile
	case d.Memory != nil:
		return health.PersistenceMemory
	default:
		return ""
	}
}

// Close дописывает последний снимок, отправляет очередь событий и закрывает producer.
func (d *Dependencies) Close(ctx context.Context) error {
	var errs []error
	if d.Publisher != nil {
		if err := d.Publisher.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close ledger publisher: %w", err))
		}
	}
	closeKafka(d.producer, d.Logger)
	if d.Writer != nil {
		if err := d.Writer.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush ledger snapshot: %w", err))
		}
	}
	return errors.Join(errs...)
}
