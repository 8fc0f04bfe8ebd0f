package jsonfile

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// Recorder принимает метрики записи снимков.
type Recorder interface {
	RecordSnapshotWrite(duration time.Duration, err error)
}

// WriterOption настраивает Writer.
type WriterOption func(*Writer)

// WithLogger задаёт logger для writer.
func WithLogger(logger *log.Entry) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// WithRecorder задаёт приёмник метрик.
func WithRecorder(recorder Recorder) WriterOption {
	return func(w *Writer) {
		w.recorder = recorder
	}
}

// Writer сохраняет снимки журнала в фоне. Он реализует domain.Listener:
// Notify только запоминает последний снимок, запись выполняет отдельная горутина.
// Промежуточные снимки, не успевшие записаться, схлопываются в последний.
type Writer struct {
	path     string
	logger   *log.Entry
	recorder Recorder

	mu        sync.Mutex
	pending   *domain.Snapshot
	lastErr   error
	lastWrite time.Time
	closed    bool

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewWriter создаёт writer и запускает фоновую горутину записи.
func NewWriter(path string, options ...WriterOption) *Writer {
	w := &Writer{
		path: path,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, option := range options {
		option(w)
	}
	if w.logger == nil {
		w.logger = log.WithField("component", "snapshot-writer")
	}
	w.logger = w.logger.WithField("path", path)

	go w.run()
	return w
}

// Path возвращает путь к файлу журнала.
func (w *Writer) Path() string { return w.path }

// Notify ставит снимок в очередь на запись и сразу возвращается.
func (w *Writer) Notify(change domain.Change) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.WithField("change", change.Kind).Warn("snapshot writer closed, change not persisted")
		return
	}
	snapshot := change.Snapshot
	w.pending = &snapshot
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Err возвращает ошибку последней записи (nil, если она удалась).
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// LastWrite возвращает время последней успешной записи.
func (w *Writer) LastWrite() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastWrite
}

// Close дожидается записи отложенного снимка и останавливает горутину.
// Возвращает ошибку последней записи, чтобы CLI мог сообщить о ней пользователю.
func (w *Writer) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		close(w.stop)
	})

	select {
	case <-w.done:
		return w.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.mu.Lock()
			w.closed = true
			w.mu.Unlock()
			w.flush()
			return
		}
	}
}

func (w *Writer) flush() {
	w.mu.Lock()
	snapshot := w.pending
	w.pending = nil
	w.mu.Unlock()

	if snapshot == nil {
		return
	}

	start := time.Now()
	err := WriteFile(w.path, *snapshot)
	duration := time.Since(start)

	if w.recorder != nil {
		w.recorder.RecordSnapshotWrite(duration, err)
	}

	w.mu.Lock()
	w.lastErr = err
	if err == nil {
		w.lastWrite = time.Now()
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.WithError(err).Error("failed to write ledger snapshot")
		return
	}
	w.logger.WithFields(log.Fields{
		"orders":      len(snapshot.Orders),
		"duration_ms": duration.Milliseconds(),
	}).Debug("ledger snapshot written")
}

var _ domain.Listener = (*Writer)(nil)
