package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// SnapshotStore — in-memory приёмник снимков журнала для тестов и режима без диска.
type SnapshotStore struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	history  []domain.ChangeKind
}

// NewSnapshotStore возвращает хранилище, заранее наполненное initial.
func NewSnapshotStore(initial domain.Snapshot) *SnapshotStore {
	return &SnapshotStore{snapshot: initial.Clone()}
}

// Notify запоминает последний снимок.
func (s *SnapshotStore) Notify(change domain.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	s.snapshot = change.Snapshot.Clone()
	s.history = append(s.history, change.Kind)
}

// Load возвращает копию последнего снимка.
func (s *SnapshotStore) Load() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Changes возвращает типы полученных изменений в порядке поступления.
func (s *SnapshotStore) Changes() []domain.ChangeKind {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChangeKind, len(s.history))
	copy(out, s.history)
	return out
}

var _ domain.Listener = (*SnapshotStore)(nil)
