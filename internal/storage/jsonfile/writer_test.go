package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/ledger"
)

type stubRecorder struct {
	mu     sync.Mutex
	writes int
	errs   int
}

func (r *stubRecorder) RecordSnapshotWrite(_ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if err != nil {
		r.errs++
	}
}

func TestWriter_PersistsLatestSnapshotOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedidos.json")
	recorder := &stubRecorder{}
	writer := NewWriter(path, WithLogger(testLogger()), WithRecorder(recorder))

	store := ledger.New(domain.Snapshot{}, ledger.WithLogger(testLogger()), ledger.WithListener(writer))
	first, err := store.Add(domain.Draft{ClientName: "Ana", ValueAmount: "100", WeightKg: "2.5"})
	require.NoError(t, err)
	_, err = store.Add(domain.Draft{ClientName: "Bea", ValueAmount: "50"})
	require.NoError(t, err)
	store.ToggleStatus(first.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, writer.Close(ctx))

	loaded := Load(path, testLogger())
	requireSameOrders(t, store.List(), loaded.Orders)
	require.Equal(t, int64(2), loaded.LastID)
	require.False(t, writer.LastWrite().IsZero())

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.GreaterOrEqual(t, recorder.writes, 1)
	require.Zero(t, recorder.errs)
}

func TestWriter_ReportsWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// каталог журнала не может быть создан внутри обычного файла
	writer := NewWriter(filepath.Join(blocker, "pedidos.json"), WithLogger(testLogger()))
	writer.Notify(domain.Change{Kind: domain.ChangeOrderAdded, Snapshot: sampleSnapshot()})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Error(t, writer.Close(ctx))
	require.Error(t, writer.Err())
}

func TestWriter_NotifyAfterCloseIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pedidos.json")
	writer := NewWriter(path, WithLogger(testLogger()))

	require.NoError(t, writer.Close(context.Background()))
	require.NoError(t, writer.Close(context.Background()))

	writer.Notify(domain.Change{Kind: domain.ChangeOrderAdded, Snapshot: sampleSnapshot()})
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
