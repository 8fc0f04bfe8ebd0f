package memory_test

import (
	"testing"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/ledger"
	"github.com/vladislavdragonenkov/pedidos/internal/storage/memory"
)

func TestSnapshotStore_TracksLedger(t *testing.T) {
	sink := memory.NewSnapshotStore(domain.Snapshot{})
	store := ledger.New(sink.Load(), ledger.WithListener(sink))

	order, err := store.Add(domain.Draft{ClientName: "Ana", ValueAmount: "10"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	store.ToggleStatus(order.ID)

	snapshot := sink.Load()
	if len(snapshot.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(snapshot.Orders))
	}
	if !snapshot.Orders[0].Completed {
		t.Fatal("expected toggled order in snapshot")
	}

	changes := sink.Changes()
	if len(changes) != 2 || changes[1] != domain.ChangeOrderStatusToggled {
		t.Fatalf("unexpected change history: %v", changes)
	}
}

func TestSnapshotStore_ReloadsIntoNewLedger(t *testing.T) {
	sink := memory.NewSnapshotStore(domain.Snapshot{})
	first := ledger.New(sink.Load(), ledger.WithListener(sink))
	order, err := first.Add(domain.Draft{ClientName: "Ana", ValueAmount: "10"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	first.Remove(order.ID)

	second := ledger.New(sink.Load())
	next, err := second.Add(domain.Draft{ClientName: "Bea", ValueAmount: "5"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if next.ID <= order.ID {
		t.Fatalf("id %d reused after reload (previous %d)", next.ID, order.ID)
	}
}

func TestSnapshotStore_LoadReturnsCopy(t *testing.T) {
	sink := memory.NewSnapshotStore(domain.Snapshot{Orders: []domain.Order{{ID: 1, ClientName: "Ana"}}})

	loaded := sink.Load()
	loaded.Orders[0].ClientName = "mutated"

	if sink.Load().Orders[0].ClientName != "Ana" {
		t.Fatal("Load must return an independent copy")
	}
}
