package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fluxo/internal/core"
	"fluxo/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fluxo.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUpdateAndRead(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rows := []core.RawRecord{
		{ledger.ColDate: "05/01/2024", ledger.ColAmount: "1000.50", ledger.ColMovement: "Receita", ledger.ColStatus: "Realizado", ledger.ColInstitution: "Itaú", ledger.ColCategory: "Salário", ledger.ColDescription: "janeiro"},
		{ledger.ColDate: "10/01/2024", ledger.ColAmount: "200", ledger.ColMovement: "Despesa", ledger.ColStatus: "Projetado", ledger.ColInstitution: "Nubank", ledger.ColCategory: "Mercado", ledger.ColDescription: ""},
	}
	if err := repo.Update(ctx, ledger.Header(), rows); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	got, err := repo.Read(ctx)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	// Stored order is preserved.
	if got[0][ledger.ColDate] != "05/01/2024" || got[1][ledger.ColDate] != "10/01/2024" {
		t.Errorf("row order lost: %v", got)
	}
	if got[0][ledger.ColAmount] != "1000.50" {
		t.Errorf("amount = %q, want 1000.50", got[0][ledger.ColAmount])
	}
}

func TestUpdateIsFullReplacement(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := []core.RawRecord{{ledger.ColDate: "01/01/2024", ledger.ColAmount: "1"}}
	second := []core.RawRecord{{ledger.ColDate: "02/02/2024", ledger.ColAmount: "2"}}
	if err := repo.Update(ctx, ledger.Header(), first); err != nil {
		t.Fatal(err)
	}
	if err := repo.Update(ctx, ledger.Header(), second); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0][ledger.ColDate] != "02/02/2024" {
		t.Errorf("update did not fully replace: %v", got)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pending, err := repo.PendingSync(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pending {
		t.Error("fresh mirror should not be pending")
	}

	if err := repo.Update(ctx, ledger.Header(), []core.RawRecord{{ledger.ColDate: "01/01/2024", ledger.ColAmount: "1"}}); err != nil {
		t.Fatal(err)
	}
	if pending, _ = repo.PendingSync(ctx); !pending {
		t.Error("update should mark mirror pending")
	}

	if err := repo.MarkSynced(ctx); err != nil {
		t.Fatal(err)
	}
	if pending, _ = repo.PendingSync(ctx); pending {
		t.Error("MarkSynced did not clear pending flag")
	}
}

func TestReadEmptyMirror(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.Read(context.Background())
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d rows, want 0", len(got))
	}
}
