package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fluxo/internal/amqp"
	"fluxo/internal/ledger"
	"fluxo/internal/sheets"
	"fluxo/internal/storage"
)

// SyncWorker replays the SQLite mirror to the remote sheet. Messages carry
// no row data; the mirror is always the authoritative payload, so redelivery
// and lost messages are both harmless.
type SyncWorker struct {
	mirror *storage.SQLiteRepository
	sink   sheets.RecordSink
}

func NewSyncWorker(mirror *storage.SQLiteRepository, sink sheets.RecordSink) *SyncWorker {
	return &SyncWorker{
		mirror: mirror,
		sink:   sink,
	}
}

// HandleSyncMessage processes one ledger sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing ledger sync message", "rows", msg.Rows, "enqueued_at", msg.Timestamp)
	return w.replay(ctx)
}

// CatchUp pushes the mirror to the sheet when the pending flag is set. This
// is the backup path for messages lost while the worker was down.
func (w *SyncWorker) CatchUp(ctx context.Context) error {
	pending, err := w.mirror.PendingSync(ctx)
	if err != nil {
		return fmt.Errorf("check pending sync: %w", err)
	}
	if !pending {
		return nil
	}
	slog.InfoContext(ctx, "Mirror has unsynced rows, replaying")
	return w.replay(ctx)
}

func (w *SyncWorker) replay(ctx context.Context) error {
	rows, err := w.mirror.Read(ctx)
	if err != nil {
		return fmt.Errorf("read mirror: %w", err)
	}

	if err := w.sink.Update(ctx, ledger.Header(), rows); err != nil {
		return fmt.Errorf("replay mirror to sheet: %w", err)
	}

	if err := w.mirror.MarkSynced(ctx); err != nil {
		return fmt.Errorf("mark mirror synced: %w", err)
	}

	slog.InfoContext(ctx, "Mirror replayed to sheet", "rows", len(rows))
	return nil
}
