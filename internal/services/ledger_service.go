package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fluxo/internal/cache"
	"fluxo/internal/core"
	"fluxo/internal/ledger"
	"fluxo/internal/sheets"
)

const snapshotKey = "ledger"

var ErrRowNotFound = errors.New("lançamento não encontrado")
var ErrNotProjected = errors.New("apenas lançamentos projetados podem ser editados")

// SyncPublisher is the optional hook that announces a saved ledger to the
// replication worker.
type SyncPublisher interface {
	PublishLedgerSync(ctx context.Context, rows int) error
}

// LedgerService owns the only mutable state of the dashboard: the current
// normalized snapshot and its normalization report. Every computation is
// delegated to the pure functions in internal/ledger; every user interaction
// triggers a full pass over the in-memory snapshot.
type LedgerService struct {
	source    sheets.RecordSource
	sink      sheets.RecordSink
	publisher SyncPublisher

	// fresh marks the snapshot as younger than the source TTL; a miss
	// forces a re-read on the next cycle.
	fresh *cache.LRUCache[struct{}]

	mu     sync.Mutex
	loaded bool
	ledger []core.Entry
	report ledger.NormalizeReport
}

func NewLedgerService(source sheets.RecordSource, sink sheets.RecordSink, publisher SyncPublisher, ttl time.Duration) *LedgerService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LedgerService{
		source:    source,
		sink:      sink,
		publisher: publisher,
		fresh:     cache.NewLRUCache[struct{}](1, ttl),
	}
}

// Refresh re-reads the source and rebuilds the snapshot. On failure the
// previous snapshot stays authoritative and the error is returned for
// display.
func (s *LedgerService) Refresh(ctx context.Context) error {
	rows, err := s.source.Read(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Ledger read failed, keeping previous snapshot",
			"error", err, "kind", string(sheets.Categorize(err)))
		return fmt.Errorf("ler origem: %w", err)
	}

	entries, report, err := ledger.Normalize(rows)
	if err != nil {
		return fmt.Errorf("normalizar planilha: %w", err)
	}

	s.mu.Lock()
	s.ledger = entries
	s.report = report
	s.loaded = true
	s.mu.Unlock()
	s.fresh.Set(snapshotKey, struct{}{})

	slog.InfoContext(ctx, "Ledger snapshot rebuilt",
		"rows", report.TotalRows,
		"entries", len(entries),
		"dropped_no_date", report.DroppedNoDate,
		"coerced_amounts", report.CoercedAmounts)
	return nil
}

// ensure loads the snapshot when it is missing or stale. A stale snapshot
// that fails to refresh is still served; only a missing one propagates the
// error.
func (s *LedgerService) ensure(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	if _, ok := s.fresh.Get(snapshotKey); ok && loaded {
		return nil
	}
	if err := s.Refresh(ctx); err != nil {
		if loaded {
			slog.WarnContext(ctx, "Serving stale ledger snapshot", "error", err)
			return nil
		}
		return err
	}
	return nil
}

// View computes the full dashboard state for one filter and balance mode.
func (s *LedgerService) View(ctx context.Context, spec core.FilterSpec, mode core.BalanceMode) (core.LedgerView, error) {
	if err := s.ensure(ctx); err != nil {
		return core.LedgerView{}, err
	}
	s.mu.Lock()
	entries := s.ledger
	s.mu.Unlock()
	return ledger.BuildView(entries, spec, mode), nil
}

// Options returns the distinct filter choices present in the snapshot.
func (s *LedgerService) Options(ctx context.Context) (months, institutions, categories, statuses []string, err error) {
	if err := s.ensure(ctx); err != nil {
		return nil, nil, nil, nil, err
	}
	s.mu.Lock()
	entries := s.ledger
	s.mu.Unlock()
	return ledger.Months(entries), ledger.Institutions(entries), ledger.Categories(entries), ledger.Statuses(entries), nil
}

// Report returns the normalization report of the current snapshot.
func (s *LedgerService) Report() ledger.NormalizeReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Entry looks an entry up by its synthetic row id.
func (s *LedgerService) Entry(rowID string) (core.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.ledger {
		if e.RowID == rowID {
			return e, true
		}
	}
	return core.Entry{}, false
}

// Import replaces the snapshot with the normalized contents of an uploaded
// file. The remote source is untouched until the user explicitly saves.
func (s *LedgerService) Import(ctx context.Context, rows []core.RawRecord) (ledger.NormalizeReport, error) {
	entries, report, err := ledger.Normalize(rows)
	if err != nil {
		return report, fmt.Errorf("normalizar arquivo: %w", err)
	}

	s.mu.Lock()
	s.ledger = entries
	s.report = report
	s.loaded = true
	s.mu.Unlock()
	s.fresh.Set(snapshotKey, struct{}{})

	slog.InfoContext(ctx, "Ledger snapshot replaced by upload",
		"rows", report.TotalRows, "entries", len(entries))
	return report, nil
}

// UpdateProjected merges an edited forecast entry back into the snapshot by
// row id. Only Projetado rows are editable; the merged entry keeps the id
// and stays Projetado. The sink is not touched here.
func (s *LedgerService) UpdateProjected(ctx context.Context, edited core.Entry) error {
	if err := edited.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.ledger {
		if e.RowID != edited.RowID {
			continue
		}
		if !e.IsProjected() {
			return ErrNotProjected
		}
		edited.Status = core.StatusProjected
		s.ledger[i] = edited
		slog.InfoContext(ctx, "Projected entry updated", "row_id", edited.RowID)
		return nil
	}
	return ErrRowNotFound
}

// Save writes the whole snapshot through the sink. On success the freshness
// marker is dropped so the next cycle re-reads the remote data; on failure
// the in-memory snapshot remains authoritative and untouched.
func (s *LedgerService) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return errors.New("nada para salvar: nenhum snapshot carregado")
	}
	rows := ledger.ToRawRecords(s.ledger)
	s.mu.Unlock()

	if err := s.sink.Update(ctx, ledger.Header(), rows); err != nil {
		slog.ErrorContext(ctx, "Ledger write failed", "error", err, "rows", len(rows))
		return fmt.Errorf("gravar planilha: %w", err)
	}

	// Remote data changed; invalidate so the next read is fresh.
	s.fresh.Delete(snapshotKey)

	if s.publisher != nil {
		if err := s.publisher.PublishLedgerSync(ctx, len(rows)); err != nil {
			// Replication is best-effort; the save itself succeeded.
			slog.WarnContext(ctx, "Failed to publish ledger sync message", "error", err)
		}
	}

	slog.InfoContext(ctx, "Ledger saved", "rows", len(rows))
	return nil
}
