// Package memory is an in-process record source/sink used by tests and as
// the default development backend.
package memory

import (
	"context"
	"encoding/csv"
	"os"
	"sync"

	"fluxo/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows []core.RawRecord

	// readErr/updateErr let tests simulate source and sink failures.
	readErr   error
	updateErr error
}

func New(rows []core.RawRecord) *Store {
	return &Store{rows: cloneRows(rows)}
}

// NewFromCSV seeds the store from a semicolon- or comma-delimited file on
// disk; a missing or unreadable file yields an empty store.
func NewFromCSV(path string) *Store {
	f, err := os.Open(path)
	if err != nil {
		return New(nil)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil || len(all) < 2 {
		return New(nil)
	}

	header := all[0]
	rows := make([]core.RawRecord, 0, len(all)-1)
	for _, line := range all[1:] {
		rec := make(core.RawRecord, len(header))
		for i, name := range header {
			if i < len(line) {
				rec[name] = line[i]
			}
		}
		rows = append(rows, rec)
	}
	return New(rows)
}

func (s *Store) Read(_ context.Context) ([]core.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return cloneRows(s.rows), nil
}

func (s *Store) Update(_ context.Context, _ []string, rows []core.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.rows = cloneRows(rows)
	return nil
}

// Len reports the current number of stored rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// FailReads makes subsequent Read calls return err (nil restores normal
// behavior).
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailUpdates makes subsequent Update calls return err.
func (s *Store) FailUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = err
}

func cloneRows(rows []core.RawRecord) []core.RawRecord {
	out := make([]core.RawRecord, 0, len(rows))
	for _, r := range rows {
		c := make(core.RawRecord, len(r))
		for k, v := range r {
			c[k] = v
		}
		out = append(out, c)
	}
	return out
}
