package sheets

import (
	"context"
	"errors"
	"fmt"

	"fluxo/internal/core"
)

// Ports for outbound adapters.
type (
	// RecordSource supplies the full raw row set of the remote ledger.
	// A failed read is fatal for the current cycle; the caller keeps its
	// previous snapshot.
	RecordSource interface {
		Read(ctx context.Context) ([]core.RawRecord, error)
	}

	// RecordSink replaces the entire remote row set. Invoked only on
	// explicit user confirmation; either it fully succeeds or the remote
	// data is presumed unchanged.
	RecordSink interface {
		Update(ctx context.Context, header []string, rows []core.RawRecord) error
	}
)

// ErrorKind categorizes source/sink failures for user-facing hints.
type ErrorKind string

const (
	KindPermission    ErrorKind = "permission"
	KindNotFound      ErrorKind = "not_found"
	KindConnectivity  ErrorKind = "connectivity"
	KindConfiguration ErrorKind = "configuration"
)

// SourceError wraps a transport failure with a category and a hint the
// dashboard shows verbatim next to the raw error.
type SourceError struct {
	Kind ErrorKind
	Hint string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Hints mirror the original diagnostic checklist: 403 means the sheet is not
// shared with the service account, a missing worksheet means the tab name is
// wrong, and absent credentials mean the environment is not configured.
var hints = map[ErrorKind]string{
	KindPermission:    "A planilha não está compartilhada com a conta de serviço (erro 403).",
	KindNotFound:      "Planilha ou aba não encontrada: confira o ID e o nome da aba.",
	KindConnectivity:  "Falha de rede ao acessar o Google Sheets; tente novamente.",
	KindConfiguration: "Credenciais ausentes ou inválidas: confira as variáveis de ambiente.",
}

// NewSourceError builds a categorized error with its standard hint.
func NewSourceError(kind ErrorKind, err error) *SourceError {
	return &SourceError{Kind: kind, Hint: hints[kind], Err: err}
}

// Categorize extracts the error kind from an error chain, defaulting to
// connectivity for uncategorized failures.
func Categorize(err error) ErrorKind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindConnectivity
}
