package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"fluxo/internal/core"
	"fluxo/internal/ingest"
	"fluxo/internal/services"
)

// maxUploadBytes bounds spreadsheet uploads (10 MiB).
const maxUploadBytes = 10 << 20

// handleEntryForm renders the edit form partial for a projected entry.
func (s *Server) handleEntryForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	rowID := strings.TrimSpace(r.URL.Query().Get("row_id"))
	if rowID == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Identificador do lançamento ausente</div>`))
		return
	}

	entry, ok := s.svc.Entry(rowID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Lançamento não encontrado</div>`))
		return
	}
	if !entry.IsProjected() {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Apenas lançamentos projetados podem ser editados</div>`))
		return
	}

	data := struct {
		RowID       string
		Date        string
		Amount      string
		Movement    string
		Institution string
		Category    string
		Description string
	}{
		RowID:       entry.RowID,
		Date:        entry.Date.Format("02/01/2006"),
		Amount:      core.FormatAmount(entry.Amount),
		Movement:    string(entry.Movement),
		Institution: entry.Institution,
		Category:    entry.Category,
		Description: entry.Description,
	}

	if err := s.templates.ExecuteTemplate(w, "entry_form.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Entry form template error", "error", err, "row_id", rowID)
		_, _ = w.Write([]byte(`<div class="error">Erro ao renderizar o formulário</div>`))
	}
}

// handleUpdateEntry merges an edited projected entry back into the snapshot.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato de requisição inválido</div>`))
		return
	}

	rowID := strings.TrimSpace(r.Form.Get("row_id"))
	current, ok := s.svc.Entry(rowID)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Lançamento não encontrado</div>`))
		return
	}

	date, ok := core.ParseDate(strings.TrimSpace(r.Form.Get("date")))
	if !ok {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Data inválida</div>`))
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Valor inválido</div>`))
		return
	}

	edited := core.Entry{
		RowID:       rowID,
		Date:        date,
		Amount:      amount,
		Movement:    current.Movement,
		Status:      core.StatusProjected,
		Institution: sanitizeInput(r.Form.Get("institution")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Description: sanitizeInput(r.Form.Get("description")),
	}
	if movement := sanitizeInput(r.Form.Get("movement")); movement != "" {
		edited.Movement = core.MovementType(movement)
	}

	if err := s.svc.UpdateProjected(r.Context(), edited); err != nil {
		switch {
		case errors.Is(err, services.ErrNotProjected):
			w.WriteHeader(http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrRowNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			slog.ErrorContext(r.Context(), "Projected update error", "error", err, "row_id", rowID)
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "ledger:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Lançamento atualizado: ` +
		template.HTMLEscapeString(edited.Description) +
		` — ` + template.HTMLEscapeString(formatMoney(edited.Amount)) + `</div>`))
}

// handleUpload replaces the snapshot with an uploaded spreadsheet file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.ErrorContext(r.Context(), "Multipart parse error", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Arquivo muito grande ou requisição inválida</div>`))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Nenhum arquivo enviado</div>`))
		return
	}
	defer file.Close()

	rows, err := ingest.Parse(header.Filename, file)
	if err != nil {
		slog.WarnContext(r.Context(), "Upload parse error", "error", err, "filename", header.Filename)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	report, err := s.svc.Import(r.Context(), rows)
	if err != nil {
		slog.ErrorContext(r.Context(), "Upload import error", "error", err, "filename", header.Filename)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "ledger:changed")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` +
		fmt.Sprintf("Arquivo importado: %d linha(s) lida(s), %d ignorada(s) por data inválida", report.TotalRows, report.DroppedNoDate) +
		`</div>`))
}

// handleSave writes the whole snapshot back through the sink.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.svc.Save(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Ledger save error", "error", err)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<div class="error">Erro ao salvar: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	s.invalidateViews()
	w.Header().Set("HX-Trigger", "ledger:saved")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Planilha salva com sucesso</div>`))
}
