package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"fluxo/internal/core"
)

type (
	entryVM struct {
		RowID       string
		Date        string
		Weekday     string
		Description string
		Institution string
		Category    string
		Status      string
		Movement    string
		Amount      string
		Signed      string
		Running     string
		Projected   bool
		Negative    bool
	}

	dayVM struct {
		Label       string
		Weekday     string
		Income      string
		Expense     string
		Net         string
		Closing     string
		NetNegative bool
		Entries     []entryVM
	}

	kpiVM struct {
		Income           string
		Expense          string
		ProjectedExpense string
		PeriodNet        string
		CarryOver        string
		FinalBalance     string
		BalanceLabel     string
		NetNegative      bool
		FinalNegative    bool
		ShowCarryOver    bool
	}

	dashboardVM struct {
		Months       []string
		Institutions []string
		Categories   []string
		Statuses     []string

		SelectedMonth        string
		SelectedInstitutions map[string]bool
		SelectedCategories   map[string]bool
		SelectedStatuses     map[string]bool

		Mode       string
		ModeLabel  string
		Cumulative bool

		Empty    string
		KPIs     kpiVM
		Days     []dayVM
		Warnings []string

		Query string
	}
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Query string
	}{Query: r.URL.RawQuery}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDashboard renders the filtered timeline partial. Rendered output is
// cached per generation + query string.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	key := s.viewCacheKey(r.URL.RawQuery)
	if html, found := s.viewCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "query", r.URL.RawQuery)
		_, _ = w.Write([]byte(html))
		return
	}

	spec := parseFilterSpec(r)
	mode := parseMode(r)

	view, err := s.svc.View(r.Context(), spec, mode)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard view error", "error", err, "month", spec.Month, "mode", string(mode))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="error">Não foi possível carregar os dados da planilha.</div></section>`))
		return
	}

	months, institutions, categories, statuses, err := s.svc.Options(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Filter options error", "error", err)
	}

	data := s.buildDashboardVM(view, spec, mode)
	data.Months = months
	data.Institutions = institutions
	data.Categories = categories
	data.Statuses = statuses
	data.Query = r.URL.RawQuery

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">` +
			data.KPIs.BalanceLabel + `: ` + data.KPIs.FinalBalance + `</div></section>`))
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="error">Erro ao renderizar o painel.</div></section>`))
		return
	}

	s.viewCache.Set(key, buf.String())
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) buildDashboardVM(view core.LedgerView, spec core.FilterSpec, mode core.BalanceMode) dashboardVM {
	data := dashboardVM{
		SelectedMonth:        spec.Month,
		SelectedInstitutions: toSet(spec.Institutions),
		SelectedCategories:   toSet(spec.Categories),
		SelectedStatuses:     toSet(spec.Statuses),
		Mode:                 string(mode),
		ModeLabel:            mode.Label(),
		Cumulative:           mode == core.ModeCumulative,
		Empty:                string(view.Empty),
		KPIs: kpiVM{
			Income:           formatMoney(view.KPIs.Income),
			Expense:          formatMoney(view.KPIs.Expense),
			ProjectedExpense: formatMoney(view.KPIs.ProjectedExpense),
			PeriodNet:        formatMoney(view.KPIs.PeriodNet),
			CarryOver:        formatMoney(view.KPIs.CarryOver),
			FinalBalance:     formatMoney(view.KPIs.FinalBalance),
			BalanceLabel:     view.KPIs.BalanceLabel,
			NetNegative:      view.KPIs.PeriodNet.IsNegative(),
			FinalNegative:    view.KPIs.FinalBalance.IsNegative(),
			ShowCarryOver:    mode == core.ModeCumulative,
		},
	}

	report := s.svc.Report()
	if report.DroppedNoDate > 0 {
		data.Warnings = append(data.Warnings,
			fmt.Sprintf("%d linha(s) ignorada(s) por data inválida", report.DroppedNoDate))
	}
	if report.CoercedAmounts > 0 {
		data.Warnings = append(data.Warnings,
			fmt.Sprintf("%d valor(es) ilegível(is) tratado(s) como zero", report.CoercedAmounts))
	}

	for _, day := range view.Days {
		dvm := dayVM{
			Label:       day.Date.Format("02/01/2006"),
			Weekday:     day.Weekday,
			Income:      formatMoney(day.Income),
			Expense:     formatMoney(day.Expense),
			Net:         formatMoney(day.Net),
			Closing:     formatMoney(day.Closing),
			NetNegative: day.Net.IsNegative(),
		}
		for _, e := range day.Entries {
			dvm.Entries = append(dvm.Entries, entryVM{
				RowID:       e.RowID,
				Date:        e.Date.Format("02/01/2006"),
				Weekday:     core.WeekdayLabel(e.Date),
				Description: e.Description,
				Institution: e.Institution,
				Category:    e.Category,
				Status:      string(e.Status),
				Movement:    string(e.Movement),
				Amount:      formatMoney(e.Amount),
				Signed:      formatMoney(e.Signed),
				Running:     formatMoney(e.Running),
				Projected:   e.IsProjected(),
				Negative:    e.Signed.IsNegative(),
			})
		}
		data.Days = append(data.Days, dvm)
	}

	return data
}

func toSet(vs []string) map[string]bool {
	set := make(map[string]bool, len(vs))
	for _, v := range vs {
		set[v] = true
	}
	return set
}
