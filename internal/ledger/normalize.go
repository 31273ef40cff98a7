// Package ledger implements the pure computation pipeline of the dashboard:
// schema normalization, filtering, signed running balances and the per-day
// timeline aggregation. Functions here take and return values; the only
// mutable state lives in the orchestrating service.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// Canonical source column names (see docs: sheet schema).
const (
	ColDate        = "Data_Transacao"
	ColAmount      = "Valor"
	ColMovement    = "Tipo_Movimento"
	ColStatus      = "Status"
	ColInstitution = "Instituicao"
	ColCategory    = "Categoria_Macro"
	ColDescription = "Descricao"
)

// MissingColumnError reports a required column absent from every row of the
// source. It is a configuration problem for the user, not a crash.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("coluna obrigatória ausente na planilha: %s", e.Column)
}

// NormalizeReport summarizes the per-row recoveries applied while
// normalizing, so the UI can surface data-quality warnings.
type NormalizeReport struct {
	TotalRows      int
	DroppedNoDate  int
	CoercedAmounts int
}

// Normalize applies the cleaning rules, in order, to a raw row set:
//
//  1. column names are trimmed;
//  2. rows whose Data_Transacao does not parse are dropped;
//  3. Valor tolerates the pt-BR "1.234,56" form, unparseable values are
//     coerced to zero (and counted in the report);
//  4. Status defaults to Realizado (absent column or blank cell);
//  5. the classification columns default to a sentinel when the column is
//     absent from the whole schema, and to "-" when only the cell is blank;
//  6. the result is sorted date-descending.
//
// A MissingColumnError is returned when Data_Transacao or Valor exists in no
// row at all. Each entry receives a fresh RowID so edits can be merged back
// by key instead of by position.
func Normalize(rows []core.RawRecord) ([]core.Entry, NormalizeReport, error) {
	report := NormalizeReport{TotalRows: len(rows)}

	trimmed := make([]core.RawRecord, 0, len(rows))
	for _, row := range rows {
		clean := make(core.RawRecord, len(row))
		for k, v := range row {
			clean[strings.TrimSpace(k)] = v
		}
		trimmed = append(trimmed, clean)
	}

	present := columnsPresent(trimmed)
	for _, required := range []string{ColDate, ColAmount} {
		if len(trimmed) > 0 && !present[required] {
			return nil, report, &MissingColumnError{Column: required}
		}
	}

	entries := make([]core.Entry, 0, len(trimmed))
	for _, row := range trimmed {
		date, ok := core.ParseDate(row[ColDate])
		if !ok {
			report.DroppedNoDate++
			continue
		}

		amount, err := core.ParseAmount(row[ColAmount])
		if err != nil {
			amount = decimal.Zero
			report.CoercedAmounts++
		}

		entries = append(entries, core.Entry{
			RowID:       uuid.NewString(),
			Date:        date,
			Amount:      amount,
			Movement:    core.MovementType(textField(row, present, ColMovement)),
			Status:      statusField(row, present),
			Institution: textField(row, present, ColInstitution),
			Category:    textField(row, present, ColCategory),
			Description: textField(row, present, ColDescription),
		})
	}

	// Presentation order; downstream computations re-sort as needed.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, report, nil
}

// columnsPresent reports which columns appear in at least one row. A column
// counts as present even when every cell under it is blank.
func columnsPresent(rows []core.RawRecord) map[string]bool {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}
	return present
}

func textField(row core.RawRecord, present map[string]bool, col string) string {
	if !present[col] {
		return core.Unspecified
	}
	v := strings.TrimSpace(row[col])
	if v == "" {
		return core.Blank
	}
	return v
}

func statusField(row core.RawRecord, present map[string]bool) core.Status {
	if !present[ColStatus] {
		return core.StatusRealized
	}
	v := strings.TrimSpace(row[ColStatus])
	if v == "" {
		return core.StatusRealized
	}
	return core.Status(v)
}

// Header returns the canonical column order used when writing the full row
// set back to a sink.
func Header() []string {
	return []string{ColDate, ColAmount, ColMovement, ColStatus, ColInstitution, ColCategory, ColDescription}
}

// ToRawRecords converts entries back to the sheet's row shape, in the given
// order, for a full-replacement write.
func ToRawRecords(entries []core.Entry) []core.RawRecord {
	out := make([]core.RawRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, core.RawRecord{
			ColDate:        e.Date.Format("02/01/2006"),
			ColAmount:      e.Amount.StringFixed(2),
			ColMovement:    string(e.Movement),
			ColStatus:      string(e.Status),
			ColInstitution: e.Institution,
			ColCategory:    e.Category,
			ColDescription: e.Description,
		})
	}
	return out
}
