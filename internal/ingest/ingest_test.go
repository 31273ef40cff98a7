package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSVComma(t *testing.T) {
	in := "Data_Transacao,Valor,Tipo_Movimento\n05/01/2024,\"1.000,50\",Receita\n10/01/2024,200,Despesa\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["Valor"] != "1.000,50" {
		t.Errorf("Valor = %q, want 1.000,50", rows[0]["Valor"])
	}
	if rows[1]["Tipo_Movimento"] != "Despesa" {
		t.Errorf("Tipo_Movimento = %q, want Despesa", rows[1]["Tipo_Movimento"])
	}
}

func TestParseCSVSemicolon(t *testing.T) {
	in := "Data_Transacao;Valor;Descricao\n05/01/2024;1.000,50;mercado\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0]["Valor"] != "1.000,50" {
		t.Errorf("Valor = %q; semicolon sniffing failed", rows[0]["Valor"])
	}
}

func TestParseCSVSkipsBlankLines(t *testing.T) {
	in := "Data_Transacao,Valor\n05/01/2024,10\n,\n06/01/2024,20\n"
	rows, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2 (blank line skipped)", len(rows))
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("Data_Transacao,Valor\n"))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"Data_Transacao", "Valor", "Tipo_Movimento"},
		{"05/01/2024", "1.000,50", "Receita"},
		{"10/01/2024", "200", "Despesa"},
	}
	for i, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	rows, err := ParseXLSX(&buf)
	if err != nil {
		t.Fatalf("ParseXLSX error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["Valor"] != "1.000,50" {
		t.Errorf("Valor = %q, want 1.000,50", rows[0]["Valor"])
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("dump.pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseDispatch(t *testing.T) {
	rows, err := Parse("extrato.csv", strings.NewReader("Valor\n10\n"))
	if err != nil {
		t.Fatalf("Parse(.csv) error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}

	if _, err := Parse("notas.xlsx", strings.NewReader("not an xlsx")); err == nil {
		t.Error("corrupt xlsx should fail loudly")
	}
}
