// Package ingest parses uploaded ledger files (delimited text or XLSX) into
// the same raw record shape the sheet source produces.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fluxo/internal/core"
)

var ErrUnsupportedFormat = errors.New("formato de arquivo não suportado (use .csv, .txt ou .xlsx)")

// Parse picks the parser from the file extension. Unsupported formats and
// parse failures surface as user-facing errors, never as a silent fallback.
func Parse(filename string, r io.Reader) ([]core.RawRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// ParseCSV reads a delimited text file, sniffing ';' versus ',' from the
// header line (Brazilian exports commonly use semicolons).
func ParseCSV(r io.Reader) ([]core.RawRecord, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("ler arquivo: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(string(head))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV inválido: %w", err)
	}
	return matrixToRecords(all), nil
}

// ParseXLSX reads the first worksheet of an XLSX workbook.
func ParseXLSX(r io.Reader) ([]core.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("XLSX inválido: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("XLSX sem planilhas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ler planilha %s: %w", sheets[0], err)
	}
	return matrixToRecords(rows), nil
}

func sniffDelimiter(head string) rune {
	if line, _, ok := strings.Cut(head, "\n"); ok {
		head = line
	}
	if strings.Count(head, ";") > strings.Count(head, ",") {
		return ';'
	}
	return ','
}

func matrixToRecords(rows [][]string) []core.RawRecord {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	out := make([]core.RawRecord, 0, len(rows)-1)
	for _, line := range rows[1:] {
		if allEmpty(line) {
			continue
		}
		rec := make(core.RawRecord, len(header))
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if i < len(line) {
				rec[name] = line[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func allEmpty(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
