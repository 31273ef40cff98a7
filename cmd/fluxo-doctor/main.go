package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fluxo/internal/backend"
	"fluxo/internal/config"
	"fluxo/internal/ledger"
	"fluxo/internal/sheets"
)

// fluxo-doctor checks the configured data source end to end: configuration,
// connectivity, schema, and data quality. Exit code 0 means the dashboard
// would come up healthy with the same environment.
func main() {
	timeout := flag.Duration("timeout", 15*time.Second, "overall check timeout")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Println("fluxo-doctor")
	fmt.Println()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fail("configuração", err, "")
	}
	ok("configuração", fmt.Sprintf("backend=%s", cfg.DataBackend))

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		fail("configuração do backend", err, "")
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		fail("inicialização do backend", err, hintFor(err))
	}
	if result.Cleanup != nil {
		defer func() { _ = result.Cleanup() }()
	}
	ok("inicialização do backend", "")

	rows, err := result.Backend.Read(ctx)
	if err != nil {
		fail("leitura da origem", err, hintFor(err))
	}
	ok("leitura da origem", fmt.Sprintf("%d linha(s)", len(rows)))

	entries, report, err := ledger.Normalize(rows)
	if err != nil {
		var missing *ledger.MissingColumnError
		if errors.As(err, &missing) {
			fail("esquema da planilha", err, "Confira o cabeçalho: "+missing.Column+" é obrigatória.")
		}
		fail("normalização", err, "")
	}
	ok("esquema da planilha", "")

	fmt.Println()
	fmt.Printf("  lançamentos válidos:      %d\n", len(entries))
	fmt.Printf("  linhas sem data:          %d\n", report.DroppedNoDate)
	fmt.Printf("  valores tratados como 0:  %d\n", report.CoercedAmounts)

	if months := ledger.Months(entries); len(months) > 0 {
		fmt.Printf("  meses presentes:          %v\n", months)
	}

	fmt.Println()
	fmt.Println("tudo certo: o painel subiria saudável com este ambiente")
}

func ok(check, detail string) {
	if detail != "" {
		fmt.Printf("  [ok] %-28s %s\n", check, detail)
		return
	}
	fmt.Printf("  [ok] %s\n", check)
}

func fail(check string, err error, hint string) {
	fmt.Printf("  [falha] %s: %v\n", check, err)
	if hint != "" {
		fmt.Printf("          dica: %s\n", hint)
	}
	os.Exit(1)
}

// hintFor surfaces the categorized hint when the error chain carries one.
func hintFor(err error) string {
	var se *sheets.SourceError
	if errors.As(err, &se) && se.Hint != "" {
		return se.Hint
	}
	switch sheets.Categorize(err) {
	case sheets.KindPermission:
		return "Compartilhe a planilha com o e-mail da conta de serviço."
	case sheets.KindNotFound:
		return "Confira GOOGLE_SPREADSHEET_ID e GOOGLE_SHEET_NAME."
	default:
		return ""
	}
}
