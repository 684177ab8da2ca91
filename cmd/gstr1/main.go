// Command gstr1 generates the GSTR-1 reports for one marketplace archive and
// writes them to a directory.
//
// Usage: gstr1 [-schema GST3.2.3] <archive.zip> [out-dir]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"gstr1/internal/app"
	"gstr1/internal/config"
	"gstr1/internal/logging"
	"gstr1/internal/service"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitInputError = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	logger := logging.New(cfg.Log)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, app.Options{DisableEmail: true})
	if err != nil {
		logger.WithError(err).Fatal("wiring report service")
	}
	code := run(ctx, os.Args[1:], a.Reports, logger, os.Stdout)
	a.Close()
	os.Exit(code)
}

func run(ctx context.Context, args []string, svc service.ReportService, log logrus.FieldLogger, stdout io.Writer) int {
	fs := flag.NewFlagSet("gstr1", flag.ContinueOnError)
	fs.SetOutput(stdout)
	schema := fs.String("schema", "", "filing schema version (default from config)")
	if err := fs.Parse(args); err != nil {
		return exitInputError
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fmt.Fprintln(stdout, "Usage: gstr1 [-schema GST3.2.3] <archive.zip> [out-dir]")
		return exitInputError
	}

	archivePath := fs.Arg(0)
	outDir := "."
	if fs.NArg() == 2 {
		outDir = fs.Arg(1)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		log.WithError(err).Error("reading archive")
		return exitInputError
	}

	result, err := svc.Generate(ctx, service.GenerateInput{
		ArchiveName:   filepath.Base(archivePath),
		Archive:       data,
		SchemaVersion: *schema,
	})
	if err != nil {
		log.WithError(err).Error("report generation failed")
		if service.IsClientError(err) {
			return exitInputError
		}
		return exitFailure
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.WithError(err).Error("creating output directory")
		return exitFailure
	}
	for _, a := range result.Artifacts {
		target := filepath.Join(outDir, a.FileName)
		if err := os.WriteFile(target, a.Content, 0o644); err != nil {
			log.WithError(err).WithField("file", target).Error("writing artifact")
			return exitFailure
		}
		fmt.Fprintln(stdout, target)
	}

	d := result.Diagnostics
	fmt.Fprintf(stdout, "run %s: %s period %s, %d sales, %d returns, %d B2CS buckets, %d HSN buckets\n",
		result.RunID, result.Header.GSTIN, result.Header.FilingPeriod(),
		result.SalesCount, result.ReturnsCount, len(result.B2CS), len(result.HSN))
	if d.ReturnsMissing {
		fmt.Fprintln(stdout, "warning: archive has no returns file")
	}
	if len(d.UnmappedStates) > 0 {
		fmt.Fprintf(stdout, "warning: unmapped states: %s\n", strings.Join(d.UnmappedStates, ", "))
	}
	if d.CoercedValues > 0 {
		fmt.Fprintf(stdout, "warning: %d non-numeric values coerced\n", d.CoercedValues)
	}
	for _, m := range d.HSNRateMismatches {
		fmt.Fprintf(stdout, "warning: HSN %s at rate %s not in master (valid: %s)\n", m.HSNCode, m.Rate, strings.Join(m.ValidRates, ", "))
	}
	return exitOK
}
