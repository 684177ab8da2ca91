// Command seedhsn loads the GST HSN/SAC rate workbook into the hsn_codes table.
//
// Usage: seedhsn <master.xlsx>
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"gstr1/internal/config"
	"gstr1/internal/hsnmaster"
	"gstr1/internal/logging"
	"gstr1/internal/repository/postgres"
)

const batchSize = 500

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: seedhsn <master.xlsx>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	logger := logging.New(cfg.Log)

	if err := run(cfg, logger, os.Args[1]); err != nil {
		logger.WithError(err).Fatal("seeding hsn master failed")
	}
}

func run(cfg *config.Config, logger *logrus.Logger, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	entries, err := hsnmaster.Parse(data)
	if err != nil {
		return err
	}
	logger.WithField("entries", len(entries)).Info("parsed hsn master")

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repo := postgres.NewHSNRepo(db)
	var total int64
	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		n, err := repo.UpsertBatch(ctx, entries[i:end])
		if err != nil {
			return fmt.Errorf("batch at offset %d: %w", i, err)
		}
		total += n
	}

	logger.WithFields(logrus.Fields{
		"rows":    total,
		"batches": (len(entries) + batchSize - 1) / batchSize,
	}).Info("hsn master seeded")
	return nil
}
