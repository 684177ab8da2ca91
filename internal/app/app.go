// Package app assembles the report service and its optional backends from
// configuration. Both the HTTP server and the CLI start from here.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"gstr1/internal/cache/redis"
	"gstr1/internal/config"
	"gstr1/internal/email/noop"
	"gstr1/internal/email/ses"
	"gstr1/internal/filing"
	"gstr1/internal/gst"
	"gstr1/internal/handler"
	"gstr1/internal/port"
	"gstr1/internal/repository/postgres"
	"gstr1/internal/service"
	s3storage "gstr1/internal/storage/s3"
	"gstr1/internal/template"
	"gstr1/internal/workbook"
)

// App holds the wired report service and the probes for its backends.
type App struct {
	Reports service.ReportService
	Checks  []handler.ReadinessCheck

	closers []func() error
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// Options narrows what New wires. The CLI runs without notifications.
type Options struct {
	DisableEmail bool
}

// New builds the report service. S3, PostgreSQL and Redis are each optional:
// a disabled or empty section leaves the matching feature off.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, o Options) (*App, error) {
	opts, err := reportOptions(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		store, err := s3storage.NewStore(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("initializing S3 store: %w", err)
		}
		storage = store
		a.Checks = append(a.Checks, handler.ReadinessCheck{Name: "object storage", Check: store.Ping})
		log.WithField("bucket", cfg.S3.Bucket).Info("artifact archiving enabled")
	}

	var hsnRepo port.HSNRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.Checks = append(a.Checks, handler.ReadinessCheck{Name: "hsn master", Check: db.PingContext})
		hsnRepo = postgres.NewHSNRepo(db)
		log.Info("hsn enrichment enabled")
	}

	templates, err := template.NewSource(cfg.Template.URL, cfg.Template.Timeout, storage)
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.Checks = append(a.Checks, handler.ReadinessCheck{
			Name:  "template cache",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		templates = template.NewCachedSource(templates, redis.NewTemplateCache(client), cfg.Template.URL, cfg.Template.CacheTTL, log)
		log.WithField("ttl", cfg.Template.CacheTTL).Info("template cache enabled")
	}

	var email port.EmailSender
	if !o.DisableEmail {
		email, err = newEmailSender(ctx, cfg.Email, log)
		if err != nil {
			return nil, err
		}
	}

	a.Reports = service.NewReportService(templates, hsnRepo, storage, email, opts, log)
	ok = true
	return a, nil
}

func reportOptions(cfg *config.Config) (service.ReportOptions, error) {
	strategy, err := gst.ParseNormalizeStrategy(cfg.GST.StateNormalization)
	if err != nil {
		return service.ReportOptions{}, err
	}
	policy, err := gst.ParseNumericPolicy(cfg.GST.NumericPolicy)
	if err != nil {
		return service.ReportOptions{}, err
	}
	if _, err := filing.NewRenderer(cfg.GST.SchemaVersion); err != nil {
		return service.ReportOptions{}, err
	}

	return service.ReportOptions{
		Resolver:      gst.NewResolver(strategy),
		NumericPolicy: policy,
		SchemaVersion: cfg.GST.SchemaVersion,
		HeaderCells: workbook.HeaderCells{
			GSTIN: cfg.GST.GSTINCell,
			Month: cfg.GST.MonthCell,
			Year:  cfg.GST.YearCell,
		},
		SourceLabel:     cfg.GST.SourceLabel,
		SupplierRefCell: cfg.GST.SupplierRefCell,
		LiveFormulas:    cfg.GST.LiveFormulas,
		CSVBOM:          cfg.GST.CSVBOM,
		Bucket:          cfg.S3.Bucket,
		Prefix:          cfg.S3.Prefix,
		PresignExpiry:   cfg.S3.PresignExpiry,
	}, nil
}

func newEmailSender(ctx context.Context, cfg config.EmailConfig, log logrus.FieldLogger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(ctx, cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("initializing SES sender: %w", err)
		}
		return sender, nil
	case "noop", "":
		return noop.NewNoopSender(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
