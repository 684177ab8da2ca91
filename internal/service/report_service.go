package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstr1/internal/archive"
	"gstr1/internal/csvexport"
	"gstr1/internal/domain"
	"gstr1/internal/filing"
	"gstr1/internal/gst"
	"gstr1/internal/port"
	"gstr1/internal/workbook"
)

// GenerateInput is one uploaded archive plus per-run overrides.
type GenerateInput struct {
	ArchiveName   string
	Archive       []byte
	SchemaVersion string
	NotifyEmail   string
}

// ReportService turns a marketplace archive into GSTR-1 artifacts.
type ReportService interface {
	Generate(ctx context.Context, input GenerateInput) (*domain.RunResult, error)
}

// ReportOptions holds run settings that do not change between requests.
type ReportOptions struct {
	Resolver        *gst.Resolver
	Classifier      archive.Classifier
	NumericPolicy   gst.NumericPolicy
	SchemaVersion   string
	HeaderCells     workbook.HeaderCells
	SourceLabel     string
	SupplierRefCell string
	LiveFormulas    bool
	CSVBOM          bool

	// Artifact archiving; ignored when storage is nil.
	Bucket        string
	Prefix        string
	PresignExpiry int64
}

type reportService struct {
	templates port.TemplateSource
	hsnRepo   port.HSNRepository
	storage   port.ObjectStorage
	email     port.EmailSender
	opts      ReportOptions
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewReportService creates a ReportService. hsnRepo, storage and email may be nil
// to disable HSN enrichment, artifact archiving and notifications respectively.
func NewReportService(
	templates port.TemplateSource,
	hsnRepo port.HSNRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	opts ReportOptions,
	log logrus.FieldLogger,
) ReportService {
	if opts.Resolver == nil {
		opts.Resolver = gst.NewResolver(gst.NormalizeTitle)
	}
	if opts.Classifier == nil {
		opts.Classifier = archive.DefaultClassifier()
	}
	if opts.NumericPolicy == "" {
		opts.NumericPolicy = gst.NumericZero
	}
	if opts.HeaderCells == (workbook.HeaderCells{}) {
		opts.HeaderCells = workbook.DefaultHeaderCells
	}
	if opts.SupplierRefCell == "" {
		opts.SupplierRefCell = "X22"
	}
	return &reportService{
		templates: templates,
		hsnRepo:   hsnRepo,
		storage:   storage,
		email:     email,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

func (s *reportService) Generate(ctx context.Context, input GenerateInput) (*domain.RunResult, error) {
	version := input.SchemaVersion
	if version == "" {
		version = s.opts.SchemaVersion
	}
	renderer, err := filing.NewRenderer(version)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	log := s.log.WithFields(logrus.Fields{"run_id": runID.String(), "archive": input.ArchiveName})

	bundle, err := archive.Extract(input.Archive, s.opts.Classifier)
	if err != nil {
		return nil, err
	}

	result := &domain.RunResult{
		RunID:         runID,
		SchemaVersion: renderer.Version(),
		GeneratedAt:   s.now().UTC(),
		Diagnostics: domain.Diagnostics{
			IgnoredEntries: bundle.Ignored,
			MissingColumns: map[string][]string{},
		},
	}
	diag := &result.Diagnostics

	salesTable, err := workbook.ReadTable(bundle.Sales.Name, bundle.Sales.Data)
	if err != nil {
		return nil, err
	}
	header, err := workbook.ReadHeader(&salesTable, s.opts.HeaderCells)
	if err != nil {
		return nil, err
	}
	result.Header = header
	log = log.WithFields(logrus.Fields{"gstin": header.GSTIN, "fp": header.FilingPeriod()})

	sales, err := s.normalize(salesTable, domain.RecordTypeSale, diag)
	if err != nil {
		return nil, err
	}

	var returns []domain.TransactionRow
	if bundle.Returns == nil {
		diag.ReturnsMissing = true
		log.Warn("no returns file in archive, continuing with sales only")
	} else {
		returnsTable, err := workbook.ReadTable(bundle.Returns.Name, bundle.Returns.Data)
		if err != nil {
			return nil, err
		}
		returns, err = s.normalize(returnsTable, domain.RecordTypeReturn, diag)
		if err != nil {
			return nil, err
		}
	}
	result.SalesCount = len(sales)
	result.ReturnsCount = len(returns)

	merged := gst.Merge(s.opts.Resolver, sales, returns)
	diag.UnmappedStates = gst.UnmappedStates(merged)
	if len(diag.UnmappedStates) > 0 {
		log.WithField("states", diag.UnmappedStates).Warn("customer states without a jurisdiction code")
	}

	result.Rows = gst.ApplyTax(merged, header.SupplierCode)
	result.B2CS = gst.AggregateB2CS(result.Rows)
	result.HSN = gst.AggregateHSN(result.Rows)
	diag.HSNRateMismatches = s.enrichHSN(ctx, result.HSN, log)

	if err := s.emit(ctx, result, renderer); err != nil {
		return nil, err
	}

	if s.storage != nil {
		if err := s.archiveArtifacts(ctx, result); err != nil {
			return nil, err
		}
	}

	if input.NotifyEmail != "" && s.email != nil {
		if err := s.email.SendReportReady(ctx, input.NotifyEmail, notification(result)); err != nil {
			log.WithError(err).Warn("failed to send report notification")
		}
	}

	log.WithFields(logrus.Fields{
		"sales":        result.SalesCount,
		"returns":      result.ReturnsCount,
		"b2cs_buckets": len(result.B2CS),
		"hsn_buckets":  len(result.HSN),
	}).Info("gstr1 report generated")
	return result, nil
}

func (s *reportService) normalize(table domain.RawTable, typ domain.RecordType, diag *domain.Diagnostics) ([]domain.TransactionRow, error) {
	res, err := gst.Normalize(table, typ, s.opts.NumericPolicy)
	if err != nil {
		return nil, err
	}
	if len(res.MissingColumns) > 0 {
		diag.MissingColumns[table.Name] = res.MissingColumns
		s.log.WithFields(logrus.Fields{"table": table.Name, "columns": res.MissingColumns}).
			Warn("optional columns missing, filled with blanks")
	}
	if res.CoercedValues > 0 {
		diag.CoercedValues += res.CoercedValues
		s.log.WithFields(logrus.Fields{"table": table.Name, "count": res.CoercedValues, "policy": s.opts.NumericPolicy}).
			Warn("non-numeric amounts coerced")
	}
	return res.Rows, nil
}

// enrichHSN is best effort: a master that cannot be loaded only costs descriptions.
func (s *reportService) enrichHSN(ctx context.Context, buckets []domain.HSNBucket, log logrus.FieldLogger) []domain.HSNRateMismatch {
	if s.hsnRepo == nil {
		return nil
	}
	entries, err := s.hsnRepo.LoadAll(ctx)
	if err != nil {
		log.WithError(fmt.Errorf("%w: %v", domain.ErrHSNMasterUnavailable, err)).Warn("skipping HSN enrichment")
		return nil
	}
	mismatches := gst.NewHSNLookup(entries).Enrich(buckets)
	for _, m := range mismatches {
		log.WithFields(logrus.Fields{"hsn": m.HSNCode, "rate": m.Rate, "valid_rates": m.ValidRates}).
			Warn("GST rate not listed for HSN code")
	}
	return mismatches
}

func (s *reportService) emit(ctx context.Context, result *domain.RunResult, renderer filing.Renderer) error {
	tmpl, err := s.templates.Fetch(ctx)
	if err != nil {
		return err
	}
	combo, err := workbook.WriteCombo(tmpl, result.Rows, workbook.ComboOptions{
		SourceLabel:       s.opts.SourceLabel,
		SupplierRefCell:   s.opts.SupplierRefCell,
		SupplierCanonical: s.opts.Resolver.ByCode(result.Header.SupplierCode),
		LiveFormulas:      s.opts.LiveFormulas,
	})
	if err != nil {
		return err
	}

	b2cs, err := csvexport.RenderB2CS(result.B2CS, s.opts.CSVBOM)
	if err != nil {
		return fmt.Errorf("rendering B2CS summary: %w", err)
	}
	hsnCSV, err := csvexport.RenderHSN(result.HSN, s.opts.CSVBOM)
	if err != nil {
		return fmt.Errorf("rendering HSN summary: %w", err)
	}
	hsnXLSX, err := workbook.WriteHSNSummary(result.HSN)
	if err != nil {
		return err
	}
	payload, err := renderer.Render(filing.Input{Header: result.Header, B2CS: result.B2CS, HSN: result.HSN})
	if err != nil {
		return err
	}

	base := result.Header.BaseName()
	result.Artifacts = []domain.Artifact{
		{Kind: domain.ArtifactCombo, FileName: base + ".xlsx", ContentType: domain.ContentTypeXLSX, Content: combo},
		{Kind: domain.ArtifactB2CSCSV, FileName: domain.B2CSFileName, ContentType: domain.ContentTypeCSV, Content: b2cs},
		{Kind: domain.ArtifactHSNCSV, FileName: domain.HSNCSVFileName, ContentType: domain.ContentTypeCSV, Content: hsnCSV},
		{Kind: domain.ArtifactHSNXLSX, FileName: domain.HSNXLSXFileName, ContentType: domain.ContentTypeXLSX, Content: hsnXLSX},
		{Kind: domain.ArtifactFilingJSON, FileName: base + ".json", ContentType: domain.ContentTypeJSON, Content: payload},
	}
	return nil
}

// archiveArtifacts uploads every artifact under prefix/gstin/fp/run_id and attaches presigned URLs.
func (s *reportService) archiveArtifacts(ctx context.Context, result *domain.RunResult) error {
	dir := path.Join(s.opts.Prefix, result.Header.GSTIN, result.Header.FilingPeriod(), result.RunID.String())
	for i := range result.Artifacts {
		a := &result.Artifacts[i]
		key := path.Join(dir, a.FileName)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.opts.Bucket,
			Key:         key,
			Body:        bytes.NewReader(a.Content),
			ContentType: a.ContentType,
			Size:        int64(len(a.Content)),
		})
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, a.FileName, err)
		}
		url, err := s.storage.GetPresignedURL(ctx, s.opts.Bucket, key, s.opts.PresignExpiry)
		if err != nil {
			return fmt.Errorf("%w: presigning %s: %v", domain.ErrUploadFailed, a.FileName, err)
		}
		a.URL = url
	}
	return nil
}

func notification(result *domain.RunResult) port.ReportNotification {
	n := port.ReportNotification{
		GSTIN:          result.Header.GSTIN,
		FilingPeriod:   result.Header.FilingPeriod(),
		RunID:          result.RunID.String(),
		RowCount:       len(result.Rows),
		UnmappedStates: result.Diagnostics.UnmappedStates,
		ReturnsMissing: result.Diagnostics.ReturnsMissing,
	}
	for _, a := range result.Artifacts {
		n.Links = append(n.Links, port.ReportLink{FileName: a.FileName, URL: a.URL})
	}
	return n
}

// IsClientError reports whether err was caused by the uploaded input rather than the service.
func IsClientError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidArchive,
		domain.ErrSalesFileMissing,
		domain.ErrMissingColumn,
		domain.ErrMalformedInput,
		domain.ErrInvalidGSTIN,
		domain.ErrInvalidPeriod,
		domain.ErrUnknownSchemaVersion,
		domain.ErrFileTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
