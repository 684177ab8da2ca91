package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstr1/internal/archive"
	"gstr1/internal/domain"
	"gstr1/internal/service"
)

// ReportHandler handles GSTR-1 report generation endpoints.
type ReportHandler struct {
	reportService  service.ReportService
	maxUploadBytes int64
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, maxUploadMB int64) *ReportHandler {
	return &ReportHandler{reportService: reportService, maxUploadBytes: maxUploadMB << 20}
}

// RunSummary is the JSON view of a finished run.
type RunSummary struct {
	RunID         uuid.UUID           `json:"run_id"`
	Header        domain.FilingHeader `json:"header"`
	FilingPeriod  string              `json:"filing_period"`
	SchemaVersion string              `json:"schema_version"`
	SalesCount    int                 `json:"sales_count"`
	ReturnsCount  int                 `json:"returns_count"`
	B2CSBuckets   int                 `json:"b2cs_buckets"`
	HSNBuckets    int                 `json:"hsn_buckets"`
	Artifacts     []ArtifactSummary   `json:"artifacts"`
	Diagnostics   domain.Diagnostics  `json:"diagnostics"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// ArtifactSummary describes one emitted file. Content is base64 and only set when inline output was requested.
type ArtifactSummary struct {
	Kind        domain.ArtifactKind `json:"kind"`
	FileName    string              `json:"file_name"`
	ContentType string              `json:"content_type"`
	Size        int                 `json:"size"`
	URL         string              `json:"url,omitempty"`
	Content     string              `json:"content,omitempty"`
}

// NewRunSummary builds the response body for a run.
func NewRunSummary(r *domain.RunResult, inline bool) RunSummary {
	s := RunSummary{
		RunID:         r.RunID,
		Header:        r.Header,
		FilingPeriod:  r.Header.FilingPeriod(),
		SchemaVersion: r.SchemaVersion,
		SalesCount:    r.SalesCount,
		ReturnsCount:  r.ReturnsCount,
		B2CSBuckets:   len(r.B2CS),
		HSNBuckets:    len(r.HSN),
		Artifacts:     make([]ArtifactSummary, 0, len(r.Artifacts)),
		Diagnostics:   r.Diagnostics,
		GeneratedAt:   r.GeneratedAt,
	}
	for _, a := range r.Artifacts {
		as := ArtifactSummary{
			Kind:        a.Kind,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			Size:        len(a.Content),
			URL:         a.URL,
		}
		if inline {
			as.Content = base64.StdEncoding.EncodeToString(a.Content)
		}
		s.Artifacts = append(s.Artifacts, as)
	}
	return s
}

// Generate handles POST /api/v1/gstr1/reports
// @Summary Generate GSTR-1 reports
// @Description Upload a marketplace ZIP (sales and optional returns extract) and generate the combo workbook, B2CS and HSN summaries and the GSTR-1 JSON.
// @Tags gstr1
// @Accept multipart/form-data
// @Produce json
// @Param archive formData file true "ZIP archive with the sales and returns extracts"
// @Param schema_version formData string false "Filing schema version (GST3.2.3 or GST3.0.4)"
// @Param notify_email formData string false "Address to notify when the reports are ready"
// @Param inline formData bool false "Include artifact content as base64"
// @Success 201 {object} Response{data=RunSummary} "Reports generated"
// @Failure 400 {object} ErrorResponseBody "Missing or invalid archive"
// @Failure 413 {object} ErrorResponseBody "Archive too large"
// @Failure 422 {object} ErrorResponseBody "Archive content could not be processed"
// @Failure 502 {object} ErrorResponseBody "Template unavailable"
// @Router /gstr1/reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	input, ok := h.readInput(c)
	if !ok {
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	inline, _ := strconv.ParseBool(c.DefaultPostForm("inline", "false"))
	c.Header("X-Run-ID", result.RunID.String())
	RespondCreated(c, NewRunSummary(result, inline))
}

// Bundle handles POST /api/v1/gstr1/reports/bundle
// @Summary Generate GSTR-1 reports as a ZIP
// @Description Same input as the JSON endpoint; responds with every artifact packed into one ZIP.
// @Tags gstr1
// @Accept multipart/form-data
// @Produce application/zip
// @Param archive formData file true "ZIP archive with the sales and returns extracts"
// @Param schema_version formData string false "Filing schema version (GST3.2.3 or GST3.0.4)"
// @Param notify_email formData string false "Address to notify when the reports are ready"
// @Success 200 {file} binary "ZIP of all artifacts"
// @Failure 400 {object} ErrorResponseBody "Missing or invalid archive"
// @Failure 422 {object} ErrorResponseBody "Archive content could not be processed"
// @Router /gstr1/reports/bundle [post]
func (h *ReportHandler) Bundle(c *gin.Context) {
	input, ok := h.readInput(c)
	if !ok {
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := archive.Pack(result.Artifacts)
	if err != nil {
		HandleError(c, fmt.Errorf("packing artifacts: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, result.Header.BaseName()))
	c.Header("X-Run-ID", result.RunID.String())
	c.Data(http.StatusOK, domain.ContentTypeZIP, data)
}

// readInput validates the multipart upload. It writes the error response itself and reports ok=false on failure.
func (h *ReportHandler) readInput(c *gin.Context) (service.GenerateInput, bool) {
	var input service.GenerateInput
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, header, err := c.Request.FormFile("archive")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			HandleError(c, domain.ErrFileTooLarge)
			return input, false
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "archive field is required")
		return input, false
	}
	defer func() { _ = file.Close() }()

	if !strings.EqualFold(path.Ext(header.Filename), ".zip") {
		HandleError(c, domain.ErrUnsupportedFileType)
		return input, false
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return input, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return input, false
	}

	input.ArchiveName = header.Filename
	input.Archive = data
	input.SchemaVersion = strings.TrimSpace(c.PostForm("schema_version"))
	input.NotifyEmail = strings.TrimSpace(c.PostForm("notify_email"))
	return input, true
}
