package handler_test

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstr1/internal/domain"
	"gstr1/internal/handler"
	"gstr1/internal/service"
	"gstr1/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type summaryResponse struct {
	Success bool               `json:"success"`
	Data    handler.RunSummary `json:"data"`
	Error   *handler.APIError  `json:"error"`
}

func uploadRequest(t *testing.T, url, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		part, err := writer.CreateFormFile("archive", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func sampleResult() *domain.RunResult {
	return &domain.RunResult{
		RunID:         uuid.New(),
		Header:        domain.FilingHeader{GSTIN: "27ABCDE1234F1Z5", Month: "04", Year: "2025", SupplierCode: "27"},
		SchemaVersion: "GST3.2.3",
		SalesCount:    3,
		ReturnsCount:  1,
		B2CS:          make([]domain.B2CSBucket, 2),
		HSN:           make([]domain.HSNBucket, 1),
		Artifacts: []domain.Artifact{
			{Kind: domain.ArtifactB2CSCSV, FileName: domain.B2CSFileName, ContentType: domain.ContentTypeCSV, Content: []byte("Type\n")},
			{Kind: domain.ArtifactFilingJSON, FileName: "27ABCDE1234F1Z5_04_2025_GSTR1.json", ContentType: domain.ContentTypeJSON, Content: []byte("{}"), URL: "https://example.test/x.json"},
		},
		Diagnostics: domain.Diagnostics{UnmappedStates: []string{"Atlantis"}},
		GeneratedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestReportHandler_Generate_Success(t *testing.T) {
	svc := new(mocks.MockReportService)
	h := handler.NewReportHandler(svc, 10)
	result := sampleResult()

	svc.On("Generate", mock.Anything, mock.MatchedBy(func(in service.GenerateInput) bool {
		return in.ArchiveName == "meesho.zip" &&
			string(in.Archive) == "PK-bytes" &&
			in.SchemaVersion == "GST3.0.4" &&
			in.NotifyEmail == "ops@example.test"
	})).Return(result, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = uploadRequest(t, "/api/v1/gstr1/reports", "meesho.zip", []byte("PK-bytes"), map[string]string{
		"schema_version": " GST3.0.4 ",
		"notify_email":   "ops@example.test",
	})

	h.Generate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, result.RunID.String(), w.Header().Get("X-Run-ID"))

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, result.RunID, resp.Data.RunID)
	assert.Equal(t, "042025", resp.Data.FilingPeriod)
	assert.Equal(t, 3, resp.Data.SalesCount)
	assert.Equal(t, 1, resp.Data.ReturnsCount)
	assert.Equal(t, 2, resp.Data.B2CSBuckets)
	assert.Equal(t, 1, resp.Data.HSNBuckets)
	assert.Equal(t, []string{"Atlantis"}, resp.Data.Diagnostics.UnmappedStates)
	require.Len(t, resp.Data.Artifacts, 2)
	assert.Equal(t, 5, resp.Data.Artifacts[0].Size)
	assert.Empty(t, resp.Data.Artifacts[0].Content)
	assert.Equal(t, "https://example.test/x.json", resp.Data.Artifacts[1].URL)
	svc.AssertExpectations(t)
}

func TestReportHandler_Generate_Inline(t *testing.T) {
	svc := new(mocks.MockReportService)
	h := handler.NewReportHandler(svc, 10)
	svc.On("Generate", mock.Anything, mock.Anything).Return(sampleResult(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = uploadRequest(t, "/api/v1/gstr1/reports", "a.ZIP", []byte("PK"), map[string]string{"inline": "true"})

	h.Generate(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp summaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Artifacts, 2)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("Type\n")), resp.Data.Artifacts[0].Content)
}

func TestReportHandler_Generate_RejectsUpload(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		status   int
		code     string
	}{
		{"no file", "", http.StatusBadRequest, "MISSING_FILE"},
		{"wrong extension", "sales.xlsx", http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockReportService)
			h := handler.NewReportHandler(svc, 10)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = uploadRequest(t, "/api/v1/gstr1/reports", tt.fileName, []byte("data"), nil)

			h.Generate(c)

			assert.Equal(t, tt.status, w.Code)
			var resp handler.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestReportHandler_Generate_TooLarge(t *testing.T) {
	svc := new(mocks.MockReportService)
	h := handler.NewReportHandler(svc, 1)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = uploadRequest(t, "/api/v1/gstr1/reports", "big.zip", bytes.Repeat([]byte("x"), 2<<20), nil)

	h.Generate(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestReportHandler_Generate_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing column", domain.ErrMissingColumn, http.StatusUnprocessableEntity, "MISSING_COLUMN"},
		{"no sales file", domain.ErrSalesFileMissing, http.StatusUnprocessableEntity, "SALES_FILE_MISSING"},
		{"template down", domain.ErrTemplateUnavailable, http.StatusBadGateway, "TEMPLATE_UNAVAILABLE"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockReportService)
			h := handler.NewReportHandler(svc, 10)
			svc.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = uploadRequest(t, "/api/v1/gstr1/reports", "in.zip", []byte("PK"), nil)

			h.Generate(c)

			assert.Equal(t, tt.status, w.Code)
			var resp handler.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestReportHandler_Bundle(t *testing.T) {
	svc := new(mocks.MockReportService)
	h := handler.NewReportHandler(svc, 10)
	result := sampleResult()
	svc.On("Generate", mock.Anything, mock.Anything).Return(result, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = uploadRequest(t, "/api/v1/gstr1/reports/bundle", "in.zip", []byte("PK"), nil)

	h.Bundle(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ContentTypeZIP, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="27ABCDE1234F1Z5_04_2025_GSTR1.zip"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, result.RunID.String(), w.Header().Get("X-Run-ID"))

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, domain.B2CSFileName, zr.File[0].Name)
	assert.Equal(t, "27ABCDE1234F1Z5_04_2025_GSTR1.json", zr.File[1].Name)
}
