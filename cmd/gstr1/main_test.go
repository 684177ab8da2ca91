package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstr1/internal/domain"
	"gstr1/internal/service"
	"gstr1/mocks"
)

func writeArchive(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "meesho.zip")
	require.NoError(t, os.WriteFile(p, []byte("PK"), 0o644))
	return p
}

func TestRun_WritesArtifacts(t *testing.T) {
	svc := new(mocks.MockReportService)
	logger, _ := logtest.NewNullLogger()
	archivePath := writeArchive(t)
	outDir := filepath.Join(t.TempDir(), "out")

	svc.On("Generate", mock.Anything, mock.MatchedBy(func(in service.GenerateInput) bool {
		return in.ArchiveName == "meesho.zip" && in.SchemaVersion == "GST3.0.4"
	})).Return(&domain.RunResult{
		RunID:  uuid.New(),
		Header: domain.FilingHeader{GSTIN: "27ABCDE1234F1Z5", Month: "04", Year: "2025"},
		Artifacts: []domain.Artifact{
			{FileName: domain.B2CSFileName, Content: []byte("Type\n")},
		},
		Diagnostics: domain.Diagnostics{ReturnsMissing: true, UnmappedStates: []string{"Atlantis"}},
	}, nil)

	var out bytes.Buffer
	code := run(context.Background(), []string{"-schema", "GST3.0.4", archivePath, outDir}, svc, logger, &out)

	assert.Equal(t, exitOK, code)
	content, err := os.ReadFile(filepath.Join(outDir, domain.B2CSFileName))
	require.NoError(t, err)
	assert.Equal(t, "Type\n", string(content))
	assert.Contains(t, out.String(), "period 042025")
	assert.Contains(t, out.String(), "no returns file")
	assert.Contains(t, out.String(), "unmapped states: Atlantis")
}

func TestRun_ExitCodes(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	t.Run("usage", func(t *testing.T) {
		var out bytes.Buffer
		assert.Equal(t, exitInputError, run(context.Background(), nil, new(mocks.MockReportService), logger, &out))
		assert.Contains(t, out.String(), "Usage")
	})

	t.Run("missing archive", func(t *testing.T) {
		var out bytes.Buffer
		code := run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.zip")}, new(mocks.MockReportService), logger, &out)
		assert.Equal(t, exitInputError, code)
	})

	t.Run("bad input", func(t *testing.T) {
		svc := new(mocks.MockReportService)
		svc.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrSalesFileMissing)
		var out bytes.Buffer
		assert.Equal(t, exitInputError, run(context.Background(), []string{writeArchive(t)}, svc, logger, &out))
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(mocks.MockReportService)
		svc.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrTemplateUnavailable)
		var out bytes.Buffer
		assert.Equal(t, exitFailure, run(context.Background(), []string{writeArchive(t)}, svc, logger, &out))
	})
}
