package app

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstr1/internal/config"
	"gstr1/internal/domain"
	"gstr1/internal/gst"
)

func baseConfig() *config.Config {
	return &config.Config{
		Template: config.TemplateConfig{URL: "https://example.test/template.xlsx"},
		GST: config.GSTConfig{
			StateNormalization: "casefold",
			NumericPolicy:      "null",
			SchemaVersion:      "GST3.0.4",
			GSTINCell:          "C2",
			MonthCell:          "P2",
			YearCell:           "O2",
			SupplierRefCell:    "X22",
			SourceLabel:        "Meesho",
		},
		S3:    config.S3Config{Bucket: "b", Prefix: "reports", PresignExpiry: 60},
		Email: config.EmailConfig{Provider: "noop"},
	}
}

func TestReportOptions(t *testing.T) {
	opts, err := reportOptions(baseConfig())
	require.NoError(t, err)

	assert.Equal(t, gst.NormalizeCaseFold, opts.Resolver.Strategy())
	assert.Equal(t, gst.NumericNull, opts.NumericPolicy)
	assert.Equal(t, "GST3.0.4", opts.SchemaVersion)
	assert.Equal(t, "P2", opts.HeaderCells.Month)
	assert.Equal(t, "reports", opts.Prefix)
	assert.Equal(t, int64(60), opts.PresignExpiry)
}

func TestReportOptions_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"strategy", func(c *config.Config) { c.GST.StateNormalization = "soundex" }},
		{"numeric policy", func(c *config.Config) { c.GST.NumericPolicy = "nan" }},
		{"schema", func(c *config.Config) { c.GST.SchemaVersion = "GST9" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			_, err := reportOptions(cfg)
			assert.Error(t, err)
		})
	}
	cfg := baseConfig()
	cfg.GST.SchemaVersion = "GST9"
	_, err := reportOptions(cfg)
	assert.ErrorIs(t, err, domain.ErrUnknownSchemaVersion)
}

func TestNew_NoBackends(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	a, err := New(context.Background(), baseConfig(), logger, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Reports)
	assert.Empty(t, a.Checks)
}

func TestNew_UnknownEmailProvider(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := baseConfig()
	cfg.Email.Provider = "carrier-pigeon"

	_, err := New(context.Background(), cfg, logger, Options{})
	assert.ErrorContains(t, err, "carrier-pigeon")

	_, err = New(context.Background(), cfg, logger, Options{DisableEmail: true})
	assert.NoError(t, err)
}

func TestNew_S3TemplateNeedsStorage(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	cfg := baseConfig()
	cfg.Template.URL = "s3://templates/combo.xlsx"

	_, err := New(context.Background(), cfg, logger, Options{})
	assert.Error(t, err)
}
