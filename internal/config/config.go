package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTemplateURL is the published combo workbook template.
const DefaultTemplateURL = "https://raw.githubusercontent.com/Biswa-hack/Messo_GST/main/MESSO%20GST%20Template.xlsx"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	CORS     CORSConfig
	Template TemplateConfig
	GST      GSTConfig
	S3       S3Config
	Email    EmailConfig
	DB       DBConfig
	Redis    RedisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TemplateConfig locates the combo workbook template.
type TemplateConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// GSTConfig holds report generation settings.
type GSTConfig struct {
	StateNormalization string `mapstructure:"state_normalization"`
	NumericPolicy      string `mapstructure:"numeric_policy"`
	SchemaVersion      string `mapstructure:"schema_version"`
	SourceLabel        string `mapstructure:"source_label"`
	LiveFormulas       bool   `mapstructure:"live_formulas"`
	SupplierRefCell    string `mapstructure:"supplier_ref_cell"`
	GSTINCell          string `mapstructure:"gstin_cell"`
	MonthCell          string `mapstructure:"month_cell"`
	YearCell           string `mapstructure:"year_cell"`
	CSVBOM             bool   `mapstructure:"csv_bom"`
}

// S3Config holds AWS S3 settings for archiving artifacts.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// DBConfig holds PostgreSQL connection settings for the HSN master.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the template cache connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads configuration from environment variables with the GSTR1_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("GSTR1")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 100)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Template defaults
	v.SetDefault("template.url", DefaultTemplateURL)
	v.SetDefault("template.timeout", "30s")
	v.SetDefault("template.cache_ttl", "1h")

	// GST defaults
	v.SetDefault("gst.state_normalization", "title")
	v.SetDefault("gst.numeric_policy", "zero")
	v.SetDefault("gst.schema_version", "GST3.2.3")
	v.SetDefault("gst.source_label", "Meesho")
	v.SetDefault("gst.live_formulas", false)
	v.SetDefault("gst.supplier_ref_cell", "X22")
	v.SetDefault("gst.gstin_cell", "C2")
	v.SetDefault("gst.month_cell", "P2")
	v.SetDefault("gst.year_cell", "O2")
	v.SetDefault("gst.csv_bom", false)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "gstr1-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "reports")
	v.SetDefault("s3.presign_expiry", 86400)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@gstr1.local")
	v.SetDefault("email.from_name", "GSTR-1 Reports")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstr1")
	v.SetDefault("db.password", "gstr1_secret")
	v.SetDefault("db.name", "gstr1_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "GSTR1_SERVER_PORT",
		"server.read_timeout":     "GSTR1_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "GSTR1_SERVER_WRITE_TIMEOUT",
		"server.environment":      "GSTR1_SERVER_ENVIRONMENT",
		"server.max_upload_mb":    "GSTR1_SERVER_MAX_UPLOAD_MB",
		"log.level":               "GSTR1_LOG_LEVEL",
		"log.format":              "GSTR1_LOG_FORMAT",
		"cors.allowed_origins":    "GSTR1_CORS_ALLOWED_ORIGINS",
		"template.url":            "GSTR1_TEMPLATE_URL",
		"template.timeout":        "GSTR1_TEMPLATE_TIMEOUT",
		"template.cache_ttl":      "GSTR1_TEMPLATE_CACHE_TTL",
		"gst.state_normalization": "GSTR1_GST_STATE_NORMALIZATION",
		"gst.numeric_policy":      "GSTR1_GST_NUMERIC_POLICY",
		"gst.schema_version":      "GSTR1_GST_SCHEMA_VERSION",
		"gst.source_label":        "GSTR1_GST_SOURCE_LABEL",
		"gst.live_formulas":       "GSTR1_GST_LIVE_FORMULAS",
		"gst.supplier_ref_cell":   "GSTR1_GST_SUPPLIER_REF_CELL",
		"gst.gstin_cell":          "GSTR1_GST_GSTIN_CELL",
		"gst.month_cell":          "GSTR1_GST_MONTH_CELL",
		"gst.year_cell":           "GSTR1_GST_YEAR_CELL",
		"gst.csv_bom":             "GSTR1_GST_CSV_BOM",
		"s3.enabled":              "GSTR1_S3_ENABLED",
		"s3.region":               "GSTR1_S3_REGION",
		"s3.bucket":               "GSTR1_S3_BUCKET",
		"s3.endpoint":             "GSTR1_S3_ENDPOINT",
		"s3.access_key":           "GSTR1_S3_ACCESS_KEY",
		"s3.secret_key":           "GSTR1_S3_SECRET_KEY",
		"s3.prefix":               "GSTR1_S3_PREFIX",
		"s3.presign_expiry":       "GSTR1_S3_PRESIGN_EXPIRY",
		"email.provider":          "GSTR1_EMAIL_PROVIDER",
		"email.region":            "GSTR1_EMAIL_REGION",
		"email.from_address":      "GSTR1_EMAIL_FROM_ADDRESS",
		"email.from_name":         "GSTR1_EMAIL_FROM_NAME",
		"db.enabled":              "GSTR1_DB_ENABLED",
		"db.host":                 "GSTR1_DB_HOST",
		"db.port":                 "GSTR1_DB_PORT",
		"db.user":                 "GSTR1_DB_USER",
		"db.password":             "GSTR1_DB_PASSWORD",
		"db.name":                 "GSTR1_DB_NAME",
		"db.sslmode":              "GSTR1_DB_SSLMODE",
		"db.max_open":             "GSTR1_DB_MAX_OPEN",
		"db.max_idle":             "GSTR1_DB_MAX_IDLE",
		"redis.addr":              "GSTR1_REDIS_ADDR",
		"redis.password":          "GSTR1_REDIS_PASSWORD",
		"redis.db":                "GSTR1_REDIS_DB",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GSTR1_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTR1_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Template = TemplateConfig{
		URL:      v.GetString("template.url"),
		Timeout:  v.GetDuration("template.timeout"),
		CacheTTL: v.GetDuration("template.cache_ttl"),
	}
	cfg.GST = GSTConfig{
		StateNormalization: v.GetString("gst.state_normalization"),
		NumericPolicy:      v.GetString("gst.numeric_policy"),
		SchemaVersion:      v.GetString("gst.schema_version"),
		SourceLabel:        v.GetString("gst.source_label"),
		LiveFormulas:       v.GetBool("gst.live_formulas"),
		SupplierRefCell:    v.GetString("gst.supplier_ref_cell"),
		GSTINCell:          v.GetString("gst.gstin_cell"),
		MonthCell:          v.GetString("gst.month_cell"),
		YearCell:           v.GetString("gst.year_cell"),
		CSVBOM:             v.GetBool("gst.csv_bom"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		Prefix:        strings.Trim(v.GetString("s3.prefix"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}

	return cfg, nil
}
