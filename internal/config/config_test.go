package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sanctuary/internal/blob"
	"sanctuary/internal/housing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sanctuary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel())
	require.Equal(t, housing.AccountingRestore, cfg.Accounting())
	require.Equal(t, blob.DriverFilesystem, cfg.BlobStore().Driver)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
isolation:
  accounting: legacy
blob:
  driver: s3
  s3:
    bucket: reports
    endpoint: http://minio:9000
    path_style: true
report:
  prefix: nightly
`)
	t.Setenv("SANCTUARY_BLOB_S3_BUCKET", "from-env")
	t.Setenv("SANCTUARY_TRACING_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel())
	require.Equal(t, housing.AccountingLegacy, cfg.Accounting())
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "stdout", cfg.Tracing.Exporter)
	require.Equal(t, "nightly", cfg.Report.Prefix)

	store := cfg.BlobStore()
	require.Equal(t, blob.DriverS3, store.Driver)
	require.Equal(t, "from-env", store.S3.Bucket, "environment overrides the file")
	require.Equal(t, "http://minio:9000", store.S3.Endpoint)
	require.True(t, store.S3.PathStyle)
	require.Equal(t, "us-east-1", store.S3.Region)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = "loud"
	cfg.Isolation.Accounting = "double"
	cfg.Blob.Driver = "tape"
	cfg.Tracing.Exporter = "jaeger"
	cfg.Report.Prefix = " "
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"log.level", "isolation.accounting", "blob.driver", "tracing.exporter", "report.prefix"} {
		require.ErrorContains(t, err, want)
	}

	cfg = Defaults()
	cfg.Blob.Driver = "s3"
	require.ErrorContains(t, cfg.Validate(), "blob.s3.bucket")
}

func TestEnvironmentRejectsBadValue(t *testing.T) {
	t.Setenv("SANCTUARY_ISOLATION_ACCOUNTING", "double")
	_, err := Load("")
	require.ErrorContains(t, err, "isolation.accounting")
}

func TestTracingExporterFromEnvironment(t *testing.T) {
	t.Setenv("SANCTUARY_TRACING_EXPORTER", "none")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "none", cfg.Tracing.Exporter)

	t.Setenv("SANCTUARY_TRACING_EXPORTER", "zipkin")
	_, err = Load("")
	require.ErrorContains(t, err, "tracing.exporter")
}
