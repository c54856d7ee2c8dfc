package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Should apply defaults to an empty document", func(t *testing.T) {
		cfg, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, ":8000", cfg.HTTP.Addr)
		assert.Equal(t, ":2112", cfg.Metrics.Addr)
		assert.Equal(t, SourceFile, cfg.Catalog.Source)
		assert.Equal(t, "blogs.json", cfg.Catalog.Path)
	})

	t.Run("Should override defaults from yaml", func(t *testing.T) {
		doc := `
loglevel: debug
http:
  addr: ":9000"
  shutdownTimeout: 2
catalog:
  source: s3
  s3:
    bucket: datasets
    key: blogs.json
aws:
  region: eu-west-1
`
		cfg, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ":9000", cfg.HTTP.Addr)
		assert.Equal(t, 2, cfg.HTTP.ShutdownTimeout)
		assert.Equal(t, 10, cfg.HTTP.WriteTimeout)
		assert.Equal(t, SourceS3, cfg.Catalog.Source)
		assert.Equal(t, "datasets", cfg.Catalog.S3.Bucket)
		assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	})

	t.Run("Should reject unknown source", func(t *testing.T) {
		_, err := Parse([]byte("catalog:\n  source: ftp\n"))
		assert.Error(t, err)
	})

	t.Run("Should reject unknown log level", func(t *testing.T) {
		_, err := Parse([]byte("loglevel: verbose\n"))
		assert.Error(t, err)
	})

	t.Run("Should require bucket and key for s3 source", func(t *testing.T) {
		_, err := Parse([]byte("catalog:\n  source: s3\n  s3:\n    bucket: datasets\n"))
		assert.Error(t, err)
	})

	t.Run("Should require dsn for postgres source", func(t *testing.T) {
		_, err := Parse([]byte("catalog:\n  source: postgres\n"))
		assert.Error(t, err)

		cfg, err := Parse([]byte("catalog:\n  source: postgres\nstorage:\n  dsn: postgresql://blogs@localhost/blogs\n"))
		require.NoError(t, err)
		assert.Equal(t, "select data from t_blog order by id", cfg.Catalog.Postgres.Query)
	})

	t.Run("Should reject negative timeouts", func(t *testing.T) {
		_, err := Parse([]byte("http:\n  readTimeout: -1\n"))
		assert.Error(t, err)
	})
}

func TestRead(t *testing.T) {
	t.Run("Should read file named by CFG_PATH", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("catalog:\n  path: /data/blogs.json\n"), 0o600))
		t.Setenv("CFG_PATH", path)

		cfg, err := Read()
		require.NoError(t, err)
		assert.Equal(t, "/data/blogs.json", cfg.Catalog.Path)
	})

	t.Run("Should fall back to defaults without CFG_PATH", func(t *testing.T) {
		t.Setenv("CFG_PATH", "")
		cfg, err := Read()
		require.NoError(t, err)
		assert.Equal(t, SourceFile, cfg.Catalog.Source)
	})

	t.Run("Should fail on missing file", func(t *testing.T) {
		t.Setenv("CFG_PATH", filepath.Join(t.TempDir(), "absent.yml"))
		_, err := Read()
		assert.Error(t, err)
	})
}
