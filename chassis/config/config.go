package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Catalog sources
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// AppConfig ...
type AppConfig struct {
	LogLevel string `yaml:"loglevel" validate:"omitempty,oneof=error warn info debug"`
	HTTP     struct {
		Addr            string `yaml:"addr" validate:"required"`
		ReadTimeout     int    `yaml:"readTimeout" validate:"gte=0"`
		WriteTimeout    int    `yaml:"writeTimeout" validate:"gte=0"`
		IdleTimeout     int    `yaml:"idleTimeout" validate:"gte=0"`
		ShutdownTimeout int    `yaml:"shutdownTimeout" validate:"gte=0"`
	}
	Metrics struct {
		Addr string `yaml:"addr"`
	}
	Storage struct {
		DSN string `yaml:"dsn"`
	}
	AWS struct {
		Region             string `yaml:"region"`
		CredentialsFile    string `yaml:"credentialsFile"`
		CredentialsProfile string `yaml:"credentialsProfile"`
	}
	Catalog struct {
		Source string `yaml:"source" validate:"oneof=file s3 postgres"`
		Path   string `yaml:"path"`
		S3     struct {
			Bucket string `yaml:"bucket"`
			Key    string `yaml:"key"`
		}
		Postgres struct {
			Query string `yaml:"query"`
		}
	}
}

func defaults() *AppConfig {
	cfg := &AppConfig{LogLevel: "info"}
	cfg.HTTP.Addr = ":8000"
	cfg.HTTP.ReadTimeout = 5
	cfg.HTTP.WriteTimeout = 10
	cfg.HTTP.IdleTimeout = 60
	cfg.HTTP.ShutdownTimeout = 5
	cfg.Metrics.Addr = ":2112"
	cfg.Catalog.Source = SourceFile
	cfg.Catalog.Path = "blogs.json"
	cfg.Catalog.Postgres.Query = "select data from t_blog order by id"
	return cfg
}

// Read loads the YAML file named by CFG_PATH. An unset CFG_PATH yields the defaults.
func Read() (*AppConfig, error) {
	filename := os.Getenv("CFG_PATH")
	if filename == "" {
		cfg := defaults()
		return cfg, cfg.Validate()
	}
	buff, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(buff)
}

// Parse decodes a YAML document on top of the defaults and validates the result.
func Parse(buff []byte) (*AppConfig, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(buff, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ...
func (cfg *AppConfig) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch cfg.Catalog.Source {
	case SourceFile:
		if cfg.Catalog.Path == "" {
			return fmt.Errorf("invalid config: catalog.path is required for %q source", SourceFile)
		}
	case SourceS3:
		if cfg.Catalog.S3.Bucket == "" || cfg.Catalog.S3.Key == "" {
			return fmt.Errorf("invalid config: catalog.s3.bucket and catalog.s3.key are required for %q source", SourceS3)
		}
	case SourcePostgres:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("invalid config: storage.dsn is required for %q source", SourcePostgres)
		}
	}
	return nil
}
