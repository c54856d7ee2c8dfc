package storage

import (
	"fmt"

	"github.com/freundallein/blogs/backend/catalog"
)

// Source kinds
const (
	KindFile     = "file"
	KindS3       = "s3"
	KindPostgres = "postgres"
)

// Config - unified configuration for dataset sources
type Config struct {
	Kind string

	// file
	Path string

	// s3
	Bucket             string
	Key                string
	Region             string
	CredentialsFile    string
	CredentialsProfile string

	// postgres
	DSN   string
	Query string
}

// InitSource builds the source selected by cfg.Kind.
func InitSource(cfg Config) (catalog.Source, error) {
	switch cfg.Kind {
	case KindFile, "":
		return NewFileSource(cfg.Path), nil
	case KindS3:
		src, err := InitS3Source(cfg)
		if err != nil {
			return nil, err
		}
		return src, nil
	case KindPostgres:
		src, err := InitPGSource(cfg)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
