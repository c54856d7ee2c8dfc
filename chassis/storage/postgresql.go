package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	log "github.com/freundallein/blogs/backend/chassis/logging"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PGSource assembles the dataset from a single json/jsonb column, in query order.
type PGSource struct {
	Query string
	dsn   string
	db    querier
}

// InitPGSource - the pool is opened lazily by Read.
func InitPGSource(cfg Config) (*PGSource, error) {
	if _, err := pgxpool.ParseConfig(cfg.DSN); err != nil {
		return nil, err
	}
	return &PGSource{
		Query: cfg.Query,
		dsn:   cfg.DSN,
	}, nil
}

// Name ...
func (s *PGSource) Name() string {
	return "postgres"
}

// Read ...
func (s *PGSource) Read(ctx context.Context) ([]byte, error) {
	db := s.db
	if db == nil {
		poolConfig, err := pgxpool.ParseConfig(s.dsn)
		if err != nil {
			return nil, err
		}
		pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
		if err != nil {
			return nil, describe(err)
		}
		// The dataset is read once, the pool is not needed afterwards.
		defer pool.Close()
		db = pool
	}
	rows, err := db.Query(ctx, s.Query)
	if err != nil {
		return nil, describe(err)
	}
	defer rows.Close()

	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, describe(err)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		if raw == nil {
			raw = []byte("null")
		}
		buf.Write(raw)
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, describe(err)
	}
	buf.WriteByte(']')
	log.WithFields(log.Fields{
		"event":  "read_dataset",
		"source": "postgres",
		"rows":   n,
	}).Debug(s.Query)
	return buf.Bytes(), nil
}

func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		log.WithFields(log.Fields{
			"event":    "postgres_error",
			"sqlstate": pgErr.Code,
		}).Error(pgErr.Message)
		return fmt.Errorf("postgres %s: %w", pgErr.Code, err)
	}
	return err
}
