package repository

import (
	"database/sql"
	"errors"

	"github.com/obra-social-dev/escala/backend/internal/config"
)

// Named conditions callers are expected to react to individually, as
// opposed to storage failures that bubble up unchanged.
var (
	ErrDuplicateBatch  = errors.New("a schedule batch already exists for this period")
	ErrBatchPublished  = errors.New("schedule batch is already published")
	ErrRequestResolved = errors.New("substitution request is already resolved")
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
