package repository

import (
	"context"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

func (r *Repository) GetAllDateRestrictions() ([]*domain.DateRestriction, error) {
	query := `
		SELECT id, worker_id, date, reason, is_active, created_at, version
		FROM date_restrictions ORDER BY date, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restrictions := make([]*domain.DateRestriction, 0)
	for rows.Next() {
		dr := &domain.DateRestriction{}
		dst := []any{&dr.ID, &dr.WorkerID, &dr.Date, &dr.Reason, &dr.IsActive, &dr.CreatedAt, &dr.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		restrictions = append(restrictions, dr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return restrictions, nil
}

func (r *Repository) CreateDateRestriction(dr *domain.DateRestriction) error {
	query := `
		INSERT INTO date_restrictions (worker_id, date, reason, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{dr.WorkerID, dr.Date, dr.Reason, dr.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&dr.ID, &dr.CreatedAt, &dr.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteDateRestriction(id int64) error {
	query := `
		DELETE FROM date_restrictions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
