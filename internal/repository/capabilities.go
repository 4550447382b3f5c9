package repository

import (
	"context"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

func (r *Repository) GetAllCapabilities() ([]*domain.Capability, error) {
	query := `
		SELECT id, worker_id, service_type_id, experience, priority_weight, is_active, created_at, version
		FROM capabilities ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	capabilities := make([]*domain.Capability, 0)
	for rows.Next() {
		c := &domain.Capability{}
		dst := []any{&c.ID, &c.WorkerID, &c.ServiceTypeID, &c.Experience, &c.PriorityWeight, &c.IsActive, &c.CreatedAt, &c.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		capabilities = append(capabilities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return capabilities, nil
}

func (r *Repository) CreateCapability(c *domain.Capability) error {
	query := `
		INSERT INTO capabilities (worker_id, service_type_id, experience, priority_weight, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{c.WorkerID, c.ServiceTypeID, c.Experience, c.PriorityWeight, c.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteCapability(id int64) error {
	query := `
		DELETE FROM capabilities WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
