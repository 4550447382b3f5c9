package repository

import (
	"context"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

// GetAllFixedRoles returns pins in ascending id order; the engine relies on
// this being creation order when duplicate active pins exist.
func (r *Repository) GetAllFixedRoles() ([]*domain.FixedRole, error) {
	query := `
		SELECT id, worker_id, service_type_id, role_label, is_active, created_at, version
		FROM fixed_roles ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixedRoles := make([]*domain.FixedRole, 0)
	for rows.Next() {
		fr := &domain.FixedRole{}
		dst := []any{&fr.ID, &fr.WorkerID, &fr.ServiceTypeID, &fr.RoleLabel, &fr.IsActive, &fr.CreatedAt, &fr.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		fixedRoles = append(fixedRoles, fr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fixedRoles, nil
}

// CheckActiveFixedRoleExists guards the data-integrity expectation of at
// most one active pin per service type.
func (r *Repository) CheckActiveFixedRoleExists(serviceTypeID int64) (bool, error) {
	exists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM fixed_roles WHERE service_type_id = $1 AND is_active = TRUE)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, serviceTypeID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) CreateFixedRole(fr *domain.FixedRole) error {
	query := `
		INSERT INTO fixed_roles (worker_id, service_type_id, role_label, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{fr.WorkerID, fr.ServiceTypeID, fr.RoleLabel, fr.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&fr.ID, &fr.CreatedAt, &fr.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteFixedRole(id int64) error {
	query := `
		DELETE FROM fixed_roles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
