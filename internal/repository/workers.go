package repository

import (
	"context"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, status, created_at, version
		FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		ID: id,
	}

	dst := []any{&worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.Status, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetWorkerByUsername(username string) (*domain.Worker, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, status, created_at, version
		FROM workers WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		Username: username,
	}

	dst := []any{&worker.ID, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.Status, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetAllWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, status, created_at, version
		FROM workers ORDER BY id
	`

	return r.queryWorkers(query)
}

// GetActiveWorkers feeds the allocation snapshot: only active workers take
// part in candidate selection.
func (r *Repository) GetActiveWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, status, created_at, version
		FROM workers WHERE status = 'active' ORDER BY id
	`

	return r.queryWorkers(query)
}

func (r *Repository) queryWorkers(query string) ([]*domain.Worker, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.Status, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) CreateWorker(worker *domain.Worker) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO workers (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, version
	`

	args := []any{worker.Username, worker.PasswordHash, worker.FullName, worker.Email, worker.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.ID, &worker.Status, &worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorker(worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			status = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{worker.PasswordHash, worker.Email, worker.Role, worker.Status, worker.ID, worker.Version}
	dst := []any{&worker.Username, &worker.FullName, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorker(id int64) error {
	query := `
		DELETE FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
