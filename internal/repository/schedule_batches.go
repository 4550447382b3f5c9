package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

// CreateScheduleBatch persists a batch and all of its line-items in one
// transaction. A second batch for the same (year, month) is refused with
// ErrDuplicateBatch regardless of the existing batch's status.
func (r *Repository) CreateScheduleBatch(batch *domain.ScheduleBatch, items []*domain.ScheduleLineItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exists := false
	query := `
		SELECT EXISTS (SELECT 1 FROM schedule_batches WHERE year = $1 AND month = $2)
	`
	if err := tx.QueryRowContext(ctx, query, batch.Year, batch.Month).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDuplicateBatch
	}

	query = `
		INSERT INTO schedule_batches (year, month, status, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	args := []any{batch.Year, batch.Month, batch.Status, batch.CreatedBy}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&batch.ID, &batch.CreatedAt, &batch.Version); err != nil {
		return err
	}

	for _, item := range items {
		item.BatchID = batch.ID

		query := `
			INSERT INTO schedule_line_items (batch_id, worker_id, service_type_id, date, role_label, from_fixed_role)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, version
		`
		args := []any{item.BatchID, item.WorkerID, item.ServiceTypeID, item.Date, item.RoleLabel, item.FromFixedRole}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.Version); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleBatchByID(id int64) (*domain.ScheduleBatch, error) {
	query := `
		SELECT year, month, status, created_by, created_at, version
		FROM schedule_batches WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	batch := &domain.ScheduleBatch{
		ID: id,
	}

	dst := []any{&batch.Year, &batch.Month, &batch.Status, &batch.CreatedBy, &batch.CreatedAt, &batch.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return batch, nil
}

func (r *Repository) GetScheduleBatchByPeriod(year, month int) (*domain.ScheduleBatch, error) {
	query := `
		SELECT id, status, created_by, created_at, version
		FROM schedule_batches WHERE year = $1 AND month = $2
		ORDER BY created_at DESC LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	batch := &domain.ScheduleBatch{
		Year:  year,
		Month: month,
	}

	dst := []any{&batch.ID, &batch.Status, &batch.CreatedBy, &batch.CreatedAt, &batch.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, year, month).Scan(dst...); err != nil {
		return nil, err
	}

	return batch, nil
}

func (r *Repository) GetAllScheduleBatches() ([]*domain.ScheduleBatch, error) {
	query := `
		SELECT id, year, month, status, created_by, created_at, version
		FROM schedule_batches ORDER BY year DESC, month DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]*domain.ScheduleBatch, 0)
	for rows.Next() {
		batch := &domain.ScheduleBatch{}
		dst := []any{&batch.ID, &batch.Year, &batch.Month, &batch.Status, &batch.CreatedBy, &batch.CreatedAt, &batch.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *Repository) GetLineItemsByBatchID(batchID int64) ([]*domain.ScheduleLineItem, error) {
	query := `
		SELECT id, worker_id, service_type_id, date, role_label, from_fixed_role, created_at, version
		FROM schedule_line_items WHERE batch_id = $1
		ORDER BY date, service_type_id, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.ScheduleLineItem, 0)
	for rows.Next() {
		item := &domain.ScheduleLineItem{
			BatchID: batchID,
		}
		dst := []any{&item.ID, &item.WorkerID, &item.ServiceTypeID, &item.Date, &item.RoleLabel, &item.FromFixedRole, &item.CreatedAt, &item.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repository) GetLineItemByID(id int64) (*domain.ScheduleLineItem, error) {
	query := `
		SELECT batch_id, worker_id, service_type_id, date, role_label, from_fixed_role, created_at, version
		FROM schedule_line_items WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	item := &domain.ScheduleLineItem{
		ID: id,
	}

	dst := []any{&item.BatchID, &item.WorkerID, &item.ServiceTypeID, &item.Date, &item.RoleLabel, &item.FromFixedRole, &item.CreatedAt, &item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateLineItemWorker rewrites the assignee of one line-item. A manual
// reassignment clears from_fixed_role: the slot no longer reflects a pin.
func (r *Repository) UpdateLineItemWorker(item *domain.ScheduleLineItem, workerID int64) error {
	query := `
		UPDATE schedule_line_items
		SET
			worker_id = $1,
			from_fixed_role = FALSE,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING worker_id, from_fixed_role, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{workerID, item.ID, item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.WorkerID, &item.FromFixedRole, &item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteLineItem(id int64) error {
	query := `
		DELETE FROM schedule_line_items WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// PublishBatch flips a draft batch to published. Publishing twice yields
// ErrBatchPublished so handlers can report the conflict precisely.
func (r *Repository) PublishBatch(batch *domain.ScheduleBatch) error {
	query := `
		UPDATE schedule_batches
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING status, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{domain.BatchPublished, batch.ID, domain.BatchDraft}
	err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&batch.Status, &batch.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// no draft row matched: either the batch is gone or already published
	current, lookupErr := r.GetScheduleBatchByID(batch.ID)
	if lookupErr != nil {
		return lookupErr
	}
	if current.Status == domain.BatchPublished {
		return ErrBatchPublished
	}

	return err
}
