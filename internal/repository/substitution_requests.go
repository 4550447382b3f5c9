package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

func (r *Repository) CreateSubstitutionRequest(req *domain.SubstitutionRequest) error {
	query := `
		INSERT INTO substitution_requests (line_item_id, requester_id, reason, proposed_worker_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{req.LineItemID, req.RequesterID, req.Reason, req.ProposedWorkerID, req.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt, &req.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSubstitutionRequestByID(id int64) (*domain.SubstitutionRequest, error) {
	query := `
		SELECT line_item_id, requester_id, reason, proposed_worker_id, status, approver_id, decided_at, created_at, version
		FROM substitution_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.SubstitutionRequest{
		ID: id,
	}

	dst := []any{&req.LineItemID, &req.RequesterID, &req.Reason, &req.ProposedWorkerID, &req.Status, &req.ApproverID, &req.DecidedAt, &req.CreatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *Repository) GetAllSubstitutionRequests() ([]*domain.SubstitutionRequest, error) {
	query := `
		SELECT id, line_item_id, requester_id, reason, proposed_worker_id, status, approver_id, decided_at, created_at, version
		FROM substitution_requests ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.SubstitutionRequest, 0)
	for rows.Next() {
		req := &domain.SubstitutionRequest{}
		dst := []any{&req.ID, &req.LineItemID, &req.RequesterID, &req.Reason, &req.ProposedWorkerID, &req.Status, &req.ApproverID, &req.DecidedAt, &req.CreatedAt, &req.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ApproveSubstitutionRequest flips the request to approved and, when a
// replacement is given, rewrites the line-item's worker in the same
// transaction, so a crash between the two can never leave an approved
// request without the matching roster change. A nil replacement records the
// decision only. A request already decided yields ErrRequestResolved.
func (r *Repository) ApproveSubstitutionRequest(req *domain.SubstitutionRequest, approverID int64, newWorkerID *int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE substitution_requests
		SET
			status = $1,
			approver_id = $2,
			decided_at = now(),
			version = version + 1
		WHERE id = $3 AND status = $4
		RETURNING status, approver_id, decided_at, version
	`

	args := []any{domain.SubstitutionApproved, approverID, req.ID, domain.SubstitutionPending}
	dst := []any{&req.Status, &req.ApproverID, &req.DecidedAt, &req.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestResolved
		}
		return err
	}

	if newWorkerID != nil {
		query = `
			UPDATE schedule_line_items
			SET
				worker_id = $1,
				from_fixed_role = FALSE,
				version = version + 1
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, query, *newWorkerID, req.LineItemID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// RejectSubstitutionRequest is terminal like approval but leaves the
// schedule untouched.
func (r *Repository) RejectSubstitutionRequest(req *domain.SubstitutionRequest, approverID int64) error {
	query := `
		UPDATE substitution_requests
		SET
			status = $1,
			approver_id = $2,
			decided_at = now(),
			version = version + 1
		WHERE id = $3 AND status = $4
		RETURNING status, approver_id, decided_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{domain.SubstitutionRejected, approverID, req.ID, domain.SubstitutionPending}
	dst := []any{&req.Status, &req.ApproverID, &req.DecidedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestResolved
		}
		return err
	}

	return nil
}
