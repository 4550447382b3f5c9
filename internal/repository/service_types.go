package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

// GetAllServiceTypes loads service types with their weekday child rows
// assembled into each record. activeOnly narrows to the rows the allocation
// snapshot consumes.
func (r *Repository) GetAllServiceTypes(activeOnly bool) ([]*domain.ServiceType, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			st.id,
			st.name,
			st.description,
			st.required_headcount,
			st.start_time,
			st.end_time,
			st.is_active,
			st.created_at,
			st.version,
			stw.weekday
		FROM service_types st
		LEFT JOIN service_type_weekdays stw ON st.id = stw.service_type_id
	`
	if activeOnly {
		query += ` WHERE st.is_active = TRUE`
	}
	query += ` ORDER BY st.id, stw.weekday`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	typesMap := make(map[int64]*domain.ServiceType)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID                int64
			Name              string
			Description       string
			RequiredHeadcount int32
			StartTime         string
			EndTime           string
			IsActive          bool
			CreatedAt         time.Time
			Version           int32

			Weekday sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Description,
			&row.RequiredHeadcount,
			&row.StartTime,
			&row.EndTime,
			&row.IsActive,
			&row.CreatedAt,
			&row.Version,
			&row.Weekday,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		st, exists := typesMap[row.ID]
		if !exists {
			st = &domain.ServiceType{
				ID:                row.ID,
				Name:              row.Name,
				Description:       row.Description,
				RequiredHeadcount: row.RequiredHeadcount,
				StartTime:         row.StartTime,
				EndTime:           row.EndTime,
				Weekdays:          make([]int32, 0),
				IsActive:          row.IsActive,
				CreatedAt:         row.CreatedAt,
				Version:           row.Version,
			}
			typesMap[row.ID] = st
			order = append(order, row.ID)
		}

		// a service type without weekday rows never occurs, but the join
		// shape allows it
		if !row.Weekday.Valid {
			continue
		}

		st.Weekdays = append(st.Weekdays, row.Weekday.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	serviceTypes := make([]*domain.ServiceType, 0, len(order))
	for _, id := range order {
		serviceTypes = append(serviceTypes, typesMap[id])
	}

	return serviceTypes, nil
}

func (r *Repository) GetServiceTypeByID(id int64) (*domain.ServiceType, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			st.name,
			st.description,
			st.required_headcount,
			st.start_time,
			st.end_time,
			st.is_active,
			st.created_at,
			st.version,
			stw.weekday
		FROM service_types st
		LEFT JOIN service_type_weekdays stw ON st.id = stw.service_type_id
		WHERE st.id = $1
		ORDER BY stw.weekday
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	st := &domain.ServiceType{
		ID:       id,
		Weekdays: make([]int32, 0),
	}
	found := false

	for rows.Next() {
		var weekday sql.NullInt32
		dst := []any{
			&st.Name,
			&st.Description,
			&st.RequiredHeadcount,
			&st.StartTime,
			&st.EndTime,
			&st.IsActive,
			&st.CreatedAt,
			&st.Version,
			&weekday,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		found = true

		if weekday.Valid {
			st.Weekdays = append(st.Weekdays, weekday.Int32)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return st, nil
}

// CreateServiceType inserts the record and its weekday rows in one
// transaction.
func (r *Repository) CreateServiceType(st *domain.ServiceType) error {
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
		INSERT INTO service_types (name, description, required_headcount, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{st.Name, st.Description, st.RequiredHeadcount, st.StartTime, st.EndTime, st.IsActive}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	for _, weekday := range st.Weekdays {
		query := `
			INSERT INTO service_type_weekdays (service_type_id, weekday)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, st.ID, weekday); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteServiceType(id int64) error {
	query := `
		DELETE FROM service_types WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
