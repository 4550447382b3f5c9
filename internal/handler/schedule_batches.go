package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/obra-social-dev/escala/backend/internal/repository"
	"github.com/obra-social-dev/escala/backend/internal/scheduler"
)

// ScheduleBatchView is the schedule as clients consume it: the batch record
// plus its line-items. It is also the value cached in redis per period.
type ScheduleBatchView struct {
	Batch     *domain.ScheduleBatch      `json:"batch"`
	LineItems []*domain.ScheduleLineItem `json:"lineItems"`
}

func (h *Handler) loadSnapshot() (*scheduler.Snapshot, error) {
	workers, err := h.repository.GetActiveWorkers()
	if err != nil {
		return nil, err
	}
	serviceTypes, err := h.repository.GetAllServiceTypes(true)
	if err != nil {
		return nil, err
	}
	capabilities, err := h.repository.GetAllCapabilities()
	if err != nil {
		return nil, err
	}
	fixedRoles, err := h.repository.GetAllFixedRoles()
	if err != nil {
		return nil, err
	}
	restrictions, err := h.repository.GetAllDateRestrictions()
	if err != nil {
		return nil, err
	}

	return &scheduler.Snapshot{
		Workers:      workers,
		ServiceTypes: serviceTypes,
		Capabilities: capabilities,
		FixedRoles:   fixedRoles,
		Restrictions: restrictions,
	}, nil
}

func (h *Handler) scheduleCacheKey(year, month int) string {
	return fmt.Sprintf("schedule_%d_%02d", year, month)
}

// invalidateScheduleCache drops the cached month view after a structural
// mutation. Cache trouble never fails the mutation itself.
func (h *Handler) invalidateScheduleCache(r *http.Request, year, month int) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Del(ctx, h.scheduleCacheKey(year, month)).Err(); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) GenerateSchedulePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year  int `json:"year" validate:"required"`
		Month int `json:"month" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	snap, err := h.loadSnapshot()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	engine := scheduler.New(h.config.Scheduler.Weekdays, snap)
	result, err := engine.Generate(req.Year, req.Month)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule generated", result)
}

func (h *Handler) CreateScheduleBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year  int `json:"year" validate:"required"`
		Month int `json:"month" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	snap, err := h.loadSnapshot()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	engine := scheduler.New(h.config.Scheduler.Weekdays, snap)
	result, err := engine.Generate(req.Year, req.Month)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// errors block persistence, warnings do not
	if len(result.Errors) > 0 {
		h.writeJSON(w, r, http.StatusOK, Response{
			Success: false,
			Message: "generation produced errors, draft not persisted",
			Data:    result,
		})
		return
	}

	sub, err := strconv.ParseInt(r.Context().Value(SubCtxKey).(string), 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	batch := &domain.ScheduleBatch{
		Year:      req.Year,
		Month:     req.Month,
		Status:    domain.BatchDraft,
		CreatedBy: sub,
	}

	if err := h.repository.CreateScheduleBatch(batch, result.LineItems); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateBatch):
			h.errorResponse(w, r, "a schedule batch already exists for this period")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateScheduleCache(r, batch.Year, batch.Month)

	h.successResponse(w, r, "draft schedule batch created", struct {
		Batch  *domain.ScheduleBatch `json:"batch"`
		Result *scheduler.Result     `json:"result"`
	}{
		Batch:  batch,
		Result: result,
	})
}

// GetScheduleBatches lists all batches, or — when year and month query
// parameters are present — serves the period's schedule through the redis
// read-through cache.
func (h *Handler) GetScheduleBatches(w http.ResponseWriter, r *http.Request) {
	yearParam := r.URL.Query().Get("year")
	monthParam := r.URL.Query().Get("month")

	if yearParam == "" && monthParam == "" {
		batches, err := h.repository.GetAllScheduleBatches()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "fetched schedule batches", batches)
		return
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		h.errorResponse(w, r, "invalid year")
		return
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil {
		h.errorResponse(w, r, "invalid month")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, h.scheduleCacheKey(year, month)).Result()
	if err == nil {
		view := &ScheduleBatchView{}
		if err := json.Unmarshal([]byte(cached), view); err == nil {
			h.successResponse(w, r, "fetched schedule", view)
			return
		}
		// fall through to the store on a corrupt cache entry
	} else if !errors.Is(err, redis.Nil) {
		h.logInternalServerError(r, err)
	}

	batch, err := h.repository.GetScheduleBatchByPeriod(year, month)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no schedule batch for this period")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	items, err := h.repository.GetLineItemsByBatchID(batch.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	view := &ScheduleBatchView{Batch: batch, LineItems: items}

	if data, err := json.Marshal(view); err == nil {
		if err := h.redisClient.Set(ctx, h.scheduleCacheKey(year, month), data, time.Duration(h.config.Redis.ScheduleCacheTTL)*time.Second).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "fetched schedule", view)
}

func (h *Handler) GetScheduleBatch(w http.ResponseWriter, r *http.Request) {
	batch := r.Context().Value(ScheduleBatchCtx).(*domain.ScheduleBatch)

	items, err := h.repository.GetLineItemsByBatchID(batch.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched schedule batch", &ScheduleBatchView{
		Batch:     batch,
		LineItems: items,
	})
}

func (h *Handler) PublishScheduleBatch(w http.ResponseWriter, r *http.Request) {
	batch := r.Context().Value(ScheduleBatchCtx).(*domain.ScheduleBatch)

	if err := h.repository.PublishBatch(batch); err != nil {
		switch {
		case errors.Is(err, repository.ErrBatchPublished):
			h.errorResponse(w, r, "schedule batch is already published")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateScheduleCache(r, batch.Year, batch.Month)

	// notify every assigned worker; a mail failure must not unpublish
	if err := h.sendPublicationNotices(batch); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "schedule batch published", batch)
}

func (h *Handler) sendPublicationNotices(batch *domain.ScheduleBatch) error {
	items, err := h.repository.GetLineItemsByBatchID(batch.ID)
	if err != nil {
		return err
	}

	workers, err := h.repository.GetAllWorkers()
	if err != nil {
		return err
	}
	workersByID := make(map[int64]*domain.Worker, len(workers))
	for _, w := range workers {
		workersByID[w.ID] = w
	}

	serviceTypes, err := h.repository.GetAllServiceTypes(false)
	if err != nil {
		return err
	}
	typesByID := make(map[int64]*domain.ServiceType, len(serviceTypes))
	for _, st := range serviceTypes {
		typesByID[st.ID] = st
	}

	shiftsByWorker := make(map[int64][]string)
	for _, item := range items {
		st, exists := typesByID[item.ServiceTypeID]
		if !exists {
			continue
		}
		line := fmt.Sprintf("%s %s-%s %s", item.Date.Format(scheduler.DateLayout), st.StartTime, st.EndTime, st.Name)
		shiftsByWorker[item.WorkerID] = append(shiftsByWorker[item.WorkerID], line)
	}

	for workerID, shifts := range shiftsByWorker {
		worker, exists := workersByID[workerID]
		if !exists {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "schedule_published",
			To:   worker.Email,
			Data: domain.SchedulePublishedMailData{
				FullName: worker.FullName,
				Year:     batch.Year,
				Month:    batch.Month,
				Shifts:   shifts,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}

// ReassignLineItem swaps the assigned worker of one draft line-item. The
// replacement passes the same eligibility checks generation uses, with the
// item being edited excluded from conflict detection.
func (h *Handler) ReassignLineItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(LineItemCtx).(*domain.ScheduleLineItem)

	var req struct {
		WorkerID int64 `json:"workerID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	batch, err := h.repository.GetScheduleBatchByID(item.BatchID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if batch.Status != domain.BatchDraft {
		h.errorResponse(w, r, "published schedules change through substitution requests only")
		return
	}

	snap, err := h.loadSnapshot()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	st, exists := snapServiceType(snap, item.ServiceTypeID)
	if !exists {
		h.errorResponse(w, r, "service type of this line item is no longer active")
		return
	}

	items, err := h.repository.GetLineItemsByBatchID(item.BatchID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	validation := scheduler.ValidateAssignment(req.WorkerID, st, item.Date, items, item.ID, snap)
	if !validation.Valid {
		h.errorResponse(w, r, validation.Errors[0])
		return
	}

	if err := h.repository.UpdateLineItemWorker(item, req.WorkerID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "line item update failed, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateScheduleCache(r, batch.Year, batch.Month)

	h.successResponse(w, r, "line item reassigned", item)
}

func (h *Handler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	item := r.Context().Value(LineItemCtx).(*domain.ScheduleLineItem)

	batch, err := h.repository.GetScheduleBatchByID(item.BatchID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if batch.Status != domain.BatchDraft {
		h.errorResponse(w, r, "published schedules change through substitution requests only")
		return
	}

	if err := h.repository.DeleteLineItem(item.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateScheduleCache(r, batch.Year, batch.Month)

	h.successResponse(w, r, "line item deleted", nil)
}

func snapServiceType(snap *scheduler.Snapshot, id int64) (*domain.ServiceType, bool) {
	for _, st := range snap.ServiceTypes {
		if st.ID == id {
			return st, true
		}
	}
	return nil, false
}
