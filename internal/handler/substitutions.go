package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/obra-social-dev/escala/backend/internal/repository"
	"github.com/obra-social-dev/escala/backend/internal/scheduler"
	"github.com/obra-social-dev/escala/backend/internal/utils"
)

func (h *Handler) GetAllSubstitutionRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repository.GetAllSubstitutionRequests()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched substitution requests", requests)
}

func (h *Handler) GetSubstitutionRequest(w http.ResponseWriter, r *http.Request) {
	req := r.Context().Value(SubstitutionRequestCtx).(*domain.SubstitutionRequest)
	h.successResponse(w, r, "fetched substitution request", req)
}

func (h *Handler) CreateSubstitutionRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		LineItemID       int64  `json:"lineItemID" validate:"required"`
		Reason           string `json:"reason" validate:"required"`
		ProposedWorkerID *int64 `json:"proposedWorkerID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateSubstitutionReason(req.Reason); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)

	item, err := h.repository.GetLineItemByID(req.LineItemID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "line item not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	batch, err := h.repository.GetScheduleBatchByID(item.BatchID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if batch.Status != domain.BatchPublished {
		h.errorResponse(w, r, "draft schedules are edited directly, not through substitution requests")
		return
	}

	if myInfo.Role != domain.RoleCoordinator && myInfo.ID != item.WorkerID {
		h.errorResponse(w, r, "you can only request substitution for your own shifts")
		return
	}

	// a proposed replacement is vetted now so hopeless requests fail fast
	// instead of at approval time
	if req.ProposedWorkerID != nil {
		validation, err := h.vetReplacement(*req.ProposedWorkerID, item)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !validation.Valid {
			h.errorResponse(w, r, validation.Errors[0])
			return
		}
	}

	subReq := &domain.SubstitutionRequest{
		LineItemID:       req.LineItemID,
		RequesterID:      myInfo.ID,
		Reason:           req.Reason,
		ProposedWorkerID: req.ProposedWorkerID,
		Status:           domain.SubstitutionPending,
	}

	if err := h.repository.CreateSubstitutionRequest(subReq); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "substitution request created", subReq)
}

func (h *Handler) vetReplacement(workerID int64, item *domain.ScheduleLineItem) (*scheduler.ValidationResult, error) {
	snap, err := h.loadSnapshot()
	if err != nil {
		return nil, err
	}

	st, exists := snapServiceType(snap, item.ServiceTypeID)
	if !exists {
		return &scheduler.ValidationResult{
			Valid:  false,
			Errors: []string{"service type of this line item is no longer active"},
		}, nil
	}

	items, err := h.repository.GetLineItemsByBatchID(item.BatchID)
	if err != nil {
		return nil, err
	}

	return scheduler.ValidateAssignment(workerID, st, item.Date, items, item.ID, snap), nil
}

func (h *Handler) ApproveSubstitutionRequest(w http.ResponseWriter, r *http.Request) {
	subReq := r.Context().Value(SubstitutionRequestCtx).(*domain.SubstitutionRequest)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		WorkerID *int64 `json:"workerID"`
	}

	// an empty body means "approve with the proposed worker"
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	// the replacement comes from the approval body, falling back to the
	// worker proposed on the request; with neither, approval only records
	// the decision and leaves the line-item for manual reassignment
	var replacementID *int64
	switch {
	case req.WorkerID != nil:
		replacementID = req.WorkerID
	case subReq.ProposedWorkerID != nil:
		replacementID = subReq.ProposedWorkerID
	}

	item, err := h.repository.GetLineItemByID(subReq.LineItemID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "line item of this request no longer exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if replacementID != nil {
		validation, err := h.vetReplacement(*replacementID, item)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !validation.Valid {
			h.errorResponse(w, r, validation.Errors[0])
			return
		}
	}

	if err := h.repository.ApproveSubstitutionRequest(subReq, myInfo.ID, replacementID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestResolved):
			h.errorResponse(w, r, "substitution request is already resolved")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	batch, err := h.repository.GetScheduleBatchByID(item.BatchID)
	if err == nil {
		h.invalidateScheduleCache(r, batch.Year, batch.Month)
	} else {
		h.logInternalServerError(r, err)
	}

	if err := h.sendDecisionNotice(subReq, item, true); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "substitution request approved", subReq)
}

func (h *Handler) RejectSubstitutionRequest(w http.ResponseWriter, r *http.Request) {
	subReq := r.Context().Value(SubstitutionRequestCtx).(*domain.SubstitutionRequest)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	if err := h.repository.RejectSubstitutionRequest(subReq, myInfo.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestResolved):
			h.errorResponse(w, r, "substitution request is already resolved")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	item, err := h.repository.GetLineItemByID(subReq.LineItemID)
	if err == nil {
		if err := h.sendDecisionNotice(subReq, item, false); err != nil {
			h.logInternalServerError(r, err)
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "substitution request rejected", subReq)
}

func (h *Handler) sendDecisionNotice(subReq *domain.SubstitutionRequest, item *domain.ScheduleLineItem, approved bool) error {
	requester, err := h.repository.GetWorkerByID(subReq.RequesterID)
	if err != nil {
		return err
	}

	serviceName := ""
	if st, err := h.repository.GetServiceTypeByID(item.ServiceTypeID); err == nil {
		serviceName = st.Name
	}

	mailMessage := domain.MailMessage{
		Type: "substitution_decision",
		To:   requester.Email,
		Data: domain.SubstitutionDecisionMailData{
			FullName:    requester.FullName,
			ServiceName: serviceName,
			Date:        item.Date.Format(scheduler.DateLayout),
			Approved:    approved,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
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
}
