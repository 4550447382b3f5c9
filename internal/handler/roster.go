package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/obra-social-dev/escala/backend/internal/scheduler"
	"github.com/obra-social-dev/escala/backend/internal/utils"
)

func (h *Handler) GetAllServiceTypes(w http.ResponseWriter, r *http.Request) {
	serviceTypes, err := h.repository.GetAllServiceTypes(false)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched service types", serviceTypes)
}

func (h *Handler) CreateServiceType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string  `json:"name" validate:"required"`
		Description       string  `json:"description"`
		RequiredHeadcount int32   `json:"requiredHeadcount" validate:"omitempty,min=1"`
		StartTime         string  `json:"startTime" validate:"required"`
		EndTime           string  `json:"endTime" validate:"required"`
		Weekdays          []int32 `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateServiceTypeTimes(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.RequiredHeadcount == 0 {
		req.RequiredHeadcount = 1
	}

	st := &domain.ServiceType{
		Name:              req.Name,
		Description:       req.Description,
		RequiredHeadcount: req.RequiredHeadcount,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Weekdays:          req.Weekdays,
		IsActive:          true,
	}

	if err := h.repository.CreateServiceType(st); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "service_types_name_key":
			h.badRequest(w, r, errors.New("service type name already taken"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "service type created", st)
}

func (h *Handler) GetServiceType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ServiceTypeCtx).(*domain.ServiceType)
	h.successResponse(w, r, "fetched service type", st)
}

func (h *Handler) DeleteServiceType(w http.ResponseWriter, r *http.Request) {
	st := r.Context().Value(ServiceTypeCtx).(*domain.ServiceType)

	if err := h.repository.DeleteServiceType(st.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "service type deleted", nil)
}

func (h *Handler) GetAllCapabilities(w http.ResponseWriter, r *http.Request) {
	capabilities, err := h.repository.GetAllCapabilities()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched capabilities", capabilities)
}

func (h *Handler) CreateCapability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID       int64  `json:"workerID" validate:"required"`
		ServiceTypeID  int64  `json:"serviceTypeID" validate:"required"`
		Experience     string `json:"experience" validate:"required,oneof=beginner intermediate senior"`
		PriorityWeight int32  `json:"priorityWeight" validate:"omitempty,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.PriorityWeight == 0 {
		req.PriorityWeight = 1
	}

	c := &domain.Capability{
		WorkerID:       req.WorkerID,
		ServiceTypeID:  req.ServiceTypeID,
		Experience:     domain.ExperienceLevel(req.Experience),
		PriorityWeight: req.PriorityWeight,
		IsActive:       true,
	}

	if err := h.repository.CreateCapability(c); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "capabilities_worker_id_service_type_id_key":
				h.badRequest(w, r, errors.New("this worker already has a capability for this service type"))
			case pgErr.ConstraintName == "capabilities_worker_id_fkey":
				h.badRequest(w, r, errors.New("worker not found"))
			case pgErr.ConstraintName == "capabilities_service_type_id_fkey":
				h.badRequest(w, r, errors.New("service type not found"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "capability created", c)
}

func (h *Handler) DeleteCapability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid capability id")
		return
	}

	if err := h.repository.DeleteCapability(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "capability deleted", nil)
}

func (h *Handler) GetAllFixedRoles(w http.ResponseWriter, r *http.Request) {
	fixedRoles, err := h.repository.GetAllFixedRoles()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched fixed roles", fixedRoles)
}

func (h *Handler) CreateFixedRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID      int64   `json:"workerID" validate:"required"`
		ServiceTypeID int64   `json:"serviceTypeID" validate:"required"`
		RoleLabel     *string `json:"roleLabel"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// one active pin per service type: a second one would silently lose
	// the race for the slot, so refuse it up front
	exists, err := h.repository.CheckActiveFixedRoleExists(req.ServiceTypeID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.badRequest(w, r, errors.New("this service type already has an active fixed role"))
		return
	}

	fr := &domain.FixedRole{
		WorkerID:      req.WorkerID,
		ServiceTypeID: req.ServiceTypeID,
		RoleLabel:     req.RoleLabel,
		IsActive:      true,
	}

	if err := h.repository.CreateFixedRole(fr); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "fixed_roles_worker_id_fkey":
				h.badRequest(w, r, errors.New("worker not found"))
			case pgErr.ConstraintName == "fixed_roles_service_type_id_fkey":
				h.badRequest(w, r, errors.New("service type not found"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "fixed role created", fr)
}

func (h *Handler) DeleteFixedRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid fixed role id")
		return
	}

	if err := h.repository.DeleteFixedRole(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fixed role deleted", nil)
}

func (h *Handler) GetAllDateRestrictions(w http.ResponseWriter, r *http.Request) {
	restrictions, err := h.repository.GetAllDateRestrictions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched date restrictions", restrictions)
}

func (h *Handler) CreateDateRestriction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerID int64   `json:"workerID" validate:"required"`
		Date     string  `json:"date" validate:"required"`
		Reason   *string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := time.Parse(scheduler.DateLayout, req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("date must be in YYYY-MM-DD format"))
		return
	}

	// workers may only restrict their own dates, coordinators anyone's
	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	if role != domain.RoleCoordinator {
		sub, err := strconv.ParseInt(r.Context().Value(SubCtxKey).(string), 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if sub != req.WorkerID {
			h.errorResponse(w, r, "you can only declare your own unavailability")
			return
		}
	}

	dr := &domain.DateRestriction{
		WorkerID: req.WorkerID,
		Date:     date,
		Reason:   req.Reason,
		IsActive: true,
	}

	if err := h.repository.CreateDateRestriction(dr); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "date_restrictions_worker_id_fkey":
			h.badRequest(w, r, errors.New("worker not found"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "date restriction created", dr)
}

func (h *Handler) DeleteDateRestriction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid date restriction id")
		return
	}

	if err := h.repository.DeleteDateRestriction(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "date restriction deleted", nil)
}
