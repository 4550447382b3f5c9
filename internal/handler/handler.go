package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/obra-social-dev/escala/backend/internal/config"
	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/obra-social-dev/escala/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// everything below requires a logged-in session
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/workers", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateWorker)
			r.Get("/", h.GetAllWorkers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workerInfo)
				r.Get("/", h.GetWorker)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Patch("/", h.UpdateWorker)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/", h.DeleteWorker)
			})
		})

		r.Route("/service-types", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateServiceType)
			r.Get("/", h.GetAllServiceTypes)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.serviceType)
				r.Get("/", h.GetServiceType)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/", h.DeleteServiceType)
			})
		})

		r.Route("/capabilities", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateCapability)
			r.Get("/", h.GetAllCapabilities)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/{id}", h.DeleteCapability)
		})

		r.Route("/fixed-roles", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateFixedRole)
			r.Get("/", h.GetAllFixedRoles)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/{id}", h.DeleteFixedRole)
		})

		r.Route("/date-restrictions", func(r chi.Router) {
			r.Post("/", h.CreateDateRestriction)
			r.Get("/", h.GetAllDateRestrictions)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/{id}", h.DeleteDateRestriction)
		})

		r.Route("/schedule-batches", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/generate", h.GenerateSchedulePreview)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/", h.CreateScheduleBatch)
			r.Get("/", h.GetScheduleBatches) // workers read their published month here
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.scheduleBatch)
				r.Get("/", h.GetScheduleBatch)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Post("/publish", h.PublishScheduleBatch)
			})
		})

		r.Route("/line-items/{id}", func(r chi.Router) {
			r.Use(h.lineItem)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Patch("/", h.ReassignLineItem)
			r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).Delete("/", h.DeleteLineItem)
		})

		r.Route("/substitution-requests", func(r chi.Router) {
			r.With(h.myInfo).Post("/", h.CreateSubstitutionRequest)
			r.Get("/", h.GetAllSubstitutionRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.substitutionRequest)
				r.Get("/", h.GetSubstitutionRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).With(h.myInfo).Post("/approve", h.ApproveSubstitutionRequest)
				r.With(h.RequiredRole([]domain.Role{domain.RoleCoordinator})).With(h.myInfo).Post("/reject", h.RejectSubstitutionRequest)
			})
		})
	})
}
