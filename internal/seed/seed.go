package seed

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/obra-social-dev/escala/backend/internal/repository"
)

type demoWorker struct {
	username string
	fullName string
}

var demoWorkers = []demoWorker{
	{"ana.silva", "Ana Silva"},
	{"bruno.santos", "Bruno Santos"},
	{"camila.oliveira", "Camila Oliveira"},
	{"diego.souza", "Diego Souza"},
	{"elisa.pereira", "Elisa Pereira"},
}

type demoServiceType struct {
	name      string
	startTime string
	endTime   string
	weekdays  []int32
}

// demo windows deliberately include an overlapping pair (Baralho/Cozinha)
// so conflict handling is visible right after seeding
var demoServiceTypes = []demoServiceType{
	{"Baralho", "09:00", "11:00", []int32{1, 5}},
	{"Cozinha", "10:00", "12:00", []int32{5}},
	{"Horta", "14:00", "16:00", []int32{1}},
}

// SeedDemoData loads a small fixed roster: five workers, three service
// types, cross capabilities, and one fixed role on Horta. Every worker
// shares the given password.
func SeedDemoData(r *repository.Repository, password string, emailDomain string) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash demo password", "error", err)
		return
	}

	workers := make([]*domain.Worker, 0, len(demoWorkers))
	for _, dw := range demoWorkers {
		worker := &domain.Worker{
			Username:     dw.username,
			PasswordHash: string(passwordHash),
			FullName:     dw.fullName,
			Email:        dw.username + "@" + emailDomain,
			Role:         domain.RoleWorker,
		}
		if err := r.CreateWorker(worker); err != nil {
			slog.Error("failed to insert demo worker", "username", dw.username, "error", err)
			continue
		}
		workers = append(workers, worker)
	}

	serviceTypes := make([]*domain.ServiceType, 0, len(demoServiceTypes))
	for _, dst := range demoServiceTypes {
		st := &domain.ServiceType{
			Name:              dst.name,
			Description:       "demo service type",
			RequiredHeadcount: 1,
			StartTime:         dst.startTime,
			EndTime:           dst.endTime,
			Weekdays:          dst.weekdays,
			IsActive:          true,
		}
		if err := r.CreateServiceType(st); err != nil {
			slog.Error("failed to insert demo service type", "name", dst.name, "error", err)
			continue
		}
		serviceTypes = append(serviceTypes, st)
	}

	if len(workers) == 0 || len(serviceTypes) == 0 {
		slog.Error("demo seed incomplete, skipping capabilities")
		return
	}

	// every worker can do every service type; experience varies by position
	for i, w := range workers {
		for _, st := range serviceTypes {
			c := &domain.Capability{
				WorkerID:       w.ID,
				ServiceTypeID:  st.ID,
				Experience:     experienceForIndex(i),
				PriorityWeight: 1,
				IsActive:       true,
			}
			if err := r.CreateCapability(c); err != nil {
				slog.Error("failed to insert demo capability", "worker", w.Username, "service", st.Name, "error", err)
			}
		}
	}

	// pin the last worker to Horta
	label := "responsável"
	fr := &domain.FixedRole{
		WorkerID:      workers[len(workers)-1].ID,
		ServiceTypeID: serviceTypes[len(serviceTypes)-1].ID,
		RoleLabel:     &label,
		IsActive:      true,
	}
	if err := r.CreateFixedRole(fr); err != nil {
		slog.Error("failed to insert demo fixed role", "error", err)
	}

	slog.Info("demo data seeded", "workers", len(workers), "serviceTypes", len(serviceTypes))
}

func experienceForIndex(i int) domain.ExperienceLevel {
	switch i % 3 {
	case 0:
		return domain.ExperienceSenior
	case 1:
		return domain.ExperienceIntermediate
	default:
		return domain.ExperienceBeginner
	}
}
