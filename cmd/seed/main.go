package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/config"
	"github.com/obra-social-dev/escala/backend/internal/repository"
	"github.com/obra-social-dev/escala/backend/internal/seed"
	"github.com/obra-social-dev/escala/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "operation (1: random workers, 2: random service types, 3: random capabilities, 4: random date restrictions, 5: demo data)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not touch the network, so ping to surface a bad DSN now
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("worker count must be positive")
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			worker, err := utils.GenerateRandomWorker(cfg.Seed.Worker.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("failed to generate random worker", slog.String("error", err.Error()))
				continue
			}
			if err := repo.CreateWorker(worker); err != nil {
				slog.Error("failed to insert worker", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("workers inserted", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("service type count must be positive")
			return
		}
		cnt := 0
		for i := 0; i < n; i++ {
			st := utils.GenerateRandomServiceType()
			if err := repo.CreateServiceType(st); err != nil {
				slog.Error("failed to insert service type", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("service types inserted", slog.Int("count", cnt))
	case 3:
		workers, err := repo.GetActiveWorkers()
		if err != nil {
			slog.Error("failed to fetch workers", slog.String("error", err.Error()))
			return
		}
		serviceTypes, err := repo.GetAllServiceTypes(true)
		if err != nil {
			slog.Error("failed to fetch service types", slog.String("error", err.Error()))
			return
		}
		if len(workers) == 0 || len(serviceTypes) == 0 {
			slog.Error("seed workers and service types first")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			w := workers[rand.Intn(len(workers))]
			st := serviceTypes[rand.Intn(len(serviceTypes))]
			c := utils.GenerateRandomCapability(w.ID, st.ID)
			if err := repo.CreateCapability(c); err != nil {
				slog.Error("failed to insert capability", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("capabilities inserted", slog.Int("count", cnt))
	case 4:
		workers, err := repo.GetActiveWorkers()
		if err != nil {
			slog.Error("failed to fetch workers", slog.String("error", err.Error()))
			return
		}
		if len(workers) == 0 {
			slog.Error("seed workers first")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			w := workers[rand.Intn(len(workers))]
			dr := utils.GenerateRandomDateRestriction(w.ID)
			if err := repo.CreateDateRestriction(dr); err != nil {
				slog.Error("failed to insert date restriction", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}
		slog.Info("date restrictions inserted", slog.Int("count", cnt))
	case 5:
		seed.SeedDemoData(repo, cfg.Seed.Worker.Password, cfg.Email.UserDomain)
	default:
		slog.Error("unknown operation")
	}
}
