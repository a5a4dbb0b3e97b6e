package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/trade-ledger/internal/app"
	"github.com/nimasrn/trade-ledger/internal/config"
	"github.com/nimasrn/trade-ledger/internal/handlers"
	"github.com/nimasrn/trade-ledger/internal/reconciler"
	"github.com/nimasrn/trade-ledger/internal/repository"
	"github.com/nimasrn/trade-ledger/internal/services"
	xhttp "github.com/nimasrn/trade-ledger/pkg/http"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/prom"
	"github.com/nimasrn/trade-ledger/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting trade-ledger api", "version", version, "commit", commit, "date", date)

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed registering metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	db, err := app.OpenDB(cfg)
	if err != nil {
		logger.Error("failed opening database", "error", err)
		return
	}
	defer db.Close()

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: "default",
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	defer redisAdap.Close()

	a := app.New(db)

	// services
	authService := services.NewAuthService(a.Repos.Users, repository.NewSessionRepository(redisAdap), cfg.SessionTTL)
	if _, err := authService.EnsureDefaultAdmin(context.Background(), cfg.DefaultAdminUsername, cfg.DefaultAdminPassword); err != nil {
		logger.Error("failed creating default admin", "error", err)
		return
	}
	healthService := services.NewHealthService(map[string]services.Pinger{
		"database": db,
		"redis":    redisAdap,
	})

	rec := reconciler.NewService(a.Reports, reconciler.NewLock(redisAdap, cfg.ReconcileLockTTL), reconciler.Config{
		Interval: cfg.ReconcileInterval,
		Workers:  cfg.ReconcileWorkers,
		Repair:   cfg.ReconcileRepair,
	})
	if err := rec.Start(context.Background()); err != nil {
		logger.Error("failed starting reconciliation", "error", err)
		return
	}
	defer rec.Stop()

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(handlers.AuthMiddleware(authService))
	s.Router = xhttp.CreateDefaultRouter()

	// v1 handlers
	g := s.Router.Group(handlers.APIPrefix)
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(healthService))
	handlers.RegisterAuthRoutes(g, handlers.NewAuthHandler(authService))
	handlers.RegisterPartyRoutes(g, handlers.NewPartyHandler(a.Parties, a.Reports))
	handlers.RegisterRecordRoutes(g, handlers.NewRecordHandler(a.Ledger))
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(a.Reports))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(cfg.HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
