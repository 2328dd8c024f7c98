package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvp-studio/mvp-planner-backend/config"
	"github.com/mvp-studio/mvp-planner-backend/internal/bootstrap"
	"github.com/mvp-studio/mvp-planner-backend/internal/maintenance"
	"github.com/mvp-studio/mvp-planner-backend/internal/mvpplans"
	"github.com/mvp-studio/mvp-planner-backend/internal/projects"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	sched := maintenance.NewScheduler(projects.NewRepo(db), mvpplans.NewRepo(db))
	if err := sched.Start(); err != nil {
		log.Fatalf("cron: %v", err)
	}
	defer sched.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{Cfg: cfg, DB: db, RDB: rdb})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[api] listening on :%s (env=%s)", cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[api] shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[api] shutdown: %v", err)
	}
}
