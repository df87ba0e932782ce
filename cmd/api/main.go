package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"taskwire.org/internal/audit"
	"taskwire.org/internal/auth"
	"taskwire.org/internal/httpapi"
	"taskwire.org/internal/obs"
	"taskwire.org/internal/store/pg"
	"taskwire.org/internal/stream"
	"taskwire.org/internal/todo"
)

var version = "0.3.1"

func main() {
	obs.Init()

	// Дополнительный лог-приёмник (алёрты) — просто ещё один sink.
	if path := os.Getenv("TASKWIRE_ALERT_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("open alert log: %v", err)
		}
		defer f.Close()
		obs.AddSink(f)
	}

	var (
		userStore  auth.UserStore
		todoStore  todo.Store
		auditStore audit.Store
		probe      httpapi.ReadyProbe
		pgStore    *pg.Store
	)
	if dsn := os.Getenv("TASKWIRE_PG_DSN"); dsn != "" {
		var err error
		pgStore, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer pgStore.Close()
		userStore = pgStore.Users()
		todoStore = pgStore.Todos()
		auditStore = pgStore.Audit()
		probe = httpapi.ReadyProbe{DB: pgStore.DB()}
	} else {
		// Без DSN работаем на in-memory стораджах (dev-режим).
		userStore = auth.NewMemoryStore()
		todoStore = todo.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
	}

	tokenTTL := auth.DefaultTokenTTL
	if raw := os.Getenv("TASKWIRE_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("parse TASKWIRE_TOKEN_TTL: %v", err)
		}
		tokenTTL = ttl
	}

	hub := stream.New()
	hub.OnSubscriberChange(obs.StreamSubscriberGauge)

	recorder := audit.NewRecorder(auditStore)
	authSvc := auth.NewService(userStore, auth.WithTokenTTL(tokenTTL))
	todoSvc := todo.NewService(todoStore, recorder, hub)

	api := httpapi.New(probe, version, authSvc, todoSvc, hub)

	addr := os.Getenv("TASKWIRE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// SSE держит соединение открытым, поэтому без WriteTimeout.
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("Starting taskwire-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	timeout := 10 * time.Second
	if raw := os.Getenv("TASKWIRE_SHUTDOWN_TIMEOUT_SEC"); raw != "" {
		if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
