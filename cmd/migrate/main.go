package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"taskwire.org/internal/migrate"
	"taskwire.org/internal/store/pg"
)

func main() {
	var (
		dir     = flag.String("dir", "migrations", "directory with SQL migration files")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall timeout")
		status  = flag.Bool("status", false, "print applied migrations and exit")
	)
	flag.Parse()

	dsn := os.Getenv("TASKWIRE_PG_DSN")
	if dsn == "" {
		log.Fatal("TASKWIRE_PG_DSN is required")
	}

	store, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	runner := migrate.NewRunner(store.DB(), *dir)

	if *status {
		applied, err := runner.Status(ctx)
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		for _, name := range applied {
			fmt.Println(name)
		}
		return
	}

	if err := runner.Up(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("migrations applied")
}
