package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"BlogPortal/internal/infrastructure/stubstore"
	"BlogPortal/pkg/logger"
)

func main() {
	addr := flag.String("addr", getenv("STUBSTORE_ADDR", "127.0.0.1:9090"), "listen address")
	dbPath := flag.String("db", getenv("STUBSTORE_DB", "stubstore.db"), "sqlite database path")
	flag.Parse()

	log := logger.New("stubstore")

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("open sqlite %s: %v", *dbPath, err)
	}
	defer db.Close()

	repo := stubstore.NewRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	log.Printf("stub store listening on %s (db %s)", *addr, *dbPath)
	if err := http.ListenAndServe(*addr, stubstore.NewHandler(repo, log)); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
