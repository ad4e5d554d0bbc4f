package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/app"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/clock"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/config"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/storage/memory"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/storage/postgres"
	transporthttp "github.com/dmerejkowsky/train-reservation-ddd/internal/transport/http"
	"github.com/dmerejkowsky/train-reservation-ddd/migrations"
)

const defaultPort = "8081"

func main() {
	logger := log.Default()
	config.LoadEnvFile(logger)

	port := config.Getenv(logger, "PORT", defaultPort)

	store, cleanup := newStore(logger)
	defer cleanup()

	fleet := app.NewFleetService(store, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/data_for_train/", transporthttp.HandleGetTrain(fleet))
	mux.Handle("/reserve", transporthttp.HandleMakeReservation(fleet))
	mux.Handle("/reset/", transporthttp.HandleResetTrain(fleet))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(mux, logger)
	if err := transporthttp.Serve(logger, ":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newStore picks the seat store backend: Postgres when DATABASE_URL is
// set, otherwise an in-memory store that loses state on restart.
func newStore(logger *log.Logger) (app.TrainStore, func()) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Printf("WARN: DATABASE_URL not set, using in-memory seat store")
		return memory.NewStore(), func() {}
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, dbURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	return postgres.NewTrainRepository(pool), pool.Close
}
