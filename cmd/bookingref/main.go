package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/app"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/config"
	transporthttp "github.com/dmerejkowsky/train-reservation-ddd/internal/transport/http"
)

const (
	defaultPort  = "8082"
	defaultStart = "123456789"
)

func main() {
	logger := log.Default()
	config.LoadEnvFile(logger)

	port := config.Getenv(logger, "PORT", defaultPort)
	rawStart := config.Getenv(logger, "BOOKING_REFERENCE_START", defaultStart)
	start, err := strconv.ParseUint(rawStart, 10, 64)
	if err != nil {
		log.Fatalf("invalid BOOKING_REFERENCE_START %q: %v", rawStart, err)
	}

	references := app.NewReferenceServiceAt(start)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/booking_reference", transporthttp.HandleBookingReference(references))
	mux.Handle("/last_booking_reference", transporthttp.HandleLastBookingReference(references))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(mux, logger)
	if err := transporthttp.Serve(logger, ":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
