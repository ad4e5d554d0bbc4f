package main

import (
	"log"
	"net/http"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/app"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/config"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/gateway/httpclient"
	transporthttp "github.com/dmerejkowsky/train-reservation-ddd/internal/transport/http"
)

const (
	defaultPort          = "8083"
	defaultTrainDataURL  = "http://localhost:8081"
	defaultReferencesURL = "http://localhost:8082"
)

func main() {
	logger := log.Default()
	config.LoadEnvFile(logger)

	port := config.Getenv(logger, "PORT", defaultPort)
	trainDataURL := config.Getenv(logger, "TRAIN_DATA_URL", defaultTrainDataURL)
	referencesURL := config.Getenv(logger, "BOOKING_REFERENCE_URL", defaultReferencesURL)

	client := httpclient.New(trainDataURL, referencesURL)
	office := app.NewTicketOffice(client)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/reserve", transporthttp.HandleReserve(office))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(mux, logger)
	if err := transporthttp.Serve(logger, ":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
