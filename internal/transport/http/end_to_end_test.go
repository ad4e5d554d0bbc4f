package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/app"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/clock"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/gateway/httpclient"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/storage/memory"
)

// Wires the three services together the way the binaries do: an
// in-memory train data service, the booking reference service, and a
// ticket office talking to both over HTTP.
func TestReserveEndToEnd(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	fleet := app.NewFleetService(memory.NewStore(), clock.NewFixed(now))
	references := app.NewReferenceService()

	trainDataMux := http.NewServeMux()
	trainDataMux.Handle("/data_for_train/", HandleGetTrain(fleet))
	trainDataMux.Handle("/reserve", HandleMakeReservation(fleet))
	trainDataMux.Handle("/reset/", HandleResetTrain(fleet))
	trainData := httptest.NewServer(trainDataMux)
	defer trainData.Close()

	referenceMux := http.NewServeMux()
	referenceMux.Handle("/booking_reference", HandleBookingReference(references))
	referenceMux.Handle("/last_booking_reference", HandleLastBookingReference(references))
	referenceServer := httptest.NewServer(referenceMux)
	defer referenceServer.Close()

	office := app.NewTicketOffice(httpclient.New(trainData.URL, referenceServer.URL))
	ctx := context.Background()

	trainID, err := domain.NewTrainID("express_2000")
	if err != nil {
		t.Fatalf("new train id: %v", err)
	}
	if _, err := http.Post(trainData.URL+"/reset/express_2000", "application/json", nil); err != nil {
		t.Fatalf("reset train: %v", err)
	}

	first, err := office.Reserve(ctx, trainID, 4)
	if err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	want := []string{"01A", "02A", "03A", "04A"}
	if len(first.Seats) != len(want) {
		t.Fatalf("expected %d seats, got %d", len(want), len(first.Seats))
	}
	for i, seat := range first.Seats {
		if seat.String() != want[i] {
			t.Fatalf("expected seat %s at position %d, got %s", want[i], i, seat)
		}
	}
	if first.BookingReference.String() != "75bcd16" {
		t.Fatalf("expected reference 75bcd16, got %s", first.BookingReference)
	}
	if got := references.LastReference(); got != "75bcd16" {
		t.Fatalf("expected last reference 75bcd16, got %s", got)
	}

	// Coach A would go past 70% with four more seats, so the next
	// reservation lands in coach B.
	second, err := office.Reserve(ctx, trainID, 4)
	if err != nil {
		t.Fatalf("second reservation: %v", err)
	}
	if len(second.Seats) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(second.Seats))
	}
	for i, raw := range []string{"01B", "02B", "03B", "04B"} {
		if second.Seats[i].String() != raw {
			t.Fatalf("expected seat %s at position %d, got %s", raw, i, second.Seats[i])
		}
	}
	if second.BookingReference.String() != "75bcd17" {
		t.Fatalf("expected reference 75bcd17, got %s", second.BookingReference)
	}

	// The store reflects both reservations.
	train, err := fleet.Train(ctx, trainID)
	if err != nil {
		t.Fatalf("get train: %v", err)
	}
	if got := train.Occupancy(); got < 0.14 || got > 0.15 {
		t.Fatalf("expected 8/54 occupancy, got %f", got)
	}
}
