package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/app"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/clock"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/storage/memory"
)

func newFleet(t *testing.T) *app.FleetService {
	t.Helper()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := app.NewFleetService(memory.NewStore(), clock.NewFixed(now))

	trainID, err := domain.NewTrainID("express_2000")
	if err != nil {
		t.Fatalf("new train id: %v", err)
	}
	if err := svc.Reset(context.Background(), trainID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return svc
}

func TestHandleGetTrain(t *testing.T) {
	t.Parallel()

	t.Run("returns the full snapshot", func(t *testing.T) {
		svc := newFleet(t)
		req := httptest.NewRequest(http.MethodGet, "/data_for_train/express_2000", nil)
		rec := httptest.NewRecorder()

		HandleGetTrain(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body)
		}
		var resp trainResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Seats) != 54 {
			t.Fatalf("expected 54 seats, got %d", len(resp.Seats))
		}
		seat, found := resp.Seats["01A"]
		if !found {
			t.Fatalf("expected seat 01A in snapshot")
		}
		if seat.Coach != "A" || seat.SeatNumber != 1 || seat.BookingReference != "" {
			t.Fatalf("unexpected seat payload: %+v", seat)
		}
	})

	t.Run("unknown train is a 404", func(t *testing.T) {
		svc := newFleet(t)
		req := httptest.NewRequest(http.MethodGet, "/data_for_train/ghost", nil)
		rec := httptest.NewRecorder()

		HandleGetTrain(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		var resp errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Code != codeTrainNotFound {
			t.Fatalf("expected code %s, got %s", codeTrainNotFound, resp.Code)
		}
	})

	t.Run("missing train id is a 404", func(t *testing.T) {
		svc := newFleet(t)
		req := httptest.NewRequest(http.MethodGet, "/data_for_train/", nil)
		rec := httptest.NewRecorder()

		HandleGetTrain(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandleMakeReservation(t *testing.T) {
	t.Parallel()

	post := func(svc *app.FleetService, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/reserve", strings.NewReader(body))
		rec := httptest.NewRecorder()
		HandleMakeReservation(svc).ServeHTTP(rec, req)
		return rec
	}

	t.Run("books seats and echoes the reservation", func(t *testing.T) {
		svc := newFleet(t)
		rec := post(svc, `{"train_id":"express_2000","seats":["01A","02A"],"booking_reference":"75bcd16"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body)
		}
		var resp reservationResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp.Seats) != 2 || resp.Seats[0] != "01A" {
			t.Fatalf("expected echoed seats, got %v", resp.Seats)
		}

		trainID, err := domain.NewTrainID("express_2000")
		if err != nil {
			t.Fatalf("new train id: %v", err)
		}
		train, err := svc.Train(context.Background(), trainID)
		if err != nil {
			t.Fatalf("get train: %v", err)
		}
		seatID, err := domain.ParseSeatID("01A")
		if err != nil {
			t.Fatalf("parse seat id: %v", err)
		}
		if current, booked := train.BookingReference(seatID); !booked || current.String() != "75bcd16" {
			t.Fatalf("expected 01A held by 75bcd16, got %s", current)
		}
	})

	t.Run("conflicting reference is a 409", func(t *testing.T) {
		svc := newFleet(t)
		if rec := post(svc, `{"train_id":"express_2000","seats":["01A"],"booking_reference":"ref-a"}`); rec.Code != http.StatusOK {
			t.Fatalf("seed reservation: status %d", rec.Code)
		}

		rec := post(svc, `{"train_id":"express_2000","seats":["01A"],"booking_reference":"ref-b"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d (%s)", rec.Code, rec.Body)
		}
		var resp errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Code != codeAlreadyBooked {
			t.Fatalf("expected code %s, got %s", codeAlreadyBooked, resp.Code)
		}
	})

	t.Run("same reference retry is a 200", func(t *testing.T) {
		svc := newFleet(t)
		body := `{"train_id":"express_2000","seats":["01A"],"booking_reference":"ref-a"}`
		if rec := post(svc, body); rec.Code != http.StatusOK {
			t.Fatalf("first reservation: status %d", rec.Code)
		}
		if rec := post(svc, body); rec.Code != http.StatusOK {
			t.Fatalf("expected idempotent retry to succeed, got %d", rec.Code)
		}
	})

	t.Run("malformed payloads are a 400", func(t *testing.T) {
		svc := newFleet(t)
		for _, body := range []string{
			`{"train_id":`,
			`{"train_id":"express_2000","seats":["1A"],"booking_reference":"ref-a"}`,
			`{"train_id":"express_2000","seats":["01A"],"booking_reference":""}`,
			`{"train_id":"  ","seats":["01A"],"booking_reference":"ref-a"}`,
		} {
			rec := post(svc, body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 for %s, got %d", body, rec.Code)
			}
		}
	})
}

func TestHandleResetTrain(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := app.NewFleetService(memory.NewStore(), clock.NewFixed(now))

	req := httptest.NewRequest(http.MethodPost, "/reset/express_2000", nil)
	rec := httptest.NewRecorder()
	HandleResetTrain(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d (%s)", rec.Code, rec.Body)
	}

	trainID, err := domain.NewTrainID("express_2000")
	if err != nil {
		t.Fatalf("new train id: %v", err)
	}
	train, err := svc.Train(context.Background(), trainID)
	if err != nil {
		t.Fatalf("get train after reset: %v", err)
	}
	if len(train.Seats()) != 54 || train.Occupancy() != 0 {
		t.Fatalf("expected a fresh 54-seat train, got %d seats at %f", len(train.Seats()), train.Occupancy())
	}
}
