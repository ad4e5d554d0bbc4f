package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

// Reserver is the minimal interface the reservation endpoint needs.
type Reserver interface {
	Reserve(ctx context.Context, trainID domain.TrainID, seatCount int) (domain.Reservation, error)
}

// HandleReserve returns the handler for the ticket office reservation
// endpoint. NotEnoughFreeSeats and booking conflicts both map to 409:
// normal business outcomes, distinct from system errors by code.
func HandleReserve(office Reserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req reserveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		trainID, err := domain.NewTrainID(req.TrainID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
			return
		}

		reservation, err := office.Reserve(r.Context(), trainID, req.SeatCount)
		if err != nil {
			writeReserveError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(reservationResponse{
			TrainID:          reservation.Train.String(),
			Seats:            seatStrings(reservation.Seats),
			BookingReference: reservation.BookingReference.String(),
		})
	}
}

func writeReserveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSeatCount):
		writeError(w, http.StatusBadRequest, codeInvalidSeatCount, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
	case errors.Is(err, domain.ErrTrainNotFound):
		writeError(w, http.StatusNotFound, codeTrainNotFound, err.Error())
	case errors.Is(err, domain.ErrSeatNotFound):
		writeError(w, http.StatusNotFound, codeSeatNotFound, err.Error())
	case errors.Is(err, domain.ErrNotEnoughFreeSeats):
		writeError(w, http.StatusConflict, codeNotEnoughFreeSeats, err.Error())
	case errors.Is(err, domain.ErrAlreadyBooked):
		writeError(w, http.StatusConflict, codeAlreadyBooked, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type reserveRequest struct {
	TrainID   string `json:"train_id"`
	SeatCount int    `json:"seat_count"`
}

type reservationResponse struct {
	TrainID          string   `json:"train_id"`
	Seats            []string `json:"seats"`
	BookingReference string   `json:"booking_reference"`
}

func seatStrings(seats []domain.SeatID) []string {
	out := make([]string, 0, len(seats))
	for _, seatID := range seats {
		out = append(out, seatID.String())
	}
	return out
}
