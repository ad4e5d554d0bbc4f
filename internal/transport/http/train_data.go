package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

// TrainData is what the train data service handlers need from the
// fleet service.
type TrainData interface {
	Train(ctx context.Context, trainID domain.TrainID) (*domain.Train, error)
	Reserve(ctx context.Context, reservation domain.Reservation) error
	Reset(ctx context.Context, trainID domain.TrainID) error
}

// HandleGetTrain serves GET /data_for_train/{train_id}: the full seat
// snapshot the ticket office decides on.
func HandleGetTrain(svc TrainData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		trainID, ok := parseTrainPath(r.URL.Path, "/data_for_train/")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		train, err := svc.Train(r.Context(), trainID)
		if err != nil {
			writeTrainDataError(w, err)
			return
		}

		seats := make(map[string]seatResponse, len(train.Seats()))
		for _, seat := range train.Seats() {
			id := seat.ID()
			reference := ""
			if current, booked := seat.BookingReference(); booked {
				reference = current.String()
			}
			seats[id.String()] = seatResponse{
				Coach:            id.Coach.String(),
				SeatNumber:       id.Number.Int(),
				BookingReference: reference,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(trainResponse{Seats: seats})
	}
}

// HandleMakeReservation serves POST /reserve on the train data
// service: the atomic check-and-set write. A conflicting seat yields
// 409 and no seat is written.
func HandleMakeReservation(svc TrainData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req reservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		reservation, err := req.toDomain()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
			return
		}

		if err := svc.Reserve(r.Context(), reservation); err != nil {
			writeTrainDataError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(reservationResponse{
			TrainID:          req.TrainID,
			Seats:            req.Seats,
			BookingReference: req.BookingReference,
		})
	}
}

// HandleResetTrain serves POST /reset/{train_id}: replace the train
// with the default all-free fixture. Test tooling only.
func HandleResetTrain(svc TrainData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		trainID, ok := parseTrainPath(r.URL.Path, "/reset/")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if err := svc.Reset(r.Context(), trainID); err != nil {
			writeTrainDataError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeTrainDataError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTrainNotFound):
		writeError(w, http.StatusNotFound, codeTrainNotFound, err.Error())
	case errors.Is(err, domain.ErrSeatNotFound):
		writeError(w, http.StatusNotFound, codeSeatNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyBooked):
		writeError(w, http.StatusConflict, codeAlreadyBooked, err.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidSeatCount):
		writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseTrainPath(path, prefix string) (domain.TrainID, bool) {
	rest, found := strings.CutPrefix(path, prefix)
	if !found || rest == "" || strings.Contains(rest, "/") {
		return domain.TrainID{}, false
	}
	trainID, err := domain.NewTrainID(rest)
	if err != nil {
		return domain.TrainID{}, false
	}
	return trainID, true
}

type seatResponse struct {
	Coach            string `json:"coach"`
	SeatNumber       int    `json:"seat_number"`
	BookingReference string `json:"booking_reference"`
}

type trainResponse struct {
	Seats map[string]seatResponse `json:"seats"`
}

type reservationRequest struct {
	TrainID          string   `json:"train_id"`
	Seats            []string `json:"seats"`
	BookingReference string   `json:"booking_reference"`
}

func (r reservationRequest) toDomain() (domain.Reservation, error) {
	trainID, err := domain.NewTrainID(r.TrainID)
	if err != nil {
		return domain.Reservation{}, err
	}
	reference, err := domain.NewBookingReference(r.BookingReference)
	if err != nil {
		return domain.Reservation{}, err
	}
	seats := make([]domain.SeatID, 0, len(r.Seats))
	for _, raw := range r.Seats {
		seatID, err := domain.ParseSeatID(raw)
		if err != nil {
			return domain.Reservation{}, err
		}
		seats = append(seats, seatID)
	}
	return domain.Reservation{
		Train:            trainID,
		Seats:            seats,
		BookingReference: reference,
	}, nil
}
