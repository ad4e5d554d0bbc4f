package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

// Client implements the ticket office gateway over the HTTP contracts
// of the train data service and the booking reference service.
type Client struct {
	http          *http.Client
	trainDataURL  string
	referencesURL string
}

const defaultTimeout = 10 * time.Second

func New(trainDataURL, referencesURL string) *Client {
	return &Client{
		http:          &http.Client{Timeout: defaultTimeout},
		trainDataURL:  strings.TrimRight(trainDataURL, "/"),
		referencesURL: strings.TrimRight(referencesURL, "/"),
	}
}

type seatPayload struct {
	Coach            string `json:"coach"`
	SeatNumber       int    `json:"seat_number"`
	BookingReference string `json:"booking_reference"`
}

type trainPayload struct {
	Seats map[string]seatPayload `json:"seats"`
}

type reservationPayload struct {
	TrainID          string   `json:"train_id"`
	Seats            []string `json:"seats"`
	BookingReference string   `json:"booking_reference"`
}

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// GetTrain fetches a full seat-state snapshot from the train data
// service.
func (c *Client) GetTrain(ctx context.Context, trainID domain.TrainID) (*domain.Train, error) {
	url := c.trainDataURL + "/data_for_train/" + trainID.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get train %s: %w", trainID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var payload trainPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode train %s: %w", trainID, err)
	}

	seats := make([]*domain.Seat, 0, len(payload.Seats))
	for _, raw := range payload.Seats {
		seat, err := seatFromPayload(raw)
		if err != nil {
			return nil, fmt.Errorf("train %s: %w", trainID, err)
		}
		seats = append(seats, seat)
	}
	return domain.NewTrain(trainID, seats)
}

// GetBookingReference fetches a fresh reference from the booking
// reference service.
func (c *Client) GetBookingReference(ctx context.Context) (domain.BookingReference, error) {
	url := c.referencesURL + "/booking_reference"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.BookingReference{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.BookingReference{}, fmt.Errorf("get booking reference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.BookingReference{}, responseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.BookingReference{}, fmt.Errorf("read booking reference: %w", err)
	}
	return domain.NewBookingReference(strings.TrimSpace(string(body)))
}

// MakeReservation submits the reservation to the train data service.
// A 409 from the store surfaces as AlreadyBooked: the snapshot the
// caller decided on lost a race.
func (c *Client) MakeReservation(ctx context.Context, reservation domain.Reservation) error {
	seats := make([]string, 0, len(reservation.Seats))
	for _, seatID := range reservation.Seats {
		seats = append(seats, seatID.String())
	}
	payload := reservationPayload{
		TrainID:          reservation.Train.String(),
		Seats:            seats,
		BookingReference: reservation.BookingReference.String(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode reservation: %w", err)
	}

	url := c.trainDataURL + "/reserve"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("make reservation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func seatFromPayload(raw seatPayload) (*domain.Seat, error) {
	number, err := domain.NewSeatNumber(raw.SeatNumber)
	if err != nil {
		return nil, err
	}
	coach, err := domain.NewCoachID(raw.Coach)
	if err != nil {
		return nil, err
	}
	id := domain.NewSeatID(number, coach)
	if raw.BookingReference == "" {
		return domain.NewFreeSeat(id), nil
	}
	reference, err := domain.NewBookingReference(raw.BookingReference)
	if err != nil {
		return nil, err
	}
	return domain.NewBookedSeat(id, reference), nil
}

// responseError turns a non-200 response into the matching domain
// error so gateway failures keep their meaning across the wire.
func responseError(resp *http.Response) error {
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := payload.Error
	if message == "" {
		message = resp.Status
	}

	switch payload.Code {
	case "train_not_found":
		return fmt.Errorf("%w: %s", domain.ErrTrainNotFound, message)
	case "seat_not_found":
		return fmt.Errorf("%w: %s", domain.ErrSeatNotFound, message)
	case "already_booked":
		return fmt.Errorf("%w: %s", domain.ErrAlreadyBooked, message)
	case "validation_error":
		return fmt.Errorf("%w: %s", domain.ErrValidation, message)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrTrainNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyBooked, message)
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message)
}
