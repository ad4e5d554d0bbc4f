package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("invalid value")
	ErrTrainNotFound      = errors.New("train not found")
	ErrSeatNotFound       = errors.New("seat not found")
	ErrAlreadyBooked      = errors.New("seat already booked")
	ErrNotEnoughFreeSeats = errors.New("not enough free seats")
	ErrInvalidSeatCount   = errors.New("invalid seat count")
	ErrEmptyCoach         = errors.New("coach has no seats")
	ErrDuplicateSeat      = errors.New("duplicate seat id")
)

// SeatNotFoundError reports an operation that referenced a seat absent
// from the train it was applied to.
type SeatNotFoundError struct {
	SeatID  SeatID
	TrainID TrainID
}

func (e *SeatNotFoundError) Error() string {
	return fmt.Sprintf("no seat with id %s in train %s", e.SeatID, e.TrainID)
}

func (e *SeatNotFoundError) Unwrap() error { return ErrSeatNotFound }

// AlreadyBookedError reports an attempt to book a seat under a
// different reference than the one it already holds. Re-booking with
// the identical reference is not an error.
type AlreadyBookedError struct {
	SeatID    SeatID
	Current   BookingReference
	Attempted BookingReference
}

func (e *AlreadyBookedError) Error() string {
	return fmt.Sprintf(
		"trying to book seat %s with %q but it's already booked with %q",
		e.SeatID, e.Attempted, e.Current,
	)
}

func (e *AlreadyBookedError) Unwrap() error { return ErrAlreadyBooked }
