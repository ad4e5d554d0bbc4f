package domain

import (
	"fmt"
	"strings"
)

// TrainID identifies a train. Supplied by callers, never generated
// here.
type TrainID struct {
	value string
}

func NewTrainID(value string) (TrainID, error) {
	if strings.TrimSpace(value) == "" {
		return TrainID{}, fmt.Errorf("%w: train id must not be blank", ErrValidation)
	}
	return TrainID{value: value}, nil
}

func (id TrainID) String() string { return id.value }

func (id TrainID) IsZero() bool { return id.value == "" }

// CoachID is a single uppercase letter A-Z.
type CoachID struct {
	value byte
}

func NewCoachID(value string) (CoachID, error) {
	if len(value) != 1 || value[0] < 'A' || value[0] > 'Z' {
		return CoachID{}, fmt.Errorf("%w: coach id must be one uppercase letter, got %q", ErrValidation, value)
	}
	return CoachID{value: value[0]}, nil
}

func (id CoachID) String() string { return string(id.value) }

// SeatNumber is a seat's position within a coach, in [1, 99].
type SeatNumber struct {
	value int
}

func NewSeatNumber(value int) (SeatNumber, error) {
	if value < 1 || value > 99 {
		return SeatNumber{}, fmt.Errorf("%w: seat number must be between 1 and 99, got %d", ErrValidation, value)
	}
	return SeatNumber{value: value}, nil
}

func (n SeatNumber) Int() int { return n.value }

// String renders the canonical zero-padded form used in seat ids.
func (n SeatNumber) String() string { return fmt.Sprintf("%02d", n.value) }

// BookingReference is an opaque token issued by the booking reference
// service. The zero value means "no reference held".
type BookingReference struct {
	value string
}

func NewBookingReference(value string) (BookingReference, error) {
	if value == "" {
		return BookingReference{}, fmt.Errorf("%w: booking reference must not be empty", ErrValidation)
	}
	return BookingReference{value: value}, nil
}

func (r BookingReference) String() string { return r.value }

func (r BookingReference) IsZero() bool { return r.value == "" }
