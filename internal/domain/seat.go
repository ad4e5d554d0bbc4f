package domain

import (
	"fmt"
	"strconv"
)

// SeatID identifies a seat within a train: a seat number plus the
// coach it belongs to. The canonical text form is the two-digit
// zero-padded number followed by the coach letter, e.g. "01A".
type SeatID struct {
	Number SeatNumber
	Coach  CoachID
}

func NewSeatID(number SeatNumber, coach CoachID) SeatID {
	return SeatID{Number: number, Coach: coach}
}

// ParseSeatID parses the canonical 3-character seat id form.
func ParseSeatID(value string) (SeatID, error) {
	if len(value) != 3 {
		return SeatID{}, fmt.Errorf("%w: seat id %q must be 3 characters", ErrValidation, value)
	}
	for i := 0; i < 2; i++ {
		if value[i] < '0' || value[i] > '9' {
			return SeatID{}, fmt.Errorf("%w: seat id %q must start with a 2-digit number", ErrValidation, value)
		}
	}
	raw, err := strconv.Atoi(value[:2])
	if err != nil {
		return SeatID{}, fmt.Errorf("%w: seat id %q must start with a 2-digit number", ErrValidation, value)
	}
	number, err := NewSeatNumber(raw)
	if err != nil {
		return SeatID{}, err
	}
	coach, err := NewCoachID(value[2:])
	if err != nil {
		return SeatID{}, err
	}
	return SeatID{Number: number, Coach: coach}, nil
}

func (id SeatID) String() string { return id.Number.String() + id.Coach.String() }

// Less orders seat ids lexicographically on their canonical form.
func (id SeatID) Less(other SeatID) bool { return id.String() < other.String() }

// Seat is the booking state of one seat. A seat is owned exclusively
// by its Train and is not safe for concurrent use.
type Seat struct {
	id  SeatID
	ref BookingReference
}

func NewFreeSeat(id SeatID) *Seat { return &Seat{id: id} }

func NewBookedSeat(id SeatID, ref BookingReference) *Seat {
	return &Seat{id: id, ref: ref}
}

// ParseSeat builds a free seat from a canonical seat id string.
func ParseSeat(value string) (*Seat, error) {
	id, err := ParseSeatID(value)
	if err != nil {
		return nil, err
	}
	return NewFreeSeat(id), nil
}

func (s *Seat) ID() SeatID { return s.id }

// BookingReference returns the current reference, reporting whether
// the seat holds one at all.
func (s *Seat) BookingReference() (BookingReference, bool) {
	return s.ref, !s.ref.IsZero()
}

func (s *Seat) IsFree() bool { return s.ref.IsZero() }

// Book applies a reference to the seat. Booking a free seat sets the
// reference, re-booking with the same reference is a no-op, and any
// other reference is rejected leaving the seat unchanged.
func (s *Seat) Book(ref BookingReference) error {
	if s.ref.IsZero() {
		s.ref = ref
		return nil
	}
	if s.ref == ref {
		return nil
	}
	return &AlreadyBookedError{SeatID: s.id, Current: s.ref, Attempted: ref}
}
