package domain

import (
	"fmt"
	"sort"
)

// Train is the aggregate used for allocation: a fixed collection of
// seats grouped into coaches. The seat set is built once at
// construction and never changes shape afterward.
//
// Invariants:
//   - no two seats share an id
//   - the coach list is exactly the set of coaches of all seats
//
// A Train is an in-memory snapshot private to one request; it does not
// talk to storage and is not safe for concurrent use.
type Train struct {
	id      TrainID
	seats   map[SeatID]*Seat
	coaches []CoachID
}

func NewTrain(id TrainID, seats []*Seat) (*Train, error) {
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: train %s must have at least one seat", ErrValidation, id)
	}
	byID := make(map[SeatID]*Seat, len(seats))
	coachSet := make(map[CoachID]struct{})
	for _, seat := range seats {
		if _, dup := byID[seat.ID()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, seat.ID())
		}
		byID[seat.ID()] = seat
		coachSet[seat.ID().Coach] = struct{}{}
	}
	coaches := make([]CoachID, 0, len(coachSet))
	for coach := range coachSet {
		coaches = append(coaches, coach)
	}
	sort.Slice(coaches, func(i, j int) bool {
		return coaches[i].String() < coaches[j].String()
	})
	return &Train{id: id, seats: byID, coaches: coaches}, nil
}

func (t *Train) ID() TrainID { return t.id }

// BookingReference returns the reference held by the given seat; ok is
// false when the seat is unknown or free.
func (t *Train) BookingReference(id SeatID) (BookingReference, bool) {
	seat, found := t.seats[id]
	if !found {
		return BookingReference{}, false
	}
	return seat.BookingReference()
}

func (t *Train) seat(id SeatID) (*Seat, error) {
	seat, found := t.seats[id]
	if !found {
		return nil, &SeatNotFoundError{SeatID: id, TrainID: t.id}
	}
	return seat, nil
}

// IsFree reports whether the seat is unbooked; unknown ids are an
// error.
func (t *Train) IsFree(id SeatID) (bool, error) {
	seat, err := t.seat(id)
	if err != nil {
		return false, err
	}
	return seat.IsFree(), nil
}

// Book applies the reference to every listed seat. The batch is
// atomic: all seats are checked before any is modified, so a
// SeatNotFound or AlreadyBooked failure leaves the train unchanged.
func (t *Train) Book(ids []SeatID, ref BookingReference) error {
	seats := make([]*Seat, 0, len(ids))
	for _, id := range ids {
		seat, err := t.seat(id)
		if err != nil {
			return err
		}
		if current, booked := seat.BookingReference(); booked && current != ref {
			return &AlreadyBookedError{SeatID: id, Current: current, Attempted: ref}
		}
		seats = append(seats, seat)
	}
	for _, seat := range seats {
		if err := seat.Book(ref); err != nil {
			return err
		}
	}
	return nil
}

// Seats returns all seats in unspecified order.
func (t *Train) Seats() []*Seat {
	out := make([]*Seat, 0, len(t.seats))
	for _, seat := range t.seats {
		out = append(out, seat)
	}
	return out
}

// SeatsInCoach returns the coach's seats sorted ascending by seat id.
// The allocation policy relies on this ordering to hand out
// low-numbered seats first.
func (t *Train) SeatsInCoach(coach CoachID) []*Seat {
	out := make([]*Seat, 0)
	for _, seat := range t.seats {
		if seat.ID().Coach == coach {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	return out
}

// Coaches returns the distinct coach ids, sorted ascending.
func (t *Train) Coaches() []CoachID {
	out := make([]CoachID, len(t.coaches))
	copy(out, t.coaches)
	return out
}

func (t *Train) countInCoach(coach CoachID) (occupied, total int) {
	for _, seat := range t.seats {
		if seat.ID().Coach != coach {
			continue
		}
		total++
		if !seat.IsFree() {
			occupied++
		}
	}
	return occupied, total
}

func (t *Train) countOccupied() int {
	occupied := 0
	for _, seat := range t.seats {
		if !seat.IsFree() {
			occupied++
		}
	}
	return occupied
}

// OccupancyForCoach returns the fraction of the coach's seats that are
// booked.
func (t *Train) OccupancyForCoach(coach CoachID) (float64, error) {
	occupied, total := t.countInCoach(coach)
	if total == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyCoach, coach)
	}
	return float64(occupied) / float64(total), nil
}

// OccupancyForCoachAfterBooking projects the coach occupancy after
// booking seatCount more seats in it. Does not mutate the train.
func (t *Train) OccupancyForCoachAfterBooking(coach CoachID, seatCount int) (float64, error) {
	occupied, total := t.countInCoach(coach)
	if total == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyCoach, coach)
	}
	return float64(occupied+seatCount) / float64(total), nil
}

// OccupancyAfterBooking projects the whole-train occupancy after
// booking seatCount more seats.
func (t *Train) OccupancyAfterBooking(seatCount int) float64 {
	return float64(t.countOccupied()+seatCount) / float64(len(t.seats))
}

// Occupancy returns the fraction of the train's seats that are booked.
func (t *Train) Occupancy() float64 {
	return float64(t.countOccupied()) / float64(len(t.seats))
}
