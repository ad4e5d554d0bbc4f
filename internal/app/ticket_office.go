package app

import (
	"context"
	"fmt"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

// Client is the gateway to the external collaborators: the train data
// store and the booking reference service. GetTrain must return a full
// snapshot of the train's seat state, GetBookingReference a reference
// no other successful call will ever return, and MakeReservation must
// report conflicts distinctly from other failures.
type Client interface {
	GetTrain(ctx context.Context, trainID domain.TrainID) (*domain.Train, error)
	GetBookingReference(ctx context.Context) (domain.BookingReference, error)
	MakeReservation(ctx context.Context, reservation domain.Reservation) error
}

// MaxOccupancy is the fleet-wide booking policy: no coach, and no
// train as a whole, may end up more than 70% occupied as the result of
// a reservation.
const MaxOccupancy = 0.70

// TicketOffice decides which coach and which seats satisfy a
// reservation request.
type TicketOffice struct {
	client Client
}

func NewTicketOffice(client Client) *TicketOffice {
	return &TicketOffice{client: client}
}

// Reserve books seatCount seats on the given train, all in one coach,
// chosen first-fit in ascending coach order. The snapshot it decides
// on can be stale by the time the reservation is submitted; the store
// behind the gateway is the authority, and its conflict errors
// propagate unchanged. No retries happen here.
func (o *TicketOffice) Reserve(ctx context.Context, trainID domain.TrainID, seatCount int) (domain.Reservation, error) {
	if seatCount < 1 {
		return domain.Reservation{}, fmt.Errorf("%w: %d", domain.ErrInvalidSeatCount, seatCount)
	}

	train, err := o.client.GetTrain(ctx, trainID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("get train %s: %w", trainID, err)
	}

	coach, found, err := findCoach(train, seatCount)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !found || train.OccupancyAfterBooking(seatCount) > MaxOccupancy {
		return domain.Reservation{}, domain.ErrNotEnoughFreeSeats
	}

	seatIDs := make([]domain.SeatID, 0, seatCount)
	for _, seat := range train.SeatsInCoach(coach) {
		if !seat.IsFree() {
			continue
		}
		seatIDs = append(seatIDs, seat.ID())
		if len(seatIDs) == seatCount {
			break
		}
	}

	reference, err := o.client.GetBookingReference(ctx)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("get booking reference: %w", err)
	}

	reservation := domain.Reservation{
		Train:            trainID,
		Seats:            seatIDs,
		BookingReference: reference,
	}
	if err := o.client.MakeReservation(ctx, reservation); err != nil {
		return domain.Reservation{}, err
	}
	return reservation, nil
}

// findCoach returns the first coach, in ascending order, that stays
// within the occupancy policy after booking seatCount more seats.
// First-fit, not best-fit: coaches fill roughly in order.
func findCoach(train *domain.Train, seatCount int) (domain.CoachID, bool, error) {
	for _, coach := range train.Coaches() {
		occupancy, err := train.OccupancyForCoachAfterBooking(coach, seatCount)
		if err != nil {
			return domain.CoachID{}, false, err
		}
		if occupancy <= MaxOccupancy {
			return coach, true, nil
		}
	}
	return domain.CoachID{}, false, nil
}
