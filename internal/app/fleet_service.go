package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/clock"
	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

// TrainStore is the authoritative seat-state store behind the train
// data service. Reserve must check and set every listed seat
// atomically, surfacing AlreadyBooked rather than overwriting.
type TrainStore interface {
	GetTrain(ctx context.Context, trainID domain.TrainID) (*domain.Train, error)
	Reserve(ctx context.Context, reservation domain.Reservation, bookedAt time.Time) error
	SaveTrain(ctx context.Context, train *domain.Train) error
}

// Fixture dimensions for freshly reset trains: coaches A-F with nine
// seats each.
const (
	fixtureCoaches       = "ABCDEF"
	fixtureSeatsPerCoach = 9
)

// FleetService fronts the authoritative seat state: snapshot reads,
// the atomic reserve that is the real linearization point for
// concurrent bookings, and fixture resets.
type FleetService struct {
	store TrainStore
	clock clock.Clock
}

func NewFleetService(store TrainStore, clk clock.Clock) *FleetService {
	return &FleetService{store: store, clock: clk}
}

// Train returns a full snapshot of the train's current seat state.
func (s *FleetService) Train(ctx context.Context, trainID domain.TrainID) (*domain.Train, error) {
	return s.store.GetTrain(ctx, trainID)
}

// Reserve records the reservation. A seat already holding the same
// reference is left as is (idempotent retry); a seat holding a
// different one fails the whole call with AlreadyBooked and nothing is
// written.
func (s *FleetService) Reserve(ctx context.Context, reservation domain.Reservation) error {
	if len(reservation.Seats) == 0 {
		return fmt.Errorf("%w: reservation has no seats", domain.ErrInvalidSeatCount)
	}
	if reservation.BookingReference.IsZero() {
		return fmt.Errorf("%w: reservation has no booking reference", domain.ErrValidation)
	}
	return s.store.Reserve(ctx, reservation, s.clock.Now())
}

// Reset replaces the train with the default all-free fixture.
func (s *FleetService) Reset(ctx context.Context, trainID domain.TrainID) error {
	train, err := EmptyTrain(trainID)
	if err != nil {
		return err
	}
	return s.store.SaveTrain(ctx, train)
}

// EmptyTrain builds the default all-free fixture for a train.
func EmptyTrain(trainID domain.TrainID) (*domain.Train, error) {
	seats := make([]*domain.Seat, 0, len(fixtureCoaches)*fixtureSeatsPerCoach)
	for i := 0; i < len(fixtureCoaches); i++ {
		coach, err := domain.NewCoachID(string(fixtureCoaches[i]))
		if err != nil {
			return nil, err
		}
		for n := 1; n <= fixtureSeatsPerCoach; n++ {
			number, err := domain.NewSeatNumber(n)
			if err != nil {
				return nil, err
			}
			seats = append(seats, domain.NewFreeSeat(domain.NewSeatID(number, coach)))
		}
	}
	return domain.NewTrain(trainID, seats)
}
