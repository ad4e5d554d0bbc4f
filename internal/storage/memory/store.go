package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

type seatRecord struct {
	number   int
	coach    string
	ref      string
	bookedAt time.Time
}

// Store is an in-memory seat store with the same contract as the
// Postgres repository. It backs the train data service when no
// database is configured and the deterministic tests.
type Store struct {
	mu     sync.Mutex
	trains map[string]map[string]*seatRecord
}

func NewStore() *Store {
	return &Store{trains: make(map[string]map[string]*seatRecord)}
}

// GetTrain returns a fresh snapshot; the returned aggregate shares no
// state with the store.
func (s *Store) GetTrain(ctx context.Context, trainID domain.TrainID) (*domain.Train, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, found := s.trains[trainID.String()]
	if !found {
		return nil, domain.ErrTrainNotFound
	}

	seats := make([]*domain.Seat, 0, len(records))
	for _, record := range records {
		seat, err := seatFromRecord(record)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return domain.NewTrain(trainID, seats)
}

// Reserve checks every seat before writing any, under one lock, so a
// conflict leaves the store untouched.
func (s *Store) Reserve(ctx context.Context, reservation domain.Reservation, bookedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, found := s.trains[reservation.Train.String()]
	if !found {
		return domain.ErrTrainNotFound
	}

	reference := reservation.BookingReference.String()
	toBook := make([]*seatRecord, 0, len(reservation.Seats))
	for _, seatID := range reservation.Seats {
		record, found := records[seatID.String()]
		if !found {
			return &domain.SeatNotFoundError{SeatID: seatID, TrainID: reservation.Train}
		}
		if record.ref != "" {
			if record.ref == reference {
				continue
			}
			held, err := domain.NewBookingReference(record.ref)
			if err != nil {
				return err
			}
			return &domain.AlreadyBookedError{
				SeatID:    seatID,
				Current:   held,
				Attempted: reservation.BookingReference,
			}
		}
		toBook = append(toBook, record)
	}

	for _, record := range toBook {
		record.ref = reference
		record.bookedAt = bookedAt
	}
	return nil
}

// SaveTrain replaces the train's stored state with the given seats.
func (s *Store) SaveTrain(ctx context.Context, train *domain.Train) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make(map[string]*seatRecord)
	for _, seat := range train.Seats() {
		id := seat.ID()
		record := &seatRecord{
			number: id.Number.Int(),
			coach:  id.Coach.String(),
		}
		if reference, booked := seat.BookingReference(); booked {
			record.ref = reference.String()
		}
		records[id.String()] = record
	}
	s.trains[train.ID().String()] = records
	return nil
}

func seatFromRecord(record *seatRecord) (*domain.Seat, error) {
	number, err := domain.NewSeatNumber(record.number)
	if err != nil {
		return nil, err
	}
	coach, err := domain.NewCoachID(record.coach)
	if err != nil {
		return nil, err
	}
	id := domain.NewSeatID(number, coach)
	if record.ref == "" {
		return domain.NewFreeSeat(id), nil
	}
	reference, err := domain.NewBookingReference(record.ref)
	if err != nil {
		return nil, err
	}
	return domain.NewBookedSeat(id, reference), nil
}
