package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmerejkowsky/train-reservation-ddd/internal/domain"
)

// TrainRepository is the Postgres-backed authoritative seat store. One
// row per seat, keyed by (train_id, seat_id); Reserve locks every seat
// row before writing so concurrent bookings of overlapping seats
// serialize and lose with AlreadyBooked instead of overwriting.
type TrainRepository struct {
	pool *pgxpool.Pool
}

func NewTrainRepository(pool *pgxpool.Pool) *TrainRepository {
	return &TrainRepository{pool: pool}
}

func (r *TrainRepository) GetTrain(ctx context.Context, trainID domain.TrainID) (*domain.Train, error) {
	const query = `
SELECT seat_number, coach, booking_reference
FROM seats
WHERE train_id = $1
ORDER BY seat_id`

	rows, err := r.query(ctx, query, trainID.String())
	if err != nil {
		return nil, fmt.Errorf("get train %s: %w", trainID, err)
	}
	defer rows.Close()

	var seats []*domain.Seat
	for rows.Next() {
		var (
			rawNumber int
			rawCoach  string
			rawRef    *string
		)
		if err := rows.Scan(&rawNumber, &rawCoach, &rawRef); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seat, err := seatFromRow(rawNumber, rawCoach, rawRef)
		if err != nil {
			return nil, fmt.Errorf("train %s: %w", trainID, err)
		}
		seats = append(seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get train %s: %w", trainID, err)
	}
	if len(seats) == 0 {
		return nil, domain.ErrTrainNotFound
	}
	return domain.NewTrain(trainID, seats)
}

// Reserve applies the reservation atomically. Every seat row is locked
// FOR UPDATE first; a seat holding a different reference aborts the
// transaction, a seat already holding the same reference is skipped.
func (r *TrainRepository) Reserve(ctx context.Context, reservation domain.Reservation, bookedAt time.Time) error {
	const lockQuery = `
SELECT booking_reference
FROM seats
WHERE train_id = $1 AND seat_id = $2
FOR UPDATE`

	const bookStmt = `
UPDATE seats
SET booking_reference = $1, booked_at = $2
WHERE train_id = $3 AND seat_id = $4 AND booking_reference IS NULL`

	trainID := reservation.Train.String()
	reference := reservation.BookingReference.String()

	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		toBook := make([]domain.SeatID, 0, len(reservation.Seats))
		for _, seatID := range reservation.Seats {
			var current *string
			err := r.queryRow(txCtx, lockQuery, trainID, seatID.String()).Scan(&current)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return &domain.SeatNotFoundError{SeatID: seatID, TrainID: reservation.Train}
				}
				return fmt.Errorf("lock seat %s: %w", seatID, err)
			}
			if current != nil && *current != "" {
				if *current == reference {
					continue
				}
				held, err := domain.NewBookingReference(*current)
				if err != nil {
					return fmt.Errorf("seat %s: %w", seatID, err)
				}
				return &domain.AlreadyBookedError{
					SeatID:    seatID,
					Current:   held,
					Attempted: reservation.BookingReference,
				}
			}
			toBook = append(toBook, seatID)
		}

		for _, seatID := range toBook {
			if _, err := r.exec(txCtx, bookStmt, reference, bookedAt, trainID, seatID.String()); err != nil {
				return fmt.Errorf("book seat %s: %w", seatID, err)
			}
		}
		return nil
	})
}

// SaveTrain replaces the train's rows with the given seat state.
func (r *TrainRepository) SaveTrain(ctx context.Context, train *domain.Train) error {
	const deleteStmt = `DELETE FROM seats WHERE train_id = $1`
	const insertStmt = `
INSERT INTO seats (train_id, seat_id, coach, seat_number, booking_reference)
VALUES ($1, $2, $3, $4, $5)`

	trainID := train.ID().String()

	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		if _, err := r.exec(txCtx, deleteStmt, trainID); err != nil {
			return fmt.Errorf("clear train %s: %w", trainID, err)
		}
		for _, seat := range train.Seats() {
			var ref *string
			if current, booked := seat.BookingReference(); booked {
				value := current.String()
				ref = &value
			}
			id := seat.ID()
			_, err := r.exec(txCtx, insertStmt,
				trainID,
				id.String(),
				id.Coach.String(),
				id.Number.Int(),
				ref,
			)
			if err != nil {
				return fmt.Errorf("insert seat %s: %w", id, err)
			}
		}
		return nil
	})
}

func seatFromRow(rawNumber int, rawCoach string, rawRef *string) (*domain.Seat, error) {
	number, err := domain.NewSeatNumber(rawNumber)
	if err != nil {
		return nil, err
	}
	coach, err := domain.NewCoachID(rawCoach)
	if err != nil {
		return nil, err
	}
	id := domain.NewSeatID(number, coach)
	if rawRef == nil || *rawRef == "" {
		return domain.NewFreeSeat(id), nil
	}
	reference, err := domain.NewBookingReference(*rawRef)
	if err != nil {
		return nil, err
	}
	return domain.NewBookedSeat(id, reference), nil
}

func (r *TrainRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TrainRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *TrainRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
