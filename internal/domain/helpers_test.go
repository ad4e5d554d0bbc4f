package domain

import "testing"

func mustTrainID(t *testing.T, value string) TrainID {
	t.Helper()
	id, err := NewTrainID(value)
	if err != nil {
		t.Fatalf("new train id %q: %v", value, err)
	}
	return id
}

func mustSeatID(t *testing.T, value string) SeatID {
	t.Helper()
	id, err := ParseSeatID(value)
	if err != nil {
		t.Fatalf("parse seat id %q: %v", value, err)
	}
	return id
}

func mustReference(t *testing.T, value string) BookingReference {
	t.Helper()
	ref, err := NewBookingReference(value)
	if err != nil {
		t.Fatalf("new booking reference %q: %v", value, err)
	}
	return ref
}

func mustCoachID(t *testing.T, value string) CoachID {
	t.Helper()
	coach, err := NewCoachID(value)
	if err != nil {
		t.Fatalf("new coach id %q: %v", value, err)
	}
	return coach
}

// makeTrain builds a train with the given coaches, nine free seats per
// coach.
func makeTrain(t *testing.T, id string, coaches string) *Train {
	t.Helper()
	var seats []*Seat
	for i := 0; i < len(coaches); i++ {
		coach := mustCoachID(t, string(coaches[i]))
		for n := 1; n <= 9; n++ {
			number, err := NewSeatNumber(n)
			if err != nil {
				t.Fatalf("new seat number %d: %v", n, err)
			}
			seats = append(seats, NewFreeSeat(NewSeatID(number, coach)))
		}
	}
	train, err := NewTrain(mustTrainID(t, id), seats)
	if err != nil {
		t.Fatalf("new train: %v", err)
	}
	return train
}

// bookFirstSeats books the first count seats of the coach under the
// given reference.
func bookFirstSeats(t *testing.T, train *Train, coach string, count int, reference string) {
	t.Helper()
	seats := train.SeatsInCoach(mustCoachID(t, coach))
	if len(seats) < count {
		t.Fatalf("coach %s has only %d seats, wanted %d", coach, len(seats), count)
	}
	ids := make([]SeatID, 0, count)
	for _, seat := range seats[:count] {
		ids = append(ids, seat.ID())
	}
	if err := train.Book(ids, mustReference(t, reference)); err != nil {
		t.Fatalf("book seats in coach %s: %v", coach, err)
	}
}
