package domain

// Reservation is the immutable outcome of a successful allocation:
// which seats on which train are held under which booking reference.
// Seats are listed in the order they were selected.
type Reservation struct {
	Train            TrainID
	Seats            []SeatID
	BookingReference BookingReference
}
