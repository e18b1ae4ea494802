package database

import "errors"

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken means another booking already holds the
	// (date, start time, court) slot.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrHourOutsideBooking means a split targeted an hour the
	// booking does not cover.
	ErrHourOutsideBooking = errors.New("hour outside booking range")

	// ErrNoClient means a booking references neither a member nor a
	// guest, or both at once.
	ErrNoClient = errors.New("booking must reference exactly one of socio or ospite")
)
