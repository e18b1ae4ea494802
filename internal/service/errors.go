package service

import "errors"

// Validation errors surfaced before any write is attempted.
var (
	ErrInvalidHour    = errors.New("hour outside the booking grid")
	ErrInvalidCampo   = errors.New("court number out of range")
	ErrInvalidTipo    = errors.New("unknown booking type")
	ErrInvalidImporto = errors.New("amount must not be negative")
	ErrMissingCliente = errors.New("exactly one of socio and ospite is required")
	ErrInvalidMetodo  = errors.New("unknown payment method")
	ErrInvalidPeriod  = errors.New("end date before start date")
	ErrEmptySerie     = errors.New("no occurrences fall inside the period")
	ErrNothingToPay   = errors.New("no unpaid bookings selected")
	ErrAlreadyPaid    = errors.New("booking is already paid")
)
