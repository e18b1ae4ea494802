package models

import "time"

// Tariffa is a price rule matched on booking type, court type, time
// band and whether the client is a member.
type Tariffa struct {
	ID               string    `json:"id"`
	Nome             string    `json:"nome"`
	TipoPrenotazione string    `json:"tipo_prenotazione"`
	TipoCampo        string    `json:"tipo_campo"`
	Diurno           bool      `json:"diurno"`
	Soci             bool      `json:"soci"`
	PrezzoOra        float64   `json:"prezzo_ora"`
	PrezzoMezzOra    float64   `json:"prezzo_mezz_ora"`
	Attivo           bool      `json:"attivo"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsDiurno reports whether a booking starting at hour falls in the
// daytime band.
func IsDiurno(hour int) bool {
	return hour >= DayStartHour && hour < DayEndHour
}
