package models

import "time"

// Pagamento is a cash-register row tied to exactly one booking.
// Settlement flows may produce several rows against one booking, or
// several bookings settled in one action producing one row each.
type Pagamento struct {
	ID                  string    `json:"id"`
	PrenotazioneID      string    `json:"prenotazione_id"`
	Importo             float64   `json:"importo"`
	DataPagamento       time.Time `json:"data_pagamento"`
	MetodoPagamento     string    `json:"metodo_pagamento"`
	MetodoPagamentoTipo string    `json:"metodo_pagamento_tipo"`
	Note                string    `json:"note,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ValidMetodoTipo reports whether m is a known payment method kind.
func ValidMetodoTipo(m string) bool {
	switch m {
	case MetodoContanti, MetodoPOS, MetodoAbbonamento, MetodoAltro:
		return true
	}
	return false
}
