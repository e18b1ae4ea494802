package models

import "time"

// Prenotazione is a court reservation. Exactly one of SocioID and
// OspiteID is set. The creation path always books whole single hours,
// but a row may span several hours (imported or merged data); rain
// cancellation and deletion split such rows back into fragments.
// Occurrences of a recurring series share SerieID.
type Prenotazione struct {
	ID               string     `json:"id"`
	Data             time.Time  `json:"data"`
	OraInizio        string     `json:"ora_inizio"`
	OraFine          string     `json:"ora_fine"`
	Campo            int        `json:"campo"`
	TipoCampo        string     `json:"tipo_campo"`
	TipoPrenotazione string     `json:"tipo_prenotazione"`
	Diurno           bool       `json:"diurno"`
	SocioID          *string    `json:"socio_id,omitempty"`
	OspiteID         *string    `json:"ospite_id,omitempty"`
	Importo          float64    `json:"importo"`
	StatoPagamento   string     `json:"stato_pagamento"`
	SerieID          *string    `json:"serie_id,omitempty"`
	Note             string     `json:"note,omitempty"`
	AnnullataPioggia bool       `json:"annullata_pioggia"`
	DataAnnullamento *time.Time `json:"data_annullamento_pioggia,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Joined client fields, populated on reads.
	NomeCliente    string `json:"nome_cliente,omitempty"`
	CognomeCliente string `json:"cognome_cliente,omitempty"`
	TipoSocio      string `json:"tipo_socio,omitempty"`
}

// IsOspite reports whether the booking belongs to a guest.
func (p *Prenotazione) IsOspite() bool {
	return p.OspiteID != nil
}

// ClienteLabel returns the joined client name for display.
func (p *Prenotazione) ClienteLabel() string {
	if p.NomeCliente == "" && p.CognomeCliente == "" {
		return ""
	}
	return p.NomeCliente + " " + p.CognomeCliente
}

// StartHour parses OraInizio ("HH:MM") into an hour, -1 if malformed.
func (p *Prenotazione) StartHour() int {
	return HourOf(p.OraInizio)
}

// DurationHours returns the booked span in whole hours.
func (p *Prenotazione) DurationHours() int {
	start, end := HourOf(p.OraInizio), HourOf(p.OraFine)
	if start < 0 || end <= start {
		return 0
	}
	return end - start
}

// ValidTipoPrenotazione reports whether t is a known booking type.
func ValidTipoPrenotazione(t string) bool {
	switch t {
	case TipoSingolare, TipoDoppio, TipoCorso, TipoLezione:
		return true
	}
	return false
}

// TipoForCorso maps a recurring-series kind to the booking type its
// occurrences are stored with.
func TipoForCorso(tipoCorso string) string {
	switch tipoCorso {
	case CorsoRagazzi, CorsoAdulti:
		return TipoCorso
	case LezioniPrivate:
		return TipoLezione
	default:
		return TipoSingolare
	}
}

// IsAbbonamento reports whether a series kind bills by subscription,
// leaving its occurrences unpaid until settled.
func IsAbbonamento(tipoCorso string) bool {
	return tipoCorso == AbbonamentoSocio || tipoCorso == AbbonamentoOspite
}
