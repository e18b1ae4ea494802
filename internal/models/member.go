package models

import "time"

// Socio is a registered club member. Deactivation is soft: Attivo is
// flipped off and the row kept for history.
type Socio struct {
	ID                  string     `json:"id"`
	Nome                string     `json:"nome"`
	Cognome             string     `json:"cognome"`
	Telefono            string     `json:"telefono,omitempty"`
	Email               string     `json:"email,omitempty"`
	TipoSocio           string     `json:"tipo_socio"`
	ClassificaFITP      string     `json:"classifica_fitp,omitempty"`
	CertificatoScadenza *time.Time `json:"certificato_medico_scadenza,omitempty"`
	Note                string     `json:"note,omitempty"`
	Attivo              bool       `json:"attivo"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FullName returns "Nome Cognome" for display and note building.
func (s *Socio) FullName() string {
	return s.Nome + " " + s.Cognome
}

// IsMaestro reports whether the member is a club instructor.
func (s *Socio) IsMaestro() bool {
	return s.TipoSocio == SocioMaestro
}

// CertificatoValido reports whether the medical certificate covers
// the given day. Frequentatori are exempt.
func (s *Socio) CertificatoValido(at time.Time) bool {
	if s.TipoSocio == SocioFrequentatore {
		return true
	}
	if s.CertificatoScadenza == nil {
		return false
	}
	return !s.CertificatoScadenza.Before(at.Truncate(24 * time.Hour))
}

// ValidTipoSocio reports whether t is a known member category.
func ValidTipoSocio(t string) bool {
	switch t {
	case SocioFrequentatore, SocioNonAgonista, SocioAgonista, SocioMaestro:
		return true
	}
	return false
}
