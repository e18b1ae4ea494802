package models

import "time"

// Ospite is an occasional, non-member player.
type Ospite struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Cognome   string    `json:"cognome"`
	Telefono  string    `json:"telefono,omitempty"`
	Email     string    `json:"email,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "Nome Cognome".
func (o *Ospite) FullName() string {
	return o.Nome + " " + o.Cognome
}
