package models

// Booking types (tipo_prenotazione).
const (
	TipoSingolare = "singolare"
	TipoDoppio    = "doppio"
	TipoCorso     = "corso"
	TipoLezione   = "lezione"
)

// Court types (tipo_campo).
const (
	CampoScoperto = "scoperto"
	CampoCoperto  = "coperto"
)

// Payment states (stato_pagamento).
const (
	StatoPagato   = "pagato"
	StatoDaPagare = "da_pagare"
)

// Member categories (tipo_socio).
const (
	SocioFrequentatore = "frequentatore"
	SocioNonAgonista   = "non_agonista"
	SocioAgonista      = "agonista"
	SocioMaestro       = "maestro"
)

// Payment method types (metodo_pagamento_tipo).
const (
	MetodoContanti    = "contanti"
	MetodoPOS         = "pos"
	MetodoAbbonamento = "abbonamento"
	MetodoAltro       = "altro"
)

// Recurring course kinds (tipo_corso on series creation).
const (
	CorsoRagazzi      = "corso_ragazzi"
	CorsoAdulti       = "corso_adulti"
	AbbonamentoSocio  = "abbonamento_socio"
	AbbonamentoOspite = "abbonamento_ospite"
	LezioniPrivate    = "lezioni_private"
)

const (
	// FirstSlotHour and LastSlotHour bound the hourly booking grid.
	FirstSlotHour = 8
	LastSlotHour  = 23

	// DayStartHour and DayEndHour define the diurno window: a booking
	// starting at h is diurno when DayStartHour <= h < DayEndHour.
	DayStartHour = 8
	DayEndHour   = 20

	// Courts is the number of courts the club operates.
	Courts = 2

	// VATRate is the fixed VAT-inclusive rate applied to guest takings.
	VATRate = 0.11

	// SeriesNoteSeparator joins the legacy series note parts
	// "<tipo> - <nome> - <extra>".
	SeriesNoteSeparator = " - "
)

const (
	// DefaultForecastTTL is how long a cached forecast stays valid.
	DefaultForecastTTL = 30 * 60 // seconds

	// DefaultWeatherPollMinutes is the forecast refresh interval.
	DefaultWeatherPollMinutes = 5

	// DefaultForecastDays asked of the weather API.
	DefaultForecastDays = 10
)
