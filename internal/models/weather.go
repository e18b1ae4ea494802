package models

import "time"

// Forecast is the cached daily outlook used by the booking grid to
// warn about likely rain days.
type Forecast struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	FetchedAt time.Time     `json:"fetched_at"`
	Days      []ForecastDay `json:"days"`
}

type ForecastDay struct {
	Data         string  `json:"data"`
	WeatherCode  int     `json:"weather_code"`
	Descrizione  string  `json:"descrizione"`
	TempMax      float64 `json:"temp_max"`
	TempMin      float64 `json:"temp_min"`
	PrecipitProb int     `json:"precipitazioni_prob"`
	VentoMax     float64 `json:"vento_max"`
}

// DayFor returns the forecast entry for the given date, if present.
func (f *Forecast) DayFor(date time.Time) (ForecastDay, bool) {
	key := date.Format(DateFormat)
	for _, d := range f.Days {
		if d.Data == key {
			return d, true
		}
	}
	return ForecastDay{}, false
}

// Asset is a small binary blob kept in the state store, e.g. the
// club logo shown by the console.
type Asset struct {
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// wmoDescriptions maps WMO weather interpretation codes to the
// Italian labels the console displays.
var wmoDescriptions = map[int]string{
	0:  "Sereno",
	1:  "Prevalentemente sereno",
	2:  "Parzialmente nuvoloso",
	3:  "Coperto",
	45: "Nebbia",
	48: "Nebbia con brina",
	51: "Pioviggine leggera",
	53: "Pioviggine moderata",
	55: "Pioviggine intensa",
	61: "Pioggia leggera",
	63: "Pioggia moderata",
	65: "Pioggia intensa",
	66: "Pioggia gelata leggera",
	67: "Pioggia gelata intensa",
	71: "Neve leggera",
	73: "Neve moderata",
	75: "Neve intensa",
	77: "Granelli di neve",
	80: "Rovesci leggeri",
	81: "Rovesci moderati",
	82: "Rovesci violenti",
	85: "Rovesci di neve leggeri",
	86: "Rovesci di neve intensi",
	95: "Temporale",
	96: "Temporale con grandine leggera",
	99: "Temporale con grandine intensa",
}

// WeatherDescription translates a WMO code to its display label.
func WeatherDescription(code int) string {
	if d, ok := wmoDescriptions[code]; ok {
		return d
	}
	return "Sconosciuto"
}

// IsRainy reports whether a WMO code indicates precipitation.
func IsRainy(code int) bool {
	return code >= 51
}
