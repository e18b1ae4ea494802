package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tennisclub/internal/models"
	"tennisclub/internal/service"
)

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	date, err := time.Parse(models.DateFormat, raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// pathID extracts the trailing path element after prefix, empty when
// the path nests deeper.
func pathID(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return strings.TrimSpace(id)
}

func (s *HTTPServer) handleSettimana(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date, ok := parseDateParam(r, "data", time.Now())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	week, err := s.svc.Bookings.GetWeek(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

type createPrenotazioneRequest struct {
	Data             string   `json:"data"`
	Ore              []int    `json:"ore"`
	Campo            int      `json:"campo"`
	TipoCampo        string   `json:"tipo_campo"`
	TipoPrenotazione string   `json:"tipo_prenotazione"`
	SocioID          *string  `json:"socio_id"`
	OspiteID         *string  `json:"ospite_id"`
	Importo          *float64 `json:"importo"`
	Pagato           bool     `json:"pagato"`
	Metodo           string   `json:"metodo"`
	MetodoTipo       string   `json:"metodo_tipo"`
	Note             string   `json:"note"`
}

func (s *HTTPServer) handlePrenotazioni(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body createPrenotazioneRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, err := time.Parse(models.DateFormat, body.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	created, err := s.svc.Bookings.Create(r.Context(), service.CreateBookingInput{
		Data:             date,
		Ore:              body.Ore,
		Campo:            body.Campo,
		TipoCampo:        body.TipoCampo,
		TipoPrenotazione: body.TipoPrenotazione,
		SocioID:          body.SocioID,
		OspiteID:         body.OspiteID,
		Importo:          body.Importo,
		Pagato:           body.Pagato,
		Metodo:           body.Metodo,
		MetodoTipo:       body.MetodoTipo,
		Note:             body.Note,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"prenotazioni": created})
}

func (s *HTTPServer) handlePrenotazione(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/prenotazioni/"

	// The rain endpoint nests one level deeper.
	if strings.HasSuffix(r.URL.Path, "/pioggia") {
		s.handlePioggia(w, r)
		return
	}

	id := pathID(r, prefix)
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.svc.Bookings.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		rawOra := strings.TrimSpace(r.URL.Query().Get("ora"))
		if rawOra == "" {
			if err := s.svc.Bookings.Delete(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
			return
		}
		ora, err := strconv.Atoi(rawOra)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid ora")
			return
		}
		fragments, err := s.svc.Bookings.DeleteHour(r.Context(), id, ora)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "frammenti": fragments})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handlePioggia(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/prenotazioni/"
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/pioggia")
	id = strings.TrimSuffix(id, "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPost:
		p, err := s.svc.Bookings.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		ora := p.StartHour()
		if rawOra := strings.TrimSpace(r.URL.Query().Get("ora")); rawOra != "" {
			var err error
			if ora, err = strconv.Atoi(rawOra); err != nil {
				writeError(w, http.StatusBadRequest, "invalid ora")
				return
			}
		}
		fragments, err := s.svc.Bookings.RainCancelHour(r.Context(), id, ora)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"frammenti": fragments})
	case http.MethodDelete:
		if err := s.svc.Bookings.RestorePioggia(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"restored": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type generateSerieRequest struct {
	Campo      int     `json:"campo"`
	Weekday    int     `json:"giorno_settimana"`
	OraInizio  int     `json:"ora_inizio"`
	DurataOre  int     `json:"durata_ore"`
	DataInizio string  `json:"data_inizio"`
	DataFine   string  `json:"data_fine"`
	TipoCorso  string  `json:"tipo_corso"`
	Tariffa    float64 `json:"tariffa"`
	Note       string  `json:"note"`
	SocioID    *string `json:"socio_id"`
	OspiteID   *string `json:"ospite_id"`
}

func (s *HTTPServer) handleSerie(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		summaries, err := s.svc.Serie.List(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"serie": summaries})
	case http.MethodPost:
		var body generateSerieRequest
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		inizio, err := time.Parse(models.DateFormat, body.DataInizio)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid data_inizio; expected YYYY-MM-DD")
			return
		}
		fine, err := time.Parse(models.DateFormat, body.DataFine)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid data_fine; expected YYYY-MM-DD")
			return
		}

		created, err := s.svc.Serie.Generate(r.Context(), service.GenerateSerieInput{
			Campo:      body.Campo,
			Weekday:    time.Weekday(body.Weekday),
			OraInizio:  body.OraInizio,
			DurataOre:  body.DurataOre,
			DataInizio: inizio,
			DataFine:   fine,
			TipoCorso:  body.TipoCorso,
			Tariffa:    body.Tariffa,
			Note:       body.Note,
			SocioID:    body.SocioID,
			OspiteID:   body.OspiteID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"prenotazioni": created})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleSerieDetail(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/serie/"

	if strings.HasSuffix(r.URL.Path, "/pagamento") {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/pagamento")
		id = strings.TrimSuffix(id, "/")
		if id == "" || strings.Contains(id, "/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		var body struct {
			Metodo     string `json:"metodo"`
			MetodoTipo string `json:"metodo_tipo"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		paid, err := s.svc.Serie.Pay(r.Context(), id, body.Metodo, body.MetodoTipo)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"pagate": paid})
		return
	}

	id := pathID(r, prefix)
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rows, err := s.svc.Serie.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"prenotazioni": rows})
	case http.MethodDelete:
		deleted, err := s.svc.Serie.Delete(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"eliminate": deleted})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleInsoluti(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	until, ok := parseDateParam(r, "fino_a", time.Now())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	groups, err := s.svc.Insoluti.List(r.Context(), until)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insoluti": groups})
}

func (s *HTTPServer) handleInsolutiPagamento(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Prenotazioni []string `json:"prenotazioni"`
		Importo      *float64 `json:"importo"`
		Metodo       string   `json:"metodo"`
		MetodoTipo   string   `json:"metodo_tipo"`
		Note         string   `json:"note"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	allocations, err := s.svc.Insoluti.Settle(r.Context(),
		body.Prenotazioni, body.Importo, body.Metodo, body.MetodoTipo, body.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pagamenti": allocations})
}
