package api

import (
	"net/http"

	"tennisclub/internal/models"
)

func (s *HTTPServer) handleSoci(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		onlyActive := r.URL.Query().Get("tutti") == ""
		soci, err := s.svc.Registry.ListSoci(r.Context(), onlyActive)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"soci": soci})
	case http.MethodPost:
		var socio models.Socio
		if err := decodeJSON(r, &socio); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.svc.Registry.CreateSocio(r.Context(), &socio); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, socio)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleSocio(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/v1/soci/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		socio, err := s.svc.Registry.GetSocio(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, socio)
	case http.MethodPut:
		var socio models.Socio
		if err := decodeJSON(r, &socio); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		socio.ID = id
		if err := s.svc.Registry.UpdateSocio(r.Context(), &socio); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, socio)
	case http.MethodDelete:
		if err := s.svc.Registry.DeactivateSocio(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deactivated": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleOspiti(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ospiti, err := s.svc.Registry.ListOspiti(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ospiti": ospiti})
	case http.MethodPost:
		var ospite models.Ospite
		if err := decodeJSON(r, &ospite); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.svc.Registry.CreateOspite(r.Context(), &ospite); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ospite)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleOspite(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/v1/ospiti/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		ospite, err := s.svc.Registry.GetOspite(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ospite)
	case http.MethodPut:
		var ospite models.Ospite
		if err := decodeJSON(r, &ospite); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		ospite.ID = id
		if err := s.svc.Registry.UpdateOspite(r.Context(), &ospite); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ospite)
	case http.MethodDelete:
		if err := s.svc.Registry.DeleteOspite(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTariffe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		onlyActive := r.URL.Query().Get("tutte") == ""
		tariffe, err := s.svc.Registry.ListTariffe(r.Context(), onlyActive)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tariffe": tariffe})
	case http.MethodPost:
		var tariffa models.Tariffa
		if err := decodeJSON(r, &tariffa); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.svc.Registry.CreateTariffa(r.Context(), &tariffa); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tariffa)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTariffa(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/v1/tariffe/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var tariffa models.Tariffa
		if err := decodeJSON(r, &tariffa); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		tariffa.ID = id
		if err := s.svc.Registry.UpdateTariffa(r.Context(), &tariffa); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tariffa)
	case http.MethodDelete:
		if err := s.svc.Registry.DeactivateTariffa(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deactivated": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
