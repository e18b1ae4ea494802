package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tennisclub/internal/models"
)

func (s *HTTPServer) handleReportIVA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	now := time.Now()
	from, ok := parseDateParam(r, "da", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid da; expected YYYY-MM-DD")
		return
	}
	to, ok := parseDateParam(r, "a", now)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid a; expected YYYY-MM-DD")
		return
	}

	report, err := s.svc.Reports.IVAOspiti(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleReportFinanziario(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	giorno, ok := parseDateParam(r, "data", time.Now())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid data; expected YYYY-MM-DD")
		return
	}

	report, err := s.svc.Reports.Finanziario(r.Context(), giorno)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleReportMaestri(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	now := time.Now()
	from, ok := parseDateParam(r, "da", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid da; expected YYYY-MM-DD")
		return
	}
	to, ok := parseDateParam(r, "a", now)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid a; expected YYYY-MM-DD")
		return
	}

	report, err := s.svc.Reports.OreMaestri(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"maestri": report})
}

func (s *HTTPServer) handleReportMVP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	year := time.Now().Year()
	if raw := strings.TrimSpace(r.URL.Query().Get("anno")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid anno")
			return
		}
		year = parsed
	}

	ranking, err := s.svc.Reports.ClassificaMVP(r.Context(), year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"anno": year, "classifica": ranking})
}

func (s *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dashboard, err := s.svc.Reports.GetDashboard(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *HTTPServer) handleExportInsoluti(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path, err := s.svc.Exporter.InsolutiXLSX(r.Context(), time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}

func (s *HTTPServer) handleExportSettimana(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	date, ok := parseDateParam(r, "data", time.Now())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid data; expected YYYY-MM-DD")
		return
	}

	path, err := s.svc.Exporter.WeekXLSX(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}

// handleMeteo serves the cached forecast. A cold or unreachable cache
// degrades to an empty forecast and never blocks booking screens.
func (s *HTTPServer) handleMeteo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	forecast, err := s.state.GetForecast(r.Context())
	if err != nil || forecast == nil {
		writeJSON(w, http.StatusOK, map[string]any{"giorni": []models.ForecastDay{}})
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (s *HTTPServer) handleLogo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		asset, err := s.state.GetLogo(r.Context())
		if err != nil || asset == nil {
			writeError(w, http.StatusNotFound, "logo not set")
			return
		}
		w.Header().Set("Content-Type", asset.ContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(asset.Data)
	case http.MethodPut:
		data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil || len(data) == 0 {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		asset := &models.Asset{ContentType: contentType, Data: data, UpdatedAt: time.Now()}
		if err := s.state.SetLogo(r.Context(), asset); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store logo")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"stored": true, "bytes": len(data)})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
