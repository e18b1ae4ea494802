package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tennisclub/internal/config"
	"tennisclub/internal/database"
	"tennisclub/internal/domain"
	"tennisclub/internal/export"
	"tennisclub/internal/metrics"
	"tennisclub/internal/service"
)

// Services bundles everything the HTTP layer exposes.
type Services struct {
	Bookings *service.BookingService
	Serie    *service.SerieService
	Insoluti *service.InsolutiService
	Reports  *service.ReportService
	Registry *service.RegistryService
	Pricing  *service.PricingService
	Exporter *export.Exporter
}

// HTTPServer is the club's management API.
type HTTPServer struct {
	cfg    *config.APIConfig
	svc    Services
	state  domain.StateRepository
	server *http.Server
	auth   *HTTPAuth
	logger *zerolog.Logger
}

func NewHTTPServer(cfg *config.APIConfig, svc Services, state domain.StateRepository, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{cfg: cfg, svc: svc, state: state, logger: logger}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/settimana", srv.handleSettimana)
	mux.HandleFunc("/api/v1/prenotazioni", srv.handlePrenotazioni)
	mux.HandleFunc("/api/v1/prenotazioni/", srv.handlePrenotazione)
	mux.HandleFunc("/api/v1/serie", srv.handleSerie)
	mux.HandleFunc("/api/v1/serie/", srv.handleSerieDetail)
	mux.HandleFunc("/api/v1/insoluti", srv.handleInsoluti)
	mux.HandleFunc("/api/v1/insoluti/pagamento", srv.handleInsolutiPagamento)
	mux.HandleFunc("/api/v1/soci", srv.handleSoci)
	mux.HandleFunc("/api/v1/soci/", srv.handleSocio)
	mux.HandleFunc("/api/v1/ospiti", srv.handleOspiti)
	mux.HandleFunc("/api/v1/ospiti/", srv.handleOspite)
	mux.HandleFunc("/api/v1/tariffe", srv.handleTariffe)
	mux.HandleFunc("/api/v1/tariffe/", srv.handleTariffa)
	mux.HandleFunc("/api/v1/report/iva", srv.handleReportIVA)
	mux.HandleFunc("/api/v1/report/finanziario", srv.handleReportFinanziario)
	mux.HandleFunc("/api/v1/report/maestri", srv.handleReportMaestri)
	mux.HandleFunc("/api/v1/report/mvp", srv.handleReportMVP)
	mux.HandleFunc("/api/v1/dashboard", srv.handleDashboard)
	mux.HandleFunc("/api/v1/export/insoluti", srv.handleExportInsoluti)
	mux.HandleFunc("/api/v1/export/settimana", srv.handleExportSettimana)
	mux.HandleFunc("/api/v1/meteo", srv.handleMeteo)
	mux.HandleFunc("/api/v1/logo", srv.handleLogo)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return srv
}

// Handler exposes the wrapped mux, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain errors to HTTP statuses: missing rows
// to 404, slot conflicts to 409, validation failures to 400.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot already booked")
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, candidate := range []error{
		service.ErrInvalidHour,
		service.ErrInvalidCampo,
		service.ErrInvalidTipo,
		service.ErrInvalidImporto,
		service.ErrMissingCliente,
		service.ErrInvalidMetodo,
		service.ErrInvalidPeriod,
		service.ErrEmptySerie,
		service.ErrNothingToPay,
		service.ErrAlreadyPaid,
		service.ErrMissingName,
		service.ErrInvalidTipoSocio,
		database.ErrHourOutsideBooking,
		database.ErrNoClient,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
