package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"tennisclub/internal/domain"
	"tennisclub/internal/models"
)

// ReportService computes the financial, VAT and activity reports.
// Every report reads already-persisted rows; nothing here mutates.
type ReportService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewReportService(repo domain.Repository, logger *zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

// RigaIVA is one paid guest booking with its VAT breakdown.
type RigaIVA struct {
	Prenotazione *models.Prenotazione `json:"prenotazione"`
	Imponibile   float64              `json:"imponibile"`
	IVA          float64              `json:"iva"`
}

// ReportIVA aggregates guest takings with the fixed VAT-inclusive
// rate: imponibile = importo / 1.11, iva = importo - imponibile.
type ReportIVA struct {
	Righe            []RigaIVA `json:"righe"`
	TotaleImporto    float64   `json:"totale_importo"`
	TotaleImponibile float64   `json:"totale_imponibile"`
	TotaleIVA        float64   `json:"totale_iva"`
}

// IVAOspiti builds the VAT report over paid guest bookings in
// [from, to].
func (s *ReportService) IVAOspiti(ctx context.Context, from, to time.Time) (*ReportIVA, error) {
	prenotazioni, err := s.repo.ListPrenotazioniOspitiPagate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &ReportIVA{Righe: make([]RigaIVA, 0, len(prenotazioni))}
	for _, p := range prenotazioni {
		imponibile := models.Imponibile(p.Importo)
		iva := models.RoundCents(p.Importo - imponibile)
		report.Righe = append(report.Righe, RigaIVA{Prenotazione: p, Imponibile: imponibile, IVA: iva})
		report.TotaleImporto = models.RoundCents(report.TotaleImporto + p.Importo)
		report.TotaleImponibile = models.RoundCents(report.TotaleImponibile + imponibile)
		report.TotaleIVA = models.RoundCents(report.TotaleIVA + iva)
	}
	return report, nil
}

// TotaliMetodo splits a period's takings by payment method kind.
type TotaliMetodo struct {
	Contanti float64 `json:"contanti"`
	POS      float64 `json:"pos"`
	Altro    float64 `json:"altro"`
	Totale   float64 `json:"totale"`
}

func (t *TotaliMetodo) add(metodoTipo string, importo float64) {
	switch metodoTipo {
	case models.MetodoContanti:
		t.Contanti = models.RoundCents(t.Contanti + importo)
	case models.MetodoPOS:
		t.POS = models.RoundCents(t.POS + importo)
	default:
		t.Altro = models.RoundCents(t.Altro + importo)
	}
	t.Totale = models.RoundCents(t.Totale + importo)
}

// ReportFinanziario is the cash-register view for one day with its
// month, year and previous-year context.
type ReportFinanziario struct {
	Data           time.Time    `json:"data"`
	Giorno         TotaliMetodo `json:"giorno"`
	Mese           TotaliMetodo `json:"mese"`
	Anno           TotaliMetodo `json:"anno"`
	GiornoSoci     float64      `json:"giorno_soci"`
	GiornoOspiti   float64      `json:"giorno_ospiti"`
	AnnoPrecedente float64      `json:"anno_precedente"`
}

// Finanziario aggregates payments for the day, its month and its
// year, split cash vs card, with the member/guest split for the day
// and the previous full year's total for comparison.
func (s *ReportService) Finanziario(ctx context.Context, giorno time.Time) (*ReportFinanziario, error) {
	report := &ReportFinanziario{Data: giorno}

	dayStart := time.Date(giorno.Year(), giorno.Month(), giorno.Day(), 0, 0, 0, 0, giorno.Location())
	monthStart := time.Date(giorno.Year(), giorno.Month(), 1, 0, 0, 0, 0, giorno.Location())
	yearStart := time.Date(giorno.Year(), 1, 1, 0, 0, 0, 0, giorno.Location())
	// ListPagamenti treats the end as exclusive, so the bound is the
	// next January 1st or December 31 payments would be lost.
	yearEnd := yearStart.AddDate(1, 0, 0)

	anno, err := s.repo.ListPagamenti(ctx, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}
	for _, pg := range anno {
		report.Anno.add(pg.MetodoPagamentoTipo, pg.Importo)
		if !pg.DataPagamento.Before(monthStart) {
			report.Mese.add(pg.MetodoPagamentoTipo, pg.Importo)
		}
		if pg.DataPagamento.Format(models.DateFormat) == dayStart.Format(models.DateFormat) {
			report.Giorno.add(pg.MetodoPagamentoTipo, pg.Importo)
			if pg.IsOspite {
				report.GiornoOspiti = models.RoundCents(report.GiornoOspiti + pg.Importo)
			} else {
				report.GiornoSoci = models.RoundCents(report.GiornoSoci + pg.Importo)
			}
		}
	}

	precedente, err := s.repo.ListPagamenti(ctx,
		yearStart.AddDate(-1, 0, 0), yearEnd.AddDate(-1, 0, 0))
	if err != nil {
		return nil, err
	}
	for _, pg := range precedente {
		report.AnnoPrecedente = models.RoundCents(report.AnnoPrecedente + pg.Importo)
	}
	return report, nil
}

// OreMaestro is one instructor's taught hours in a period.
type OreMaestro struct {
	Maestro    *models.Socio `json:"maestro"`
	OreCorso   int           `json:"ore_corso"`
	OreLezione int           `json:"ore_lezione"`
}

// OreMaestri sums, per instructor, the course and lesson hours booked
// in [from, to]. Rain-cancelled hours do not count.
func (s *ReportService) OreMaestri(ctx context.Context, from, to time.Time) ([]*OreMaestro, error) {
	maestri, err := s.repo.ListMaestri(ctx)
	if err != nil {
		return nil, err
	}
	prenotazioni, err := s.repo.GetPrenotazioniByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*OreMaestro, len(maestri))
	result := make([]*OreMaestro, 0, len(maestri))
	for _, m := range maestri {
		entry := &OreMaestro{Maestro: m}
		byID[m.ID] = entry
		result = append(result, entry)
	}

	for _, p := range prenotazioni {
		if p.SocioID == nil || p.AnnullataPioggia {
			continue
		}
		entry, ok := byID[*p.SocioID]
		if !ok {
			continue
		}
		switch p.TipoPrenotazione {
		case models.TipoCorso:
			entry.OreCorso += p.DurationHours()
		case models.TipoLezione:
			entry.OreLezione += p.DurationHours()
		}
	}
	return result, nil
}

// MVPEntry is one member's played hours in the ranking.
type MVPEntry struct {
	SocioID string `json:"socio_id"`
	Nome    string `json:"nome"`
	Cognome string `json:"cognome"`
	Ore     int    `json:"ore"`
}

// ClassificaMVP ranks members by hours played in the given year,
// most active first. Instructors and rain-cancelled bookings are
// excluded.
func (s *ReportService) ClassificaMVP(ctx context.Context, year int) ([]*MVPEntry, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year, 12, 31, 0, 0, 0, 0, time.Local)
	prenotazioni, err := s.repo.GetPrenotazioniByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*MVPEntry)
	for _, p := range prenotazioni {
		if p.SocioID == nil || p.AnnullataPioggia || p.TipoSocio == models.SocioMaestro {
			continue
		}
		entry, ok := byID[*p.SocioID]
		if !ok {
			entry = &MVPEntry{SocioID: *p.SocioID, Nome: p.NomeCliente, Cognome: p.CognomeCliente}
			byID[*p.SocioID] = entry
		}
		entry.Ore += p.DurationHours()
	}

	ranking := make([]*MVPEntry, 0, len(byID))
	for _, entry := range byID {
		ranking = append(ranking, entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Ore != ranking[j].Ore {
			return ranking[i].Ore > ranking[j].Ore
		}
		return ranking[i].Cognome < ranking[j].Cognome
	})
	return ranking, nil
}

// Dashboard holds the landing-page counters.
type Dashboard struct {
	SociAttivi       int     `json:"soci_attivi"`
	PrenotazioniOggi int     `json:"prenotazioni_oggi"`
	InsolutiCount    int     `json:"insoluti_count"`
	InsolutiTotale   float64 `json:"insoluti_totale"`
}

// GetDashboard loads the counters shown on the landing page.
func (s *ReportService) GetDashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	soci, err := s.repo.CountSociAttivi(ctx)
	if err != nil {
		return nil, err
	}
	oggi, err := s.repo.CountPrenotazioniByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	count, totale, err := s.repo.InsolutiTotals(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		SociAttivi:       soci,
		PrenotazioniOggi: oggi,
		InsolutiCount:    count,
		InsolutiTotale:   totale,
	}, nil
}
