package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tennisclub/internal/domain"
	"tennisclub/internal/models"
)

// Registry validation errors.
var (
	ErrMissingName      = errors.New("nome and cognome are required")
	ErrInvalidTipoSocio = errors.New("unknown member category")
)

// RegistryService manages the member, guest and tariff registries.
type RegistryService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRegistryService(repo domain.Repository, logger *zerolog.Logger) *RegistryService {
	return &RegistryService{repo: repo, logger: logger}
}

// SocioView is a member with the derived certificate state the list
// screen surfaces.
type SocioView struct {
	*models.Socio
	CertificatoValido bool `json:"certificato_valido"`
}

// ListSoci returns members with their certificate validity as of now.
func (s *RegistryService) ListSoci(ctx context.Context, onlyActive bool) ([]*SocioView, error) {
	soci, err := s.repo.ListSoci(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	views := make([]*SocioView, 0, len(soci))
	now := time.Now()
	for _, socio := range soci {
		views = append(views, &SocioView{
			Socio:             socio,
			CertificatoValido: socio.CertificatoValido(now),
		})
	}
	return views, nil
}

func (s *RegistryService) GetSocio(ctx context.Context, id string) (*models.Socio, error) {
	return s.repo.GetSocio(ctx, id)
}

func (s *RegistryService) CreateSocio(ctx context.Context, socio *models.Socio) error {
	if err := validateSocio(socio); err != nil {
		return err
	}
	socio.Attivo = true
	return s.repo.CreateSocio(ctx, socio)
}

func (s *RegistryService) UpdateSocio(ctx context.Context, socio *models.Socio) error {
	if err := validateSocio(socio); err != nil {
		return err
	}
	return s.repo.UpdateSocio(ctx, socio)
}

// DeactivateSocio soft-deletes a member; the row stays for history.
func (s *RegistryService) DeactivateSocio(ctx context.Context, id string) error {
	return s.repo.DeactivateSocio(ctx, id)
}

func validateSocio(socio *models.Socio) error {
	if socio.Nome == "" || socio.Cognome == "" {
		return ErrMissingName
	}
	if !models.ValidTipoSocio(socio.TipoSocio) {
		return ErrInvalidTipoSocio
	}
	return nil
}

func (s *RegistryService) ListOspiti(ctx context.Context) ([]*models.Ospite, error) {
	return s.repo.ListOspiti(ctx)
}

func (s *RegistryService) GetOspite(ctx context.Context, id string) (*models.Ospite, error) {
	return s.repo.GetOspite(ctx, id)
}

func (s *RegistryService) CreateOspite(ctx context.Context, ospite *models.Ospite) error {
	if ospite.Nome == "" || ospite.Cognome == "" {
		return ErrMissingName
	}
	return s.repo.CreateOspite(ctx, ospite)
}

func (s *RegistryService) UpdateOspite(ctx context.Context, ospite *models.Ospite) error {
	if ospite.Nome == "" || ospite.Cognome == "" {
		return ErrMissingName
	}
	return s.repo.UpdateOspite(ctx, ospite)
}

// DeleteOspite hard-deletes a guest. The delete fails while bookings
// still reference the guest.
func (s *RegistryService) DeleteOspite(ctx context.Context, id string) error {
	return s.repo.DeleteOspite(ctx, id)
}

func (s *RegistryService) ListTariffe(ctx context.Context, onlyActive bool) ([]*models.Tariffa, error) {
	return s.repo.ListTariffe(ctx, onlyActive)
}

func (s *RegistryService) CreateTariffa(ctx context.Context, tariffa *models.Tariffa) error {
	if err := validateTariffa(tariffa); err != nil {
		return err
	}
	tariffa.Attivo = true
	return s.repo.CreateTariffa(ctx, tariffa)
}

func (s *RegistryService) UpdateTariffa(ctx context.Context, tariffa *models.Tariffa) error {
	if err := validateTariffa(tariffa); err != nil {
		return err
	}
	return s.repo.UpdateTariffa(ctx, tariffa)
}

func (s *RegistryService) DeactivateTariffa(ctx context.Context, id string) error {
	return s.repo.DeactivateTariffa(ctx, id)
}

func validateTariffa(tariffa *models.Tariffa) error {
	if !models.ValidTipoPrenotazione(tariffa.TipoPrenotazione) {
		return ErrInvalidTipo
	}
	if tariffa.PrezzoOra < 0 || tariffa.PrezzoMezzOra < 0 {
		return ErrInvalidImporto
	}
	return nil
}
