package service

import (
	"context"
	"testing"
	"time"

	"tennisclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSociCertificateState(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	expired := time.Now().AddDate(0, -1, 0)
	valid := time.Now().AddDate(0, 6, 0)

	require.NoError(t, env.registry.CreateSocio(ctx, &models.Socio{
		Nome: "Mario", Cognome: "Rossi", TipoSocio: models.SocioAgonista,
		CertificatoScadenza: &expired,
	}))
	require.NoError(t, env.registry.CreateSocio(ctx, &models.Socio{
		Nome: "Anna", Cognome: "Verdi", TipoSocio: models.SocioNonAgonista,
		CertificatoScadenza: &valid,
	}))
	// Frequentatori need no certificate.
	require.NoError(t, env.registry.CreateSocio(ctx, &models.Socio{
		Nome: "Luca", Cognome: "Bianchi", TipoSocio: models.SocioFrequentatore,
	}))

	views, err := env.registry.ListSoci(ctx, true)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byCognome := make(map[string]*SocioView)
	for _, v := range views {
		byCognome[v.Cognome] = v
	}
	assert.False(t, byCognome["Rossi"].CertificatoValido)
	assert.True(t, byCognome["Verdi"].CertificatoValido)
	assert.True(t, byCognome["Bianchi"].CertificatoValido)
}

func TestCreateSocioValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	err := env.registry.CreateSocio(ctx, &models.Socio{Nome: "Mario", TipoSocio: models.SocioAgonista})
	assert.ErrorIs(t, err, ErrMissingName)

	err = env.registry.CreateSocio(ctx, &models.Socio{Nome: "Mario", Cognome: "Rossi", TipoSocio: "vip"})
	assert.ErrorIs(t, err, ErrInvalidTipoSocio)
}

func TestOspiteLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	ospite := &models.Ospite{Nome: "Luca", Cognome: "Bianchi", Telefono: "333 1234567"}
	require.NoError(t, env.registry.CreateOspite(ctx, ospite))

	ospite.Note = "amico di Mario"
	require.NoError(t, env.registry.UpdateOspite(ctx, ospite))

	got, err := env.registry.GetOspite(ctx, ospite.ID)
	require.NoError(t, err)
	assert.Equal(t, "amico di Mario", got.Note)

	require.NoError(t, env.registry.DeleteOspite(ctx, ospite.ID))
	list, err := env.registry.ListOspiti(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTariffaValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	err := env.registry.CreateTariffa(ctx, &models.Tariffa{TipoPrenotazione: "padel", PrezzoOra: 10})
	assert.ErrorIs(t, err, ErrInvalidTipo)

	err = env.registry.CreateTariffa(ctx, &models.Tariffa{
		TipoPrenotazione: models.TipoSingolare, TipoCampo: models.CampoScoperto, PrezzoOra: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidImporto)

	require.NoError(t, env.registry.CreateTariffa(ctx, &models.Tariffa{
		Nome:             "Base",
		TipoPrenotazione: models.TipoSingolare,
		TipoCampo:        models.CampoScoperto,
		Diurno:           true,
		Soci:             true,
		PrezzoOra:        12,
		PrezzoMezzOra:    7,
	}))

	tariffe, err := env.registry.ListTariffe(ctx, true)
	require.NoError(t, err)
	require.Len(t, tariffe, 1)
	assert.True(t, tariffe[0].Attivo)
}
