package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFeedsReaders(t *testing.T) {
	seed, err := LoadSeed(filepath.Join("testdata", "seed.json"))
	require.NoError(t, err)

	invoices := NewInvoiceReader()
	planning := NewPlanningReader(mrp.Snapshot{})
	seed.Apply(invoices, planning)

	ctx := tenantCtx("t1")
	inv, err := invoices.FindInvoice(ctx, "5b0e6c1e-2f43-4f5e-9a57-6c1d2b7f0a11")
	require.NoError(t, err)
	assert.Equal(t, "FAT-0001", inv.Number)
	assert.Equal(t, "1000", inv.TotalAmount.String())
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "72085100", inv.Items[0].NCM)

	partner, err := invoices.FindBusinessPartner(ctx, inv.PartnerID)
	require.NoError(t, err)
	assert.Equal(t, "RS", partner.State)

	_, err = invoices.FindInvoice(tenantCtx("t2"), inv.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	clock := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	result, err := mrp.NewService(planning, planning, planning, logger.NewNopLogger()).
		WithClock(func() time.Time { return clock }).
		RunMRP(ctx)
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	rec := result.Recommendations[0]
	assert.Equal(t, "CHAPA-01", rec.MaterialCode)
	assert.Equal(t, "10", rec.ShortageQuantity.String())
	assert.Equal(t, "5", rec.Supply.String())
	assert.Equal(t, clock.AddDate(0, 0, 7), rec.RequiredByDate)
}

func TestLoadSeedErrors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "ausente.json"))
	assert.ErrorContains(t, err, "erro ao ler arquivo de carga")

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"invoices": [`), 0o600))
	_, err = LoadSeed(path)
	assert.ErrorContains(t, err, "inválido")
}
