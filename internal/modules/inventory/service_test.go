package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

func newTestService() (Service, Repository, catalog.Service) {
	repo := NewMemoryRepository()
	catalogs := catalog.NewService(catalog.NewMemoryRepository(catalog.Default()), catalog.DefaultVATRate)
	return NewService(repo, catalogs), repo, catalogs
}

func auroraRequest() CreateVehicleRequest {
	return CreateVehicleRequest{
		Model:         "Aurora",
		Trim:          "Style",
		FuelType:      "Benzina",
		ExteriorColor: "Nero Metallizzato",
		Transmission:  "Manuale",
		Accessories:   []string{"Navigatore"},
		Location:      "Stock Dealer",
		Telaio:        "zfa123",
	}
}

func strPtr(s string) *string { return &s }

func TestCreateComputesPrice(t *testing.T) {
	svc, _, _ := newTestService()
	v, err := svc.Create(context.Background(), auroraRequest())
	require.NoError(t, err)

	assert.Equal(t, 23500.0, v.Price)
	assert.Equal(t, StatusAvailable, v.Status)
	assert.Equal(t, "ZFA123", v.Telaio)
	assert.False(t, v.DateAdded.IsZero())
}

func TestCreateVirtualStockIsFree(t *testing.T) {
	svc, _, _ := newTestService()
	req := CreateVehicleRequest{Model: "Sirio", Location: pricing.VirtualStockLocation}

	v, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, v.Price)
	assert.True(t, v.IsVirtual())
}

func TestCreatePricePending(t *testing.T) {
	svc, repo, _ := newTestService()
	req := auroraRequest()
	req.Transmission = "cvt"

	_, err := svc.Create(context.Background(), req)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price_pending", verr.Violations["transmission"])

	all, _ := repo.List(context.Background(), Filter{})
	assert.Empty(t, all)
}

func TestCreateRejectsDuplicateTelaio(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, auroraRequest())
	require.NoError(t, err)

	req := auroraRequest()
	req.Telaio = "ZFA123"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateRecomputesPrice(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	v, err := svc.Create(ctx, auroraRequest())
	require.NoError(t, err)

	acc := []string{"Navigatore", "Sensori di parcheggio"}
	updated, err := svc.Update(ctx, v.ID, UpdateVehicleRequest{
		Accessories: &acc,
		Telaio:      strPtr("zfa123"), // own telaio is not a conflict
	})
	require.NoError(t, err)
	assert.Equal(t, 23950.0, updated.Price)

	stock := []string{"Navigatore"}
	updated, err = svc.Update(ctx, v.ID, UpdateVehicleRequest{StockAccessories: &stock})
	require.NoError(t, err)
	assert.Equal(t, 22950.0, updated.Price)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 22950.0, got.Price)
}

func TestUpdateInvalidStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	v, err := svc.Create(ctx, auroraRequest())
	require.NoError(t, err)

	bad := Status("scrapped")
	_, err = svc.Update(ctx, v.ID, UpdateVehicleRequest{Status: &bad})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
}

func TestSetStatusMovesOutOfVirtualStock(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	req := auroraRequest()
	req.Location = pricing.VirtualStockLocation
	v, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.Zero(t, v.Price)

	v, err = svc.SetStatus(ctx, v.ID, StatusDelivered, "Stock Dealer")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, v.Status)
	assert.Equal(t, "Stock Dealer", v.Location)
	assert.Equal(t, 23500.0, v.Price)
}

func TestSetStatusKeepsPriceWhenSelectionPending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	v, err := svc.Create(ctx, CreateVehicleRequest{Model: "Aurora", Location: pricing.VirtualStockLocation})
	require.NoError(t, err)

	v, err = svc.SetStatus(ctx, v.ID, StatusDelivered, "Stock Dealer")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, v.Status)
	assert.Equal(t, "Stock Dealer", v.Location)
	assert.Zero(t, v.Price)

	stored, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stock Dealer", stored.Location)
}

func TestDeleteMissingLeavesStoreUnchanged(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, auroraRequest())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Update(ctx, uuid.New(), UpdateVehicleRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, auroraRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateVehicleRequest{Model: "Sirio", Location: pricing.VirtualStockLocation})
	require.NoError(t, err)

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	virtual, err := svc.List(ctx, Filter{Location: pricing.VirtualStockLocation})
	require.NoError(t, err)
	require.Len(t, virtual, 1)
	assert.Equal(t, "Sirio", virtual[0].Model)
}

func TestRepriceFollowsCatalog(t *testing.T) {
	svc, _, catalogs := newTestService()
	ctx := context.Background()
	v, err := svc.Create(ctx, auroraRequest())
	require.NoError(t, err)

	c := catalog.Default()
	c.Models[0].BasePrice = 21000
	_, err = catalogs.ReplaceCatalog(ctx, c)
	require.NoError(t, err)

	n, err := svc.Reprice(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 24500.0, got.Price)
}
