package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
	"github.com/georgemunganga/dealer-backend/internal/modules/contract"
	"github.com/georgemunganga/dealer-backend/internal/modules/dealer"
	"github.com/georgemunganga/dealer-backend/internal/modules/defect"
	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/order"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/modules/quote"
	"github.com/georgemunganga/dealer-backend/internal/platform/blob"
)

func newServices(t *testing.T) Services {
	t.Helper()
	catalogSvc := catalog.NewService(catalog.NewMemoryRepository(catalog.Default()), catalog.DefaultVATRate)
	vehicles := inventory.NewService(inventory.NewMemoryRepository(), catalogSvc)
	calc := pricing.NewCalculator(350)
	blobs := blob.NewLocalStore(t.TempDir(), "/uploads", 1<<20)

	quotes := quote.NewService(quote.NewMemoryRepository(), vehicles, calc, 22)
	orders := order.NewService(order.NewMemoryRepository(), vehicles, "Stock Dealer")
	quote.SetOrderPlacer(quotes, order.NewQuotePlacer(orders))

	return Services{
		Dealers:   dealer.NewService(dealer.NewMemoryRepository(), blobs, orders),
		Vehicles:  vehicles,
		Quotes:    quotes,
		Orders:    orders,
		Contracts: contract.NewService(contract.NewMemoryRepository(), vehicles, calc),
		Defects:   defect.NewService(defect.NewMemoryRepository(), vehicles, blobs),
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	seeded, err := Seed(ctx, s)
	require.NoError(t, err)
	assert.True(t, seeded)

	dealers, err := s.Dealers.List(ctx, dealer.Filter{})
	require.NoError(t, err)
	require.Len(t, dealers, 2)
	for _, d := range dealers {
		_, err := s.Dealers.AuthenticateDealer(ctx, d.Email, Password)
		assert.NoError(t, err, d.Email)
	}

	vehicles, err := s.Vehicles.List(ctx, inventory.Filter{})
	require.NoError(t, err)
	assert.Len(t, vehicles, 5)
	virtual, err := s.Vehicles.List(ctx, inventory.Filter{Location: pricing.VirtualStockLocation})
	require.NoError(t, err)
	require.Len(t, virtual, 1)
	assert.Zero(t, virtual[0].Price)

	quotes, err := s.Quotes.List(ctx, quote.Filter{})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)

	orders, err := s.Orders.List(ctx, order.Filter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Details.ODLGenerated)
	assert.Equal(t, order.StatusProcessing, orders[0].Status)

	ordered, err := s.Vehicles.Get(ctx, orders[0].VehicleID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusOrdered, ordered.Status)

	contracts, err := s.Contracts.List(ctx, contract.Filter{})
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, 22350.0, contracts[0].ContractDetails.Breakdown.FinalPrice)

	reports, err := s.Defects.List(ctx, defect.Filter{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, defect.StatusOpen, reports[0].Status)
}

func TestSeedSkipsWhenDealersExist(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	_, err := s.Dealers.Create(ctx, dealer.CreateDealerRequest{
		CompanyName: "Esistente S.r.l.", Email: "esistente@example.com",
	})
	require.NoError(t, err)

	seeded, err := Seed(ctx, s)
	require.NoError(t, err)
	assert.False(t, seeded)

	vehicles, err := s.Vehicles.List(ctx, inventory.Filter{})
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}
