package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/modules/quote"
)

func TestConvertQuotePlacesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quotes := quote.NewService(quote.NewMemoryRepository(), f.vehicles, pricing.NewCalculator(350), 22)
	quote.SetOrderPlacer(quotes, NewQuotePlacer(f.orders))

	q, err := quotes.Create(ctx, quote.CreateQuoteRequest{
		VehicleID: f.vehicle.ID, DealerID: f.dealerID, CustomerName: "Mario Rossi",
		Discount: 1000, LicensePlateBonus: 500,
	})
	require.NoError(t, err)

	q, err = quotes.Convert(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, q.OrderID)

	o, err := f.orders.Get(ctx, *q.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 22350.0, o.Price)
	assert.Equal(t, "Mario Rossi", o.CustomerName)
	require.NotNil(t, o.QuoteID)
	assert.Equal(t, q.ID, *o.QuoteID)
	assert.Equal(t, inventory.StatusOrdered, f.vehicleNow(t).Status)

	// a second quote for the same vehicle cannot be converted
	q2, err := quotes.Create(ctx, quote.CreateQuoteRequest{
		VehicleID: f.vehicle.ID, DealerID: f.dealerID, CustomerName: "Luca Bianchi",
	})
	require.NoError(t, err)
	_, err = quotes.Convert(ctx, q2.ID)
	require.Error(t, err)
	q2, err = quotes.Get(ctx, q2.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.StatusPending, q2.Status)
}
