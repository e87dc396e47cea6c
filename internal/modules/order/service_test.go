package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

const dealerStock = "Stock Dealer"

// flakyVehicles fails SetStatus calls for the given status.
type flakyVehicles struct {
	inventory.Service
	failOn inventory.Status
}

func (f *flakyVehicles) SetStatus(ctx context.Context, id uuid.UUID, st inventory.Status, loc string) (*inventory.Vehicle, error) {
	if st == f.failOn {
		return nil, errors.New("vehicle store unavailable")
	}
	return f.Service.SetStatus(ctx, id, st, loc)
}

type fixture struct {
	orders   Service
	repo     Repository
	vehicles *flakyVehicles
	vehicle  *inventory.Vehicle
	dealerID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalogs := catalog.NewService(catalog.NewMemoryRepository(catalog.Default()), catalog.DefaultVATRate)
	vehicles := &flakyVehicles{Service: inventory.NewService(inventory.NewMemoryRepository(), catalogs)}
	v, err := vehicles.Create(context.Background(), inventory.CreateVehicleRequest{
		Model: "aurora", Trim: "style", FuelType: "benzina", ExteriorColor: "nero-metallizzato",
		Transmission: "manuale", Accessories: []string{"navigatore"}, Location: "Sede",
	})
	require.NoError(t, err)

	repo := NewMemoryRepository()
	return &fixture{
		orders:   NewService(repo, vehicles, dealerStock),
		repo:     repo,
		vehicles: vehicles,
		vehicle:  v,
		dealerID: uuid.New(),
	}
}

func (f *fixture) place(t *testing.T) *Order {
	t.Helper()
	o, err := f.orders.Place(context.Background(), PlaceOrderRequest{
		VehicleID: f.vehicle.ID, DealerID: f.dealerID, CustomerName: "Mario Rossi",
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) vehicleNow(t *testing.T) *inventory.Vehicle {
	t.Helper()
	v, err := f.vehicles.Get(context.Background(), f.vehicle.ID)
	require.NoError(t, err)
	return v
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	o := f.place(t)

	assert.Equal(t, StatusProcessing, o.Status)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{4}$`, o.OrderNumber)
	assert.Equal(t, 23500.0, o.Price)
	assert.False(t, o.Details.ODLGenerated)
	assert.Equal(t, inventory.StatusOrdered, f.vehicleNow(t).Status)

	// the vehicle is no longer orderable
	_, err := f.orders.Place(context.Background(), PlaceOrderRequest{
		VehicleID: f.vehicle.ID, DealerID: f.dealerID, CustomerName: "Luca Bianchi",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Place(context.Background(), PlaceOrderRequest{})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "vehicleId")
	assert.Contains(t, verr.Violations, "customerName")

	_, err = f.orders.Place(context.Background(), PlaceOrderRequest{
		VehicleID: uuid.New(), DealerID: f.dealerID, CustomerName: "X",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPlaceOrderRollsBackWhenVehicleUpdateFails(t *testing.T) {
	f := newFixture(t)
	f.vehicles.failOn = inventory.StatusOrdered

	_, err := f.orders.Place(context.Background(), PlaceOrderRequest{
		VehicleID: f.vehicle.ID, DealerID: f.dealerID, CustomerName: "Mario Rossi",
	})
	require.Error(t, err)

	all, err := f.orders.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeliverRequiresODL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t)

	_, err := f.orders.MarkDelivered(ctx, o.ID, nil)
	require.ErrorIs(t, err, ErrODLNotGenerated)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.EqualError(t, err, "ODL not generated")

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Nil(t, got.DeliveryDate)
	assert.Equal(t, inventory.StatusOrdered, f.vehicleNow(t).Status)

	// explicitly false behaves the same as absent
	no := false
	_, err = f.orders.UpdateDetails(ctx, o.ID, UpdateDetailsRequest{ODLGenerated: &no, IsPaid: boolPtr(true)})
	require.NoError(t, err)
	_, err = f.orders.MarkDelivered(ctx, o.ID, nil)
	assert.ErrorIs(t, err, ErrODLNotGenerated)
}

func TestDeliverMovesVehicleToDealerStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t)

	o, err := f.orders.GenerateODL(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, o.Details.ODLGenerated)
	require.NotNil(t, o.Details.ODLGeneratedAt)

	when := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	o, err = f.orders.MarkDelivered(ctx, o.ID, &when)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, when, *o.DeliveryDate)

	v := f.vehicleNow(t)
	assert.Equal(t, inventory.StatusDelivered, v.Status)
	assert.Equal(t, dealerStock, v.Location)

	// delivered is terminal
	_, err = f.orders.MarkDelivered(ctx, o.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = f.orders.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	no := false
	_, err = f.orders.UpdateDetails(ctx, o.ID, UpdateDetailsRequest{ODLGenerated: &no})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestDeliverUnconfiguredVirtualStockVehicle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	virtual, err := f.vehicles.Create(ctx, inventory.CreateVehicleRequest{
		Model: "aurora", Location: pricing.VirtualStockLocation,
	})
	require.NoError(t, err)
	require.Zero(t, virtual.Price)

	o, err := f.orders.Place(ctx, PlaceOrderRequest{
		VehicleID: virtual.ID, DealerID: f.dealerID, CustomerName: "Mario Rossi",
	})
	require.NoError(t, err)
	_, err = f.orders.GenerateODL(ctx, o.ID)
	require.NoError(t, err)

	o, err = f.orders.MarkDelivered(ctx, o.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)

	v, err := f.vehicles.Get(ctx, virtual.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusDelivered, v.Status)
	assert.Equal(t, dealerStock, v.Location)
	assert.Zero(t, v.Price)
}

func TestDeliverRevertsOrderWhenVehicleUpdateFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t)
	_, err := f.orders.GenerateODL(ctx, o.ID)
	require.NoError(t, err)

	f.vehicles.failOn = inventory.StatusDelivered
	_, err = f.orders.MarkDelivered(ctx, o.ID, nil)
	require.Error(t, err)

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.Nil(t, got.DeliveryDate)
	assert.True(t, got.Details.ODLGenerated)
	assert.Equal(t, inventory.StatusOrdered, f.vehicleNow(t).Status)
}

func TestCancelReleasesVehicle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t)

	o, err := f.orders.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, inventory.StatusAvailable, f.vehicleNow(t).Status)

	_, err = f.orders.GenerateODL(ctx, o.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t)

	err := f.orders.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	all, _ := f.orders.List(ctx, Filter{})
	assert.Len(t, all, 1)

	require.NoError(t, f.orders.Delete(ctx, o.ID))
	_, err = f.orders.Get(ctx, o.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, inventory.StatusAvailable, f.vehicleNow(t).Status)
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t)

	price := 22000.456
	notes := "consegna in sede"
	o, err := f.orders.Update(ctx, o.ID, UpdateOrderRequest{Price: &price, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 22000.46, o.Price)
	assert.Equal(t, notes, o.Notes)

	got, err := f.orders.GetByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	empty := " "
	_, err = f.orders.Update(ctx, o.ID, UpdateOrderRequest{CustomerName: &empty})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
}

func TestOutstandingExposure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.place(t)

	other, err := f.vehicles.Create(ctx, inventory.CreateVehicleRequest{
		Model: "vento", Trim: "base", FuelType: "diesel", ExteriorColor: "bianco", Transmission: "manuale",
	})
	require.NoError(t, err)
	price := 1000.0
	o2, err := f.orders.Place(ctx, PlaceOrderRequest{
		VehicleID: other.ID, DealerID: f.dealerID, CustomerName: "B", Price: &price,
	})
	require.NoError(t, err)

	exposure, err := f.orders.OutstandingExposure(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Equal(t, 24500.0, exposure)

	_, err = f.orders.Cancel(ctx, o2.ID)
	require.NoError(t, err)
	exposure, err = f.orders.OutstandingExposure(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Equal(t, 23500.0, exposure)

	exposure, err = f.orders.OutstandingExposure(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, exposure)
}

func TestPriceRoundingToCents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	price := 1.005
	o, err := f.orders.Place(ctx, PlaceOrderRequest{
		VehicleID: f.vehicle.ID, DealerID: f.dealerID, CustomerName: "Mario Rossi", Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.01, o.Price)

	second, err := f.vehicles.Create(ctx, inventory.CreateVehicleRequest{
		Model: "vento", Trim: "base", FuelType: "diesel", ExteriorColor: "bianco", Transmission: "manuale",
	})
	require.NoError(t, err)
	price = 0.2
	_, err = f.orders.Place(ctx, PlaceOrderRequest{
		VehicleID: second.ID, DealerID: f.dealerID, CustomerName: "Anna Neri", Price: &price,
	})
	require.NoError(t, err)

	// 1.01 + 0.2 sums to 1.21 exactly, not 1.2100000000000002
	exposure, err := f.orders.OutstandingExposure(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Equal(t, 1.21, exposure)
}

func boolPtr(b bool) *bool { return &b }
