package contract

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

type stubVehicles map[uuid.UUID]*inventory.Vehicle

func (s stubVehicles) Get(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error) {
	if v, ok := s[id]; ok {
		return v, nil
	}
	return nil, apperr.NotFound("vehicle", id.String())
}

func newTestService() (Service, uuid.UUID) {
	vehicleID := uuid.New()
	vehicles := stubVehicles{vehicleID: {ID: vehicleID, Model: "Aurora", Price: 23500}}
	return NewService(NewMemoryRepository(), vehicles, pricing.NewCalculator(350)), vehicleID
}

func validRequest(vehicleID uuid.UUID) CreateContractRequest {
	return CreateContractRequest{
		DealerID:  uuid.New(),
		VehicleID: vehicleID,
		ContractDetails: DetailsInput{
			Contractor: Contractor{Name: " Mario Rossi ", FiscalCode: "rssmra80a01f205x", Email: "mario@example.com"},
			Pricing: pricing.QuoteInputs{
				BasePrice: 23500, Discount: 1000, LicensePlateBonus: 500,
			},
			PaymentTerms: "bonifico 30gg",
		},
	}
}

func TestCreateContractDerivesBreakdown(t *testing.T) {
	svc, vehicleID := newTestService()
	c, err := svc.Create(context.Background(), validRequest(vehicleID))
	require.NoError(t, err)

	assert.Equal(t, StatusActive, c.Status)
	d := c.ContractDetails
	assert.Equal(t, "Mario Rossi", d.Contractor.Name)
	assert.Equal(t, "RSSMRA80A01F205X", d.Contractor.FiscalCode)
	assert.Equal(t, 22350.0, d.Breakdown.FinalPrice)
	assert.Equal(t, 1500.0, d.Breakdown.TotalDiscount)
	require.NotNil(t, d.Pricing.RoadPreparationFee)
	assert.Equal(t, 350.0, *d.Pricing.RoadPreparationFee)
	assert.NotNil(t, d.Pricing.Accessories)
}

func TestCreateContractValidation(t *testing.T) {
	svc, vehicleID := newTestService()

	req := validRequest(vehicleID)
	req.DealerID = uuid.Nil
	req.ContractDetails.Contractor.Name = ""
	req.ContractDetails.Pricing.Discount = -5
	_, err := svc.Create(context.Background(), req)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "dealerId")
	assert.Contains(t, verr.Violations, "contractDetails.contractor.name")
	assert.Contains(t, verr.Violations, "contractDetails.pricing.discount")

	_, err = svc.Create(context.Background(), validRequest(uuid.New()))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateAndCompleteContract(t *testing.T) {
	ctx := context.Background()
	svc, vehicleID := newTestService()
	c, err := svc.Create(ctx, validRequest(vehicleID))
	require.NoError(t, err)

	in := validRequest(vehicleID).ContractDetails
	in.Pricing.TradeInValue = 2000
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	c, err = svc.Update(ctx, c.ID, UpdateContractRequest{ContractDetails: &in, ContractDate: &date})
	require.NoError(t, err)
	assert.Equal(t, 20350.0, c.ContractDetails.Breakdown.FinalPrice)
	assert.Equal(t, date, c.ContractDate)

	c, err = svc.Complete(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, c.Status)

	_, err = svc.Complete(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	_, err = svc.Update(ctx, c.ID, UpdateContractRequest{ContractDate: &date})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestDeleteContract(t *testing.T) {
	ctx := context.Background()
	svc, vehicleID := newTestService()
	c, err := svc.Create(ctx, validRequest(vehicleID))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), apperr.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemoryRepositoryCopies(t *testing.T) {
	ctx := context.Background()
	svc, vehicleID := newTestService()
	c, err := svc.Create(ctx, validRequest(vehicleID))
	require.NoError(t, err)

	*c.ContractDetails.Pricing.RoadPreparationFee = 999
	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, *got.ContractDetails.Pricing.RoadPreparationFee)
}
