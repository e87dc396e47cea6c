// Package demo seeds a fixed set of sample records so the API is usable
// right after startup without any data entry.
package demo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/georgemunganga/dealer-backend/internal/modules/contract"
	"github.com/georgemunganga/dealer-backend/internal/modules/dealer"
	"github.com/georgemunganga/dealer-backend/internal/modules/defect"
	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/order"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/modules/quote"
)

// Password is shared by every seeded dealer account.
const Password = "demo1234"

// Services are the stores the seeder writes through.
type Services struct {
	Dealers   dealer.Service
	Vehicles  inventory.Service
	Quotes    quote.Service
	Orders    order.Service
	Contracts contract.Service
	Defects   defect.Service
}

// Seed inserts the sample records when no dealer exists yet. It reports
// whether anything was written.
func Seed(ctx context.Context, s Services) (bool, error) {
	existing, err := s.Dealers.List(ctx, dealer.Filter{})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	dealers, err := seedDealers(ctx, s.Dealers)
	if err != nil {
		return false, fmt.Errorf("seed dealers: %w", err)
	}
	vehicles, err := seedVehicles(ctx, s.Vehicles)
	if err != nil {
		return false, fmt.Errorf("seed vehicles: %w", err)
	}
	if err := seedSales(ctx, s, dealers, vehicles); err != nil {
		return false, err
	}
	log.Printf("demo: seeded %d dealers and %d vehicles (dealer password %q)", len(dealers), len(vehicles), Password)
	return true, nil
}

func seedDealers(ctx context.Context, svc dealer.Service) ([]*dealer.Dealer, error) {
	reqs := []dealer.CreateDealerRequest{
		{
			CompanyName: "Autosalone Rossi S.r.l.", Address: "Via Roma 12", City: "Milano",
			Province: "MI", ZipCode: "20121", ContactName: "Marco Rossi",
			Email: "rossi@demo.local", Phone: "+39 02 1234567", VATNumber: "IT01234567890",
			CreditLimit: 150000, Password: Password,
		},
		{
			CompanyName: "Bianchi Motori S.p.A.", Address: "Corso Francia 88", City: "Torino",
			Province: "TO", ZipCode: "10138", ContactName: "Giulia Bianchi",
			Email: "bianchi@demo.local", Phone: "+39 011 7654321", VATNumber: "IT09876543210",
			CreditLimit: 80000, Password: Password,
		},
	}
	out := make([]*dealer.Dealer, 0, len(reqs))
	for _, req := range reqs {
		d, err := svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func seedVehicles(ctx context.Context, svc inventory.Service) ([]*inventory.Vehicle, error) {
	added := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	reqs := []inventory.CreateVehicleRequest{
		{Model: "Aurora", Trim: "Style", FuelType: "Benzina", ExteriorColor: "Nero Metallizzato",
			Transmission: "Manuale", Accessories: []string{"Navigatore"}, Location: "Sede", Telaio: "ZDMAUR0000000001"},
		{Model: "Vento", Trim: "Sport", FuelType: "Diesel", ExteriorColor: "Rosso Corsa",
			Transmission: "Automatico", Accessories: []string{"Cerchi in lega 18 pollici", "Sensori di parcheggio"},
			StockAccessories: []string{"Sensori di parcheggio"}, Location: "Sede", Telaio: "ZDMVEN0000000002"},
		{Model: "Sirio", Trim: "Style", FuelType: "Elettrica", ExteriorColor: "Bianco",
			Transmission: "Automatico", Accessories: []string{"Tetto panoramico"}, Location: "Sede", Telaio: "ZDMSIR0000000003"},
		{Model: "Aurora", Trim: "Base", FuelType: "Ibrida", ExteriorColor: "Bianco",
			Transmission: "Manuale", Location: "Sede", Telaio: "ZDMAUR0000000004"},
		{Model: "Sirio", Trim: "Sport", FuelType: "Ibrida", ExteriorColor: "Nero Metallizzato",
			Transmission: "Automatico", Location: pricing.VirtualStockLocation},
	}
	out := make([]*inventory.Vehicle, 0, len(reqs))
	for _, req := range reqs {
		req.DateAdded = &added
		v, err := svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func seedSales(ctx context.Context, s Services, dealers []*dealer.Dealer, vehicles []*inventory.Vehicle) error {
	rossi, bianchi := dealers[0].ID, dealers[1].ID

	pending, err := s.Quotes.Create(ctx, quote.CreateQuoteRequest{
		VehicleID: vehicles[0].ID, DealerID: rossi,
		CustomerName: "Luca Verdi", CustomerEmail: "luca.verdi@example.com",
		Discount: 1000, LicensePlateBonus: 500,
	})
	if err != nil {
		return fmt.Errorf("seed quotes: %w", err)
	}
	approved, err := s.Quotes.Create(ctx, quote.CreateQuoteRequest{
		VehicleID: vehicles[2].ID, DealerID: bianchi,
		CustomerName: "Anna Neri", CustomerPhone: "+39 333 1112233",
		Accessories: []pricing.AccessoryLine{{Name: "Tappetini in gomma", Price: 80}},
		TradeIn:     &quote.TradeIn{HasTradeIn: true, Make: "Fiat", Model: "Panda", Year: 2016, Plate: "FG123HJ", Value: 4000, HandlingFee: 150},
		SafetyKit:   45,
	})
	if err != nil {
		return fmt.Errorf("seed quotes: %w", err)
	}
	if _, err := s.Quotes.Approve(ctx, approved.ID); err != nil {
		return fmt.Errorf("seed quotes: %w", err)
	}

	placed, err := s.Orders.Place(ctx, order.PlaceOrderRequest{
		VehicleID: vehicles[1].ID, DealerID: rossi, CustomerName: "Paolo Gialli",
	})
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	if _, err := s.Orders.UpdateDetails(ctx, placed.ID, order.UpdateDetailsRequest{
		HasProforma: boolPtr(true), IsPaid: boolPtr(true),
	}); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	if _, err := s.Orders.GenerateODL(ctx, placed.ID); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	if _, err := s.Contracts.Create(ctx, contract.CreateContractRequest{
		DealerID: rossi, VehicleID: vehicles[0].ID,
		ContractDetails: contract.DetailsInput{
			Contractor: contract.Contractor{
				Name: pending.CustomerName, FiscalCode: "VRDLCU85M01F205Z",
				Address: "Via Dante 3", City: "Milano", Email: pending.CustomerEmail,
			},
			Pricing:       pending.Inputs(),
			PaymentTerms:  "Bonifico alla consegna",
			DeliveryTerms: "Consegna presso la sede del concessionario",
		},
	}); err != nil {
		return fmt.Errorf("seed contracts: %w", err)
	}

	if _, err := s.Defects.Create(ctx, defect.CreateReportRequest{
		DealerID: bianchi, VehicleID: vehicles[3].ID,
		Description: "Graffio sul paraurti posteriore rilevato allo scarico",
		RepairCost:  480,
	}); err != nil {
		return fmt.Errorf("seed defect reports: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }
