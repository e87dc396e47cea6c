package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/quote"
)

// QuotePlacer places orders for converted quotes.
type QuotePlacer struct{ orders Service }

func NewQuotePlacer(orders Service) *QuotePlacer { return &QuotePlacer{orders: orders} }

// PlaceFromQuote orders the quoted vehicle at the quote's final price.
func (p *QuotePlacer) PlaceFromQuote(ctx context.Context, q *quote.Quote) (uuid.UUID, error) {
	price := q.FinalPrice
	id := q.ID
	o, err := p.orders.Place(ctx, PlaceOrderRequest{
		VehicleID:    q.VehicleID,
		DealerID:     q.DealerID,
		QuoteID:      &id,
		CustomerName: q.CustomerName,
		Price:        &price,
		Notes:        q.Notes,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return o.ID, nil
}
