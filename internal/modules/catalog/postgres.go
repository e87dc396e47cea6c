package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// itemRow is the catalog_items storage shape: one row per record, tagged by kind.
type itemRow struct {
	Kind             Kind
	ID               string
	Name             string
	Position         int
	BasePrice        float64
	PriceAdjustment  float64
	PriceWithVAT     float64
	PriceWithoutVAT  float64
	CompatibleModels pq.StringArray
	CompatibleTrims  pq.StringArray
}

func (r *postgresRepo) Load(ctx context.Context) (*Catalog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, id, name, position, base_price, price_adjustment,
		       price_with_vat, price_without_vat, compatible_models, compatible_trims
		FROM catalog_items ORDER BY kind, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []itemRow
	for rows.Next() {
		var it itemRow
		if err := rows.Scan(&it.Kind, &it.ID, &it.Name, &it.Position, &it.BasePrice,
			&it.PriceAdjustment, &it.PriceWithVAT, &it.PriceWithoutVAT,
			&it.CompatibleModels, &it.CompatibleTrims); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fromRows(items)
}

// Replace deletes and re-inserts every item inside a single transaction.
func (r *postgresRepo) Replace(ctx context.Context, c *Catalog) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	for _, it := range toRows(c) {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_items
			  (kind, id, name, position, base_price, price_adjustment,
			   price_with_vat, price_without_vat, compatible_models, compatible_trims)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			it.Kind, it.ID, it.Name, it.Position, it.BasePrice, it.PriceAdjustment,
			it.PriceWithVAT, it.PriceWithoutVAT, it.CompatibleModels, it.CompatibleTrims)
		if err != nil {
			return fmt.Errorf("insert catalog item %s/%s: %w", it.Kind, it.ID, err)
		}
	}
	return tx.Commit()
}

// ── row mapping ──────────────────────────────────────────────────────────────

func toRows(c *Catalog) []itemRow {
	var rows []itemRow
	for i, m := range c.Models {
		rows = append(rows, itemRow{Kind: KindModel, ID: m.ID, Name: m.Name, Position: i, BasePrice: m.BasePrice})
	}
	for i, t := range c.Trims {
		rows = append(rows, itemRow{Kind: KindTrim, ID: t.ID, Name: t.Name, Position: i,
			BasePrice: t.BasePrice, CompatibleModels: idsOf(t.CompatibleModels)})
	}
	for kind, opts := range map[Kind][]Option{
		KindFuelType: c.FuelTypes, KindColor: c.Colors, KindTransmission: c.Transmissions,
	} {
		for i, o := range opts {
			rows = append(rows, itemRow{Kind: kind, ID: o.ID, Name: o.Name, Position: i,
				PriceAdjustment: o.PriceAdjustment, CompatibleModels: idsOf(o.CompatibleModels)})
		}
	}
	for i, a := range c.Accessories {
		rows = append(rows, itemRow{Kind: KindAccessory, ID: a.ID, Name: a.Name, Position: i,
			PriceWithVAT: a.PriceWithVAT, PriceWithoutVAT: a.PriceWithoutVAT,
			CompatibleModels: idsOf(a.CompatibleModels), CompatibleTrims: idsOf(a.CompatibleTrims)})
	}
	for i := range rows {
		if rows[i].CompatibleModels == nil {
			rows[i].CompatibleModels = pq.StringArray{}
		}
		if rows[i].CompatibleTrims == nil {
			rows[i].CompatibleTrims = pq.StringArray{}
		}
	}
	return rows
}

func fromRows(rows []itemRow) (*Catalog, error) {
	c := &Catalog{}
	for _, it := range rows {
		switch it.Kind {
		case KindModel:
			c.Models = append(c.Models, VehicleModel{ID: it.ID, Name: it.Name, BasePrice: it.BasePrice})
		case KindTrim:
			c.Trims = append(c.Trims, VehicleTrim{ID: it.ID, Name: it.Name, BasePrice: it.BasePrice,
				CompatibleModels: RestrictedTo(it.CompatibleModels...)})
		case KindFuelType:
			c.FuelTypes = append(c.FuelTypes, optionFromRow(it))
		case KindColor:
			c.Colors = append(c.Colors, optionFromRow(it))
		case KindTransmission:
			c.Transmissions = append(c.Transmissions, optionFromRow(it))
		case KindAccessory:
			c.Accessories = append(c.Accessories, Accessory{ID: it.ID, Name: it.Name,
				PriceWithVAT: it.PriceWithVAT, PriceWithoutVAT: it.PriceWithoutVAT,
				CompatibleModels: RestrictedTo(it.CompatibleModels...),
				CompatibleTrims:  RestrictedTo(it.CompatibleTrims...)})
		default:
			return nil, fmt.Errorf("unknown catalog item kind %q", it.Kind)
		}
	}
	return c, nil
}

func optionFromRow(it itemRow) Option {
	return Option{ID: it.ID, Name: it.Name, PriceAdjustment: it.PriceAdjustment,
		CompatibleModels: RestrictedTo(it.CompatibleModels...)}
}

// idsOf stores the wildcard as an empty array rather than NULL.
func idsOf(c Compatibility) pq.StringArray {
	ids := c.IDs()
	if ids == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(ids)
}
