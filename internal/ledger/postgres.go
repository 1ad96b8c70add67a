// Package ledger records finalized orders. The engine appends exactly once
// per confirmation and updates status on cancellation; it never re-reads an
// order from here.
package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodstream/veggiebot/internal/convo"
)

type Postgres struct{ DB *pgxpool.Pool }

func (l *Postgres) Append(ctx context.Context, o convo.Order) error {
	_, err := l.DB.Exec(ctx, `
		INSERT INTO orders(order_id, name, bundles, unit_price, total_price,
		                   discount_percent, address, postcode, delivery_slot,
		                   phone, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, o.OrderID, o.Name, o.Bundles, o.UnitPrice, o.TotalPrice,
		o.DiscountPercent, o.Address, o.Postcode, o.DeliverySlot,
		o.Phone, string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ledger: append order %s: %w", o.OrderID, err)
	}
	return nil
}

func (l *Postgres) UpdateStatus(ctx context.Context, orderID string, status convo.OrderStatus) error {
	ct, err := l.DB.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE order_id=$1
	`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("ledger: update order %s: %w", orderID, err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("ledger: order %s not found", orderID)
	}
	return nil
}

var _ convo.Ledger = (*Postgres)(nil)
