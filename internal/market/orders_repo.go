package market

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-market-api/internal/postgres"
)

type OrderRepo struct{ DB *pgxpool.Pool }

func (r *OrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return postgres.WithTx(ctx, r.DB, fn)
}

func (r *OrderRepo) Insert(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if err := o.Validate(); err != nil {
		return err
	}
	return postgres.Q(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO orders (id, user_id, total_cents)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.TotalCents,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (r *OrderRepo) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	err := postgres.Q(ctx, r.DB).QueryRow(ctx,
		`SELECT id, user_id, total_cents, created_at, updated_at FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.UserID, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	rows, err := postgres.Q(ctx, r.DB).Query(ctx, `
		SELECT id, user_id, total_cents, created_at, updated_at
		FROM orders WHERE user_id=$1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := postgres.Q(ctx, r.DB).QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id=$1`, userID,
	).Scan(&n)
	return n, err
}

// SumTotal computes the order total from its placements in the database:
// SUM(quantity * price_cents) over the join. Empty order sums to 0.
func (r *OrderRepo) SumTotal(ctx context.Context, orderID string) (int, error) {
	var total int
	err := postgres.Q(ctx, r.DB).QueryRow(ctx, `
		SELECT COALESCE(SUM(pl.quantity * p.price_cents), 0)
		FROM placements pl
		JOIN products p ON p.id = pl.product_id
		WHERE pl.order_id = $1`,
		orderID,
	).Scan(&total)
	return total, err
}

func (r *OrderRepo) SetTotal(ctx context.Context, orderID string, totalCents int) error {
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx,
		`UPDATE orders SET total_cents=$2, updated_at=NOW() WHERE id=$1`,
		orderID, totalCents,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) InsertPlacement(ctx context.Context, pl *Placement) error {
	if pl.ID == "" {
		pl.ID = uuid.NewString()
	}
	if err := pl.Validate(); err != nil {
		return err
	}
	_, err := postgres.Q(ctx, r.DB).Exec(ctx, `
		INSERT INTO placements (id, order_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)`,
		pl.ID, pl.OrderID, pl.ProductID, pl.Quantity,
	)
	return err
}

func (r *OrderRepo) GetPlacement(ctx context.Context, id string) (Placement, error) {
	var pl Placement
	err := postgres.Q(ctx, r.DB).QueryRow(ctx,
		`SELECT id, order_id, product_id, quantity FROM placements WHERE id=$1`, id,
	).Scan(&pl.ID, &pl.OrderID, &pl.ProductID, &pl.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Placement{}, ErrPlacementNotFound
	}
	return pl, err
}

func (r *OrderRepo) ListPlacements(ctx context.Context, orderID string) ([]Placement, error) {
	rows, err := postgres.Q(ctx, r.DB).Query(ctx,
		`SELECT id, order_id, product_id, quantity FROM placements WHERE order_id=$1`, orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Placement
	for rows.Next() {
		var pl Placement
		if err := rows.Scan(&pl.ID, &pl.OrderID, &pl.ProductID, &pl.Quantity); err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, rows.Err()
}

func (r *OrderRepo) DeletePlacement(ctx context.Context, id string) error {
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx, `DELETE FROM placements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrPlacementNotFound
	}
	return nil
}

// GetProductForUpdate row-locks the product so concurrent placements
// against the same product serialize on the stock adjustment.
func (r *OrderRepo) GetProductForUpdate(ctx context.Context, id string) (Product, error) {
	var p Product
	err := postgres.Q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1 FOR UPDATE`, id,
	).Scan(&p.ID, &p.Title, &p.PriceCents, &p.Published, &p.Quantity, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *OrderRepo) AdjustProductQuantity(ctx context.Context, productID string, delta int) error {
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx,
		`UPDATE products SET quantity = quantity + $2, updated_at=NOW() WHERE id=$1`,
		productID, delta,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
