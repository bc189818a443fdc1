package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-market-api/internal/postgres"
)

// SearchFilters narrows the published-product listing. Nil price bounds
// mean "no bound"; both bounds are inclusive and expressed in cents.
type SearchFilters struct {
	Title    string
	PriceMin *int
	PriceMax *int
}

// whereClause builds the predicate for SearchPublished. Split out so the
// SQL construction is testable without a database.
func (f SearchFilters) whereClause() (string, []any) {
	conds := []string{"published = TRUE"}
	args := []any{}

	if f.Title != "" {
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
		conds = append(conds, fmt.Sprintf("lower(title) LIKE $%d", len(args)))
	}
	if f.PriceMin != nil {
		args = append(args, *f.PriceMin)
		conds = append(conds, fmt.Sprintf("price_cents >= $%d", len(args)))
	}
	if f.PriceMax != nil {
		args = append(args, *f.PriceMax)
		conds = append(conds, fmt.Sprintf("price_cents <= $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

type ProductRepo struct{ DB *pgxpool.Pool }

const productCols = `id, title, price_cents, published, quantity, user_id, created_at, updated_at`

func (r *ProductRepo) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return postgres.Q(ctx, r.DB).QueryRow(ctx, `
		INSERT INTO products (id, title, price_cents, published, quantity, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.PriceCents, p.Published, p.Quantity, p.UserID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (Product, error) {
	var p Product
	err := postgres.Q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.Title, &p.PriceCents, &p.Published, &p.Quantity, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx, `
		UPDATE products SET title=$2, price_cents=$3, published=$4, quantity=$5, updated_at=NOW()
		WHERE id=$1`,
		p.ID, p.Title, p.PriceCents, p.Published, p.Quantity,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	ct, err := postgres.Q(ctx, r.DB).Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SearchPublished returns published products matching the filters,
// most recently updated first.
func (r *ProductRepo) SearchPublished(ctx context.Context, f SearchFilters, limit, offset int) ([]Product, error) {
	where, args := f.whereClause()
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		productCols, where, len(args)-1, len(args))

	rows, err := postgres.Q(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Title, &p.PriceCents, &p.Published, &p.Quantity, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByOwner returns every product belonging to userID, including
// unpublished ones, oldest first.
func (r *ProductRepo) ListByOwner(ctx context.Context, userID string) ([]Product, error) {
	rows, err := postgres.Q(ctx, r.DB).Query(ctx,
		`SELECT `+productCols+` FROM products WHERE user_id = $1 ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Title, &p.PriceCents, &p.Published, &p.Quantity, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) CountPublished(ctx context.Context, f SearchFilters) (int, error) {
	where, args := f.whereClause()
	var n int
	err := postgres.Q(ctx, r.DB).QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE `+where, args...,
	).Scan(&n)
	return n, err
}
