package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/logger"
)

const productColumns = `id, name, price_cents, mrp_cents, currency, category, tag_label, image, short, COALESCE(description, ''), badge, supplier_id, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &postgresRepo{pool: pool, logger: log}
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.MRPCents, &p.Currency, &p.Category, &p.TagLabel,
		&p.Image, &p.Short, &p.Description, &p.Badge, &p.SupplierID, &p.CreatedAt)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY position, created_at, id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error(ctx, "product repo: list", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error(ctx, "product repo: list rows", err)
		return nil, err
	}
	r.logger.Debug(ctx, "product repo: list", "count", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error(ctx, "product repo: get", err, "id", id)
		return nil, err
	}
	return &p, nil
}

// Upsert inserts or replaces a product by id. New rows are appended to the
// end of the listing order.
func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, price_cents, mrp_cents, currency, category, tag_label, image, short, description, badge, supplier_id, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12,
        (SELECT COALESCE(MAX(position), 0) + 1 FROM products))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price_cents = EXCLUDED.price_cents,
    mrp_cents = EXCLUDED.mrp_cents,
    currency = EXCLUDED.currency,
    category = EXCLUDED.category,
    tag_label = EXCLUDED.tag_label,
    image = EXCLUDED.image,
    short = EXCLUDED.short,
    description = EXCLUDED.description,
    badge = EXCLUDED.badge,
    supplier_id = EXCLUDED.supplier_id
RETURNING created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.PriceCents,
		product.MRPCents,
		product.Currency,
		product.Category,
		product.TagLabel,
		product.Image,
		product.Short,
		product.Description,
		product.Badge,
		product.SupplierID,
	).Scan(&res.CreatedAt)
	if err != nil {
		r.logger.Error(ctx, "product repo: upsert", err, "id", product.ID)
		return nil, err
	}
	r.logger.Debug(ctx, "product repo: upserted", "id", res.ID)
	return &res, nil
}
