package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// Postgres stores each order as a jsonb document in the orders table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) CreateOrder(ctx context.Context, o domain.Order) (string, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	payload, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	const q = `
INSERT INTO orders (id, payment_method, payment_status, customer_email, grand_total, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`
	tag, err := p.pool.Exec(ctx, q,
		o.ID,
		o.PaymentMethod,
		o.PaymentStatus,
		o.Customer.Email,
		o.Totals.GrandTotalCents,
		payload,
		o.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", domain.ErrDuplicateOrder
	}
	return o.ID, nil
}

// FindOrder loads an order document by id.
func (p *Postgres) FindOrder(ctx context.Context, id string) (domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Order{}, domain.ErrNotFound
	}
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM orders WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("load order: %w", err)
	}
	var o domain.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	o.ID = id
	return o, nil
}
