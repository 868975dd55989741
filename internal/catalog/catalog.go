// Package catalog resolves product ids against an already loaded product list.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

// Lookup resolves a product id. Unknown ids report ok=false; callers skip them.
type Lookup interface {
	Product(id string) (domain.Product, bool)
}

// Catalog is an immutable snapshot preserving listing order.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New builds a snapshot. Later duplicates of an id replace earlier ones in
// place. A missing or smaller MRP is raised to the selling price.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(products))}
	for _, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product %q has no id", p.Name)
		}
		if p.PriceCents < 0 {
			return nil, fmt.Errorf("catalog: product %q has a negative price", p.ID)
		}
		if p.MRPCents < p.PriceCents {
			p.MRPCents = p.PriceCents
		}
		if i, ok := c.byID[p.ID]; ok {
			c.products[i] = p
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func (c *Catalog) Product(id string) (domain.Product, bool) {
	if c == nil {
		return domain.Product{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// List returns products in listing order, optionally filtered by category
// (case-insensitive).
func (c *Catalog) List(category string) []domain.Product {
	if c == nil {
		return []domain.Product{}
	}
	category = strings.TrimSpace(category)
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Len is the number of products in the snapshot.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Lister is the slice of the product repository needed to take a snapshot.
type Lister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// FromRepository snapshots every product currently stored.
func FromRepository(ctx context.Context, repo Lister) (*Catalog, error) {
	products, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return New(products)
}
