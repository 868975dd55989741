package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// DemoProducts are the eco products shown on the demo storefront.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "plantable-pen",
			Name:        "Plantable Seed Pen Kit",
			PriceCents:  2000,
			MRPCents:    2500,
			Currency:    "INR",
			Category:    "Writing Instruments",
			TagLabel:    "Plantable",
			Image:       "images/plantable-pen.jpg",
			Short:       "Paper pens with seeds that grow after use.",
			Description: "Recycled paper barrel with a seed capsule at the end. Plant it once the ink runs out.",
			Badge:       "Bestseller",
			SupplierID:  "seedco",
		},
		{
			ID:          "eco-pencil-pack",
			Name:        "Eco Pencil Pack",
			PriceCents:  1500,
			MRPCents:    2000,
			Currency:    "INR",
			Category:    "Writing Instruments",
			TagLabel:    "Recycled",
			Image:       "images/eco-pencil-pack.jpg",
			Short:       "Newspaper pencils, pack of ten.",
			Description: "Pencils rolled from recycled newspaper with non-toxic graphite.",
			SupplierID:  "paperworks",
		},
	}
}

// Apply upserts the demo products. Running it twice leaves the same rows.
func Apply(ctx context.Context, repo ProductWriter) error {
	for _, p := range DemoProducts() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}
