package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
)

type fileDocument struct {
	Currency string        `yaml:"currency"`
	Products []fileProduct `yaml:"products"`
}

// Prices are major units ("20", "19.99") to keep the file readable.
type fileProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	MRP         string `yaml:"mrp"`
	Category    string `yaml:"category"`
	TagLabel    string `yaml:"tagLabel"`
	Image       string `yaml:"image"`
	Short       string `yaml:"short"`
	Description string `yaml:"description"`
	Badge       string `yaml:"badge"`
	SupplierID  string `yaml:"supplierId"`
}

// LoadFile reads a YAML (or JSON) catalog from path.
func LoadFile(path, defaultCurrency string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f, defaultCurrency)
}

// Decode parses a catalog document.
func Decode(r io.Reader, defaultCurrency string) (*Catalog, error) {
	var doc fileDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	currency := strings.TrimSpace(doc.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	products := make([]domain.Product, 0, len(doc.Products))
	for _, fp := range doc.Products {
		price, err := ParseAmount(fp.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q price: %w", fp.ID, err)
		}
		var mrp int64
		if strings.TrimSpace(fp.MRP) != "" {
			if mrp, err = ParseAmount(fp.MRP); err != nil {
				return nil, fmt.Errorf("product %q mrp: %w", fp.ID, err)
			}
		}
		products = append(products, domain.Product{
			ID:          fp.ID,
			Name:        fp.Name,
			PriceCents:  price,
			MRPCents:    mrp,
			Currency:    currency,
			Category:    fp.Category,
			TagLabel:    fp.TagLabel,
			Image:       fp.Image,
			Short:       fp.Short,
			Description: fp.Description,
			Badge:       fp.Badge,
			SupplierID:  fp.SupplierID,
		})
	}
	return New(products)
}

// ParseAmount converts a major-unit amount string to minor units, rounding
// half away from zero at the second decimal.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// FormatAmount renders minor units as a major-unit string. Whole amounts
// drop the fraction ("20"), others keep two places ("19.90").
func FormatAmount(cents int64) string {
	d := decimal.New(cents, -2)
	if cents%100 == 0 {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}
