package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads a product sheet and inserts or updates products by id.
// Prices are major units ("20", "19.99"); mrp may be blank.
type CSVImporter struct {
	reader          *csv.Reader
	productRepo     ProductWriter
	defaultCurrency string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, defaultCurrency string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:          csvr,
		productRepo:     repo,
		defaultCurrency: defaultCurrency,
	}
}

// Run upserts every non-blank row and returns how many were written. It stops
// at the first invalid row; rows before it stay written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, errors.New("read headers: missing id column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		if blank(record) {
			continue
		}
		p, err := i.parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Currency:    strings.ToUpper(pick(record, index, "currency")),
		Category:    pick(record, index, "category"),
		TagLabel:    pick(record, index, "tagLabel"),
		Image:       pick(record, index, "image"),
		Short:       pick(record, index, "short"),
		Description: pick(record, index, "description"),
		Badge:       pick(record, index, "badge"),
		SupplierID:  pick(record, index, "supplierId"),
	}
	if p.ID == "" || p.Name == "" {
		return p, errors.New("id and name are required")
	}
	if p.Currency == "" {
		p.Currency = i.defaultCurrency
	}

	price, err := catalog.ParseAmount(pick(record, index, "price"))
	if err != nil {
		return p, fmt.Errorf("product %q price: %w", p.ID, err)
	}
	p.PriceCents = price

	if raw := pick(record, index, "mrp"); raw != "" {
		mrp, err := catalog.ParseAmount(raw)
		if err != nil {
			return p, fmt.Errorf("product %q mrp: %w", p.ID, err)
		}
		p.MRPCents = mrp
	}
	if p.MRPCents < p.PriceCents {
		p.MRPCents = p.PriceCents
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
