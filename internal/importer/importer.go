package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"petshop-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads a pet-shop catalog export and inserts or updates
// products keyed by their product key.
//
// Expected headers: key, sku, name, spec, category, description, price,
// original_price, image, stock, status. Prices are decimal yuan ("129.90").
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	projectID   string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, projectID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		projectID:   projectID,
	}
}

var requiredHeaders = []string{"key", "sku", "name", "price"}

// Run parses every row and upserts it. It stops at the first invalid row and
// reports how many products were written before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return 0, fmt.Errorf("missing column %q", h)
		}
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
		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		p.ProjectID = i.projectID
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Key, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		Key:         pick(record, index, "key"),
		SKU:         pick(record, index, "sku"),
		Name:        pick(record, index, "name"),
		Spec:        pick(record, index, "spec"),
		Category:    pick(record, index, "category"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image"),
		Status:      domain.ProductStatusActive,
	}
	if p.Key == "" || p.Name == "" || p.SKU == "" {
		return p, fmt.Errorf("key, sku and name are required (key %q)", p.Key)
	}

	price, err := parseCents(pick(record, index, "price"))
	if err != nil {
		return p, fmt.Errorf("price for %q: %w", p.Key, err)
	}
	if price <= 0 {
		return p, fmt.Errorf("price for %q must be positive", p.Key)
	}
	p.PriceCents = price
	p.OriginalPriceCents = price

	if raw := pick(record, index, "original_price"); raw != "" {
		orig, err := parseCents(raw)
		if err != nil {
			return p, fmt.Errorf("original_price for %q: %w", p.Key, err)
		}
		p.OriginalPriceCents = orig
	}

	if raw := pick(record, index, "stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return p, fmt.Errorf("stock for %q: invalid value %q", p.Key, raw)
		}
		p.Stock = stock
	}

	switch strings.ToLower(pick(record, index, "status")) {
	case "", "1", "active", "on":
	case "0", "inactive", "off":
		p.Status = 0
	default:
		return p, fmt.Errorf("status for %q: unknown value", p.Key)
	}
	return p, nil
}

// parseCents converts a decimal amount such as "129.9" to 12990. More than
// two fractional digits is rejected rather than rounded.
func parseCents(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimals", raw)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", raw)
	}
	return cents.IntPart(), nil
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
