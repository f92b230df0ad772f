package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"petshop-commerce/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `key,sku,name,spec,category,description,price,original_price,image,stock,status
kibble-adult,SKU-K1,Adult Kibble,2kg,dog-food,Chicken recipe,129.9,159.00,https://img.example/k1.jpg,40,active
,,,,,,,,,,
cat-tree,SKU-CT,Cat Tree,L,furniture,,399,,,,inactive`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, "project-123")

	count, err := imp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, repo.items, 2)

	k := repo.items[0]
	assert.Equal(t, "project-123", k.ProjectID)
	assert.Equal(t, "kibble-adult", k.Key)
	assert.Equal(t, "2kg", k.Spec)
	assert.Equal(t, "dog-food", k.Category)
	assert.EqualValues(t, 12990, k.PriceCents)
	assert.EqualValues(t, 15900, k.OriginalPriceCents)
	assert.Equal(t, 40, k.Stock)
	assert.True(t, k.Available())

	ct := repo.items[1]
	assert.EqualValues(t, 39900, ct.PriceCents)
	assert.EqualValues(t, 39900, ct.OriginalPriceCents, "original price falls back to price")
	assert.False(t, ct.Available())
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	imp := NewCSVImporter(strings.NewReader("key,sku,name\nk,s,n"), &stubProductRepo{}, "p")
	_, err := imp.Run(context.Background())
	assert.ErrorContains(t, err, `missing column "price"`)
}

func TestCSVImporter_InvalidRows(t *testing.T) {
	cases := map[string]string{
		"missing name":   "k1,S1,,10.00",
		"bad price":      "k1,S1,Toy,ten",
		"zero price":     "k1,S1,Toy,0",
		"sub-cent price": "k1,S1,Toy,1.005",
		"negative price": "k1,S1,Toy,-2",
	}
	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubProductRepo{}
			imp := NewCSVImporter(strings.NewReader("key,sku,name,price\n"+row), repo, "p")
			n, err := imp.Run(context.Background())
			assert.Error(t, err)
			assert.ErrorContains(t, err, "line 2")
			assert.Zero(t, n)
			assert.Empty(t, repo.items)
		})
	}
}

func TestCSVImporter_StopsOnWriteError(t *testing.T) {
	repo := &stubProductRepo{err: errors.New("db down")}
	imp := NewCSVImporter(strings.NewReader("key,sku,name,price\nk1,S1,Toy,5"), repo, "p")
	n, err := imp.Run(context.Background())
	assert.ErrorContains(t, err, `upsert product "k1"`)
	assert.Zero(t, n)
}

func TestParseCents(t *testing.T) {
	for raw, want := range map[string]int64{"0.01": 1, "12": 1200, "129.9": 12990, "1999.99": 199999} {
		got, err := parseCents(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}
