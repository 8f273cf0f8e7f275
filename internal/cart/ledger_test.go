// ABOUTME: Tests for cart ledger merge semantics and persistence
// ABOUTME: Covers the dedup invariant, selection validation, and corrupt storage

package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/localstore"
)

func newTestLedger(t *testing.T) (*Ledger, *localstore.Store) {
	t.Helper()
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLedger(store, nil), store
}

func sneaker() *api.Product {
	return &api.Product{
		ID:              "p1",
		Name:            "Court Sneaker",
		ImageURL:        "https://img.example/p1.jpg",
		OriginalPrice:   1999,
		DiscountedPrice: 1499,
		Sizes:           []string{"M"},
		Colors:          []string{"red"},
		VendorName:      "rahul",
	}
}

func TestAddOrMerge_NewThenMerge(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	out, err := l.AddOrMerge(ctx, sneaker(), "M", "red", 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdded, out)

	out, err = l.AddOrMerge(ctx, sneaker(), "M", "red", 2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeQuantityUpdated, out)

	lines := l.Lines(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAddOrMerge_DistinctKeysStaySeparate(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	p := sneaker()
	p.Sizes = []string{"M", "L"}
	p.Colors = []string{"red", "blue"}

	_, err := l.AddOrMerge(ctx, p, "M", "red", 1)
	require.NoError(t, err)
	_, err = l.AddOrMerge(ctx, p, "L", "red", 1)
	require.NoError(t, err)
	_, err = l.AddOrMerge(ctx, p, "M", "blue", 1)
	require.NoError(t, err)

	lines := l.Lines(ctx)
	require.Len(t, lines, 3)
	// Insertion order is preserved for display stability
	assert.Equal(t, "M", lines[0].Size)
	assert.Equal(t, "L", lines[1].Size)
	assert.Equal(t, "blue", lines[2].Color)
}

func TestAddOrMerge_QuantitySumsPerKey(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	quantities := []int{1, 4, 2, 7}
	total := 0
	for _, q := range quantities {
		_, err := l.AddOrMerge(ctx, sneaker(), "M", "red", q)
		require.NoError(t, err)
		total += q
	}

	lines := l.Lines(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, total, lines[0].Quantity)
}

func TestAddOrMerge_SelectionRequired(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		sizes       []string
		colors      []string
		size, color string
		wantErr     bool
	}{
		{name: "size missing", sizes: []string{"M"}, colors: nil, size: "", color: "", wantErr: true},
		{name: "color missing", sizes: nil, colors: []string{"red"}, size: "", color: "", wantErr: true},
		{name: "both provided", sizes: []string{"M"}, colors: []string{"red"}, size: "M", color: "red", wantErr: false},
		{name: "no options at all", sizes: nil, colors: nil, size: "", color: "", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sneaker()
			p.ID = "p-" + tt.name
			p.Sizes = tt.sizes
			p.Colors = tt.colors

			_, err := l.AddOrMerge(ctx, p, tt.size, tt.color, 1)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSelectionRequired)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddOrMerge_FailedValidationLeavesLedgerUntouched(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddOrMerge(ctx, sneaker(), "M", "red", 1)
	require.NoError(t, err)

	_, err = l.AddOrMerge(ctx, sneaker(), "", "red", 5)
	require.ErrorIs(t, err, ErrSelectionRequired)

	lines := l.Lines(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAddOrMerge_ClampsQuantity(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddOrMerge(ctx, sneaker(), "M", "red", 0)
	require.NoError(t, err)
	_, err = l.AddOrMerge(ctx, sneaker(), "M", "red", -3)
	require.NoError(t, err)

	lines := l.Lines(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestLedger_CorruptStorageIsEmpty(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, localstore.KeyCartItems, "{{{not json"))

	assert.Empty(t, l.Lines(ctx))

	// Mutating after corruption starts from an empty ledger
	out, err := l.AddOrMerge(ctx, sneaker(), "M", "red", 2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdded, out)
	require.Len(t, l.Lines(ctx), 1)
}

func TestLedger_PersistsAcrossInstances(t *testing.T) {
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	l1 := NewLedger(store, nil)
	_, err = l1.AddOrMerge(ctx, sneaker(), "M", "red", 2)
	require.NoError(t, err)

	// A fresh ledger over the same storage sees the same lines
	l2 := NewLedger(store, nil)
	lines := l2.Lines(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Court Sneaker", lines[0].Name)
}

func TestLedger_ClearAndTotals(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddOrMerge(ctx, sneaker(), "M", "red", 2)
	require.NoError(t, err)

	count, subtotal := l.Totals(ctx)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2998.0, subtotal)

	require.NoError(t, l.Clear(ctx))
	assert.Empty(t, l.Lines(ctx))
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"1", 1},
		{"0", 1},
		{"-2", 1},
		{"abc", 1},
		{"", 1},
		{"2.5", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseQuantity(tt.in), "ParseQuantity(%q)", tt.in)
	}
}
