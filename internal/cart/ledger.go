// ABOUTME: Persisted, deduplicated shopping cart ledger
// ABOUTME: One line per (productId, size, color); mutations commit before returning

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/localstore"
)

// ErrSelectionRequired is returned when a product demands a size or color
// choice and none was made. The ledger is left unchanged.
var ErrSelectionRequired = errors.New("selection required")

// Outcome reports what AddOrMerge did.
type Outcome int

const (
	// OutcomeAdded means a new line was appended.
	OutcomeAdded Outcome = iota
	// OutcomeQuantityUpdated means an existing line's quantity grew.
	OutcomeQuantityUpdated
)

func (o Outcome) String() string {
	if o == OutcomeQuantityUpdated {
		return "Quantity updated in cart!"
	}
	return "Item added to cart!"
}

// Line is one cart entry. Identity is (ProductID, Size, Color); the JSON
// field names are the persisted wire format and must stay stable.
type Line struct {
	ProductID       string  `json:"productId"`
	Name            string  `json:"name"`
	ImageURL        string  `json:"imageUrl"`
	DiscountedPrice float64 `json:"discountedPrice"`
	OriginalPrice   float64 `json:"originalPrice"`
	Size            string  `json:"selectedSize"`
	Color           string  `json:"selectedColor"`
	Quantity        int     `json:"quantity"`
	VendorName      string  `json:"vendorName"`
}

// key is the identity tuple used to deduplicate lines.
type key struct {
	productID, size, color string
}

func (l Line) key() key {
	return key{l.ProductID, l.Size, l.Color}
}

// Storage persists the serialized ledger. localstore.Store satisfies it.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Ledger is the sole source of truth for the shopping cart. Every
// mutation is a load-merge-store transaction under one lock, so no two
// AddOrMerge calls can produce duplicate identity keys.
type Ledger struct {
	storage Storage
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewLedger creates a ledger over the given storage.
func NewLedger(storage Storage, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		storage: storage,
		logger:  logger.With("component", "cart"),
	}
}

// AddOrMerge adds a selection of product to the cart. If a line with the
// same (productId, size, color) exists its quantity is incremented,
// otherwise a new line is appended. Quantity is clamped to a minimum
// of 1. The updated ledger is durably stored before returning.
func (l *Ledger) AddOrMerge(ctx context.Context, product *api.Product, size, color string, quantity int) (Outcome, error) {
	if len(product.Sizes) > 0 && size == "" {
		return 0, fmt.Errorf("%w: please select a size", ErrSelectionRequired)
	}
	if len(product.Colors) > 0 && color == "" {
		return 0, fmt.Errorf("%w: please select a color", ErrSelectionRequired)
	}
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lines := l.load(ctx)

	item := Line{
		ProductID:       product.ID,
		Name:            product.Name,
		ImageURL:        product.ImageURL,
		DiscountedPrice: product.DiscountedPrice,
		OriginalPrice:   product.OriginalPrice,
		Size:            size,
		Color:           color,
		Quantity:        quantity,
		VendorName:      product.VendorName,
	}

	outcome := OutcomeAdded
	merged := false
	for i := range lines {
		if lines[i].key() == item.key() {
			lines[i].Quantity += quantity
			outcome = OutcomeQuantityUpdated
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, item)
	}

	if err := l.persist(ctx, lines); err != nil {
		return 0, err
	}

	l.logger.Debug("cart updated", "product_id", item.ProductID, "size", size, "color", color, "outcome", outcome.String())
	return outcome, nil
}

// Lines returns the current cart contents in insertion order.
func (l *Ledger) Lines(ctx context.Context) []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.storage.Delete(ctx, localstore.KeyCartItems)
}

// Totals returns the total item count and the discounted subtotal.
func (l *Ledger) Totals(ctx context.Context) (count int, subtotal float64) {
	for _, line := range l.Lines(ctx) {
		count += line.Quantity
		subtotal += float64(line.Quantity) * line.DiscountedPrice
	}
	return count, subtotal
}

// load reads the persisted ledger. A missing or corrupt record is an
// empty cart, never a fatal error.
func (l *Ledger) load(ctx context.Context) []Line {
	raw, err := l.storage.Get(ctx, localstore.KeyCartItems)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			l.logger.Warn("reading cart failed, starting empty", "error", err)
		}
		return nil
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		l.logger.Warn("persisted cart is corrupt, starting empty", "error", err)
		return nil
	}
	return lines
}

// persist durably stores the ledger.
func (l *Ledger) persist(ctx context.Context, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("serializing cart: %w", err)
	}
	if err := l.storage.Set(ctx, localstore.KeyCartItems, string(data)); err != nil {
		return fmt.Errorf("storing cart: %w", err)
	}
	return nil
}

// ParseQuantity coerces raw quantity input to a positive integer.
// Non-numeric input becomes 1, anything below 1 is clamped to 1.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
