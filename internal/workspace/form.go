// ABOUTME: Product form state shared by the vendor and superadmin workspaces
// ABOUTME: Raw text fields, type/category defaults, and payload conversion

package workspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rbr-labs/storefront/internal/api"
)

// Product types and their default categories. Switching type always
// returns the category to the type's default unless the user overrides
// it afterwards.
const (
	TypeShoes   = "Shoes"
	TypeDresses = "Dresses"
)

// defaultCategory is the consistent type/category pairing.
func defaultCategory(productType string) string {
	if productType == TypeDresses {
		return "Casual"
	}
	return "Mens"
}

// CategoriesFor lists the valid categories for a product type.
func CategoriesFor(productType string) []string {
	if productType == TypeDresses {
		return []string{"Casual", "Formal", "Party"}
	}
	return []string{"Mens", "Womens", "Kids"}
}

// ProductForm holds raw user input for the add/edit product flow.
// Fields stay as entered text until Payload converts them.
type ProductForm struct {
	Name            string
	ProductType     string
	Category        string
	ImageURL        string
	OriginalPrice   string
	DiscountedPrice string
	DiscountPercent string
	Rating          string
	Reviews         string
	Sizes           string // comma-separated
	Colors          string // comma-separated

	categoryOverridden bool
}

// NewProductForm returns a form with the default type/category combination.
func NewProductForm() ProductForm {
	return ProductForm{
		ProductType: TypeShoes,
		Category:    defaultCategory(TypeShoes),
	}
}

// SetProductType switches the product type and resets the category to
// the type's default unless the user already chose one explicitly.
func (f *ProductForm) SetProductType(productType string) {
	f.ProductType = productType
	if !f.categoryOverridden {
		f.Category = defaultCategory(productType)
	}
}

// SetCategory records an explicit category choice.
func (f *ProductForm) SetCategory(category string) {
	f.Category = category
	f.categoryOverridden = true
}

// FromProduct loads an existing product into the form for editing.
func (f *ProductForm) FromProduct(p *api.Product) {
	*f = ProductForm{
		Name:            p.Name,
		ProductType:     p.ProductType,
		Category:        p.Category,
		ImageURL:        p.ImageURL,
		OriginalPrice:   formatNumber(p.OriginalPrice),
		DiscountedPrice: formatNumber(p.DiscountedPrice),
		DiscountPercent: formatNumber(p.DiscountPercent),
		Rating:          formatNumber(p.Rating),
		Reviews:         strconv.Itoa(p.Reviews),
		Sizes:           strings.Join(p.Sizes, ", "),
		Colors:          strings.Join(p.Colors, ", "),

		categoryOverridden: true,
	}
}

// Payload converts the form into an API payload for the given vendor.
// Numeric fields that fail to parse produce an error; nothing is
// submitted partially.
func (f *ProductForm) Payload(vendorID, vendorName string) (api.ProductPayload, error) {
	if strings.TrimSpace(f.Name) == "" {
		return api.ProductPayload{}, errors.New("product name is required")
	}

	original, err := parseNumber("original price", f.OriginalPrice)
	if err != nil {
		return api.ProductPayload{}, err
	}
	discounted, err := parseNumber("discounted price", f.DiscountedPrice)
	if err != nil {
		return api.ProductPayload{}, err
	}
	percent, err := parseNumber("discount percent", f.DiscountPercent)
	if err != nil {
		return api.ProductPayload{}, err
	}
	rating, err := parseNumber("rating", f.Rating)
	if err != nil {
		return api.ProductPayload{}, err
	}
	reviews, err := parseNumber("reviews", f.Reviews)
	if err != nil {
		return api.ProductPayload{}, err
	}

	return api.ProductPayload{
		Name:            strings.TrimSpace(f.Name),
		ProductType:     f.ProductType,
		Category:        f.Category,
		ImageURL:        strings.TrimSpace(f.ImageURL),
		OriginalPrice:   original,
		DiscountedPrice: discounted,
		DiscountPercent: percent,
		Rating:          rating,
		Reviews:         int(reviews),
		Sizes:           splitList(f.Sizes),
		Colors:          splitList(f.Colors),
		VendorID:        vendorID,
		VendorName:      vendorName,
	}, nil
}

// Reset clears the form back to the current type's default combination.
func (f *ProductForm) Reset() {
	productType := f.ProductType
	if productType == "" {
		productType = TypeShoes
	}
	*f = ProductForm{
		ProductType: productType,
		Category:    defaultCategory(productType),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseNumber(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return n, nil
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
