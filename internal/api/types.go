// ABOUTME: Wire types for the remote catalog/order API
// ABOUTME: Field names follow the upstream JSON (Mongo-style _id keys)

package api

// Product is a catalog product owned by exactly one vendor.
type Product struct {
	ID              string   `json:"_id"`
	Name            string   `json:"name"`
	ProductType     string   `json:"productType"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"imageUrl"`
	OriginalPrice   float64  `json:"originalPrice"`
	DiscountedPrice float64  `json:"discountedPrice"`
	DiscountPercent float64  `json:"discountPercent"`
	Rating          float64  `json:"rating"`
	Reviews         int      `json:"reviews"`
	Sizes           []string `json:"sizes"`
	Colors          []string `json:"colors"`
	VendorID        string   `json:"vendorId"`
	VendorName      string   `json:"vendorName"`
}

// ProductPayload is the request body for creating or updating a product.
type ProductPayload struct {
	Name            string   `json:"name"`
	ProductType     string   `json:"productType"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"imageUrl"`
	OriginalPrice   float64  `json:"originalPrice"`
	DiscountedPrice float64  `json:"discountedPrice"`
	DiscountPercent float64  `json:"discountPercent"`
	Rating          float64  `json:"rating"`
	Reviews         int      `json:"reviews"`
	Sizes           []string `json:"sizes"`
	Colors          []string `json:"colors"`
	VendorID        string   `json:"vendorId"`
	VendorName      string   `json:"vendorName"`
}

// ProductFilter narrows ListProducts results. Zero fields are unscoped.
type ProductFilter struct {
	Category string
	VendorID string
}

// Vendor is a marketplace vendor account.
// Vendors are created pending and either approved or removed by a
// superadmin; approval never reverts.
type Vendor struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	Location   string `json:"location"`
	IsApproved bool   `json:"isApproved"`
}

// RegisterVendorRequest is the public vendor self-registration payload.
type RegisterVendorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Location string `json:"location"`
}

// Order statuses form a small closed set; this client renders them but
// never transitions them.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a read-only order record.
type Order struct {
	ID           string `json:"_id"`
	VendorName   string `json:"vendorName"`
	ProductName  string `json:"productName"`
	CustomerName string `json:"customerName"`
	Status       string `json:"status"`
}
