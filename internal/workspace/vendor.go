// ABOUTME: Vendor workspace: tabbed product CRUD and order viewing
// ABOUTME: Fetches are scoped to the workspace's own vendor id

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rbr-labs/storefront/internal/api"
)

// VendorTab is the vendor workspace tab selector.
type VendorTab string

const (
	TabAddProduct     VendorTab = "addProduct"
	TabManageProducts VendorTab = "manageProducts"
	TabOrders         VendorTab = "orders"
)

// Gateway is the remote surface the workspaces drive.
type Gateway interface {
	ListProducts(ctx context.Context, filter api.ProductFilter) ([]api.Product, error)
	CreateProduct(ctx context.Context, payload api.ProductPayload) (*api.Product, error)
	UpdateProduct(ctx context.Context, id string, payload api.ProductPayload) (*api.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListVendors(ctx context.Context) ([]api.Vendor, error)
	ApproveVendor(ctx context.Context, id string) error
	RejectVendor(ctx context.Context, id string) error
	ListOrders(ctx context.Context, vendorID string) ([]api.Order, error)
}

// VendorWorkspace is the management view for a vendor (or admin, which
// the resolver collapses into the same workspace). All product and order
// fetches are scoped to the workspace's subject id.
type VendorWorkspace struct {
	subjectID string
	username  string
	gateway   Gateway
	logger    *slog.Logger

	tab      VendorTab
	products []api.Product
	orders   []api.Order
	form     ProductForm
	editing  *api.Product
}

// NewVendorWorkspace creates a vendor workspace on its default tab.
func NewVendorWorkspace(gateway Gateway, subjectID, username string, logger *slog.Logger) *VendorWorkspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &VendorWorkspace{
		subjectID: subjectID,
		username:  username,
		gateway:   gateway,
		logger:    logger.With("component", "workspace.vendor", "vendor_id", subjectID),
		tab:       TabAddProduct,
		form:      NewProductForm(),
	}
}

// Tab returns the active tab.
func (w *VendorWorkspace) Tab() VendorTab { return w.tab }

// Products returns the last fetched product list.
func (w *VendorWorkspace) Products() []api.Product { return w.products }

// Orders returns the last fetched order list.
func (w *VendorWorkspace) Orders() []api.Order { return w.orders }

// Form gives access to the add/edit product form.
func (w *VendorWorkspace) Form() *ProductForm { return &w.form }

// Editing returns the product being edited, if the edit sub-state is active.
func (w *VendorWorkspace) Editing() (*api.Product, bool) {
	return w.editing, w.editing != nil
}

// SelectTab switches tabs and fetches that tab's data. A fetch failure
// is returned for display and leaves the previously shown data intact;
// switching to addProduct also leaves any edit in progress.
func (w *VendorWorkspace) SelectTab(ctx context.Context, tab VendorTab) error {
	switch tab {
	case TabAddProduct:
		w.tab = tab
		return nil
	case TabManageProducts:
		products, err := w.gateway.ListProducts(ctx, api.ProductFilter{VendorID: w.subjectID})
		if err != nil {
			return fmt.Errorf("failed to fetch products: %w", err)
		}
		w.tab = tab
		w.products = products
		return nil
	case TabOrders:
		orders, err := w.gateway.ListOrders(ctx, w.subjectID)
		if err != nil {
			return fmt.Errorf("failed to fetch orders: %w", err)
		}
		w.tab = tab
		w.orders = orders
		return nil
	default:
		return fmt.Errorf("unknown tab %q", tab)
	}
}

// BeginEdit enters the edit sub-state for p and loads it into the form.
func (w *VendorWorkspace) BeginEdit(p api.Product) {
	w.editing = &p
	w.form.FromProduct(&p)
	w.tab = TabAddProduct
}

// CancelEdit leaves the edit sub-state and restores form defaults.
func (w *VendorWorkspace) CancelEdit() {
	w.editing = nil
	w.form.Reset()
}

// SubmitProduct creates the product from the form, or updates the one
// being edited. On success the form returns to defaults, the edit
// sub-state ends, and the product list is refreshed.
func (w *VendorWorkspace) SubmitProduct(ctx context.Context) (string, error) {
	payload, err := w.form.Payload(w.subjectID, w.username)
	if err != nil {
		return "", err
	}

	var msg string
	if w.editing != nil {
		if _, err := w.gateway.UpdateProduct(ctx, w.editing.ID, payload); err != nil {
			return "", fmt.Errorf("failed to save product: %w", err)
		}
		msg = "Product updated successfully!"
		w.editing = nil
	} else {
		if _, err := w.gateway.CreateProduct(ctx, payload); err != nil {
			return "", fmt.Errorf("failed to save product: %w", err)
		}
		msg = "Product added successfully!"
	}

	w.form.Reset()

	// Refresh is best-effort; the submit already succeeded
	if products, err := w.gateway.ListProducts(ctx, api.ProductFilter{VendorID: w.subjectID}); err == nil {
		w.products = products
	} else {
		w.logger.Warn("product list refresh failed after submit", "error", err)
	}

	return msg, nil
}

// DeleteProduct removes one of the vendor's products and refreshes the list.
func (w *VendorWorkspace) DeleteProduct(ctx context.Context, productID string) error {
	if err := w.gateway.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("product %s not found", productID)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if products, err := w.gateway.ListProducts(ctx, api.ProductFilter{VendorID: w.subjectID}); err == nil {
		w.products = products
	}
	return nil
}
