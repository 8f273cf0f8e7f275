// ABOUTME: Superadmin workspace: vendor approval, on-behalf product creation
// ABOUTME: Unscoped fetches; add-product targets a selected approved vendor

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rbr-labs/storefront/internal/api"
)

// SuperadminTab is the superadmin workspace tab selector.
type SuperadminTab string

const (
	TabManageVendors   SuperadminTab = "manageVendors"
	TabAdminAddProduct SuperadminTab = "addProduct"
	TabAdminOrders     SuperadminTab = "orders"
)

// ErrVendorSelectionRequired is returned when add-product is submitted
// without a target vendor.
var ErrVendorSelectionRequired = errors.New("please select a vendor to add the product")

// SuperadminWorkspace manages all vendors and sees all orders. Products
// are created on behalf of a selected approved vendor.
type SuperadminWorkspace struct {
	gateway Gateway
	logger  *slog.Logger

	tab            SuperadminTab
	vendors        []api.Vendor
	orders         []api.Order
	selectedVendor string
	form           ProductForm
}

// NewSuperadminWorkspace creates a superadmin workspace on its default tab.
func NewSuperadminWorkspace(gateway Gateway, logger *slog.Logger) *SuperadminWorkspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuperadminWorkspace{
		gateway: gateway,
		logger:  logger.With("component", "workspace.superadmin"),
		tab:     TabManageVendors,
		form:    NewProductForm(),
	}
}

// Tab returns the active tab.
func (w *SuperadminWorkspace) Tab() SuperadminTab { return w.tab }

// Vendors returns the last fetched vendor list, pending and approved.
func (w *SuperadminWorkspace) Vendors() []api.Vendor { return w.vendors }

// ApprovedVendors filters the vendor list down to the approved ones,
// which is what populates the add-product vendor selection control.
func (w *SuperadminWorkspace) ApprovedVendors() []api.Vendor {
	var approved []api.Vendor
	for _, v := range w.vendors {
		if v.IsApproved {
			approved = append(approved, v)
		}
	}
	return approved
}

// Orders returns the last fetched order list.
func (w *SuperadminWorkspace) Orders() []api.Order { return w.orders }

// Form gives access to the add product form.
func (w *SuperadminWorkspace) Form() *ProductForm { return &w.form }

// SelectedVendor returns the vendor id targeted by add-product.
func (w *SuperadminWorkspace) SelectedVendor() string { return w.selectedVendor }

// SelectVendor sets the target vendor for add-product.
func (w *SuperadminWorkspace) SelectVendor(vendorID string) {
	w.selectedVendor = vendorID
}

// SelectTab switches tabs and fetches that tab's data unscoped. The
// vendor list backs both manageVendors and addProduct. A fetch failure
// is returned for display and leaves prior data intact.
func (w *SuperadminWorkspace) SelectTab(ctx context.Context, tab SuperadminTab) error {
	switch tab {
	case TabManageVendors, TabAdminAddProduct:
		if err := w.refreshVendors(ctx); err != nil {
			return err
		}
		w.tab = tab
		return nil
	case TabAdminOrders:
		orders, err := w.gateway.ListOrders(ctx, "")
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

// ApproveVendor approves a pending vendor and refreshes the list.
// Approval never reverts.
func (w *SuperadminWorkspace) ApproveVendor(ctx context.Context, vendorID string) error {
	if err := w.gateway.ApproveVendor(ctx, vendorID); err != nil {
		return fmt.Errorf("failed to approve vendor: %w", err)
	}
	w.logger.Info("vendor approved", "vendor_id", vendorID)
	return w.refreshVendors(ctx)
}

// RejectVendor removes a vendor and refreshes the list.
func (w *SuperadminWorkspace) RejectVendor(ctx context.Context, vendorID string) error {
	if err := w.gateway.RejectVendor(ctx, vendorID); err != nil {
		return fmt.Errorf("failed to remove vendor: %w", err)
	}
	if w.selectedVendor == vendorID {
		w.selectedVendor = ""
	}
	w.logger.Info("vendor removed", "vendor_id", vendorID)
	return w.refreshVendors(ctx)
}

// SubmitProduct creates a product on behalf of the selected vendor.
func (w *SuperadminWorkspace) SubmitProduct(ctx context.Context) (string, error) {
	if w.selectedVendor == "" {
		return "", ErrVendorSelectionRequired
	}

	vendorName := "N/A"
	for _, v := range w.vendors {
		if v.ID == w.selectedVendor {
			vendorName = v.Username
			break
		}
	}

	payload, err := w.form.Payload(w.selectedVendor, vendorName)
	if err != nil {
		return "", err
	}

	if _, err := w.gateway.CreateProduct(ctx, payload); err != nil {
		return "", fmt.Errorf("failed to add product: %w", err)
	}

	w.form.Reset()
	return "Product added successfully!", nil
}

// refreshVendors reloads the vendor list and keeps the add-product
// selection pointing at an approved vendor.
func (w *SuperadminWorkspace) refreshVendors(ctx context.Context) error {
	vendors, err := w.gateway.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch vendors: %w", err)
	}
	w.vendors = vendors

	if w.selectedVendor == "" {
		for _, v := range vendors {
			if v.IsApproved {
				w.selectedVendor = v.ID
				break
			}
		}
	}
	return nil
}
