// ABOUTME: Interactive storefront client: catalog browsing, cart, checkout
// ABOUTME: Role-resolved vendor and superadmin dashboards over the remote API

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/cart"
	"github.com/rbr-labs/storefront/internal/config"
	"github.com/rbr-labs/storefront/internal/localstore"
	"github.com/rbr-labs/storefront/internal/session"
	"github.com/rbr-labs/storefront/internal/token"
	"github.com/rbr-labs/storefront/internal/workspace"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file (YAML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating storage directory: %v\n", err)
		os.Exit(1)
	}
	store, err := localstore.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening local store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	app := newApp(cfg, store, logger)

	fmt.Printf("storefront connected to %s\n", cfg.API.BaseURL)
	fmt.Println("Type /help for commands. Ctrl+C to quit.")
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Pick up a session persisted by a previous run
	if outcome := app.sessions.Resolve(ctx); outcome.State == session.StateAuthenticated {
		fmt.Printf("Welcome back, %s (%s)\n\n", outcome.Claims.Username, outcome.Claims.Role)
	}

	if err := app.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

// loadConfig reads the named config file, or falls back to defaults when
// no path is given and no config.yaml sits in the working directory.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	}
	return config.Default(), nil
}

// setupLogger builds the process logger from config. Format "json" gives
// structured output, anything else is human-readable text.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// app wires the client-side components together and drives the REPL.
type app struct {
	client   *api.Client
	sessions *session.Manager
	ledger   *cart.Ledger
	logger   *slog.Logger

	scanner *bufio.Scanner

	// Active dashboard, nil until /dashboard resolves one
	vendorWS *workspace.VendorWorkspace
	superWS  *workspace.SuperadminWorkspace
}

func newApp(cfg *config.Config, store *localstore.Store, logger *slog.Logger) *app {
	a := &app{
		logger:  logger,
		scanner: bufio.NewScanner(os.Stdin),
	}
	a.client = api.NewClient(cfg.API.BaseURL,
		api.WithTokenSource(func() string { return a.sessions.Token() }),
		api.WithLogger(logger),
	)
	a.sessions = session.NewManager(store, token.NewDecoder(), a.client, logger)
	a.ledger = cart.NewLedger(store, logger)
	return a
}

func (a *app) run(ctx context.Context) error {
	for {
		a.printPrompt()

		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if a.scanner.Scan() {
				inputCh <- a.scanner.Text()
			} else {
				if err := a.scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if err := a.dispatch(ctx, input); err != nil {
			color.Red("[error] %v", err)
		}
		fmt.Println()
	}
}

func (a *app) printPrompt() {
	if claims, ok := a.sessions.Current(); ok {
		fmt.Printf("[%s]> ", claims.Username)
	} else {
		fmt.Print("> ")
	}
}

func (a *app) dispatch(ctx context.Context, input string) error {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		a.printHelp()
		return nil
	case "/login":
		return a.cmdLogin(ctx, args)
	case "/logout":
		return a.cmdLogout(ctx)
	case "/whoami":
		return a.cmdWhoami()
	case "/products":
		return a.cmdProducts(ctx, args)
	case "/show":
		return a.cmdShow(ctx, args)
	case "/add":
		return a.cmdAdd(ctx, args, false)
	case "/buy":
		return a.cmdAdd(ctx, args, true)
	case "/cart":
		return a.cmdCart(ctx)
	case "/clearcart":
		return a.ledger.Clear(ctx)
	case "/dashboard":
		return a.cmdDashboard(ctx)
	case "/tab":
		return a.cmdTab(ctx, args)
	case "/vendors":
		return a.cmdVendorList()
	case "/approve":
		return a.cmdApprove(ctx, args)
	case "/reject":
		return a.cmdReject(ctx, args)
	case "/vendor":
		return a.cmdSelectVendor(args)
	case "/newproduct":
		return a.cmdNewProduct(ctx)
	case "/edit":
		return a.cmdEdit(ctx, args)
	case "/delete":
		return a.cmdDelete(ctx, args)
	case "/orders":
		return a.cmdOrders(ctx)
	default:
		return fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func (a *app) printHelp() {
	fmt.Println("Shopping:")
	fmt.Println("  /products [category]        List the catalog, optionally filtered")
	fmt.Println("  /show <id>                  Show product details")
	fmt.Println("  /add <id>                   Add a product to the cart (prompts for options)")
	fmt.Println("  /buy <id>                   Add to cart and show the cart")
	fmt.Println("  /cart                       Show cart contents and totals")
	fmt.Println("  /clearcart                  Empty the cart")
	fmt.Println()
	fmt.Println("Account:")
	fmt.Println("  /login <user> <pass>        Log in")
	fmt.Println("  /logout                     Log out")
	fmt.Println("  /whoami                     Show the current identity")
	fmt.Println()
	fmt.Println("Dashboard (after /login):")
	fmt.Println("  /dashboard                  Open the role-specific dashboard")
	fmt.Println("  /tab <name>                 Switch dashboard tab")
	fmt.Println("  /vendors                    List vendors (superadmin)")
	fmt.Println("  /approve <id>               Approve a vendor (superadmin)")
	fmt.Println("  /reject <id>                Reject a vendor (superadmin)")
	fmt.Println("  /vendor <id>                Select target vendor for /newproduct (superadmin)")
	fmt.Println("  /newproduct                 Add a product (interactive form)")
	fmt.Println("  /edit <id>                  Edit one of your products")
	fmt.Println("  /delete <id>                Delete one of your products")
	fmt.Println("  /orders                     List orders")
	fmt.Println()
	fmt.Println("  /quit                       Exit")
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: /login <username> <password>")
	}

	if _, err := a.sessions.Login(ctx, args[0], args[1]); err != nil {
		return err
	}

	outcome := a.sessions.Resolve(ctx)
	if outcome.State != session.StateAuthenticated {
		return fmt.Errorf("session did not resolve after login")
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Logged in as %s (%s)\n", outcome.Claims.Username, outcome.Claims.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	a.vendorWS = nil
	a.superWS = nil
	fmt.Println("Logged out")
	return nil
}

func (a *app) cmdWhoami() error {
	claims, ok := a.sessions.Current()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s (%s), subject %s\n", claims.Username, claims.Role, claims.SubjectID)
	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	var filter api.ProductFilter
	if len(args) > 0 {
		filter.Category = args[0]
	}

	products, err := a.client.ListProducts(ctx, filter)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCATEGORY\tPRICE\tRATING\tVENDOR")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%.1f\t%s\n",
			p.ID, p.Name, p.ProductType, p.Category, p.DiscountedPrice, p.Rating, p.VendorName)
	}
	w.Flush()
	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: /show <product-id>")
	}

	p, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("product %s not found", args[0])
		}
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("%s\n", p.Name)
	fmt.Printf("  %s / %s, sold by %s\n", p.ProductType, p.Category, p.VendorName)
	fmt.Printf("  Price:   %.0f", p.DiscountedPrice)
	if p.OriginalPrice > p.DiscountedPrice {
		fmt.Printf("  (was %.0f, %.0f%% off)", p.OriginalPrice, p.DiscountPercent)
	}
	fmt.Println()
	fmt.Printf("  Rating:  %.1f (%d reviews)\n", p.Rating, p.Reviews)
	if len(p.Sizes) > 0 {
		fmt.Printf("  Sizes:   %s\n", strings.Join(p.Sizes, ", "))
	}
	if len(p.Colors) > 0 {
		fmt.Printf("  Colors:  %s\n", strings.Join(p.Colors, ", "))
	}
	return nil
}

// cmdAdd fetches the product, prompts for any required selections, and
// adds it to the cart. With showCart the cart is printed afterwards,
// which is the buy-now flow.
func (a *app) cmdAdd(ctx context.Context, args []string, showCart bool) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: /add <product-id>")
	}

	p, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("product %s not found", args[0])
		}
		return err
	}

	var size, colorChoice string
	if len(p.Sizes) > 0 {
		size = a.prompt(fmt.Sprintf("Size (%s): ", strings.Join(p.Sizes, ", ")))
	}
	if len(p.Colors) > 0 {
		colorChoice = a.prompt(fmt.Sprintf("Color (%s): ", strings.Join(p.Colors, ", ")))
	}
	quantity := cart.ParseQuantity(a.prompt("Quantity [1]: "))

	outcome, err := a.ledger.AddOrMerge(ctx, p, size, colorChoice, quantity)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", outcome)

	if showCart {
		fmt.Println()
		return a.cmdCart(ctx)
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context) error {
	lines := a.ledger.Lines(ctx)
	if len(lines) == 0 {
		fmt.Println("Your cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tSIZE\tCOLOR\tQTY\tPRICE\tVENDOR")
	for _, line := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%s\n",
			line.Name, orDash(line.Size), orDash(line.Color), line.Quantity, line.DiscountedPrice, line.VendorName)
	}
	w.Flush()

	count, subtotal := a.ledger.Totals(ctx)
	fmt.Printf("\n%d item(s), subtotal %.0f\n", count, subtotal)
	return nil
}

// cmdDashboard resolves the stored session into a role-specific
// workspace, mirroring the dashboard route guard.
func (a *app) cmdDashboard(ctx context.Context) error {
	outcome := a.sessions.Resolve(ctx)
	if outcome.State != session.StateAuthenticated {
		fmt.Printf("Not logged in, use /login (redirect: %s)\n", outcome.Redirect)
		return nil
	}

	claims := outcome.Claims
	res := workspace.Resolve(false, "", claims.Role, claims.SubjectID, claims.Username)

	switch res.View {
	case workspace.ViewVendor:
		a.vendorWS = workspace.NewVendorWorkspace(a.client, claims.SubjectID, claims.Username, a.logger)
		a.superWS = nil
		fmt.Printf("Vendor dashboard for %s. Tabs: addProduct, manageProducts, orders (default %s)\n",
			claims.Username, a.vendorWS.Tab())
	case workspace.ViewSuperadmin:
		a.superWS = workspace.NewSuperadminWorkspace(a.client, a.logger)
		a.vendorWS = nil
		if err := a.superWS.SelectTab(ctx, workspace.TabManageVendors); err != nil {
			return err
		}
		fmt.Println("Superadmin dashboard. Tabs: manageVendors, addProduct, orders")
		return a.cmdVendorList()
	default:
		color.Red("%s", res.Message)
	}
	return nil
}

func (a *app) cmdTab(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: /tab <name>")
	}
	name := args[0]

	switch {
	case a.vendorWS != nil:
		if err := a.vendorWS.SelectTab(ctx, workspace.VendorTab(name)); err != nil {
			return err
		}
		switch a.vendorWS.Tab() {
		case workspace.TabManageProducts:
			return a.printVendorProducts()
		case workspace.TabOrders:
			return printOrders(a.vendorWS.Orders())
		}
		fmt.Println("Add product tab, use /newproduct")
		return nil
	case a.superWS != nil:
		if err := a.superWS.SelectTab(ctx, workspace.SuperadminTab(name)); err != nil {
			return err
		}
		switch a.superWS.Tab() {
		case workspace.TabManageVendors:
			return a.cmdVendorList()
		case workspace.TabAdminOrders:
			return printOrders(a.superWS.Orders())
		}
		fmt.Println("Add product tab, use /vendor <id> then /newproduct")
		return nil
	default:
		return fmt.Errorf("no dashboard open, use /dashboard")
	}
}

func (a *app) cmdVendorList() error {
	if a.superWS == nil {
		return fmt.Errorf("superadmin dashboard required")
	}

	vendors := a.superWS.Vendors()
	if len(vendors) == 0 {
		fmt.Println("No vendors")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tLOCATION\tSTATUS")
	for _, v := range vendors {
		status := "pending"
		if v.IsApproved {
			status = "approved"
		}
		marker := ""
		if v.ID == a.superWS.SelectedVendor() {
			marker = " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\n", v.ID, v.Username, v.Location, status, marker)
	}
	w.Flush()
	return nil
}

func (a *app) cmdApprove(ctx context.Context, args []string) error {
	if a.superWS == nil {
		return fmt.Errorf("superadmin dashboard required")
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: /approve <vendor-id>")
	}
	if err := a.superWS.ApproveVendor(ctx, args[0]); err != nil {
		return err
	}
	color.Green("✓ Vendor approved")
	return a.cmdVendorList()
}

func (a *app) cmdReject(ctx context.Context, args []string) error {
	if a.superWS == nil {
		return fmt.Errorf("superadmin dashboard required")
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: /reject <vendor-id>")
	}
	if err := a.superWS.RejectVendor(ctx, args[0]); err != nil {
		return err
	}
	color.Green("✓ Vendor rejected")
	return a.cmdVendorList()
}

func (a *app) cmdSelectVendor(args []string) error {
	if a.superWS == nil {
		return fmt.Errorf("superadmin dashboard required")
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: /vendor <vendor-id>")
	}
	a.superWS.SelectVendor(args[0])
	fmt.Printf("Target vendor: %s\n", args[0])
	return nil
}

// cmdNewProduct runs the interactive add-product form against whichever
// workspace is open.
func (a *app) cmdNewProduct(ctx context.Context) error {
	var form *workspace.ProductForm
	switch {
	case a.vendorWS != nil:
		form = a.vendorWS.Form()
	case a.superWS != nil:
		form = a.superWS.Form()
	default:
		return fmt.Errorf("no dashboard open, use /dashboard")
	}

	a.fillForm(form)

	var msg string
	var err error
	if a.vendorWS != nil {
		msg, err = a.vendorWS.SubmitProduct(ctx)
	} else {
		msg, err = a.superWS.SubmitProduct(ctx)
	}
	if err != nil {
		return err
	}

	color.Green("✓ %s", msg)
	return nil
}

// fillForm prompts for each form field. Empty input keeps the current
// value, which is what makes the edit flow work.
func (a *app) fillForm(form *workspace.ProductForm) {
	form.Name = promptDefault(a, "Name", form.Name)

	productType := promptDefault(a, fmt.Sprintf("Type (%s/%s)", workspace.TypeShoes, workspace.TypeDresses), form.ProductType)
	if productType != form.ProductType {
		form.SetProductType(productType)
	}

	category := promptDefault(a, fmt.Sprintf("Category (%s)", strings.Join(workspace.CategoriesFor(form.ProductType), ", ")), form.Category)
	if category != form.Category {
		form.SetCategory(category)
	}

	form.ImageURL = promptDefault(a, "Image URL", form.ImageURL)
	form.OriginalPrice = promptDefault(a, "Original price", form.OriginalPrice)
	form.DiscountedPrice = promptDefault(a, "Discounted price", form.DiscountedPrice)
	form.DiscountPercent = promptDefault(a, "Discount percent", form.DiscountPercent)
	form.Rating = promptDefault(a, "Rating", form.Rating)
	form.Reviews = promptDefault(a, "Reviews", form.Reviews)
	form.Sizes = promptDefault(a, "Sizes (comma-separated)", form.Sizes)
	form.Colors = promptDefault(a, "Colors (comma-separated)", form.Colors)
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	if a.vendorWS == nil {
		return fmt.Errorf("vendor dashboard required")
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: /edit <product-id>")
	}

	p, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("product %s not found", args[0])
		}
		return err
	}

	a.vendorWS.BeginEdit(*p)
	a.fillForm(a.vendorWS.Form())

	msg, err := a.vendorWS.SubmitProduct(ctx)
	if err != nil {
		a.vendorWS.CancelEdit()
		return err
	}
	color.Green("✓ %s", msg)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	if a.vendorWS == nil {
		return fmt.Errorf("vendor dashboard required")
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: /delete <product-id>")
	}
	if err := a.vendorWS.DeleteProduct(ctx, args[0]); err != nil {
		return err
	}
	color.Green("✓ Product deleted")
	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {
	switch {
	case a.vendorWS != nil:
		if err := a.vendorWS.SelectTab(ctx, workspace.TabOrders); err != nil {
			return err
		}
		return printOrders(a.vendorWS.Orders())
	case a.superWS != nil:
		if err := a.superWS.SelectTab(ctx, workspace.TabAdminOrders); err != nil {
			return err
		}
		return printOrders(a.superWS.Orders())
	default:
		return fmt.Errorf("no dashboard open, use /dashboard")
	}
}

func (a *app) printVendorProducts() error {
	products := a.vendorWS.Products()
	if len(products) == 0 {
		fmt.Println("No products yet, use /newproduct")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\n", p.ID, p.Name, p.ProductType, p.Category, p.DiscountedPrice)
	}
	w.Flush()
	return nil
}

func printOrders(orders []api.Order) error {
	if len(orders) == 0 {
		fmt.Println("No orders")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tCUSTOMER\tVENDOR\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.ProductName, o.CustomerName, o.VendorName, o.Status)
	}
	w.Flush()
	return nil
}

// prompt reads one line of input with a label.
func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(a.scanner.Text())
}

func promptDefault(a *app, label, current string) string {
	suffix := ": "
	if current != "" {
		suffix = fmt.Sprintf(" [%s]: ", current)
	}
	if v := a.prompt(label + suffix); v != "" {
		return v
	}
	return current
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
