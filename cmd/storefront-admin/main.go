// ABOUTME: Admin CLI for marketplace vendor, product, and order management
// ABOUTME: Talks to the remote API with a bearer token from env or token file

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/rbr-labs/storefront/internal/api"
	"github.com/rbr-labs/storefront/internal/token"
)

const banner = `
     _                  __                 _
 ___| |_ ___  _ __ ___ / _|_ __ ___  _ __ | |_
/ __| __/ _ \| '__/ _ \ |_| '__/ _ \| '_ \| __|
\__ \ || (_) | | |  __/  _| | | (_) | | | | |_
|___/\__\___/|_|  \___|_| |_|  \___/|_| |_|\__|
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := getEnv("STOREFRONT_API_URL", "http://localhost:5000")
	tok := getToken()

	client := api.NewClient(baseURL, api.WithTokenSource(func() string { return tok }))

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "me":
		err = cmdMe(tok)
	case "login":
		err = cmdLogin(client, args)
	case "vendors":
		err = cmdVendors(client, tok, args)
	case "products":
		err = cmdProducts(client, args)
	case "orders":
		err = cmdOrders(client, tok, args)
	case "register-vendor":
		err = cmdRegisterVendor(client, args)
	case "token":
		err = cmdToken(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: storefront-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  me                        Show your identity (decoded from token)")
	fmt.Println("  login <user> <pass>       Log in and print a bearer token")
	fmt.Println("  vendors                   List all vendors (superadmin)")
	fmt.Println("  vendors list              List all vendors (superadmin)")
	fmt.Println("  vendors approve <id>      Approve a pending vendor")
	fmt.Println("  vendors reject <id>       Reject and remove a vendor")
	fmt.Println("  products                  List products")
	fmt.Println("  products list             List products (--category, --vendor filters)")
	fmt.Println("  products delete <id>      Delete a product")
	fmt.Println("  orders                    List orders (--vendor filter)")
	fmt.Println("  register-vendor           Submit a vendor registration")
	fmt.Println("  token create              Sign a local token (needs STOREFRONT_JWT_SECRET)")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  STOREFRONT_API_URL        API base URL (default: http://localhost:5000)")
	fmt.Println("  STOREFRONT_TOKEN          Bearer token (or ~/.config/storefront/token)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  storefront-admin login superadmin super-secret")
	fmt.Println("  export STOREFRONT_TOKEN=\"eyJhbG...\"")
	fmt.Println("  storefront-admin vendors")
	fmt.Println("  storefront-admin vendors approve v-meera")
	fmt.Println("  storefront-admin products list --category Mens")
	fmt.Println()
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

// cmdMe decodes the local token and shows the identity it carries.
func cmdMe(tok string) error {
	if tok == "" {
		return fmt.Errorf("STOREFRONT_TOKEN environment variable is required")
	}

	claims, err := token.NewDecoder().Decode(tok)
	if err != nil {
		return fmt.Errorf("decoding token: %w", err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Println()
	cyan.Println("  Identity")
	cyan.Println("  --------")
	fmt.Printf("  Subject ID:  %s\n", claims.SubjectID)
	fmt.Printf("  Username:    %s\n", claims.Username)
	green.Printf("  Role:        %s\n", claims.Role)
	fmt.Println()

	return nil
}

// cmdLogin authenticates and prints the token for export.
func cmdLogin(client *api.Client, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}

	ctx, cancel := requestContext()
	defer cancel()

	tok, err := client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Println("✓ Logged in")
	fmt.Println()
	fmt.Println("  export STOREFRONT_TOKEN=\"" + tok + "\"")
	fmt.Println()

	return nil
}

func cmdVendors(client *api.Client, tok string, args []string) error {
	if tok == "" {
		return fmt.Errorf("STOREFRONT_TOKEN environment variable is required")
	}

	// Default to list
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return cmdVendorsList(client)
	case "approve":
		return cmdVendorsApprove(client, args)
	case "reject", "rm", "remove":
		return cmdVendorsReject(client, args)
	default:
		return fmt.Errorf("unknown vendors subcommand: %s (use list, approve, reject)", subcmd)
	}
}

func cmdVendorsList(client *api.Client) error {
	ctx, cancel := requestContext()
	defer cancel()

	vendors, err := client.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("ListVendors: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Vendors")
	cyan.Println("  -------")

	if len(vendors) == 0 {
		fmt.Println("  (no vendors)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tUSERNAME\tLOCATION\tSTATUS")
	fmt.Fprintln(w, "  --\t--------\t--------\t------")

	for _, v := range vendors {
		status := "pending"
		if v.IsApproved {
			status = "approved"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", truncate(v.ID, 20), v.Username, truncate(v.Location, 24), status)
	}
	w.Flush()
	fmt.Println()

	return nil
}

func cmdVendorsApprove(client *api.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vendors approve <vendor-id>")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := client.ApproveVendor(ctx, args[0]); err != nil {
		return fmt.Errorf("ApproveVendor: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Approved vendor: %s\n", args[0])
	return nil
}

func cmdVendorsReject(client *api.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vendors reject <vendor-id>")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := client.RejectVendor(ctx, args[0]); err != nil {
		return fmt.Errorf("RejectVendor: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Rejected vendor: %s\n", args[0])
	return nil
}

func cmdProducts(client *api.Client, args []string) error {
	// Default to list
	subcmd := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return cmdProductsList(client, args)
	case "delete", "rm", "remove":
		return cmdProductsDelete(client, args)
	default:
		return fmt.Errorf("unknown products subcommand: %s (use list, delete)", subcmd)
	}
}

func cmdProductsList(client *api.Client, args []string) error {
	var filter api.ProductFilter

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--category", "-c":
			if i+1 < len(args) {
				filter.Category = args[i+1]
				i++
			}
		case "--vendor", "-v":
			if i+1 < len(args) {
				filter.VendorID = args[i+1]
				i++
			}
		}
	}

	ctx, cancel := requestContext()
	defer cancel()

	products, err := client.ListProducts(ctx, filter)
	if err != nil {
		return fmt.Errorf("ListProducts: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Products")
	cyan.Println("  --------")

	if len(products) == 0 {
		fmt.Println("  (no products)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tTYPE\tCATEGORY\tPRICE\tVENDOR")
	fmt.Fprintln(w, "  --\t----\t----\t--------\t-----\t------")

	for _, p := range products {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%.0f\t%s\n",
			truncate(p.ID, 20), truncate(p.Name, 28), p.ProductType, p.Category, p.DiscountedPrice, p.VendorName)
	}
	w.Flush()
	fmt.Println()

	return nil
}

func cmdProductsDelete(client *api.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: products delete <product-id>")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := client.DeleteProduct(ctx, args[0]); err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Deleted product: %s\n", args[0])
	return nil
}

func cmdOrders(client *api.Client, tok string, args []string) error {
	if tok == "" {
		return fmt.Errorf("STOREFRONT_TOKEN environment variable is required")
	}

	var vendorID string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--vendor", "-v":
			if i+1 < len(args) {
				vendorID = args[i+1]
				i++
			}
		}
	}

	ctx, cancel := requestContext()
	defer cancel()

	orders, err := client.ListOrders(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("ListOrders: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Orders")
	cyan.Println("  ------")

	if len(orders) == 0 {
		fmt.Println("  (no orders)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tPRODUCT\tCUSTOMER\tVENDOR\tSTATUS")
	fmt.Fprintln(w, "  --\t-------\t--------\t------\t------")

	for _, o := range orders {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			truncate(o.ID, 20), truncate(o.ProductName, 28), o.CustomerName, o.VendorName, o.Status)
	}
	w.Flush()
	fmt.Println()

	return nil
}

func cmdRegisterVendor(client *api.Client, args []string) error {
	var req api.RegisterVendorRequest

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name", "-n":
			if i+1 < len(args) {
				req.Name = args[i+1]
				i++
			}
		case "--email", "-e":
			if i+1 < len(args) {
				req.Email = args[i+1]
				i++
			}
		case "--username", "-u":
			if i+1 < len(args) {
				req.Username = args[i+1]
				i++
			}
		case "--password", "-p":
			if i+1 < len(args) {
				req.Password = args[i+1]
				i++
			}
		case "--location", "-l":
			if i+1 < len(args) {
				req.Location = args[i+1]
				i++
			}
		}
	}

	if req.Username == "" || req.Password == "" {
		return fmt.Errorf("usage: register-vendor --username <u> --password <p> [--name <n>] [--email <e>] [--location <l>]")
	}

	ctx, cancel := requestContext()
	defer cancel()

	msg, err := client.RegisterVendor(ctx, req)
	if err != nil {
		return fmt.Errorf("RegisterVendor: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
	return nil
}

// cmdToken signs a token locally for development against the mock API.
func cmdToken(args []string) error {
	subcmd := ""
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "create":
		return cmdTokenCreate(args)
	default:
		return fmt.Errorf("usage: token create --id <subject> --username <u> --role <vendor|admin|superadmin> [--ttl <days>]")
	}
}

func cmdTokenCreate(args []string) error {
	secret := os.Getenv("STOREFRONT_JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("STOREFRONT_JWT_SECRET environment variable is required")
	}

	var subjectID, username, roleName string
	var ttlDays int64 = 30 // default 30 days

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--id", "-i":
			if i+1 < len(args) {
				subjectID = args[i+1]
				i++
			}
		case "--username", "-u":
			if i+1 < len(args) {
				username = args[i+1]
				i++
			}
		case "--role", "-r":
			if i+1 < len(args) {
				roleName = args[i+1]
				i++
			}
		case "--ttl", "-t":
			if i+1 < len(args) {
				days, err := parseIntArg(args[i+1])
				if err != nil {
					return fmt.Errorf("invalid ttl: %w", err)
				}
				ttlDays = days
				i++
			}
		}
	}

	if subjectID == "" || username == "" || roleName == "" {
		return fmt.Errorf("usage: token create --id <subject> --username <u> --role <vendor|admin|superadmin> [--ttl <days>]")
	}

	ttl := time.Duration(ttlDays) * 24 * time.Hour
	tok, err := token.Sign(token.Claims{
		SubjectID: subjectID,
		Username:  username,
		Role:      token.ParseRole(roleName),
	}, []byte(secret), ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Println()
	green.Println("  Token created successfully")
	fmt.Println()
	cyan.Println("  Subject:  " + subjectID)
	cyan.Println("  Expires:  " + time.Now().Add(ttl).Format(time.RFC3339))
	fmt.Println()
	fmt.Println("  Token (keep this secret!):")
	fmt.Println()
	fmt.Println("  " + tok)
	fmt.Println()

	return nil
}

func parseIntArg(s string) (int64, error) {
	var v int64
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getToken returns the bearer token from STOREFRONT_TOKEN or the token file
// under the user's config directory.
func getToken() string {
	if tok := os.Getenv("STOREFRONT_TOKEN"); tok != "" {
		return tok
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	data, err := os.ReadFile(filepath.Join(configDir, "storefront", "token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
