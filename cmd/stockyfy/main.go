package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"stockyfy/internal/caching"
	"stockyfy/internal/config"
	"stockyfy/internal/jobs"
	"stockyfy/internal/jobs/background"
	"stockyfy/internal/models"
	"stockyfy/internal/report"
	"stockyfy/internal/services"
	"stockyfy/internal/session"
	"stockyfy/internal/store"
)

const usage = `Usage: stockyfy <command> [flags]

Commands:
  login         authenticate with a secret key
  logout        clear the local session
  whoami        print the logged-in warehouseman
  products      list products for the active warehouse
  scan          resolve a scanned barcode
  add           create a product
  adjust        apply a scan in/out quantity change
  set-quantity  overwrite the stock quantity for one warehouse entry
  delete        delete a product
  stats         print the statistics aggregate
  report        write the PDF stock report
  watch         run the periodic statistics refresher
`

type app struct {
	cfg      *config.Config
	auth     services.AuthService
	products services.ProductService
	scanner  services.ScannerService
	state    *session.ProductState
	store    store.Store
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if os.Getenv("DEBUG") == "" {
		logger = logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load(os.Getenv("STOCKYFY_CONFIG"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	client := store.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)
	cache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	productSvc := services.NewProductService(client, cache)

	a := &app{
		cfg:      cfg,
		auth:     services.NewAuthService(client, cache),
		products: productSvc,
		scanner:  services.NewScannerService(productSvc),
		state:    session.NewProductState(productSvc),
		store:    client,
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "products":
		return a.listProducts(ctx)
	case "scan":
		return a.scan(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "adjust":
		return a.adjust(ctx, args)
	case "set-quantity":
		return a.setQuantity(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "stats":
		return a.stats(ctx, args)
	case "report":
		return a.report(ctx)
	case "watch":
		return a.watch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireUser loads the active session or fails.
func (a *app) requireUser(ctx context.Context) (*models.Warehouseman, error) {
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("not logged in (run: stockyfy login -key <secret>)")
	}
	return user, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	key := fs.String("key", "", "secret key")
	fs.Parse(args)
	if *key == "" {
		return fmt.Errorf("missing -key")
	}

	user, err := a.auth.Login(ctx, *key)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("invalid secret key")
	}
	fmt.Printf("Logged in as %s (warehouse %d, %s)\n", user.Name, user.WarehouseID, user.City)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s  warehouse=%d  city=%s\n", user.Name, user.WarehouseID, user.City)
	return nil
}

func (a *app) listProducts(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if err := a.state.Refresh(ctx, user.WarehouseID); err != nil {
		return err
	}
	for _, p := range a.state.Products() {
		printProduct(&p)
	}
	return nil
}

func (a *app) scan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	barcode := fs.String("barcode", "", "decoded barcode")
	fs.Parse(args)

	result, err := a.scanner.ProcessBarcode(ctx, *barcode)
	if err != nil {
		return err
	}
	if result.IsNewProduct {
		fmt.Printf("No product for barcode %s; create one with: stockyfy add -barcode %s ...\n", *barcode, *barcode)
		return nil
	}
	printProduct(result.Product)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "product name")
	barcode := fs.String("barcode", "", "barcode")
	price := fs.Float64("price", 0, "unit price")
	ptype := fs.String("type", "Misc", "category")
	supplier := fs.String("supplier", "N/A", "supplier")
	description := fs.String("description", "", "description")
	quantity := fs.Int("quantity", 0, "initial stock quantity")
	minQuantity := fs.Int("min-quantity", 0, "low stock threshold")
	stockName := fs.String("stock-name", "Main stock", "stock location label")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("missing -name")
	}
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	// The creation payload mirrors the mobile add-product form: one stock
	// entry whose id is a millisecond timestamp, and the audit trail seeded
	// with the current operator.
	product := &models.Product{
		Name:        *name,
		Barcode:     *barcode,
		Price:       *price,
		Type:        *ptype,
		Supplier:    *supplier,
		Description: *description,
		MinQuantity: *minQuantity,
		Stocks: []models.Stock{{
			ID:       time.Now().UnixMilli(),
			Name:     *stockName,
			Quantity: *quantity,
			Localisation: models.StockLocation{
				City: user.City,
			},
		}},
		EditedBy: []models.EditRecord{{
			WarehousemanID: user.ID,
			At:             time.Now().UTC().Format(time.RFC3339),
		}},
	}

	created, err := a.products.Create(ctx, product)
	if err != nil {
		return err
	}
	a.state.ApplyAdd(created)
	fmt.Printf("Created product %s (%s)\n", created.ID, created.Name)
	return nil
}

func (a *app) adjust(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adjust", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	qty := fs.Int("quantity", 1, "quantity delta")
	direction := fs.String("direction", models.MovementIn, "in or out")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("missing -id")
	}

	switch result := a.products.AdjustAfterScan(ctx, *id, *qty, *direction); result {
	case services.AdjustOK:
		fmt.Printf("Adjusted product %s by %d (%s)\n", *id, *qty, *direction)
		return nil
	case services.AdjustInsufficientStock:
		return fmt.Errorf("insufficient stock for product %s", *id)
	default:
		return fmt.Errorf("adjustment failed: transport failure")
	}
}

func (a *app) setQuantity(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-quantity", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	warehouseID := fs.Int64("warehouse", 0, "warehouse (stock entry) id")
	qty := fs.Int("quantity", 0, "new quantity")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("missing -id")
	}
	if *warehouseID == 0 {
		user, err := a.requireUser(ctx)
		if err != nil {
			return err
		}
		*warehouseID = user.WarehouseID
	}

	if err := a.products.SetStockQuantity(ctx, *id, *warehouseID, *qty); err != nil {
		return err
	}
	a.state.ApplyQuantity(*id, *warehouseID, *qty)
	fmt.Printf("Set product %s quantity to %d in warehouse %d\n", *id, *qty, *warehouseID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "product id")
	fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("missing -id")
	}

	if err := a.products.Delete(ctx, *id); err != nil {
		return err
	}
	a.state.ApplyRemove(*id)
	fmt.Printf("Deleted product %s\n", *id)
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	live := fs.Bool("live", false, "derive from the product set instead of the stored aggregate")
	fs.Parse(args)

	var stats *models.Statistics
	var err error
	if *live {
		user, userErr := a.requireUser(ctx)
		if userErr != nil {
			return userErr
		}
		stats, err = a.products.RecalculateStatistics(ctx, user.WarehouseID)
	} else {
		stats, err = a.products.Statistics(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Total products:    %d\n", stats.TotalProducts)
	fmt.Printf("Out of stock:      %d\n", stats.OutOfStock)
	fmt.Printf("Low stock:         %d\n", stats.LowStock)
	fmt.Printf("Total stock value: %.2f\n", stats.TotalStockValue)
	return nil
}

func (a *app) report(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	stats, err := a.products.Statistics(ctx)
	if err != nil {
		return err
	}
	products, err := a.products.ListByWarehouse(ctx, user.WarehouseID)
	if err != nil {
		return err
	}

	path, err := report.NewGenerator(a.cfg.Reports.OutputDir).StockReport(stats, products)
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

func (a *app) watch(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	refreshSvc := jobs.NewStatsRefreshService(a.products, a.store)
	scheduler := background.NewJobScheduler(refreshSvc, user.WarehouseID,
		time.Duration(a.cfg.Jobs.StatsRefreshMinutes)*time.Minute)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	fmt.Printf("Refreshing statistics for warehouse %d every %d minutes; Ctrl-C to stop\n",
		user.WarehouseID, a.cfg.Jobs.StatsRefreshMinutes)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func printProduct(p *models.Product) {
	quantity := 0
	for i := range p.Stocks {
		quantity += p.Stocks[i].Quantity
	}
	fmt.Printf("%-12s %-24s barcode=%-14s price=%-8.2f qty=%-5d min=%d\n",
		p.ID, p.Name, p.Barcode, p.Price, quantity, p.MinQuantity)
}
