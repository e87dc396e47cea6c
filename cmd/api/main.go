package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/georgemunganga/dealer-backend/internal/config"
	"github.com/georgemunganga/dealer-backend/internal/demo"
	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
	"github.com/georgemunganga/dealer-backend/internal/modules/contract"
	"github.com/georgemunganga/dealer-backend/internal/modules/dealer"
	"github.com/georgemunganga/dealer-backend/internal/modules/defect"
	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/order"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/modules/quote"
	"github.com/georgemunganga/dealer-backend/internal/platform/blob"
	"github.com/georgemunganga/dealer-backend/internal/platform/database"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

// repositories groups one storage backend per module.
type repositories struct {
	catalog   catalog.Repository
	vehicles  inventory.Repository
	quotes    quote.Repository
	orders    order.Repository
	dealers   dealer.Repository
	contracts contract.Repository
	defects   defect.Repository
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		catalog:   catalog.NewPostgresRepository(db),
		vehicles:  inventory.NewPostgresRepository(db),
		quotes:    quote.NewPostgresRepository(db),
		orders:    order.NewPostgresRepository(db),
		dealers:   dealer.NewPostgresRepository(db),
		contracts: contract.NewPostgresRepository(db),
		defects:   defect.NewPostgresRepository(db),
	}
}

func memoryRepositories() repositories {
	return repositories{
		catalog:   catalog.NewMemoryRepository(nil),
		vehicles:  inventory.NewMemoryRepository(),
		quotes:    quote.NewMemoryRepository(),
		orders:    order.NewMemoryRepository(),
		dealers:   dealer.NewMemoryRepository(),
		contracts: contract.NewMemoryRepository(),
		defects:   defect.NewMemoryRepository(),
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.LogSummary()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage ─────────────────────────────────────────────
	var repos repositories
	if cfg.StorageDriver == config.DriverPostgres {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if cfg.Database.Migrate {
			if err := database.Migrate(db); err != nil {
				log.Fatal(err)
			}
		}
		repos = postgresRepositories(db)
	} else {
		log.Println("using in-memory storage; data is lost on restart")
		repos = memoryRepositories()
	}

	uploads := blob.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL, cfg.Uploads.MaxBytes)

	// ── Catalog & Pricing ───────────────────────────────────
	catalogService := catalog.NewService(repos.catalog, cfg.Pricing.VATRate)
	seedCatalog := catalog.DefaultAt(cfg.Pricing.VATRate)
	if cfg.CatalogFile != "" {
		if seedCatalog, err = catalog.LoadFile(cfg.CatalogFile, cfg.Pricing.VATRate); err != nil {
			log.Fatalf("load catalog: %v", err)
		}
	}
	if _, err := catalogService.SeedIfEmpty(ctx, seedCatalog); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	calculator := pricing.NewCalculator(cfg.Pricing.RoadPreparationFee)

	// ── Inventory & Sales ───────────────────────────────────
	vehicleService := inventory.NewService(repos.vehicles, catalogService)
	quoteService := quote.NewService(repos.quotes, vehicleService, calculator, cfg.Pricing.VATRate)
	orderService := order.NewService(repos.orders, vehicleService, cfg.Pricing.DealerStockLocation)
	quote.SetOrderPlacer(quoteService, order.NewQuotePlacer(orderService))
	contractService := contract.NewService(repos.contracts, vehicleService, calculator)
	defectService := defect.NewService(repos.defects, vehicleService, uploads)

	// ── Dealers & Identity ──────────────────────────────────
	dealerService := dealer.NewService(repos.dealers, uploads, orderService)
	authService, err := auth.NewService(cfg.Auth, dealerService)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	if cfg.DemoSeed {
		_, err := demo.Seed(ctx, demo.Services{
			Dealers:   dealerService,
			Vehicles:  vehicleService,
			Quotes:    quoteService,
			Orders:    orderService,
			Contracts: contractService,
			Defects:   defectService,
		})
		if err != nil {
			log.Fatalf("demo seed: %v", err)
		}
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle(cfg.Uploads.PublicBaseURL+"/*", uploads.Handler())

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(authService))

		auth.NewHandler(authService).RegisterRoutes(r)
		dealer.NewHandler(dealerService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		pricing.NewHandler(catalogService, calculator).RegisterRoutes(r)
		inventory.NewHandler(vehicleService).RegisterRoutes(r)
		quote.NewHandler(quoteService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		contract.NewHandler(contractService).RegisterRoutes(r)
		defect.NewHandler(defectService).RegisterRoutes(r)
	})

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Dealer API server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
