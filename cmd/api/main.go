package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/purchasing"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner invapp.TxRunner
		repos    repository.TxRepos
		perms    repository.PermissionRepository
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		seedMemory(store)
		txRunner, repos, perms = store, store.Repos(), store.Permissions()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
		}
		txRunner, repos, perms = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewPermissionRepository(pool)
	}

	// Caché de existencias: Redis si está configurado; si no, sin caché.
	var stockCache invapp.StockCache = cache.NoopStockCache{}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisStockCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StockTTL)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer rc.Close()
			stockCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de existencias en redis")
		}
	}

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("firmador JWT")
	}

	ledger := invapp.NewLedger(stockCache, log)
	purchaseOrderUC := purchasing.NewUseCase(txRunner, repos.Orders, ledger, log)
	saleUC := sales.NewUseCase(txRunner, repos.Sales, ledger, log)
	saleReturnUC := sales.NewReturnUseCase(txRunner, repos.Returns, ledger, log)
	itemUC := invapp.NewItemUseCase(repos.Items, repos.Stock)
	stockUC := invapp.NewStockUseCase(repos.Items, repos.Stock, repos.Ledger, stockCache, log)
	adjustmentUC := invapp.NewAdjustmentUseCase(txRunner, ledger, log)
	replenishmentUC := invapp.NewReplenishmentUseCase(repos.Items, repos.Stock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		PurchaseOrderUC: purchaseOrderUC,
		SaleUC:          saleUC,
		SaleReturnUC:    saleReturnUC,
		ItemUC:          itemUC,
		StockUC:         stockUC,
		AdjustmentUC:    adjustmentUC,
		ReplenishmentUC: replenishmentUC,
		Signer:          signer,
		Permissions:     perms,
		Logger:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seedMemory catálogo mínimo y un administrador (usuario 1) para el modo en memoria.
func seedMemory(store *memory.Store) {
	low := int64(10)
	store.AddItem(entity.Item{Name: "Arroz 1kg", SKU: "ARR-1KG", Price: decimal.NewFromInt(5), Cost: decimal.NewFromInt(3), TrackStock: true, LowStock: &low, AvailableForSale: true})
	store.AddItem(entity.Item{Name: "Aceite 1L", SKU: "ACE-1L", Price: decimal.NewFromInt(9), Cost: decimal.NewFromInt(6), TrackStock: true, LowStock: &low, AvailableForSale: true})
	store.AddItem(entity.Item{Name: "Bolsa", SKU: "BOL", Price: decimal.NewFromInt(1), AvailableForSale: true})
	store.SetPermissions(1, identity.AllPermissions())
}
