package http

import (
	"github.com/gofiber/fiber/v2"

	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/purchasing"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/identity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseOrderUC *purchasing.UseCase
	SaleUC          *sales.UseCase
	SaleReturnUC    *sales.ReturnUseCase
	ItemUC          *invapp.ItemUseCase
	StockUC         *invapp.StockUseCase
	AdjustmentUC    *invapp.AdjustmentUseCase
	ReplenishmentUC *invapp.ReplenishmentUseCase
	Signer          *jwt.Signer
	Permissions     repository.PermissionRepository
	Logger          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Signer, deps.Permissions))

	// Purchase orders
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC, log)
	orders.Post("/", RequirePermission(identity.PermCreatePurchaseOrder), orderHandler.Create)
	orders.Get("/", RequirePermission(identity.PermViewPurchaseOrder), orderHandler.List)
	orders.Get("/:id", RequirePermission(identity.PermViewPurchaseOrder), orderHandler.GetByID)
	orders.Put("/:id", RequirePermission(identity.PermEditPurchaseOrder), orderHandler.Update)
	orders.Delete("/:id", RequirePermission(identity.PermDeletePurchaseOrder), orderHandler.Delete)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, deps.SaleReturnUC, log)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", RequirePermission(identity.PermCreateSale), saleHandler.Create)
	salesGroup.Get("/", RequirePermission(identity.PermViewSale), saleHandler.List)
	salesGroup.Get("/:id", RequirePermission(identity.PermViewSale), saleHandler.GetByID)
	salesGroup.Put("/:id", RequirePermission(identity.PermEditSale), saleHandler.Update)
	salesGroup.Delete("/:id", RequirePermission(identity.PermDeleteSale), saleHandler.Delete)

	// Sale returns
	returns := protected.Group("/sale-returns")
	returns.Post("/", RequirePermission(identity.PermCreateSaleReturn), saleHandler.CreateReturn)
	returns.Get("/by-detail/:saleDetailsId", RequirePermission(identity.PermViewSaleReturn), saleHandler.ListReturns)
	returns.Delete("/:id", RequirePermission(identity.PermDeleteSaleReturn), saleHandler.DeleteReturn)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, log)
	items.Get("/", RequirePermission(identity.PermViewItem), itemHandler.List)
	items.Get("/:id", RequirePermission(identity.PermViewItem), itemHandler.GetByID)

	// Stock
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.AdjustmentUC, deps.ReplenishmentUC, log)
	stock.Get("/", RequirePermission(identity.PermViewStock), inventoryHandler.Levels)
	stock.Get("/replenishment-list", RequirePermission(identity.PermViewStock), inventoryHandler.GetReplenishmentList)
	stock.Get("/items/:id", RequirePermission(identity.PermViewStock), inventoryHandler.Level)
	stock.Get("/items/:id/ledger", RequirePermission(identity.PermViewStock), inventoryHandler.Ledger)
	stock.Get("/items/:id/reconcile", RequirePermission(identity.PermViewStock), inventoryHandler.Reconcile)
	stock.Post("/adjustments", RequirePermission(identity.PermCreateStockAdjustment), inventoryHandler.Adjust)
}
