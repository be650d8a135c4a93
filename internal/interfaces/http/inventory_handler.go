package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// InventoryHandler existencias, ledger, ajustes manuales y reposición (protegido).
type InventoryHandler struct {
	stock         *invapp.StockUseCase
	adjustments   *invapp.AdjustmentUseCase
	replenishment *invapp.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	stock *invapp.StockUseCase,
	adjustments *invapp.AdjustmentUseCase,
	replenishment *invapp.ReplenishmentUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{stock: stock, adjustments: adjustments, replenishment: replenishment, log: log}
}

// Levels godoc
// @Summary      Existencias de todos los artículos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.StockLevelResponse}
// @Router       /api/stock [get]
func (h *InventoryHandler) Levels(c *fiber.Ctx) error {
	levels, err := h.stock.Levels(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, toStockLevel(l))
	}
	return c.JSON(dto.Success(out))
}

// Level godoc
// @Summary      Existencia de un artículo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.SuccessResponse{data=dto.StockLevelResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *InventoryHandler) Level(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	s, err := h.stock.Level(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(toStockLevel(s)))
}

// Ledger godoc
// @Summary      Movimientos del ledger de un artículo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del artículo"
// @Param        limit   query  int  false  "límite (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.StockTransactionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/ledger [get]
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	rows, err := h.stock.ItemLedger(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.StockTransactionResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, toStockTransaction(t))
	}
	return c.JSON(dto.Success(out))
}

// Reconcile godoc
// @Summary      Comparar ledger contra la existencia materializada
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ReconcileResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	rep, err := h.stock.Reconcile(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(dto.ReconcileResponse{
		ItemID:         rep.ItemID,
		LedgerQuantity: rep.LedgerQuantity,
		StockQuantity:  rep.StockQuantity,
		Drift:          rep.Drift,
		InSync:         rep.InSync(),
	}))
}

// Adjust godoc
// @Summary      Registrar ajuste manual
// @Description  kind: adjustment (signo libre), wastage o purchase_return (siempre salida).
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "item_id, kind, quantity, unit_cost, note"
// @Success      201   {object}  dto.SuccessResponse{data=dto.StockTransactionResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	var cost decimal.NullDecimal
	if in.UnitCost != nil {
		cost = decimal.NewNullDecimal(*in.UnitCost)
	}
	t, err := h.adjustments.Record(c.UserContext(), actor, invapp.AdjustmentInput{
		ItemID:   in.ItemID,
		Kind:     in.Kind,
		Quantity: in.Quantity,
		UnitCost: cost,
		Note:     in.Note,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(toStockTransaction(t)))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Artículos con control de stock en o por debajo de su umbral, con la cantidad sugerida de pedido.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.ReplenishmentSuggestionDTO}
// @Router       /api/stock/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ItemID:       s.ItemID,
			Name:         s.Name,
			SKU:          s.SKU,
			CurrentStock: s.Quantity,
			LowStock:     s.Threshold,
			SuggestedQty: s.SuggestedQty,
		})
	}
	return c.JSON(dto.Success(out))
}

func toStockLevel(s *entity.ItemStock) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ItemID:    s.ItemID,
		Quantity:  s.Quantity,
		AvgCost:   s.AvgCost,
		UpdatedAt: s.UpdatedAt,
	}
}

func toStockTransaction(t *entity.StockTransaction) dto.StockTransactionResponse {
	out := dto.StockTransactionResponse{
		ID:              t.ID,
		BatchID:         t.BatchID,
		ItemID:          t.ItemID,
		Kind:            t.Kind,
		Quantity:        t.Quantity,
		PurchaseOrderID: t.PurchaseOrderID,
		SaleMasterID:    t.SaleMasterID,
		SaleReturnID:    t.SaleReturnID,
		Note:            t.Note,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
	if t.UnitCost.Valid {
		c := t.UnitCost.Decimal
		out.UnitCost = &c
	}
	return out
}
