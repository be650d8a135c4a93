package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	invapp "github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// ItemHandler lectura del catálogo (protegido).
type ItemHandler struct {
	uc  *invapp.ItemUseCase
	log *logger.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *invapp.ItemUseCase, log *logger.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar artículos con su existencia
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.ItemResponse}
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	return c.JSON(dto.Success(out))
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.SuccessResponse{data=dto.ItemResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	it, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(toItemResponse(*it)))
}

func toItemResponse(it invapp.ItemWithStock) dto.ItemResponse {
	return dto.ItemResponse{
		ID:               it.Item.ID,
		Name:             it.Item.Name,
		CategoryID:       it.Item.CategoryID,
		SKU:              it.Item.SKU,
		Barcode:          it.Item.Barcode,
		Price:            it.Item.Price,
		Cost:             it.Item.Cost,
		TrackStock:       it.Item.TrackStock,
		LowStock:         it.Item.LowStock,
		AvailableForSale: it.Item.AvailableForSale,
		Stock:            it.Stock.Quantity,
		AvgCost:          it.Stock.AvgCost,
	}
}
