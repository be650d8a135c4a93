package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// SaleHandler maneja ventas y devoluciones (protegido).
type SaleHandler struct {
	uc      *sales.UseCase
	returns *sales.ReturnUseCase
	log     *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, returns *sales.ReturnUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, returns: returns, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Captura el costo promedio vigente por línea y registra una salida en el ledger por línea.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "cabecera e items"
// @Success      201   {object}  dto.SuccessResponse{data=dto.SaleResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(out))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.SaleResponse}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.GetAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(list))
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SuccessResponse{data=dto.SaleWithItemsResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(out))
}

// Update godoc
// @Summary      Actualizar venta
// @Description  items, si viene, reemplaza las líneas. No escribe en el ledger.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "sale, items"
// @Success      200   {object}  dto.SuccessResponse{data=dto.SaleWithItemsResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(out))
}

// Delete godoc
// @Summary      Eliminar venta
// @Tags         sales
// @Security     Bearer
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.uc.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(fiber.Map{"message": "venta eliminada"}))
}

// CreateReturn godoc
// @Summary      Registrar devolución de venta
// @Description  Reingresa la cantidad al ledger al costo capturado en la venta.
// @Tags         sale-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleReturnRequest  true  "sale_details_id, return_quantity"
// @Success      201   {object}  dto.SuccessResponse{data=dto.SaleReturnResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sale-returns [post]
func (h *SaleHandler) CreateReturn(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateSaleReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.returns.Create(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(out))
}

// ListReturns godoc
// @Summary      Devoluciones de una línea de venta
// @Tags         sale-returns
// @Security     Bearer
// @Produce      json
// @Param        saleDetailsId  path  int  true  "ID de la línea de venta"
// @Success      200  {object}  dto.SuccessResponse{data=[]dto.SaleReturnResponse}
// @Router       /api/sale-returns/by-detail/{saleDetailsId} [get]
func (h *SaleHandler) ListReturns(c *fiber.Ctx) error {
	id, err := paramID(c, "saleDetailsId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	list, err := h.returns.ListBySaleDetail(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(list))
}

// DeleteReturn godoc
// @Summary      Eliminar devolución
// @Tags         sale-returns
// @Security     Bearer
// @Param        id   path  int  true  "ID de la devolución"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sale-returns/{id} [delete]
func (h *SaleHandler) DeleteReturn(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if err := h.returns.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.Success(fiber.Map{"message": "devolución eliminada"}))
}
