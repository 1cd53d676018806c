package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
)

// SalesOrderHandler maneja las peticiones HTTP de órdenes de venta.
type SalesOrderHandler struct {
	uc *fulfillment.SalesOrders
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(uc *fulfillment.SalesOrders) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc}
}

// Create crea una orden de venta en draft.
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), in.ToInput(GetOrganizationID(c)))
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSalesOrder(order))
}

// Confirm transición draft → confirmed; reserva stock por línea.
func (h *SalesOrderHandler) Confirm(c *fiber.Ctx) error {
	order, err := h.uc.Confirm(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Ship registra un despacho, posiblemente parcial.
func (h *SalesOrderHandler) Ship(c *fiber.Ctx) error {
	var in struct {
		Items []dto.ItemQuantityRequest `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Ship(c.Context(), GetOrganizationID(c), c.Params("id"), dto.ToItemQuantities(in.Items))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Invoice transición shipped → invoiced.
func (h *SalesOrderHandler) Invoice(c *fiber.Ctx) error {
	order, err := h.uc.Invoice(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// Cancel transición draft|confirmed → cancelled; libera las reservas.
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// GetByID devuelve la orden con sus líneas.
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromSalesOrder(order))
}

// List devuelve cabeceras paginadas.
func (h *SalesOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	orders, err := h.uc.List(c.Context(), GetOrganizationID(c), page.Limit, page.Offset)
	if err != nil {
		return RespondError(c, err)
	}
	out := make([]dto.SalesOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.FromSalesOrder(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "sales_orders": out})
}
