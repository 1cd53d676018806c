package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
)

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra.
type PurchaseOrderHandler struct {
	uc *fulfillment.PurchaseOrders
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *fulfillment.PurchaseOrders) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create crea una orden de compra en draft.
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), in.ToInput(GetOrganizationID(c)))
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPurchaseOrder(order))
}

// Approve transición draft → approved.
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	order, err := h.uc.Approve(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}

// Receive registra una recepción, posiblemente parcial.
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in struct {
		Items []dto.ItemQuantityRequest `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Receive(c.Context(), GetOrganizationID(c), c.Params("id"), dto.ToItemQuantities(in.Items))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}

// Cancel transición draft|approved → cancelled.
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}

// GetByID devuelve la orden con sus líneas.
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromPurchaseOrder(order))
}

// List devuelve cabeceras paginadas.
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	orders, err := h.uc.List(c.Context(), GetOrganizationID(c), page.Limit, page.Offset)
	if err != nil {
		return RespondError(c, err)
	}
	out := make([]dto.PurchaseOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.FromPurchaseOrder(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "purchase_orders": out})
}
