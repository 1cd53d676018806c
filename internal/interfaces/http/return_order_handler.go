package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
)

// ReturnOrderHandler maneja las peticiones HTTP de devoluciones.
type ReturnOrderHandler struct {
	uc *fulfillment.ReturnOrders
}

// NewReturnOrderHandler construye el handler.
func NewReturnOrderHandler(uc *fulfillment.ReturnOrders) *ReturnOrderHandler {
	return &ReturnOrderHandler{uc: uc}
}

// Create crea una devolución en draft.
func (h *ReturnOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), in.ToInput(GetOrganizationID(c)))
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReturnOrder(order))
}

// Process despacha líneas según su disposición (restock, write_off, repair).
func (h *ReturnOrderHandler) Process(c *fiber.Ctx) error {
	var in struct {
		Items []dto.ItemDispositionRequest `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Process(c.Context(), GetOrganizationID(c), c.Params("id"), dto.ToItemDispositions(in.Items))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromReturnOrder(order))
}

// Cancel transición draft → cancelled.
func (h *ReturnOrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromReturnOrder(order))
}

// GetByID devuelve la devolución con sus líneas.
func (h *ReturnOrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromReturnOrder(order))
}

// List devuelve cabeceras paginadas.
func (h *ReturnOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	orders, err := h.uc.List(c.Context(), GetOrganizationID(c), page.Limit, page.Offset)
	if err != nil {
		return RespondError(c, err)
	}
	out := make([]dto.ReturnOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.FromReturnOrder(o))
	}
	return c.JSON(fiber.Map{"total": len(out), "return_orders": out})
}
