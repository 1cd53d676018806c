package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/dto"
	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
)

// StockTransferHandler maneja las peticiones HTTP de traslados entre ubicaciones.
type StockTransferHandler struct {
	uc *fulfillment.StockTransfers
}

// NewStockTransferHandler construye el handler.
func NewStockTransferHandler(uc *fulfillment.StockTransfers) *StockTransferHandler {
	return &StockTransferHandler{uc: uc}
}

// Create crea un traslado en draft (valida disponibilidad en origen).
func (h *StockTransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.uc.Create(c.Context(), in.ToInput(GetOrganizationID(c)))
	if err != nil {
		return RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromStockTransfer(transfer))
}

// Approve transición draft → in_transit; reserva en origen.
func (h *StockTransferHandler) Approve(c *fiber.Ctx) error {
	transfer, err := h.uc.Approve(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromStockTransfer(transfer))
}

// Complete registra llegadas al destino, posiblemente parciales.
func (h *StockTransferHandler) Complete(c *fiber.Ctx) error {
	var in struct {
		Items []dto.ItemQuantityRequest `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.uc.Complete(c.Context(), GetOrganizationID(c), c.Params("id"), dto.ToItemQuantities(in.Items))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromStockTransfer(transfer))
}

// Cancel transición draft|in_transit → cancelled.
func (h *StockTransferHandler) Cancel(c *fiber.Ctx) error {
	transfer, err := h.uc.Cancel(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromStockTransfer(transfer))
}

// GetByID devuelve el traslado con sus líneas.
func (h *StockTransferHandler) GetByID(c *fiber.Ctx) error {
	transfer, err := h.uc.Get(c.Context(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(dto.FromStockTransfer(transfer))
}

// List devuelve cabeceras paginadas.
func (h *StockTransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	transfers, err := h.uc.List(c.Context(), GetOrganizationID(c), page.Limit, page.Offset)
	if err != nil {
		return RespondError(c, err)
	}
	out := make([]dto.StockTransferDTO, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.FromStockTransfer(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "stock_transfers": out})
}
