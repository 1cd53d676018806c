package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-ledger-api/internal/application/fulfillment"
	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/infrastructure/redisx"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PurchaseOrders *fulfillment.PurchaseOrders
	SalesOrders    *fulfillment.SalesOrders
	StockTransfers *fulfillment.StockTransfers
	ReturnOrders   *fulfillment.ReturnOrders
	Queries        *ledger.Queries
	Cache          *redisx.AvailabilityCache // nil = sin cache
}

// Router registra las rutas de la API. Todas bajo /api exigen el header de
// organización; la autenticación corre aguas arriba.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware())

	// Órdenes de compra
	purchases := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrders)
	purchases.Post("/", poHandler.Create)
	purchases.Get("/", poHandler.List)
	purchases.Get("/:id", poHandler.GetByID)
	purchases.Post("/:id/approve", poHandler.Approve)
	purchases.Post("/:id/receive", poHandler.Receive)
	purchases.Post("/:id/cancel", poHandler.Cancel)

	// Órdenes de venta
	sales := api.Group("/sales-orders")
	soHandler := NewSalesOrderHandler(deps.SalesOrders)
	sales.Post("/", soHandler.Create)
	sales.Get("/", soHandler.List)
	sales.Get("/:id", soHandler.GetByID)
	sales.Post("/:id/confirm", soHandler.Confirm)
	sales.Post("/:id/ship", soHandler.Ship)
	sales.Post("/:id/invoice", soHandler.Invoice)
	sales.Post("/:id/cancel", soHandler.Cancel)

	// Traslados entre ubicaciones
	transfers := api.Group("/stock-transfers")
	stHandler := NewStockTransferHandler(deps.StockTransfers)
	transfers.Post("/", stHandler.Create)
	transfers.Get("/", stHandler.List)
	transfers.Get("/:id", stHandler.GetByID)
	transfers.Post("/:id/approve", stHandler.Approve)
	transfers.Post("/:id/complete", stHandler.Complete)
	transfers.Post("/:id/cancel", stHandler.Cancel)

	// Devoluciones
	returns := api.Group("/return-orders")
	roHandler := NewReturnOrderHandler(deps.ReturnOrders)
	returns.Post("/", roHandler.Create)
	returns.Get("/", roHandler.List)
	returns.Get("/:id", roHandler.GetByID)
	returns.Post("/:id/process", roHandler.Process)
	returns.Post("/:id/cancel", roHandler.Cancel)

	// Consultas del ledger (solo lectura)
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Queries, deps.Cache)
	inv.Get("/products/:productId/availability", invHandler.GetAvailability)
	inv.Get("/products/:productId/movements", invHandler.ListMovements)
	inv.Get("/products/:productId/cost", invHandler.GetWeightedCost)
	inv.Get("/orders/:orderType/:orderId/movements", invHandler.ListOrderMovements)
}
