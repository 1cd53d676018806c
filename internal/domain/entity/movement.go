package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeStockIn    = "stock_in"
	MovementTypeStockOut   = "stock_out"
	MovementTypeTransfer   = "transfer"
	MovementTypeSale       = "sale"
	MovementTypeReturn     = "return"
	MovementTypeDamage     = "damage"
	MovementTypeExpiration = "expiration"
	MovementTypeAdjustment = "adjustment"
)

// Tipos de orden que originan movimientos y reservas.
const (
	OrderTypePurchase = "purchase_order"
	OrderTypeSales    = "sales_order"
	OrderTypeTransfer = "stock_transfer"
	OrderTypeReturn   = "return_order"
)

// Movement es el registro inmutable de un cambio de cantidad en el ledger.
// Quantity siempre se guarda en valor absoluto; la dirección se reconstruye a
// partir de Type y de cuál de FromLocationID/ToLocationID está poblado.
// Nunca se actualiza ni se borra: es la pista de auditoría del ledger.
type Movement struct {
	ID              string
	OrganizationID  string
	ProductID       string
	VariantID       string
	FromLocationID  string
	ToLocationID    string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	Type            string
	SourceOrderType string
	SourceOrderID   string
	Reason          string
	CreatedAt       time.Time
}
