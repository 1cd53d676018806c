// Package ledgertest provee repositorios en memoria y un TxRunner falso para
// probar los casos de uso del ledger y del fulfillment sin PostgreSQL.
package ledgertest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger-api/internal/application/ledger"
	"github.com/jhoicas/retail-ledger-api/internal/domain"
	"github.com/jhoicas/retail-ledger-api/internal/domain/entity"
)

func levelKey(orgID, productID, variantID, locationID string) string {
	return orgID + "|" + productID + "|" + variantID + "|" + locationID
}

// FakeStockLevels implementa repository.StockLevelRepository en memoria.
type FakeStockLevels struct {
	Levels map[string]*entity.StockLevel
}

func NewFakeStockLevels() *FakeStockLevels {
	return &FakeStockLevels{Levels: make(map[string]*entity.StockLevel)}
}

// Seed registra un nivel inicial (available se deriva de on-hand y reserved).
func (f *FakeStockLevels) Seed(orgID, productID, variantID, locationID string, onHand, reserved decimal.Decimal) {
	available := onHand.Sub(reserved)
	if available.LessThan(decimal.Zero) {
		available = decimal.Zero
	}
	f.Levels[levelKey(orgID, productID, variantID, locationID)] = &entity.StockLevel{
		OrganizationID: orgID,
		ProductID:      productID,
		VariantID:      variantID,
		LocationID:     locationID,
		OnHand:         onHand,
		Reserved:       reserved,
		Available:      available,
		UpdatedAt:      time.Now(),
	}
}

func (f *FakeStockLevels) Get(orgID, productID, variantID, locationID string) (*entity.StockLevel, error) {
	if lv, ok := f.Levels[levelKey(orgID, productID, variantID, locationID)]; ok {
		cp := *lv
		return &cp, nil
	}
	return &entity.StockLevel{
		OrganizationID: orgID,
		ProductID:      productID,
		VariantID:      variantID,
		LocationID:     locationID,
		OnHand:         decimal.Zero,
		Reserved:       decimal.Zero,
		Available:      decimal.Zero,
	}, nil
}

func (f *FakeStockLevels) GetForUpdate(orgID, productID, variantID, locationID string) (*entity.StockLevel, error) {
	return f.Get(orgID, productID, variantID, locationID)
}

func (f *FakeStockLevels) Upsert(level *entity.StockLevel) error {
	cp := *level
	f.Levels[levelKey(level.OrganizationID, level.ProductID, level.VariantID, level.LocationID)] = &cp
	return nil
}

func (f *FakeStockLevels) ListAvailability(orgID, productID, variantID, locationID string) ([]*entity.LocationAvailability, error) {
	var out []*entity.LocationAvailability
	for _, lv := range f.Levels {
		if lv.OrganizationID != orgID || lv.ProductID != productID || lv.VariantID != variantID {
			continue
		}
		if locationID != "" && lv.LocationID != locationID {
			continue
		}
		if lv.Available.GreaterThan(decimal.Zero) {
			out = append(out, &entity.LocationAvailability{LocationID: lv.LocationID, Available: lv.Available})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

// Must devuelve el nivel almacenado (para asserts); nil si no existe.
func (f *FakeStockLevels) Must(orgID, productID, variantID, locationID string) *entity.StockLevel {
	return f.Levels[levelKey(orgID, productID, variantID, locationID)]
}

// FakeMovements implementa repository.MovementRepository en memoria.
type FakeMovements struct {
	All []*entity.Movement
}

func NewFakeMovements() *FakeMovements { return &FakeMovements{} }

func (f *FakeMovements) Create(m *entity.Movement) error {
	cp := *m
	f.All = append(f.All, &cp)
	return nil
}

func (f *FakeMovements) ListRecentInbound(orgID, productID, variantID, locationID string, limit int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := len(f.All) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.All[i]
		if m.Type != entity.MovementTypeStockIn || m.OrganizationID != orgID || m.ProductID != productID || m.VariantID != variantID {
			continue
		}
		if locationID != "" && m.ToLocationID != locationID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *FakeMovements) ListByProduct(orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.All {
		if m.OrganizationID == orgID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *FakeMovements) ListByOrder(orgID, orderType, orderID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.All {
		if m.OrganizationID == orgID && m.SourceOrderType == orderType && m.SourceOrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

// FakeReservations implementa repository.ReservationRepository en memoria.
type FakeReservations struct {
	All []*entity.Reservation
}

func NewFakeReservations() *FakeReservations { return &FakeReservations{} }

func (f *FakeReservations) Create(r *entity.Reservation) error {
	f.All = append(f.All, r)
	return nil
}

func (f *FakeReservations) FindActive(orgID, productID, variantID, locationID, forType, forID string) (*entity.Reservation, error) {
	for _, r := range f.All {
		if r.Status == entity.ReservationStatusActive &&
			r.OrganizationID == orgID && r.ProductID == productID && r.VariantID == variantID &&
			r.LocationID == locationID && r.ReservedForType == forType && r.ReservedForID == forID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *FakeReservations) UpdateStatus(id, status string) error {
	for _, r := range f.All {
		if r.ID == id {
			r.Status = status
			r.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *FakeReservations) ListExpired(orgID string, now time.Time) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, r := range f.All {
		if r.OrganizationID == orgID && r.IsExpired(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeReservations) ListActiveByOrder(orgID, forType, forID string) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, r := range f.All {
		if r.Status == entity.ReservationStatusActive && r.OrganizationID == orgID &&
			r.ReservedForType == forType && r.ReservedForID == forID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeReservations) ListOrganizationsWithActive() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range f.All {
		if r.Status == entity.ReservationStatusActive && !seen[r.OrganizationID] {
			seen[r.OrganizationID] = true
			out = append(out, r.OrganizationID)
		}
	}
	return out, nil
}

// ActiveCount cantidad de reservas activas (para asserts).
func (f *FakeReservations) ActiveCount() int {
	n := 0
	for _, r := range f.All {
		if r.Status == entity.ReservationStatusActive {
			n++
		}
	}
	return n
}

// FakePurchaseOrders implementa repository.PurchaseOrderRepository en memoria.
type FakePurchaseOrders struct {
	Orders map[string]*entity.PurchaseOrder
}

func NewFakePurchaseOrders() *FakePurchaseOrders {
	return &FakePurchaseOrders{Orders: make(map[string]*entity.PurchaseOrder)}
}

func (f *FakePurchaseOrders) Create(o *entity.PurchaseOrder) error {
	for _, ex := range f.Orders {
		if ex.OrganizationID == o.OrganizationID && ex.Number == o.Number {
			return domain.ErrConstraintViolation
		}
	}
	f.Orders[o.ID] = o
	return nil
}

func (f *FakePurchaseOrders) GetByID(orgID, id string) (*entity.PurchaseOrder, error) {
	o, ok := f.Orders[id]
	if !ok || o.OrganizationID != orgID {
		return nil, nil
	}
	return o, nil
}

func (f *FakePurchaseOrders) GetByIDForUpdate(orgID, id string) (*entity.PurchaseOrder, error) {
	return f.GetByID(orgID, id)
}

func (f *FakePurchaseOrders) UpdateStatus(id, status string) error {
	if o, ok := f.Orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	}
	return domain.ErrNotFound
}

func (f *FakePurchaseOrders) UpdateItemReceived(itemID string, received decimal.Decimal) error {
	for _, o := range f.Orders {
		if it := o.Item(itemID); it != nil {
			it.QuantityReceived = received
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *FakePurchaseOrders) ListByOrganization(orgID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range f.Orders {
		if o.OrganizationID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

// FakeSalesOrders implementa repository.SalesOrderRepository en memoria.
type FakeSalesOrders struct {
	Orders map[string]*entity.SalesOrder
}

func NewFakeSalesOrders() *FakeSalesOrders {
	return &FakeSalesOrders{Orders: make(map[string]*entity.SalesOrder)}
}

func (f *FakeSalesOrders) Create(o *entity.SalesOrder) error {
	for _, ex := range f.Orders {
		if ex.OrganizationID == o.OrganizationID && ex.Number == o.Number {
			return domain.ErrConstraintViolation
		}
	}
	f.Orders[o.ID] = o
	return nil
}

func (f *FakeSalesOrders) GetByID(orgID, id string) (*entity.SalesOrder, error) {
	o, ok := f.Orders[id]
	if !ok || o.OrganizationID != orgID {
		return nil, nil
	}
	return o, nil
}

func (f *FakeSalesOrders) GetByIDForUpdate(orgID, id string) (*entity.SalesOrder, error) {
	return f.GetByID(orgID, id)
}

func (f *FakeSalesOrders) UpdateStatus(id, status string) error {
	if o, ok := f.Orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	}
	return domain.ErrNotFound
}

func (f *FakeSalesOrders) UpdateItemShipped(itemID string, shipped decimal.Decimal) error {
	for _, o := range f.Orders {
		if it := o.Item(itemID); it != nil {
			it.QuantityShipped = shipped
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *FakeSalesOrders) ListByOrganization(orgID string, limit, offset int) ([]*entity.SalesOrder, error) {
	var out []*entity.SalesOrder
	for _, o := range f.Orders {
		if o.OrganizationID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

// FakeStockTransfers implementa repository.StockTransferRepository en memoria.
type FakeStockTransfers struct {
	Orders map[string]*entity.StockTransfer
}

func NewFakeStockTransfers() *FakeStockTransfers {
	return &FakeStockTransfers{Orders: make(map[string]*entity.StockTransfer)}
}

func (f *FakeStockTransfers) Create(o *entity.StockTransfer) error {
	for _, ex := range f.Orders {
		if ex.OrganizationID == o.OrganizationID && ex.Number == o.Number {
			return domain.ErrConstraintViolation
		}
	}
	f.Orders[o.ID] = o
	return nil
}

func (f *FakeStockTransfers) GetByID(orgID, id string) (*entity.StockTransfer, error) {
	o, ok := f.Orders[id]
	if !ok || o.OrganizationID != orgID {
		return nil, nil
	}
	return o, nil
}

func (f *FakeStockTransfers) GetByIDForUpdate(orgID, id string) (*entity.StockTransfer, error) {
	return f.GetByID(orgID, id)
}

func (f *FakeStockTransfers) UpdateStatus(id, status string) error {
	if o, ok := f.Orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	}
	return domain.ErrNotFound
}

func (f *FakeStockTransfers) UpdateItemReceived(itemID string, received decimal.Decimal) error {
	for _, o := range f.Orders {
		if it := o.Item(itemID); it != nil {
			it.QuantityReceived = received
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *FakeStockTransfers) ListByOrganization(orgID string, limit, offset int) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, o := range f.Orders {
		if o.OrganizationID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

// FakeReturnOrders implementa repository.ReturnOrderRepository en memoria.
type FakeReturnOrders struct {
	Orders map[string]*entity.ReturnOrder
}

func NewFakeReturnOrders() *FakeReturnOrders {
	return &FakeReturnOrders{Orders: make(map[string]*entity.ReturnOrder)}
}

func (f *FakeReturnOrders) Create(o *entity.ReturnOrder) error {
	for _, ex := range f.Orders {
		if ex.OrganizationID == o.OrganizationID && ex.Number == o.Number {
			return domain.ErrConstraintViolation
		}
	}
	f.Orders[o.ID] = o
	return nil
}

func (f *FakeReturnOrders) GetByID(orgID, id string) (*entity.ReturnOrder, error) {
	o, ok := f.Orders[id]
	if !ok || o.OrganizationID != orgID {
		return nil, nil
	}
	return o, nil
}

func (f *FakeReturnOrders) GetByIDForUpdate(orgID, id string) (*entity.ReturnOrder, error) {
	return f.GetByID(orgID, id)
}

func (f *FakeReturnOrders) UpdateStatus(id, status string) error {
	if o, ok := f.Orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
		return nil
	}
	return domain.ErrNotFound
}

func (f *FakeReturnOrders) UpdateItemProcessed(itemID string, processed decimal.Decimal, disposition string) error {
	for _, o := range f.Orders {
		if it := o.Item(itemID); it != nil {
			it.QuantityProcessed = processed
			it.Disposition = disposition
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *FakeReturnOrders) ListByOrganization(orgID string, limit, offset int) ([]*entity.ReturnOrder, error) {
	var out []*entity.ReturnOrder
	for _, o := range f.Orders {
		if o.OrganizationID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

// FakeOrderNumbers implementa repository.OrderNumberRepository en memoria.
type FakeOrderNumbers struct {
	Counters map[string]int
}

func NewFakeOrderNumbers() *FakeOrderNumbers {
	return &FakeOrderNumbers{Counters: make(map[string]int)}
}

func (f *FakeOrderNumbers) Next(orgID, orderType string, day time.Time) (int, error) {
	key := orgID + "|" + orderType + "|" + day.Format("20060102")
	f.Counters[key]++
	return f.Counters[key], nil
}

// FakeTxRunner pasa siempre el mismo juego de repos en memoria; no hay rollback
// real, los tests validan que los casos de uso corten antes de escribir.
type FakeTxRunner struct {
	Repos ledger.Repos
}

// NewFakeTxRunner arma un runner con todos los fakes ya construidos.
func NewFakeTxRunner() (*FakeTxRunner, *FakeStockLevels, *FakeMovements, *FakeReservations) {
	levels := NewFakeStockLevels()
	movs := NewFakeMovements()
	res := NewFakeReservations()
	r := ledger.Repos{
		StockLevels:    levels,
		Movements:      movs,
		Reservations:   res,
		PurchaseOrders: NewFakePurchaseOrders(),
		SalesOrders:    NewFakeSalesOrders(),
		StockTransfers: NewFakeStockTransfers(),
		ReturnOrders:   NewFakeReturnOrders(),
		OrderNumbers:   NewFakeOrderNumbers(),
	}
	return &FakeTxRunner{Repos: r}, levels, movs, res
}

func (f *FakeTxRunner) Run(ctx context.Context, fn func(r ledger.Repos) error) error {
	return fn(f.Repos)
}
