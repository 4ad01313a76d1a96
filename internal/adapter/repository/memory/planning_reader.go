package memory

import (
	"context"
	"sync"

	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
)

// PlanningReader implementa os leitores do MRP em memória
type PlanningReader struct {
	mu       sync.RWMutex
	snapshot mrp.Snapshot
}

var (
	_ mrp.MaterialReader = (*PlanningReader)(nil)
	_ mrp.StockReader    = (*PlanningReader)(nil)
	_ mrp.OrderReader    = (*PlanningReader)(nil)
)

// NewPlanningReader cria um leitor com os dados informados
func NewPlanningReader(snapshot mrp.Snapshot) *PlanningReader {
	return &PlanningReader{snapshot: snapshot}
}

// Load substitui todos os dados do leitor
func (r *PlanningReader) Load(snapshot mrp.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = snapshot
}

// GetAllMaterials retorna os materiais ativos
func (r *PlanningReader) GetAllMaterials(ctx context.Context) ([]mrp.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	materials := make([]mrp.Material, 0, len(r.snapshot.Materials))
	for _, m := range r.snapshot.Materials {
		if m.Active && visible(ctx, m.TenantID) {
			materials = append(materials, m)
		}
	}
	return materials, nil
}

// GetAllStockLevels retorna todos os saldos
func (r *PlanningReader) GetAllStockLevels(ctx context.Context) ([]mrp.StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]mrp.StockLevel(nil), r.snapshot.StockLevels...), nil
}

// GetOpenSalesOrderLines retorna as linhas de pedidos confirmados ou em processamento
func (r *PlanningReader) GetOpenSalesOrderLines(ctx context.Context) ([]mrp.SalesOrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lines []mrp.SalesOrderLine
	for _, l := range r.snapshot.SalesOrderLines {
		if l.OrderStatus.IsOpen() {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// GetOpenProductionOrders retorna as ordens liberadas ou em andamento
func (r *PlanningReader) GetOpenProductionOrders(ctx context.Context) ([]mrp.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []mrp.ProductionOrder
	for _, o := range r.snapshot.ProductionOrders {
		if o.Status.IsActive() {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// GetApprovedPurchaseOrderLines retorna as linhas de pedidos de compra aprovados
func (r *PlanningReader) GetApprovedPurchaseOrderLines(ctx context.Context) ([]mrp.PurchaseOrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lines []mrp.PurchaseOrderLine
	for _, l := range r.snapshot.PurchaseOrderLines {
		if l.OrderStatus == mrp.PurchaseApproved {
			lines = append(lines, l)
		}
	}
	return lines, nil
}
