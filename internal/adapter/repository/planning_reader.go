package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PlanningReader implementa os leitores do MRP sobre as tabelas de cadastro,
// estoque, vendas, compras e produção
type PlanningReader struct {
	db *pgxpool.Pool
}

var (
	_ mrp.MaterialReader = (*PlanningReader)(nil)
	_ mrp.StockReader    = (*PlanningReader)(nil)
	_ mrp.OrderReader    = (*PlanningReader)(nil)
)

// NewPlanningReader cria uma nova instância de PlanningReader
func NewPlanningReader(db *pgxpool.Pool) *PlanningReader {
	return &PlanningReader{db: db}
}

// GetAllMaterials retorna os materiais ativos
func (r *PlanningReader) GetAllMaterials(ctx context.Context) ([]mrp.Material, error) {
	filter, args := tenantScope(ctx, "tenant_id", nil)
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, code, description, unit, safety_stock, lead_time_days,
			procurement_type, active, created_at, updated_at
		FROM materials
		WHERE active`+filter, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar materiais: %w", err)
	}
	defer rows.Close()

	materials := make([]mrp.Material, 0)
	for rows.Next() {
		var (
			m  mrp.Material
			pt string
		)
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Code, &m.Description, &m.Unit, &m.SafetyStock,
			&m.LeadTimeDays, &pt, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("falha ao ler material: %w", err)
		}
		if m.ProcurementType, err = mrp.ParseProcurementType(pt); err != nil {
			return nil, fmt.Errorf("material %s: %w", m.Code, err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// GetAllStockLevels retorna todos os saldos de estoque
func (r *PlanningReader) GetAllStockLevels(ctx context.Context) ([]mrp.StockLevel, error) {
	filter, args := tenantScope(ctx, "tenant_id", nil)
	rows, err := r.db.Query(ctx, `
		SELECT id, material_id, location_id, batch_number, quantity
		FROM stock_levels
		WHERE true`+filter, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar saldos de estoque: %w", err)
	}
	defer rows.Close()

	levels := make([]mrp.StockLevel, 0)
	for rows.Next() {
		var sl mrp.StockLevel
		if err := rows.Scan(&sl.ID, &sl.MaterialID, &sl.LocationID, &sl.BatchNumber, &sl.Quantity); err != nil {
			return nil, fmt.Errorf("falha ao ler saldo de estoque: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, rows.Err()
}

// GetOpenSalesOrderLines retorna as linhas de pedidos confirmados ou em processamento
func (r *PlanningReader) GetOpenSalesOrderLines(ctx context.Context) ([]mrp.SalesOrderLine, error) {
	filter, args := tenantScope(ctx, "o.tenant_id", []interface{}{
		string(mrp.SalesConfirmed), string(mrp.SalesProcessing),
	})
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.order_id, o.status, l.material_id, l.quantity
		FROM sales_order_lines l
		JOIN sales_orders o ON o.id = l.order_id
		WHERE o.status IN ($1, $2)`+filter, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pedidos de venda: %w", err)
	}
	defer rows.Close()

	lines := make([]mrp.SalesOrderLine, 0)
	for rows.Next() {
		var (
			l      mrp.SalesOrderLine
			status string
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &status, &l.MaterialID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("falha ao ler linha de pedido de venda: %w", err)
		}
		l.OrderStatus = mrp.SalesOrderStatus(status)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetOpenProductionOrders retorna as ordens liberadas ou em andamento com seus componentes
func (r *PlanningReader) GetOpenProductionOrders(ctx context.Context) ([]mrp.ProductionOrder, error) {
	filter, args := tenantScope(ctx, "o.tenant_id", []interface{}{
		string(mrp.ProductionReleased), string(mrp.ProductionInProgress),
	})
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.number, o.status, o.output_material_id, o.output_quantity,
			c.material_id, c.required_quantity, c.consumed_quantity
		FROM production_orders o
		LEFT JOIN production_order_components c ON c.production_order_id = o.id
		WHERE o.status IN ($1, $2)`+filter+`
		ORDER BY o.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar ordens de produção: %w", err)
	}
	defer rows.Close()

	orders := make([]mrp.ProductionOrder, 0)
	for rows.Next() {
		var (
			o                  mrp.ProductionOrder
			status             string
			materialID         *string
			required, consumed decimal.NullDecimal
		)
		if err := rows.Scan(&o.ID, &o.Number, &status, &o.OutputMaterialID, &o.OutputQuantity,
			&materialID, &required, &consumed); err != nil {
			return nil, fmt.Errorf("falha ao ler ordem de produção: %w", err)
		}

		if len(orders) == 0 || orders[len(orders)-1].ID != o.ID {
			o.Status = mrp.ProductionOrderStatus(status)
			orders = append(orders, o)
		}
		if materialID != nil {
			last := &orders[len(orders)-1]
			last.Components = append(last.Components, mrp.ProductionOrderComponent{
				MaterialID:       *materialID,
				RequiredQuantity: required.Decimal,
				ConsumedQuantity: consumed.Decimal,
			})
		}
	}
	return orders, rows.Err()
}

// GetApprovedPurchaseOrderLines retorna as linhas de pedidos de compra aprovados
func (r *PlanningReader) GetApprovedPurchaseOrderLines(ctx context.Context) ([]mrp.PurchaseOrderLine, error) {
	filter, args := tenantScope(ctx, "o.tenant_id", []interface{}{string(mrp.PurchaseApproved)})
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.order_id, o.status, l.material_id, l.quantity, l.received_quantity
		FROM purchase_order_lines l
		JOIN purchase_orders o ON o.id = l.order_id
		WHERE o.status = $1`+filter, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pedidos de compra: %w", err)
	}
	defer rows.Close()

	lines := make([]mrp.PurchaseOrderLine, 0)
	for rows.Next() {
		var (
			l      mrp.PurchaseOrderLine
			status string
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &status, &l.MaterialID, &l.Quantity, &l.ReceivedQuantity); err != nil {
			return nil, fmt.Errorf("falha ao ler linha de pedido de compra: %w", err)
		}
		l.OrderStatus = mrp.PurchaseOrderStatus(status)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
