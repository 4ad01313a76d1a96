package mrp

import "context"

// MaterialReader lê o cadastro de materiais
type MaterialReader interface {
	GetAllMaterials(ctx context.Context) ([]Material, error)
}

// StockReader lê os saldos de estoque
type StockReader interface {
	GetAllStockLevels(ctx context.Context) ([]StockLevel, error)
}

// OrderReader lê os pedidos que geram demanda e suprimento
type OrderReader interface {
	GetOpenSalesOrderLines(ctx context.Context) ([]SalesOrderLine, error)
	GetOpenProductionOrders(ctx context.Context) ([]ProductionOrder, error)
	GetApprovedPurchaseOrderLines(ctx context.Context) ([]PurchaseOrderLine, error)
}
