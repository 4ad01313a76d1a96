package mrp

import (
	"strings"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/domain"
	"github.com/shopspring/decimal"
)

// ProcurementType define como o material é reposto
type ProcurementType string

const (
	ProcurementBuy         ProcurementType = "buy"
	ProcurementManufacture ProcurementType = "manufacture"
	ProcurementBoth        ProcurementType = "both"
	ProcurementNone        ProcurementType = "none"
)

// ParseProcurementType converte o texto recebido do cadastro em ProcurementType
func ParseProcurementType(s string) (ProcurementType, error) {
	switch pt := ProcurementType(strings.ToLower(strings.TrimSpace(s))); pt {
	case ProcurementBuy, ProcurementManufacture, ProcurementBoth, ProcurementNone:
		return pt, nil
	default:
		return "", apperror.Validation("tipo de suprimento %q inválido", s)
	}
}

// Material representa um item de estoque
type Material struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`

	// Nulos no cadastro; o cálculo trata como zero
	SafetyStock  decimal.NullDecimal `json:"safety_stock"`
	LeadTimeDays *int                `json:"lead_time_days"`

	ProcurementType ProcurementType `json:"procurement_type"`

	domain.Audit
}

// StockLevel é o saldo de um material em um local, opcionalmente por lote
type StockLevel struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	LocationID  string          `json:"location_id"`
	BatchNumber *string         `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// SalesOrderStatus é o status do pedido de venda
type SalesOrderStatus string

const (
	SalesDraft      SalesOrderStatus = "draft"
	SalesConfirmed  SalesOrderStatus = "confirmed"
	SalesProcessing SalesOrderStatus = "processing"
	SalesShipped    SalesOrderStatus = "shipped"
	SalesDelivered  SalesOrderStatus = "delivered"
	SalesCancelled  SalesOrderStatus = "cancelled"
)

// IsOpen informa se o pedido gera demanda
func (s SalesOrderStatus) IsOpen() bool {
	return s == SalesConfirmed || s == SalesProcessing
}

// SalesOrderLine é uma linha de pedido de venda com o status do pedido
type SalesOrderLine struct {
	ID          string           `json:"id"`
	OrderID     string           `json:"order_id"`
	OrderStatus SalesOrderStatus `json:"order_status"`
	MaterialID  string           `json:"material_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
}

// PurchaseOrderStatus é o status do pedido de compra
type PurchaseOrderStatus string

const (
	PurchaseDraft     PurchaseOrderStatus = "draft"
	PurchaseApproved  PurchaseOrderStatus = "approved"
	PurchaseReceived  PurchaseOrderStatus = "received"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrderLine é uma linha de pedido de compra com o status do pedido
type PurchaseOrderLine struct {
	ID               string              `json:"id"`
	OrderID          string              `json:"order_id"`
	OrderStatus      PurchaseOrderStatus `json:"order_status"`
	MaterialID       string              `json:"material_id"`
	Quantity         decimal.Decimal     `json:"quantity"`
	ReceivedQuantity decimal.Decimal     `json:"received_quantity"`
}

// Outstanding retorna a quantidade ainda não recebida, nunca negativa
func (l PurchaseOrderLine) Outstanding() decimal.Decimal {
	return nonNegative(l.Quantity.Sub(l.ReceivedQuantity))
}

// ProductionOrderStatus é o status da ordem de produção
type ProductionOrderStatus string

const (
	ProductionPlanned    ProductionOrderStatus = "planned"
	ProductionReleased   ProductionOrderStatus = "released"
	ProductionInProgress ProductionOrderStatus = "in_progress"
	ProductionCompleted  ProductionOrderStatus = "completed"
	ProductionCancelled  ProductionOrderStatus = "cancelled"
)

// IsActive informa se a ordem gera suprimento e demanda de componentes
func (s ProductionOrderStatus) IsActive() bool {
	return s == ProductionReleased || s == ProductionInProgress
}

// ProductionOrder é uma ordem de produção com a lista de componentes já explodida
type ProductionOrder struct {
	ID               string                     `json:"id"`
	Number           string                     `json:"number"`
	Status           ProductionOrderStatus      `json:"status"`
	OutputMaterialID string                     `json:"output_material_id"`
	OutputQuantity   decimal.Decimal            `json:"output_quantity"`
	Components       []ProductionOrderComponent `json:"components"`
}

// ProductionOrderComponent é um componente consumido pela ordem
type ProductionOrderComponent struct {
	MaterialID       string          `json:"material_id"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
}

// Unconsumed retorna a quantidade ainda não consumida, nunca negativa
func (c ProductionOrderComponent) Unconsumed() decimal.Decimal {
	return nonNegative(c.RequiredQuantity.Sub(c.ConsumedQuantity))
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
