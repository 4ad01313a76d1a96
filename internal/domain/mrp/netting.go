package mrp

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ActionType é a ação sugerida para cobrir a falta
type ActionType string

const (
	ActionPurchaseRequisition ActionType = "purchase_requisition"
	ActionProductionOrder     ActionType = "production_order"
)

// Snapshot reúne os dados lidos no início de uma execução
type Snapshot struct {
	Materials          []Material          `json:"materials"`
	StockLevels        []StockLevel        `json:"stock_levels"`
	SalesOrderLines    []SalesOrderLine    `json:"sales_order_lines"`
	ProductionOrders   []ProductionOrder   `json:"production_orders"`
	PurchaseOrderLines []PurchaseOrderLine `json:"purchase_order_lines"`
}

// Recommendation é a sugestão para um material em falta
type Recommendation struct {
	MaterialID          string          `json:"material_id"`
	MaterialCode        string          `json:"material_code"`
	MaterialDescription string          `json:"material_description"`
	Unit                string          `json:"unit"`
	ShortageQuantity    decimal.Decimal `json:"shortage_quantity"`
	RequiredByDate      time.Time       `json:"required_by_date"`
	ActionType          ActionType      `json:"action_type"`
	Reason              string          `json:"reason"`

	CurrentStock   decimal.Decimal `json:"current_stock"`
	SafetyStock    decimal.Decimal `json:"safety_stock"`
	Demand         decimal.Decimal `json:"demand"`
	Supply         decimal.Decimal `json:"supply"`
	NetRequirement decimal.Decimal `json:"net_requirement"`
}

// Warning aponta um dado de cadastro corrigido durante o cálculo
type Warning struct {
	MaterialID   string `json:"material_id"`
	MaterialCode string `json:"material_code"`
	Message      string `json:"message"`
}

// Result é o resultado de uma execução do MRP
type Result struct {
	ExecutedAt      time.Time        `json:"executed_at"`
	Recommendations []Recommendation `json:"recommendations"`
	Warnings        []Warning        `json:"warnings,omitempty"`
}

// position acumula as contribuições de um material
type position struct {
	stock  decimal.Decimal
	demand decimal.Decimal
	supply decimal.Decimal
}

// Net calcula as necessidades líquidas de todos os materiais do snapshot.
// É uma função pura: o mesmo snapshot e o mesmo instante geram o mesmo resultado.
func Net(s Snapshot, now time.Time) *Result {
	index := buildIndex(s)

	result := &Result{
		ExecutedAt:      now,
		Recommendations: []Recommendation{},
	}

	materials := make([]Material, len(s.Materials))
	copy(materials, s.Materials)
	sort.SliceStable(materials, func(i, j int) bool {
		if materials[i].Code != materials[j].Code {
			return materials[i].Code < materials[j].Code
		}
		return materials[i].ID < materials[j].ID
	})

	for _, m := range materials {
		pos := index[m.ID]
		if pos == nil {
			pos = &position{}
		}

		safety := decimal.Zero
		if m.SafetyStock.Valid {
			safety = m.SafetyStock.Decimal
		}
		if safety.IsNegative() {
			result.Warnings = append(result.Warnings, Warning{
				MaterialID:   m.ID,
				MaterialCode: m.Code,
				Message:      fmt.Sprintf("estoque de segurança negativo (%s) tratado como zero", safety.String()),
			})
			safety = decimal.Zero
		}

		leadTime := 0
		if m.LeadTimeDays != nil && *m.LeadTimeDays > 0 {
			leadTime = *m.LeadTimeDays
		}

		net := pos.stock.Add(pos.supply).Sub(pos.demand.Add(safety))
		if !net.IsNegative() {
			continue
		}

		shortage := net.Neg()
		result.Recommendations = append(result.Recommendations, Recommendation{
			MaterialID:          m.ID,
			MaterialCode:        m.Code,
			MaterialDescription: m.Description,
			Unit:                m.Unit,
			ShortageQuantity:    shortage,
			RequiredByDate:      now.AddDate(0, 0, leadTime),
			ActionType:          actionFor(m.ProcurementType),
			Reason: fmt.Sprintf(
				"Estoque atual %s + suprimento %s menor que demanda %s + estoque de segurança %s: falta %s",
				pos.stock.String(), pos.supply.String(), pos.demand.String(), safety.String(), shortage.String(),
			),
			CurrentStock:   pos.stock,
			SafetyStock:    safety,
			Demand:         pos.demand,
			Supply:         pos.supply,
			NetRequirement: net,
		})
	}

	return result
}

// buildIndex percorre uma única vez estoque e pedidos, agrupando por material
func buildIndex(s Snapshot) map[string]*position {
	index := make(map[string]*position, len(s.Materials))
	at := func(materialID string) *position {
		p, ok := index[materialID]
		if !ok {
			p = &position{}
			index[materialID] = p
		}
		return p
	}

	for _, sl := range s.StockLevels {
		p := at(sl.MaterialID)
		p.stock = p.stock.Add(sl.Quantity)
	}

	for _, line := range s.SalesOrderLines {
		if !line.OrderStatus.IsOpen() {
			continue
		}
		p := at(line.MaterialID)
		p.demand = p.demand.Add(line.Quantity)
	}

	for _, po := range s.ProductionOrders {
		if !po.Status.IsActive() {
			continue
		}
		out := at(po.OutputMaterialID)
		out.supply = out.supply.Add(po.OutputQuantity)
		for _, c := range po.Components {
			p := at(c.MaterialID)
			p.demand = p.demand.Add(c.Unconsumed())
		}
	}

	for _, line := range s.PurchaseOrderLines {
		if line.OrderStatus != PurchaseApproved {
			continue
		}
		p := at(line.MaterialID)
		p.supply = p.supply.Add(line.Outstanding())
	}

	return index
}

func actionFor(pt ProcurementType) ActionType {
	if pt == ProcurementManufacture {
		return ActionProductionOrder
	}
	return ActionPurchaseRequisition
}
