package dto

import (
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxRuleRequest representa os dados para criar/atualizar uma regra tributária
type TaxRuleRequest struct {
	SourceState      string  `json:"source_state" binding:"required"`
	DestinationState string  `json:"destination_state" binding:"required"`
	NCM              *string `json:"ncm,omitempty"`
	OperationType    string  `json:"operation_type" binding:"required"`
	CFOP             string  `json:"cfop" binding:"required"`
	CST              string  `json:"cst" binding:"required"`

	ICMSRate   decimal.Decimal `json:"icms_rate"`
	IPIRate    decimal.Decimal `json:"ipi_rate"`
	PISRate    decimal.Decimal `json:"pis_rate"`
	COFINSRate decimal.Decimal `json:"cofins_rate"`
}

// ToRuleData converte a requisição nos dados de domínio
func (r TaxRuleRequest) ToRuleData() (taxrule.RuleData, error) {
	op, err := taxrule.ParseOperationType(r.OperationType)
	if err != nil {
		return taxrule.RuleData{}, err
	}

	return taxrule.RuleData{
		SourceState:      r.SourceState,
		DestinationState: r.DestinationState,
		NCM:              r.NCM,
		OperationType:    op,
		CFOP:             r.CFOP,
		CST:              r.CST,
		Rates: taxrule.Rates{
			ICMS:   r.ICMSRate,
			IPI:    r.IPIRate,
			PIS:    r.PISRate,
			COFINS: r.COFINSRate,
		},
	}, nil
}

// TaxRuleResponse representa a resposta com dados de uma regra tributária
type TaxRuleResponse struct {
	ID               string          `json:"id"`
	SourceState      string          `json:"source_state"`
	DestinationState string          `json:"destination_state"`
	NCM              *string         `json:"ncm,omitempty"`
	OperationType    string          `json:"operation_type"`
	CFOP             string          `json:"cfop"`
	CST              string          `json:"cst"`
	ICMSRate         decimal.Decimal `json:"icms_rate"`
	IPIRate          decimal.Decimal `json:"ipi_rate"`
	PISRate          decimal.Decimal `json:"pis_rate"`
	COFINSRate       decimal.Decimal `json:"cofins_rate"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TaxRuleListResponse representa a resposta com uma lista de regras
type TaxRuleListResponse struct {
	Rules []TaxRuleResponse `json:"rules"`
	Total int               `json:"total"`
}

// NewTaxRuleResponse cria um TaxRuleResponse a partir de uma regra
func NewTaxRuleResponse(rule *taxrule.Rule) TaxRuleResponse {
	return TaxRuleResponse{
		ID:               rule.ID,
		SourceState:      rule.SourceState,
		DestinationState: rule.DestinationState,
		NCM:              rule.NCM,
		OperationType:    string(rule.OperationType),
		CFOP:             rule.CFOP,
		CST:              rule.CST,
		ICMSRate:         rule.Rates.ICMS,
		IPIRate:          rule.Rates.IPI,
		PISRate:          rule.Rates.PIS,
		COFINSRate:       rule.Rates.COFINS,
		Active:           rule.Active,
		CreatedAt:        rule.CreatedAt,
		UpdatedAt:        rule.UpdatedAt,
	}
}

// NewTaxRuleListResponse cria a resposta de listagem de regras
func NewTaxRuleListResponse(rules []*taxrule.Rule) TaxRuleListResponse {
	return TaxRuleListResponse{
		Rules: lo.Map(rules, func(r *taxrule.Rule, _ int) TaxRuleResponse {
			return NewTaxRuleResponse(r)
		}),
		Total: len(rules),
	}
}

// TaxCalculationRequest representa os dados de um item a tributar
type TaxCalculationRequest struct {
	SourceState      string          `json:"source_state" binding:"required"`
	DestinationState string          `json:"destination_state" binding:"required"`
	NCM              *string         `json:"ncm,omitempty"`
	OperationType    string          `json:"operation_type" binding:"required"`
	ItemValue        decimal.Decimal `json:"item_value"`
}

// ToInput converte a requisição na entrada do cálculo
func (r TaxCalculationRequest) ToInput() (taxrule.Input, error) {
	op, err := taxrule.ParseOperationType(r.OperationType)
	if err != nil {
		return taxrule.Input{}, err
	}

	return taxrule.Input{
		SourceState:      r.SourceState,
		DestinationState: r.DestinationState,
		NCM:              r.NCM,
		OperationType:    op,
		ItemValue:        r.ItemValue,
	}, nil
}

// TaxLineResponse representa alíquota e valor de um tributo
type TaxLineResponse struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// TaxCalculationResponse representa o resultado do cálculo tributário
type TaxCalculationResponse struct {
	RuleID   string          `json:"rule_id"`
	CFOP     string          `json:"cfop"`
	CST      string          `json:"cst"`
	ICMS     TaxLineResponse `json:"icms"`
	IPI      TaxLineResponse `json:"ipi"`
	PIS      TaxLineResponse `json:"pis"`
	COFINS   TaxLineResponse `json:"cofins"`
	TotalTax decimal.Decimal `json:"total_tax"`
}

// NewTaxCalculationResponse cria a resposta a partir do resultado do cálculo
func NewTaxCalculationResponse(result *taxrule.Result) TaxCalculationResponse {
	line := func(l taxrule.TaxLine) TaxLineResponse {
		return TaxLineResponse{Rate: l.Rate, Amount: l.Amount}
	}
	return TaxCalculationResponse{
		RuleID:   result.RuleID,
		CFOP:     result.CFOP,
		CST:      result.CST,
		ICMS:     line(result.ICMS),
		IPI:      line(result.IPI),
		PIS:      line(result.PIS),
		COFINS:   line(result.COFINS),
		TotalTax: result.TotalTax,
	}
}
