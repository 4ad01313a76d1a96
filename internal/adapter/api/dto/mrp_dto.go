package dto

import (
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RecommendationResponse representa uma sugestão de reposição
type RecommendationResponse struct {
	MaterialID          string          `json:"material_id"`
	MaterialCode        string          `json:"material_code"`
	MaterialDescription string          `json:"material_description"`
	Unit                string          `json:"unit"`
	ShortageQuantity    decimal.Decimal `json:"shortage_quantity"`
	RequiredByDate      string          `json:"required_by_date"`
	ActionType          string          `json:"action_type"`
	Reason              string          `json:"reason"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	SafetyStock         decimal.Decimal `json:"safety_stock"`
	Demand              decimal.Decimal `json:"demand"`
	Supply              decimal.Decimal `json:"supply"`
	NetRequirement      decimal.Decimal `json:"net_requirement"`
}

// MRPWarningResponse representa um ajuste feito em dado de cadastro
type MRPWarningResponse struct {
	MaterialCode string `json:"material_code"`
	Message      string `json:"message"`
}

// MRPRunResponse representa o resultado de uma execução do MRP
type MRPRunResponse struct {
	ExecutedAt      time.Time                `json:"executed_at"`
	Recommendations []RecommendationResponse `json:"recommendations"`
	Warnings        []MRPWarningResponse     `json:"warnings,omitempty"`
}

// NewMRPRunResponse cria a resposta a partir do resultado do MRP
func NewMRPRunResponse(result *mrp.Result) MRPRunResponse {
	resp := MRPRunResponse{
		ExecutedAt: result.ExecutedAt,
		Recommendations: lo.Map(result.Recommendations, func(r mrp.Recommendation, _ int) RecommendationResponse {
			return RecommendationResponse{
				MaterialID:          r.MaterialID,
				MaterialCode:        r.MaterialCode,
				MaterialDescription: r.MaterialDescription,
				Unit:                r.Unit,
				ShortageQuantity:    r.ShortageQuantity,
				RequiredByDate:      r.RequiredByDate.Format(time.DateOnly),
				ActionType:          string(r.ActionType),
				Reason:              r.Reason,
				CurrentStock:        r.CurrentStock,
				SafetyStock:         r.SafetyStock,
				Demand:              r.Demand,
				Supply:              r.Supply,
				NetRequirement:      r.NetRequirement,
			}
		}),
	}
	if len(result.Warnings) > 0 {
		resp.Warnings = lo.Map(result.Warnings, func(w mrp.Warning, _ int) MRPWarningResponse {
			return MRPWarningResponse{MaterialCode: w.MaterialCode, Message: w.Message}
		})
	}
	return resp
}
