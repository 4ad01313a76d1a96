package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

// TaxRuleController manipula as requisições relacionadas às regras tributárias
type TaxRuleController struct {
	service *taxrule.Service
	logger  logger.Logger
}

// NewTaxRuleController cria uma nova instância de TaxRuleController
func NewTaxRuleController(service *taxrule.Service, logger logger.Logger) *TaxRuleController {
	return &TaxRuleController{
		service: service,
		logger:  logger,
	}
}

// @Summary Criar regra tributária
// @Description Cadastra uma nova regra de tributação por UF, NCM e tipo de operação
// @Tags Regras Tributárias
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param rule body dto.TaxRuleRequest true "Dados da regra"
// @Success 201 {object} dto.TaxRuleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tax-rules [post]
func (c *TaxRuleController) Create(ctx *gin.Context) {
	var req dto.TaxRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	data, err := req.ToRuleData()
	if err != nil {
		respondError(ctx, c.logger, "dados inválidos", err)
		return
	}

	rule, err := c.service.CreateRule(ctx.Request.Context(), data)
	if err != nil {
		respondError(ctx, c.logger, "erro ao criar regra tributária", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewTaxRuleResponse(rule))
}

// @Summary Listar regras tributárias
// @Description Lista todas as regras tributárias do tenant
// @Tags Regras Tributárias
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.TaxRuleListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tax-rules [get]
func (c *TaxRuleController) List(ctx *gin.Context) {
	rules, err := c.service.GetAllRules(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao listar regras tributárias", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewTaxRuleListResponse(rules))
}

// @Summary Obter regra tributária
// @Description Busca uma regra tributária pelo ID
// @Tags Regras Tributárias
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da regra"
// @Success 200 {object} dto.TaxRuleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tax-rules/{id} [get]
func (c *TaxRuleController) Get(ctx *gin.Context) {
	rule, err := c.service.GetRuleByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar regra tributária", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewTaxRuleResponse(rule))
}

// @Summary Atualizar regra tributária
// @Description Substitui todos os campos de uma regra tributária
// @Tags Regras Tributárias
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da regra"
// @Param rule body dto.TaxRuleRequest true "Dados da regra"
// @Success 200 {object} dto.TaxRuleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tax-rules/{id} [put]
func (c *TaxRuleController) Update(ctx *gin.Context) {
	var req dto.TaxRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	data, err := req.ToRuleData()
	if err != nil {
		respondError(ctx, c.logger, "dados inválidos", err)
		return
	}

	rule, err := c.service.UpdateRule(ctx.Request.Context(), ctx.Param("id"), data)
	if err != nil {
		respondError(ctx, c.logger, "erro ao atualizar regra tributária", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewTaxRuleResponse(rule))
}

// @Summary Desativar regra tributária
// @Description Desativa uma regra, que deixa de participar do cálculo
// @Tags Regras Tributárias
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da regra"
// @Success 200 {object} dto.TaxRuleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tax-rules/{id}/deactivate [patch]
func (c *TaxRuleController) Deactivate(ctx *gin.Context) {
	rule, err := c.service.DeactivateRule(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao desativar regra tributária", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewTaxRuleResponse(rule))
}

// @Summary Calcular tributos
// @Description Resolve a regra aplicável e calcula ICMS, IPI, PIS e COFINS de um item
// @Tags Regras Tributárias
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param input body dto.TaxCalculationRequest true "Dados do item"
// @Success 200 {object} dto.TaxCalculationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /tax-rules/calculate [post]
func (c *TaxRuleController) Calculate(ctx *gin.Context) {
	var req dto.TaxCalculationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	in, err := req.ToInput()
	if err != nil {
		respondError(ctx, c.logger, "dados inválidos", err)
		return
	}

	result, err := c.service.CalculateTax(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, c.logger, "erro ao calcular tributos", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewTaxCalculationResponse(result))
}
