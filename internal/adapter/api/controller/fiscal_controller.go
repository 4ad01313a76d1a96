package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

// FiscalController manipula as requisições relacionadas às configurações fiscais
type FiscalController struct {
	fiscalRepo fiscal.Repository
	logger     logger.Logger
}

// NewFiscalController cria uma nova instância de FiscalController
func NewFiscalController(fiscalRepo fiscal.Repository, logger logger.Logger) *FiscalController {
	return &FiscalController{
		fiscalRepo: fiscalRepo,
		logger:     logger,
	}
}

// @Summary Criar configuração fiscal
// @Description Cria uma nova configuração fiscal
// @Tags Configurações Fiscais
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param config body dto.FiscalConfigRequest true "Dados da configuração fiscal"
// @Success 201 {object} dto.FiscalConfigResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fiscal/configs [post]
func (c *FiscalController) Create(ctx *gin.Context) {
	var req dto.FiscalConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	env, err := fiscal.ParseEnvironment(req.NFeEnvironment)
	if err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	tenantID := ctx.GetString("tenant_id")

	// Criar a configuração fiscal
	config, err := fiscal.NewConfiguration(tenantID, req.BranchID, req.EmitterDocument, req.EmitterState)
	if err != nil {
		badRequest(ctx, "erro ao criar configuração fiscal", err.Error())
		return
	}

	if err := config.ConfigureNFe(req.NFeSeries, req.NFeNextNumber, env); err != nil {
		badRequest(ctx, "erro ao configurar NFe", err.Error())
		return
	}

	if req.ContingencyEnabled {
		config.EnableContingency()
	}

	if err := c.fiscalRepo.Create(ctx.Request.Context(), config); err != nil {
		respondError(ctx, c.logger, "erro ao salvar configuração fiscal", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewFiscalConfigResponse(config))
}

// @Summary Obter configuração fiscal
// @Description Busca uma configuração fiscal pelo ID
// @Tags Configurações Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da configuração fiscal"
// @Success 200 {object} dto.FiscalConfigResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fiscal/configs/{id} [get]
func (c *FiscalController) Get(ctx *gin.Context) {
	config, err := c.fiscalRepo.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar configuração fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalConfigResponse(config))
}

// @Summary Obter configuração fiscal da filial
// @Description Busca a configuração fiscal de uma filial
// @Tags Configurações Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param branch_id path string true "ID da filial"
// @Success 200 {object} dto.FiscalConfigResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fiscal/configs/branch/{branch_id} [get]
func (c *FiscalController) GetByBranch(ctx *gin.Context) {
	config, err := c.fiscalRepo.FindByBranch(ctx.Request.Context(), ctx.Param("branch_id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar configuração fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalConfigResponse(config))
}

// @Summary Atualizar configuração fiscal
// @Description Atualiza emitente, série, numeração, ambiente e contingência
// @Tags Configurações Fiscais
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID da configuração fiscal"
// @Param config body dto.FiscalConfigRequest true "Dados da configuração fiscal"
// @Success 200 {object} dto.FiscalConfigResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fiscal/configs/{id} [put]
func (c *FiscalController) Update(ctx *gin.Context) {
	var req dto.FiscalConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	env, err := fiscal.ParseEnvironment(req.NFeEnvironment)
	if err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	config, err := c.fiscalRepo.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar configuração fiscal", err)
		return
	}

	if req.BranchID != config.BranchID {
		respondError(ctx, c.logger, "dados inválidos", apperror.Validation("a filial de uma configuração fiscal não pode ser alterada"))
		return
	}

	if err := config.ConfigureEmitter(req.EmitterDocument, req.EmitterState); err != nil {
		badRequest(ctx, "erro ao configurar emitente", err.Error())
		return
	}
	if err := config.ConfigureNFe(req.NFeSeries, req.NFeNextNumber, env); err != nil {
		badRequest(ctx, "erro ao configurar NFe", err.Error())
		return
	}

	if req.ContingencyEnabled {
		config.EnableContingency()
	} else {
		config.DisableContingency()
	}

	if err := c.fiscalRepo.Update(ctx.Request.Context(), config); err != nil {
		respondError(ctx, c.logger, "erro ao atualizar configuração fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalConfigResponse(config))
}
