package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

// FiscalDocumentController manipula as requisições de emissão e consulta de NFe
type FiscalDocumentController struct {
	service *fiscal.DocumentService
	logger  logger.Logger
}

// NewFiscalDocumentController cria uma nova instância de FiscalDocumentController
func NewFiscalDocumentController(service *fiscal.DocumentService, logger logger.Logger) *FiscalDocumentController {
	return &FiscalDocumentController{
		service: service,
		logger:  logger,
	}
}

// @Summary Emitir documento fiscal
// @Description Gera a NFe de uma fatura e a envia ao provedor
// @Tags Documentos Fiscais
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body dto.GenerateDocumentRequest true "Fatura de origem"
// @Success 201 {object} dto.FiscalDocumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /fiscal/documents [post]
func (c *FiscalDocumentController) Generate(ctx *gin.Context) {
	var req dto.GenerateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "dados inválidos", err.Error())
		return
	}

	doc, err := c.service.GenerateFromInvoice(ctx.Request.Context(), req.InvoiceID)
	if err != nil {
		respondError(ctx, c.logger, "erro ao emitir documento fiscal", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewFiscalDocumentResponse(doc))
}

// @Summary Listar documentos fiscais
// @Description Lista os documentos fiscais com paginação e filtro por status
// @Tags Documentos Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Filtrar por status"
// @Param page query int false "Número da página (padrão: 1)"
// @Param page_size query int false "Tamanho da página (padrão: 10)"
// @Success 200 {object} dto.FiscalDocumentListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /fiscal/documents [get]
func (c *FiscalDocumentController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	filter := fiscal.DocumentFilter{
		Limit:  pagination.PageSize,
		Offset: pagination.Offset(),
	}
	if s := ctx.Query("status"); s != "" {
		status, err := fiscal.ParseDocumentStatus(s)
		if err != nil {
			respondError(ctx, c.logger, "status inválido", err)
			return
		}
		filter.Status = status
	}

	docs, err := c.service.GetAll(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, c.logger, "erro ao listar documentos fiscais", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalDocumentListResponse(docs, pagination))
}

// @Summary Obter documento fiscal
// @Description Busca um documento fiscal pelo ID
// @Tags Documentos Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do documento"
// @Success 200 {object} dto.FiscalDocumentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fiscal/documents/{id} [get]
func (c *FiscalDocumentController) Get(ctx *gin.Context) {
	doc, err := c.service.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar documento fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalDocumentResponse(doc))
}

// @Summary Obter documento fiscal da fatura
// @Description Busca o documento fiscal mais recente de uma fatura
// @Tags Documentos Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param invoice_id path string true "ID da fatura"
// @Success 200 {object} dto.FiscalDocumentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fiscal/documents/invoice/{invoice_id} [get]
func (c *FiscalDocumentController) GetByInvoice(ctx *gin.Context) {
	doc, err := c.service.GetByInvoiceID(ctx.Request.Context(), ctx.Param("invoice_id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao buscar documento fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalDocumentResponse(doc))
}

// @Summary Atualizar situação do documento
// @Description Consulta o provedor e aplica a situação retornada
// @Tags Documentos Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do documento"
// @Success 200 {object} dto.FiscalDocumentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /fiscal/documents/{id}/refresh [post]
func (c *FiscalDocumentController) Refresh(ctx *gin.Context) {
	doc, err := c.service.RefreshStatus(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao consultar documento fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalDocumentResponse(doc))
}

// @Summary Cancelar documento fiscal
// @Description Cancela um documento autorizado
// @Tags Documentos Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "ID do documento"
// @Success 200 {object} dto.FiscalDocumentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /fiscal/documents/{id}/cancel [post]
func (c *FiscalDocumentController) Cancel(ctx *gin.Context) {
	doc, err := c.service.Cancel(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, "erro ao cancelar documento fiscal", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewFiscalDocumentResponse(doc))
}

// @Summary Sincronizar documentos pendentes
// @Description Consulta o provedor para todos os documentos em processamento
// @Tags Documentos Fiscais
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.SyncResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /fiscal/documents/sync [post]
func (c *FiscalDocumentController) Sync(ctx *gin.Context) {
	result, err := c.service.SyncPending(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao sincronizar documentos fiscais", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSyncResponse(result))
}
