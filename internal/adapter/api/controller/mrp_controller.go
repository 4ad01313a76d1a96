package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MRPController manipula as execuções do planejamento de materiais
type MRPController struct {
	service *mrp.Service
	logger  logger.Logger
}

// NewMRPController cria uma nova instância de MRPController
func NewMRPController(service *mrp.Service, logger logger.Logger) *MRPController {
	return &MRPController{
		service: service,
		logger:  logger,
	}
}

// @Summary Executar MRP
// @Description Calcula as necessidades líquidas de todos os materiais e sugere reposições
// @Tags MRP
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.MRPRunResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /mrp/run [post]
func (c *MRPController) Run(ctx *gin.Context) {
	result, err := c.service.RunMRP(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao executar MRP", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMRPRunResponse(result))
}

// @Summary Exportar MRP
// @Description Executa o MRP e devolve as sugestões em planilha xlsx
// @Tags MRP
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param Authorization header string true "Bearer token"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /mrp/run/export [post]
func (c *MRPController) Export(ctx *gin.Context) {
	result, err := c.service.RunMRP(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, "erro ao executar MRP", err)
		return
	}

	var buf bytes.Buffer
	if err := mrp.WriteXLSX(result, &buf); err != nil {
		respondError(ctx, c.logger, "erro ao gerar planilha do MRP", err)
		return
	}

	filename := fmt.Sprintf("mrp-%s.xlsx", result.ExecutedAt.Format("20060102-150405"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
