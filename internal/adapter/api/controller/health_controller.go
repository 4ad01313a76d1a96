package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger verifica a disponibilidade de uma dependência
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController expõe o estado da aplicação
type HealthController struct {
	version string
	db      Pinger
}

// NewHealthController cria o controller. db pode ser nil quando o armazenamento é em memória.
func NewHealthController(version string, db Pinger) *HealthController {
	return &HealthController{version: version, db: db}
}

// @Summary Verificar saúde
// @Description Retorna o estado da API e do banco de dados
// @Tags Sistema
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "degraded",
				"version":  c.version,
				"database": err.Error(),
			})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.version,
	})
}
