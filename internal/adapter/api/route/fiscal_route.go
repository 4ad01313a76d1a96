package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-industria/pkg/auth"
)

// SetupFiscalRoutes configura as rotas de configurações e documentos fiscais
func SetupFiscalRoutes(
	router *gin.RouterGroup,
	fiscalController *controller.FiscalController,
	documentController *controller.FiscalDocumentController,
) {
	fiscalRouter := router.Group("/fiscal")
	fiscalRouter.Use(auth.RoleAuthMiddleware(auth.RoleFiscal))

	if fiscalController != nil {
		configs := fiscalRouter.Group("/configs")
		{
			configs.POST("", fiscalController.Create)
			configs.GET("/:id", fiscalController.Get)
			configs.PUT("/:id", fiscalController.Update)
			configs.GET("/branch/:branch_id", fiscalController.GetByBranch)
		}
	}

	if documentController != nil {
		documents := fiscalRouter.Group("/documents")
		{
			documents.POST("", documentController.Generate)
			documents.GET("", documentController.List)
			documents.POST("/sync", documentController.Sync)
			documents.GET("/invoice/:invoice_id", documentController.GetByInvoice)
			documents.GET("/:id", documentController.Get)
			documents.POST("/:id/refresh", documentController.Refresh)
			documents.POST("/:id/cancel", documentController.Cancel)
		}
	}
}
