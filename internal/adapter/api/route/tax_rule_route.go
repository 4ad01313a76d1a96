package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-industria/pkg/auth"
)

// SetupTaxRuleRoutes configura as rotas de regras tributárias
func SetupTaxRuleRoutes(router *gin.RouterGroup, taxRuleController *controller.TaxRuleController) {
	taxRouter := router.Group("/tax-rules")
	{
		// Consulta e cálculo liberados para qualquer usuário autenticado
		taxRouter.GET("", taxRuleController.List)
		taxRouter.GET("/:id", taxRuleController.Get)
		taxRouter.POST("/calculate", taxRuleController.Calculate)

		// Manutenção restrita à equipe fiscal
		manage := taxRouter.Group("")
		manage.Use(auth.RoleAuthMiddleware(auth.RoleFiscal))
		manage.POST("", taxRuleController.Create)
		manage.PUT("/:id", taxRuleController.Update)
		manage.PATCH("/:id/deactivate", taxRuleController.Deactivate)
	}
}
