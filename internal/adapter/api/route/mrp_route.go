package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-industria/pkg/auth"
)

// SetupMRPRoutes configura as rotas do planejamento de materiais
func SetupMRPRoutes(router *gin.RouterGroup, mrpController *controller.MRPController) {
	mrpRouter := router.Group("/mrp")
	mrpRouter.Use(auth.RoleAuthMiddleware(auth.RolePlanner))
	{
		mrpRouter.POST("/run", mrpController.Run)
		mrpRouter.POST("/run/export", mrpController.Export)
	}
}
