package route

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-industria/pkg/auth"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// BasePath é o prefixo de todas as rotas da API
const BasePath = "/api/v1"

// RouterConfig contém os parâmetros de montagem do router
type RouterConfig struct {
	Mode           string
	AllowedOrigins []string
	JWTService     *auth.JWTService
	EnableSwagger  bool
}

// Controllers agrupa os controllers expostos pela API
type Controllers struct {
	TaxRule        *controller.TaxRuleController
	FiscalConfig   *controller.FiscalController
	FiscalDocument *controller.FiscalDocumentController
	MRP            *controller.MRPController
	Health         *controller.HealthController
}

// NewRouter cria o router com middlewares globais e todas as rotas
func NewRouter(cfg RouterConfig, c Controllers) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	if cfg.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group(BasePath)

	if c.Health != nil {
		api.GET("/health", c.Health.Check)
	}

	// Rotas protegidas carregam o tenant do token no contexto da requisição
	protected := api.Group("")
	protected.Use(auth.JWTAuthMiddleware(cfg.JWTService))

	if c.TaxRule != nil {
		SetupTaxRuleRoutes(protected, c.TaxRule)
	}
	if c.FiscalConfig != nil || c.FiscalDocument != nil {
		SetupFiscalRoutes(protected, c.FiscalConfig, c.FiscalDocument)
	}
	if c.MRP != nil {
		SetupMRPRoutes(protected, c.MRP)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowCredentials = false
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
