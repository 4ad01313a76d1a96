package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/route"
	"github.com/hugohenrick/erp-industria/internal/adapter/provider"
	"github.com/hugohenrick/erp-industria/internal/adapter/repository"
	"github.com/hugohenrick/erp-industria/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/hugohenrick/erp-industria/internal/infrastructure/config"
	"github.com/hugohenrick/erp-industria/internal/infrastructure/database"
	"github.com/hugohenrick/erp-industria/pkg/auth"
	"github.com/hugohenrick/erp-industria/pkg/events"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

const version = "1.0.0"

// App representa a aplicação e suas dependências
type App struct {
	config    *config.Config
	logger    logger.Logger
	db        *database.PostgresDB
	router    *gin.Engine
	documents *fiscal.DocumentService
}

// stores agrupa as implementações de persistência escolhidas em STORAGE_DRIVER
type stores struct {
	taxRules  taxrule.Repository
	configs   fiscal.Repository
	documents fiscal.DocumentRepository
	invoices  fiscal.InvoiceReader
	materials mrp.MaterialReader
	stock     mrp.StockReader
	orders    mrp.OrderReader
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{config: cfg, logger: log}

	jwtService, err := auth.NewJWTService(cfg.JWTSecretKey, cfg.JWTExpiration())
	if err != nil {
		return nil, err
	}

	// Configurar armazenamento
	st, err := app.newStores(ctx)
	if err != nil {
		return nil, err
	}

	// Configurar provedor fiscal
	fiscalProvider, err := newFiscalProvider(cfg.Fiscal, log)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(
		func(event events.Event, err error) {
			log.Error("erro ao processar evento", "topic", string(event.Topic), "entity_id", event.EntityID, "error", err.Error())
		},
		events.Subscription{
			Topic:   fiscal.TopicDocumentStatusChanged,
			Handler: logStatusChange(log),
		},
	)

	// Criar serviços
	taxService := taxrule.NewService(st.taxRules, log)
	app.documents = fiscal.NewDocumentService(st.documents, st.configs, st.invoices, fiscalProvider, bus, log)
	mrpService := mrp.NewService(st.materials, st.stock, st.orders, log)

	var pinger controller.Pinger
	if app.db != nil {
		pinger = app.db
	}

	// Criar controllers e router
	app.router = route.NewRouter(route.RouterConfig{
		Mode:           cfg.GinMode,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		JWTService:     jwtService,
		EnableSwagger:  cfg.EnableSwagger,
	}, route.Controllers{
		TaxRule:        controller.NewTaxRuleController(taxService, log),
		FiscalConfig:   controller.NewFiscalController(st.configs, log),
		FiscalDocument: controller.NewFiscalDocumentController(app.documents, log),
		MRP:            controller.NewMRPController(mrpService, log),
		Health:         controller.NewHealthController(version, pinger),
	})

	return app, nil
}

func (a *App) newStores(ctx context.Context) (*stores, error) {
	if a.config.StorageDriver == config.StorageMemory {
		a.logger.Warn("usando armazenamento em memória; os dados não serão persistidos")
		planning := memory.NewPlanningReader(mrp.Snapshot{})
		invoices := memory.NewInvoiceReader()
		if a.config.MemorySeedFile != "" {
			seed, err := memory.LoadSeed(a.config.MemorySeedFile)
			if err != nil {
				return nil, err
			}
			seed.Apply(invoices, planning)
			a.logger.Info("dados carregados no armazenamento em memória",
				"file", a.config.MemorySeedFile,
				"invoices", len(seed.Invoices),
				"materials", len(seed.Planning.Materials))
		} else {
			a.logger.Warn("MEMORY_SEED_FILE não configurado; faturas e dados de planejamento estarão vazios")
		}
		return &stores{
			taxRules:  memory.NewTaxRuleRepository(),
			configs:   memory.NewFiscalRepository(),
			documents: memory.NewFiscalDocumentRepository(),
			invoices:  invoices,
			materials: planning,
			stock:     planning,
			orders:    planning,
		}, nil
	}

	db, err := database.NewPostgresDB(ctx, a.config.Database)
	if err != nil {
		return nil, err
	}
	a.db = db

	pool := db.Pool()
	planning := repository.NewPlanningReader(pool)
	return &stores{
		taxRules:  repository.NewTaxRuleRepository(pool),
		configs:   repository.NewFiscalRepository(pool),
		documents: repository.NewFiscalDocumentRepository(pool),
		invoices:  repository.NewInvoiceReader(pool),
		materials: planning,
		stock:     planning,
		orders:    planning,
	}, nil
}

func newFiscalProvider(cfg config.FiscalConfig, log logger.Logger) (fiscal.Provider, error) {
	if cfg.UseSandbox() {
		log.Warn("FISCAL_PROVIDER_URL não configurada; usando provedor fiscal simulado")
		return provider.NewSandboxProvider(), nil
	}
	return provider.NewHTTPProvider(provider.HTTPConfig{
		BaseURL:             cfg.ProviderURL,
		Token:               cfg.ProviderToken,
		Environment:         cfg.Environment,
		CertificatePath:     cfg.CertificatePath,
		CertificatePassword: cfg.CertificatePassword,
		Timeout:             cfg.Timeout,
	}, log)
}

func logStatusChange(log logger.Logger) events.Handler {
	return func(_ context.Context, event events.Event) error {
		log.Info("documento fiscal mudou de status",
			"tenant_id", event.TenantID,
			"document_id", event.EntityID,
			"invoice_id", event.Payload["invoice_id"],
			"from", event.Payload["from"],
			"to", event.Payload["to"],
		)
		return nil
	}
}

// Start inicia o servidor HTTP e o sincronizador fiscal, encerrando ambos quando ctx termina
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.config.ServerPort,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	if a.config.Fiscal.PollInterval > 0 {
		go a.pollFiscalDocuments(pollCtx, a.config.Fiscal.PollInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("servidor iniciado", "port", a.config.ServerPort, "storage", a.config.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("erro ao iniciar servidor: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("encerrando servidor")
	stopPolling()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro ao encerrar servidor: %w", err)
	}
	return nil
}

// pollFiscalDocuments consulta periodicamente os documentos em processamento de todos os tenants
func (a *App) pollFiscalDocuments(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.documents.SyncPending(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("erro ao sincronizar documentos fiscais", "error", err.Error())
			}
		}
	}
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
