package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-industria/internal/adapter/provider"
	"github.com/hugohenrick/erp-industria/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/domain"
	"github.com/hugohenrick/erp-industria/pkg/logger"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testTenant = "tenant-1"

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.Validation("campo"), http.StatusBadRequest},
		{apperror.NotFound("regra", "x"), http.StatusNotFound},
		{fmt.Errorf("%w: SP->PR", apperror.ErrNoMatchingRule), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: cancelar", apperror.ErrInvalidStateTransition), http.StatusConflict},
		{apperror.ErrConcurrentModification, http.StatusConflict},
		{fmt.Errorf("%w: timeout", apperror.ErrProvider), http.StatusBadGateway},
		{fmt.Errorf("%w: estoque", apperror.ErrDataUnavailable), http.StatusServiceUnavailable},
		{errors.New("inesperado"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, controller.StatusFor(tt.err), tt.err.Error())
	}
}

// withTenant faz o papel do middleware JWT nos testes
func withTenant(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("tenant_id", tenantID)
		c.Request = c.Request.WithContext(tenant.SetTenantIDContext(c.Request.Context(), tenantID))
		c.Next()
	}
}

type failingReader struct{}

func (failingReader) GetAllMaterials(context.Context) ([]mrp.Material, error) {
	return nil, errors.New("conexão recusada")
}

func (failingReader) GetAllStockLevels(context.Context) ([]mrp.StockLevel, error) { return nil, nil }

func (failingReader) GetOpenSalesOrderLines(context.Context) ([]mrp.SalesOrderLine, error) {
	return nil, nil
}

func (failingReader) GetOpenProductionOrders(context.Context) ([]mrp.ProductionOrder, error) {
	return nil, nil
}

func (failingReader) GetApprovedPurchaseOrderLines(context.Context) ([]mrp.PurchaseOrderLine, error) {
	return nil, nil
}

type ControllerSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *ControllerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()
	ctx := tenant.SetTenantIDContext(context.Background(), testTenant)

	taxService := taxrule.NewService(memory.NewTaxRuleRepository(), log).
		WithClock(func() time.Time { return fixedNow })

	configs := memory.NewFiscalRepository()
	cfg, err := fiscal.NewConfiguration(testTenant, "branch-1", "12345678000195", "SP")
	s.Require().NoError(err)
	s.Require().NoError(configs.Create(ctx, cfg))

	invoices := memory.NewInvoiceReader()
	invoices.AddInvoice(fiscal.Invoice{
		ID: "inv-1", TenantID: testTenant, BranchID: "branch-1", PartnerID: "bp-1",
		Number: "FAT-1", TotalAmount: decimal.NewFromInt(500),
	})
	invoices.AddBusinessPartner(fiscal.BusinessPartner{ID: "bp-1", Name: "Cliente", Document: "98765432000110", State: "PR"})

	docService := fiscal.NewDocumentService(
		memory.NewFiscalDocumentRepository(), configs, invoices, provider.NewSandboxProvider(), nil, log,
	).WithClock(func() time.Time { return fixedNow })

	planning := memory.NewPlanningReader(mrp.Snapshot{
		Materials: []mrp.Material{{
			ID: "m-1", TenantID: testTenant, Code: "MP-001", Description: "Chapa", Unit: "KG",
			SafetyStock:     decimal.NewNullDecimal(decimal.NewFromInt(5)),
			ProcurementType: mrp.ProcurementBuy,
			Audit:           domain.Audit{Active: true},
		}},
		StockLevels: []mrp.StockLevel{{ID: "s-1", MaterialID: "m-1", LocationID: "l-1", Quantity: decimal.NewFromInt(10)}},
		SalesOrderLines: []mrp.SalesOrderLine{
			{ID: "sl-1", OrderID: "so-1", OrderStatus: mrp.SalesConfirmed, MaterialID: "m-1", Quantity: decimal.NewFromInt(20)},
		},
	})
	mrpService := mrp.NewService(planning, planning, planning, log).
		WithClock(func() time.Time { return fixedNow })
	brokenMRP := mrp.NewService(failingReader{}, failingReader{}, failingReader{}, log)

	taxCtrl := controller.NewTaxRuleController(taxService, log)
	configCtrl := controller.NewFiscalController(configs, log)
	docCtrl := controller.NewFiscalDocumentController(docService, log)
	mrpCtrl := controller.NewMRPController(mrpService, log)
	brokenCtrl := controller.NewMRPController(brokenMRP, log)

	router := gin.New()
	api := router.Group("/api/v1", withTenant(testTenant))
	api.POST("/tax-rules", taxCtrl.Create)
	api.GET("/tax-rules", taxCtrl.List)
	api.GET("/tax-rules/:id", taxCtrl.Get)
	api.PUT("/tax-rules/:id", taxCtrl.Update)
	api.PATCH("/tax-rules/:id/deactivate", taxCtrl.Deactivate)
	api.POST("/tax-rules/calculate", taxCtrl.Calculate)
	api.POST("/fiscal/configs", configCtrl.Create)
	api.GET("/fiscal/configs/branch/:branch_id", configCtrl.GetByBranch)
	api.PUT("/fiscal/configs/:id", configCtrl.Update)
	api.POST("/fiscal/documents", docCtrl.Generate)
	api.GET("/fiscal/documents", docCtrl.List)
	api.POST("/fiscal/documents/sync", docCtrl.Sync)
	api.GET("/fiscal/documents/invoice/:invoice_id", docCtrl.GetByInvoice)
	api.GET("/fiscal/documents/:id", docCtrl.Get)
	api.POST("/fiscal/documents/:id/refresh", docCtrl.Refresh)
	api.POST("/fiscal/documents/:id/cancel", docCtrl.Cancel)
	api.POST("/mrp/run", mrpCtrl.Run)
	api.POST("/mrp/run/export", mrpCtrl.Export)
	api.POST("/mrp/broken", brokenCtrl.Run)
	s.router = router
}

func (s *ControllerSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ControllerSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func ruleBody() map[string]interface{} {
	return map[string]interface{}{
		"source_state":      "sp",
		"destination_state": "PR",
		"operation_type":    "sales",
		"cfop":              "6101",
		"cst":               "00",
		"icms_rate":         "12",
		"ipi_rate":          "5",
		"pis_rate":          "1.65",
		"cofins_rate":       "7.6",
	}
}

func (s *ControllerSuite) TestTaxRuleLifecycle() {
	w := s.do(http.MethodPost, "/api/v1/tax-rules", ruleBody())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := s.decode(w)
	s.Equal("SP", created["source_state"])
	id := created["id"].(string)

	w = s.do(http.MethodGet, "/api/v1/tax-rules/"+id, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/tax-rules", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), s.decode(w)["total"])

	w = s.do(http.MethodPost, "/api/v1/tax-rules/calculate", map[string]interface{}{
		"source_state":      "SP",
		"destination_state": "pr",
		"operation_type":    "sales",
		"item_value":        "1000",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	calc := s.decode(w)
	s.Equal(id, calc["rule_id"])
	s.Equal("262.5", calc["total_tax"])

	update := ruleBody()
	update["cfop"] = "6102"
	w = s.do(http.MethodPut, "/api/v1/tax-rules/"+id, update)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("6102", s.decode(w)["cfop"])

	w = s.do(http.MethodPatch, "/api/v1/tax-rules/"+id+"/deactivate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["active"])

	w = s.do(http.MethodPost, "/api/v1/tax-rules/calculate", map[string]interface{}{
		"source_state":      "SP",
		"destination_state": "PR",
		"operation_type":    "sales",
		"item_value":        "1000",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *ControllerSuite) TestTaxRuleErrors() {
	body := ruleBody()
	body["operation_type"] = "doacao"
	w := s.do(http.MethodPost, "/api/v1/tax-rules", body)
	s.Equal(http.StatusBadRequest, w.Code)

	body = ruleBody()
	body["icms_rate"] = "120"
	w = s.do(http.MethodPost, "/api/v1/tax-rules", body)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/tax-rules", map[string]interface{}{"cfop": "5101"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/tax-rules/nao-existe", nil)
	s.Equal(http.StatusNotFound, w.Code)
	resp := s.decode(w)
	s.Equal(float64(http.StatusNotFound), resp["code"])
	s.Nil(resp["retryable"])
}

func (s *ControllerSuite) TestFiscalDocumentFlow() {
	w := s.do(http.MethodPost, "/api/v1/fiscal/documents", map[string]string{"invoice_id": "inv-1"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	doc := s.decode(w)
	s.Equal("processing", doc["status"])
	s.Len(doc["access_key"], 44)
	id := doc["id"].(string)

	w = s.do(http.MethodPost, "/api/v1/fiscal/documents", map[string]string{"invoice_id": "inv-1"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/fiscal/documents/"+id+"/cancel", nil)
	s.Equal(http.StatusConflict, w.Code)

	// O provedor simulado autoriza na segunda consulta
	w = s.do(http.MethodPost, "/api/v1/fiscal/documents/"+id+"/refresh", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("processing", s.decode(w)["status"])

	w = s.do(http.MethodPost, "/api/v1/fiscal/documents/sync", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	sync := s.decode(w)
	s.Equal(float64(1), sync["checked"])
	s.Equal(float64(1), sync["updated"])

	w = s.do(http.MethodGet, "/api/v1/fiscal/documents/invoice/inv-1", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	authorized := s.decode(w)
	s.Equal("authorized", authorized["status"])
	s.NotEmpty(authorized["protocol"])

	w = s.do(http.MethodPost, "/api/v1/fiscal/documents/"+id+"/cancel", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("cancelled", s.decode(w)["status"])

	w = s.do(http.MethodGet, "/api/v1/fiscal/documents?status=cancelled", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	list := s.decode(w)
	s.Len(list["documents"], 1)
	s.Equal(float64(1), list["page"])
}

func (s *ControllerSuite) TestFiscalDocumentErrors() {
	w := s.do(http.MethodPost, "/api/v1/fiscal/documents", map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/fiscal/documents", map[string]string{"invoice_id": "inv-404"})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/fiscal/documents/doc-404", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/fiscal/documents?status=pago", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerSuite) TestFiscalConfig() {
	w := s.do(http.MethodGet, "/api/v1/fiscal/configs/branch/branch-1", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	cfg := s.decode(w)
	s.Equal("SP", cfg["emitter_state"])
	id := cfg["id"].(string)

	body := map[string]interface{}{
		"branch_id":        "branch-1",
		"emitter_document": "12.345.678/0001-95",
		"emitter_state":    "SP",
		"nfe_series":       "2",
		"nfe_next_number":  100,
		"nfe_environment":  "production",
	}
	w = s.do(http.MethodPost, "/api/v1/fiscal/configs", body)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/v1/fiscal/configs/"+id, body)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := s.decode(w)
	s.Equal("2", updated["nfe_series"])
	s.Equal("production", updated["nfe_environment"])
	s.Equal("12345678000195", updated["emitter_document"])

	body["branch_id"] = "branch-2"
	body["nfe_environment"] = "sandbox"
	w = s.do(http.MethodPost, "/api/v1/fiscal/configs", body)
	s.Equal(http.StatusBadRequest, w.Code)

	body["nfe_environment"] = "homologation"
	w = s.do(http.MethodPost, "/api/v1/fiscal/configs", body)
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPut, "/api/v1/fiscal/configs/"+id, body)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/fiscal/configs/branch/branch-9", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerSuite) TestMRPRun() {
	w := s.do(http.MethodPost, "/api/v1/mrp/run", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	recs := resp["recommendations"].([]interface{})
	s.Require().Len(recs, 1)
	rec := recs[0].(map[string]interface{})
	s.Equal("MP-001", rec["material_code"])
	s.Equal("15", rec["shortage_quantity"])
	s.Equal("2026-03-02", rec["required_by_date"])
	s.Equal("purchase_requisition", rec["action_type"])
}

func (s *ControllerSuite) TestMRPExport() {
	w := s.do(http.MethodPost, "/api/v1/mrp/run/export", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "mrp-20260302-090000.xlsx")
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func (s *ControllerSuite) TestMRPUnavailable() {
	w := s.do(http.MethodPost, "/api/v1/mrp/broken", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal(true, s.decode(w)["retryable"])
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthController(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		db   controller.Pinger
		want int
	}{
		{name: "sem banco", db: nil, want: http.StatusOK},
		{name: "banco disponível", db: stubPinger{}, want: http.StatusOK},
		{name: "banco indisponível", db: stubPinger{err: errors.New("timeout")}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", controller.NewHealthController("1.0.0", tt.db).Check)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"version":"1.0.0"`)
		})
	}
}
