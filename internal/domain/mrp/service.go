package mrp

import (
	"context"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

// Service executa o MRP sobre os dados lidos dos outros contextos.
// O resultado é uma estimativa do instante da leitura; os pedidos não são
// lidos em uma transação única.
type Service struct {
	materials MaterialReader
	stock     StockReader
	orders    OrderReader
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria uma nova instância de Service
func NewService(materials MaterialReader, stock StockReader, orders OrderReader, logger logger.Logger) *Service {
	return &Service{
		materials: materials,
		stock:     stock,
		orders:    orders,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock substitui o relógio usado como instante da execução
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RunMRP calcula as recomendações para todos os materiais.
// Qualquer falha de leitura aborta a execução com apperror.ErrDataUnavailable.
func (s *Service) RunMRP(ctx context.Context) (*Result, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		s.logger.Error("erro ao carregar dados do MRP", "error", err.Error())
		return nil, err
	}

	result := Net(*snapshot, s.now())
	for _, w := range result.Warnings {
		s.logger.Warn(w.Message, "material_id", w.MaterialID, "material_code", w.MaterialCode)
	}

	s.logger.Info("MRP executado",
		"materials", len(snapshot.Materials),
		"recommendations", len(result.Recommendations))
	return result, nil
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	if snap.Materials, err = s.materials.GetAllMaterials(ctx); err != nil {
		return nil, unavailable("materiais", err)
	}
	if snap.StockLevels, err = s.stock.GetAllStockLevels(ctx); err != nil {
		return nil, unavailable("saldos de estoque", err)
	}
	if snap.SalesOrderLines, err = s.orders.GetOpenSalesOrderLines(ctx); err != nil {
		return nil, unavailable("pedidos de venda", err)
	}
	if snap.ProductionOrders, err = s.orders.GetOpenProductionOrders(ctx); err != nil {
		return nil, unavailable("ordens de produção", err)
	}
	if snap.PurchaseOrderLines, err = s.orders.GetApprovedPurchaseOrderLines(ctx); err != nil {
		return nil, unavailable("pedidos de compra", err)
	}
	return &snap, nil
}

func unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperror.ErrDataUnavailable, source, err)
}
