package mrp

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type snapshotReader struct {
	snap Snapshot
	fail string
}

func (r *snapshotReader) err(source string) error {
	if r.fail == source {
		return errors.New("conexão recusada")
	}
	return nil
}

func (r *snapshotReader) GetAllMaterials(context.Context) ([]Material, error) {
	return r.snap.Materials, r.err("materials")
}

func (r *snapshotReader) GetAllStockLevels(context.Context) ([]StockLevel, error) {
	return r.snap.StockLevels, r.err("stock")
}

func (r *snapshotReader) GetOpenSalesOrderLines(context.Context) ([]SalesOrderLine, error) {
	return r.snap.SalesOrderLines, r.err("sales")
}

func (r *snapshotReader) GetOpenProductionOrders(context.Context) ([]ProductionOrder, error) {
	return r.snap.ProductionOrders, r.err("production")
}

func (r *snapshotReader) GetApprovedPurchaseOrderLines(context.Context) ([]PurchaseOrderLine, error) {
	return r.snap.PurchaseOrderLines, r.err("purchase")
}

type ServiceSuite struct {
	suite.Suite
	reader  *snapshotReader
	service *Service
}

func (s *ServiceSuite) SetupTest() {
	s.reader = &snapshotReader{snap: baseSnapshot()}
	s.service = NewService(s.reader, s.reader, s.reader, logger.NewNopLogger()).
		WithClock(func() time.Time { return runAt })
}

func (s *ServiceSuite) TestRunMRP() {
	res, err := s.service.RunMRP(context.Background())
	s.Require().NoError(err)

	s.Equal(runAt, res.ExecutedAt)
	s.Require().Len(res.Recommendations, 1)
	s.Equal("15", res.Recommendations[0].ShortageQuantity.String())
}

func (s *ServiceSuite) TestRunMRPTwiceIsIdentical() {
	first, err := s.service.RunMRP(context.Background())
	s.Require().NoError(err)
	second, err := s.service.RunMRP(context.Background())
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *ServiceSuite) TestReaderFailureAbortsRun() {
	for _, source := range []string{"materials", "stock", "sales", "production", "purchase"} {
		s.reader.fail = source

		res, err := s.service.RunMRP(context.Background())

		s.Nil(res, source)
		s.ErrorIs(err, apperror.ErrDataUnavailable, source)
		s.True(apperror.IsRetryable(err))
	}
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func TestWriteXLSX(t *testing.T) {
	res := Net(baseSnapshot(), runAt)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(res, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "MP-001", rows[1][0])
	assert.Equal(t, "15", rows[1][8])
	assert.Equal(t, "2026-03-09", rows[1][9])
	assert.Equal(t, string(ActionPurchaseRequisition), rows[1][10])
}
