package fiscal_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/erp-industria/internal/adapter/repository/memory"
	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/events"
	"github.com/hugohenrick/erp-industria/pkg/logger"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// scriptedProvider responde conforme os campos configurados pelo teste
type scriptedProvider struct {
	mu        sync.Mutex
	emitErr   error
	queryErr  error
	status    fiscal.ProviderStatus
	emitted   []string
	reference int
}

func (p *scriptedProvider) EmitDocument(_ context.Context, doc *fiscal.Document, _ *fiscal.Invoice, _ *fiscal.BusinessPartner) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emitted = append(p.emitted, doc.ID)
	if p.emitErr != nil {
		return "", p.emitErr
	}
	p.reference++
	return fmt.Sprintf("ref-%d", p.reference), nil
}

func (p *scriptedProvider) QueryStatus(_ context.Context, _ string) (*fiscal.ProviderStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	st := p.status
	return &st, nil
}

// lockstepDocuments faz as chamadas de FindByInvoiceID esperarem umas pelas
// outras, de modo que todas vejam a fatura sem documento antes de qualquer Create
type lockstepDocuments struct {
	*memory.FiscalDocumentRepository
	arrived sync.WaitGroup
}

func (r *lockstepDocuments) FindByInvoiceID(ctx context.Context, invoiceID string) (*fiscal.Document, error) {
	doc, err := r.FiscalDocumentRepository.FindByInvoiceID(ctx, invoiceID)
	r.arrived.Done()
	r.arrived.Wait()
	return doc, err
}

type DocumentServiceSuite struct {
	suite.Suite
	ctx      context.Context
	docs     *memory.FiscalDocumentRepository
	configs  *memory.FiscalRepository
	invoices *memory.InvoiceReader
	provider *scriptedProvider
	events   []events.Event
	service  *fiscal.DocumentService
}

func (s *DocumentServiceSuite) SetupTest() {
	s.ctx = tenant.SetTenantIDContext(context.Background(), "tenant-1")
	s.docs = memory.NewFiscalDocumentRepository()
	s.configs = memory.NewFiscalRepository()
	s.provider = &scriptedProvider{status: fiscal.ProviderStatus{Status: "processando"}}
	s.events = nil

	cfg, err := fiscal.NewConfiguration("tenant-1", "branch-1", "12345678000195", "SC")
	s.Require().NoError(err)
	s.Require().NoError(cfg.ConfigureNFe("3", 500, fiscal.Homologation))
	s.Require().NoError(s.configs.Create(s.ctx, cfg))

	invoices := memory.NewInvoiceReader()
	s.invoices = invoices
	invoices.AddInvoice(fiscal.Invoice{
		ID: "inv-1", TenantID: "tenant-1", BranchID: "branch-1", PartnerID: "bp-1",
		Number: "FAT-0001", TotalAmount: decimal.NewFromInt(1000),
	})
	invoices.AddInvoice(fiscal.Invoice{
		ID: "inv-2", TenantID: "tenant-1", BranchID: "branch-9", PartnerID: "bp-1",
	})
	invoices.AddBusinessPartner(fiscal.BusinessPartner{ID: "bp-1", Name: "Metalúrgica Sul", Document: "98765432000110", State: "RS"})

	bus := events.NewBus(nil, events.Subscription{
		Topic: fiscal.TopicDocumentStatusChanged,
		Handler: func(_ context.Context, e events.Event) error {
			s.events = append(s.events, e)
			return nil
		},
	})

	clock := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	s.service = fiscal.NewDocumentService(s.docs, s.configs, invoices, s.provider, bus, logger.NewNopLogger()).
		WithClock(func() time.Time { return clock })
}

func (s *DocumentServiceSuite) TestGenerateFromInvoice() {
	doc, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	s.Equal(fiscal.StatusProcessing, doc.Status)
	s.Equal("ref-1", doc.ProviderReference)
	s.Equal(500, doc.Number)
	s.Equal("3", doc.Series)
	s.True(fiscal.ValidateAccessKey(doc.AccessKey))
	s.Equal("42", doc.AccessKey[:2])
	s.Equal("2608", doc.AccessKey[2:6])

	stored, err := s.service.GetByInvoiceID(s.ctx, "inv-1")
	s.Require().NoError(err)
	s.Equal(doc.ID, stored.ID)
	s.Equal(fiscal.StatusProcessing, stored.Status)

	cfg, err := s.configs.FindByBranch(s.ctx, "branch-1")
	s.Require().NoError(err)
	s.Equal(501, cfg.NFeNextNumber)

	s.Require().Len(s.events, 2)
	s.Equal("draft", s.events[1].Payload["from"])
	s.Equal("processing", s.events[1].Payload["to"])
}

func (s *DocumentServiceSuite) TestProviderErrorKeepsDraftAndRetries() {
	s.provider.emitErr = fmt.Errorf("%w: timeout", apperror.ErrProvider)

	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.ErrorIs(err, apperror.ErrProvider)
	s.True(apperror.IsRetryable(err))

	draft, err := s.service.GetByInvoiceID(s.ctx, "inv-1")
	s.Require().NoError(err)
	s.Equal(fiscal.StatusDraft, draft.Status)
	s.Contains(draft.ErrorMessage, "timeout")

	s.provider.emitErr = nil
	doc, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)
	s.Equal(draft.ID, doc.ID)
	s.Equal(draft.Number, doc.Number)
	s.Equal(fiscal.StatusProcessing, doc.Status)
}

func (s *DocumentServiceSuite) TestUnwrappedProviderErrorIsClassified() {
	s.provider.emitErr = errors.New("connection reset")

	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.ErrorIs(err, apperror.ErrProvider)
}

func (s *DocumentServiceSuite) TestGenerateTwiceIsRefused() {
	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	_, err = s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.ErrorIs(err, apperror.ErrInvalidStateTransition)
}

func (s *DocumentServiceSuite) TestConcurrentGenerateIssuesOneDocument() {
	docs := &lockstepDocuments{FiscalDocumentRepository: s.docs}
	docs.arrived.Add(2)
	service := fiscal.NewDocumentService(docs, s.configs, s.invoices, s.provider, nil, logger.NewNopLogger())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.GenerateFromInvoice(s.ctx, "inv-1")
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperror.ErrConcurrentModification):
			conflicts++
		}
	}
	s.Equal(1, wins)
	s.Equal(1, conflicts)
	s.Len(s.provider.emitted, 1)

	stored, err := s.docs.List(s.ctx, fiscal.DocumentFilter{})
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal(fiscal.StatusProcessing, stored[0].Status)
}

func (s *DocumentServiceSuite) TestRejectedDocumentIsReplaced() {
	first, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	s.provider.status = fiscal.ProviderStatus{Status: "rejeitado", Message: "Rejeição 539: duplicidade"}
	rejected, err := s.service.RefreshStatus(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(fiscal.StatusRejected, rejected.Status)
	s.Equal("Rejeição 539: duplicidade", rejected.ErrorMessage)

	second, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)
	s.NotEqual(first.ID, second.ID)
	s.Equal(first.Number+1, second.Number)
}

func (s *DocumentServiceSuite) TestRefreshAuthorizesAndCancel() {
	doc, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	s.provider.status = fiscal.ProviderStatus{
		Status: "autorizado", Protocol: "342260000012345", XML: "<nfeProc/>",
		PDFURL: "https://nfe.example/danfe.pdf", XMLURL: "https://nfe.example/nfe.xml",
	}
	authorized, err := s.service.RefreshStatus(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(fiscal.StatusAuthorized, authorized.Status)
	s.Equal("342260000012345", authorized.Protocol)
	s.Equal("<nfeProc/>", authorized.Content)

	again, err := s.service.RefreshStatus(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(fiscal.StatusAuthorized, again.Status)

	cancelled, err := s.service.Cancel(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(fiscal.StatusCancelled, cancelled.Status)

	_, err = s.service.Cancel(s.ctx, doc.ID)
	s.ErrorIs(err, apperror.ErrInvalidStateTransition)
}

func (s *DocumentServiceSuite) TestCancelDraftFails() {
	s.provider.emitErr = errors.New("offline")
	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().Error(err)

	draft, err := s.service.GetByInvoiceID(s.ctx, "inv-1")
	s.Require().NoError(err)

	_, err = s.service.Cancel(s.ctx, draft.ID)
	s.ErrorIs(err, apperror.ErrInvalidStateTransition)
}

func (s *DocumentServiceSuite) TestSyncPending() {
	doc, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	res, err := s.service.SyncPending(context.Background())
	s.Require().NoError(err)
	s.Equal(fiscal.SyncResult{Checked: 1}, *res)

	s.provider.status = fiscal.ProviderStatus{Status: "erro", Message: "schema inválido"}
	res, err = s.service.SyncPending(context.Background())
	s.Require().NoError(err)
	s.Equal(fiscal.SyncResult{Checked: 1, Updated: 1}, *res)

	stored, err := s.service.GetByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(fiscal.StatusError, stored.Status)

	res, err = s.service.SyncPending(context.Background())
	s.Require().NoError(err)
	s.Equal(0, res.Checked)
}

func (s *DocumentServiceSuite) TestSyncPendingCountsFailures() {
	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	s.provider.queryErr = errors.New("503")
	res, err := s.service.SyncPending(context.Background())
	s.Require().NoError(err)
	s.Equal(fiscal.SyncResult{Checked: 1, Failed: 1}, *res)
}

func (s *DocumentServiceSuite) TestMissingDataIsReported() {
	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-x")
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.service.GenerateFromInvoice(s.ctx, "inv-2")
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.service.GetByID(s.ctx, "doc-x")
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.service.GenerateFromInvoice(s.ctx, "")
	s.ErrorIs(err, apperror.ErrValidation)
}

func (s *DocumentServiceSuite) TestGetAllFiltersByStatus() {
	_, err := s.service.GenerateFromInvoice(s.ctx, "inv-1")
	s.Require().NoError(err)

	docs, err := s.service.GetAll(s.ctx, fiscal.DocumentFilter{Status: fiscal.StatusProcessing})
	s.Require().NoError(err)
	s.Len(docs, 1)

	docs, err = s.service.GetAll(s.ctx, fiscal.DocumentFilter{Status: fiscal.StatusAuthorized})
	s.Require().NoError(err)
	s.Empty(docs)
}

func TestDocumentServiceSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceSuite))
}
