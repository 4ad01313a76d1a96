package fiscal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/events"
	"github.com/hugohenrick/erp-industria/pkg/logger"
)

// TopicDocumentStatusChanged é publicado a cada transição persistida
const TopicDocumentStatusChanged events.Topic = "fiscal.document.status_changed"

// SyncResult resume uma rodada de consulta dos documentos em processamento
type SyncResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// DocumentService orquestra a emissão de documentos fiscais a partir das faturas.
// O status só muda pelos métodos de Document; a E/S fica com o Provider.
type DocumentService struct {
	documents DocumentRepository
	configs   Repository
	invoices  InvoiceReader
	provider  Provider
	bus       *events.Bus
	logger    logger.Logger
	now       func() time.Time
}

// NewDocumentService cria uma nova instância de DocumentService
func NewDocumentService(
	documents DocumentRepository,
	configs Repository,
	invoices InvoiceReader,
	provider Provider,
	bus *events.Bus,
	logger logger.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		configs:   configs,
		invoices:  invoices,
		provider:  provider,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock substitui o relógio usado nas transições
func (s *DocumentService) WithClock(now func() time.Time) *DocumentService {
	s.now = now
	return s
}

// GenerateFromInvoice gera e envia o documento fiscal da fatura.
//
// Se a fatura já tem um documento em draft (envio anterior falhou), o envio é
// repetido no mesmo documento. Documentos rejected ou error são substituídos
// por um novo, com nova numeração. Nos demais status a operação é recusada.
func (s *DocumentService) GenerateFromInvoice(ctx context.Context, invoiceID string) (*Document, error) {
	if invoiceID == "" {
		return nil, apperror.Validation("fatura é obrigatória")
	}

	invoice, err := s.invoices.FindInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	partner, err := s.invoices.FindBusinessPartner(ctx, invoice.PartnerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.documents.FindByInvoiceID(ctx, invoiceID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		switch {
		case existing.Status == StatusDraft:
			s.logger.Info("reenviando documento fiscal em draft", "document_id", existing.ID, "invoice_id", invoiceID)
			return s.emit(ctx, existing, invoice, partner)
		case existing.Status.IsFailed():
			s.logger.Info("substituindo documento fiscal sem autorização",
				"document_id", existing.ID, "status", string(existing.Status), "invoice_id", invoiceID)
		default:
			return nil, fmt.Errorf("%w: fatura %s já possui documento %s em status %s",
				apperror.ErrInvalidStateTransition, invoiceID, existing.ID, existing.Status)
		}
	}

	doc, err := s.newDocument(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if errors.Is(err, apperror.ErrConcurrentModification) {
			s.logger.Warn("documento fiscal gerado em paralelo para a fatura", "invoice_id", invoiceID, "number", doc.Number)
		} else {
			s.logger.Error("erro ao salvar documento fiscal", "invoice_id", invoiceID, "error", err.Error())
		}
		return nil, err
	}
	s.publish(ctx, doc, "")

	return s.emit(ctx, doc, invoice, partner)
}

// newDocument reserva o número na configuração da filial e monta a chave de acesso
func (s *DocumentService) newDocument(ctx context.Context, invoice *Invoice) (*Document, error) {
	config, err := s.configs.FindByBranch(ctx, invoice.BranchID)
	if err != nil {
		return nil, err
	}
	number, err := s.configs.GetAndIncrementNFeNumber(ctx, invoice.BranchID)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now()
	key, err := BuildAccessKey(AccessKeyParams{
		State:        config.EmitterState,
		IssuedAt:     issuedAt,
		Document:     config.EmitterDocument,
		Series:       config.NFeSeries,
		Number:       number,
		EmissionType: config.EmissionType(),
		RandomCode:   RandomCode(),
	})
	if err != nil {
		return nil, apperror.Validation("configuração fiscal da filial %s: %s", invoice.BranchID, err.Error())
	}

	return NewDocument(invoice.TenantID, invoice.ID, invoice.BranchID, number, config.NFeSeries, key, issuedAt)
}

// emit envia o documento ao provedor. Em caso de falha o documento permanece em draft.
func (s *DocumentService) emit(ctx context.Context, doc *Document, invoice *Invoice, partner *BusinessPartner) (*Document, error) {
	reference, err := s.provider.EmitDocument(ctx, doc, invoice, partner)
	if err != nil {
		s.logger.Error("falha ao enviar documento ao provedor", "document_id", doc.ID, "error", err.Error())
		if recErr := doc.RecordEmissionFailure(err.Error(), s.now()); recErr == nil {
			if upErr := s.documents.Update(ctx, doc); upErr != nil {
				s.logger.Error("erro ao registrar falha de envio", "document_id", doc.ID, "error", upErr.Error())
			}
		}
		if !errors.Is(err, apperror.ErrProvider) {
			err = fmt.Errorf("%w: %w", apperror.ErrProvider, err)
		}
		return nil, err
	}

	from := doc.Status
	if err := doc.SetProviderReference(reference, s.now()); err != nil {
		return nil, err
	}
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.publish(ctx, doc, from)

	s.logger.Info("documento fiscal enviado", "document_id", doc.ID, "reference", reference)
	return doc, nil
}

// GetByID busca um documento pelo ID
func (s *DocumentService) GetByID(ctx context.Context, id string) (*Document, error) {
	return s.documents.FindByID(ctx, id)
}

// GetByInvoiceID busca o documento mais recente da fatura
func (s *DocumentService) GetByInvoiceID(ctx context.Context, invoiceID string) (*Document, error) {
	return s.documents.FindByInvoiceID(ctx, invoiceID)
}

// GetAll lista os documentos conforme o filtro
func (s *DocumentService) GetAll(ctx context.Context, filter DocumentFilter) ([]*Document, error) {
	return s.documents.List(ctx, filter)
}

// Cancel cancela um documento autorizado
func (s *DocumentService) Cancel(ctx context.Context, id string) (*Document, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := doc.Status
	if err := doc.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	s.publish(ctx, doc, from)

	s.logger.Info("documento fiscal cancelado", "document_id", doc.ID)
	return doc, nil
}

// RefreshStatus consulta o provedor e aplica o resultado a um documento em processing.
// Documentos em outros status são devolvidos sem consulta.
func (s *DocumentService) RefreshStatus(ctx context.Context, id string) (*Document, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.refresh(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) refresh(ctx context.Context, doc *Document) (bool, error) {
	if doc.Status != StatusProcessing {
		return false, nil
	}

	status, err := s.provider.QueryStatus(ctx, doc.ProviderReference)
	if err != nil {
		if !errors.Is(err, apperror.ErrProvider) {
			err = fmt.Errorf("%w: %w", apperror.ErrProvider, err)
		}
		return false, err
	}

	from := doc.Status
	changed, err := ApplyProviderStatus(doc, status, s.now())
	if err != nil || !changed {
		return false, err
	}
	if err := s.documents.Update(ctx, doc); err != nil {
		return false, err
	}
	s.publish(ctx, doc, from)
	return true, nil
}

// SyncPending consulta todos os documentos em processing.
// Falhas individuais são registradas e não interrompem a rodada.
func (s *DocumentService) SyncPending(ctx context.Context) (*SyncResult, error) {
	docs, err := s.documents.List(ctx, DocumentFilter{Status: StatusProcessing})
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, doc := range docs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Checked++
		changed, err := s.refresh(ctx, doc)
		if err != nil {
			result.Failed++
			s.logger.Warn("falha ao consultar documento fiscal", "document_id", doc.ID, "error", err.Error())
			continue
		}
		if changed {
			result.Updated++
		}
	}

	if result.Checked > 0 {
		s.logger.Info("sincronização de documentos fiscais concluída",
			"checked", result.Checked, "updated", result.Updated, "failed", result.Failed)
	}
	return result, nil
}

func (s *DocumentService) publish(ctx context.Context, doc *Document, from DocumentStatus) {
	s.bus.Publish(ctx, events.Event{
		Topic:      TopicDocumentStatusChanged,
		TenantID:   doc.TenantID,
		EntityID:   doc.ID,
		OccurredAt: doc.UpdatedAt,
		Payload: map[string]string{
			"invoice_id": doc.InvoiceID,
			"from":       string(from),
			"to":         string(doc.Status),
		},
	})
}
