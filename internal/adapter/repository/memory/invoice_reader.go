package memory

import (
	"context"
	"sync"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
)

// InvoiceReader implementa fiscal.InvoiceReader em memória
type InvoiceReader struct {
	mu       sync.RWMutex
	invoices map[string]fiscal.Invoice
	partners map[string]fiscal.BusinessPartner
}

var _ fiscal.InvoiceReader = (*InvoiceReader)(nil)

// NewInvoiceReader cria um novo leitor de faturas em memória
func NewInvoiceReader() *InvoiceReader {
	return &InvoiceReader{
		invoices: make(map[string]fiscal.Invoice),
		partners: make(map[string]fiscal.BusinessPartner),
	}
}

// AddInvoice carrega uma fatura
func (r *InvoiceReader) AddInvoice(invoice fiscal.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = invoice
}

// AddBusinessPartner carrega um parceiro
func (r *InvoiceReader) AddBusinessPartner(partner fiscal.BusinessPartner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partners[partner.ID] = partner
}

// FindInvoice busca a fatura pelo ID
func (r *InvoiceReader) FindInvoice(ctx context.Context, invoiceID string) (*fiscal.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invoices[invoiceID]
	if !ok || !visible(ctx, inv.TenantID) {
		return nil, apperror.NotFound("fatura", invoiceID)
	}
	return &inv, nil
}

// FindBusinessPartner busca o destinatário da fatura
func (r *InvoiceReader) FindBusinessPartner(ctx context.Context, partnerID string) (*fiscal.BusinessPartner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.partners[partnerID]
	if !ok {
		return nil, apperror.NotFound("parceiro", partnerID)
	}
	return &p, nil
}
