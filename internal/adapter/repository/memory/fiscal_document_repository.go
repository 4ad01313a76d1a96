package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
)

// FiscalDocumentRepository implementa fiscal.DocumentRepository em memória,
// com o mesmo controle otimista de versão do repositório PostgreSQL
type FiscalDocumentRepository struct {
	mu   sync.Mutex
	docs map[string]fiscal.Document
}

var _ fiscal.DocumentRepository = (*FiscalDocumentRepository)(nil)

// NewFiscalDocumentRepository cria um novo repositório de documentos em memória
func NewFiscalDocumentRepository() *FiscalDocumentRepository {
	return &FiscalDocumentRepository{docs: make(map[string]fiscal.Document)}
}

// Create grava um novo documento. Uma fatura tem no máximo um documento
// fora dos status rejected e error, como o índice único do PostgreSQL.
func (r *FiscalDocumentRepository) Create(ctx context.Context, doc *fiscal.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; ok {
		return apperror.Validation("documento %s já existe", doc.ID)
	}
	for _, d := range r.docs {
		if d.TenantID == doc.TenantID && d.InvoiceID == doc.InvoiceID && !d.Status.IsFailed() {
			return fmt.Errorf("%w: fatura %s já possui o documento %s em status %s",
				apperror.ErrConcurrentModification, doc.InvoiceID, d.ID, d.Status)
		}
	}
	r.docs[doc.ID] = *doc
	return nil
}

// FindByID busca um documento pelo ID
func (r *FiscalDocumentRepository) FindByID(ctx context.Context, id string) (*fiscal.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[id]
	if !ok || !visible(ctx, d.TenantID) {
		return nil, apperror.NotFound("documento fiscal", id)
	}
	return &d, nil
}

// FindByInvoiceID busca o documento mais recente de uma fatura
func (r *FiscalDocumentRepository) FindByInvoiceID(ctx context.Context, invoiceID string) (*fiscal.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *fiscal.Document
	for _, d := range r.docs {
		if d.InvoiceID != invoiceID || !visible(ctx, d.TenantID) {
			continue
		}
		if latest == nil || d.CreatedAt.After(latest.CreatedAt) ||
			(d.CreatedAt.Equal(latest.CreatedAt) && d.Number > latest.Number) {
			d := d
			latest = &d
		}
	}
	if latest == nil {
		return nil, apperror.NotFound("documento fiscal da fatura", invoiceID)
	}
	return latest, nil
}

// List lista documentos do mais recente para o mais antigo
func (r *FiscalDocumentRepository) List(ctx context.Context, filter fiscal.DocumentFilter) ([]*fiscal.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]*fiscal.Document, 0)
	for _, d := range r.docs {
		if !visible(ctx, d.TenantID) || (filter.Status != "" && d.Status != filter.Status) {
			continue
		}
		d := d
		docs = append(docs, &d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(docs) {
			return []*fiscal.Document{}, nil
		}
		docs = docs[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(docs) {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

// Update grava o documento se a versão persistida for igual a doc.Version
func (r *FiscalDocumentRepository) Update(ctx context.Context, doc *fiscal.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.docs[doc.ID]
	if !ok || !visible(ctx, current.TenantID) {
		return apperror.NotFound("documento fiscal", doc.ID)
	}
	if current.Version != doc.Version {
		return fmt.Errorf("%w: documento %s na versão %d, esperada %d",
			apperror.ErrConcurrentModification, doc.ID, current.Version, doc.Version)
	}

	doc.Version++
	r.docs[doc.ID] = *doc
	return nil
}
