package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/infrastructure/database"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalDocumentColumns = `
	id, tenant_id, invoice_id, branch_id, number, series, access_key, status, issued_at,
	content, provider_reference, protocol, pdf_url, xml_url, error_message, version,
	created_at, updated_at`

// liveInvoiceDocumentIndex garante um único documento não rejeitado por fatura
const liveInvoiceDocumentIndex = "uq_fiscal_documents_live_invoice"

// FiscalDocumentRepository implementa a interface fiscal.DocumentRepository
type FiscalDocumentRepository struct {
	db *pgxpool.Pool
}

// NewFiscalDocumentRepository cria uma nova instância de FiscalDocumentRepository
func NewFiscalDocumentRepository(db *pgxpool.Pool) fiscal.DocumentRepository {
	return &FiscalDocumentRepository{db: db}
}

// Create implementa o método Create da interface fiscal.DocumentRepository
func (r *FiscalDocumentRepository) Create(ctx context.Context, doc *fiscal.Document) error {
	query := `
		INSERT INTO fiscal_documents (` + fiscalDocumentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.TenantID, doc.InvoiceID, doc.BranchID, doc.Number, doc.Series, doc.AccessKey,
		string(doc.Status), doc.IssuedAt, doc.Content, doc.ProviderReference, doc.Protocol,
		doc.PDFURL, doc.XMLURL, doc.ErrorMessage, doc.Version, doc.CreatedAt, doc.UpdatedAt)
	if database.IsUniqueViolationOn(err, liveInvoiceDocumentIndex) {
		return fmt.Errorf("%w: fatura %s já possui documento fiscal ativo",
			apperror.ErrConcurrentModification, doc.InvoiceID)
	}
	if err != nil {
		return fmt.Errorf("falha ao inserir documento fiscal: %w", err)
	}
	return nil
}

// FindByID implementa o método FindByID da interface fiscal.DocumentRepository
func (r *FiscalDocumentRepository) FindByID(ctx context.Context, id string) (*fiscal.Document, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{id})
	query := `SELECT ` + fiscalDocumentColumns + ` FROM fiscal_documents WHERE id = $1` + filter

	doc, err := scanFiscalDocument(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "documento fiscal", id)
	}
	return doc, nil
}

// FindByInvoiceID implementa o método FindByInvoiceID da interface fiscal.DocumentRepository
func (r *FiscalDocumentRepository) FindByInvoiceID(ctx context.Context, invoiceID string) (*fiscal.Document, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{invoiceID})
	query := `
		SELECT ` + fiscalDocumentColumns + `
		FROM fiscal_documents
		WHERE invoice_id = $1` + filter + `
		ORDER BY created_at DESC, number DESC
		LIMIT 1`

	doc, err := scanFiscalDocument(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "documento fiscal da fatura", invoiceID)
	}
	return doc, nil
}

// List implementa o método List da interface fiscal.DocumentRepository
func (r *FiscalDocumentRepository) List(ctx context.Context, filter fiscal.DocumentFilter) ([]*fiscal.Document, error) {
	var args []interface{}
	where := "WHERE true"
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	scope, args := tenantScope(ctx, "tenant_id", args)
	where += scope

	query := `SELECT ` + fiscalDocumentColumns + ` FROM fiscal_documents ` + where + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar documentos fiscais: %w", err)
	}
	defer rows.Close()

	docs := make([]*fiscal.Document, 0)
	for rows.Next() {
		doc, err := scanFiscalDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler documento fiscal: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar documentos fiscais: %w", err)
	}
	return docs, nil
}

// Update grava a transição apenas se a versão persistida for doc.Version.
// Zero linhas afetadas significa conflito (ou documento inexistente).
func (r *FiscalDocumentRepository) Update(ctx context.Context, doc *fiscal.Document) error {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{
		doc.ID, doc.Version, string(doc.Status), doc.Content, doc.ProviderReference,
		doc.Protocol, doc.PDFURL, doc.XMLURL, doc.ErrorMessage, doc.UpdatedAt,
	})
	query := `
		UPDATE fiscal_documents SET
			status = $3, content = $4, provider_reference = $5, protocol = $6,
			pdf_url = $7, xml_url = $8, error_message = $9, updated_at = $10,
			version = version + 1
		WHERE id = $1 AND version = $2` + filter

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar documento fiscal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindByID(ctx, doc.ID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: documento %s não está mais na versão %d",
			apperror.ErrConcurrentModification, doc.ID, doc.Version)
	}

	doc.Version++
	return nil
}

func scanFiscalDocument(row pgx.Row) (*fiscal.Document, error) {
	var (
		doc    fiscal.Document
		status string
	)
	err := row.Scan(
		&doc.ID, &doc.TenantID, &doc.InvoiceID, &doc.BranchID, &doc.Number, &doc.Series,
		&doc.AccessKey, &status, &doc.IssuedAt, &doc.Content, &doc.ProviderReference,
		&doc.Protocol, &doc.PDFURL, &doc.XMLURL, &doc.ErrorMessage, &doc.Version,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if doc.Status, err = fiscal.ParseDocumentStatus(status); err != nil {
		return nil, err
	}
	return &doc, nil
}
