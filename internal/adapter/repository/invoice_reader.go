package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceReader implementa fiscal.InvoiceReader sobre as tabelas do faturamento
type InvoiceReader struct {
	db *pgxpool.Pool
}

// NewInvoiceReader cria uma nova instância de InvoiceReader
func NewInvoiceReader(db *pgxpool.Pool) fiscal.InvoiceReader {
	return &InvoiceReader{db: db}
}

// FindInvoice busca a fatura e seus itens
func (r *InvoiceReader) FindInvoice(ctx context.Context, invoiceID string) (*fiscal.Invoice, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{invoiceID})
	query := `
		SELECT id, tenant_id, branch_id, partner_id, number, issue_date, total_amount, tax_amount
		FROM invoices
		WHERE id = $1` + filter

	var inv fiscal.Invoice
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&inv.ID, &inv.TenantID, &inv.BranchID, &inv.PartnerID, &inv.Number,
		&inv.IssueDate, &inv.TotalAmount, &inv.TaxAmount,
	)
	if err != nil {
		return nil, notFound(err, "fatura", invoiceID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT material_code, description, ncm, cfop, quantity, unit_price, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_number`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar itens da fatura: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item fiscal.InvoiceItem
		if err := rows.Scan(&item.MaterialCode, &item.Description, &item.NCM, &item.CFOP,
			&item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("falha ao ler item da fatura: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar itens da fatura: %w", err)
	}
	return &inv, nil
}

// FindBusinessPartner busca o destinatário da fatura
func (r *InvoiceReader) FindBusinessPartner(ctx context.Context, partnerID string) (*fiscal.BusinessPartner, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{partnerID})
	query := `SELECT id, name, document, state, COALESCE(email, '') FROM business_partners WHERE id = $1` + filter

	var p fiscal.BusinessPartner
	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Document, &p.State, &p.Email); err != nil {
		return nil, notFound(err, "parceiro", partnerID)
	}
	return &p, nil
}
