package fiscal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice é a fatura que origina o documento fiscal. É somente leitura aqui.
type Invoice struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	BranchID    string          `json:"branch_id"`
	PartnerID   string          `json:"partner_id"`
	Number      string          `json:"number"`
	IssueDate   time.Time       `json:"issue_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Items       []InvoiceItem   `json:"items"`
}

// InvoiceItem é um item da fatura já tributado
type InvoiceItem struct {
	MaterialCode string          `json:"material_code"`
	Description  string          `json:"description"`
	NCM          string          `json:"ncm"`
	CFOP         string          `json:"cfop"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
}

// BusinessPartner é o destinatário da fatura
type BusinessPartner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	State    string `json:"state"`
	Email    string `json:"email"`
}
