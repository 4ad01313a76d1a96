package fiscal

import (
	"context"
)

// Repository define a interface para operações de repositório de configurações fiscais
type Repository interface {
	// Create cria uma nova configuração fiscal
	Create(ctx context.Context, config *Configuration) error

	// FindByID busca uma configuração pelo ID
	FindByID(ctx context.Context, id string) (*Configuration, error)

	// FindByBranch busca a configuração fiscal de uma filial
	FindByBranch(ctx context.Context, branchID string) (*Configuration, error)

	// Update atualiza os dados de uma configuração existente
	Update(ctx context.Context, config *Configuration) error

	// GetAndIncrementNFeNumber obtém e incrementa o próximo número de NFe de forma atômica
	GetAndIncrementNFeNumber(ctx context.Context, branchID string) (int, error)
}

// DocumentFilter restringe a listagem de documentos fiscais
type DocumentFilter struct {
	Status DocumentStatus
	Limit  int
	Offset int
}

// DocumentRepository define a persistência dos documentos fiscais.
// Update deve aplicar controle otimista: grava apenas se a versão persistida
// for igual a doc.Version e, em caso de sucesso, incrementa doc.Version.
type DocumentRepository interface {
	// Create grava um novo documento
	Create(ctx context.Context, doc *Document) error

	// FindByID busca um documento pelo ID
	FindByID(ctx context.Context, id string) (*Document, error)

	// FindByInvoiceID busca o documento mais recente de uma fatura
	FindByInvoiceID(ctx context.Context, invoiceID string) (*Document, error)

	// List lista documentos conforme o filtro
	List(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// Update grava a transição de status com verificação de versão
	Update(ctx context.Context, doc *Document) error
}

// InvoiceReader lê faturas e parceiros, que pertencem a outro contexto
type InvoiceReader interface {
	// FindInvoice busca a fatura pelo ID
	FindInvoice(ctx context.Context, invoiceID string) (*Invoice, error)

	// FindBusinessPartner busca o destinatário da fatura
	FindBusinessPartner(ctx context.Context, partnerID string) (*BusinessPartner, error)
}
