package dto

import (
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/samber/lo"
)

// FiscalConfigRequest representa os dados para criar/atualizar uma configuração fiscal
type FiscalConfigRequest struct {
	BranchID string `json:"branch_id" binding:"required"`

	// Emitente
	EmitterDocument string `json:"emitter_document" binding:"required"`
	EmitterState    string `json:"emitter_state" binding:"required"`

	// Configurações NFe
	NFeSeries      string `json:"nfe_series" binding:"required"`
	NFeNextNumber  int    `json:"nfe_next_number" binding:"required,min=1"`
	NFeEnvironment string `json:"nfe_environment" binding:"required"`

	ContingencyEnabled bool `json:"contingency_enabled"`
}

// FiscalConfigResponse representa a resposta com dados de uma configuração fiscal
type FiscalConfigResponse struct {
	ID       string `json:"id"`
	BranchID string `json:"branch_id"`

	EmitterDocument string `json:"emitter_document"`
	EmitterState    string `json:"emitter_state"`

	// Configurações NFe
	NFeSeries      string                   `json:"nfe_series"`
	NFeNextNumber  int                      `json:"nfe_next_number"`
	NFeEnvironment fiscal.FiscalEnvironment `json:"nfe_environment"`

	ContingencyEnabled bool `json:"contingency_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFiscalConfigResponse cria um novo FiscalConfigResponse a partir de uma configuração fiscal
func NewFiscalConfigResponse(config *fiscal.Configuration) *FiscalConfigResponse {
	return &FiscalConfigResponse{
		ID:       config.ID,
		BranchID: config.BranchID,

		EmitterDocument: config.EmitterDocument,
		EmitterState:    config.EmitterState,

		NFeSeries:      config.NFeSeries,
		NFeNextNumber:  config.NFeNextNumber,
		NFeEnvironment: config.NFeEnvironment,

		ContingencyEnabled: config.ContingencyEnabled,

		CreatedAt: config.CreatedAt,
		UpdatedAt: config.UpdatedAt,
	}
}

// GenerateDocumentRequest representa o pedido de emissão a partir de uma fatura
type GenerateDocumentRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
}

// FiscalDocumentResponse representa a resposta com dados de um documento fiscal
type FiscalDocumentResponse struct {
	ID                string    `json:"id"`
	InvoiceID         string    `json:"invoice_id"`
	BranchID          string    `json:"branch_id"`
	Number            int       `json:"number"`
	Series            string    `json:"series"`
	AccessKey         string    `json:"access_key"`
	Status            string    `json:"status"`
	IssuedAt          time.Time `json:"issued_at"`
	ProviderReference string    `json:"provider_reference,omitempty"`
	Protocol          string    `json:"protocol,omitempty"`
	PDFURL            string    `json:"pdf_url,omitempty"`
	XMLURL            string    `json:"xml_url,omitempty"`
	ErrorMessage      string    `json:"error_message,omitempty"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FiscalDocumentListResponse representa uma página de documentos fiscais
type FiscalDocumentListResponse struct {
	Documents []FiscalDocumentResponse `json:"documents"`
	Page      int                      `json:"page"`
	PageSize  int                      `json:"page_size"`
}

// SyncResponse resume uma sincronização com o provedor
type SyncResponse struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// NewFiscalDocumentResponse cria a resposta a partir de um documento fiscal
func NewFiscalDocumentResponse(doc *fiscal.Document) FiscalDocumentResponse {
	return FiscalDocumentResponse{
		ID:                doc.ID,
		InvoiceID:         doc.InvoiceID,
		BranchID:          doc.BranchID,
		Number:            doc.Number,
		Series:            doc.Series,
		AccessKey:         doc.AccessKey,
		Status:            string(doc.Status),
		IssuedAt:          doc.IssuedAt,
		ProviderReference: doc.ProviderReference,
		Protocol:          doc.Protocol,
		PDFURL:            doc.PDFURL,
		XMLURL:            doc.XMLURL,
		ErrorMessage:      doc.ErrorMessage,
		Version:           doc.Version,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

// NewFiscalDocumentListResponse cria a resposta de listagem
func NewFiscalDocumentListResponse(docs []*fiscal.Document, p Pagination) FiscalDocumentListResponse {
	return FiscalDocumentListResponse{
		Documents: lo.Map(docs, func(d *fiscal.Document, _ int) FiscalDocumentResponse {
			return NewFiscalDocumentResponse(d)
		}),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// NewSyncResponse cria a resposta da sincronização
func NewSyncResponse(r *fiscal.SyncResult) SyncResponse {
	return SyncResponse{Checked: r.Checked, Updated: r.Updated, Failed: r.Failed}
}
