package fiscal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
)

// DocumentStatus é o status do ciclo de vida de um documento fiscal
type DocumentStatus string

const (
	StatusDraft      DocumentStatus = "draft"
	StatusProcessing DocumentStatus = "processing"
	StatusAuthorized DocumentStatus = "authorized"
	StatusRejected   DocumentStatus = "rejected"
	StatusError      DocumentStatus = "error"
	StatusCancelled  DocumentStatus = "cancelled"
)

// ParseDocumentStatus converte o texto recebido na borda da API em DocumentStatus
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch st := DocumentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusDraft, StatusProcessing, StatusAuthorized, StatusRejected, StatusError, StatusCancelled:
		return st, nil
	default:
		return "", apperror.Validation("status de documento %q inválido", s)
	}
}

// IsOpen informa se o documento ainda pode transitar para error
func (s DocumentStatus) IsOpen() bool {
	return s == StatusDraft || s == StatusProcessing
}

// IsFailed informa se a emissão terminou sem autorização
func (s DocumentStatus) IsFailed() bool {
	return s == StatusRejected || s == StatusError
}

// Document é o documento fiscal (NFe) emitido para uma fatura.
// O status só muda pelos métodos de transição abaixo.
type Document struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	InvoiceID string `json:"invoice_id"`
	BranchID  string `json:"branch_id"`

	Number    int            `json:"number"`
	Series    string         `json:"series"`
	AccessKey string         `json:"access_key"`
	Status    DocumentStatus `json:"status"`
	IssuedAt  time.Time      `json:"issued_at"`

	// XML autorizado; vazio até a autorização
	Content string `json:"content,omitempty"`

	ProviderReference string `json:"provider_reference,omitempty"`
	Protocol          string `json:"protocol,omitempty"`
	PDFURL            string `json:"pdf_url,omitempty"`
	XMLURL            string `json:"xml_url,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`

	// Version é o token de concorrência otimista
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocument cria um documento em draft com número, série e chave já definidos
func NewDocument(tenantID, invoiceID, branchID string, number int, series, accessKey string, issuedAt time.Time) (*Document, error) {
	if invoiceID == "" {
		return nil, apperror.Validation("fatura é obrigatória")
	}
	if number <= 0 {
		return nil, apperror.Validation("número do documento deve ser maior que zero")
	}
	if series == "" {
		return nil, apperror.Validation("série é obrigatória")
	}
	if !ValidateAccessKey(accessKey) {
		return nil, apperror.Validation("chave de acesso %q inválida", accessKey)
	}

	return &Document{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		BranchID:  branchID,
		Number:    number,
		Series:    series,
		AccessKey: accessKey,
		Status:    StatusDraft,
		IssuedAt:  issuedAt,
		Version:   1,
		CreatedAt: issuedAt,
		UpdatedAt: issuedAt,
	}, nil
}

// SetProviderReference associa o ID de correlação do provedor: draft → processing
func (d *Document) SetProviderReference(reference string, now time.Time) error {
	if err := d.require("enviar ao provedor", StatusDraft); err != nil {
		return err
	}
	if strings.TrimSpace(reference) == "" {
		return apperror.Validation("referência do provedor é obrigatória")
	}
	d.ProviderReference = reference
	d.Status = StatusProcessing
	d.UpdatedAt = now
	return nil
}

// RecordEmissionFailure registra a falha de envio mantendo o documento em draft,
// para que uma nova tentativa possa chamar SetProviderReference
func (d *Document) RecordEmissionFailure(message string, now time.Time) error {
	if err := d.require("registrar falha de envio", StatusDraft); err != nil {
		return err
	}
	d.ErrorMessage = message
	d.UpdatedAt = now
	return nil
}

// Authorize registra a autorização: processing → authorized. Limpa a mensagem de erro.
func (d *Document) Authorize(protocol, content, pdfURL, xmlURL string, now time.Time) error {
	if err := d.require("autorizar", StatusProcessing); err != nil {
		return err
	}
	d.Protocol = protocol
	d.Content = content
	d.PDFURL = pdfURL
	d.XMLURL = xmlURL
	d.ErrorMessage = ""
	d.Status = StatusAuthorized
	d.UpdatedAt = now
	return nil
}

// Reject registra a rejeição pela autoridade: processing → rejected
func (d *Document) Reject(message string, now time.Time) error {
	if err := d.require("rejeitar", StatusProcessing); err != nil {
		return err
	}
	d.ErrorMessage = message
	d.Status = StatusRejected
	d.UpdatedAt = now
	return nil
}

// Fail registra uma falha inesperada: draft|processing → error
func (d *Document) Fail(message string, now time.Time) error {
	if err := d.require("marcar erro", StatusDraft, StatusProcessing); err != nil {
		return err
	}
	d.ErrorMessage = message
	d.Status = StatusError
	d.UpdatedAt = now
	return nil
}

// Cancel cancela um documento autorizado: authorized → cancelled
func (d *Document) Cancel(now time.Time) error {
	if err := d.require("cancelar", StatusAuthorized); err != nil {
		return err
	}
	d.Status = StatusCancelled
	d.UpdatedAt = now
	return nil
}

func (d *Document) require(action string, allowed ...DocumentStatus) error {
	for _, s := range allowed {
		if d.Status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: não é possível %s documento %s em status %s",
		apperror.ErrInvalidStateTransition, action, d.ID, d.Status)
}
