package fiscal

import (
	"context"
	"strings"
	"time"
)

// Provider é o emissor externo integrado à SEFAZ.
// Falhas de transporte ou autenticação devem embrulhar apperror.ErrProvider.
type Provider interface {
	// EmitDocument envia o documento e retorna o ID de correlação do provedor
	EmitDocument(ctx context.Context, doc *Document, invoice *Invoice, partner *BusinessPartner) (string, error)

	// QueryStatus consulta a situação do documento no provedor
	QueryStatus(ctx context.Context, reference string) (*ProviderStatus, error)
}

// ProviderStatus é a resposta bruta do provedor a uma consulta
type ProviderStatus struct {
	Status   string `json:"status"`
	Protocol string `json:"protocol,omitempty"`
	XML      string `json:"xml,omitempty"`
	XMLURL   string `json:"xml_url,omitempty"`
	PDFURL   string `json:"pdf_url,omitempty"`
	Message  string `json:"message,omitempty"`
}

// providerStatuses mapeia os textos conhecidos dos provedores para o status interno
var providerStatuses = map[string]DocumentStatus{
	"processing":   StatusProcessing,
	"processando":  StatusProcessing,
	"pending":      StatusProcessing,
	"pendente":     StatusProcessing,
	"em_andamento": StatusProcessing,
	"authorized":   StatusAuthorized,
	"autorizado":   StatusAuthorized,
	"autorizada":   StatusAuthorized,
	"aprovado":     StatusAuthorized,
	"rejected":     StatusRejected,
	"rejeitado":    StatusRejected,
	"rejeitada":    StatusRejected,
	"denegado":     StatusRejected,
	"denegada":     StatusRejected,
	"error":        StatusError,
	"erro":         StatusError,
	"falha":        StatusError,
}

// MapProviderStatus converte o status do provedor.
// Textos desconhecidos são tratados como processing, nunca como authorized.
func MapProviderStatus(status string) DocumentStatus {
	if st, ok := providerStatuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return st
	}
	return StatusProcessing
}

// ApplyProviderStatus aplica a resposta do provedor a um documento em processing.
// Retorna true quando houve mudança de status.
func ApplyProviderStatus(d *Document, ps *ProviderStatus, now time.Time) (bool, error) {
	if ps == nil {
		return false, nil
	}
	switch MapProviderStatus(ps.Status) {
	case StatusAuthorized:
		return true, d.Authorize(ps.Protocol, ps.XML, ps.PDFURL, ps.XMLURL, now)
	case StatusRejected:
		return true, d.Reject(messageOr(ps.Message, "documento rejeitado pela SEFAZ"), now)
	case StatusError:
		return true, d.Fail(messageOr(ps.Message, "erro no provedor fiscal"), now)
	default:
		return false, nil
	}
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
