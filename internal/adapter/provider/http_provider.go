package provider

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
	"github.com/hugohenrick/erp-industria/pkg/pkcs12"
	"github.com/shopspring/decimal"
)

// DefaultTimeout é o tempo máximo de cada chamada ao provedor
const DefaultTimeout = 30 * time.Second

// HTTPConfig contém os parâmetros de acesso ao provedor fiscal
type HTTPConfig struct {
	BaseURL             string
	Token               string
	Environment         fiscal.FiscalEnvironment
	CertificatePath     string
	CertificatePassword string
	Timeout             time.Duration
}

// HTTPProvider implementa fiscal.Provider sobre a API REST do emissor
type HTTPProvider struct {
	baseURL     string
	token       string
	environment fiscal.FiscalEnvironment
	client      *http.Client
	logger      logger.Logger
}

var _ fiscal.Provider = (*HTTPProvider)(nil)

// NewHTTPProvider cria o cliente do provedor. Quando há certificado A1
// configurado, as chamadas usam TLS mútuo.
func NewHTTPProvider(cfg HTTPConfig, logger logger.Logger) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("URL do provedor fiscal não configurada")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("URL do provedor fiscal inválida: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	if cfg.CertificatePath != "" {
		cert, err := pkcs12.LoadTLSCertificate(cfg.CertificatePath, cfg.CertificatePassword)
		if err != nil {
			return nil, err
		}
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
		}
	}

	return &HTTPProvider{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		environment: cfg.Environment,
		client:      client,
		logger:      logger,
	}, nil
}

// NewHTTPProviderWithClient cria o provedor com um http.Client já configurado
func NewHTTPProviderWithClient(baseURL, token string, client *http.Client, logger logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		environment: fiscal.Homologation,
		client:      client,
		logger:      logger,
	}
}

type emissionItem struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	NCM         string          `json:"ncm"`
	CFOP        string          `json:"cfop"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type emissionRecipient struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	State    string `json:"state"`
	Email    string `json:"email,omitempty"`
}

type emissionRequest struct {
	Reference   string            `json:"reference"`
	Environment string            `json:"environment"`
	AccessKey   string            `json:"access_key"`
	Number      int               `json:"number"`
	Series      string            `json:"series"`
	IssuedAt    time.Time         `json:"issued_at"`
	Invoice     string            `json:"invoice_number"`
	Total       decimal.Decimal   `json:"total"`
	TaxTotal    decimal.Decimal   `json:"tax_total"`
	Recipient   emissionRecipient `json:"recipient"`
	Items       []emissionItem    `json:"items"`
}

type emissionResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// EmitDocument envia o documento e retorna o ID de correlação do provedor
func (p *HTTPProvider) EmitDocument(ctx context.Context, doc *fiscal.Document, invoice *fiscal.Invoice, partner *fiscal.BusinessPartner) (string, error) {
	body := emissionRequest{
		Reference:   doc.ID,
		Environment: string(p.environment),
		AccessKey:   doc.AccessKey,
		Number:      doc.Number,
		Series:      doc.Series,
		IssuedAt:    doc.IssuedAt,
		Invoice:     invoice.Number,
		Total:       invoice.TotalAmount,
		TaxTotal:    invoice.TaxAmount,
		Recipient: emissionRecipient{
			Name:     partner.Name,
			Document: partner.Document,
			State:    partner.State,
			Email:    partner.Email,
		},
		Items: make([]emissionItem, 0, len(invoice.Items)),
	}
	for _, it := range invoice.Items {
		body.Items = append(body.Items, emissionItem{
			Code:        it.MaterialCode,
			Description: it.Description,
			NCM:         it.NCM,
			CFOP:        it.CFOP,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}

	var resp emissionResponse
	if err := p.do(ctx, http.MethodPost, "/v2/nfe", body, &resp); err != nil {
		return "", err
	}
	if resp.Reference == "" {
		return "", fmt.Errorf("%w: resposta sem referência: %s", apperror.ErrProvider, resp.Message)
	}

	p.logger.Info("documento enviado ao provedor fiscal", "document_id", doc.ID, "reference", resp.Reference)
	return resp.Reference, nil
}

// QueryStatus consulta a situação do documento no provedor
func (p *HTTPProvider) QueryStatus(ctx context.Context, reference string) (*fiscal.ProviderStatus, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: referência vazia", apperror.ErrProvider)
	}

	var status fiscal.ProviderStatus
	if err := p.do(ctx, http.MethodGet, "/v2/nfe/"+url.PathEscape(reference), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("erro ao serializar requisição: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: erro ao criar requisição HTTP: %w", apperror.ErrProvider, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("erro na comunicação com o provedor fiscal", "path", path, "error", err.Error())
		return fmt.Errorf("%w: %w", apperror.ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%w: erro ao ler resposta: %w", apperror.ErrProvider, err)
	}

	p.logger.Debug("resposta do provedor fiscal", "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: código %d: %s", apperror.ErrProvider, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: resposta inválida: %w", apperror.ErrProvider, err)
		}
	}
	return nil
}
