package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
)

// SandboxProvider simula o provedor fiscal em memória: todo documento enviado
// é autorizado na primeira consulta. Usado em homologação local sem provedor.
type SandboxProvider struct {
	mu        sync.Mutex
	documents map[string]sandboxDocument
	now       func() time.Time
}

type sandboxDocument struct {
	accessKey string
	queried   bool
}

var _ fiscal.Provider = (*SandboxProvider)(nil)

// NewSandboxProvider cria um novo provedor simulado
func NewSandboxProvider() *SandboxProvider {
	return &SandboxProvider{
		documents: make(map[string]sandboxDocument),
		now:       time.Now,
	}
}

// EmitDocument registra o documento e devolve uma referência aleatória
func (p *SandboxProvider) EmitDocument(_ context.Context, doc *fiscal.Document, _ *fiscal.Invoice, _ *fiscal.BusinessPartner) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	reference := "sbx-" + uuid.New().String()
	p.documents[reference] = sandboxDocument{accessKey: doc.AccessKey}
	return reference, nil
}

// QueryStatus retorna processing na primeira consulta e authorized a partir da segunda
func (p *SandboxProvider) QueryStatus(_ context.Context, reference string) (*fiscal.ProviderStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.documents[reference]
	if !ok {
		return nil, fmt.Errorf("%w: referência %s desconhecida", apperror.ErrProvider, reference)
	}
	if !d.queried {
		d.queried = true
		p.documents[reference] = d
		return &fiscal.ProviderStatus{Status: "processando"}, nil
	}

	protocol := fmt.Sprintf("1%s%s", p.now().Format("060102150405"), d.accessKey[34:36])
	return &fiscal.ProviderStatus{
		Status:   "autorizado",
		Protocol: protocol,
		XML:      fmt.Sprintf(`<nfeProc versao="4.00"><protNFe><infProt><chNFe>%s</chNFe><nProt>%s</nProt></infProt></protNFe></nfeProc>`, d.accessKey, protocol),
	}, nil
}
