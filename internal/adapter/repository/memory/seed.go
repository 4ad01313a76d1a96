package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/domain/mrp"
)

// Seed é a carga inicial dos leitores em memória. Faturas, parceiros e dados
// de planejamento pertencem a outros módulos do ERP e não têm rota de cadastro.
type Seed struct {
	Invoices         []fiscal.Invoice         `json:"invoices"`
	BusinessPartners []fiscal.BusinessPartner `json:"business_partners"`
	Planning         mrp.Snapshot             `json:"planning"`
}

// LoadSeed lê a carga inicial de um arquivo JSON
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de carga %s: %w", path, err)
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("arquivo de carga %s inválido: %w", path, err)
	}
	return &seed, nil
}

// Apply carrega a semente nos leitores informados
func (s *Seed) Apply(invoices *InvoiceReader, planning *PlanningReader) {
	for _, inv := range s.Invoices {
		invoices.AddInvoice(inv)
	}
	for _, p := range s.BusinessPartners {
		invoices.AddBusinessPartner(p)
	}
	planning.Load(s.Planning)
}
