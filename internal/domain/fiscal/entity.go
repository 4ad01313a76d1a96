package fiscal

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FiscalEnvironment define o ambiente da SEFAZ
type FiscalEnvironment string

const (
	Production   FiscalEnvironment = "production"
	Homologation FiscalEnvironment = "homologation"
)

// ParseEnvironment converte o texto recebido na borda da API em FiscalEnvironment
func ParseEnvironment(s string) (FiscalEnvironment, error) {
	switch env := FiscalEnvironment(strings.ToLower(strings.TrimSpace(s))); env {
	case Production, Homologation:
		return env, nil
	case "":
		return Homologation, nil
	default:
		return "", errors.New("ambiente fiscal inválido: " + s)
	}
}

// Configuration contém as configurações fiscais de uma filial
type Configuration struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	BranchID string `json:"branch_id"`

	// Dados do emitente usados na chave de acesso
	EmitterDocument string `json:"emitter_document"`
	EmitterState    string `json:"emitter_state"`

	// Configurações NFe
	NFeSeries      string            `json:"nfe_series"`
	NFeNextNumber  int               `json:"nfe_next_number"`
	NFeEnvironment FiscalEnvironment `json:"nfe_environment"`

	ContingencyEnabled bool `json:"contingency_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConfiguration cria uma nova configuração fiscal
func NewConfiguration(
	tenantID string,
	branchID string,
	emitterDocument string,
	emitterState string,
) (*Configuration, error) {
	if tenantID == "" {
		return nil, errors.New("tenant ID é obrigatório")
	}
	if branchID == "" {
		return nil, errors.New("branch ID é obrigatório")
	}

	c := &Configuration{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		BranchID:       branchID,
		NFeSeries:      "1",
		NFeNextNumber:  1,
		NFeEnvironment: Homologation,
	}
	if err := c.ConfigureEmitter(emitterDocument, emitterState); err != nil {
		return nil, err
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

// ConfigureEmitter define CNPJ e UF do emitente
func (c *Configuration) ConfigureEmitter(document, state string) error {
	document = onlyDigits(document)
	if len(document) != 14 {
		return errors.New("CNPJ do emitente deve ter 14 dígitos")
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if _, ok := StateCode(state); !ok {
		return errors.New("UF do emitente inválida: " + state)
	}

	c.EmitterDocument = document
	c.EmitterState = state
	c.UpdatedAt = time.Now()
	return nil
}

// ConfigureNFe configura os parâmetros de NFe
func (c *Configuration) ConfigureNFe(
	series string,
	nextNumber int,
	environment FiscalEnvironment,
) error {
	if series == "" {
		return errors.New("série da NFe é obrigatória")
	}
	if nextNumber <= 0 {
		return errors.New("número inicial da NFe deve ser maior que zero")
	}

	c.NFeSeries = series
	c.NFeNextNumber = nextNumber
	c.NFeEnvironment = environment
	c.UpdatedAt = time.Now()
	return nil
}

// EnableContingency habilita o modo de contingência
func (c *Configuration) EnableContingency() {
	c.ContingencyEnabled = true
	c.UpdatedAt = time.Now()
}

// DisableContingency desabilita o modo de contingência
func (c *Configuration) DisableContingency() {
	c.ContingencyEnabled = false
	c.UpdatedAt = time.Now()
}

// GetNextNFeNumber obtém e incrementa o número da próxima NFe.
// O repositório faz o equivalente de forma atômica; este método serve aos
// armazenamentos em memória.
func (c *Configuration) GetNextNFeNumber() int {
	current := c.NFeNextNumber
	c.NFeNextNumber++
	c.UpdatedAt = time.Now()
	return current
}

// EmissionType retorna o tipo de emissão da chave de acesso (1 normal, 9 contingência offline)
func (c *Configuration) EmissionType() int {
	if c.ContingencyEnabled {
		return 9
	}
	return 1
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
