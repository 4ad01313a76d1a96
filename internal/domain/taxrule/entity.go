package taxrule

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/domain"
	"github.com/shopspring/decimal"
)

// RatePrecision é o número de casas decimais com que as alíquotas são armazenadas
const RatePrecision = 4

// OperationType define a natureza da operação fiscal
type OperationType string

const (
	OperationSales    OperationType = "sales"
	OperationPurchase OperationType = "purchase"
	OperationTransfer OperationType = "transfer"
	OperationReturn   OperationType = "return"
)

// ParseOperationType converte o texto recebido na borda da API em OperationType
func ParseOperationType(s string) (OperationType, error) {
	switch op := OperationType(strings.ToLower(strings.TrimSpace(s))); op {
	case OperationSales, OperationPurchase, OperationTransfer, OperationReturn:
		return op, nil
	default:
		return "", apperror.Validation("tipo de operação %q inválido", s)
	}
}

// Rates agrupa as quatro alíquotas (percentuais) de uma regra
type Rates struct {
	ICMS   decimal.Decimal `json:"icms"`
	IPI    decimal.Decimal `json:"ipi"`
	PIS    decimal.Decimal `json:"pis"`
	COFINS decimal.Decimal `json:"cofins"`
}

// Rule é uma regra de cálculo tributário.
// NCM nulo funciona como curinga e atende qualquer classificação.
type Rule struct {
	ID               string        `json:"id"`
	TenantID         string        `json:"tenant_id"`
	SourceState      string        `json:"source_state"`
	DestinationState string        `json:"destination_state"`
	NCM              *string       `json:"ncm,omitempty"`
	OperationType    OperationType `json:"operation_type"`
	CFOP             string        `json:"cfop"`
	CST              string        `json:"cst"`
	Rates            Rates         `json:"rates"`
	domain.Audit
}

// RuleData contém os campos mutáveis de uma regra
type RuleData struct {
	SourceState      string
	DestinationState string
	NCM              *string
	OperationType    OperationType
	CFOP             string
	CST              string
	Rates            Rates
}

// NewRule cria uma nova regra tributária validada e normalizada
func NewRule(tenantID string, data RuleData, now time.Time) (*Rule, error) {
	r := &Rule{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		Audit:    domain.NewAudit(now),
	}
	if err := r.apply(data); err != nil {
		return nil, err
	}
	return r, nil
}

// Update substitui todos os campos mutáveis, normalizando as UFs novamente
func (r *Rule) Update(data RuleData, now time.Time) error {
	if err := r.apply(data); err != nil {
		return err
	}
	r.Touch(now)
	return nil
}

// IsWildcard informa se a regra atende qualquer NCM
func (r *Rule) IsWildcard() bool {
	return r.NCM == nil
}

func (r *Rule) apply(data RuleData) error {
	source, err := NormalizeState(data.SourceState)
	if err != nil {
		return err
	}
	dest, err := NormalizeState(data.DestinationState)
	if err != nil {
		return err
	}
	if _, err := ParseOperationType(string(data.OperationType)); err != nil {
		return err
	}

	cfop := strings.TrimSpace(data.CFOP)
	if len(cfop) != 4 || !isDigits(cfop) {
		return apperror.Validation("CFOP %q deve ter 4 dígitos", data.CFOP)
	}
	cst := strings.TrimSpace(data.CST)
	if cst == "" {
		return apperror.Validation("CST é obrigatório")
	}

	rates, err := normalizeRates(data.Rates)
	if err != nil {
		return err
	}

	r.SourceState = source
	r.DestinationState = dest
	r.NCM = normalizeNCM(data.NCM)
	r.OperationType = data.OperationType
	r.CFOP = cfop
	r.CST = cst
	r.Rates = rates
	return nil
}

// NormalizeState valida e normaliza uma sigla de UF (2 letras, maiúsculas)
func NormalizeState(s string) (string, error) {
	state := strings.ToUpper(strings.TrimSpace(s))
	if len(state) != 2 {
		return "", apperror.Validation("UF %q deve ter 2 caracteres", s)
	}
	for _, c := range state {
		if c < 'A' || c > 'Z' {
			return "", apperror.Validation("UF %q contém caracteres inválidos", s)
		}
	}
	return state, nil
}

func normalizeNCM(ncm *string) *string {
	if ncm == nil {
		return nil
	}
	v := strings.ReplaceAll(strings.TrimSpace(*ncm), ".", "")
	if v == "" {
		return nil
	}
	return &v
}

func normalizeRates(rates Rates) (Rates, error) {
	hundred := decimal.NewFromInt(100)
	check := func(name string, v decimal.Decimal) (decimal.Decimal, error) {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return decimal.Zero, apperror.Validation("alíquota de %s deve estar entre 0 e 100", name)
		}
		return v.Round(RatePrecision), nil
	}

	var err error
	var out Rates
	if out.ICMS, err = check("ICMS", rates.ICMS); err != nil {
		return Rates{}, err
	}
	if out.IPI, err = check("IPI", rates.IPI); err != nil {
		return Rates{}, err
	}
	if out.PIS, err = check("PIS", rates.PIS); err != nil {
		return Rates{}, err
	}
	if out.COFINS, err = check("COFINS", rates.COFINS); err != nil {
		return Rates{}, err
	}
	return out, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
