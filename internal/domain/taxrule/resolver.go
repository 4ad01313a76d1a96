package taxrule

import (
	"fmt"
	"strings"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/shopspring/decimal"
)

// AmountPrecision é o número de casas decimais dos valores de imposto
const AmountPrecision = 2

// Input descreve a operação a ser tributada
type Input struct {
	SourceState      string
	DestinationState string
	NCM              *string
	OperationType    OperationType
	ItemValue        decimal.Decimal
}

// TaxLine é a alíquota e o valor calculado de um tributo
type TaxLine struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Result é o resultado do cálculo tributário de um item
type Result struct {
	RuleID   string          `json:"rule_id"`
	CFOP     string          `json:"cfop"`
	CST      string          `json:"cst"`
	ICMS     TaxLine         `json:"icms"`
	IPI      TaxLine         `json:"ipi"`
	PIS      TaxLine         `json:"pis"`
	COFINS   TaxLine         `json:"cofins"`
	TotalTax decimal.Decimal `json:"total_tax"`
}

// Resolve escolhe a regra aplicável à entrada.
// Regras com NCM exato têm precedência sobre curingas; entre regras
// igualmente específicas vence a criada primeiro (e depois o menor ID).
// Regras inativas são ignoradas.
func Resolve(rules []*Rule, in Input) (*Rule, error) {
	source := strings.ToUpper(strings.TrimSpace(in.SourceState))
	dest := strings.ToUpper(strings.TrimSpace(in.DestinationState))
	ncm := normalizeNCM(in.NCM)

	var best *Rule
	bestScore := -1
	for _, r := range rules {
		if r == nil || !r.Active {
			continue
		}
		if r.SourceState != source || r.DestinationState != dest || r.OperationType != in.OperationType {
			continue
		}

		score := 0
		switch {
		case r.NCM == nil:
			score = 0
		case ncm != nil && *r.NCM == *ncm:
			score = 1
		default:
			continue
		}

		if score > bestScore || (score == bestScore && precedes(r, best)) {
			best = r
			bestScore = score
		}
	}

	if best == nil {
		classification := "*"
		if ncm != nil {
			classification = *ncm
		}
		return nil, fmt.Errorf("%w: origem=%s destino=%s ncm=%s operação=%s",
			apperror.ErrNoMatchingRule, source, dest, classification, in.OperationType)
	}
	return best, nil
}

// Calculate aplica as alíquotas da regra ao valor do item
func Calculate(r *Rule, itemValue decimal.Decimal) *Result {
	icms := line(r.Rates.ICMS, itemValue)
	ipi := line(r.Rates.IPI, itemValue)
	pis := line(r.Rates.PIS, itemValue)
	cofins := line(r.Rates.COFINS, itemValue)

	return &Result{
		RuleID:   r.ID,
		CFOP:     r.CFOP,
		CST:      r.CST,
		ICMS:     icms,
		IPI:      ipi,
		PIS:      pis,
		COFINS:   cofins,
		TotalTax: icms.Amount.Add(ipi.Amount).Add(pis.Amount).Add(cofins.Amount),
	}
}

// ResolveAndCalculate combina Resolve e Calculate. É uma função pura.
func ResolveAndCalculate(rules []*Rule, in Input) (*Result, error) {
	if in.ItemValue.IsNegative() {
		return nil, apperror.Validation("valor do item não pode ser negativo")
	}
	r, err := Resolve(rules, in)
	if err != nil {
		return nil, err
	}
	return Calculate(r, in.ItemValue), nil
}

func line(rate, itemValue decimal.Decimal) TaxLine {
	return TaxLine{
		Rate:   rate,
		Amount: itemValue.Mul(rate).Div(decimal.NewFromInt(100)).Round(AmountPrecision),
	}
}

func precedes(a, b *Rule) bool {
	if b == nil {
		return true
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
