package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
)

// TaxRuleRepository implementa taxrule.Repository em memória
type TaxRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]taxrule.Rule
}

var _ taxrule.Repository = (*TaxRuleRepository)(nil)

// NewTaxRuleRepository cria um novo repositório de regras em memória
func NewTaxRuleRepository() *TaxRuleRepository {
	return &TaxRuleRepository{rules: make(map[string]taxrule.Rule)}
}

// Create grava uma nova regra
func (r *TaxRuleRepository) Create(ctx context.Context, rule *taxrule.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[rule.ID]; ok {
		return apperror.Validation("regra %s já existe", rule.ID)
	}
	r.rules[rule.ID] = *rule
	return nil
}

// FindByID busca uma regra do tenant pelo ID
func (r *TaxRuleRepository) FindByID(ctx context.Context, id string) (*taxrule.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[id]
	if !ok || !visible(ctx, rule.TenantID) {
		return nil, apperror.NotFound("regra tributária", id)
	}
	return &rule, nil
}

// List lista as regras do tenant ordenadas por data de criação
func (r *TaxRuleRepository) List(ctx context.Context) ([]*taxrule.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]*taxrule.Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		if visible(ctx, rule.TenantID) {
			rule := rule
			rules = append(rules, &rule)
		}
	}
	sortRules(rules)
	return rules, nil
}

// FindCandidates lista as regras ativas para o par de UFs e a operação
func (r *TaxRuleRepository) FindCandidates(ctx context.Context, sourceState, destinationState string, op taxrule.OperationType) ([]*taxrule.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []*taxrule.Rule
	for _, rule := range r.rules {
		if !visible(ctx, rule.TenantID) || !rule.Active {
			continue
		}
		if rule.SourceState == sourceState && rule.DestinationState == destinationState && rule.OperationType == op {
			rule := rule
			rules = append(rules, &rule)
		}
	}
	sortRules(rules)
	return rules, nil
}

// Update substitui uma regra existente
func (r *TaxRuleRepository) Update(ctx context.Context, rule *taxrule.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rules[rule.ID]
	if !ok || !visible(ctx, current.TenantID) {
		return apperror.NotFound("regra tributária", rule.ID)
	}
	r.rules[rule.ID] = *rule
	return nil
}

func sortRules(rules []*taxrule.Rule) {
	sort.Slice(rules, func(i, j int) bool {
		if !rules[i].CreatedAt.Equal(rules[j].CreatedAt) {
			return rules[i].CreatedAt.Before(rules[j].CreatedAt)
		}
		return rules[i].ID < rules[j].ID
	})
}

// visible informa se o registro pertence ao tenant do contexto.
// Sem tenant no contexto (rotinas internas) todos os registros são visíveis.
func visible(ctx context.Context, tenantID string) bool {
	current := tenant.GetTenantIDFromContext(ctx)
	return current == "" || current == tenantID
}
