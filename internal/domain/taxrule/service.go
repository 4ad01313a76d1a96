package taxrule

import (
	"context"
	"errors"
	"time"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/logger"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
)

// Service orquestra o cadastro de regras e o cálculo tributário
type Service struct {
	repo   Repository
	logger logger.Logger
	now    func() time.Time
}

// NewService cria uma nova instância de Service
func NewService(repo Repository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock substitui o relógio usado para carimbar as regras
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateRule cria uma nova regra para o tenant do contexto
func (s *Service) CreateRule(ctx context.Context, data RuleData) (*Rule, error) {
	tenantID, err := tenant.RequireTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rule, err := NewRule(tenantID, data, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		s.logger.Error("erro ao salvar regra tributária", "error", err.Error())
		return nil, err
	}

	s.logger.Info("regra tributária criada", "rule_id", rule.ID, "cfop", rule.CFOP)
	return rule, nil
}

// GetAllRules lista as regras do tenant
func (s *Service) GetAllRules(ctx context.Context) ([]*Rule, error) {
	return s.repo.List(ctx)
}

// GetRuleByID busca uma regra; retorna apperror.ErrNotFound quando não existe
func (s *Service) GetRuleByID(ctx context.Context, id string) (*Rule, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateRule substitui os campos mutáveis de uma regra
func (s *Service) UpdateRule(ctx context.Context, id string, data RuleData) (*Rule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Update(data, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rule); err != nil {
		s.logger.Error("erro ao atualizar regra tributária", "rule_id", id, "error", err.Error())
		return nil, err
	}
	return rule, nil
}

// DeactivateRule desativa a regra, que deixa de ser considerada no cálculo
func (s *Service) DeactivateRule(ctx context.Context, id string) (*Rule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rule.Active {
		return rule, nil
	}
	rule.Deactivate(s.now())
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("regra tributária desativada", "rule_id", id)
	return rule, nil
}

// CalculateTax resolve a regra aplicável e calcula os tributos do item
func (s *Service) CalculateTax(ctx context.Context, in Input) (*Result, error) {
	source, err := NormalizeState(in.SourceState)
	if err != nil {
		return nil, err
	}
	dest, err := NormalizeState(in.DestinationState)
	if err != nil {
		return nil, err
	}
	if _, err := ParseOperationType(string(in.OperationType)); err != nil {
		return nil, err
	}
	rules, err := s.repo.FindCandidates(ctx, source, dest, in.OperationType)
	if err != nil {
		return nil, err
	}

	in.SourceState = source
	in.DestinationState = dest
	result, err := ResolveAndCalculate(rules, in)
	if errors.Is(err, apperror.ErrNoMatchingRule) {
		s.logger.Warn("nenhuma regra tributária aplicável",
			"source", source, "destination", dest, "operation", string(in.OperationType))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("tributos calculados", "rule_id", result.RuleID, "total", result.TotalTax.String())
	return result, nil
}
