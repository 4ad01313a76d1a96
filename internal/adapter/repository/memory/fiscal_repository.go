package memory

import (
	"context"
	"sync"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
)

// FiscalRepository implementa fiscal.Repository em memória
type FiscalRepository struct {
	mu      sync.Mutex
	configs map[string]fiscal.Configuration
}

var _ fiscal.Repository = (*FiscalRepository)(nil)

// NewFiscalRepository cria um novo repositório de configurações fiscais em memória
func NewFiscalRepository() *FiscalRepository {
	return &FiscalRepository{configs: make(map[string]fiscal.Configuration)}
}

// Create grava uma nova configuração; cada filial tem no máximo uma
func (r *FiscalRepository) Create(ctx context.Context, config *fiscal.Configuration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.configs {
		if c.BranchID == config.BranchID && c.TenantID == config.TenantID {
			return apperror.Validation("filial %s já possui configuração fiscal", config.BranchID)
		}
	}
	r.configs[config.ID] = *config
	return nil
}

// FindByID busca uma configuração pelo ID
func (r *FiscalRepository) FindByID(ctx context.Context, id string) (*fiscal.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.configs[id]
	if !ok || !visible(ctx, c.TenantID) {
		return nil, apperror.NotFound("configuração fiscal", id)
	}
	return &c, nil
}

// FindByBranch busca a configuração fiscal de uma filial
func (r *FiscalRepository) FindByBranch(ctx context.Context, branchID string) (*fiscal.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byBranch(ctx, branchID)
	if !ok {
		return nil, apperror.NotFound("configuração fiscal da filial", branchID)
	}
	return &c, nil
}

// Update atualiza uma configuração existente
func (r *FiscalRepository) Update(ctx context.Context, config *fiscal.Configuration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.configs[config.ID]
	if !ok || !visible(ctx, c.TenantID) {
		return apperror.NotFound("configuração fiscal", config.ID)
	}
	r.configs[config.ID] = *config
	return nil
}

// GetAndIncrementNFeNumber reserva o próximo número de NFe da filial
func (r *FiscalRepository) GetAndIncrementNFeNumber(ctx context.Context, branchID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byBranch(ctx, branchID)
	if !ok {
		return 0, apperror.NotFound("configuração fiscal da filial", branchID)
	}
	number := c.GetNextNFeNumber()
	r.configs[c.ID] = c
	return number, nil
}

func (r *FiscalRepository) byBranch(ctx context.Context, branchID string) (fiscal.Configuration, bool) {
	for _, c := range r.configs {
		if c.BranchID == branchID && visible(ctx, c.TenantID) {
			return c, true
		}
	}
	return fiscal.Configuration{}, false
}
