package taxrule

import (
	"context"
)

// Repository define a interface para operações de repositório de regras tributárias
type Repository interface {
	// Create cria uma nova regra
	Create(ctx context.Context, rule *Rule) error

	// FindByID busca uma regra pelo ID; retorna apperror.ErrNotFound quando não existe
	FindByID(ctx context.Context, id string) (*Rule, error)

	// List lista todas as regras do tenant, incluindo as inativas
	List(ctx context.Context) ([]*Rule, error)

	// FindCandidates lista as regras ativas para o par de UFs e a operação
	FindCandidates(ctx context.Context, sourceState, destinationState string, op OperationType) ([]*Rule, error)

	// Update atualiza uma regra existente
	Update(ctx context.Context, rule *Rule) error
}
