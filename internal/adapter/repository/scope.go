package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
	"github.com/jackc/pgx/v5"
)

// tenantScope devolve o filtro de tenant para a cláusula WHERE.
// Sem tenant no contexto (rotinas internas) nenhum filtro é aplicado.
func tenantScope(ctx context.Context, column string, args []interface{}) (string, []interface{}) {
	tenantID := tenant.GetTenantIDFromContext(ctx)
	if tenantID == "" {
		return "", args
	}
	args = append(args, tenantID)
	return fmt.Sprintf(" AND %s = $%d", column, len(args)), args
}

// notFound converte pgx.ErrNoRows em apperror.ErrNotFound
func notFound(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(entity, id)
	}
	return fmt.Errorf("falha ao buscar %s: %w", entity, err)
}
