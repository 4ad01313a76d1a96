package tenant

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-industria/pkg/apperror"
)

type contextKey string

const (
	tenantIDKey contextKey = "tenant_id"
	userIDKey   contextKey = "user_id"
)

// SetTenantIDContext define o tenant ID no contexto
func SetTenantIDContext(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantIDFromContext obtém o tenant ID do contexto
func GetTenantIDFromContext(ctx context.Context) string {
	if tenantID, ok := ctx.Value(tenantIDKey).(string); ok {
		return tenantID
	}
	return ""
}

// RequireTenantID obtém o tenant ID do contexto ou retorna erro de validação
func RequireTenantID(ctx context.Context) (string, error) {
	tenantID := GetTenantIDFromContext(ctx)
	if tenantID == "" {
		return "", fmt.Errorf("%w: %w", apperror.ErrValidation, ErrTenantNotSpecified)
	}
	return tenantID, nil
}

// SetUserIDContext define o ID do usuário autenticado no contexto da requisição
func SetUserIDContext(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext obtém o ID do usuário autenticado do contexto
func GetUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
