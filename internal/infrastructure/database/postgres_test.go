package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConnectionString(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "erp")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "industria")
	t.Setenv("DB_SSL_MODE", "require")

	cfg := NewPostgresConfigFromEnv()
	assert.Equal(t, "postgres://erp:secret@db:6543/industria?sslmode=require", cfg.ConnectionString())
	assert.Equal(t, int32(10), cfg.MaxConnections)

	t.Setenv("DATABASE_URL", "postgres://u:p@h/x")
	assert.Equal(t, "postgres://u:p@h/x", NewPostgresConfigFromEnv().ConnectionString())
}

func TestIsUniqueViolationOn(t *testing.T) {
	live := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_fiscal_documents_live_invoice"})
	accessKey := &pgconn.PgError{Code: "23505", ConstraintName: "fiscal_documents_access_key_key"}
	notNull := &pgconn.PgError{Code: "23502", ConstraintName: "uq_fiscal_documents_live_invoice"}

	assert.True(t, IsUniqueViolation(live))
	assert.True(t, IsUniqueViolationOn(live, "uq_fiscal_documents_live_invoice"))
	assert.False(t, IsUniqueViolationOn(accessKey, "uq_fiscal_documents_live_invoice"))
	assert.False(t, IsUniqueViolationOn(notNull, "uq_fiscal_documents_live_invoice"))
	assert.False(t, IsUniqueViolationOn(errors.New("boom"), "uq_fiscal_documents_live_invoice"))
	assert.False(t, IsUniqueViolationOn(nil, "uq_fiscal_documents_live_invoice"))
}
