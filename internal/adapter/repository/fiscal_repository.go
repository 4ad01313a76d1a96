package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/infrastructure/database"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalConfigColumns = `
	id, tenant_id, branch_id, emitter_document, emitter_state,
	nfe_series, nfe_next_number, nfe_environment, contingency_enabled,
	created_at, updated_at`

// FiscalRepository implementa a interface fiscal.Repository
type FiscalRepository struct {
	db *pgxpool.Pool
}

// NewFiscalRepository cria uma nova instância de FiscalRepository
func NewFiscalRepository(db *pgxpool.Pool) fiscal.Repository {
	return &FiscalRepository{
		db: db,
	}
}

// Create implementa o método Create da interface fiscal.Repository
func (r *FiscalRepository) Create(ctx context.Context, config *fiscal.Configuration) error {
	query := `
		INSERT INTO fiscal_configurations (` + fiscalConfigColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		config.ID, config.TenantID, config.BranchID, config.EmitterDocument, config.EmitterState,
		config.NFeSeries, config.NFeNextNumber, string(config.NFeEnvironment), config.ContingencyEnabled,
		config.CreatedAt, config.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperror.Validation("já existe uma configuração fiscal para a filial %s", config.BranchID)
	}
	if err != nil {
		return fmt.Errorf("falha ao inserir configuração fiscal: %w", err)
	}
	return nil
}

// FindByID implementa o método FindByID da interface fiscal.Repository
func (r *FiscalRepository) FindByID(ctx context.Context, id string) (*fiscal.Configuration, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{id})
	query := `SELECT ` + fiscalConfigColumns + ` FROM fiscal_configurations WHERE id = $1` + filter

	config, err := scanFiscalConfig(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "configuração fiscal", id)
	}
	return config, nil
}

// FindByBranch implementa o método FindByBranch da interface fiscal.Repository
func (r *FiscalRepository) FindByBranch(ctx context.Context, branchID string) (*fiscal.Configuration, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{branchID})
	query := `SELECT ` + fiscalConfigColumns + ` FROM fiscal_configurations WHERE branch_id = $1` + filter

	config, err := scanFiscalConfig(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "configuração fiscal da filial", branchID)
	}
	return config, nil
}

// Update implementa o método Update da interface fiscal.Repository
func (r *FiscalRepository) Update(ctx context.Context, config *fiscal.Configuration) error {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{
		config.ID, config.EmitterDocument, config.EmitterState, config.NFeSeries,
		config.NFeNextNumber, string(config.NFeEnvironment), config.ContingencyEnabled, config.UpdatedAt,
	})
	query := `
		UPDATE fiscal_configurations SET
			emitter_document = $2, emitter_state = $3, nfe_series = $4,
			nfe_next_number = $5, nfe_environment = $6, contingency_enabled = $7, updated_at = $8
		WHERE id = $1` + filter

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar configuração fiscal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("configuração fiscal", config.ID)
	}
	return nil
}

// GetAndIncrementNFeNumber reserva o próximo número em um único UPDATE atômico
func (r *FiscalRepository) GetAndIncrementNFeNumber(ctx context.Context, branchID string) (int, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{branchID})
	query := `
		UPDATE fiscal_configurations
		SET nfe_next_number = nfe_next_number + 1, updated_at = NOW()
		WHERE branch_id = $1` + filter + `
		RETURNING nfe_next_number - 1`

	var number int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&number); err != nil {
		return 0, notFound(err, "configuração fiscal da filial", branchID)
	}
	return number, nil
}

func scanFiscalConfig(row pgx.Row) (*fiscal.Configuration, error) {
	var (
		config fiscal.Configuration
		env    string
	)
	err := row.Scan(
		&config.ID, &config.TenantID, &config.BranchID, &config.EmitterDocument, &config.EmitterState,
		&config.NFeSeries, &config.NFeNextNumber, &env, &config.ContingencyEnabled,
		&config.CreatedAt, &config.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	config.NFeEnvironment = fiscal.FiscalEnvironment(env)
	return &config, nil
}
