package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taxRuleColumns = `
	id, tenant_id, source_state, destination_state, ncm, operation_type, cfop, cst,
	icms_rate, ipi_rate, pis_rate, cofins_rate, active, created_at, updated_at`

// TaxRuleRepository implementa a interface taxrule.Repository
type TaxRuleRepository struct {
	db *pgxpool.Pool
}

// NewTaxRuleRepository cria uma nova instância de TaxRuleRepository
func NewTaxRuleRepository(db *pgxpool.Pool) taxrule.Repository {
	return &TaxRuleRepository{db: db}
}

// Create implementa o método Create da interface taxrule.Repository
func (r *TaxRuleRepository) Create(ctx context.Context, rule *taxrule.Rule) error {
	query := `
		INSERT INTO tax_rules (` + taxRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		rule.ID, rule.TenantID, rule.SourceState, rule.DestinationState, rule.NCM,
		string(rule.OperationType), rule.CFOP, rule.CST,
		rule.Rates.ICMS, rule.Rates.IPI, rule.Rates.PIS, rule.Rates.COFINS,
		rule.Active, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir regra tributária: %w", err)
	}
	return nil
}

// FindByID implementa o método FindByID da interface taxrule.Repository
func (r *TaxRuleRepository) FindByID(ctx context.Context, id string) (*taxrule.Rule, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{id})
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE id = $1` + filter

	rule, err := scanTaxRule(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "regra tributária", id)
	}
	return rule, nil
}

// List implementa o método List da interface taxrule.Repository
func (r *TaxRuleRepository) List(ctx context.Context) ([]*taxrule.Rule, error) {
	filter, args := tenantScope(ctx, "tenant_id", nil)
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE true` + filter + ` ORDER BY created_at, id`
	return r.query(ctx, query, args...)
}

// FindCandidates implementa o método FindCandidates da interface taxrule.Repository
func (r *TaxRuleRepository) FindCandidates(ctx context.Context, sourceState, destinationState string, op taxrule.OperationType) ([]*taxrule.Rule, error) {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{sourceState, destinationState, string(op)})
	query := `
		SELECT ` + taxRuleColumns + `
		FROM tax_rules
		WHERE source_state = $1 AND destination_state = $2 AND operation_type = $3 AND active` + filter + `
		ORDER BY created_at, id`
	return r.query(ctx, query, args...)
}

// Update implementa o método Update da interface taxrule.Repository
func (r *TaxRuleRepository) Update(ctx context.Context, rule *taxrule.Rule) error {
	filter, args := tenantScope(ctx, "tenant_id", []interface{}{
		rule.ID, rule.SourceState, rule.DestinationState, rule.NCM, string(rule.OperationType),
		rule.CFOP, rule.CST, rule.Rates.ICMS, rule.Rates.IPI, rule.Rates.PIS, rule.Rates.COFINS,
		rule.Active, rule.UpdatedAt,
	})
	query := `
		UPDATE tax_rules SET
			source_state = $2, destination_state = $3, ncm = $4, operation_type = $5,
			cfop = $6, cst = $7, icms_rate = $8, ipi_rate = $9, pis_rate = $10, cofins_rate = $11,
			active = $12, updated_at = $13
		WHERE id = $1` + filter

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("falha ao atualizar regra tributária: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("regra tributária", rule.ID)
	}
	return nil
}

func (r *TaxRuleRepository) query(ctx context.Context, query string, args ...interface{}) ([]*taxrule.Rule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar regras tributárias: %w", err)
	}
	defer rows.Close()

	rules := make([]*taxrule.Rule, 0)
	for rows.Next() {
		rule, err := scanTaxRule(rows)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler regra tributária: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao iterar regras tributárias: %w", err)
	}
	return rules, nil
}

func scanTaxRule(row pgx.Row) (*taxrule.Rule, error) {
	var (
		rule taxrule.Rule
		op   string
	)
	err := row.Scan(
		&rule.ID, &rule.TenantID, &rule.SourceState, &rule.DestinationState, &rule.NCM,
		&op, &rule.CFOP, &rule.CST,
		&rule.Rates.ICMS, &rule.Rates.IPI, &rule.Rates.PIS, &rule.Rates.COFINS,
		&rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rule.OperationType = taxrule.OperationType(op)
	return &rule, nil
}
