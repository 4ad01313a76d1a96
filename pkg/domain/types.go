package domain

import (
	"time"
)

// Audit agrupa os metadados de auditoria compartilhados pelas entidades.
// As entidades o embutem em vez de herdar de um tipo base.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Active    bool      `json:"active"`
}

// NewAudit cria metadados de auditoria para uma entidade recém-criada
func NewAudit(now time.Time) Audit {
	return Audit{
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
}

// Touch atualiza a data de modificação
func (a *Audit) Touch(now time.Time) {
	a.UpdatedAt = now
}

// Deactivate marca a entidade como inativa (exclusão lógica)
func (a *Audit) Deactivate(now time.Time) {
	a.Active = false
	a.UpdatedAt = now
}

// Activate reativa a entidade
func (a *Audit) Activate(now time.Time) {
	a.Active = true
	a.UpdatedAt = now
}
