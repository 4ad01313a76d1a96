package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hugohenrick/erp-industria/internal/domain/fiscal"
	"github.com/hugohenrick/erp-industria/internal/domain/taxrule"
	"github.com/hugohenrick/erp-industria/pkg/apperror"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func tenantCtx(id string) context.Context {
	return tenant.SetTenantIDContext(context.Background(), id)
}

func newDocument(t *testing.T, tenantID, invoiceID string, number int) *fiscal.Document {
	t.Helper()
	key, err := fiscal.BuildAccessKey(fiscal.AccessKeyParams{
		State: "PR", IssuedAt: now, Document: "12345678000195",
		Series: "1", Number: number, EmissionType: 1, RandomCode: 42,
	})
	require.NoError(t, err)
	doc, err := fiscal.NewDocument(tenantID, invoiceID, "branch-1", number, "1", key, now)
	require.NoError(t, err)
	return doc
}

func TestDocumentRepositoryOptimisticUpdate(t *testing.T) {
	ctx := tenantCtx("t1")
	repo := NewFiscalDocumentRepository()
	doc := newDocument(t, "t1", "inv-1", 1)
	require.NoError(t, repo.Create(ctx, doc))

	first, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)

	require.NoError(t, first.SetProviderReference("ref", now))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	require.NoError(t, second.Fail("timeout", now))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, apperror.ErrConcurrentModification)

	stored, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, fiscal.StatusProcessing, stored.Status)
}

func TestDocumentRepositoryConcurrentTransitions(t *testing.T) {
	ctx := tenantCtx("t1")
	repo := NewFiscalDocumentRepository()
	doc := newDocument(t, "t1", "inv-1", 1)
	require.NoError(t, doc.SetProviderReference("ref", now))
	require.NoError(t, repo.Create(ctx, doc))

	transitions := []func(d *fiscal.Document) error{
		func(d *fiscal.Document) error { return d.Authorize("prot", "<xml/>", "pdf", "xml", now) },
		func(d *fiscal.Document) error { return d.Reject("duplicidade", now) },
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, len(transitions))
	loaded := make([]*fiscal.Document, len(transitions))
	for i := range transitions {
		d, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		loaded[i] = d
	}
	for i, apply := range transitions {
		wg.Add(1)
		go func(i int, apply func(d *fiscal.Document) error) {
			defer wg.Done()
			<-start
			if err := apply(loaded[i]); err != nil {
				errs[i] = err
				return
			}
			errs[i] = repo.Update(ctx, loaded[i])
		}(i, apply)
	}
	close(start)
	wg.Wait()

	var conflicts, wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperror.ErrConcurrentModification):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	stored, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
	if stored.Status == fiscal.StatusAuthorized {
		assert.Empty(t, stored.ErrorMessage)
		assert.Equal(t, "prot", stored.Protocol)
	} else {
		assert.Equal(t, fiscal.StatusRejected, stored.Status)
		assert.Empty(t, stored.Protocol)
	}
}

func TestDocumentRepositoryFindByInvoiceAndList(t *testing.T) {
	ctx := tenantCtx("t1")
	repo := NewFiscalDocumentRepository()

	old := newDocument(t, "t1", "inv-1", 1)
	require.NoError(t, old.SetProviderReference("ref", now))
	require.NoError(t, old.Reject("duplicidade", now))
	require.NoError(t, repo.Create(ctx, old))
	recent := newDocument(t, "t1", "inv-1", 2)
	recent.CreatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, recent))
	other := newDocument(t, "t2", "inv-9", 3)
	require.NoError(t, repo.Create(tenantCtx("t2"), other))

	found, err := repo.FindByInvoiceID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, recent.ID, found.ID)

	_, err = repo.FindByInvoiceID(ctx, "inv-9")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	docs, err := repo.List(ctx, fiscal.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, recent.ID, docs[0].ID)

	docs, err = repo.List(ctx, fiscal.DocumentFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, old.ID, docs[0].ID)

	all, err := repo.List(context.Background(), fiscal.DocumentFilter{Status: fiscal.StatusDraft})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDocumentRepositoryOneLiveDocumentPerInvoice(t *testing.T) {
	ctx := tenantCtx("t1")
	repo := NewFiscalDocumentRepository()

	first := newDocument(t, "t1", "inv-1", 1)
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, newDocument(t, "t1", "inv-1", 2))
	assert.ErrorIs(t, err, apperror.ErrConcurrentModification)

	require.NoError(t, repo.Create(tenantCtx("t2"), newDocument(t, "t2", "inv-1", 3)))

	require.NoError(t, first.SetProviderReference("ref", now))
	require.NoError(t, first.Fail("timeout", now))
	require.NoError(t, repo.Update(ctx, first))

	replacement := newDocument(t, "t1", "inv-1", 4)
	require.NoError(t, repo.Create(ctx, replacement))

	found, err := repo.FindByInvoiceID(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, found.ID)
}

func TestFiscalRepositoryNumbering(t *testing.T) {
	ctx := tenantCtx("t1")
	repo := NewFiscalRepository()
	cfg, err := fiscal.NewConfiguration("t1", "branch-1", "12345678000195", "PR")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, cfg))

	dup, err := fiscal.NewConfiguration("t1", "branch-1", "12345678000195", "PR")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), apperror.ErrValidation)

	const workers = 20
	numbers := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.GetAndIncrementNFeNumber(ctx, "branch-1")
			assert.NoError(t, err)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[int]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "número %d repetido", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)

	stored, err := repo.FindByBranch(ctx, "branch-1")
	require.NoError(t, err)
	assert.Equal(t, workers+1, stored.NFeNextNumber)

	_, err = repo.GetAndIncrementNFeNumber(ctx, "branch-x")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTaxRuleRepositoryTenantIsolation(t *testing.T) {
	repo := NewTaxRuleRepository()
	rule, err := taxrule.NewRule("t1", taxrule.RuleData{
		SourceState: "SP", DestinationState: "RJ", OperationType: taxrule.OperationSales,
		CFOP: "6102", CST: "00", Rates: taxrule.Rates{ICMS: decimal.NewFromInt(12)},
	}, now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(tenantCtx("t1"), rule))

	_, err = repo.FindByID(tenantCtx("t2"), rule.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	found, err := repo.FindCandidates(tenantCtx("t1"), "SP", "RJ", taxrule.OperationSales)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	rule.Deactivate(now)
	require.NoError(t, repo.Update(tenantCtx("t1"), rule))
	found, err = repo.FindCandidates(tenantCtx("t1"), "SP", "RJ", taxrule.OperationSales)
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := repo.List(tenantCtx("t1"))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
