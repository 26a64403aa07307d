package billing

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pedidoz/backoffice/pkg/clock"
)

// MemoryPlanLedger is an in-process PlanLedger.
type MemoryPlanLedger struct {
	mu    sync.Mutex
	plans map[string]OrganizationPlan
}

// NewMemoryPlanLedger returns an empty ledger.
func NewMemoryPlanLedger() *MemoryPlanLedger {
	return &MemoryPlanLedger{plans: make(map[string]OrganizationPlan)}
}

func (l *MemoryPlanLedger) Create(_ context.Context, p *OrganizationPlan) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plans[p.ID] = *p
	return nil
}

func (l *MemoryPlanLedger) Get(_ context.Context, id string) (*OrganizationPlan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.plans[id]
	if !ok || !p.IsActive {
		return nil, ErrOrganizationPlanNotFound
	}
	return &p, nil
}

func (l *MemoryPlanLedger) SearchActivePlan(_ context.Context, organizationID string, at time.Time) (*OrganizationPlan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var found *OrganizationPlan
	for _, p := range l.plans {
		if p.OrganizationID != organizationID || !p.ActiveAt(at) {
			continue
		}
		if found == nil || p.StartDate.After(found.StartDate) {
			found = &p
		}
	}
	if found == nil {
		return nil, ErrNoActivePlan
	}
	return found, nil
}

func (l *MemoryPlanLedger) CheckIfPeriodIsAvailable(_ context.Context, organizationID string, start, end time.Time) ([]OrganizationPlan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []OrganizationPlan
	for _, p := range l.plans {
		if p.OrganizationID == organizationID && p.Overlaps(start, end) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b OrganizationPlan) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (l *MemoryPlanLedger) TruncateEnd(_ context.Context, id string, end time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.plans[id]
	if !ok || !p.IsActive {
		return false, ErrOrganizationPlanNotFound
	}
	if !p.EndDate.After(end) {
		return false, nil
	}
	p.EndDate = clock.Min(p.EndDate, end)
	if !p.EndDate.After(p.StartDate) {
		p.IsActive = false
	}
	l.plans[id] = p
	return true, nil
}

// MemoryInvoiceLedger is an in-process InvoiceLedger.
type MemoryInvoiceLedger struct {
	mu       sync.Mutex
	invoices map[string]Invoice
}

// NewMemoryInvoiceLedger returns an empty ledger.
func NewMemoryInvoiceLedger() *MemoryInvoiceLedger {
	return &MemoryInvoiceLedger{invoices: make(map[string]Invoice)}
}

func (l *MemoryInvoiceLedger) Create(_ context.Context, inv *Invoice) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.invoices {
		if existing.IntegrationType == inv.IntegrationType && existing.IntegrationID == inv.IntegrationID {
			return ErrDuplicateIntegration
		}
	}
	l.invoices[inv.ID] = *inv
	return nil
}

func (l *MemoryInvoiceLedger) Get(_ context.Context, id string) (*Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.invoices[id]
	if !ok || !inv.IsActive {
		return nil, ErrInvoiceNotFound
	}
	return &inv, nil
}

func (l *MemoryInvoiceLedger) FindByIntegration(_ context.Context, integrationType, integrationID string) (*Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, inv := range l.invoices {
		if inv.IsActive && inv.IntegrationType == integrationType && inv.IntegrationID == integrationID {
			return &inv, nil
		}
	}
	return nil, ErrInvoiceNotFound
}

func (l *MemoryInvoiceLedger) ListByOrganizationPlan(_ context.Context, organizationPlanID string) ([]Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Invoice
	for _, inv := range l.invoices {
		if inv.IsActive && inv.OrganizationPlanID == organizationPlanID {
			out = append(out, inv)
		}
	}
	slices.SortFunc(out, byCreatedAt)
	return out, nil
}

func (l *MemoryInvoiceLedger) LatestPaid(_ context.Context, organizationPlanID string) (*Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var latest *Invoice
	for _, inv := range l.invoices {
		if !inv.IsActive || inv.OrganizationPlanID != organizationPlanID || inv.Status != StatusPaid || inv.PaidAt == nil {
			continue
		}
		if latest == nil || inv.PaidAt.After(*latest.PaidAt) {
			latest = &inv
		}
	}
	if latest == nil {
		return nil, ErrNoPaidInvoice
	}
	return latest, nil
}

func (l *MemoryInvoiceLedger) CompareAndSetStatus(_ context.Context, id string, from Status, patch StatusPatch) (*Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.invoices[id]
	if !ok || !inv.IsActive {
		return nil, ErrInvoiceNotFound
	}
	if inv.Status != from {
		return nil, ErrStatusConflict
	}
	inv = patch.Apply(inv)
	l.invoices[id] = inv
	return &inv, nil
}

func (l *MemoryInvoiceLedger) ListPendingOlderThan(_ context.Context, t time.Time) ([]Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Invoice
	for _, inv := range l.invoices {
		if inv.IsActive && inv.Status == StatusPending && inv.CreatedAt.Before(t) {
			out = append(out, inv)
		}
	}
	slices.SortFunc(out, byCreatedAt)
	return out, nil
}

func (l *MemoryInvoiceLedger) SetPreapproval(_ context.Context, id, preapprovalID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.invoices[id]
	if !ok || !inv.IsActive {
		return ErrInvoiceNotFound
	}
	inv.PreapprovalID = preapprovalID
	l.invoices[id] = inv
	return nil
}

func byCreatedAt(a, b Invoice) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
