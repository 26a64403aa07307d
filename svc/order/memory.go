package order

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryCatalog keeps products and add-ons in process memory.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]Product
	groups   map[string]ProductAdditional
	items    map[string]AdditionalItem
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		products: make(map[string]Product),
		groups:   make(map[string]ProductAdditional),
		items:    make(map[string]AdditionalItem),
	}
}

func (c *MemoryCatalog) PutProduct(p Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
	return nil
}

func (c *MemoryCatalog) PutAdditional(g ProductAdditional) error {
	if err := g.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[g.ID] = g
	return nil
}

func (c *MemoryCatalog) PutItem(i AdditionalItem) error {
	if err := i.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[i.ID] = i
	return nil
}

func (c *MemoryCatalog) GetProduct(_ context.Context, organizationID, productID string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[productID]
	if !ok || !p.IsActive || p.OrganizationID != organizationID {
		return nil, ErrProductUnknown
	}
	return &p, nil
}

func (c *MemoryCatalog) ListAdditionals(_ context.Context, productID string) ([]ProductAdditional, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []ProductAdditional
	for _, g := range c.groups {
		if g.ProductID == productID && g.IsActive {
			out = append(out, g)
		}
	}
	slices.SortFunc(out, func(a, b ProductAdditional) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}

func (c *MemoryCatalog) GetAdditionalItem(_ context.Context, itemID string) (*AdditionalItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.items[itemID]
	if !ok || !i.IsActive {
		return nil, ErrItemNotFound
	}
	return &i, nil
}

// MemoryRepository keeps orders in process memory.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[string]Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]Order)}
}

func (r *MemoryRepository) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, organizationID, id string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.lookup(organizationID, id)
	if err != nil {
		return nil, err
	}
	out := cloneOrder(o)
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, organizationID string, filter ListFilter) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		if o.IsActive && o.OrganizationID == organizationID && filter.match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	slices.SortFunc(out, func(a, b Order) int { return b.OrderDate.Compare(a.OrderDate) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) SetStatus(_ context.Context, organizationID, id string, from, to Status, at time.Time) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.lookup(organizationID, id)
	if err != nil {
		return nil, err
	}
	if o.Status != from {
		return nil, ErrStatusChanged
	}
	o.Status = to
	o.UpdatedAt = at
	r.orders[id] = o
	out := cloneOrder(o)
	return &out, nil
}

func (r *MemoryRepository) AddPayment(_ context.Context, organizationID, id string, p Payment, status PaymentStatus, at time.Time) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.lookup(organizationID, id)
	if err != nil {
		return nil, err
	}
	o = cloneOrder(o)
	o.Payments = append(o.Payments, p)
	o.PaymentStatus = status
	o.UpdatedAt = at
	r.orders[id] = o
	out := cloneOrder(o)
	return &out, nil
}

func (r *MemoryRepository) SoftDelete(_ context.Context, organizationID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.lookup(organizationID, id)
	if err != nil {
		return err
	}
	o.IsActive = false
	r.orders[id] = o
	return nil
}

func (r *MemoryRepository) lookup(organizationID, id string) (Order, error) {
	o, ok := r.orders[id]
	if !ok || !o.IsActive || o.OrganizationID != organizationID {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

func cloneOrder(o Order) Order {
	o.Products = slices.Clone(o.Products)
	for i := range o.Products {
		o.Products[i].Additionals = slices.Clone(o.Products[i].Additionals)
	}
	o.Tags = slices.Clone(o.Tags)
	o.Payments = slices.Clone(o.Payments)
	return o
}

var (
	_ Catalog    = (*MemoryCatalog)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
