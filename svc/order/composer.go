package order

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/pedidoz/backoffice/pkg/money"
	"github.com/pedidoz/backoffice/svc/catalog"
)

// ComposedOrder is the priced result of a RequestOrder.
type ComposedOrder struct {
	Products    []StoredProduct
	TotalAmount float64
}

// Composer validates requested products against the catalog and prices them.
// It does not write anything.
type Composer struct {
	catalog Catalog
	limits  LimitChecker
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithLimits enables plan gating of orders.
func WithLimits(l LimitChecker) ComposerOption {
	return func(c *Composer) { c.limits = l }
}

// NewComposer prices orders against cat.
func NewComposer(cat Catalog, opts ...ComposerOption) *Composer {
	if cat == nil {
		panic("order: Catalog is required")
	}
	c := &Composer{catalog: cat}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose validates req, snapshots every product with its add-ons and
// returns the priced order. Nothing is stored.
func (c *Composer) Compose(ctx context.Context, organizationID string, req RequestOrder) (*ComposedOrder, error) {
	products := make([]StoredProduct, 0, len(req.Products))
	for i, rp := range req.Products {
		sp, err := c.composeProduct(ctx, organizationID, rp)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		products = append(products, *sp)
	}

	if err := c.checkLimits(ctx, organizationID, req, products); err != nil {
		return nil, err
	}

	return &ComposedOrder{
		Products:    products,
		TotalAmount: Total(req.Delivery.Value, req.Additional, req.Discount, products),
	}, nil
}

func (c *Composer) composeProduct(ctx context.Context, organizationID string, rp RequestedProduct) (*StoredProduct, error) {
	p, err := c.catalog.GetProduct(ctx, organizationID, rp.ProductID)
	if err != nil {
		return nil, err
	}

	groups, err := c.catalog.ListAdditionals(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(groups, func(a, b ProductAdditional) int { return cmp.Compare(a.Position, b.Position) })
	byID := make(map[string]ProductAdditional, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	selected := make(map[string]int, len(groups))
	perItem := make(map[string]int, len(rp.Additionals))
	prices := []float64{p.UnitPrice}
	costs := []float64{p.UnitCost}
	stored := make([]StoredAdditionalItem, 0, len(rp.Additionals))

	for _, ra := range rp.Additionals {
		item, err := c.catalog.GetAdditionalItem(ctx, ra.ItemID)
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAdditionalNotApplicable, ra.ItemID)
		}
		if err != nil {
			return nil, err
		}
		if _, ok := byID[item.AdditionalID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrAdditionalNotApplicable, item.ID)
		}

		selected[item.AdditionalID] += ra.Quantity
		perItem[item.ID] += ra.Quantity
		prices = append(prices, money.Mul(item.UnitPrice, float64(ra.Quantity)))
		costs = append(costs, money.Mul(item.UnitCost, float64(ra.Quantity)))
		stored = append(stored, StoredAdditionalItem{
			ItemID:       item.ID,
			AdditionalID: item.AdditionalID,
			Label:        item.Label,
			UnitPrice:    item.UnitPrice,
			UnitCost:     item.UnitCost,
			Quantity:     ra.Quantity,
		})
	}

	for _, g := range groups {
		if !g.Accepts(selected[g.ID]) {
			return nil, fmt.Errorf("%w: group %q takes %d to %d, got %d",
				ErrAdditionalQuantityInvalid, g.Name, g.MinQuantity, g.MaxQuantity, selected[g.ID])
		}
	}
	for _, s := range stored {
		if byID[s.AdditionalID].SelectionType == SelectionRadio && perItem[s.ItemID] > 1 {
			return nil, fmt.Errorf("%w: %q can be picked once", ErrAdditionalQuantityInvalid, s.Label)
		}
	}

	return &StoredProduct{
		ProductID:   p.ID,
		Name:        p.Name,
		UnitPrice:   money.Sum(prices...),
		UnitCost:    money.Sum(costs...),
		Quantity:    rp.Quantity,
		Additionals: stored,
	}, nil
}

type featureCount struct {
	feature string
	count   int
}

type featureLimit struct {
	limit   int64
	limited bool
}

func (c *Composer) checkLimits(ctx context.Context, organizationID string, req RequestOrder, products []StoredProduct) error {
	if c.limits == nil {
		return nil
	}

	counts := []featureCount{
		{catalog.FeatureMaxTagsPerOrder, len(req.Tags)},
		{catalog.FeatureMaxProductsPerOrder, len(products)},
	}
	for _, p := range products {
		n := 0
		for _, a := range p.Additionals {
			n += a.Quantity
		}
		counts = append(counts, featureCount{catalog.FeatureMaxAdditionalsPerProduct, n})
	}

	resolved := make(map[string]featureLimit, 3)
	for _, fc := range counts {
		fl, ok := resolved[fc.feature]
		if !ok {
			limit, limited, err := c.limits.Limit(ctx, organizationID, fc.feature)
			if err != nil {
				return err
			}
			fl = featureLimit{limit: limit, limited: limited}
			resolved[fc.feature] = fl
		}
		if fl.limited && int64(fc.count) > fl.limit {
			return fmt.Errorf("%w: %s is %d, got %d", ErrPlanLimitExceeded, fc.feature, fl.limit, fc.count)
		}
	}
	return nil
}
