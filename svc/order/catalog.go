package order

import "context"

// Catalog reads the product catalog of an organization.
type Catalog interface {
	// GetProduct returns an active product of the organization or ErrProductUnknown.
	GetProduct(ctx context.Context, organizationID, productID string) (*Product, error)
	// ListAdditionals returns the active add-on groups of a product ordered by position.
	ListAdditionals(ctx context.Context, productID string) ([]ProductAdditional, error)
	// GetAdditionalItem returns an active add-on item or ErrItemNotFound.
	GetAdditionalItem(ctx context.Context, itemID string) (*AdditionalItem, error)
}

// LimitChecker resolves the numeric plan limit of a feature for an organization.
// limited is false when the organization's plan does not cap the feature.
type LimitChecker interface {
	Limit(ctx context.Context, organizationID, feature string) (limit int64, limited bool, err error)
}

// ActivePlanFunc returns the plan id the organization currently runs on, or ""
// when it has none.
type ActivePlanFunc func(ctx context.Context, organizationID string) (string, error)

// FeatureLimits reads numeric feature limits of a plan.
type FeatureLimits interface {
	Limit(ctx context.Context, planID, feature string) (int64, bool)
}

// PlanLimits is a LimitChecker combining the active plan lookup with the plan catalog.
type PlanLimits struct {
	activePlan ActivePlanFunc
	features   FeatureLimits
}

// NewPlanLimits panics when either lookup is nil.
func NewPlanLimits(activePlan ActivePlanFunc, features FeatureLimits) *PlanLimits {
	if activePlan == nil {
		panic("order: ActivePlanFunc is required")
	}
	if features == nil {
		panic("order: FeatureLimits is required")
	}
	return &PlanLimits{activePlan: activePlan, features: features}
}

// Limit reports the feature limit of the organization's active plan.
// Organizations without a plan are not limited here.
func (l *PlanLimits) Limit(ctx context.Context, organizationID, feature string) (int64, bool, error) {
	planID, err := l.activePlan(ctx, organizationID)
	if err != nil {
		return 0, false, err
	}
	if planID == "" {
		return 0, false, nil
	}
	limit, limited := l.features.Limit(ctx, planID, feature)
	return limit, limited, nil
}
