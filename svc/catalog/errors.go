package catalog

import (
	"errors"

	"github.com/pedidoz/backoffice/pkg/apperr"
)

var (
	ErrPlanNotFound     = apperr.New(apperr.KindNotFound, "plan_not_found", "plan not found")
	ErrDuplicateFeature = errors.New("catalog: duplicate feature for plan")
	ErrUnknownPlan      = errors.New("catalog: feature references unknown plan")
	ErrCatalogNotLoaded = errors.New("catalog: no snapshot installed")
	ErrLoadFailed       = errors.New("catalog: failed to load plans")
)
