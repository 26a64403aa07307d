package catalog

import (
	"context"
	"slices"
	"sync"
)

// StaticSource serves a fixed set of plans. Set replaces them.
type StaticSource struct {
	mu       sync.RWMutex
	plans    []Plan
	features []PlanFeature
}

// NewStaticSource serves a fixed plan list. Tests and seeds use it.
func NewStaticSource(plans []Plan, features []PlanFeature) *StaticSource {
	s := &StaticSource{}
	s.Set(plans, features)
	return s
}

// Set replaces the served lists; the next Refresh picks them up.
func (s *StaticSource) Set(plans []Plan, features []PlanFeature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = slices.Clone(plans)
	s.features = slices.Clone(features)
}

func (s *StaticSource) Load(context.Context) ([]Plan, []PlanFeature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.plans), slices.Clone(s.features), nil
}
