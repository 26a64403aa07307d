package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Snapshot is an immutable view of the plan catalog.
type Snapshot struct {
	plans    map[string]Plan
	features map[string]map[string]PlanFeature
	loadedAt time.Time
}

// NewSnapshot validates plans and features and indexes them. Inactive records
// are skipped. Feature names must be unique per plan.
func NewSnapshot(plans []Plan, features []PlanFeature, loadedAt time.Time) (*Snapshot, error) {
	s := &Snapshot{
		plans:    make(map[string]Plan, len(plans)),
		features: make(map[string]map[string]PlanFeature, len(plans)),
		loadedAt: loadedAt,
	}
	for _, p := range plans {
		if !p.IsActive {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("plan %q: %w", p.ID, err)
		}
		s.plans[p.ID] = p
	}
	for _, f := range features {
		if !f.IsActive {
			continue
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Name, err)
		}
		if _, ok := s.plans[f.PlanID]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownPlan, f.PlanID, f.Name)
		}
		byName, ok := s.features[f.PlanID]
		if !ok {
			byName = make(map[string]PlanFeature)
			s.features[f.PlanID] = byName
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateFeature, f.PlanID, f.Name)
		}
		byName[f.Name] = f
	}
	return s, nil
}

func emptySnapshot() *Snapshot {
	return &Snapshot{plans: map[string]Plan{}, features: map[string]map[string]PlanFeature{}}
}

// Plan looks an active plan up by id.
func (s *Snapshot) Plan(id string) (Plan, bool) {
	p, ok := s.plans[id]
	return p, ok
}

// Features returns the plan's features ordered by name.
func (s *Snapshot) Features(planID string) []PlanFeature {
	byName := s.features[planID]
	out := make([]PlanFeature, 0, len(byName))
	for _, f := range byName {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b PlanFeature) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Feature returns the named feature of a plan.
func (s *Snapshot) Feature(planID, name string) (PlanFeature, bool) {
	f, ok := s.features[planID][name]
	return f, ok
}

// Limit returns the numeric limit of a feature. limited is false when the
// feature is missing or Unlimited.
func (s *Snapshot) Limit(planID, name string) (limit int64, limited bool) {
	f, ok := s.Feature(planID, name)
	if !ok {
		return Unlimited, false
	}
	l := f.Limit()
	return l, l != Unlimited
}

// Public returns the plans offered to customers, cheapest first.
func (s *Snapshot) Public() []Plan {
	out := make([]Plan, 0, len(s.plans))
	for _, p := range s.plans {
		if !p.Hidden {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b Plan) int {
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Len is the number of active plans.
func (s *Snapshot) Len() int {
	return len(s.plans)
}

func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}
