package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pedidoz/backoffice/pkg/ident"
)

// seedFile is the layout of the plan seed file:
//
//	plans:
//	  - id: pln_basic
//	    name: Básico
//	    price: 29.90
//	    features:
//	      - name: max_tags_per_order
//	        value: "3"
type seedFile struct {
	Plans []seedPlan `yaml:"plans"`
}

type seedPlan struct {
	Plan     `yaml:",inline"`
	Features []PlanFeature `yaml:"features"`
}

// YAMLSource reads plans from a seed file. Records are always active.
type YAMLSource struct {
	path string
	data []byte
}

// NewYAMLFileSource reads path on every Load, so edits apply on the next refresh.
func NewYAMLFileSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// NewYAMLSource parses an in-memory document, typically an embedded seed.
func NewYAMLSource(data []byte) *YAMLSource {
	return &YAMLSource{data: data}
}

func (s *YAMLSource) Load(context.Context) ([]Plan, []PlanFeature, error) {
	data := s.data
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog: read seed file: %w", err)
		}
		data = raw
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("catalog: parse seed file: %w", err)
	}

	plans := make([]Plan, 0, len(f.Plans))
	var features []PlanFeature
	for _, sp := range f.Plans {
		p := sp.Plan
		p.IsActive = true
		plans = append(plans, p)
		for _, feat := range sp.Features {
			feat.PlanID = p.ID
			feat.IsActive = true
			if feat.ID == "" {
				feat.ID = ident.Derive(ident.PlanFeature, p.ID+"/"+feat.Name)
			}
			features = append(features, feat)
		}
	}
	return plans, features, nil
}
