package core

import (
	"context"
	"fmt"
	"strings"

	"sanctuary/pkg/domain"
)

// NewRegistryIntegrityRule blocks states where an animal is housed in more
// than one unit and reports registered animals that are housed nowhere.
func NewRegistryIntegrityRule() domain.Rule {
	return registryIntegrityRule{}
}

type registryIntegrityRule struct{}

func (registryIntegrityRule) Name() string { return "registry_integrity" }

func (registryIntegrityRule) Evaluate(_ context.Context, view domain.CensusView, _ []domain.Change) (domain.Result, error) {
	locations := make(map[string][]string)
	for _, unit := range view.ListHousing() {
		for _, m := range unit.Occupants {
			locations[m.Name()] = append(locations[m.Name()], unit.Name)
		}
	}

	res := domain.Result{}
	for _, m := range view.ListAnimals() {
		switch units := locations[m.Name()]; {
		case len(units) > 1:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "registry_integrity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s is housed in several units: %s", m.Name(), strings.Join(units, ", ")),
				Entity:   domain.EntityMonkey,
				EntityID: m.Name(),
			})
		case len(units) == 0:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "registry_integrity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("%s is registered but not housed", m.Name()),
				Entity:   domain.EntityMonkey,
				EntityID: m.Name(),
			})
		}
	}
	return res, nil
}
