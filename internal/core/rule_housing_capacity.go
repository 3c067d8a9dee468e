package core

import (
	"context"
	"fmt"

	"sanctuary/pkg/domain"
)

// NewHousingCapacityRule returns the default rule enforcing housing capacity bounds.
func NewHousingCapacityRule() domain.Rule {
	return housingCapacityRule{}
}

type housingCapacityRule struct{}

func (housingCapacityRule) Name() string { return "housing_capacity" }

func (housingCapacityRule) Evaluate(_ context.Context, view domain.CensusView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, unit := range view.ListHousing() {
		if unit.AvailableCapacity >= 0 && unit.AvailableCapacity <= unit.TotalCapacity {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "housing_capacity",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("%s capacity out of bounds: %d available of %d", unit.Name, unit.AvailableCapacity, unit.TotalCapacity),
			Entity:   unit.Entity,
			EntityID: unit.Name,
		})
	}
	return res, nil
}
