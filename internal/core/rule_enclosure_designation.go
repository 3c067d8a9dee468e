package core

import (
	"context"
	"fmt"

	"sanctuary/pkg/domain"
)

// NewEnclosureDesignationRule flags enclosures holding animals of a species
// other than the one on their sign.
func NewEnclosureDesignationRule() domain.Rule {
	return enclosureDesignationRule{}
}

type enclosureDesignationRule struct{}

func (enclosureDesignationRule) Name() string { return "enclosure_designation" }

func (enclosureDesignationRule) Evaluate(_ context.Context, view domain.CensusView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, unit := range view.ListHousing() {
		if unit.Entity != domain.EntityEnclosure {
			continue
		}
		for _, m := range unit.Occupants {
			if m.Species() == unit.Designation {
				continue
			}
			// Zero-footprint occupants leave an enclosure empty, so a later
			// admission may legitimately redesignate it around them.
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "enclosure_designation",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("%s is designated %s but houses %s (%s)", unit.Name, unit.Designation, m.Name(), m.Species()),
				Entity:   domain.EntityEnclosure,
				EntityID: unit.Name,
			})
		}
	}
	return res, nil
}
