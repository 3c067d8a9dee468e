package core

import (
	"context"
	"fmt"

	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

// NewIsolationDriftRule warns when the isolation reports fewer free cages
// than its occupancy implies, which happens under legacy accounting.
func NewIsolationDriftRule() domain.Rule {
	return isolationDriftRule{}
}

type isolationDriftRule struct{}

func (isolationDriftRule) Name() string { return "isolation_drift" }

func (isolationDriftRule) Evaluate(_ context.Context, view domain.CensusView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	iso, ok := view.FindHousing(housing.IsolationName)
	if !ok || iso.Entity != domain.EntityIsolation {
		return res, nil
	}
	expected := iso.TotalCapacity - len(iso.Occupants)
	if iso.AvailableCapacity < expected {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "isolation_drift",
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("isolation reports %d free cages but %d are unoccupied", iso.AvailableCapacity, expected),
			Entity:   domain.EntityIsolation,
			EntityID: iso.Name,
		})
	}
	return res, nil
}
