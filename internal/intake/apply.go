package intake

import (
	"context"
	"fmt"

	"sanctuary/internal/core"
	"sanctuary/pkg/domain"
)

// Step names the manifest stage a rejection came from.
type Step string

const (
	StepCreate   Step = "create"
	StepRegister Step = "register"
	StepTransfer Step = "transfer"
)

// Rejection is an arrival the sanctuary refused. Rejections are part of a
// normal run and do not stop the manifest.
type Rejection struct {
	Step   Step
	Animal string
	Err    error
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s %s: %v", r.Step, r.Animal, r.Err)
}

// Placement records where a transferred animal ended up.
type Placement struct {
	Animal    string
	Enclosure string
}

// Outcome summarises a manifest run.
type Outcome struct {
	Registered []string
	Placements []Placement
	Rejections []Rejection
	// Warnings holds non-blocking rule violations in the order raised.
	Warnings []domain.Violation
}

func (o *Outcome) warn(res core.Result) {
	o.Warnings = append(o.Warnings, res.Violations...)
}

// Apply replays m against svc: isolation, enclosures, registrations, the
// capacity increase, then transfers. Housing construction failures abort;
// refused arrivals are collected in the Outcome.
func Apply(ctx context.Context, svc *core.Service, m *Manifest) (Outcome, error) {
	var out Outcome
	if err := m.Validate(); err != nil {
		return out, err
	}

	res, err := svc.CreateIsolation(ctx, m.Isolation.Capacity)
	if err != nil {
		return out, fmt.Errorf("create isolation: %w", err)
	}
	out.warn(res)
	for _, enc := range m.Enclosures {
		species, _ := domain.ParseSpecies(enc.Species)
		_, res, err := svc.CreateEnclosure(ctx, enc.Name, enc.Capacity, species)
		if err != nil {
			return out, fmt.Errorf("create enclosure %s: %w", enc.Name, err)
		}
		out.warn(res)
	}

	for _, ms := range m.Monkeys {
		v, _ := ms.vocabulary()
		monkey, err := svc.CreateAnimal(ms.Name, v.species, v.sex, v.size, ms.Weight, ms.AgeMonths, v.food)
		if err != nil {
			out.Rejections = append(out.Rejections, Rejection{Step: StepCreate, Animal: ms.Name, Err: err})
			continue
		}
		res, err := svc.RegisterAnimal(ctx, monkey)
		if err != nil {
			if !core.IsRejection(err) {
				return out, fmt.Errorf("register %s: %w", ms.Name, err)
			}
			out.Rejections = append(out.Rejections, Rejection{Step: StepRegister, Animal: ms.Name, Err: err})
			continue
		}
		out.warn(res)
		out.Registered = append(out.Registered, ms.Name)
	}

	if m.Isolation.Increase > 0 {
		res, err := svc.IncreaseIsolationCapacity(ctx, m.Isolation.Increase)
		if err != nil {
			return out, fmt.Errorf("increase isolation capacity: %w", err)
		}
		out.warn(res)
	}

	for _, name := range m.Transfers {
		enc, res, err := svc.TransferByName(ctx, name)
		if err != nil {
			if !core.IsRejection(err) {
				return out, fmt.Errorf("transfer %s: %w", name, err)
			}
			out.Rejections = append(out.Rejections, Rejection{Step: StepTransfer, Animal: name, Err: err})
			continue
		}
		out.warn(res)
		out.Placements = append(out.Placements, Placement{Animal: name, Enclosure: enc.Name()})
	}
	return out, nil
}
