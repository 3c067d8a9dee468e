package core

import (
	"context"

	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

// TransferToEnclosure moves an animal from the isolation into the first
// enclosure that can take it and returns a copy of that enclosure.
//
// The animal must still be in the isolation with the same field values as m.
// Enclosures already designated for its species are tried first, in creation
// order; only when none has room is the first empty enclosure with room used.
func (s *Service) TransferToEnclosure(ctx context.Context, m *domain.Monkey) (*housing.Enclosure, Result, error) {
	if m == nil {
		res, err := s.run(ctx, "transfer_to_enclosure", domain.EntityMonkey, "", func() ([]domain.Change, error) {
			return nil, domain.ValidationError{Entity: domain.EntityMonkey, Field: "record", Reason: "monkey is required"}
		})
		return nil, res, err
	}
	var target *housing.Enclosure
	res, err := s.run(ctx, "transfer_to_enclosure", domain.EntityMonkey, m.Name(), func() ([]domain.Change, error) {
		if s.isolation == nil {
			return nil, ErrNoIsolation
		}
		housed, ok := s.isolation.Lookup(m.Name())
		if !ok || !housed.Equal(m) {
			return nil, domain.HousingError{Kind: domain.ErrNotFound, Housing: s.isolation.Name(), Animal: describe(m), Detail: "monkey is not in isolation"}
		}
		idx := selectEnclosure(s.enclosures, housed.Species(), housed.Footprint())
		if idx < 0 {
			return nil, domain.HousingError{Kind: domain.ErrNoEnclosureAvailable, Animal: describe(m), Detail: "no enclosure found for the monkey"}
		}
		enc := s.enclosures[idx]
		if err := s.isolation.Remove(housed); err != nil {
			return nil, err
		}
		if err := enc.Add(housed); err != nil {
			return nil, err
		}
		target = enc
		return []domain.Change{{Entity: domain.EntityMonkey, Action: domain.ActionTransfer, Name: housed.Name(), From: s.isolation.Name(), To: enc.Name()}}, nil
	})
	if err != nil {
		return nil, res, err
	}
	return target.Clone(), res, nil
}

// TransferByName transfers the isolated animal with the given name.
func (s *Service) TransferByName(ctx context.Context, name string) (*housing.Enclosure, Result, error) {
	if s.isolation != nil {
		if housed, ok := s.isolation.Lookup(name); ok {
			return s.TransferToEnclosure(ctx, housed.Clone())
		}
	}
	res, err := s.run(ctx, "transfer_to_enclosure", domain.EntityMonkey, name, func() ([]domain.Change, error) {
		if s.isolation == nil {
			return nil, ErrNoIsolation
		}
		return nil, domain.HousingError{Kind: domain.ErrNotFound, Housing: s.isolation.Name(), Animal: name, Detail: "monkey is not in isolation"}
	})
	return nil, res, err
}

// selectEnclosure returns the index of the enclosure that should receive an
// animal of the given species and footprint, or -1 when none can.
func selectEnclosure(enclosures []*housing.Enclosure, species domain.Species, footprint int) int {
	for i, enc := range enclosures {
		if enc.Designation() == species && enc.AvailableCapacity() >= footprint {
			return i
		}
	}
	for i, enc := range enclosures {
		if enc.IsEmpty() && enc.AvailableCapacity() >= footprint {
			return i
		}
	}
	return -1
}

func describe(m *domain.Monkey) string {
	return m.Name() + " (" + m.Species().String() + ")"
}
