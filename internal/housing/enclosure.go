package housing

import (
	"fmt"
	"strings"

	"sanctuary/pkg/domain"
)

// Enclosure houses animals of a single designated species. Capacity is
// measured in area units and each occupant consumes its size footprint.
type Enclosure struct {
	name        string
	designation domain.Species
	occupants   roster
	total       int
	available   int
}

var _ Unit = (*Enclosure)(nil)

// NewEnclosure creates an enclosure designated for species.
func NewEnclosure(name string, capacity int, species domain.Species) (*Enclosure, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ValidationError{Entity: domain.EntityEnclosure, Field: "name", Reason: "enclosure name is required"}
	}
	if capacity <= 0 {
		return nil, domain.ValidationError{Entity: domain.EntityEnclosure, Field: "capacity", Reason: "enclosure size cannot be 0 or less"}
	}
	if !species.Valid() {
		return nil, domain.ValidationError{Entity: domain.EntityEnclosure, Field: "species", Reason: fmt.Sprintf("unknown species %q", species)}
	}
	return &Enclosure{
		name:        name,
		designation: species,
		occupants:   newRoster(),
		total:       capacity,
		available:   capacity,
	}, nil
}

func (e *Enclosure) Name() string            { return e.name }
func (e *Enclosure) Kind() domain.EntityType { return domain.EntityEnclosure }
func (e *Enclosure) TotalCapacity() int      { return e.total }
func (e *Enclosure) AvailableCapacity() int  { return e.available }
func (e *Enclosure) Occupancy() int          { return len(e.occupants.occupants) }
func (e *Enclosure) HasSpace() bool          { return e.available > 0 }

// Designation returns the species the enclosure currently admits.
func (e *Enclosure) Designation() domain.Species { return e.designation }

// IsEmpty reports whether no capacity is consumed.
func (e *Enclosure) IsEmpty() bool { return e.total-e.available == 0 }

// CanAdmit reports whether an animal of the given species and footprint
// would be admitted, without changing the enclosure.
func (e *Enclosure) CanAdmit(species domain.Species, footprint int) bool {
	if !e.IsEmpty() && species != e.designation {
		return false
	}
	return e.available >= footprint
}

// Add admits an animal. An empty enclosure adopts the incoming species as its
// designation before any other check runs; an occupied enclosure rejects a
// different species regardless of space.
func (e *Enclosure) Add(m *domain.Monkey) error {
	if m == nil {
		return domain.ValidationError{Entity: domain.EntityMonkey, Field: "record", Reason: "monkey is required"}
	}
	if e.IsEmpty() && e.designation != m.Species() {
		e.designation = m.Species()
	}
	if e.designation != m.Species() {
		return domain.HousingError{
			Kind:    domain.ErrSpeciesMismatch,
			Housing: e.name,
			Animal:  fmt.Sprintf("%s (%s)", m.Name(), m.Species()),
			Detail:  fmt.Sprintf("enclosure is designated for %s", e.designation),
		}
	}
	if e.available < m.Footprint() {
		return domain.HousingError{
			Kind:    domain.ErrCapacityExceeded,
			Housing: e.name,
			Animal:  m.Name(),
			Detail:  fmt.Sprintf("needs %d units, %d available", m.Footprint(), e.available),
		}
	}
	if e.occupants.has(m.Name()) {
		return domain.HousingError{Kind: domain.ErrDuplicateOccupant, Housing: e.name, Animal: m.Name(), Detail: "an animal with the same name is already housed here"}
	}
	e.occupants.occupants[m.Name()] = m
	e.available -= m.Footprint()
	return nil
}

// Refit adjusts consumed capacity after an occupant's size class changes
// from oldSize to its current size. It fails without changes when the new
// footprint does not fit.
func (e *Enclosure) Refit(name string, oldSize domain.Size) error {
	m, ok := e.occupants.lookup(name)
	if !ok {
		return domain.HousingError{Kind: domain.ErrNotFound, Housing: e.name, Animal: name, Detail: "animal is not housed here"}
	}
	delta := m.Footprint() - oldSize.Footprint()
	if delta > e.available {
		return domain.HousingError{
			Kind:    domain.ErrCapacityExceeded,
			Housing: e.name,
			Animal:  name,
			Detail:  fmt.Sprintf("growing to %s needs %d more units, %d available", m.Size(), delta, e.available),
		}
	}
	e.available -= delta
	return nil
}

func (e *Enclosure) Lookup(name string) (*domain.Monkey, bool) { return e.occupants.lookup(name) }
func (e *Enclosure) SpeciesPresent() []string                  { return e.occupants.speciesPresent() }
func (e *Enclosure) OccupantsSummary() []string                { return e.occupants.summary() }

func (e *Enclosure) ContainsSpecies(species domain.Species) bool {
	return e.occupants.containsSpecies(species)
}

// SignBoard lists the occupants for display at the enclosure, one line per
// animal in name order.
func (e *Enclosure) SignBoard() []string { return e.occupants.summary() }

// Clone returns an independent copy including copies of every occupant.
func (e *Enclosure) Clone() *Enclosure {
	cp := *e
	cp.occupants = e.occupants.clone()
	return &cp
}

// Snapshot returns a copy whose roster shares the occupant records. It is
// used to roll back a rejected operation.
func (e *Enclosure) Snapshot() *Enclosure {
	cp := *e
	cp.occupants = e.occupants.copy()
	return &cp
}
