// Package housing implements the two kinds of sanctuary housing: the intake
// Isolation with one cage slot per occupant, and species-designated
// Enclosures whose capacity is consumed by size-weighted footprints.
package housing

import (
	"sort"

	"sanctuary/pkg/domain"
)

// NoSpeciesFound is the single entry reported by SpeciesPresent for an empty
// unit.
const NoSpeciesFound = "No Species Found"

// Unit is the capability set shared by every housing kind.
type Unit interface {
	Name() string
	Kind() domain.EntityType
	// Add admits an animal or rejects it leaving the unit unchanged.
	Add(m *domain.Monkey) error
	HasSpace() bool
	Lookup(name string) (*domain.Monkey, bool)
	// SpeciesPresent lists distinct occupant species in lexicographic
	// order, or []string{NoSpeciesFound} when the unit is empty.
	SpeciesPresent() []string
	// OccupantsSummary renders every occupant in name order.
	OccupantsSummary() []string
	ContainsSpecies(species domain.Species) bool
	TotalCapacity() int
	AvailableCapacity() int
	Occupancy() int
}

// roster holds the occupants of a unit keyed by name.
type roster struct {
	occupants map[string]*domain.Monkey
}

func newRoster() roster {
	return roster{occupants: make(map[string]*domain.Monkey)}
}

func (r roster) names() []string {
	names := make([]string, 0, len(r.occupants))
	for name := range r.occupants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r roster) has(name string) bool {
	_, ok := r.occupants[name]
	return ok
}

func (r roster) lookup(name string) (*domain.Monkey, bool) {
	m, ok := r.occupants[name]
	return m, ok
}

func (r roster) sorted() []*domain.Monkey {
	out := make([]*domain.Monkey, 0, len(r.occupants))
	for _, name := range r.names() {
		out = append(out, r.occupants[name])
	}
	return out
}

func (r roster) speciesPresent() []string {
	seen := make(map[domain.Species]struct{}, len(r.occupants))
	for _, m := range r.occupants {
		seen[m.Species()] = struct{}{}
	}
	if len(seen) == 0 {
		return []string{NoSpeciesFound}
	}
	out := make([]string, 0, len(seen))
	for species := range seen {
		out = append(out, species.String())
	}
	sort.Strings(out)
	return out
}

func (r roster) summary() []string {
	out := make([]string, 0, len(r.occupants))
	for _, m := range r.sorted() {
		out = append(out, m.String())
	}
	return out
}

func (r roster) containsSpecies(species domain.Species) bool {
	for _, m := range r.occupants {
		if m.Species() == species {
			return true
		}
	}
	return false
}

// copy returns a roster sharing the occupant records.
func (r roster) copy() roster {
	cp := roster{occupants: make(map[string]*domain.Monkey, len(r.occupants))}
	for name, m := range r.occupants {
		cp.occupants[name] = m
	}
	return cp
}

// clone returns a roster holding independent copies of the occupant records.
func (r roster) clone() roster {
	cp := roster{occupants: make(map[string]*domain.Monkey, len(r.occupants))}
	for name, m := range r.occupants {
		cp.occupants[name] = m.Clone()
	}
	return cp
}

// View captures the unit as a read-only domain.HousingView.
func View(u Unit) domain.HousingView {
	view := domain.HousingView{
		Name:              u.Name(),
		Entity:            u.Kind(),
		TotalCapacity:     u.TotalCapacity(),
		AvailableCapacity: u.AvailableCapacity(),
	}
	switch typed := u.(type) {
	case *Enclosure:
		view.Designation = typed.Designation()
		view.Occupants = typed.occupants.clone().sorted()
	case *Isolation:
		view.Occupants = typed.occupants.clone().sorted()
	}
	return view
}
