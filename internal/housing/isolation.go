package housing

import (
	"fmt"

	"sanctuary/pkg/domain"
)

// IsolationName is the name reported for the sanctuary's single isolation.
const IsolationName = "Isolation"

// Accounting selects how removing an occupant affects available cage slots.
type Accounting string

const (
	// AccountingRestore frees the occupant's slot on removal.
	AccountingRestore Accounting = "restore"
	// AccountingLegacy consumes a slot a second time on removal, matching the
	// historical registry. Available capacity is clamped at zero.
	AccountingLegacy Accounting = "legacy"
)

// Valid reports whether a is a known accounting mode.
func (a Accounting) Valid() bool {
	return a == AccountingRestore || a == AccountingLegacy
}

// ParseAccounting resolves an accounting mode; blank selects AccountingRestore.
func ParseAccounting(raw string) (Accounting, error) {
	if raw == "" {
		return AccountingRestore, nil
	}
	a := Accounting(raw)
	if !a.Valid() {
		return "", domain.ValidationError{Entity: domain.EntityIsolation, Field: "accounting", Reason: fmt.Sprintf("unknown accounting mode %q", raw)}
	}
	return a, nil
}

// Option configures an Isolation.
type Option func(*Isolation)

// WithAccounting selects the removal accounting mode.
func WithAccounting(a Accounting) Option {
	return func(i *Isolation) {
		if a.Valid() {
			i.accounting = a
		}
	}
}

// Isolation is the transit holding area new arrivals enter. Every occupant
// takes exactly one cage regardless of size.
type Isolation struct {
	occupants  roster
	total      int
	available  int
	accounting Accounting
}

var _ Unit = (*Isolation)(nil)

// NewIsolation creates an isolation with the given number of cages.
func NewIsolation(capacity int, opts ...Option) (*Isolation, error) {
	if capacity <= 0 {
		return nil, domain.ValidationError{Entity: domain.EntityIsolation, Field: "capacity", Reason: "isolation capacity cannot be 0 or less"}
	}
	iso := &Isolation{
		occupants:  newRoster(),
		total:      capacity,
		available:  capacity,
		accounting: AccountingRestore,
	}
	for _, opt := range opts {
		opt(iso)
	}
	return iso, nil
}

func (i *Isolation) Name() string            { return IsolationName }
func (i *Isolation) Kind() domain.EntityType { return domain.EntityIsolation }
func (i *Isolation) TotalCapacity() int      { return i.total }
func (i *Isolation) AvailableCapacity() int  { return i.available }
func (i *Isolation) Occupancy() int          { return len(i.occupants.occupants) }
func (i *Isolation) HasSpace() bool          { return i.available > 0 }

// Accounting returns the removal accounting mode in effect.
func (i *Isolation) Accounting() Accounting { return i.accounting }

// Add places an animal in a free cage.
func (i *Isolation) Add(m *domain.Monkey) error {
	if m == nil {
		return domain.ValidationError{Entity: domain.EntityMonkey, Field: "record", Reason: "monkey is required"}
	}
	if i.available <= 0 {
		return domain.HousingError{Kind: domain.ErrCapacityExceeded, Housing: IsolationName, Animal: m.Name(), Detail: "no cage available, contact another facility"}
	}
	if i.occupants.has(m.Name()) {
		return domain.HousingError{Kind: domain.ErrDuplicateOccupant, Housing: IsolationName, Animal: m.Name(), Detail: "an animal with the same name is already in isolation"}
	}
	i.occupants.occupants[m.Name()] = m
	i.available--
	return nil
}

// Remove takes an animal out of isolation. The animal must be housed here
// with identical attributes.
func (i *Isolation) Remove(m *domain.Monkey) error {
	if m == nil {
		return domain.ValidationError{Entity: domain.EntityMonkey, Field: "record", Reason: "monkey is required"}
	}
	housed, ok := i.occupants.lookup(m.Name())
	if !ok || !housed.Equal(m) {
		return domain.HousingError{Kind: domain.ErrNotFound, Housing: IsolationName, Animal: m.Name(), Detail: "animal is not in isolation"}
	}
	delete(i.occupants.occupants, m.Name())
	switch i.accounting {
	case AccountingLegacy:
		if i.available > 0 {
			i.available--
		}
	default:
		i.available++
	}
	return nil
}

// IncreaseCapacity adds n cages.
func (i *Isolation) IncreaseCapacity(n int) error {
	if n <= 0 {
		return domain.ValidationError{Entity: domain.EntityIsolation, Field: "capacity", Reason: "capacity increase cannot be 0 or less"}
	}
	i.total += n
	i.available += n
	return nil
}

func (i *Isolation) Lookup(name string) (*domain.Monkey, bool) { return i.occupants.lookup(name) }
func (i *Isolation) SpeciesPresent() []string                  { return i.occupants.speciesPresent() }
func (i *Isolation) OccupantsSummary() []string                { return i.occupants.summary() }

func (i *Isolation) ContainsSpecies(species domain.Species) bool {
	return i.occupants.containsSpecies(species)
}

// Clone returns an independent copy including copies of every occupant.
func (i *Isolation) Clone() *Isolation {
	cp := *i
	cp.occupants = i.occupants.clone()
	return &cp
}

// Snapshot returns a copy whose roster shares the occupant records. It is
// used to roll back a rejected operation.
func (i *Isolation) Snapshot() *Isolation {
	cp := *i
	cp.occupants = i.occupants.copy()
	return &cp
}
