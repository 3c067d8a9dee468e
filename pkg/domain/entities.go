// Package domain defines the animal record, the fixed vocabularies, and the
// rule evaluation primitives used by the sanctuary.
package domain

import (
	"fmt"
	"math"
	"strings"
)

// EntityType identifies the kind of record a change or violation refers to.
type EntityType string

const (
	// EntityMonkey identifies an individual animal record.
	EntityMonkey EntityType = "monkey"
	// EntityIsolation identifies the intake isolation unit.
	EntityIsolation EntityType = "isolation"
	// EntityEnclosure identifies a species-designated enclosure.
	EntityEnclosure EntityType = "enclosure"
)

// Monkey is an individual animal tracked by the sanctuary. Name, species, sex
// and favorite food are fixed at construction; size, weight and age change
// over the animal's stay and are validated on every mutation.
type Monkey struct {
	name        string
	species     Species
	sex         Sex
	size        Size
	weight      float64
	ageInMonths float64
	food        Food
}

// NewMonkey validates the supplied attributes and returns a new record.
func NewMonkey(name string, species Species, sex Sex, size Size, weight, ageInMonths float64, food Food) (*Monkey, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ValidationError{Entity: EntityMonkey, Field: "name", Reason: "name is required"}
	}
	if !species.Valid() {
		return nil, ValidationError{Entity: EntityMonkey, Field: "species", Reason: fmt.Sprintf("unknown species %q", species)}
	}
	if !sex.Valid() {
		return nil, ValidationError{Entity: EntityMonkey, Field: "sex", Reason: fmt.Sprintf("unknown sex %q", sex)}
	}
	if !size.Valid() {
		return nil, ValidationError{Entity: EntityMonkey, Field: "size", Reason: fmt.Sprintf("unknown size %q", size)}
	}
	if !food.Valid() {
		return nil, ValidationError{Entity: EntityMonkey, Field: "food", Reason: fmt.Sprintf("unknown food %q", food)}
	}
	m := &Monkey{name: name, species: species, sex: sex, size: size, food: food}
	if err := m.SetWeight(weight); err != nil {
		return nil, err
	}
	if err := m.SetAgeInMonths(ageInMonths); err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the unique name of the animal.
func (m *Monkey) Name() string { return m.name }

// Species returns the animal's species.
func (m *Monkey) Species() Species { return m.species }

// Sex returns the animal's sex.
func (m *Monkey) Sex() Sex { return m.sex }

// Size returns the current size class.
func (m *Monkey) Size() Size { return m.size }

// Weight returns the current weight.
func (m *Monkey) Weight() float64 { return m.weight }

// AgeInMonths returns the current age in months.
func (m *Monkey) AgeInMonths() float64 { return m.ageInMonths }

// FavoriteFood returns the favorite food category.
func (m *Monkey) FavoriteFood() Food { return m.food }

// SetSize updates the size class.
func (m *Monkey) SetSize(size Size) error {
	if !size.Valid() {
		return ValidationError{Entity: EntityMonkey, Field: "size", Reason: fmt.Sprintf("unknown size %q", size)}
	}
	m.size = size
	return nil
}

// SetWeight updates the weight; it must be finite and strictly positive.
func (m *Monkey) SetWeight(weight float64) error {
	if !positiveFinite(weight) {
		return ValidationError{Entity: EntityMonkey, Field: "weight", Reason: "weight must be a finite number greater than 0"}
	}
	m.weight = weight
	return nil
}

// SetAgeInMonths updates the age; it must be finite and strictly positive.
func (m *Monkey) SetAgeInMonths(age float64) error {
	if !positiveFinite(age) {
		return ValidationError{Entity: EntityMonkey, Field: "age", Reason: "age must be a finite number greater than 0"}
	}
	m.ageInMonths = age
	return nil
}

// positiveFinite is false for NaN, both infinities and anything <= 0.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Footprint returns the enclosure capacity units the animal consumes.
func (m *Monkey) Footprint() int { return m.size.Footprint() }

// DailyRation returns the grams of favorite food the animal needs per day.
func (m *Monkey) DailyRation() int { return m.size.Ration() }

// Clone returns an independent copy of the record.
func (m *Monkey) Clone() *Monkey {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}

// Equal reports whether both records carry identical attributes.
func (m *Monkey) Equal(other *Monkey) bool {
	if m == nil || other == nil {
		return m == other
	}
	return *m == *other
}

// String renders the record as "name (species) - sex - favorite food".
func (m *Monkey) String() string {
	return fmt.Sprintf("%s (%s) - %s - %s", m.name, m.species, m.sex, m.food)
}
