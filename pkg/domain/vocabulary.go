package domain

import (
	"fmt"
	"strings"
)

// Species identifies the primate species an animal belongs to and the species
// an enclosure is designated for.
type Species string

// Species admitted by the sanctuary.
const (
	SpeciesDrill    Species = "Drill"
	SpeciesGuereza  Species = "Guereza"
	SpeciesHowler   Species = "Howler"
	SpeciesMangabey Species = "Mangabey"
	SpeciesSaki     Species = "Saki"
	SpeciesSpider   Species = "Spider"
	SpeciesSquirrel Species = "Squirrel"
	SpeciesTamarin  Species = "Tamarin"
)

// Sex of an individual animal.
type Sex string

const (
	SexFemale Sex = "Female"
	SexMale   Sex = "Male"
)

// Size is the weight class of an animal. It drives both the enclosure
// footprint and the daily food ration. The zero value means unspecified.
type Size string

const (
	SizeUnspecified Size = ""
	SizeSmall       Size = "Small"
	SizeMedium      Size = "Medium"
	SizeLarge       Size = "Large"
)

// Food is a favorite-food category used to build the shopping list.
type Food string

const (
	FoodEggs    Food = "Eggs"
	FoodFruits  Food = "Fruits"
	FoodInsects Food = "Insects"
	FoodLeaves  Food = "Leaves"
	FoodNuts    Food = "Nuts"
	FoodSeeds   Food = "Seeds"
	FoodTreeSap Food = "Tree sap"
)

var (
	allSpecies = []Species{SpeciesDrill, SpeciesGuereza, SpeciesHowler, SpeciesMangabey, SpeciesSaki, SpeciesSpider, SpeciesSquirrel, SpeciesTamarin}
	allSexes   = []Sex{SexFemale, SexMale}
	allSizes   = []Size{SizeSmall, SizeMedium, SizeLarge}
	allFoods   = []Food{FoodEggs, FoodFruits, FoodInsects, FoodLeaves, FoodNuts, FoodSeeds, FoodTreeSap}
)

// Footprint units consumed inside an enclosure, keyed by size class.
const (
	FootprintLarge  = 10
	FootprintMedium = 5
	FootprintSmall  = 1
)

// Daily ration in grams, keyed by size class.
const (
	RationLarge  = 500
	RationMedium = 250
	RationSmall  = 100
)

func (s Species) String() string { return string(s) }
func (s Sex) String() string     { return string(s) }
func (s Size) String() string    { return string(s) }
func (f Food) String() string    { return string(f) }

// Valid reports whether s is one of the known species.
func (s Species) Valid() bool { return containsValue(allSpecies, s) }

// Valid reports whether s is a known sex.
func (s Sex) Valid() bool { return containsValue(allSexes, s) }

// Valid reports whether s is a known size class. SizeUnspecified is valid.
func (s Size) Valid() bool { return s == SizeUnspecified || containsValue(allSizes, s) }

// Valid reports whether f is a known food category.
func (f Food) Valid() bool { return containsValue(allFoods, f) }

// Footprint returns the enclosure capacity units consumed by an animal of
// this size. Unspecified sizes consume nothing.
func (s Size) Footprint() int {
	switch s {
	case SizeLarge:
		return FootprintLarge
	case SizeMedium:
		return FootprintMedium
	case SizeSmall:
		return FootprintSmall
	default:
		return 0
	}
}

// Ration returns the daily grams of favorite food for an animal of this size.
func (s Size) Ration() int {
	switch s {
	case SizeLarge:
		return RationLarge
	case SizeMedium:
		return RationMedium
	case SizeSmall:
		return RationSmall
	default:
		return 0
	}
}

// AllSpecies lists the known species in declaration order.
func AllSpecies() []Species { return append([]Species(nil), allSpecies...) }

// AllFoods lists the known food categories in declaration order.
func AllFoods() []Food { return append([]Food(nil), allFoods...) }

// ParseSpecies resolves a species name case-insensitively.
func ParseSpecies(raw string) (Species, error) {
	v, ok := parseValue(allSpecies, raw)
	if !ok {
		return "", ValidationError{Entity: EntityMonkey, Field: "species", Reason: fmt.Sprintf("unknown species %q", raw)}
	}
	return v, nil
}

// ParseSex resolves a sex case-insensitively.
func ParseSex(raw string) (Sex, error) {
	v, ok := parseValue(allSexes, raw)
	if !ok {
		return "", ValidationError{Entity: EntityMonkey, Field: "sex", Reason: fmt.Sprintf("unknown sex %q", raw)}
	}
	return v, nil
}

// ParseSize resolves a size class case-insensitively. A blank value yields
// SizeUnspecified.
func ParseSize(raw string) (Size, error) {
	if strings.TrimSpace(raw) == "" {
		return SizeUnspecified, nil
	}
	v, ok := parseValue(allSizes, raw)
	if !ok {
		return "", ValidationError{Entity: EntityMonkey, Field: "size", Reason: fmt.Sprintf("unknown size %q", raw)}
	}
	return v, nil
}

// ParseFood resolves a food category case-insensitively.
func ParseFood(raw string) (Food, error) {
	v, ok := parseValue(allFoods, raw)
	if !ok {
		return "", ValidationError{Entity: EntityMonkey, Field: "food", Reason: fmt.Sprintf("unknown food %q", raw)}
	}
	return v, nil
}

func containsValue[T ~string](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func parseValue[T ~string](values []T, raw string) (T, bool) {
	needle := strings.TrimSpace(raw)
	for _, candidate := range values {
		if strings.EqualFold(string(candidate), needle) {
			return candidate, true
		}
	}
	var zero T
	return zero, false
}
