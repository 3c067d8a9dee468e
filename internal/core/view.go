package core

import (
	"sort"

	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

// censusView is the read-only state handed to rules. The isolation is listed
// before the enclosures, which keep creation order.
type censusView struct {
	housing []domain.HousingView
	animals []*domain.Monkey
}

// View returns a copy of the current sanctuary state.
func (s *Service) View() CensusView {
	v := censusView{}
	if s.isolation != nil {
		v.housing = append(v.housing, housing.View(s.isolation))
	}
	for _, enc := range s.enclosures {
		v.housing = append(v.housing, housing.View(enc))
	}
	for _, rec := range s.registry {
		v.animals = append(v.animals, rec.Clone())
	}
	sort.Slice(v.animals, func(i, j int) bool { return v.animals[i].Name() < v.animals[j].Name() })
	return v
}

func (v censusView) ListHousing() []domain.HousingView {
	out := make([]domain.HousingView, len(v.housing))
	copy(out, v.housing)
	return out
}

func (v censusView) ListAnimals() []*domain.Monkey {
	out := make([]*domain.Monkey, len(v.animals))
	copy(out, v.animals)
	return out
}

func (v censusView) FindHousing(name string) (domain.HousingView, bool) {
	for _, h := range v.housing {
		if h.Name == name {
			return h, true
		}
	}
	return domain.HousingView{}, false
}

func (v censusView) FindAnimal(name string) (*domain.Monkey, bool) {
	for _, m := range v.animals {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}
