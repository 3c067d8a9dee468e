// Package report captures a point-in-time census of the sanctuary, renders
// it as JSON, CSV or text and publishes the renderings to blob storage.
package report

import (
	"time"

	"sanctuary/internal/core"
	"sanctuary/pkg/domain"
)

// Census is a self-contained snapshot; nothing in it aliases service state.
type Census struct {
	GeneratedAt  time.Time `json:"generated_at"`
	Isolation    *Housing  `json:"isolation,omitempty"`
	Enclosures   []Housing `json:"enclosures"`
	ShoppingList []Ration  `json:"shopping_list"`
	TotalGrams   int       `json:"total_grams"`
}

// Housing describes one unit and who lives there.
type Housing struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Designation string     `json:"designation,omitempty"`
	Capacity    int        `json:"capacity"`
	Available   int        `json:"available"`
	Species     []string   `json:"species"`
	Occupants   []Occupant `json:"occupants"`
}

// Occupant is one animal as listed in a housing section.
type Occupant struct {
	Name        string  `json:"name"`
	Species     string  `json:"species"`
	Sex         string  `json:"sex"`
	Size        string  `json:"size,omitempty"`
	Weight      float64 `json:"weight"`
	AgeInMonths float64 `json:"age_months"`
	Food        string  `json:"food"`
	Footprint   int     `json:"footprint"`
	DailyRation int     `json:"daily_ration_g"`
	Summary     string  `json:"summary"`
}

// Ration is the daily grams of one food type.
type Ration struct {
	Food  string `json:"food"`
	Grams int    `json:"grams"`
}

// Animals counts occupants across every unit.
func (c Census) Animals() int {
	n := 0
	if c.Isolation != nil {
		n += len(c.Isolation.Occupants)
	}
	for _, enc := range c.Enclosures {
		n += len(enc.Occupants)
	}
	return n
}

// Snapshot captures svc at the current time.
func Snapshot(svc *core.Service) Census {
	return SnapshotAt(svc, time.Now().UTC())
}

// SnapshotAt captures svc and stamps the census with at.
func SnapshotAt(svc *core.Service, at time.Time) Census {
	c := Census{GeneratedAt: at, Enclosures: []Housing{}}
	view := svc.View()
	if iso, ok := svc.Isolation(); ok {
		h := housingBlock(view, iso)
		c.Isolation = &h
	}
	for _, enc := range svc.Enclosures() {
		h := housingBlock(view, enc)
		h.Designation = enc.Designation().String()
		c.Enclosures = append(c.Enclosures, h)
	}
	list := svc.ShoppingList()
	c.ShoppingList = make([]Ration, 0, len(list))
	for _, food := range list.Foods() {
		c.ShoppingList = append(c.ShoppingList, Ration{Food: food.String(), Grams: list[food]})
	}
	c.TotalGrams = list.Total()
	return c
}

type unit interface {
	Name() string
	Kind() domain.EntityType
	TotalCapacity() int
	AvailableCapacity() int
	SpeciesPresent() []string
}

func housingBlock(view core.CensusView, u unit) Housing {
	h := Housing{
		Name:      u.Name(),
		Kind:      string(u.Kind()),
		Capacity:  u.TotalCapacity(),
		Available: u.AvailableCapacity(),
		Species:   u.SpeciesPresent(),
		Occupants: []Occupant{},
	}
	var occupants []*domain.Monkey
	for _, hv := range view.ListHousing() {
		if hv.Name == u.Name() && hv.Entity == u.Kind() {
			occupants = hv.Occupants
			break
		}
	}
	for _, m := range occupants {
		h.Occupants = append(h.Occupants, Occupant{
			Name:        m.Name(),
			Species:     m.Species().String(),
			Sex:         m.Sex().String(),
			Size:        m.Size().String(),
			Weight:      m.Weight(),
			AgeInMonths: m.AgeInMonths(),
			Food:        m.FavoriteFood().String(),
			Footprint:   m.Footprint(),
			DailyRation: m.DailyRation(),
			Summary:     m.String(),
		})
	}
	return h
}
