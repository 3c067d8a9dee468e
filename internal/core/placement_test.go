package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

func TestTransferPrefersSpeciesMatch(t *testing.T) {
	svc := NewService(nil)
	mustIsolation(t, svc, 10)
	mustEnclosure(t, svc, "E1", 20, domain.SpeciesHowler)
	mustEnclosure(t, svc, "E2", 20, domain.SpeciesSaki)
	saki := mustMonkey(t, "Sunny", domain.SpeciesSaki, domain.SizeMedium, domain.FoodNuts)
	mustRegister(t, svc, saki)

	enc := mustTransfer(t, svc, saki)
	if enc.Name() != "E2" {
		t.Fatalf("species match must beat creation order, got %s", enc.Name())
	}
	e1, _ := svc.Enclosure("E1")
	if e1.Designation() != domain.SpeciesHowler {
		t.Fatalf("E1 designation must be untouched, got %s", e1.Designation())
	}
}

func TestTransferDeterminism(t *testing.T) {
	svc := NewService(nil)
	mustIsolation(t, svc, 10)
	mustEnclosure(t, svc, "E1", 20, domain.SpeciesHowler)
	mustEnclosure(t, svc, "E2", 20, domain.SpeciesSaki)

	howler := mustMonkey(t, "Hank", domain.SpeciesHowler, domain.SizeMedium, domain.FoodLeaves)
	mustRegister(t, svc, howler)
	if enc := mustTransfer(t, svc, howler); enc.Name() != "E1" {
		t.Fatalf("expected E1, got %s", enc.Name())
	}

	squirrel := mustMonkey(t, "Sid", domain.SpeciesSquirrel, domain.SizeSmall, domain.FoodSeeds)
	mustRegister(t, svc, squirrel)
	enc := mustTransfer(t, svc, squirrel)
	if enc.Name() != "E2" || enc.Designation() != domain.SpeciesSquirrel {
		t.Fatalf("expected E2 redesignated to Squirrel, got %s/%s", enc.Name(), enc.Designation())
	}
	board, _ := svc.SignBoard(enc)
	if !equalStrings(board, []string{"Sid (Squirrel) - Female - Seeds"}) {
		t.Fatalf("unexpected sign board %v", board)
	}
}

func TestTransferSkipsFullMatchForEmptyEnclosure(t *testing.T) {
	svc := NewService(nil)
	mustIsolation(t, svc, 10)
	mustEnclosure(t, svc, "E1", 10, domain.SpeciesDrill)
	mustEnclosure(t, svc, "E2", 10, domain.SpeciesSaki)
	first := mustMonkey(t, "First", domain.SpeciesDrill, domain.SizeLarge, domain.FoodEggs)
	second := mustMonkey(t, "Second", domain.SpeciesDrill, domain.SizeSmall, domain.FoodEggs)
	mustRegister(t, svc, first)
	mustRegister(t, svc, second)

	mustTransfer(t, svc, first)
	if enc := mustTransfer(t, svc, second); enc.Name() != "E2" {
		t.Fatalf("expected overflow into empty E2, got %s", enc.Name())
	}
}

func TestTransferNoEnclosureAvailable(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	mustIsolation(t, svc, 10)
	mustEnclosure(t, svc, "Tiny", 1, domain.SpeciesDrill)
	emma := mustMonkey(t, "Emma", domain.SpeciesDrill, domain.SizeMedium, domain.FoodEggs)
	mustRegister(t, svc, emma)

	enc, _, err := svc.TransferToEnclosure(ctx, emma)
	if !errors.Is(err, domain.ErrNoEnclosureAvailable) || enc != nil {
		t.Fatalf("expected no enclosure available, got %v %v", enc, err)
	}
	if _, location, _ := svc.LookupAnimal("Emma"); location != housing.IsolationName {
		t.Fatalf("Emma must stay in isolation, got %q", location)
	}
	if svc.IsolationAvailable() != 9 {
		t.Fatalf("failed transfer changed isolation capacity: %d", svc.IsolationAvailable())
	}
	tiny, _ := svc.Enclosure("Tiny")
	if tiny.AvailableCapacity() != 1 || tiny.Designation() != domain.SpeciesDrill {
		t.Fatalf("failed transfer changed the enclosure: %d %s", tiny.AvailableCapacity(), tiny.Designation())
	}
}

func TestTransferRequiresIsolatedAnimal(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil)
	if _, _, err := svc.TransferToEnclosure(ctx, mustMonkey(t, "Emma", domain.SpeciesDrill, domain.SizeSmall, domain.FoodEggs)); !errors.Is(err, ErrNoIsolation) {
		t.Fatalf("expected ErrNoIsolation, got %v", err)
	}
	mustIsolation(t, svc, 10)
	mustEnclosure(t, svc, "E1", 20, domain.SpeciesDrill)
	emma := mustMonkey(t, "Emma", domain.SpeciesDrill, domain.SizeSmall, domain.FoodEggs)
	mustRegister(t, svc, emma)

	impostor := mustMonkey(t, "Emma", domain.SpeciesDrill, domain.SizeLarge, domain.FoodEggs)
	if _, _, err := svc.TransferToEnclosure(ctx, impostor); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for differing record, got %v", err)
	}
	if _, _, err := svc.TransferToEnclosure(ctx, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for nil, got %v", err)
	}
	mustTransfer(t, svc, emma)
	if _, _, err := svc.TransferToEnclosure(ctx, emma); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found once transferred, got %v", err)
	}
	if _, _, err := svc.TransferByName(ctx, "Emma"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found by name once transferred, got %v", err)
	}
}

func TestTransferByName(t *testing.T) {
	svc := NewService(nil)
	mustIsolation(t, svc, 10)
	mustEnclosure(t, svc, "E1", 20, domain.SpeciesDrill)
	mustRegister(t, svc, mustMonkey(t, "Emma", domain.SpeciesDrill, domain.SizeSmall, domain.FoodEggs))
	enc, _, err := svc.TransferByName(context.Background(), "Emma")
	if err != nil || enc.Name() != "E1" {
		t.Fatalf("transfer by name: %v %v", enc, err)
	}
}

type demoAnimal struct {
	name    string
	species domain.Species
	sex     domain.Sex
	size    domain.Size
	weight  float64
	age     float64
	food    domain.Food
}

func TestDemoScenario(t *testing.T) {
	for _, accounting := range []housing.Accounting{housing.AccountingRestore, housing.AccountingLegacy} {
		t.Run(string(accounting), func(t *testing.T) {
			ctx := context.Background()
			svc := NewService(nil, WithIsolationAccounting(accounting))
			mustIsolation(t, svc, 10)
			mustEnclosure(t, svc, "Enclosure 1", 50, domain.SpeciesSpider)
			mustEnclosure(t, svc, "Enclosure 2", 50, domain.SpeciesTamarin)
			mustEnclosure(t, svc, "Enclosure 3", 50, domain.SpeciesMangabey)

			animals := []demoAnimal{
				{"Emma", domain.SpeciesDrill, domain.SexFemale, domain.SizeMedium, 42, 24, domain.FoodEggs},
				{"King", domain.SpeciesTamarin, domain.SexMale, domain.SizeLarge, 82, 44, domain.FoodFruits},
				{"Drake", domain.SpeciesGuereza, domain.SexMale, domain.SizeLarge, 82, 44, domain.FoodFruits},
				{"Kong", domain.SpeciesSpider, domain.SexMale, domain.SizeLarge, 22, 40, domain.FoodEggs},
				{"Emily", domain.SpeciesDrill, domain.SexFemale, domain.SizeSmall, 12, 4, domain.FoodInsects},
				{"Emma", domain.SpeciesDrill, domain.SexMale, domain.SizeLarge, 42, 24, domain.FoodInsects},
			}
			for i, a := range animals {
				m, err := svc.CreateAnimal(a.name, a.species, a.sex, a.size, a.weight, a.age, a.food)
				if err != nil {
					t.Fatalf("create %s: %v", a.name, err)
				}
				_, err = svc.RegisterAnimal(ctx, m)
				if i == len(animals)-1 {
					if !errors.Is(err, domain.ErrDuplicateName) {
						t.Fatalf("expected second Emma to be rejected, got %v", err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("register %s: %v", a.name, err)
				}
			}
			if _, err := svc.IncreaseIsolationCapacity(ctx, 10); err != nil {
				t.Fatalf("increase: %v", err)
			}

			want := map[string]string{
				"Emma":  "Enclosure 1",
				"Drake": "Enclosure 2",
				"Emily": "Enclosure 1",
				"King":  "Enclosure 3",
			}
			for _, name := range []string{"Emma", "Drake", "Emily", "King"} {
				enc, _, err := svc.TransferByName(ctx, name)
				if err != nil {
					t.Fatalf("transfer %s: %v", name, err)
				}
				if enc.Name() != want[name] {
					t.Fatalf("%s placed in %s, want %s", name, enc.Name(), want[name])
				}
			}
			if _, _, err := svc.TransferByName(ctx, "Kong"); !errors.Is(err, domain.ErrNoEnclosureAvailable) {
				t.Fatalf("expected Kong to find no enclosure, got %v", err)
			}

			designations := []domain.Species{domain.SpeciesDrill, domain.SpeciesGuereza, domain.SpeciesTamarin}
			for i, enc := range svc.Enclosures() {
				if enc.Designation() != designations[i] {
					t.Fatalf("%s designated %s, want %s", enc.Name(), enc.Designation(), designations[i])
				}
			}
			e1, _ := svc.Enclosure("Enclosure 1")
			if e1.AvailableCapacity() != 44 {
				t.Fatalf("Enclosure 1 available = %d, want 44", e1.AvailableCapacity())
			}

			roster, _ := svc.OccupancyReport(mustLiveIsolation(t, svc))
			if !equalStrings(roster, []string{"Kong (Spider) - Male - Eggs"}) {
				t.Fatalf("isolation roster = %v", roster)
			}
			wantAvailable := 19
			if accounting == housing.AccountingLegacy {
				wantAvailable = 11
			}
			if svc.IsolationAvailable() != wantAvailable {
				t.Fatalf("isolation available = %d, want %d", svc.IsolationAvailable(), wantAvailable)
			}
			if got := svc.ShoppingList().String(); got != "{Eggs=750, Fruits=1000, Insects=100}" {
				t.Fatalf("shopping list = %s", got)
			}
		})
	}
}

func mustLiveIsolation(t *testing.T, svc *Service) *housing.Isolation {
	t.Helper()
	iso, ok := svc.Isolation()
	if !ok {
		t.Fatalf("no isolation")
	}
	return iso
}

func TestLegacyAccountingWarnsAboutDrift(t *testing.T) {
	svc := NewService(nil, WithIsolationAccounting(housing.AccountingLegacy))
	mustIsolation(t, svc, 3)
	mustEnclosure(t, svc, "E1", 20, domain.SpeciesSaki)
	a := mustMonkey(t, "A", domain.SpeciesSaki, domain.SizeSmall, domain.FoodNuts)
	mustRegister(t, svc, a)
	_, res, err := svc.TransferToEnclosure(context.Background(), a)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	found := false
	for _, v := range res.Violations {
		if v.Rule == "isolation_drift" && v.Severity == SeverityWarn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected isolation drift warning, got %+v", res.Violations)
	}
	if svc.IsolationAvailable() != 1 {
		t.Fatalf("legacy accounting should leave 1 cage, got %d", svc.IsolationAvailable())
	}
}

func TestSelectEnclosure(t *testing.T) {
	mk := func(name string, capacity int, species domain.Species) *housing.Enclosure {
		enc, err := housing.NewEnclosure(name, capacity, species)
		if err != nil {
			t.Fatalf("new enclosure: %v", err)
		}
		return enc
	}
	if idx := selectEnclosure(nil, domain.SpeciesDrill, 1); idx != -1 {
		t.Fatalf("expected -1 without enclosures, got %d", idx)
	}
	encs := []*housing.Enclosure{mk("A", 4, domain.SpeciesDrill), mk("B", 40, domain.SpeciesSaki), mk("C", 40, domain.SpeciesDrill)}
	if idx := selectEnclosure(encs, domain.SpeciesDrill, 5); idx != 2 {
		t.Fatalf("expected matching enclosure with room, got %d", idx)
	}
	if idx := selectEnclosure(encs, domain.SpeciesHowler, 10); idx != 1 {
		t.Fatalf("expected first empty enclosure with room, got %d", idx)
	}
	if idx := selectEnclosure(encs, domain.SpeciesHowler, 50); idx != -1 {
		t.Fatalf("expected none for oversized footprint, got %d", idx)
	}
}

// Property: whatever sequence of registrations and transfers runs, every
// enclosure's accounting matches its occupants, no animal is housed twice,
// and failed operations leave the census unchanged.
func TestProperty_PlacementKeepsCensusConsistent(t *testing.T) {
	sizes := []domain.Size{domain.SizeSmall, domain.SizeMedium, domain.SizeLarge}
	species := []domain.Species{domain.SpeciesDrill, domain.SpeciesSaki, domain.SpeciesHowler}
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		svc := NewService(nil)
		if _, err := svc.CreateIsolation(ctx, rapid.IntRange(1, 8).Draw(rt, "isolation")); err != nil {
			rt.Fatalf("create isolation: %v", err)
		}
		enclosures := rapid.IntRange(1, 4).Draw(rt, "enclosures")
		for i := 0; i < enclosures; i++ {
			name := fmt.Sprintf("E%d", i)
			if _, _, err := svc.CreateEnclosure(ctx, name, rapid.IntRange(1, 30).Draw(rt, name+"_cap"), rapid.SampledFrom(species).Draw(rt, name+"_species")); err != nil {
				rt.Fatalf("create enclosure: %v", err)
			}
		}

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			name := rapid.StringMatching(`[A-F]`).Draw(rt, fmt.Sprintf("name%d", i))
			before := svc.View()
			var err error
			if rapid.Bool().Draw(rt, fmt.Sprintf("register%d", i)) {
				m, merr := domain.NewMonkey(name, rapid.SampledFrom(species).Draw(rt, fmt.Sprintf("sp%d", i)), domain.SexMale, rapid.SampledFrom(sizes).Draw(rt, fmt.Sprintf("size%d", i)), 5, 5, domain.FoodSeeds)
				if merr != nil {
					rt.Fatalf("new monkey: %v", merr)
				}
				_, err = svc.RegisterAnimal(ctx, m)
			} else {
				_, _, err = svc.TransferByName(ctx, name)
			}
			if err != nil {
				if !IsRejection(err) {
					rt.Fatalf("unexpected failure: %v", err)
				}
				after := svc.View().ListHousing()
				for j, h := range before.ListHousing() {
					if after[j].AvailableCapacity != h.AvailableCapacity || len(after[j].Occupants) != len(h.Occupants) || after[j].Designation != h.Designation {
						rt.Fatalf("failed operation changed %s", h.Name)
					}
				}
			}
			checkCensus(rt, svc)
		}
	})
}

func checkCensus(rt *rapid.T, svc *Service) {
	seen := make(map[string]string)
	for _, h := range svc.View().ListHousing() {
		consumed := 0
		for _, m := range h.Occupants {
			if prev, ok := seen[m.Name()]; ok {
				rt.Fatalf("%s housed in %s and %s", m.Name(), prev, h.Name)
			}
			seen[m.Name()] = h.Name
			if h.Entity == domain.EntityEnclosure {
				consumed += m.Footprint()
				if m.Species() != h.Designation {
					rt.Fatalf("%s houses %s under designation %s", h.Name, m.Species(), h.Designation)
				}
			} else {
				consumed++
			}
		}
		if h.AvailableCapacity < 0 || h.AvailableCapacity != h.TotalCapacity-consumed {
			rt.Fatalf("%s available %d, total %d, consumed %d", h.Name, h.AvailableCapacity, h.TotalCapacity, consumed)
		}
	}
	if len(seen) != len(svc.RegisteredNames()) {
		rt.Fatalf("registered %d animals but %d are housed", len(svc.RegisteredNames()), len(seen))
	}
}
