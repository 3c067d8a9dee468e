package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sanctuary/internal/core"
	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

func TestDemoManifestShape(t *testing.T) {
	m := Demo()
	require.Equal(t, 10, m.Isolation.Capacity)
	require.Equal(t, 10, m.Isolation.Increase)
	require.Len(t, m.Enclosures, 3)
	require.Len(t, m.Monkeys, 6)
	require.Equal(t, []string{"Emma", "Drake", "Emily", "King", "Kong"}, m.Transfers)
}

func TestApplyDemo(t *testing.T) {
	svc := core.NewService(nil)
	out, err := Apply(context.Background(), svc, Demo())
	require.NoError(t, err)

	require.Equal(t, []string{"Emma", "King", "Drake", "Kong", "Emily"}, out.Registered)
	require.Equal(t, []Placement{
		{Animal: "Emma", Enclosure: "Enclosure 1"},
		{Animal: "Drake", Enclosure: "Enclosure 2"},
		{Animal: "Emily", Enclosure: "Enclosure 1"},
		{Animal: "King", Enclosure: "Enclosure 3"},
	}, out.Placements)

	require.Len(t, out.Rejections, 2)
	require.Equal(t, StepRegister, out.Rejections[0].Step)
	require.True(t, errors.Is(out.Rejections[0].Err, domain.ErrDuplicateName))
	require.Equal(t, StepTransfer, out.Rejections[1].Step)
	require.Equal(t, "Kong", out.Rejections[1].Animal)
	require.True(t, errors.Is(out.Rejections[1].Err, domain.ErrNoEnclosureAvailable))
	require.Empty(t, out.Warnings)

	require.Equal(t, 19, svc.IsolationAvailable())
	require.Equal(t, "{Eggs=750, Fruits=1000, Insects=100}", svc.ShoppingList().String())
}

func TestApplyDemoLegacyAccountingWarns(t *testing.T) {
	svc := core.NewService(nil, core.WithIsolationAccounting(housing.AccountingLegacy))
	out, err := Apply(context.Background(), svc, Demo())
	require.NoError(t, err)
	require.Equal(t, 11, svc.IsolationAvailable())
	require.NotEmpty(t, out.Warnings)
	for _, v := range out.Warnings {
		require.Equal(t, "isolation_drift", v.Rule)
	}
}

func TestApplyCollectsCreateRejections(t *testing.T) {
	m := &Manifest{
		Isolation: IsolationSpec{Capacity: 1},
		Monkeys: []MonkeySpec{
			{Name: "Ghost", Species: "Saki", Sex: "Male", Size: "Small", Weight: 0, AgeMonths: 3, Food: "Nuts"},
			{Name: "Ada", Species: "Saki", Sex: "Female", Size: "Small", Weight: 2, AgeMonths: 3, Food: "Nuts"},
			{Name: "Bea", Species: "Saki", Sex: "Female", Size: "Small", Weight: 2, AgeMonths: 3, Food: "Nuts"},
		},
		Transfers: []string{"Ada"},
	}
	out, err := Apply(context.Background(), core.NewService(nil), m)
	require.NoError(t, err)
	require.Equal(t, []string{"Ada"}, out.Registered)
	require.Len(t, out.Rejections, 3)
	require.Equal(t, StepCreate, out.Rejections[0].Step)
	require.True(t, errors.Is(out.Rejections[0].Err, domain.ErrValidation))
	require.Equal(t, StepRegister, out.Rejections[1].Step)
	require.True(t, errors.Is(out.Rejections[1].Err, domain.ErrCapacityExceeded))
	require.Equal(t, StepTransfer, out.Rejections[2].Step, "no enclosures exist")
	require.Contains(t, out.Rejections[2].String(), "transfer Ada")
}

func TestValidate(t *testing.T) {
	m := &Manifest{
		Isolation: IsolationSpec{Capacity: 0, Increase: -1},
		Enclosures: []EnclosureSpec{
			{Name: "A", Capacity: 5, Species: "Drill"},
			{Name: "A", Capacity: 0, Species: "Gorilla"},
			{Name: " ", Capacity: 5, Species: "Drill"},
		},
		Monkeys:   []MonkeySpec{{Name: "Bad", Species: "Drill", Sex: "Other", Size: "Huge", Food: "Pizza"}},
		Transfers: []string{""},
	}
	err := m.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"isolation.capacity",
		"isolation.increase",
		`duplicate name "A"`,
		"enclosures[1]: capacity",
		"Gorilla",
		"enclosures[2]: name required",
		"Other",
		"Huge",
		"Pizza",
		"transfers[0]",
	} {
		require.ErrorContains(t, err, want)
	}

	_, err = Apply(context.Background(), core.NewService(nil), m)
	require.Error(t, err)
}

func TestLoadAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
isolation: {capacity: 2}
enclosures:
  - {name: Canopy, capacity: 20, species: howler}
monkeys:
  - {name: Rio, species: HOWLER, sex: male, weight: 7, age_months: 30, food: leaves}
transfers: [Rio]
`), 0o600))
	m, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "", m.Monkeys[0].Size, "size may be omitted")

	svc := core.NewService(nil)
	out, err := Apply(context.Background(), svc, m)
	require.NoError(t, err)
	require.Equal(t, []Placement{{Animal: "Rio", Enclosure: "Canopy"}}, out.Placements)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Parse([]byte("isolation: {capacity: 1}\nkeepers: []\n"))
	require.ErrorContains(t, err, "keepers")

	_, err = Parse([]byte("isolation: [\n"))
	require.ErrorContains(t, err, "parsing manifest YAML")
}

func TestApplyRejectsNonFiniteMeasurements(t *testing.T) {
	m, err := Parse([]byte(`
isolation: {capacity: 3}
enclosures:
  - {name: Enclosure 1, capacity: 10, species: drill}
monkeys:
  - {name: Emma, species: drill, sex: female, size: medium, weight: .nan, age_months: 24, food: eggs}
  - {name: Drake, species: drill, sex: male, size: small, weight: 4, age_months: .inf, food: insects}
transfers: [Emma, Drake]
`))
	require.NoError(t, err)

	svc := core.NewService(nil)
	out, err := Apply(context.Background(), svc, m)
	require.NoError(t, err)
	require.Empty(t, out.Registered)
	require.Len(t, out.Rejections, 4)
	for _, r := range out.Rejections[:2] {
		require.Equal(t, StepCreate, r.Step)
		require.True(t, errors.Is(r.Err, domain.ErrValidation), r.String())
	}
	_, _, ok := svc.LookupAnimal("Emma")
	require.False(t, ok)
	require.Equal(t, 3, svc.IsolationAvailable())
}
