// Package intake describes a sanctuary scenario as a YAML manifest and
// replays it against a core.Service.
package intake

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"sanctuary/pkg/domain"
)

//go:embed demo.yaml
var demoManifest []byte

// Manifest is the top-level intake document.
type Manifest struct {
	Isolation  IsolationSpec   `yaml:"isolation" json:"isolation"`
	Enclosures []EnclosureSpec `yaml:"enclosures" json:"enclosures"`
	Monkeys    []MonkeySpec    `yaml:"monkeys" json:"monkeys"`
	Transfers  []string        `yaml:"transfers" json:"transfers"`
}

// IsolationSpec sizes the isolation unit before and after registration.
type IsolationSpec struct {
	Capacity int `yaml:"capacity" json:"capacity"`
	// Increase is applied after every monkey has been registered.
	Increase int `yaml:"increase" json:"increase"`
}

// EnclosureSpec declares one species-specific enclosure.
type EnclosureSpec struct {
	Name     string `yaml:"name" json:"name"`
	Capacity int    `yaml:"capacity" json:"capacity"`
	Species  string `yaml:"species" json:"species"`
}

// MonkeySpec lists arrivals in registration order. Names may repeat; the
// repeat is registered and rejected like any other duplicate.
type MonkeySpec struct {
	Name      string  `yaml:"name" json:"name"`
	Species   string  `yaml:"species" json:"species"`
	Sex       string  `yaml:"sex" json:"sex"`
	Size      string  `yaml:"size" json:"size"`
	Weight    float64 `yaml:"weight" json:"weight"`
	AgeMonths float64 `yaml:"age_months" json:"age_months"`
	Food      string  `yaml:"food" json:"food"`
}

// Load reads a manifest from a YAML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Demo returns the embedded reference manifest.
func Demo() *Manifest {
	m, err := Parse(demoManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded demo manifest: %v", err))
	}
	return m
}

// Validate checks vocabulary and structural constraints. Record-level
// constraints (weight, age) are left to the service so they surface as
// rejections.
func (m *Manifest) Validate() error {
	var errs []error
	if m.Isolation.Capacity <= 0 {
		errs = append(errs, errors.New("isolation.capacity must be positive"))
	}
	if m.Isolation.Increase < 0 {
		errs = append(errs, errors.New("isolation.increase must not be negative"))
	}
	seen := make(map[string]struct{}, len(m.Enclosures))
	for i, enc := range m.Enclosures {
		if strings.TrimSpace(enc.Name) == "" {
			errs = append(errs, fmt.Errorf("enclosures[%d]: name required", i))
		} else if _, dup := seen[enc.Name]; dup {
			errs = append(errs, fmt.Errorf("enclosures[%d]: duplicate name %q", i, enc.Name))
		}
		seen[enc.Name] = struct{}{}
		if enc.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("enclosures[%d]: capacity must be positive", i))
		}
		if _, err := domain.ParseSpecies(enc.Species); err != nil {
			errs = append(errs, fmt.Errorf("enclosures[%d]: %w", i, err))
		}
	}
	for i, ms := range m.Monkeys {
		if _, err := ms.vocabulary(); err != nil {
			errs = append(errs, fmt.Errorf("monkeys[%d]: %w", i, err))
		}
	}
	for i, name := range m.Transfers {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("transfers[%d]: name required", i))
		}
	}
	return errors.Join(errs...)
}

type vocabulary struct {
	species domain.Species
	sex     domain.Sex
	size    domain.Size
	food    domain.Food
}

func (ms MonkeySpec) vocabulary() (vocabulary, error) {
	var v vocabulary
	var err, e error
	if v.species, e = domain.ParseSpecies(ms.Species); e != nil {
		err = errors.Join(err, e)
	}
	if v.sex, e = domain.ParseSex(ms.Sex); e != nil {
		err = errors.Join(err, e)
	}
	if v.size, e = domain.ParseSize(ms.Size); e != nil {
		err = errors.Join(err, e)
	}
	if v.food, e = domain.ParseFood(ms.Food); e != nil {
		err = errors.Join(err, e)
	}
	return v, err
}
