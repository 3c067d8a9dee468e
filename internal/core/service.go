package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

// ErrNoIsolation is returned when an operation needs the isolation before
// one has been created.
var ErrNoIsolation = domain.ValidationError{Entity: domain.EntityIsolation, Field: "isolation", Reason: "no isolation has been created"}

// Service coordinates the sanctuary: it owns the isolation, the enclosures in
// creation order and the registry of every animal ever admitted. Callers only
// ever receive copies of its records.
type Service struct {
	isolation  *housing.Isolation
	enclosures []*housing.Enclosure
	registry   map[string]*domain.Monkey

	engine     *RulesEngine
	clock      Clock
	logger     Logger
	audit      AuditRecorder
	metrics    MetricsRecorder
	tracer     Tracer
	accounting housing.Accounting
}

// NewService constructs an empty sanctuary. A nil engine selects the default
// census rules.
func NewService(engine *RulesEngine, opts ...Option) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		registry:   make(map[string]*domain.Monkey),
		engine:     engine,
		clock:      o.clock,
		logger:     o.logger,
		audit:      o.audit,
		metrics:    o.metrics,
		tracer:     o.tracer,
		accounting: o.accounting,
	}
}

// Engine returns the rules engine evaluated after every mutation.
func (s *Service) Engine() *RulesEngine { return s.engine }

// state is the rollback point captured before each mutation.
type state struct {
	isolation  *housing.Isolation
	enclosures []*housing.Enclosure
	registry   map[string]*domain.Monkey
	records    map[string]domain.Monkey
}

func (s *Service) snapshot() state {
	st := state{
		enclosures: make([]*housing.Enclosure, len(s.enclosures)),
		registry:   make(map[string]*domain.Monkey, len(s.registry)),
		records:    make(map[string]domain.Monkey, len(s.registry)),
	}
	if s.isolation != nil {
		st.isolation = s.isolation.Snapshot()
	}
	for i, enc := range s.enclosures {
		st.enclosures[i] = enc.Snapshot()
	}
	for name, rec := range s.registry {
		st.registry[name] = rec
		st.records[name] = *rec
	}
	return st
}

func (s *Service) restore(st state) {
	s.isolation = st.isolation
	s.enclosures = st.enclosures
	s.registry = st.registry
	for name, rec := range st.registry {
		*rec = st.records[name]
	}
}

// run wraps a mutation with tracing, rule evaluation, rollback, logging,
// auditing and metrics. fn returns the changes it applied.
func (s *Service) run(ctx context.Context, op string, entity domain.EntityType, entityID string, fn func() ([]domain.Change, error)) (Result, error) {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	snap := s.snapshot()

	changes, err := fn()
	var res Result
	if err == nil {
		res, err = s.engine.Evaluate(ctx, s.View(), changes)
		if err == nil && res.HasBlocking() {
			err = RuleViolationError{Result: res}
		}
	}
	if err != nil {
		s.restore(snap)
	}

	success := err == nil
	if success {
		s.logger.Info("sanctuary operation applied", "operation", op, "entity", entity, "id", entityID)
		for _, v := range res.Violations {
			s.logger.Warn("sanctuary rule violation", "operation", op, "rule", v.Rule, "severity", v.Severity, "message", v.Message)
		}
	} else {
		s.logger.Error("sanctuary operation rejected", "operation", op, "entity", entity, "id", entityID, "error", err)
	}

	entry := AuditEntry{
		Operation:  op,
		Status:     AuditStatusSuccess,
		Entity:     entity,
		EntityID:   entityID,
		Changes:    changes,
		Violations: res.Violations,
		OccurredAt: s.clock.Now(),
	}
	if !success {
		entry.Status = AuditStatusError
		entry.Changes = nil
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
	s.metrics.Observe(ctx, op, success, s.clock.Now().Sub(start))
	if observer, ok := s.metrics.(CapacityObserver); ok {
		for _, view := range s.View().ListHousing() {
			observer.ObserveCapacity(view)
		}
	}
	span.End(err)
	return res, err
}

// CreateIsolation replaces the current isolation with an empty one of the
// given number of cages. Animals held by a replaced isolation stay registered.
func (s *Service) CreateIsolation(ctx context.Context, capacity int) (Result, error) {
	return s.run(ctx, "create_isolation", domain.EntityIsolation, housing.IsolationName, func() ([]domain.Change, error) {
		iso, err := housing.NewIsolation(capacity, housing.WithAccounting(s.accounting))
		if err != nil {
			return nil, err
		}
		action := domain.ActionCreate
		if s.isolation != nil {
			action = domain.ActionUpdate
		}
		s.isolation = iso
		return []domain.Change{{Entity: domain.EntityIsolation, Action: action, Name: iso.Name()}}, nil
	})
}

// IncreaseIsolationCapacity adds n cages to the isolation.
func (s *Service) IncreaseIsolationCapacity(ctx context.Context, n int) (Result, error) {
	return s.run(ctx, "increase_isolation_capacity", domain.EntityIsolation, housing.IsolationName, func() ([]domain.Change, error) {
		if s.isolation == nil {
			return nil, ErrNoIsolation
		}
		if err := s.isolation.IncreaseCapacity(n); err != nil {
			return nil, err
		}
		return []domain.Change{{Entity: domain.EntityIsolation, Action: domain.ActionUpdate, Name: s.isolation.Name()}}, nil
	})
}

// CreateEnclosure appends a new enclosure and returns a copy of it. Enclosure
// names are unique within the sanctuary.
func (s *Service) CreateEnclosure(ctx context.Context, name string, capacity int, species domain.Species) (*housing.Enclosure, Result, error) {
	var created *housing.Enclosure
	res, err := s.run(ctx, "create_enclosure", domain.EntityEnclosure, name, func() ([]domain.Change, error) {
		if _, ok := s.findEnclosure(name); ok {
			return nil, domain.DuplicateNameError{Entity: domain.EntityEnclosure, Name: name}
		}
		enc, err := housing.NewEnclosure(name, capacity, species)
		if err != nil {
			return nil, err
		}
		s.enclosures = append(s.enclosures, enc)
		created = enc
		return []domain.Change{{Entity: domain.EntityEnclosure, Action: domain.ActionCreate, Name: name}}, nil
	})
	if err != nil {
		return nil, res, err
	}
	return created.Clone(), res, nil
}

// CreateAnimal validates and builds a new animal record. The record is not
// part of the sanctuary until it is registered.
func (s *Service) CreateAnimal(name string, species domain.Species, sex domain.Sex, size domain.Size, weight, ageInMonths float64, food domain.Food) (*domain.Monkey, error) {
	m, err := domain.NewMonkey(name, species, sex, size, weight, ageInMonths, food)
	if err != nil {
		s.logger.Warn("animal record rejected", "name", name, "error", err)
		return nil, err
	}
	return m.Clone(), nil
}

// RegisterAnimal admits an animal into the isolation. Names are unique across
// the whole sanctuary, including animals already moved to enclosures.
func (s *Service) RegisterAnimal(ctx context.Context, m *domain.Monkey) (Result, error) {
	if m == nil {
		return s.run(ctx, "register_animal", domain.EntityMonkey, "", func() ([]domain.Change, error) {
			return nil, domain.ValidationError{Entity: domain.EntityMonkey, Field: "record", Reason: "monkey is required"}
		})
	}
	return s.run(ctx, "register_animal", domain.EntityMonkey, m.Name(), func() ([]domain.Change, error) {
		if _, ok := s.registry[m.Name()]; ok {
			return nil, domain.DuplicateNameError{Entity: domain.EntityMonkey, Name: m.Name()}
		}
		if s.isolation == nil {
			return nil, ErrNoIsolation
		}
		rec := m.Clone()
		if err := s.isolation.Add(rec); err != nil {
			return nil, err
		}
		s.registry[rec.Name()] = rec
		return []domain.Change{{Entity: domain.EntityMonkey, Action: domain.ActionRegister, Name: rec.Name(), To: housing.IsolationName}}, nil
	})
}

// UpdateAnimal applies mutator to a copy of the named animal and stores the
// result. A size change for an animal living in an enclosure must still fit.
func (s *Service) UpdateAnimal(ctx context.Context, name string, mutator func(*domain.Monkey) error) (*domain.Monkey, Result, error) {
	var updated *domain.Monkey
	res, err := s.run(ctx, "update_animal", domain.EntityMonkey, name, func() ([]domain.Change, error) {
		if mutator == nil {
			return nil, domain.ValidationError{Entity: domain.EntityMonkey, Field: "mutator", Reason: "mutator is required"}
		}
		rec, ok := s.registry[name]
		if !ok {
			return nil, domain.NotFoundError{Entity: domain.EntityMonkey, ID: name}
		}
		draft := rec.Clone()
		if err := mutator(draft); err != nil {
			return nil, err
		}
		if draft.Name() != rec.Name() || draft.Species() != rec.Species() || draft.Sex() != rec.Sex() || draft.FavoriteFood() != rec.FavoriteFood() {
			return nil, domain.ValidationError{Entity: domain.EntityMonkey, Field: "record", Reason: "name, species, sex and favorite food are immutable"}
		}
		oldSize := rec.Size()
		*rec = *draft
		if enc, ok := s.enclosureHousing(name); ok && oldSize != rec.Size() {
			if err := enc.Refit(name, oldSize); err != nil {
				return nil, err
			}
		}
		updated = rec.Clone()
		return []domain.Change{{Entity: domain.EntityMonkey, Action: domain.ActionUpdate, Name: name}}, nil
	})
	if err != nil {
		return nil, res, err
	}
	return updated, res, nil
}

// Isolation returns a copy of the current isolation.
func (s *Service) Isolation() (*housing.Isolation, bool) {
	if s.isolation == nil {
		return nil, false
	}
	return s.isolation.Clone(), true
}

// IsolationCapacity returns the total number of isolation cages.
func (s *Service) IsolationCapacity() int {
	if s.isolation == nil {
		return 0
	}
	return s.isolation.TotalCapacity()
}

// IsolationAvailable returns the number of free isolation cages.
func (s *Service) IsolationAvailable() int {
	if s.isolation == nil {
		return 0
	}
	return s.isolation.AvailableCapacity()
}

// IsolationOccupancy returns the number of occupied isolation cages.
func (s *Service) IsolationOccupancy() int {
	if s.isolation == nil {
		return 0
	}
	return s.isolation.Occupancy()
}

// Enclosures returns copies of every enclosure in creation order.
func (s *Service) Enclosures() []*housing.Enclosure {
	out := make([]*housing.Enclosure, 0, len(s.enclosures))
	for _, enc := range s.enclosures {
		out = append(out, enc.Clone())
	}
	return out
}

// Enclosure returns a copy of the named enclosure.
func (s *Service) Enclosure(name string) (*housing.Enclosure, bool) {
	enc, ok := s.findEnclosure(name)
	if !ok {
		return nil, false
	}
	return enc.Clone(), true
}

// LookupAnimal returns a copy of a registered animal and the name of the unit
// housing it; the location is empty when a replaced isolation held it.
func (s *Service) LookupAnimal(name string) (*domain.Monkey, string, bool) {
	rec, ok := s.registry[name]
	if !ok {
		return nil, "", false
	}
	location := ""
	if s.isolation != nil {
		if _, housed := s.isolation.Lookup(name); housed {
			location = s.isolation.Name()
		}
	}
	if enc, housed := s.enclosureHousing(name); housed {
		location = enc.Name()
	}
	return rec.Clone(), location, true
}

// RegisteredNames lists every registered animal in name order.
func (s *Service) RegisteredNames() []string {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpeciesReport lists the species present in the unit, resolving copies
// handed out earlier to the live unit.
func (s *Service) SpeciesReport(u housing.Unit) ([]string, error) {
	live, err := s.resolve(u)
	if err != nil {
		return nil, err
	}
	return live.SpeciesPresent(), nil
}

// OccupancyReport lists the occupants of the unit in name order.
func (s *Service) OccupancyReport(u housing.Unit) ([]string, error) {
	live, err := s.resolve(u)
	if err != nil {
		return nil, err
	}
	return live.OccupantsSummary(), nil
}

// ContainsSpecies reports whether any occupant of the unit is of species.
func (s *Service) ContainsSpecies(u housing.Unit, species domain.Species) (bool, error) {
	live, err := s.resolve(u)
	if err != nil {
		return false, err
	}
	return live.ContainsSpecies(species), nil
}

// SignBoard returns the display listing of the enclosure's occupants.
func (s *Service) SignBoard(enc *housing.Enclosure) ([]string, error) {
	if enc == nil {
		return nil, domain.ValidationError{Entity: domain.EntityEnclosure, Field: "enclosure", Reason: "enclosure is required"}
	}
	live, ok := s.findEnclosure(enc.Name())
	if !ok {
		return nil, domain.NotFoundError{Entity: domain.EntityEnclosure, ID: enc.Name()}
	}
	return live.SignBoard(), nil
}

// Capacity returns the total and available capacity of the live unit.
func (s *Service) Capacity(u housing.Unit) (total, available int, err error) {
	live, err := s.resolve(u)
	if err != nil {
		return 0, 0, err
	}
	return live.TotalCapacity(), live.AvailableCapacity(), nil
}

func (s *Service) resolve(u housing.Unit) (housing.Unit, error) {
	if u == nil {
		return nil, domain.ValidationError{Entity: domain.EntityIsolation, Field: "unit", Reason: "housing unit is required"}
	}
	switch u.Kind() {
	case domain.EntityIsolation:
		if s.isolation == nil {
			return nil, ErrNoIsolation
		}
		return s.isolation, nil
	case domain.EntityEnclosure:
		enc, ok := s.findEnclosure(u.Name())
		if !ok {
			return nil, domain.NotFoundError{Entity: domain.EntityEnclosure, ID: u.Name()}
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("unsupported housing kind %q", u.Kind())
	}
}

func (s *Service) findEnclosure(name string) (*housing.Enclosure, bool) {
	for _, enc := range s.enclosures {
		if enc.Name() == name {
			return enc, true
		}
	}
	return nil, false
}

func (s *Service) enclosureHousing(animal string) (*housing.Enclosure, bool) {
	for _, enc := range s.enclosures {
		if _, ok := enc.Lookup(animal); ok {
			return enc, true
		}
	}
	return nil, false
}

// IsRejection reports whether err is one of the recoverable sanctuary
// rejections rather than an internal failure.
func IsRejection(err error) bool {
	for _, kind := range []error{
		domain.ErrValidation,
		domain.ErrDuplicateName,
		domain.ErrDuplicateOccupant,
		domain.ErrCapacityExceeded,
		domain.ErrSpeciesMismatch,
		domain.ErrNotFound,
		domain.ErrNoEnclosureAvailable,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	var rv RuleViolationError
	return errors.As(err, &rv)
}
