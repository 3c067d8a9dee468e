package domain

import "context"

// HousingView is a read-only snapshot of one housing unit handed to rules.
type HousingView struct {
	Name              string
	Entity            EntityType
	Designation       Species
	TotalCapacity     int
	AvailableCapacity int
	Occupants         []*Monkey
}

// Consumed returns the capacity units in use.
func (h HousingView) Consumed() int { return h.TotalCapacity - h.AvailableCapacity }

// CensusView provides read-only access to sanctuary state for rule evaluation.
type CensusView interface {
	ListHousing() []HousingView
	ListAnimals() []*Monkey
	FindHousing(name string) (HousingView, bool)
	FindAnimal(name string) (*Monkey, bool)
}

// Rule defines an evaluation executed after every sanctuary mutation.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view CensusView, changes []Change) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in evaluation order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view CensusView, changes []Change) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, changes)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock rolls the mutation back.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but keeps the mutation.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Action indicates the type of mutation performed.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionRegister Action = "register"
	ActionTransfer Action = "transfer"
)

// Change describes a mutation applied during a sanctuary operation.
type Change struct {
	Entity EntityType
	Action Action
	Name   string
	From   string
	To     string
}

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "operation blocked by rules"
}
