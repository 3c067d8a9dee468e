package core

import "sanctuary/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Monkey             = domain.Monkey
	Species            = domain.Species
	Sex                = domain.Sex
	Size               = domain.Size
	Food               = domain.Food
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	CensusView         = domain.CensusView
	HousingView        = domain.HousingView
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityMonkey    = domain.EntityMonkey
	EntityIsolation = domain.EntityIsolation
	EntityEnclosure = domain.EntityEnclosure
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
