package core

// NewDefaultRulesEngine builds a rules engine with the built-in census rules.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewHousingCapacityRule())
	engine.Register(NewEnclosureDesignationRule())
	engine.Register(NewRegistryIntegrityRule())
	engine.Register(NewIsolationDriftRule())
	return engine
}
