package models

// StructureSpec holds the cost and construction data for one structure type
type StructureSpec struct {
	Cost          Resources `yaml:"cost"`
	BuildTime     int       `yaml:"build_time"`
	CapacityBonus int       `yaml:"capacity_bonus"`
}

// TechSpec holds the cost and research time of a technology
type TechSpec struct {
	Cost     Resources `yaml:"cost"`
	Duration int       `yaml:"duration"`
}

// AgeSpec holds the requirements of an age transition
type AgeSpec struct {
	Cost     Resources `yaml:"cost"`
	Duration int       `yaml:"duration"`
}

// Rates is a per-resource float table (gather rates, estimator capacities)
type Rates struct {
	Food float64 `yaml:"food"`
	Wood float64 `yaml:"wood"`
	Gold float64 `yaml:"gold"`
}

// Get returns the rate for a resource type
func (r Rates) Get(rt ResourceType) float64 {
	switch rt {
	case Food:
		return r.Food
	case Wood:
		return r.Wood
	case Gold:
		return r.Gold
	}
	return 0
}

// WorkerSplit is a target number of workers per resource
type WorkerSplit struct {
	Food int `yaml:"food"`
	Wood int `yaml:"wood"`
	Gold int `yaml:"gold"`
}

// TemplateSpec parameterises the fixed build-order task template
type TemplateSpec struct {
	Workers             int   `yaml:"workers"`
	HousesAfter         []int `yaml:"houses_after"`
	EconomyAfter        int   `yaml:"economy_after"`
	Tier1AfterWorker    int   `yaml:"tier1_after_worker"`
	Tier2AfterWorker    int   `yaml:"tier2_after_worker"`
	ResearchAfterWorker int   `yaml:"research_after_worker"`
}

// Catalogue is the table of every game constant the planner and the
// simulator depend on. It is enumerated once; nothing reads a constant
// from anywhere else.
type Catalogue struct {
	InitialResources  Resources `yaml:"initial_resources"`
	InitialWorkers    int       `yaml:"initial_workers"`
	InitialPopulation int       `yaml:"initial_population"`
	InitialCapacity   int       `yaml:"initial_capacity"`

	WorkerCost        Resources `yaml:"worker_cost"`
	WorkerReadyTicks  int       `yaml:"worker_ready_ticks"`
	WorkerTravelTicks int       `yaml:"worker_travel_ticks"`
	WorkerQueueTicks  int       `yaml:"worker_queue_ticks"`

	Structures map[StructureType]StructureSpec `yaml:"structures"`
	Techs      map[TechName]TechSpec           `yaml:"techs"`
	Tier1      AgeSpec                         `yaml:"tier1"`
	Tier2      AgeSpec                         `yaml:"tier2"`

	GatherRates       Rates   `yaml:"gather_rates"`
	FarmingMultiplier float64 `yaml:"farming_multiplier"`
	LoggingMultiplier float64 `yaml:"logging_multiplier"`
	EstimatorCapacity Rates   `yaml:"estimator_capacity"`

	Tier1EconomyStructures int         `yaml:"tier1_economy_structures"`
	Tier0Split             WorkerSplit `yaml:"tier0_split"`
	Tier1Split             WorkerSplit `yaml:"tier1_split"`
	RebalanceTargets       WorkerSplit `yaml:"rebalance_targets"`
	RebalanceFoodFloor     int         `yaml:"rebalance_food_floor"`

	Template        TemplateSpec `yaml:"template"`
	Horizon         int          `yaml:"horizon"`
	GatherTicks     int          `yaml:"gather_ticks"`
	SuccessDeadline int          `yaml:"success_deadline"`
}

// DefaultCatalogue returns the standard constants
func DefaultCatalogue() Catalogue {
	return Catalogue{
		InitialResources:  Resources{Food: 200, Wood: 200, Gold: 100},
		InitialWorkers:    3,
		InitialPopulation: 3,
		InitialCapacity:   5,

		WorkerCost:        Resources{Food: 50},
		WorkerReadyTicks:  25,
		WorkerTravelTicks: 5,
		WorkerQueueTicks:  25,

		Structures: map[StructureType]StructureSpec{
			TownCenter: {},
			House:      {Cost: Resources{Wood: 25}, BuildTime: 25, CapacityBonus: 5},
			Mill:       {Cost: Resources{Wood: 100}, BuildTime: 35},
			LumberCamp: {Cost: Resources{Wood: 100}, BuildTime: 35},
			MiningCamp: {Cost: Resources{Wood: 100}, BuildTime: 35},
			Barracks:   {Cost: Resources{Wood: 175}, BuildTime: 50},
			Market:     {Cost: Resources{Wood: 100}, BuildTime: 60},
			Blacksmith: {Cost: Resources{Wood: 150}, BuildTime: 50},
		},
		Techs: map[TechName]TechSpec{
			TechFarming: {Cost: Resources{Food: 125, Wood: 75}, Duration: 40},
			TechLogging: {Cost: Resources{Food: 50, Wood: 100}, Duration: 40},
			TechLoom:    {Cost: Resources{Gold: 50}, Duration: 25},
		},
		Tier1: AgeSpec{Cost: Resources{Food: 500}, Duration: 130},
		Tier2: AgeSpec{Cost: Resources{Food: 800, Gold: 200}, Duration: 160},

		GatherRates:       Rates{Food: 0.35, Wood: 0.39, Gold: 0.38},
		FarmingMultiplier: 1.15,
		LoggingMultiplier: 1.20,
		EstimatorCapacity: Rates{Food: 0.5, Wood: 0.4, Gold: 0.35},

		Tier1EconomyStructures: 2,
		Tier0Split:             WorkerSplit{Food: 10, Wood: 5},
		Tier1Split:             WorkerSplit{Food: 12, Wood: 3, Gold: 5},
		RebalanceTargets:       WorkerSplit{Food: 13, Wood: 2, Gold: 3},
		RebalanceFoodFloor:     9,

		Template: TemplateSpec{
			Workers:             13,
			HousesAfter:         []int{3, 8},
			EconomyAfter:        6,
			Tier1AfterWorker:    10,
			Tier2AfterWorker:    13,
			ResearchAfterWorker: 12,
		},
		Horizon:         1200,
		GatherTicks:     10,
		SuccessDeadline: 900,
	}
}

// Structure returns the spec for a structure type (zero value if unknown)
func (c *Catalogue) Structure(st StructureType) StructureSpec {
	return c.Structures[st]
}

// Tech returns the spec for a technology (zero value if unknown)
func (c *Catalogue) Tech(name TechName) TechSpec {
	return c.Techs[name]
}

// AgeTransition returns the spec for entering target
func (c *Catalogue) AgeTransition(target Age) (AgeSpec, bool) {
	switch target {
	case Tier1:
		return c.Tier1, true
	case Tier2:
		return c.Tier2, true
	}
	return AgeSpec{}, false
}
