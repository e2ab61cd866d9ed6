package models

import "fmt"

// ResourceType represents the different resource types in the game
type ResourceType string

const (
	Food ResourceType = "food"
	Wood ResourceType = "wood"
	Gold ResourceType = "gold"
)

// AllResourceTypes returns all resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Food, Wood, Gold}
}

// Resources is a food/wood/gold vector used for costs and the ledger
type Resources struct {
	Food int `yaml:"food" json:"food"`
	Wood int `yaml:"wood" json:"wood"`
	Gold int `yaml:"gold" json:"gold"`
}

// Get returns the amount for a specific resource type
func (r Resources) Get(rt ResourceType) int {
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

// HasEnough reports whether r covers cost on every resource
func (r Resources) HasEnough(cost Resources) bool {
	return r.Food >= cost.Food && r.Wood >= cost.Wood && r.Gold >= cost.Gold
}

// Add adds amount to r
func (r *Resources) Add(amount Resources) {
	r.Food += amount.Food
	r.Wood += amount.Wood
	r.Gold += amount.Gold
}

// AddTo adds n units of a single resource
func (r *Resources) AddTo(rt ResourceType, n int) {
	switch rt {
	case Food:
		r.Food += n
	case Wood:
		r.Wood += n
	case Gold:
		r.Gold += n
	}
}

// Sub deducts cost from r. Callers must check HasEnough first; an
// underflow is a programming error and panics.
func (r *Resources) Sub(cost Resources) {
	if !r.HasEnough(cost) {
		panic(fmt.Sprintf("resource underflow: have %s, need %s", r, cost))
	}
	r.Food -= cost.Food
	r.Wood -= cost.Wood
	r.Gold -= cost.Gold
}

// Plus returns r + other without modifying either
func (r Resources) Plus(other Resources) Resources {
	r.Add(other)
	return r
}

// IsZero reports whether every component is zero
func (r Resources) IsZero() bool {
	return r.Food == 0 && r.Wood == 0 && r.Gold == 0
}

func (r Resources) String() string {
	return fmt.Sprintf("F:%d W:%d G:%d", r.Food, r.Wood, r.Gold)
}

// Age is the progression tier. Ordering is meaningful: a tier can only be
// entered from the one directly below it.
type Age int

const (
	Tier0 Age = iota
	Tier1
	Tier2
)

// AllAges returns all ages in progression order
func AllAges() []Age {
	return []Age{Tier0, Tier1, Tier2}
}

func (a Age) String() string {
	switch a {
	case Tier0:
		return "Tier0"
	case Tier1:
		return "Tier1"
	case Tier2:
		return "Tier2"
	default:
		return fmt.Sprintf("Age(%d)", int(a))
	}
}

// Previous returns the tier directly below a, and false for Tier0
func (a Age) Previous() (Age, bool) {
	if a <= Tier0 || a > Tier2 {
		return Tier0, false
	}
	return a - 1, true
}

// StructureType represents the different building types
type StructureType string

const (
	TownCenter StructureType = "town_center"
	House      StructureType = "house"
	Mill       StructureType = "mill"
	LumberCamp StructureType = "lumber_camp"
	MiningCamp StructureType = "mining_camp"
	Barracks   StructureType = "barracks"
	Market     StructureType = "market"
	Blacksmith StructureType = "blacksmith"
)

// AllStructureTypes returns all structure types in deterministic order
func AllStructureTypes() []StructureType {
	return []StructureType{
		TownCenter, House, Mill, LumberCamp, MiningCamp,
		Barracks, Market, Blacksmith,
	}
}

// TechName represents technology names as constants
type TechName string

const (
	TechFarming TechName = "farming"
	TechLogging TechName = "logging"
	TechLoom    TechName = "loom"
)

// AllTechNames returns all technology names in deterministic order
func AllTechNames() []TechName {
	return []TechName{TechFarming, TechLogging, TechLoom}
}

// TechFlags tracks which technologies are researched (deterministic)
type TechFlags struct {
	Farming bool
	Logging bool
	Loom    bool
}

// Get returns whether a tech is researched
func (t *TechFlags) Get(name TechName) bool {
	switch name {
	case TechFarming:
		return t.Farming
	case TechLogging:
		return t.Logging
	case TechLoom:
		return t.Loom
	}
	return false
}

// Set sets whether a tech is researched
func (t *TechFlags) Set(name TechName, researched bool) {
	switch name {
	case TechFarming:
		t.Farming = researched
	case TechLogging:
		t.Logging = researched
	case TechLoom:
		t.Loom = researched
	}
}

// Each iterates over all techs in deterministic order
func (t *TechFlags) Each(fn func(TechName, bool)) {
	fn(TechFarming, t.Farming)
	fn(TechLogging, t.Logging)
	fn(TechLoom, t.Loom)
}

// TaskType is the kind of work a task in the precedence graph stands for
type TaskType string

const (
	TaskCreateWorker    TaskType = "create_worker"
	TaskBuildHouse      TaskType = "build_house"
	TaskBuildMill       TaskType = "build_mill"
	TaskBuildLumberCamp TaskType = "build_lumber_camp"
	TaskBuildMiningCamp TaskType = "build_mining_camp"
	TaskBuildBarracks   TaskType = "build_barracks"
	TaskBuildMarket     TaskType = "build_market"
	TaskBuildBlacksmith TaskType = "build_blacksmith"
	TaskAdvanceTier1    TaskType = "advance_tier1"
	TaskAdvanceTier2    TaskType = "advance_tier2"
	TaskGatherFood      TaskType = "gather_food"
	TaskGatherWood      TaskType = "gather_wood"
	TaskGatherGold      TaskType = "gather_gold"
	TaskResearchFarming TaskType = "research_farming"
	TaskResearchLogging TaskType = "research_logging"
	TaskResearchLoom    TaskType = "research_loom"
)
