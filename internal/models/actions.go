package models

import (
	"fmt"
	"strings"
)

// ActionCode is one symbol of the plan alphabet. Plans carry no parameters;
// the resource or structure an action touches is implied by its code.
type ActionCode string

const (
	ActionCreateWorker        ActionCode = "CreateWorker"
	ActionBuildHouse          ActionCode = "BuildHouse"
	ActionBuildMill           ActionCode = "BuildMill"
	ActionBuildLumberCamp     ActionCode = "BuildLumberCamp"
	ActionBuildMiningCamp     ActionCode = "BuildMiningCamp"
	ActionBuildBarracks       ActionCode = "BuildBarracks"
	ActionBuildMarket         ActionCode = "BuildMarket"
	ActionBuildBlacksmith     ActionCode = "BuildBlacksmith"
	ActionAdvanceTier1        ActionCode = "AdvanceTier1"
	ActionAdvanceTier2        ActionCode = "AdvanceTier2"
	ActionGatherResources     ActionCode = "GatherResources"
	ActionResearchFarmingTech ActionCode = "ResearchFarmingTech"
	ActionResearchLoggingTech ActionCode = "ResearchLoggingTech"
)

// AllActionCodes returns the plan alphabet in deterministic order
func AllActionCodes() []ActionCode {
	return []ActionCode{
		ActionCreateWorker,
		ActionBuildHouse, ActionBuildMill, ActionBuildLumberCamp, ActionBuildMiningCamp,
		ActionBuildBarracks, ActionBuildMarket, ActionBuildBlacksmith,
		ActionAdvanceTier1, ActionAdvanceTier2,
		ActionGatherResources,
		ActionResearchFarmingTech, ActionResearchLoggingTech,
	}
}

// taskActions is the fixed type→code table used when turning a schedule
// into a plan. Task types missing here have no plan symbol.
var taskActions = map[TaskType]ActionCode{
	TaskCreateWorker:    ActionCreateWorker,
	TaskBuildHouse:      ActionBuildHouse,
	TaskBuildMill:       ActionBuildMill,
	TaskBuildLumberCamp: ActionBuildLumberCamp,
	TaskBuildMiningCamp: ActionBuildMiningCamp,
	TaskBuildBarracks:   ActionBuildBarracks,
	TaskBuildMarket:     ActionBuildMarket,
	TaskBuildBlacksmith: ActionBuildBlacksmith,
	TaskAdvanceTier1:    ActionAdvanceTier1,
	TaskAdvanceTier2:    ActionAdvanceTier2,
	TaskGatherFood:      ActionGatherResources,
	TaskGatherWood:      ActionGatherResources,
	TaskGatherGold:      ActionGatherResources,
	TaskResearchFarming: ActionResearchFarmingTech,
	TaskResearchLogging: ActionResearchLoggingTech,
}

// ActionForTask maps a task type to its plan symbol
func ActionForTask(tt TaskType) (ActionCode, bool) {
	code, ok := taskActions[tt]
	return code, ok
}

// BuildTarget returns the structure a Build* code constructs
func (c ActionCode) BuildTarget() (StructureType, bool) {
	switch c {
	case ActionBuildHouse:
		return House, true
	case ActionBuildMill:
		return Mill, true
	case ActionBuildLumberCamp:
		return LumberCamp, true
	case ActionBuildMiningCamp:
		return MiningCamp, true
	case ActionBuildBarracks:
		return Barracks, true
	case ActionBuildMarket:
		return Market, true
	case ActionBuildBlacksmith:
		return Blacksmith, true
	}
	return "", false
}

// ParseActionCode accepts the canonical names ("BuildMill") and the
// upper snake case form used in plan files ("BUILD_MILL").
func ParseActionCode(s string) (ActionCode, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for _, c := range AllActionCodes() {
		if strings.ToLower(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown action code %q", s)
}

// FormatPlan renders a plan as a comma separated list
func FormatPlan(plan []ActionCode) string {
	parts := make([]string, len(plan))
	for i, c := range plan {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
