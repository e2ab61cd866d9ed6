package economy

// SkipReason says why a handler left the state untouched
type SkipReason string

const (
	SkipExclusiveBusy         SkipReason = "exclusive-busy"
	SkipPopulationCap         SkipReason = "population-cap"
	SkipInsufficientResources SkipReason = "insufficient-resources"
	SkipWrongAge              SkipReason = "wrong-age"
	SkipNotBuildable          SkipReason = "not-buildable"
	SkipMissingPrerequisite   SkipReason = "missing-prerequisite"
	SkipAlreadyResearched     SkipReason = "already-researched"
	SkipUnknownWorker         SkipReason = "unknown-worker"
	SkipNoIdleWorker          SkipReason = "no-idle-worker"
	SkipUnknownTech           SkipReason = "unknown-tech"

	// Set by the simulator rather than by a handler
	SkipAgeAdvancePending SkipReason = "age-advance-pending"
	SkipUnknownAction     SkipReason = "unknown-action"
)

// Outcome is the result of a handler: applied, or skipped with a reason
type Outcome struct {
	Applied bool
	Reason  SkipReason
}

// Applied is the outcome of a successful handler
var Applied = Outcome{Applied: true}

// Skipped builds a skip outcome
func Skipped(r SkipReason) Outcome {
	return Outcome{Reason: r}
}

// OK reports whether the handler would apply (for Check twins)
func (o Outcome) OK() bool { return o.Applied }

func (o Outcome) String() string {
	if o.Applied {
		return "applied"
	}
	return "skipped: " + string(o.Reason)
}

// Waitable reports whether ticking can make the skipped precondition hold
func (r SkipReason) Waitable() bool {
	switch r {
	case SkipExclusiveBusy, SkipPopulationCap, SkipInsufficientResources, SkipMissingPrerequisite:
		return true
	}
	return false
}
