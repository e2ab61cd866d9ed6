package simulator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/napolitain/solver-aoe/internal/economy"
	"github.com/napolitain/solver-aoe/internal/models"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type economyContext struct {
	cat    models.Catalogue
	state  *economy.State
	before *economy.State
	result *Result
	err    error
}

func (ec *economyContext) reset() {
	ec.cat = models.DefaultCatalogue()
	ec.state = nil
	ec.before = nil
	ec.result = nil
	ec.err = nil
}

func (ec *economyContext) aFreshEconomy() error {
	ec.state = economy.New(ec.cat)
	return nil
}

func (ec *economyContext) aTier1EconomyWithMarketAndBlacksmith() error {
	ec.state = economy.New(ec.cat)
	ec.state.Age = models.Tier1
	ec.state.Tier1Tick = 0
	ec.state.Structures = append(ec.state.Structures,
		economy.Structure{Type: models.Market, Complete: true},
		economy.Structure{Type: models.Blacksmith, Complete: true})
	return nil
}

func (ec *economyContext) theBankHolds(food, wood, gold int) error {
	ec.state.Resources = models.Resources{Food: food, Wood: wood, Gold: gold}
	return nil
}

func (ec *economyContext) rebalanceDisabled() error {
	ec.state.RebalanceOnTier1 = false
	return nil
}

func (ec *economyContext) aWorkerIsCreated() error {
	if o := ec.state.CreateWorker(); !o.Applied {
		return fmt.Errorf("CreateWorker: %s", o)
	}
	return nil
}

func (ec *economyContext) advances(n int) error {
	ec.state.Advance(n)
	return nil
}

func (ec *economyContext) simulate(plan string) error {
	return ec.simulateWithCeiling(plan, DefaultWaitCeiling)
}

func (ec *economyContext) simulateWithCeiling(plan string, ceiling int) error {
	var codes []models.ActionCode
	for _, part := range strings.Split(plan, ",") {
		code, err := models.ParseActionCode(part)
		if err != nil {
			return err
		}
		codes = append(codes, code)
	}
	ec.before = ec.state.Clone()
	ec.result, ec.err = New(ec.state, ec.cat, Options{WaitCeiling: ceiling}).Run(codes)
	return nil
}

func (ec *economyContext) thePopulationIs(n int) error {
	if ec.state.Population != n {
		return fmt.Errorf("population is %d, expected %d", ec.state.Population, n)
	}
	return nil
}

func (ec *economyContext) theBankHoldsFood(n int) error {
	if ec.state.Resources.Food != n {
		return fmt.Errorf("bank holds %d food, expected %d", ec.state.Resources.Food, n)
	}
	return nil
}

func (ec *economyContext) busyUntil(tick int) error {
	if !ec.state.ExclusiveBusy || ec.state.BusyUntil != tick {
		return fmt.Errorf("exclusive busy=%v until %d, expected busy until %d",
			ec.state.ExclusiveBusy, ec.state.BusyUntil, tick)
	}
	return nil
}

func (ec *economyContext) exclusiveFree() error {
	if ec.state.ExclusiveBusy {
		return fmt.Errorf("exclusive resource still busy at tick %d", ec.state.Now)
	}
	return nil
}

func (ec *economyContext) workerNotReady(id int) error {
	if ec.state.Workers[id].Ready {
		return fmt.Errorf("worker %d is ready at tick %d", id, ec.state.Now)
	}
	return nil
}

func (ec *economyContext) workerGathering(id int) error {
	if !ec.state.Workers[id].IsGathering() {
		return fmt.Errorf("worker %d is not gathering: %+v", id, ec.state.Workers[id])
	}
	return nil
}

func (ec *economyContext) runSucceeds() error {
	return ec.err
}

func (ec *economyContext) theAgeIs(age string) error {
	if got := ec.state.Age.String(); got != age {
		return fmt.Errorf("age is %s, expected %s", got, age)
	}
	return nil
}

func (ec *economyContext) tier1ReachedAt(tick int) error {
	if ec.state.Tier1Tick != tick {
		return fmt.Errorf("Tier1 reached at %d, expected %d", ec.state.Tier1Tick, tick)
	}
	return nil
}

func (ec *economyContext) distributionIs(want string) error {
	if got := ec.state.WorkerDistribution().String(); got != want {
		return fmt.Errorf("distribution is %q, expected %q", got, want)
	}
	return nil
}

func (ec *economyContext) stepSkippedWith(n int, reason string) error {
	st := ec.result.Steps[n-1]
	if st.Outcome.Applied || string(st.Outcome.Reason) != reason {
		return fmt.Errorf("step %d outcome is %s, expected skip %s", n, st.Outcome, reason)
	}
	return nil
}

func (ec *economyContext) economyUnchanged() error {
	if !reflect.DeepEqual(ec.state, ec.before) {
		return fmt.Errorf("economy changed: %s vs %s", ec.state, ec.before)
	}
	return nil
}

func (ec *economyContext) deadlocksAfter(reason string, ticks int) error {
	var dl *DeadlockError
	if !errors.As(ec.err, &dl) {
		return fmt.Errorf("expected a deadlock, got %v", ec.err)
	}
	if string(dl.Condition) != reason || dl.Waited != ticks {
		return fmt.Errorf("deadlock on %s after %d ticks, expected %s after %d", dl.Condition, dl.Waited, reason, ticks)
	}
	return nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	ec := &economyContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.reset()
		return c, nil
	})

	ctx.Step(`^a fresh economy$`, ec.aFreshEconomy)
	ctx.Step(`^a Tier1 economy with a market and a blacksmith$`, ec.aTier1EconomyWithMarketAndBlacksmith)
	ctx.Step(`^the bank holds (\d+) food, (\d+) wood and (\d+) gold$`, ec.theBankHolds)
	ctx.Step(`^the Tier1 rebalance is disabled$`, ec.rebalanceDisabled)

	ctx.Step(`^a worker is created$`, ec.aWorkerIsCreated)
	ctx.Step(`^the economy advances (\d+) ticks?$`, ec.advances)
	ctx.Step(`^the plan "([^"]*)" is simulated$`, ec.simulate)
	ctx.Step(`^the plan "([^"]*)" is simulated with a wait ceiling of (\d+)$`, ec.simulateWithCeiling)

	ctx.Step(`^the population is (\d+)$`, ec.thePopulationIs)
	ctx.Step(`^the bank holds (\d+) food$`, ec.theBankHoldsFood)
	ctx.Step(`^the exclusive resource is busy until tick (\d+)$`, ec.busyUntil)
	ctx.Step(`^the exclusive resource is free$`, ec.exclusiveFree)
	ctx.Step(`^worker (\d+) is not ready$`, ec.workerNotReady)
	ctx.Step(`^worker (\d+) is gathering$`, ec.workerGathering)
	ctx.Step(`^the run succeeds$`, ec.runSucceeds)
	ctx.Step(`^the age is (\w+)$`, ec.theAgeIs)
	ctx.Step(`^Tier1 was reached at tick (\d+)$`, ec.tier1ReachedAt)
	ctx.Step(`^the worker distribution is "([^"]*)"$`, ec.distributionIs)
	ctx.Step(`^step (\d+) is skipped with "([^"]*)"$`, ec.stepSkippedWith)
	ctx.Step(`^the economy is unchanged$`, ec.economyUnchanged)
	ctx.Step(`^the run deadlocks on "([^"]*)" after (\d+) ticks$`, ec.deadlocksAfter)
}
