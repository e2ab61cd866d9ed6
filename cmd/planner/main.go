package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-aoe/internal/adapters/grpcsched"
	"github.com/napolitain/solver-aoe/internal/adapters/metrics"
	"github.com/napolitain/solver-aoe/internal/config"
	"github.com/napolitain/solver-aoe/internal/economy"
	"github.com/napolitain/solver-aoe/internal/loader"
	"github.com/napolitain/solver-aoe/internal/models"
	"github.com/napolitain/solver-aoe/internal/pipeline"
	"github.com/napolitain/solver-aoe/internal/planner"
	"github.com/napolitain/solver-aoe/internal/schedule"
	"github.com/napolitain/solver-aoe/internal/solver/cpsched"
)

// exitNoPlan is returned when the scheduling service finds no plan
const exitNoPlan = 2

var (
	configFile    string
	catalogueFile string
	planFlag      string
	research      bool
	quiet         bool
)

// app bundles what every subcommand needs
type app struct {
	cfg      *config.Config
	cat      models.Catalogue
	logger   *slog.Logger
	svc      schedule.Service
	recorder *metrics.Recorder
	closeFn  func() error
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "Build-order planner and economy simulator",
		Long: `Schedules the fixed build-order template to reach Tier2 as early as
possible, then replays the resulting plan on a tick-accurate economy.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&catalogueFile, "catalogue", "", "Path to YAML catalogue overlay")
	rootCmd.PersistentFlags().BoolVar(&research, "research", false, "Include the research tasks in the template")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule the template and print the plan",
		RunE:  runPlan,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Schedule and replay the plan (or replay --plan directly)",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVarP(&planFlag, "plan", "p", "", "Comma separated action codes to replay instead of scheduling")

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the remaining ticks to Tier2 after an optional plan prefix",
		RunE:  runEstimate,
	}
	estimateCmd.Flags().StringVarP(&planFlag, "plan", "p", "", "Comma separated action codes to replay first")

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the template task graph in topological order",
		RunE:  runGraph,
	}

	rootCmd.AddCommand(planCmd, simulateCmd, estimateCmd, graphCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if catalogueFile != "" {
		cfg.Catalogue.Path = catalogueFile
	}
	if research {
		cfg.Planner.IncludeResearch = true
	}

	cat, err := loader.LoadCatalogue(cfg.Catalogue.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		cat:     cat,
		logger:  config.NewLogger(cfg.Logging),
		closeFn: func() error { return nil },
	}

	switch cfg.Scheduler.Mode {
	case "grpc":
		client, err := grpcsched.Dial(cfg.Scheduler.Address)
		if err != nil {
			return nil, err
		}
		a.svc = client
		a.closeFn = client.Close
	default:
		a.svc = cpsched.New(a.logger)
	}

	if cfg.Metrics.Textfile != "" {
		if a.recorder, err = metrics.NewRecorder(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) runner() *pipeline.Runner {
	opts := pipeline.Options{
		Catalogue:       a.cat,
		Horizon:         a.cfg.Planner.Horizon,
		IncludeResearch: a.cfg.Planner.IncludeResearch,
		Params:          schedule.Params{Timeout: a.cfg.Scheduler.Timeout, Workers: a.cfg.Scheduler.Workers},
		WaitCeiling:     a.cfg.Simulator.WaitCeiling,
		Logger:          a.logger,
	}
	if a.recorder != nil {
		opts.Recorder = a.recorder
	}
	return pipeline.NewRunner(a.svc, opts)
}

func (a *app) close() {
	if a.recorder != nil {
		if err := a.recorder.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Warn("metrics export failed", "error", err)
		}
	}
	if err := a.closeFn(); err != nil {
		a.logger.Warn("close failed", "error", err)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	run, err := a.runner().Schedule(cmd.Context())
	if err != nil {
		return err
	}
	printRunHeader(run)
	if run.Status == pipeline.StatusNoPlan {
		printNoPlan(run)
		a.close()
		os.Exit(exitNoPlan)
	}
	if !quiet {
		printTimeline(run.Timeline)
	}
	fmt.Println(models.FormatPlan(run.Plan))
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	r := a.runner()
	var run *pipeline.Run
	if planFlag != "" {
		plan, err := parsePlan(planFlag)
		if err != nil {
			return err
		}
		run = &pipeline.Run{ID: "manual", Plan: plan}
		if err := r.Simulate(run, economy.New(a.cat)); err != nil {
			return err
		}
	} else {
		run, err = r.Execute(cmd.Context())
		if err != nil {
			return err
		}
		printRunHeader(run)
		if run.Status == pipeline.StatusNoPlan {
			printNoPlan(run)
			a.close()
			os.Exit(exitNoPlan)
		}
	}

	if !quiet {
		printSteps(run.Simulation.Steps)
	}
	if run.Deadlock != nil {
		color.New(color.FgRed, color.Bold).Printf("Deadlock: %v\n", run.Deadlock)
	}
	printReport(run.Simulation.Report)
	return nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	g, _, err := a.runner().BuildModel()
	if err != nil {
		return err
	}

	state := economy.New(a.cat)
	if planFlag != "" {
		plan, err := parsePlan(planFlag)
		if err != nil {
			return err
		}
		run := &pipeline.Run{ID: "estimate", Plan: plan}
		if err := a.runner().Simulate(run, state); err != nil {
			return err
		}
		if run.Deadlock != nil {
			color.Yellow("Plan prefix deadlocked: %v", run.Deadlock)
		}
	}

	remaining := planner.EstimateRemaining(state, g, a.cat)
	color.New(color.FgCyan, color.Bold).Printf("Tick %d, %s, %s\n", state.Now, state.Age, state.Resources)
	fmt.Printf("Estimated remaining ticks to Tier2: %.1f\n", remaining)
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	g, m, err := a.runner().BuildModel()
	if err != nil {
		return err
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return err
	}
	printGraph(order)
	if !quiet {
		fmt.Printf("%d tasks, %d precedences, %d exclusive, horizon %d\n",
			g.Len(), len(m.Precedences), len(m.NoOverlap), m.Horizon)
	}
	return nil
}

func parsePlan(s string) ([]models.ActionCode, error) {
	var plan []models.ActionCode
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		code, err := models.ParseActionCode(part)
		if err != nil {
			return nil, err
		}
		plan = append(plan, code)
	}
	if len(plan) == 0 {
		return nil, errors.New("empty plan")
	}
	return plan, nil
}
