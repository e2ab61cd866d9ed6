package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/solver-aoe/internal/graph"
	"github.com/napolitain/solver-aoe/internal/pipeline"
	"github.com/napolitain/solver-aoe/internal/schedule"
	"github.com/napolitain/solver-aoe/internal/simulator"
)

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(0, 1)

func printRunHeader(run *pipeline.Run) {
	if quiet {
		return
	}
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Printf("Run %s\n", run.ID)
	if run.Schedule != nil {
		fmt.Printf("Schedule: %s, makespan %d ticks\n\n", run.Schedule.Status, run.Schedule.Makespan)
	}
}

func printNoPlan(run *pipeline.Run) {
	status := "no result"
	if run.Schedule != nil {
		status = string(run.Schedule.Status)
	}
	color.New(color.FgRed, color.Bold).Printf("No plan: the scheduling service returned %s\n", status)
}

func printTimeline(entries []schedule.TimelineEntry) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Task", "Action", "Start", "End", "Duration"}),
	)
	for i, e := range entries {
		action := string(e.Action)
		if action == "" {
			action = "-"
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			e.TaskID,
			action,
			formatTicks(e.Start),
			formatTicks(e.End),
			fmt.Sprintf("%d", e.End-e.Start),
		})
	}
	_ = table.Render()
}

func printSteps(steps []simulator.Step) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Action", "Outcome", "Waited", "Tick"}),
	)
	for _, st := range steps {
		outcome := "applied"
		if !st.Outcome.Applied {
			outcome = "skipped: " + string(st.Outcome.Reason)
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", st.Index+1),
			string(st.Action),
			outcome,
			fmt.Sprintf("%d", st.Waited),
			formatTicks(st.Tick),
		})
	}
	_ = table.Render()
}

func printGraph(order []graph.Task) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Task", "Type", "Duration", "Cost", "Exclusive", "After"}),
	)
	for _, t := range order {
		exclusive := ""
		if t.Exclusive {
			exclusive = "yes"
		}
		_ = table.Append([]string{
			t.ID,
			string(t.Type),
			fmt.Sprintf("%d", t.Duration),
			t.Cost.String(),
			exclusive,
			strings.Join(t.Predecessors, ", "),
		})
	}
	_ = table.Render()
}

func printReport(r simulator.Report) {
	successColor := color.New(color.FgGreen, color.Bold)
	errorColor := color.New(color.FgRed, color.Bold)

	lines := []string{
		fmt.Sprintf("Total time       %s (%d ticks)", formatTicks(r.TotalTicks), r.TotalTicks),
		fmt.Sprintf("Tier1 reached    %s", formatTransition(r.Tier1Tick)),
		fmt.Sprintf("Tier2 reached    %s", formatTransition(r.Tier2Tick)),
		fmt.Sprintf("Final age        %s", r.FinalAge),
		fmt.Sprintf("Resources        %s", r.Resources),
		fmt.Sprintf("Population       %d/%d", r.Population, r.Capacity),
		fmt.Sprintf("Workers          %s", r.Distribution),
		fmt.Sprintf("Reassignments    %d", r.Reassignments),
		fmt.Sprintf("Exclusive idle   %d ticks", r.ExclusiveIdleTicks),
		fmt.Sprintf("At pop cap       %.1f%%", r.PercentAtCap),
	}
	fmt.Println(summaryStyle.Render(strings.Join(lines, "\n")))

	if r.Success {
		successColor.Println("Success: Tier2 within the deadline")
	} else {
		errorColor.Println("Not successful: Tier2 not reached within the deadline")
	}
}

func formatTransition(tick int) string {
	if tick < 0 {
		return "never"
	}
	return formatTicks(tick)
}

// formatTicks renders ticks as mm:ss (one tick is one game second)
func formatTicks(ticks int) string {
	return fmt.Sprintf("%02d:%02d", ticks/60, ticks%60)
}
