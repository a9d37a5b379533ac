package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/solarsim/internal/automation"
	"github.com/san-kum/solarsim/internal/experiment"
	"github.com/spf13/cobra"
)

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if script.Name != "" {
		fmt.Println(headerStyle.Render(script.Name))
	}
	defaults := experiment.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, SampleEvery: cfg.SampleEvery}
	src := experiment.Sources{Warn: os.Stderr, Quiet: cfg.Quiet}

	results, runErr := automation.RunScript(ctx, script, src, defaults, os.Stdout)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tSCENARIO\tTICKS\tRUN ID")
	for i, r := range results {
		runID, err := st.Save(r.Scenario, r.Config, r.Result, r.Final)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, r.Scenario, r.Result.TicksTaken, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scn, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	d, n := stepSettings(cmd, cfg, scn)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s: %d trials, positions perturbed by up to %gm", scn.Name, trials, mcEps)))

	results, err := automation.RunMonteCarlo(ctx, scn.Registry, automation.MonteCarloConfig{
		Perturbation: mcEps,
		NumTrials:    trials,
		Dt:           d,
		Ticks:        n,
		Bound:        bound,
		Seed:         mcSeed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tMAX OFFSET\tMIN SEPARATION\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\t%v\n", r.TrialID, r.MaxOffset, r.MinSeparation, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}
