package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarsim/internal/analysis"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/storage"
	"github.com/san-kum/solarsim/internal/viz"
	"github.com/spf13/cobra"
)

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(tr.Ticks) == 0 {
		return fmt.Errorf("no samples in run %s", args[0])
	}

	indices, err := bodySelection(tr, plotBody)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %d samples)\n\n", meta.ID, meta.Scenario, len(tr.Ticks))

	if orbit {
		for _, i := range indices {
			xs, ys := tr.Body(i)
			fmt.Println(headerStyle.Render(bodyLabel(meta, i)))
			fmt.Println(analysis.OrbitToASCII(analysis.Points(xs, ys), 70, 24))
		}
		return nil
	}

	for _, i := range indices {
		xs, ys := tr.Body(i)
		graph := asciigraph.PlotMany(
			[][]float64{xs, ys},
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption(bodyLabel(meta, i)+": x (red), y (blue)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func bodySelection(tr *storage.Trajectory, index int) ([]int, error) {
	n := tr.NumBodies()
	if index >= n || index < -1 {
		return nil, fmt.Errorf("body %d out of range (0..%d)", index, n-1)
	}
	if index >= 0 {
		return []int{index}, nil
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all, nil
}

func bodyLabel(meta *storage.RunMetadata, i int) string {
	if i < len(meta.Bodies) {
		return fmt.Sprintf("body %d %s", i, meta.Bodies[i])
	}
	return fmt.Sprintf("body %d", i)
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	if outFile == "" {
		return st.ExportCSV(os.Stdout, args[0])
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := st.ExportCSV(f, args[0]); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	th := viz.GetTheme(theme)
	final, err := st.LoadFinal(args[0])
	if err != nil && !errors.Is(err, storage.ErrNoFinal) {
		return err
	}

	orbits := make([]export.Orbit, tr.NumBodies())
	for i := range orbits {
		xs, ys := tr.Body(i)
		color := th.Trail
		if final != nil && i < final.Len() {
			color = th.BodyColor(final.At(i).Color())
		}
		orbits[i] = export.Orbit{
			Label:  bodyLabel(meta, i),
			Color:  string(color),
			Points: analysis.Points(xs, ys),
		}
	}

	svg := export.OrbitsSVG(orbits, 800, 800, string(th.Background))
	if braille {
		svg = export.CanvasToSVG(export.OrbitsCanvas(orbits, 100, 50), 4, string(th.Background), string(th.Trail))
	}
	if svg == "" {
		return fmt.Errorf("no samples in run %s", args[0])
	}
	if outFile == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	n := tr.NumBodies()
	if bodyIndex < 0 || bodyIndex >= n {
		return fmt.Errorf("body %d out of range (0..%d)", bodyIndex, n-1)
	}
	if refIndex < -1 || refIndex >= n || refIndex == bodyIndex {
		return fmt.Errorf("invalid reference body %d", refIndex)
	}

	xs, ys := tr.Body(bodyIndex)
	points := analysis.Points(xs, ys)
	ref := "origin"
	if refIndex >= 0 {
		rx, ry := tr.Body(refIndex)
		points = analysis.Relative(xs, ys, rx, ry)
		ref = bodyLabel(meta, refIndex)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s relative to %s, %d samples\n\n", bodyLabel(meta, bodyIndex), ref, len(points))

	if period, err := analysis.CrossingPeriod(points, tr.Times); err == nil {
		fmt.Printf("crossing period: %.4g s (%.2f days)\n", period, period/86400)
	} else {
		fmt.Printf("crossing period: %v\n", err)
	}

	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.X
	}
	sampleDt := 0.0
	if len(tr.Times) > 1 {
		sampleDt = tr.Times[1] - tr.Times[0]
	}
	if period, err := analysis.DominantPeriod(series, sampleDt); err == nil {
		fmt.Printf("spectral period: %.4g s (%.2f days)\n", period, period/86400)
	} else {
		fmt.Printf("spectral period: %v\n", err)
	}

	spectrum := analysis.PowerSpectrum(series)
	if len(spectrum) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("power spectrum of x"),
		))
	}
	return nil
}

func sensitivity(cmd *cobra.Command, args []string) error {
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

	lambda, err := analysis.Divergence(ctx, scn.Registry, bodyIndex, perturbation, d, n)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s, body %d displaced by %gm\n", scn.Name, bodyIndex, perturbation)
	fmt.Printf("span: %.2f days at dt %gs\n", d*float64(n)/86400, d)
	fmt.Printf("divergence rate: %.4g 1/s\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.2f days\n", 1/lambda/86400)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
