package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/permafrostlab/frostline/pkg/config"
	"github.com/permafrostlab/frostline/pkg/ku"
)

// snow-sweep quantifies a site's sensitivity to snow cover: it sweeps
// the seasonal snow depth over a range, solves the permafrost model at
// each step, and fits the TTOP response with a linear regression.

func main() {
	var (
		configFile = flag.String("config", "sites.yaml", "Site configuration file")
		siteName   = flag.String("site", "", "Site name to sweep (required)")
		from       = flag.Float64("from", 0.0, "Starting snow depth in meters")
		to         = flag.Float64("to", 0.8, "Ending snow depth in meters")
		steps      = flag.Int("steps", 17, "Number of sweep steps")
		csvOutput  = flag.String("csv", "", "Optional CSV output file path")
	)
	flag.Parse()

	if *siteName == "" {
		fmt.Fprintln(os.Stderr, "Error: -site is required")
		flag.Usage()
		os.Exit(1)
	}
	if *steps < 2 || *to <= *from || *from < 0 {
		fmt.Fprintln(os.Stderr, "Error: sweep range must satisfy 0 <= from < to with at least 2 steps")
		os.Exit(1)
	}

	provider, err := config.NewProvider(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening configuration: %v\n", err)
		os.Exit(1)
	}
	defer provider.Close()

	site, err := provider.GetSite(*siteName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading site: %v\n", err)
		os.Exit(1)
	}

	depths := make([]float64, 0, *steps)
	ttops := make([]float64, 0, *steps)
	alts := make([]float64, 0, *steps)

	fmt.Printf("Snow Depth Sensitivity Sweep\n")
	fmt.Printf("============================\n\n")
	fmt.Printf("Site: %s (Ta=%.2f °C, Aa=%.2f °C)\n\n", site.Name,
		site.Climate.MeanAnnualTemp, site.Climate.AnnualAmplitude)
	fmt.Printf("%10s %12s %12s %10s\n", "Hsn (m)", "TTOP (°C)", "ALT (m)", "Regime")

	for i := 0; i < *steps; i++ {
		h := *from + (*to-*from)*float64(i)/float64(*steps-1)
		in := site.ToInputs()
		in.Snow.Depth = h

		res, err := ku.Solve(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error at Hsn=%.3f: %v\n", h, err)
			os.Exit(1)
		}

		depths = append(depths, h)
		ttops = append(ttops, res.Tps)
		alts = append(alts, res.Zal)
		fmt.Printf("%10.3f %12.3f %12.3f %10s\n", h, res.Tps, res.Zal, res.Regime)
	}

	alpha, beta := stat.LinearRegression(depths, ttops, nil, false)
	r2 := stat.RSquared(depths, ttops, nil, alpha, beta)

	fmt.Printf("\nLinear fit of TTOP vs. snow depth:\n")
	fmt.Printf("  Slope:     %+.3f °C per meter of snow\n", beta)
	fmt.Printf("  Intercept: %+.3f °C (no-snow TTOP estimate)\n", alpha)
	fmt.Printf("  R²:        %.4f\n", r2)

	if *csvOutput != "" {
		if err := writeCSV(*csvOutput, depths, ttops, alts); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(depths), *csvOutput)
	}
}

func writeCSV(path string, depths, ttops, alts []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"snow_depth_m", "ttop_c", "alt_m"}); err != nil {
		return err
	}
	for i := range depths {
		row := []string{
			strconv.FormatFloat(depths[i], 'f', 4, 64),
			strconv.FormatFloat(ttops[i], 'f', 4, 64),
			strconv.FormatFloat(alts[i], 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
