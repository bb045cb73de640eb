package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/permafrostlab/frostline/internal/constants"
	"github.com/permafrostlab/frostline/internal/log"
	"github.com/permafrostlab/frostline/internal/storage"
	"github.com/permafrostlab/frostline/pkg/config"
	"github.com/permafrostlab/frostline/pkg/ku"
)

// siteReport is the JSON shape emitted with -json.
type siteReport struct {
	Site        string         `json:"site"`
	Regime      string         `json:"regime"`
	Tps         float64        `json:"tps"`
	Aps         float64        `json:"aps"`
	Zal         float64        `json:"zal"`
	Diagnostics ku.Diagnostics `json:"diagnostics"`
}

func main() {
	var (
		configFile  = flag.String("config", "sites.yaml", "Site configuration file (YAML, or SQLite with a .db/.sqlite extension)")
		siteName    = flag.String("site", "", "Solve a single site by name (default: all sites)")
		archivePath = flag.String("archive", "", "Optional SQLite run archive to record results in")
		jsonOut     = flag.Bool("json", false, "Emit results as JSON instead of a report")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		version     = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("frostline %s\n", constants.Version)
		return
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	provider, err := config.NewProvider(*configFile)
	if err != nil {
		log.Fatalf("opening site configuration %s: %v", *configFile, err)
	}
	defer provider.Close()

	var sites []config.SiteData
	if *siteName != "" {
		site, err := provider.GetSite(*siteName)
		if err != nil {
			log.Fatalf("loading site: %v", err)
		}
		sites = []config.SiteData{*site}
	} else {
		if sites, err = provider.LoadSites(); err != nil {
			log.Fatalf("loading sites: %v", err)
		}
	}

	var archive *storage.Store
	if *archivePath != "" {
		if archive, err = storage.New(*archivePath); err != nil {
			log.Fatalf("opening run archive: %v", err)
		}
		defer archive.Close()
	}

	var reports []siteReport
	for _, site := range sites {
		in := site.ToInputs()
		res, err := ku.Solve(in)
		if err != nil {
			log.Fatalf("solving site %q: %v", site.Name, err)
		}
		log.Debugf("site %s: regime=%s Tps=%.4f Zal=%.4f", site.Name, res.Regime, res.Tps, res.Zal)

		if archive != nil {
			id, err := archive.SaveRun(site.Name, in, res)
			if err != nil {
				log.Fatalf("archiving run for %q: %v", site.Name, err)
			}
			log.Infof("archived run %s for site %s", id, site.Name)
		}

		if *jsonOut {
			reports = append(reports, siteReport{
				Site:        site.Name,
				Regime:      res.Regime.String(),
				Tps:         res.Tps,
				Aps:         res.Aps,
				Zal:         res.Zal,
				Diagnostics: res.Diagnostics,
			})
			continue
		}
		printReport(site.Name, res)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			log.Fatalf("encoding results: %v", err)
		}
	}
}

func printReport(site string, res ku.Result) {
	d := res.Diagnostics
	fmt.Printf("Permafrost solution for %s\n", site)
	fmt.Printf("  Regime:              %s\n", res.Regime)
	fmt.Printf("  TTOP (Tps):          %.3f °C\n", res.Tps)
	fmt.Printf("  Amplitude (Aps):     %.3f °C\n", res.Aps)
	fmt.Printf("  Active layer (Zal):  %.3f m\n", res.Zal)
	fmt.Printf("  Ground surface:      %.3f ± %.3f °C\n", d.Tgs, d.Ags)
	fmt.Printf("  Snow damping:        %.3f (μ=%.4f)\n", d.DampingFactor, d.Mu)
	fmt.Printf("  Soil conductivity:   %.3f thawed / %.3f frozen W/(m·K)\n", d.Kt, d.Kf)
	fmt.Printf("  Cold season:         %.1f days\n", d.ColdSeason/86400)
	fmt.Println()
}
