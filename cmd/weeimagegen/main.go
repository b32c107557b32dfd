// weeimagegen runs one plot generation pass: it loads the skin
// configuration, opens the archive database and writes one image per
// configured plot under the image root.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarkCupitt/weewx/src/archive"
	"github.com/MarkCupitt/weewx/src/logger"
	"github.com/MarkCupitt/weewx/src/plot"
	"github.com/MarkCupitt/weewx/src/plotconfig"
	"github.com/MarkCupitt/weewx/src/render"
	"github.com/MarkCupitt/weewx/src/units"
)

func main() {
	var (
		configPath  string
		dbPath      string
		imageRoot   string
		genTS       int64
		logLevel    string
		targetUnits string
		dbUnits     string
	)

	root := &cobra.Command{
		Use:   "weeimagegen",
		Short: "Generate plot images from the archive database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(logLevel); err != nil {
				return err
			}

			f, err := os.Open(configPath)
			if err != nil {
				return err
			}
			defer f.Close()
			cfg, err := plotconfig.Load(f)
			if err != nil {
				return err
			}

			mgr, err := archive.Open(dbPath, dbUnits)
			if err != nil {
				return err
			}
			defer mgr.Close()

			station := stationInfo(cfg)
			gen, err := plot.NewGenerator(cfg, imageRoot, station,
				archive.Bind(mgr), units.NewConverter(targetUnits), render.New())
			if err != nil {
				return err
			}

			var anchor time.Time
			if genTS != 0 {
				anchor = time.Unix(genTS, 0)
			}
			n, err := gen.Generate(anchor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d images\n", n)
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "skin.yaml", "skin configuration file")
	root.Flags().StringVar(&dbPath, "database", "weewx.sdb", "archive SQLite database")
	root.Flags().StringVar(&imageRoot, "image-root", ".", "directory images are written under")
	root.Flags().Int64Var(&genTS, "gen-ts", 0, "timestamp to generate around (epoch seconds, 0 = last archive record)")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.Flags().StringVar(&targetUnits, "target-units", units.US, "display unit system (us|metric|metricwx)")
	root.Flags().StringVar(&dbUnits, "database-units", units.US, "unit system archive rows are stored in")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// stationInfo reads the station location used for day/night shading from the
// optional Station section.
func stationInfo(cfg *plotconfig.Section) plot.StationInfo {
	var info plot.StationInfo
	if st := cfg.Child("Station"); st != nil {
		opts := st.Options()
		if lat, ok := opts.Float("latitude"); ok {
			info.Latitude = lat
		}
		if lon, ok := opts.Float("longitude"); ok {
			info.Longitude = lon
		}
	}
	return info
}
