package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dazca/municat/internal/fusion"
	"github.com/dazca/municat/internal/snapshot"
	"github.com/dazca/municat/internal/source"
)

var fuseNoSnapshot bool

var fuseCmd = &cobra.Command{
	Use:   "fuse",
	Short: "Run one load cycle and print a coverage summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		var bar *progressbar.ProgressBar
		var opts []source.Option
		if isatty.IsTerminal(os.Stderr.Fd()) {
			opts = append(opts, source.WithProgress(func(name string) {
				if bar != nil {
					_ = bar.Add(1)
				}
			}))
		}

		src, catalog, err := buildSource(opts...)
		if err != nil {
			return err
		}
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(catalog.Resources),
				progressbar.OptionSetDescription("Fetching resources"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		result, err := buildEngine(src).Run(cmd.Context())
		if err != nil {
			return err
		}

		if !fuseNoSnapshot && cfg.Snapshot.Path != "" {
			st, err := snapshot.Open(cfg.Snapshot.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := st.Save(cmd.Context(), result); err != nil {
				return err
			}
			zap.L().Info("cycle saved", zap.String("path", cfg.Snapshot.Path))
		}

		printCoverage(result)
		return nil
	},
}

func init() {
	fuseCmd.Flags().BoolVar(&fuseNoSnapshot, "no-snapshot", false, "skip persisting the fused cycle")
	rootCmd.AddCommand(fuseCmd)
}

// printCoverage reports how many municipalities each fused category covers.
func printCoverage(result *fusion.Result) {
	counts := map[string]int{}
	for _, rec := range result.Table {
		if rec.Votes != nil {
			counts["votes"]++
		}
		if rec.Crime != nil {
			counts["crime"]++
		}
		if rec.Rent != nil {
			counts["rents"]++
		}
		if rec.Employment != nil {
			counts["employment"]++
		}
		if rec.AirQuality != nil {
			counts["air_quality"]++
		}
		if rec.Internet != nil {
			counts["internet"]++
		}
		if rec.Terrain != nil {
			counts["terrain"]++
		}
		if rec.Forest != nil {
			counts["forest"]++
		}
		if len(rec.FacilityKm) > 0 {
			counts["facilities"]++
		}
		if len(rec.Climate) > 0 {
			counts["climate"]++
		}
	}

	fmt.Printf("cycle %s: %d municipalities, %d centroids\n",
		result.CycleID, len(result.Table), len(result.Centroids))

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-12s %5d / %d\n", name, counts[name], len(result.Table))
	}
}
