package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/dazca/municat/internal/source"
)

var sourcesProbe bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List catalog resources, optionally probing each portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, catalog, err := buildSource()
		if err != nil {
			return err
		}

		for _, res := range catalog.Resources {
			status := ""
			if sourcesProbe {
				if err := src.Probe(cmd.Context(), res.Name); err != nil {
					if eris.Is(err, source.ErrUnavailable) {
						status = "  [unavailable]"
					} else {
						status = "  [error: " + err.Error() + "]"
					}
				} else {
					status = "  [ok]"
				}
			}
			fmt.Printf("%-20s %-10s %s%s\n", res.Name, res.Kind, res.URL, status)
		}
		return nil
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesProbe, "probe", false, "issue a request to each resource URL")
	rootCmd.AddCommand(sourcesCmd)
}
