package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/swpdata/sitecat/internal/ent/sink"
	"github.com/swpdata/sitecat/internal/io/assembleio"
	"github.com/swpdata/sitecat/internal/io/catalogio"
	"github.com/swpdata/sitecat/internal/io/exportio"
	sitecat "github.com/swpdata/sitecat/pkg"
	"github.com/swpdata/sitecat/pkg/config"
)

// assembleCmd represents the assemble command.
var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Rebuilds the site layer from all sources and exports it",
	Run: func(cmd *cobra.Command, _ []string) {
		withPG, err := cmd.Flags().GetBool("pg")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if withPG {
			opts = append(opts, config.OptWithPG(true))
		}
		cfg := config.New(opts...)
		sc := sitecat.New(cfg)

		// The catalog is the one input the run aborts without: with no
		// catalog there is nothing to join against.
		cat, err := catalogio.New(cfg.CatalogFile)
		if err != nil {
			slog.Error("Cannot load dataset catalog", "error", err)
			os.Exit(1)
		}

		sinks := []sink.Sink{exportio.NewGeoJSON(cfg)}
		if cfg.WithPG {
			sinks = append(sinks, exportio.Optional(exportio.NewPG(cfg)))
		}

		a := assembleio.New(cfg, cat, sinks)
		if err = sc.Assemble(a); err != nil {
			slog.Error("Cannot assemble site layer", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	assembleCmd.Flags().BoolP("pg", "p", false,
		"also export the layer into PostgreSQL")
}
