package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vizstudio/internal/config"
	"vizstudio/internal/dataset"
	"vizstudio/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	catalog *dataset.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "vizstudio",
	Short: "Vizstudio is a query/analytics engine for tabular dashboards",
	Long: `A deterministic analytics engine that turns a tabular dataset plus a
declarative query into a time-bucketed series, categorical breakdowns, and
summary KPIs, with shareable URL state and persisted saved views.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Config resolves the log directory, so load it with the default
		// logger first, then re-init with the configured sink.
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		logging.Init(verbose, cfg.LogDir)

		catalog = dataset.NewCatalog()
		if err := catalog.LoadDir(cfg.DatasetsDir); err != nil {
			log.Warn().Err(err).Msg("Failed to load user datasets")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Vizstudio starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
