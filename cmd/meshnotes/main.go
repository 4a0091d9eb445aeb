package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/internal/config"
	"github.com/NilsSchnorr/MeshNotes/internal/logger"
)

var (
	flagConfig string
	flagDebug  bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "meshnotes",
	Short: "Inspect, validate and merge mesh annotation documents",
	Long: `meshnotes works with the JSON annotation documents produced by the
MeshNotes annotation tool: groups, annotations (points, lines, polygons,
painted surfaces, boxes) and their timestamped entry histories.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if flagDebug {
			level = "debug"
		}
		log = logger.New(level, cfg.Logging.LogFile)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
