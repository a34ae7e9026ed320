//Command trepr imports time-resolved EPR measurements, applies processing steps and runs analyses
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"treprSuite/metrics"
)

var (
	configFile     string
	workers        int
	memoryFraction float64
	outFolderPath  string
	metricsFile    string
	logLevel       string

	cfg       config
	collector *metrics.Collector

	rootCmd = &cobra.Command{
		Use:   "trepr",
		Short: "Import, process and analyse time-resolved EPR measurements",
		Long: `trepr reads a measurement directory containing one trace file per magnetic field
point (*.001, *.002, ...) together with its *.info file, assembles it into a two
dimensional dataset and applies processing and analysis steps to it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(configFile)
			if err != nil {
				return err
			}
			//flags take precedence over the config file
			flags := cmd.Flags()
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("memory-fraction") {
				cfg.MemoryFraction = memoryFraction
			}
			if flags.Changed("out") {
				cfg.OutFolderPath = outFolderPath
			}
			if flags.Changed("metrics-file") {
				cfg.MetricsFile = metricsFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			slog.SetDefault(cfg.logger())
			collector = metrics.NewCollector()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.MetricsFile == "" {
				return nil
			}
			return collector.WriteToTextfile(cfg.MetricsFile)
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.IntVar(&workers, "workers", 0, "Number of trace files parsed in parallel. Defaults to the number of CPUs")
	flags.Float64Var(&memoryFraction, "memory-fraction", 0.5, "Share of the total memory a single import may use")
	flags.StringVar(&outFolderPath, "out", "", "Output folder. Defaults to <measurement>-results")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write prometheus metrics in text format to this file")
	flags.StringVar(&logLevel, "log-level", "info", "One of debug, info, warn, error")

	rootCmd.AddCommand(importCmd, processCmd, analyseCmd, listCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
