package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"treprSuite/analysis"
	"treprSuite/dataset"
	"treprSuite/importer"
	"treprSuite/parameters"
	"treprSuite/processing"
	"treprSuite/quickPlot"
)

var (
	stepSpecs     []string
	analysisName  string
	analysisArgs  []string
	preprocessing []string

	importCmd = &cobra.Command{
		Use:   "import <measurement folder>",
		Short: "Import a measurement and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := importDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), ds)
		},
	}

	processCmd = &cobra.Command{
		Use:   "process <measurement folder>",
		Short: "Import a measurement, apply processing steps and store the result",
		Long: `Steps are given as "Name;key=value;key=value" and applied in order, e.g.
  trepr process data --step PretriggerOffsetCompensation --step 'Averaging;dimension=0;range=2e-6,3e-6'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := importDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := applySteps(ds, stepSpecs); err != nil {
				return err
			}
			outPath, err := prepareOutFolder(outputFolder(args[0]))
			if err != nil {
				return err
			}
			return storeDataset(ds, outPath, plotOptions(filepath.Base(args[0])))
		},
	}

	analyseCmd = &cobra.Command{
		Use:   "analyse <measurement folder>",
		Short: "Import a measurement, optionally process it and run one analysis step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := importDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := applySteps(ds, preprocessing); err != nil {
				return err
			}
			params, err := parameters.ParseAssignments(analysisArgs)
			if err != nil {
				return err
			}
			result, err := runAnalysis(ds, analysisName, params)
			if err != nil {
				return err
			}
			return storeResult(cmd.OutOrStdout(), result, args[0])
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the available processing and analysis steps",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Processing steps:")
			for _, name := range processing.GetAvailableSteps() {
				fmt.Fprintf(out, "  %v\n", name)
			}
			fmt.Fprintln(out, "Analysis steps:")
			for _, name := range analysis.GetAvailableSteps() {
				fmt.Fprintf(out, "  %v\n", name)
			}
		},
	}
)

func init() {
	processCmd.Flags().StringArrayVar(&stepSpecs, "step", nil, "Processing step as \"Name;key=value;...\". May be repeated")
	analyseCmd.Flags().StringArrayVar(&preprocessing, "step", nil, "Processing step applied before the analysis. May be repeated")
	analyseCmd.Flags().StringVar(&analysisName, "analysis", "", "Name of the analysis step")
	analyseCmd.Flags().StringArrayVar(&analysisArgs, "param", nil, "Analysis parameter as key=value. May be repeated")
	_ = analyseCmd.MarkFlagRequired("analysis")
}

func importDataset(ctx context.Context, folderPath string) (*dataset.Dataset, error) {
	return importer.Import(ctx, folderPath, importer.Options{
		Workers:        cfg.Workers,
		MemoryFraction: cfg.MemoryFraction,
		Logger:         slog.Default(),
		Metrics:        collector,
	})
}

func outputFolder(measurementPath string) string {
	if cfg.OutFolderPath != "" {
		return cfg.OutFolderPath
	}
	return filepath.Base(filepath.Clean(measurementPath)) + "-results"
}

func plotOptions(title string) quickPlot.Options {
	return quickPlot.Options{Title: title, Width: cfg.PlotWidth, Height: cfg.PlotHeight}
}

//parseStepFlag splits "Name;key=value;..." into the step name and its parameters
func parseStepFlag(flag string) (string, parameters.Parameters, error) {
	tokens := strings.Split(flag, ";")
	name := strings.TrimSpace(tokens[0])
	if name == "" {
		return "", nil, fmt.Errorf("missing step name in %q", flag)
	}
	params, err := parameters.ParseAssignments(tokens[1:])
	if err != nil {
		return "", nil, fmt.Errorf("step %v: %v", name, err)
	}
	return name, params, nil
}

func applySteps(ds *dataset.Dataset, stepFlags []string) error {
	for _, flag := range stepFlags {
		name, params, err := parseStepFlag(flag)
		if err != nil {
			return err
		}
		step, err := processing.New(name, params)
		if err != nil {
			return err
		}
		start := time.Now()
		err = ds.Process(step)
		collector.ObserveStep("processing", name, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("step %v failed : %w", name, err)
		}
		slog.Info("applied processing step", "step", name, "shape", ds.Data.Shape())
	}
	return nil
}

func runAnalysis(ds *dataset.Dataset, name string, params parameters.Parameters) (interface{}, error) {
	step, err := analysis.New(name, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := ds.Analyse(step)
	collector.ObserveStep("analysis", name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("analysis %v failed : %w", name, err)
	}
	return result, nil
}

//datasetSummary is the printable overview of an imported measurement
type datasetSummary struct {
	Source      string        `yaml:"source"`
	Shape       []int         `yaml:"shape"`
	Axes        []axisSummary `yaml:"axes"`
	Start       time.Time     `yaml:"start"`
	End         time.Time     `yaml:"end"`
	Operator    string        `yaml:"operator"`
	Frequency   string        `yaml:"mw_frequency"`
	Annotations []string      `yaml:"annotations,omitempty"`
}

func printSummary(out io.Writer, ds *dataset.Dataset) error {
	s := datasetSummary{
		Source:      ds.Source,
		Shape:       ds.Data.Shape(),
		Start:       ds.Metadata.Measurement.Start,
		End:         ds.Metadata.Measurement.End,
		Operator:    ds.Metadata.Measurement.Operator,
		Frequency:   ds.Metadata.Bridge.MwFrequency.String(),
		Annotations: ds.Annotations,
	}
	for _, a := range ds.Data.Axes() {
		s.Axes = append(s.Axes, axisSummary{Quantity: a.Quantity, Unit: a.Unit, Points: len(a.Values)})
	}
	encoder := yaml.NewEncoder(out)
	defer encoder.Close()
	return encoder.Encode(s)
}

//storeResult writes tabular results (channels, data) to the output folder and prints everything else
func storeResult(out io.Writer, result interface{}, measurementPath string) error {
	title := filepath.Base(measurementPath)
	switch r := result.(type) {
	case *dataset.Channel:
		outPath, err := prepareOutFolder(outputFolder(measurementPath))
		if err != nil {
			return err
		}
		if err := storeFile(outPath, "result.csv", func(w io.Writer) error {
			return writeChannelCSV(w, r)
		}); err != nil {
			return err
		}
		opts := plotOptions(title)
		if strings.HasPrefix(r.Axes[1].Quantity, "drift/") {
			//drift ratios above one are relevant
			one := 1.0
			opts.Reference = &one
		}
		return storeFile(outPath, "result.png", func(w io.Writer) error {
			p, err := quickPlot.PlotChannel(r, opts)
			if err != nil {
				return err
			}
			return quickPlot.Store(p, opts, w)
		})
	case *dataset.Data:
		outPath, err := prepareOutFolder(outputFolder(measurementPath))
		if err != nil {
			return err
		}
		ds := dataset.New(r)
		ds.Source = measurementPath
		return storeDataset(ds, outPath, plotOptions(title))
	case analysis.FrequencyStatistics:
		//the channel itself is large, print the statistics only
		r.Channel = nil
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(r)
	default:
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(r)
	}
}

