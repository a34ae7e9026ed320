package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"treprSuite/dataset"
	"treprSuite/quickPlot"
)

//closeWithErrLog is a helper that calls Close on c and logs an error if one occurs
func closeWithErrLog(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Error("failed to close", "name", name, "err", err)
	}
}

var errCollisionAvoidanceFailed = errors.New("unable to avoid file/folder name collision, using returned name may overwrite data ")

//defaultCreateCollisionFreeName is a convenience wrapper for createCollisionFreeName checking for
//collision using os.Stat
func defaultCreateCollisionFreeName(outPath string) (string, error) {
	return createCollisionFreeName(outPath, func(path string) bool {
		_, err := os.Stat(path)
		return !os.IsNotExist(err)
	})
}

//createCollisionFreeName checks if outPath already exists and tries to add numbers from 1 to 100 as suffix
//to find a unused name. If all are taken errCollisionAvoidanceFailed is returned
func createCollisionFreeName(outPath string, doesFileExist func(path string) bool) (string, error) {
	outPathDir := filepath.Dir(outPath)
	base := filepath.Base(outPath)
	//split at the first "." to separate name and extension
	name, extension, hasExtension := strings.Cut(base, ".")

	nameCandidate := base
	fileNameCollision := doesFileExist(outPath)
	for suffix := 1; fileNameCollision && suffix < 100; suffix++ {
		if hasExtension {
			nameCandidate = fmt.Sprintf("%v-%v.%v", name, suffix, extension)
		} else {
			nameCandidate = fmt.Sprintf("%v-%v", name, suffix)
		}
		fileNameCollision = doesFileExist(filepath.Join(outPathDir, nameCandidate))
	}
	result := filepath.Join(outPathDir, nameCandidate)
	if fileNameCollision {
		return result, errCollisionAvoidanceFailed
	}
	return result, nil
}

//prepareOutFolder creates a collision free output directory named after outPath
func prepareOutFolder(outPath string) (string, error) {
	outPath, err := defaultCreateCollisionFreeName(outPath)
	if err != nil {
		if !errors.Is(err, errCollisionAvoidanceFailed) {
			return "", err
		}
		//deliberate decision to not delete files/folders as the latter might also delete unexpected files
		slog.Warn("failed to avoid file name collision, overwriting", "path", outPath)
	}
	if err := os.MkdirAll(outPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory %v : %v", outPath, err)
	}
	return outPath, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

//writeDataCSV writes the axis values followed by the data. One dimensional data yields two columns
//(axis, value), two dimensional data a matrix with the second axis in the first row and the first
//axis in the first column
func writeDataCSV(w io.Writer, data *dataset.Data) error {
	csvWriter := csv.NewWriter(w)
	axes := data.Axes()
	if data.NDim() == 1 {
		for i, v := range data.Values() {
			if err := csvWriter.Write([]string{formatFloat(axes[0].Values[i]), formatFloat(v)}); err != nil {
				return err
			}
		}
	} else {
		header := make([]string, 0, data.Cols()+1)
		header = append(header, "")
		for _, v := range axes[1].Values {
			header = append(header, formatFloat(v))
		}
		if err := csvWriter.Write(header); err != nil {
			return err
		}
		for i := 0; i < data.Rows(); i++ {
			record := make([]string, 0, data.Cols()+1)
			record = append(record, formatFloat(axes[0].Values[i]))
			for _, v := range data.Row(i) {
				record = append(record, formatFloat(v))
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

//writeChannelCSV writes one "axis,value" record per channel entry
func writeChannelCSV(w io.Writer, ch *dataset.Channel) error {
	csvWriter := csv.NewWriter(w)
	for i, v := range ch.Values {
		if err := csvWriter.Write([]string{formatFloat(ch.Axes[0].Values[i]), formatFloat(v)}); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

//storeFile creates folderPath/name and passes it to write
func storeFile(folderPath, name string, write func(w io.Writer) error) error {
	path := filepath.Join(folderPath, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %v : %v", path, err)
	}
	defer closeWithErrLog(path, f)
	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %v : %v", path, err)
	}
	slog.Info("stored", "path", path)
	return f.Sync()
}

//provenance is the YAML document stored next to processed data
type provenance struct {
	Source      string                  `yaml:"source"`
	Shape       []int                   `yaml:"shape"`
	Axes        []axisSummary           `yaml:"axes"`
	History     []dataset.HistoryRecord `yaml:"history"`
	Annotations []string                `yaml:"annotations,omitempty"`
}

type axisSummary struct {
	Quantity string `yaml:"quantity"`
	Unit     string `yaml:"unit"`
	Points   int    `yaml:"points"`
}

func writeProvenance(w io.Writer, ds *dataset.Dataset) error {
	p := provenance{
		Source:      ds.Source,
		Shape:       ds.Data.Shape(),
		History:     ds.History(),
		Annotations: ds.Annotations,
	}
	for _, a := range ds.Data.Axes() {
		p.Axes = append(p.Axes, axisSummary{Quantity: a.Quantity, Unit: a.Unit, Points: len(a.Values)})
	}
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(p)
}

//storeDataset writes data CSV, provenance YAML and, for one dimensional data, a plot
func storeDataset(ds *dataset.Dataset, folderPath string, plotOpts quickPlot.Options) error {
	var errList []error
	if err := storeFile(folderPath, "data.csv", func(w io.Writer) error {
		return writeDataCSV(w, ds.Data)
	}); err != nil {
		errList = append(errList, err)
	}
	if err := storeFile(folderPath, "history.yaml", func(w io.Writer) error {
		return writeProvenance(w, ds)
	}); err != nil {
		errList = append(errList, err)
	}
	if ds.Data.NDim() == 1 {
		if err := storeFile(folderPath, "plot.png", func(w io.Writer) error {
			p, err := quickPlot.PlotData(ds.Data, plotOpts)
			if err != nil {
				return err
			}
			return quickPlot.Store(p, plotOpts, w)
		}); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
