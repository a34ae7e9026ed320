package traceSource

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"treprSuite/treprErrors"
)

//TraceFilePattern matches trace files with a three digit numeric extension, e.g. "sample.001"
const TraceFilePattern = "*.[0-9][0-9][0-9]"

//InfoFilePattern matches the info sidecar file
const InfoFilePattern = "*.info"

//TraceFileReader reads the trace files in folderPath. Files are ordered lexicographically by name,
//which is the order the acquisition software assigns field points in.
//All files must be available at instantiation time
type TraceFileReader struct {
	folderPath string
	//map id (linear order used in program logic) to file name
	fileNames []string
}

//NewTraceFileReader discovers all trace files in folderPath
func NewTraceFileReader(folderPath string) (*TraceFileReader, error) {
	info, err := os.Stat(folderPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(treprErrors.ErrFileNotFound, "measurement directory %v", folderPath)
		}
		return nil, errors.Wrapf(err, "failed to stat %v", folderPath)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(treprErrors.ErrFileNotFound, "%v is not a directory", folderPath)
	}
	matches, err := filepath.Glob(filepath.Join(folderPath, TraceFilePattern))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list trace files")
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(treprErrors.ErrFileNotFound, "no files matching %v in %v", TraceFilePattern, folderPath)
	}
	fileNames := make([]string, len(matches))
	for i := range matches {
		fileNames[i] = filepath.Base(matches[i])
	}
	sort.Strings(fileNames)

	return &TraceFileReader{
		folderPath: folderPath,
		fileNames:  fileNames,
	}, nil
}

func (recv *TraceFileReader) TotalBlockCount() int {
	return len(recv.fileNames)
}

func (recv *TraceFileReader) GetBlock(nr int) ([]byte, error) {
	if nr < 0 || nr >= len(recv.fileNames) {
		return nil, errors.Errorf("block %v does not exist, have %v blocks", nr, len(recv.fileNames))
	}
	fileContent, err := os.ReadFile(filepath.Join(recv.folderPath, recv.fileNames[nr]))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read trace file %v", recv.fileNames[nr])
	}
	return fileContent, nil
}

func (recv *TraceFileReader) BlockName(nr int) string {
	if nr < 0 || nr >= len(recv.fileNames) {
		return ""
	}
	return recv.fileNames[nr]
}

//InfoFile returns the content of the first "*.info" file of the directory
func (recv *TraceFileReader) InfoFile() ([]byte, error) {
	matches, err := filepath.Glob(filepath.Join(recv.folderPath, InfoFilePattern))
	if err != nil {
		return nil, errors.Wrap(err, "failed to search info file")
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(treprErrors.ErrFileNotFound, "no info file in %v", recv.folderPath)
	}
	sort.Strings(matches)
	content, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read info file %v", matches[0])
	}
	return content, nil
}
