//Package traceSource provides the raw (unparsed) trace files of one measurement
package traceSource

//TraceBlockReader is the common interface providing raw(unparsed) trace file data.
//Block numbers follow the canonical order of the measurement, i.e. block nr i belongs to field point i
type TraceBlockReader interface {
	//TotalBlockCount returns the total number of trace blocks/files
	TotalBlockCount() int
	//GetBlock reads the block identified by nr and returns the raw file content
	GetBlock(nr int) ([]byte, error)
	//BlockName returns a human readable name for block nr, used in error messages
	BlockName(nr int) string
}

//InfoSource is implemented by readers that can also provide the info sidecar of the measurement
type InfoSource interface {
	//InfoFile returns the raw content of the info file
	InfoFile() ([]byte, error)
}
