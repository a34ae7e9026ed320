package mocks

import (
	"bytes"
	"time"

	mockTraceSource "treprSuite/mocks/traceSource"
	"treprSuite/testUtils"
)

//CreateSpeksimBlockReader creates a block reader with len(traces) blocks where block nr x is a Speksim
//file holding traces[x] recorded at fields[x] Gauss. If failAfter is >= 0 the block reader will fail for
//each number greater than failAfter
func CreateSpeksimBlockReader(traces [][]float64, fields []float64, failAfter int) (*mockTraceSource.MockBlockReader, error) {
	blocks := make([][]byte, len(traces))
	for i := range traces {
		buf := &bytes.Buffer{}
		ts := testUtils.DefaultStart.Add(time.Duration(i) * time.Minute)
		if err := testUtils.WriteSpeksimFile(buf, fields[i], 9.5, ts, -1e-6, 9e-6, traces[i]); err != nil {
			return nil, err
		}
		blocks[i] = buf.Bytes()
	}
	return &mockTraceSource.MockBlockReader{
		Blocks:    blocks,
		FailAfter: failAfter,
	}, nil
}
