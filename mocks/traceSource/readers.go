package mockTraceSource

import (
	"fmt"

	"treprSuite/treprErrors"
)

//MockBlockReader serves blocks from memory
type MockBlockReader struct {
	Blocks [][]byte
	//Info is returned by InfoFile, nil means there is no info file
	Info []byte
	//if >= 0, return error for all blocks with a greater index
	FailAfter int
}

func (m MockBlockReader) TotalBlockCount() int {
	return len(m.Blocks)
}

func (m MockBlockReader) GetBlock(nr int) ([]byte, error) {
	if m.FailAfter >= 0 && nr > m.FailAfter {
		return nil, fmt.Errorf("programmed reader failure")
	}
	return m.Blocks[nr], nil
}

func (m MockBlockReader) BlockName(nr int) string {
	return fmt.Sprintf("mock.%03d", nr+1)
}

func (m MockBlockReader) InfoFile() ([]byte, error) {
	if m.Info == nil {
		return nil, fmt.Errorf("mock has no info file : %w", treprErrors.ErrFileNotFound)
	}
	return m.Info, nil
}
