package infoFile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"treprSuite/testUtils"
	"treprSuite/treprErrors"
)

func TestParse(t *testing.T) {
	info, err := Parse([]byte(testUtils.InfoFile("0.1.6")))
	require.NoError(t, err)

	assert.Equal(t, "trepr", info.Format)
	assert.Equal(t, "0.1.6", info.Version)
	assert.Equal(t, "2017-06-07", info.Date)
	assert.Equal(t, "GENERAL", info.BlockOrder[0])
	assert.Equal(t, CommentBlock, info.BlockOrder[len(info.BlockOrder)-1])
	assert.NotContains(t, info.Blocks, CommentBlock)

	assert.Equal(t, "Jane Doe", info.Blocks["GENERAL"]["Operator"])
	assert.Equal(t, "9.684967 GHz", info.Blocks["BRIDGE"]["MW frequency"])
	assert.Equal(t, "Nd:YAG", info.Blocks["PUMP"]["Type"])
	assert.Equal(t, "", info.Blocks["PUMP"]["Tunable dye"])
	assert.Equal(t, "Recorded for testing.\nSecond line.", info.Comment)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"missing identification", "GENERAL\nOperator: Jane Doe\n"},
		{"key outside block", "% trepr info file - v. 0.1.6\nOperator: Jane Doe\n"},
		{"line without colon", "% trepr info file - v. 0.1.6\nGENERAL\nOperator Jane Doe\n"},
		{"duplicate block", "% trepr info file - v. 0.1.6\nGENERAL\nA: 1\nGENERAL\nB: 2\n"},
		{"duplicate key", "% trepr info file - v. 0.1.6\nGENERAL\nA: 1\nA: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.ErrorIs(t, err, treprErrors.ErrParse)
		})
	}
}

func TestParseIdentificationWithoutDate(t *testing.T) {
	info, err := Parse([]byte("% trepr info file - v. 0.1.0\n\n% a comment\nGENERAL\nA: b: c\n"))
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", info.Version)
	assert.Empty(t, info.Date)
	assert.Equal(t, "b: c", info.Blocks["GENERAL"]["A"])
	assert.Empty(t, info.Comment)
}

func Test_isHeading(t *testing.T) {
	assert.True(t, isHeading("MAGNETIC FIELD"))
	assert.True(t, isHeading("VIDEO AMPLIFIER"))
	assert.False(t, isHeading("Operator"))
	assert.False(t, isHeading("GENERAL: x"))
	assert.False(t, isHeading("123"))
}
