//Package infoFile parses the info sidecar written next to the trace files of a measurement.
//
//	% trepr info file - v. 0.1.4 (2020-01-07)
//
//	GENERAL
//	Date start:        2017-06-07
//	Operator:          Jane Doe
//
//	COMMENT
//	free text until the end of the file
//
//Lines starting with "%" are comments, block headings are upper case lines without ":"
package infoFile

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"treprSuite/treprErrors"
)

//CommentBlock holds free text instead of key value pairs
const CommentBlock = "COMMENT"

var identificationRegex = regexp.MustCompile(`^%\s*(\S+)\s+info\s+file\s*-\s*v\.\s*([0-9][0-9.]*)\s*(?:\((.*)\))?\s*$`)

//Info is the parsed content of an info file
type Info struct {
	//Format is the software the file belongs to, e.g. "trepr"
	Format  string
	Version string
	Date    string
	//Blocks maps block heading to the key value pairs of the block
	Blocks map[string]map[string]string
	//BlockOrder lists headings as they appear in the file
	BlockOrder []string
	//Comment is the content of the COMMENT block
	Comment string
}

//Parse parses raw info file content
func Parse(raw []byte) (*Info, error) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Split(bufio.ScanLines)

	if !scanner.Scan() {
		return nil, errors.Wrap(treprErrors.ErrParse, "info file is empty")
	}
	firstLine := strings.TrimSpace(scanner.Text())
	match := identificationRegex.FindStringSubmatch(firstLine)
	if match == nil {
		return nil, errors.Wrapf(treprErrors.ErrParse, "info file line 1 : expected \"%% <format> info file - v. <version>\" got %q", firstLine)
	}
	info := &Info{
		Format:  match[1],
		Version: match[2],
		Date:    strings.TrimSpace(match[3]),
		Blocks:  make(map[string]map[string]string),
	}

	lineNr := 1
	currentBlock := ""
	commentLines := make([]string, 0)
	for scanner.Scan() {
		lineNr++
		rawLine := scanner.Text()
		if currentBlock == CommentBlock {
			commentLines = append(commentLines, strings.TrimRight(rawLine, " \t\r"))
			continue
		}
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if isHeading(line) {
			if _, ok := info.Blocks[line]; ok {
				return nil, errors.Wrapf(treprErrors.ErrParse, "info file line %v : duplicate block %v", lineNr, line)
			}
			currentBlock = line
			info.BlockOrder = append(info.BlockOrder, line)
			if line != CommentBlock {
				info.Blocks[line] = make(map[string]string)
			}
			continue
		}
		if currentBlock == "" {
			return nil, errors.Wrapf(treprErrors.ErrParse, "info file line %v : %q outside of any block", lineNr, line)
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			return nil, errors.Wrapf(treprErrors.ErrParse, "info file line %v : expected \"<key>: <value>\" got %q", lineNr, line)
		}
		key := strings.TrimSpace(kv[0])
		if _, ok := info.Blocks[currentBlock][key]; ok {
			return nil, errors.Wrapf(treprErrors.ErrParse, "info file line %v : duplicate key %v in block %v", lineNr, key, currentBlock)
		}
		info.Blocks[currentBlock][key] = strings.TrimSpace(kv[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(treprErrors.ErrParse, "error scanning for lines : %v", err)
	}
	info.Comment = strings.TrimSpace(strings.Join(commentLines, "\n"))

	return info, nil
}

//isHeading returns true for lines like "MAGNETIC FIELD"
func isHeading(line string) bool {
	if strings.Contains(line, ":") {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == ' ' || r == '-' || r == '_' || (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return hasLetter
}
