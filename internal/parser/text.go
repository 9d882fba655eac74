package parser

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// TextParser handles plain text files. Line endings are normalized to "\n".
// Lines may be any length.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader) (string, error) {
	br := bufio.NewReader(r)

	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", unreadable("text", err)
		}
	}
	return joinLines(lines), nil
}
