package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var errNoTerminal = errors.New("stdin is not a terminal; use --password-stdin")

// readLine returns the next line of reader without its line break. A last
// line without a break is returned as is.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
