//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// readSecret reads one line from the terminal on stdin with echo switched off.
func readSecret(stdin *os.File) (string, error) {
	fd := int(stdin.Fd())
	state, err := unix.IoctlGetTermios(fd, getTermiosRequest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoTerminal, err)
	}
	restore := *state
	silent := restore
	silent.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, setTermiosRequest, &silent); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, setTermiosRequest, &restore)
	}()

	return readLine(bufio.NewReader(stdin))
}
