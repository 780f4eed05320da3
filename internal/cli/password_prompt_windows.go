//go:build windows

package cli

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// readSecret reads one line from the console on stdin with echo switched off.
func readSecret(stdin *os.File) (string, error) {
	handle := windows.Handle(stdin.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return "", fmt.Errorf("%w: %v", errNoTerminal, err)
	}

	if err := windows.SetConsoleMode(handle, mode&^windows.ENABLE_ECHO_INPUT); err != nil {
		return "", err
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, mode)
	}()

	return readLine(bufio.NewReader(stdin))
}
