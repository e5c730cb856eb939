package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptPassword asks for the password of ssid. On a terminal the input is
// not echoed; otherwise one line is read from in, so a password can be piped.
// An empty answer means an open network.
func PromptPassword(in *os.File, out io.Writer, ssid string) ([]byte, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return readLine(in)
	}

	_, _ = fmt.Fprint(out, PromptStyle.Render(fmt.Sprintf("Password for %q (empty for an open network): ", ssid)))
	password, err := term.ReadPassword(int(in.Fd()))
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// readLine reads one line without its line ending. EOF before any input is
// an empty line.
func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
