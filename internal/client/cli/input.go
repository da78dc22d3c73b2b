package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine prints prompt and returns one trimmed line. A final line without
// a newline still counts.
func readLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSecret reads a value without echo. When stdin is not a terminal (piped
// input) it reads a plain line from reader instead.
func GetSecret(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return readLine(reader, prompt, w)
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	b, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Confirm asks a yes/no question. Only y/yes confirms; EOF declines.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) bool {
	answer, err := readLine(reader, prompt+" [y/N]", w)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
