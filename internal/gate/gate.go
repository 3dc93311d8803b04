package gate

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrPasscode is returned when the passcode is missing or wrong.
var ErrPasscode = errors.New("invalid passcode")

// PromptFunc asks the user for a passcode.
type PromptFunc func() (string, error)

// Check enforces the passcode gate. When expected is empty the gate is open.
// Otherwise provided is used, or prompt when provided is empty, and the
// result must equal expected.
func Check(expected, provided string, prompt PromptFunc) error {
	if expected == "" {
		return nil
	}

	if provided == "" && prompt != nil {
		entered, err := prompt()
		if err != nil {
			return fmt.Errorf("failed to read passcode: %w", err)
		}
		provided = entered
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		return ErrPasscode
	}
	return nil
}

// ReaderPrompt returns a PromptFunc that writes a prompt to out and reads one
// line from in.
func ReaderPrompt(in io.Reader, out io.Writer) PromptFunc {
	return func() (string, error) {
		if _, err := fmt.Fprint(out, "Passcode: "); err != nil {
			return "", err
		}

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
