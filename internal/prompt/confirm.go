package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNonInteractive is returned when confirmation is needed but stdin is not a terminal.
var ErrNonInteractive = errors.New("non-interactive stdin: use --yes to confirm")

type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stderr,
		IsInteractive: func() bool {
			info, err := os.Stdin.Stat()
			if err != nil {
				return false
			}
			return (info.Mode() & os.ModeCharDevice) != 0
		},
	}
}

// Confirm asks a yes/no question. force skips the question and answers yes.
func (c Confirmer) Confirm(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, ErrNonInteractive
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s (y/n): ", question)
	}
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}

// ConfirmReplaceKey asks before overwriting a stored API key.
func (c Confirmer) ConfirmReplaceKey(provider string, force bool) (bool, error) {
	return c.Confirm(fmt.Sprintf("An API key for %s is already stored. Replace it?", provider), force)
}

// ConfirmOverwrite asks before replacing an existing output file.
func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	return c.Confirm(fmt.Sprintf("Output file %s already exists. Overwrite?", path), force)
}
