package difftool

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
)

// Runner spawns an external program and returns what it wrote to stdout.
// Implementations return whatever stdout was captured even when err is non-nil.
type Runner interface {
	Run(stdin []byte, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec. Stderr is discarded.
type ExecRunner struct{}

func (ExecRunner) Run(stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if stdin == nil {
		err := cmd.Run()
		return stdout.Bytes(), err
	}

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	defer in.Close()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	if _, err := in.Write(stdin); err != nil {
		_ = in.Close()
		_ = cmd.Wait()
		return nil, fmt.Errorf("write %s stdin: %w", name, err)
	}
	if err := in.Close(); err != nil {
		_ = cmd.Wait()
		return nil, fmt.Errorf("close %s stdin: %w", name, err)
	}
	err = cmd.Wait()
	return stdout.Bytes(), err
}

// terminalModeRegex matches mode toggles that would fight bubbletea:
// mouse reporting, alternate screen and bracketed paste.
var terminalModeRegex = regexp.MustCompile(`\x1b\[\?(100[0-6]|1049|2004)[hl]`)

func sanitize(b []byte) []byte {
	return terminalModeRegex.ReplaceAll(b, nil)
}
