package ui

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrCancelled is returned when the user cancels the selection
	ErrCancelled = errors.New("selection cancelled")
	// ErrNoOptions is returned when there is nothing to select from
	ErrNoOptions = errors.New("nothing to select")
	// ErrNoFzf is returned when fzf is not installed
	ErrNoFzf = errors.New("fzf not found in PATH")
)

// SelectWithFzf lets the user pick one of options with fzf and returns its
// index.
func SelectWithFzf(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return -1, ErrNoFzf
	}

	// Format: index <tab> label; only the label is shown and searched.
	var input bytes.Buffer
	for i, opt := range options {
		fmt.Fprintf(&input, "%d\t%s\n", i, strings.ReplaceAll(opt, "\n", " "))
	}

	// #nosec G204 - fzf binary is looked up in PATH, no user-controlled arguments are passed directly
	cmd := exec.Command(fzfPath,
		"--height=40%",
		"--layout=reverse",
		"--delimiter=\t",
		"--with-nth=2",
		"--cycle",
		"--prompt="+prompt+"> ",
	)
	cmd.Stdin = &input
	cmd.Stderr = os.Stderr // fzf uses stderr for UI rendering
	var output bytes.Buffer
	cmd.Stdout = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// fzf returns 130 on cancellation (ESC, Ctrl-C, Ctrl-G) and 1 on no match
			if exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1 {
				return -1, ErrCancelled
			}
		}
		return -1, errors.Wrap(err, "fzf failed")
	}

	return parseSelection(output.String(), len(options))
}

// parseSelection extracts the index from an fzf output line.
func parseSelection(line string, n int) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return -1, ErrCancelled
	}

	idxStr, _, ok := strings.Cut(line, "\t")
	if !ok {
		return -1, errors.Newf("invalid selection output: %q", line)
	}

	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= n {
		return -1, errors.Newf("invalid selection output: %q", line)
	}
	return idx, nil
}
