// Package ui handles interactive terminal input.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// Prompter asks the user for input. Prompts are serialized so concurrent
// callers never interleave on the terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // terminal descriptor for hidden input, -1 if in is not a terminal

	mu sync.Mutex
}

// NewPrompter creates a prompter on stdin/stdout.
func NewPrompter() *Prompter {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &Prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout, fd: fd}
}

// NewPrompterIO creates a prompter on arbitrary streams. Secret input is
// read as a plain line.
func NewPrompterIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

// IsInteractive reports whether input comes from a terminal.
func (p *Prompter) IsInteractive() bool {
	return p.fd >= 0
}

// Secret reads a line without echo when attached to a terminal.
func (p *Prompter) Secret(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s ", label)

	if p.fd >= 0 {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out) // Move to next line after password entry
		if err != nil {
			return "", errors.Wrap(err, "failed to read input")
		}
		return strings.TrimSpace(string(b)), nil
	}

	return p.readLine()
}

// Confirm asks a yes/no question. An empty answer returns def.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s ", label, suffix)

	input, err := p.readLine()
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	if input == "" {
		return def, nil
	}
	return strings.HasPrefix(input, "y"), nil
}

// Select asks the user to choose one of options and returns its index.
// Invalid answers are asked again; an empty list returns ErrNoOptions.
func (p *Prompter) Select(label string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrNoOptions
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(p.out, "Select (1-%d): ", len(options))
		input, err := p.readLine()
		if err != nil {
			return -1, err
		}
		if input == "" {
			continue
		}

		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(options) {
			fmt.Fprintln(p.out, "Invalid selection.")
			continue
		}
		return idx - 1, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", errors.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(input), nil
}
