package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

var ErrNoInput = errors.New("no input")

// linePrompter reads from in. When in is a terminal, secrets are read with
// echo turned off.
type linePrompter struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

// NewPrompter prompts on out and reads answers from in.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	p := &linePrompter{reader: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd, p.isTerm = int(f.Fd()), true
	}
	return p
}

func (p *linePrompter) Secret(prompt string) (string, error) {
	if !p.isTerm {
		return p.Line(prompt)
	}

	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

func (p *linePrompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// systemClipboard writes to the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
