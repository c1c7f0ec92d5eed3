package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompter asks questions on the command's input. One prompter must serve
// every question of a run since it buffers input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the trimmed answer. io.EOF is returned
// only when nothing at all was typed.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ticker asks for a symbol and upper-cases it.
func (p *prompter) ticker() (string, error) {
	answer, err := p.ask("Enter ticker symbol (e.g. AAPL): ")
	if err != nil {
		return "", err
	}
	return strings.ToUpper(answer), nil
}

// confirm is true only for "y" or "yes", in any case. Unreadable input
// counts as no.
func (p *prompter) confirm(question string) bool {
	answer, err := p.ask(question)
	if err != nil {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
