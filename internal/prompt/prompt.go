// Package prompt answers relocation questions from a console or a script.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sirsphoto/internal/relocate"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiCyan  = "\x1b[36m"
)

var yesTokens = map[string]struct{}{"o": {}, "oui": {}, "y": {}, "yes": {}}

// ParseAnswer maps an operator answer to an option index. Confirmation
// questions also accept yes words for the first option. Anything else is
// ErrUserCancelled.
func ParseAnswer(q relocate.Question, answer string) (int, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if q.Confirm {
		if _, ok := yesTokens[answer]; ok {
			return 0, nil
		}
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(q.Options) {
		return 0, relocate.ErrUserCancelled
	}
	if q.Confirm && n != 1 {
		return 0, relocate.ErrUserCancelled
	}
	return n - 1, nil
}

// Console reads answers line by line.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

// NewConsole returns a console decider reading from in and writing to out.
func NewConsole(in io.Reader, out io.Writer, color bool) *Console {
	return &Console{in: bufio.NewReader(in), out: out, color: color}
}

func (c *Console) Decide(ctx context.Context, q relocate.Question) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.render(q)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
		fmt.Fprintln(c.out)
		return 0, relocate.ErrUserCancelled
	}
	return ParseAnswer(q, line)
}

func (c *Console) render(q relocate.Question) {
	fmt.Fprintln(c.out)
	if c.color {
		fmt.Fprintf(c.out, "%s%s%s\n", ansiBold, q.Title, ansiReset)
	} else {
		fmt.Fprintln(c.out, q.Title)
	}
	for _, line := range q.Details {
		fmt.Fprintf(c.out, "  %s\n", line)
	}
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		label := fmt.Sprintf("(%d) %s", i+1, o)
		if c.color {
			label = ansiCyan + label + ansiReset
		}
		opts[i] = label
	}
	fmt.Fprintln(c.out, strings.Join(opts, "  "))
	fmt.Fprint(c.out, "Your choice: ")
}

// Scripted answers questions from a fixed list and records them. Running
// out of answers behaves like end of input.
type Scripted struct {
	Answers []string
	Asked   []relocate.Question
}

// NewScripted returns a decider that replays answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) Decide(ctx context.Context, q relocate.Question) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.Asked = append(s.Asked, q)
	if len(s.Asked) > len(s.Answers) {
		return 0, relocate.ErrUserCancelled
	}
	return ParseAnswer(q, s.Answers[len(s.Asked)-1])
}

// Kinds returns the kinds of the questions asked so far.
func (s *Scripted) Kinds() []string {
	out := make([]string, len(s.Asked))
	for i, q := range s.Asked {
		out[i] = q.Kind
	}
	return out
}
