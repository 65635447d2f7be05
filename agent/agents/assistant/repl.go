package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultPrompt = "USER> "
	GoodbyeLine   = "Shutting down the assistant. Goodbye!"
	separatorLine = "-----------------------------------"

	maxLineBytes = 1 << 20
)

// TurnHandler answers one user message.
type TurnHandler interface {
	HandleMessage(ctx context.Context, text string) (string, error)
}

type REPLOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Prompt string
}

// IsExitCommand reports whether line asks to leave the loop.
func IsExitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit", "bye":
		return true
	default:
		return false
	}
}

// RunREPL reads lines until an exit command, EOF or context cancellation.
// Cancellation ends the loop even while it waits for input. A failing or
// panicking turn is reported and the loop continues.
func RunREPL(ctx context.Context, h TurnHandler, opts REPLOptions) error {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(stdin, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(stdout, prompt)

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(stdout)
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(stdout)
			return <-scanErr
		}

		if IsExitCommand(line) {
			fmt.Fprintln(stdout, GoodbyeLine)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(stdout)
			return err
		}

		reply, err := runTurn(ctx, h, line)
		if err != nil {
			fmt.Fprintf(stdout, "An unexpected error occurred: %v\n", err)
		} else {
			fmt.Fprintln(stdout, reply)
		}
		fmt.Fprintln(stdout, separatorLine)
	}
}

// readLines scans r on its own goroutine. lines is closed at EOF or on a read
// error, after the scanner error has been sent on errc. A reader blocked in
// Read keeps the goroutine alive until the read returns.
func readLines(r io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func runTurn(ctx context.Context, h TurnHandler, line string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Error().Interface("panic", r).Msg("turn panicked")
			err = fmt.Errorf("turn panicked: %v", r)
		}
	}()
	return h.HandleMessage(ctx, line)
}
