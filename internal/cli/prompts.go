package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/gaiacoin/gaiaops/internal/secret"
)

// Prompt functions are variables so tests can replace them.
//
//nolint:gochecknoglobals // swapped in tests
var (
	promptPasswordFn = promptPassword
	promptConfirmFn  = promptConfirm
	stdinIsTerminal  = func() bool { return term.IsTerminal(int(syscall.Stdin)) } //nolint:unconvert // Stdin is not int on every platform

	// wipeLateRead clears input that arrives after its prompt was abandoned.
	wipeLateRead = secret.Wipe
)

// promptPassword prompts for a password with hidden input.
// It returns ctx.Err() as soon as ctx is cancelled, restoring terminal echo.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(ctx context.Context, prompt string) ([]byte, error) {
	if !stdinIsTerminal() {
		return nil, errNoTerminal
	}

	fd := int(syscall.Stdin) //nolint:unconvert // Stdin is not int on every platform

	// ReadPassword only restores echo when it returns, which an abandoned
	// read never does.
	state, stateErr := term.GetState(fd)

	out(os.Stderr, "%s", prompt)

	password, err := readInterruptible(ctx, func() ([]byte, error) {
		return term.ReadPassword(fd)
	})
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		if ctx.Err() != nil && stateErr == nil {
			_ = term.Restore(fd, state)
		}
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// readInterruptible runs read in the background and returns ctx.Err()
// early when ctx is cancelled. A result that arrives afterwards is wiped.
func readInterruptible(ctx context.Context, read func() ([]byte, error)) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		data, err := read()
		done <- result{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		go func() {
			r := <-done
			wipeLateRead(r.data)
		}()
		return nil, ctx.Err()
	}
}

// promptConfirm asks a yes/no question on stderr and reads the answer from stdin.
// A cancelled ctx counts as "no".
func promptConfirm(ctx context.Context, question string) bool {
	return readConfirmation(ctx, os.Stdin, os.Stderr, question)
}

func readConfirmation(ctx context.Context, r io.Reader, w io.Writer, question string) bool {
	out(w, "%s [y/N]: ", question)

	line, err := readInterruptible(ctx, func() ([]byte, error) {
		return bufio.NewReader(r).ReadBytes('\n')
	})
	if err != nil && len(line) == 0 {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(string(line)))
	return response == "y" || response == "yes"
}
