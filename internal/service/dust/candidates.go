package dust

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gaiacoin/gaiaops/internal/fileutil"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// CandidateSet is the output of the identify phase.
type CandidateSet struct {
	Threshold decimal.Decimal
	// Scanned is the number of history entries examined.
	Scanned int
	TxIDs   []string
	// Created is when the set was identified.
	Created time.Time
}

// Len returns the number of candidates.
func (c *CandidateSet) Len() int {
	return len(c.TxIDs)
}

// WriteTo renders the set as the human-readable candidates file.
func (c *CandidateSet) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	fmt.Fprintf(cw, "# gaiaops dust candidates\n")
	fmt.Fprintf(cw, "# created: %s\n", c.Created.UTC().Format(time.RFC3339))
	fmt.Fprintf(cw, "# threshold: %s\n", c.Threshold.String())
	fmt.Fprintf(cw, "# scanned: %d\n", c.Scanned)
	fmt.Fprintf(cw, "# count: %d\n", len(c.TxIDs))
	for _, txid := range c.TxIDs {
		fmt.Fprintln(cw, txid)
	}
	return cw.n, cw.err
}

// WriteCandidates persists set to path atomically.
func WriteCandidates(path string, set *CandidateSet) error {
	err := fileutil.WriteAtomicFunc(path, 0o600, func(w io.Writer) error {
		_, err := set.WriteTo(w)
		return err
	})
	if err != nil {
		return fileError(err, path, "writing candidate list")
	}
	return nil
}

// fileError maps a filesystem failure on the candidates file to an exit class.
func fileError(err error, path, action string) error {
	details := map[string]string{"path": path}
	switch {
	case errors.Is(err, fs.ErrPermission):
		return opserr.WithDetails(opserr.WithCause(opserr.ErrPermission, err), details)
	case errors.Is(err, fs.ErrNotExist):
		return opserr.WithDetails(opserr.WithCause(opserr.ErrNotFound, err), details)
	default:
		return opserr.WithDetails(opserr.Wrap(err, "%s", action), details)
	}
}

// countingWriter remembers the first write error so WriteTo can format
// freely and check once.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

// ReadCandidates loads a candidate list written by WriteCandidates,
// possibly edited by hand. Comments and blank lines are skipped and
// repeated txids are collapsed.
func ReadCandidates(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from operator flag
	if err != nil {
		return nil, fileError(err, path, "reading candidate list")
	}

	seen := make(map[string]struct{})
	var txids []string

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if strings.ContainsAny(s, " \t") {
			return nil, opserr.WithDetails(opserr.ErrInvalidFormat, map[string]string{
				"path": path,
				"line": fmt.Sprint(line),
			})
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		txids = append(txids, s)
	}
	if err := sc.Err(); err != nil {
		return nil, opserr.Wrap(err, "reading candidate list")
	}

	return txids, nil
}
