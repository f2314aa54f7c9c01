package dust

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/daemon/daemontest"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

const historyJSON = `[
	{"txid":"a","category":"receive","amount":0.00005,"confirmations":10},
	{"txid":"b","category":"send","amount":-0.00001,"confirmations":10},
	{"txid":"c","category":"receive","amount":2,"confirmations":10},
	{"txid":"a","category":"receive","amount":0.00002,"confirmations":10}
]`

func TestCandidates(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	fake := daemontest.New().Raw(daemon.MethodListTransactions, historyJSON)
	svc := NewService(&Config{Client: fake, Now: func() time.Time { return created }})

	set, err := svc.Candidates(context.Background(), DefaultThreshold)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, set.TxIDs)
	assert.Equal(t, 4, set.Scanned)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, created, set.Created)

	calls := fake.CallsTo(daemon.MethodListTransactions)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"*", daemon.MaxListCount}, calls[0].Params)
	assert.Empty(t, fake.CallsTo(daemon.MethodRemovePrunedFunds), "identify must not prune")
}

func TestCandidates_Errors(t *testing.T) {
	t.Parallel()

	t.Run("daemon unreachable", func(t *testing.T) {
		t.Parallel()
		_, err := NewService(&Config{Client: daemontest.New()}).Candidates(context.Background(), DefaultThreshold)
		require.ErrorIs(t, err, opserr.ErrDaemonUnreachable)
	})

	t.Run("malformed history", func(t *testing.T) {
		t.Parallel()
		fake := daemontest.New().Raw(daemon.MethodListTransactions, `{"not":"a list"}`)
		_, err := NewService(&Config{Client: fake}).Candidates(context.Background(), DefaultThreshold)
		require.ErrorIs(t, err, opserr.ErrMalformedResponse)
	})

	t.Run("non-positive threshold", func(t *testing.T) {
		t.Parallel()
		fake := daemontest.New()
		_, err := NewService(&Config{Client: fake}).Candidates(context.Background(), decimal.Zero)
		require.ErrorIs(t, err, opserr.ErrInvalidAmount)
		assert.Empty(t, fake.Calls())
	})
}

func TestExecute_AllSucceed(t *testing.T) {
	t.Parallel()

	fake := daemontest.New().Raw(daemon.MethodRemovePrunedFunds, `null`)
	var seen []string
	svc := NewService(&Config{
		Client:   fake,
		Progress: func(_, _ int, txid string, _ error) { seen = append(seen, txid) },
	})

	r := svc.Execute(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, r.Err())
	assert.Equal(t, 3, r.Attempted)
	assert.Equal(t, []string{"a", "b", "c"}, r.Succeeded)
	assert.Empty(t, r.Failed)
	assert.False(t, r.Interrupted)
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	calls := fake.CallsTo(daemon.MethodRemovePrunedFunds)
	require.Len(t, calls, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, []any{id}, calls[i].Params)
	}
}

func TestExecute_FailureIsolation(t *testing.T) {
	t.Parallel()

	fake := daemontest.New().On(daemon.MethodRemovePrunedFunds, func(_ context.Context, params []any) (json.RawMessage, error) {
		if params[0] == "b" {
			return nil, opserr.WithCause(opserr.ErrDaemon, &daemon.RPCError{
				Code:    daemon.CodeInvalidAddressOrKey,
				Message: "Transaction does not exist in wallet.",
			})
		}
		return json.RawMessage("null"), nil
	})

	r := NewService(&Config{Client: fake}).Execute(context.Background(), []string{"a", "b", "c"})

	assert.Equal(t, 3, r.Attempted)
	assert.Equal(t, []string{"a", "c"}, r.Succeeded)
	require.Len(t, r.Failed, 1)
	assert.Equal(t, "b", r.Failed[0].TxID)
	assert.Contains(t, r.Failed[0].Reason, "Transaction does not exist in wallet.")
	require.ErrorIs(t, r.Failed[0].Err, opserr.ErrDaemon)

	err := r.Err()
	require.ErrorIs(t, err, opserr.ErrPartialFailure)
	assert.Equal(t, opserr.ExitPartial, opserr.ExitCode(err))
}

func TestExecute_CancellationStopsBeforeNextItem(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := daemontest.New().On(daemon.MethodRemovePrunedFunds, func(_ context.Context, params []any) (json.RawMessage, error) {
		if params[0] == "b" {
			cancel()
		}
		return json.RawMessage("null"), nil
	})

	r := NewService(&Config{Client: fake}).Execute(ctx, []string{"a", "b", "c", "d"})

	assert.True(t, r.Interrupted)
	assert.Equal(t, []string{"a", "b"}, r.Succeeded)
	assert.Equal(t, 2, r.Attempted)
	assert.Equal(t, 2, r.Remaining())
	assert.Len(t, fake.CallsTo(daemon.MethodRemovePrunedFunds), 2)
	require.ErrorIs(t, r.Err(), opserr.ErrPartialFailure)
}

func TestExecute_Throttled(t *testing.T) {
	t.Parallel()

	fake := daemontest.New().Raw(daemon.MethodRemovePrunedFunds, `null`)
	svc := NewService(&Config{Client: fake, PrunesPerSecond: 20})

	start := time.Now()
	r := svc.Execute(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, r.Err())

	// Burst of one: the second and third calls wait 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestExecute_Empty(t *testing.T) {
	t.Parallel()

	fake := daemontest.New()
	r := NewService(&Config{Client: fake}).Execute(context.Background(), nil)
	require.NoError(t, r.Err())
	assert.Zero(t, r.Attempted)
	assert.Empty(t, fake.Calls())
}

func TestWriteAndReadCandidates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "dust-candidates.txt")
	set := &CandidateSet{
		Threshold: DefaultThreshold,
		Scanned:   10,
		TxIDs:     []string{"a", "b"},
		Created:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, WriteCandidates(path, set))

	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# threshold: 0.0001\n")
	assert.Contains(t, text, "# created: 2026-10-01T12:00:00Z\n")
	assert.True(t, strings.HasSuffix(text, "a\nb\n"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	txids, err := ReadCandidates(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, txids)
}

func TestCandidateSet_WriteTo(t *testing.T) {
	t.Parallel()

	set := &CandidateSet{
		Threshold: decimal.RequireFromString("0.001"),
		Scanned:   4,
		TxIDs:     []string{"a"},
		Created:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	n, err := set.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "# gaiaops dust candidates\n"+
		"# created: 2026-10-01T12:00:00Z\n"+
		"# threshold: 0.001\n"+
		"# scanned: 4\n"+
		"# count: 1\n"+
		"a\n", buf.String())
}

func TestReadCandidates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("edited list", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "edited.txt")
		require.NoError(t, os.WriteFile(path, []byte("# header\n\n  a  \nb\n# b removed below\na\n"), 0o600))

		txids, err := ReadCandidates(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, txids)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadCandidates(filepath.Join(dir, "missing.txt"))
		require.ErrorIs(t, err, opserr.ErrNotFound)
	})

	t.Run("garbage line", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "garbage.txt")
		require.NoError(t, os.WriteFile(path, []byte("a\nnot a txid\n"), 0o600))

		_, err := ReadCandidates(path)
		require.ErrorIs(t, err, opserr.ErrInvalidFormat)
	})
}

func TestReportErr_InterruptedDetails(t *testing.T) {
	t.Parallel()

	r := &Report{Total: 5, Attempted: 2, Succeeded: []string{"a", "b"}, Interrupted: true}
	err := r.Err()

	var oe *opserr.OpsError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "3", oe.Details["remaining"])
	assert.Equal(t, "2", oe.Details["pruned"])
}
