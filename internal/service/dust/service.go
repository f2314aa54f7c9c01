// Package dust finds low-value incoming transactions and prunes their
// records from the wallet.
//
// Pruning is split into an identify phase, which only reads history, and an
// execute phase that removes records one by one. Callers show or persist the
// candidate list between the two so the operator can abort.
package dust

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/metrics"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// LogWriter is the logging surface used by the service.
type LogWriter interface {
	Debug(format string, args ...any)
}

// ProgressFunc is called after each prune attempt with the zero-based
// index of txid among total candidates.
type ProgressFunc func(index, total int, txid string, err error)

// Config holds the configuration for the dust service.
type Config struct {
	Client daemon.Client
	// PrunesPerSecond paces removeprunedfunds calls. Zero means no limit.
	PrunesPerSecond float64
	Progress        ProgressFunc
	Logger          LogWriter
	// Now is used to stamp candidate sets. Defaults to time.Now.
	Now func() time.Time
}

// Service identifies and prunes dust.
type Service struct {
	client   daemon.Client
	limiter  *rate.Limiter
	progress ProgressFunc
	logger   LogWriter
	now      func() time.Time
}

// NewService creates a new dust service.
func NewService(cfg *Config) *Service {
	limit := rate.Inf
	if cfg.PrunesPerSecond > 0 {
		limit = rate.Limit(cfg.PrunesPerSecond)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		client:   cfg.Client,
		limiter:  rate.NewLimiter(limit, 1),
		progress: cfg.Progress,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Candidates fetches the full wallet history and identifies dust below
// threshold. It never modifies the wallet.
func (s *Service) Candidates(ctx context.Context, threshold decimal.Decimal) (*CandidateSet, error) {
	if !threshold.IsPositive() {
		return nil, opserr.WithDetails(opserr.ErrInvalidAmount, map[string]string{"threshold": threshold.String()})
	}

	history, err := daemon.ListTransactions(ctx, s.client)
	if err != nil {
		return nil, err
	}

	set := &CandidateSet{
		Threshold: threshold,
		Scanned:   len(history),
		TxIDs:     Identify(history, threshold),
		Created:   s.now(),
	}
	s.debug("dust: %d candidates below %s in %d history entries", set.Len(), threshold, set.Scanned)
	return set, nil
}

// Execute prunes each txid in order. A failed prune is recorded and the
// batch continues. Cancelling ctx stops before the next item; prunes that
// already succeeded stay applied.
func (s *Service) Execute(ctx context.Context, txids []string) *Report {
	r := &Report{Total: len(txids)}

	for i, txid := range txids {
		if ctx.Err() != nil {
			r.Interrupted = true
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			r.Interrupted = true
			break
		}

		r.Attempted++
		err := daemon.RemovePrunedFunds(ctx, s.client, txid)
		metrics.Global.RecordPrune(err)

		if err != nil {
			r.Failed = append(r.Failed, Failure{TxID: txid, Reason: err.Error(), Err: err})
			s.debug("dust: prune %s failed: %v", txid, err)
		} else {
			r.Succeeded = append(r.Succeeded, txid)
		}

		if s.progress != nil {
			s.progress(i, len(txids), txid, err)
		}
	}

	return r
}

func (s *Service) debug(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}
