// Package tipcheck compares the local chain tip against a block explorer.
package tipcheck

import (
	"context"

	"github.com/gaiacoin/gaiaops/internal/blockhash"
	"github.com/gaiacoin/gaiaops/internal/daemon"
)

// Comparison statuses.
const (
	StatusMatch      = "match"
	StatusDivergence = "divergence"
)

// BlockHashSource looks up the hash of a block at a height.
type BlockHashSource interface {
	BlockHash(ctx context.Context, height int64) (string, error)
}

// LogWriter is the logging surface used by the service.
type LogWriter interface {
	Debug(format string, args ...any)
}

// Config holds the configuration for the tip check service.
type Config struct {
	Client   daemon.Client
	Explorer BlockHashSource
	Logger   LogWriter
}

// Service compares chain tips.
type Service struct {
	client   daemon.Client
	explorer BlockHashSource
	logger   LogWriter
}

// Comparison is the outcome of one tip check. Both hashes refer to the
// same height.
type Comparison struct {
	Height int64
	Local  string
	Remote string
	Match  bool
}

// Status returns StatusMatch or StatusDivergence.
func (c *Comparison) Status() string {
	if c.Match {
		return StatusMatch
	}
	return StatusDivergence
}

// NewService creates a new tip check service.
func NewService(cfg *Config) *Service {
	return &Service{
		client:   cfg.Client,
		explorer: cfg.Explorer,
		logger:   cfg.Logger,
	}
}

// Compare reads the local height once and checks the explorer's hash at that
// height against the local one. Hashes are compared case-insensitively.
func (s *Service) Compare(ctx context.Context) (*Comparison, error) {
	height, err := daemon.GetBlockCount(ctx, s.client)
	if err != nil {
		return nil, err
	}
	s.debug("tipcheck: pinned height %d", height)

	remote, err := s.explorer.BlockHash(ctx, height)
	if err != nil {
		return nil, err
	}

	local, err := daemon.GetBlockHash(ctx, s.client, height)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Height: height,
		Local:  local,
		Remote: remote,
		Match:  blockhash.Equal(local, remote),
	}, nil
}

func (s *Service) debug(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}
