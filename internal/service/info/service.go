// Package info builds the node status report from independent daemon queries.
package info

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gaiacoin/gaiaops/internal/daemon"
)

// LogWriter is the logging surface used by the service.
type LogWriter interface {
	Debug(format string, args ...any)
}

// Config holds the configuration for the info service.
type Config struct {
	Client daemon.Client
	Logger LogWriter
}

// Service gathers node status.
type Service struct {
	client daemon.Client
	logger LogWriter
}

// NewService creates a new info service.
func NewService(cfg *Config) *Service {
	return &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}
}

// Report runs the five section queries concurrently and merges them.
// A failing query marks its own section unavailable and never aborts the
// others; the result layout does not depend on completion order.
func (s *Service) Report(ctx context.Context) *Report {
	r := &Report{Errors: make(map[Section]error)}

	queries := [...]func(context.Context) error{
		s.wallet(r),
		s.network(r),
		s.block(r),
		s.chain(r),
		s.staking(r),
	}

	// Each goroutine owns one slot of errs and one field of r.
	var errs [len(queries)]error
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = q(ctx)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			r.Errors[Sections[i]] = err
			if s.logger != nil {
				s.logger.Debug("info: %s query failed: %v", Sections[i], err)
			}
		}
	}

	return r
}

func (s *Service) wallet(r *Report) func(context.Context) error {
	return func(ctx context.Context) error {
		w, err := daemon.GetWalletInfo(ctx, s.client)
		if err != nil {
			return err
		}
		r.Wallet = &WalletSnapshot{
			Balance:            w.Balance,
			StakedBalance:      w.Stake,
			UnconfirmedBalance: w.UnconfirmedBalance,
			ImmatureBalance:    w.ImmatureBalance,
			TotalBalance:       w.Total(),
			TransactionCount:   w.TxCount,
		}
		return nil
	}
}

func (s *Service) network(r *Report) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := daemon.GetNetworkInfo(ctx, s.client)
		if err != nil {
			return err
		}
		r.Network = &NetworkSnapshot{
			PeerCount:       n.Connections,
			ProtocolVersion: strconv.Itoa(n.ProtocolVersion),
			SubVersion:      n.SubVersion,
		}
		return nil
	}
}

func (s *Service) block(r *Report) func(context.Context) error {
	return func(ctx context.Context) error {
		h, err := daemon.GetBlockCount(ctx, s.client)
		if err != nil {
			return err
		}
		r.Height = &h
		return nil
	}
}

func (s *Service) chain(r *Report) func(context.Context) error {
	return func(ctx context.Context) error {
		c, err := daemon.GetBlockchainInfo(ctx, s.client)
		if err != nil {
			return err
		}
		r.Chain = &ChainSnapshot{
			Chain:         c.Chain,
			Headers:       c.Headers,
			BestBlockHash: c.BestBlockHash,
		}
		return nil
	}
}

func (s *Service) staking(r *Report) func(context.Context) error {
	return func(ctx context.Context) error {
		st, err := daemon.GetStakingInfo(ctx, s.client)
		if err != nil {
			return err
		}
		snap := &StakingSnapshot{
			Enabled:            st.Enabled,
			Staking:            st.Staking,
			NetworkStakeWeight: st.NetStakeWeight,
		}
		if st.ExpectedTime > 0 {
			snap.ExpectedTime = time.Duration(st.ExpectedTime) * time.Second
		}
		r.Staking = snap
		return nil
	}
}
