// Package staking unlocks the wallet for staking.
package staking

import (
	"context"
	"time"

	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/secret"
	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// PassphrasePrompt is shown when asking for the wallet passphrase.
const PassphrasePrompt = "Wallet passphrase: "

// PromptFunc reads a secret without echo. It should return early with
// ctx.Err() when ctx is cancelled. The service takes ownership of the
// returned slice and wipes it.
type PromptFunc func(ctx context.Context, prompt string) ([]byte, error)

// LogWriter is the logging surface used by the service.
type LogWriter interface {
	Debug(format string, args ...any)
}

// Config holds the configuration for the staking service.
type Config struct {
	Client daemon.Client
	Prompt PromptFunc
	// CallTimeout bounds the walletpassphrase call. It starts after the
	// prompt returns, so typing time never counts against it.
	CallTimeout time.Duration
	Logger      LogWriter
}

// Service unlocks the wallet.
type Service struct {
	client      daemon.Client
	prompt      PromptFunc
	callTimeout time.Duration
	logger      LogWriter
}

// UnlockResult describes a successful unlock.
type UnlockResult struct {
	Duration    time.Duration
	StakingOnly bool
	// Until is the local time the unlock expires.
	Until time.Time
}

// NewService creates a new staking service.
func NewService(cfg *Config) *Service {
	return &Service{
		client:      cfg.Client,
		prompt:      cfg.Prompt,
		callTimeout: cfg.CallTimeout,
		logger:      cfg.Logger,
	}
}

// Unlock prompts for the passphrase and sends one walletpassphrase call.
// The passphrase lives only in locked memory and is wiped before Unlock
// returns, on every path.
func (s *Service) Unlock(ctx context.Context, seconds int64, stakingOnly bool) (*UnlockResult, error) {
	if seconds <= 0 {
		return nil, opserr.WithDetails(
			opserr.WithSuggestion(opserr.ErrInvalidInput, "use a positive --duration in seconds"),
			map[string]string{"duration": formatSeconds(seconds)},
		)
	}
	if s.prompt == nil {
		return nil, opserr.New(opserr.ErrGeneral.Code, "no passphrase prompt configured")
	}

	raw, err := s.prompt(ctx, PassphrasePrompt)
	if err != nil {
		secret.Wipe(raw)
		if ctx.Err() != nil {
			return nil, aborted(err)
		}
		return nil, opserr.Wrap(err, "reading passphrase")
	}

	pass := secret.Take(raw)
	defer pass.Destroy()

	if pass.Len() == 0 {
		return nil, opserr.WithSuggestion(opserr.ErrInvalidInput, "the passphrase must not be empty")
	}

	// Interrupted while typing: never send the passphrase.
	if err := ctx.Err(); err != nil {
		return nil, aborted(err)
	}

	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	s.debug("staking: unlocking wallet for %ds staking_only=%t", seconds, stakingOnly)

	start := time.Now()
	if err := daemon.WalletPassphrase(callCtx, s.client, daemon.Secret(pass.Bytes()), seconds, stakingOnly); err != nil {
		return nil, classify(err)
	}

	d := time.Duration(seconds) * time.Second
	return &UnlockResult{
		Duration:    d,
		StakingOnly: stakingOnly,
		Until:       start.Add(d),
	}, nil
}

func aborted(cause error) error {
	return opserr.WithSuggestion(opserr.WithCause(opserr.ErrAborted, cause), "the wallet was not unlocked")
}

// classify turns daemon wallet errors into actionable ones.
func classify(err error) error {
	code, ok := daemon.ErrorCode(err)
	if !ok {
		return err
	}

	var re *daemon.RPCError
	_ = opserr.As(err, &re)

	switch code {
	case daemon.CodeWalletPassphraseIncorrect:
		return opserr.WithSuggestion(
			opserr.WithCause(opserr.ErrAuthentication, re),
			"the passphrase was not accepted; try again",
		)
	case daemon.CodeWalletWrongEncState:
		return opserr.WithSuggestion(err, "the wallet is not encrypted, so it stakes without unlocking")
	case daemon.CodeWalletAlreadyUnlocked:
		return opserr.WithSuggestion(err, "the wallet is already unlocked; run walletlock first to change the unlock mode")
	default:
		return err
	}
}

func (s *Service) debug(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}

func formatSeconds(n int64) string {
	return time.Duration(n * int64(time.Second)).String()
}
