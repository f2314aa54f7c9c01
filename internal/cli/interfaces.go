package cli

import (
	"github.com/gaiacoin/gaiaops/internal/config"
	"github.com/gaiacoin/gaiaops/internal/daemon"
	"github.com/gaiacoin/gaiaops/internal/explorer"
	"github.com/gaiacoin/gaiaops/internal/service/dust"
	"github.com/gaiacoin/gaiaops/internal/service/info"
	"github.com/gaiacoin/gaiaops/internal/service/staking"
	"github.com/gaiacoin/gaiaops/internal/service/tipcheck"
)

// Compile-time interface checks.
var (
	_ daemon.LogWriter         = (*config.Logger)(nil)
	_ explorer.LogWriter       = (*config.Logger)(nil)
	_ info.LogWriter           = (*config.Logger)(nil)
	_ staking.LogWriter        = (*config.Logger)(nil)
	_ tipcheck.LogWriter       = (*config.Logger)(nil)
	_ dust.LogWriter           = (*config.Logger)(nil)
	_ daemon.Client            = (*daemon.RPCClient)(nil)
	_ daemon.Client            = (*daemon.CLIClient)(nil)
	_ tipcheck.BlockHashSource = (*explorer.Client)(nil)
)
