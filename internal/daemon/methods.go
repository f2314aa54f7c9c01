package daemon

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gaiacoin/gaiaops/internal/blockhash"
)

// Daemon method names.
const (
	MethodGetWalletInfo     = "getwalletinfo"
	MethodGetNetworkInfo    = "getnetworkinfo"
	MethodGetInfo           = "getinfo"
	MethodGetBlockchainInfo = "getblockchaininfo"
	MethodGetStakingInfo    = "getstakinginfo"
	MethodWalletPassphrase  = "walletpassphrase"
	MethodGetBlockCount     = "getblockcount"
	MethodGetBlockHash      = "getblockhash"
	MethodListTransactions  = "listtransactions"
	MethodRemovePrunedFunds = "removeprunedfunds"
)

// MaxListCount asks listtransactions for the whole wallet history.
const MaxListCount = 2147483647

// GetWalletInfo returns wallet balances and counters.
func GetWalletInfo(ctx context.Context, c Client) (*WalletInfo, error) {
	info, err := Call[WalletInfo](ctx, c, MethodGetWalletInfo)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetNetworkInfo returns peer and protocol information.
func GetNetworkInfo(ctx context.Context, c Client) (*NetworkInfo, error) {
	info, err := Call[NetworkInfo](ctx, c, MethodGetNetworkInfo)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetInfo returns the legacy general-information summary.
func GetInfo(ctx context.Context, c Client) (*Info, error) {
	info, err := Call[Info](ctx, c, MethodGetInfo)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBlockchainInfo returns chain state. BestBlockHash is validated.
func GetBlockchainInfo(ctx context.Context, c Client) (*BlockchainInfo, error) {
	info, err := Call[BlockchainInfo](ctx, c, MethodGetBlockchainInfo)
	if err != nil {
		return nil, err
	}

	hash, err := blockhash.Parse(info.BestBlockHash)
	if err != nil {
		return nil, malformed(MethodGetBlockchainInfo, []byte(info.BestBlockHash), err)
	}
	info.BestBlockHash = hash
	return &info, nil
}

// GetStakingInfo returns staking state.
func GetStakingInfo(ctx context.Context, c Client) (*StakingInfo, error) {
	info, err := Call[StakingInfo](ctx, c, MethodGetStakingInfo)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// WalletPassphrase unlocks the wallet for seconds.
// With stakingOnly the unlock only permits staking, not spending.
func WalletPassphrase(ctx context.Context, c Client, passphrase Secret, seconds int64, stakingOnly bool) error {
	_, err := c.Invoke(ctx, MethodWalletPassphrase, passphrase, seconds, stakingOnly)
	return err
}

// GetBlockCount returns the height of the local best chain.
func GetBlockCount(ctx context.Context, c Client) (int64, error) {
	return Call[int64](ctx, c, MethodGetBlockCount)
}

// GetBlockHash returns the hash of the block at height.
func GetBlockHash(ctx context.Context, c Client, height int64) (string, error) {
	raw, err := c.Invoke(ctx, MethodGetBlockHash, height)
	if err != nil {
		return "", err
	}

	// The command-line tool prints hashes bare; an all-digit hash then
	// arrives as a JSON number rather than a string.
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", malformed(MethodGetBlockHash, raw, err)
		}
	}

	hash, err := blockhash.Parse(s)
	if err != nil {
		return "", malformed(MethodGetBlockHash, raw, err)
	}
	return hash, nil
}

// ListTransactions returns the full wallet history, oldest first.
func ListTransactions(ctx context.Context, c Client) ([]Transaction, error) {
	return Call[[]Transaction](ctx, c, MethodListTransactions, "*", MaxListCount)
}

// RemovePrunedFunds deletes txid from the local wallet.
func RemovePrunedFunds(ctx context.Context, c Client, txid string) error {
	_, err := c.Invoke(ctx, MethodRemovePrunedFunds, txid)
	return err
}
