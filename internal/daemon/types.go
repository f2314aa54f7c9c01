package daemon

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// WalletInfo is the result of getwalletinfo.
type WalletInfo struct {
	WalletVersion      int              `json:"walletversion"`
	Balance            decimal.Decimal  `json:"balance"`
	Stake              decimal.Decimal  `json:"stake"`
	UnconfirmedBalance decimal.Decimal  `json:"unconfirmed_balance"`
	ImmatureBalance    decimal.Decimal  `json:"immature_balance"`
	TotalBalance       *decimal.Decimal `json:"total_balance,omitempty"`
	TxCount            int64            `json:"txcount"`
	UnlockedUntil      *int64           `json:"unlocked_until,omitempty"`
}

// Total returns total_balance when the daemon reports it,
// otherwise the sum of the four balance buckets.
func (w WalletInfo) Total() decimal.Decimal {
	if w.TotalBalance != nil {
		return *w.TotalBalance
	}
	return w.Balance.Add(w.Stake).Add(w.UnconfirmedBalance).Add(w.ImmatureBalance)
}

// NetworkInfo is the result of getnetworkinfo.
type NetworkInfo struct {
	Version         int    `json:"version"`
	SubVersion      string `json:"subversion"`
	ProtocolVersion int    `json:"protocolversion"`
	Connections     int    `json:"connections"`
}

// Info is the result of the legacy getinfo call.
type Info struct {
	Version         int             `json:"version"`
	ProtocolVersion int             `json:"protocolversion"`
	WalletVersion   int             `json:"walletversion"`
	Balance         decimal.Decimal `json:"balance"`
	Stake           decimal.Decimal `json:"stake"`
	Blocks          int64           `json:"blocks"`
	Connections     int             `json:"connections"`
	Testnet         bool            `json:"testnet"`
	Errors          string          `json:"errors"`
}

// BlockchainInfo is the result of getblockchaininfo.
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	BestBlockHash        string  `json:"bestblockhash"`
	VerificationProgress float64 `json:"verificationprogress"`
	// Proof-of-stake chains report difficulty as an object, others as a number.
	Difficulty json.RawMessage `json:"difficulty,omitempty"`
}

// StakingInfo is the result of getstakinginfo.
type StakingInfo struct {
	Enabled        bool            `json:"enabled"`
	Staking        bool            `json:"staking"`
	Errors         string          `json:"errors"`
	Weight         decimal.Decimal `json:"weight"`
	NetStakeWeight decimal.Decimal `json:"netstakeweight"`
	ExpectedTime   int64           `json:"expectedtime"`
}

// Transaction categories reported by listtransactions.
const (
	CategorySend    = "send"
	CategoryReceive = "receive"
)

// Transaction is one entry of listtransactions.
// A transaction with several outputs appears once per output.
type Transaction struct {
	TxID          string          `json:"txid"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Confirmations int64           `json:"confirmations"`
	Address       string          `json:"address,omitempty"`
	Time          int64           `json:"time,omitempty"`
}
