package info

import (
	"time"

	"github.com/shopspring/decimal"
)

// Section names one of the independent queries behind a report.
type Section string

// Report sections in display order.
const (
	SectionWallet  Section = "wallet"
	SectionNetwork Section = "network"
	SectionBlock   Section = "block"
	SectionChain   Section = "chain"
	SectionStaking Section = "staking"
)

// Sections lists every section in display order.
//
//nolint:gochecknoglobals // fixed display order
var Sections = []Section{SectionWallet, SectionNetwork, SectionBlock, SectionChain, SectionStaking}

// WalletSnapshot holds wallet balances.
type WalletSnapshot struct {
	Balance            decimal.Decimal
	StakedBalance      decimal.Decimal
	UnconfirmedBalance decimal.Decimal
	ImmatureBalance    decimal.Decimal
	TotalBalance       decimal.Decimal
	TransactionCount   int64
}

// NetworkSnapshot holds peer connectivity.
type NetworkSnapshot struct {
	PeerCount       int
	ProtocolVersion string
	SubVersion      string
}

// ChainSnapshot holds chain state from getblockchaininfo.
type ChainSnapshot struct {
	Chain         string
	Headers       int64
	BestBlockHash string
}

// StakingSnapshot holds staking state.
type StakingSnapshot struct {
	Enabled            bool
	Staking            bool
	NetworkStakeWeight decimal.Decimal
	// ExpectedTime is zero when the daemon cannot estimate it.
	ExpectedTime time.Duration
}

// Field is one line of the flat report listing.
type Field struct {
	Section   Section
	Key       string
	Value     string
	Available bool
	Reason    string
}

// Name returns the dotted field name, e.g. "wallet.balance".
func (f Field) Name() string {
	return string(f.Section) + "." + f.Key
}
