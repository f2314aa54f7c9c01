package dust

import (
	"github.com/shopspring/decimal"

	"github.com/gaiacoin/gaiaops/internal/daemon"
)

// DefaultThreshold is the amount below which an incoming entry is dust.
//
//nolint:gochecknoglobals // immutable decimal constant
var DefaultThreshold = decimal.New(1, -4)

// Identify returns the txids of history entries that are not sends and
// whose amount is strictly below threshold. Each txid appears once, in the
// order it was first seen. A transaction with several outputs qualifies as
// a whole as soon as one of its entries does.
func Identify(history []daemon.Transaction, threshold decimal.Decimal) []string {
	seen := make(map[string]struct{})
	txids := make([]string, 0)

	for _, tx := range history {
		if tx.Category == daemon.CategorySend || tx.TxID == "" {
			continue
		}
		if !tx.Amount.LessThan(threshold) {
			continue
		}
		if _, dup := seen[tx.TxID]; dup {
			continue
		}
		seen[tx.TxID] = struct{}{}
		txids = append(txids, tx.TxID)
	}

	return txids
}
