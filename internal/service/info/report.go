package info

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// coinDecimals is the display precision for balances.
const coinDecimals = 8

// unavailable is printed in place of a value whose query failed.
const unavailable = "unavailable"

// Report is the merged result of the five info queries.
// A nil snapshot means its query failed; the cause is in Errors.
type Report struct {
	Wallet  *WalletSnapshot
	Network *NetworkSnapshot
	Height  *int64
	Chain   *ChainSnapshot
	Staking *StakingSnapshot
	Errors  map[Section]error
}

// Partial reports whether some, but not all, sections failed.
func (r *Report) Partial() bool {
	return len(r.Errors) > 0 && len(r.Errors) < len(Sections)
}

// Failed reports whether every section failed.
func (r *Report) Failed() bool {
	return len(r.Errors) == len(Sections)
}

// Err summarizes the report outcome. When every section failed it returns
// the first section's error so the caller sees the root cause; when only
// some failed it returns ErrPartialFailure naming them.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}

	failed := make([]string, 0, len(r.Errors))
	var first error
	for _, s := range Sections {
		if err, ok := r.Errors[s]; ok {
			failed = append(failed, string(s))
			if first == nil {
				first = err
			}
		}
	}

	if r.Failed() {
		return first
	}

	return opserr.WithSuggestion(
		opserr.WithDetails(opserr.ErrPartialFailure, map[string]string{
			"sections": strings.Join(failed, ","),
		}),
		"rerun with --verbose and check the daemon log for the failing calls",
	)
}

// Fields returns every report field in a fixed order. Fields of a failed
// section are present but marked unavailable with the failure reason.
//
//nolint:funlen // one entry per displayed field
func (r *Report) Fields() []Field {
	fields := make([]Field, 0, 16)

	add := func(s Section, ok bool, kv ...string) {
		reason := ""
		if err := r.Errors[s]; err != nil {
			reason = err.Error()
		}
		for i := 0; i+1 < len(kv); i += 2 {
			f := Field{Section: s, Key: kv[i], Available: ok}
			if ok {
				f.Value = kv[i+1]
			} else {
				f.Value = unavailable
				f.Reason = reason
			}
			fields = append(fields, f)
		}
	}

	w := r.Wallet
	if w == nil {
		w = &WalletSnapshot{}
	}
	add(SectionWallet, r.Wallet != nil,
		"balance", coins(w.Balance),
		"stake", coins(w.StakedBalance),
		"unconfirmed", coins(w.UnconfirmedBalance),
		"immature", coins(w.ImmatureBalance),
		"total", coins(w.TotalBalance),
		"txcount", strconv.FormatInt(w.TransactionCount, 10),
	)

	n := r.Network
	if n == nil {
		n = &NetworkSnapshot{}
	}
	add(SectionNetwork, r.Network != nil,
		"connections", strconv.Itoa(n.PeerCount),
		"protocolversion", n.ProtocolVersion,
		"subversion", n.SubVersion,
	)

	var height int64
	if r.Height != nil {
		height = *r.Height
	}
	add(SectionBlock, r.Height != nil,
		"height", strconv.FormatInt(height, 10),
	)

	c := r.Chain
	if c == nil {
		c = &ChainSnapshot{}
	}
	add(SectionChain, r.Chain != nil,
		"name", c.Chain,
		"headers", strconv.FormatInt(c.Headers, 10),
		"bestblockhash", c.BestBlockHash,
	)

	st := r.Staking
	if st == nil {
		st = &StakingSnapshot{}
	}
	expected := "n/a"
	if st.ExpectedTime > 0 {
		expected = st.ExpectedTime.String()
	}
	add(SectionStaking, r.Staking != nil,
		"enabled", strconv.FormatBool(st.Enabled),
		"staking", strconv.FormatBool(st.Staking),
		"netstakeweight", st.NetworkStakeWeight.String(),
		"expectedtime", expected,
	)

	return fields
}

func coins(d decimal.Decimal) string {
	return d.StringFixed(coinDecimals)
}
