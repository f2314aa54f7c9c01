// Package blockhash validates block hashes reported by the daemon and by
// remote explorers before they are compared.
package blockhash

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ErrInvalid indicates a string is not a 64 hex character block hash.
var ErrInvalid = errors.New("not a 64 hex character block hash")

// Parse trims s and checks it is a full-length hex block hash.
// The returned string keeps the caller's letter case.
func Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != chainhash.MaxHashStringSize {
		return "", ErrInvalid
	}
	if _, err := chainhash.NewHashFromStr(s); err != nil {
		return "", ErrInvalid
	}
	return s, nil
}

// Equal compares two block hashes ignoring hex letter case.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
