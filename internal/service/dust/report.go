package dust

import (
	"strconv"

	opserr "github.com/gaiacoin/gaiaops/pkg/errors"
)

// Failure is a prune that the daemon rejected or could not receive.
type Failure struct {
	TxID   string
	Reason string
	Err    error
}

// Report is the outcome of the execute phase.
type Report struct {
	// Total is the number of candidates handed to Execute.
	Total     int
	Attempted int
	Succeeded []string
	Failed    []Failure
	// Interrupted is set when cancellation stopped the batch early.
	Interrupted bool
}

// Remaining returns how many candidates were never attempted.
func (r *Report) Remaining() int {
	return r.Total - r.Attempted
}

// Err returns nil when every candidate was pruned, otherwise
// ErrPartialFailure with the counts.
func (r *Report) Err() error {
	if len(r.Failed) == 0 && !r.Interrupted {
		return nil
	}

	details := map[string]string{
		"pruned": strconv.Itoa(len(r.Succeeded)),
		"failed": strconv.Itoa(len(r.Failed)),
	}
	if r.Interrupted {
		details["interrupted"] = "true"
		details["remaining"] = strconv.Itoa(r.Remaining())
	}

	return opserr.WithSuggestion(
		opserr.WithDetails(opserr.ErrPartialFailure, details),
		"rerun dust to retry the remaining candidates",
	)
}
