package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/settler/internal/models"
)

// ErrUnbalancedLedger indicates the zero-sum invariant broke after
// reduction. It signals an upstream bug, never bad user input, and the
// computation for the scope is abandoned rather than patched over.
var ErrUnbalancedLedger = errors.New("ledger: net positions do not sum to zero")

// ValidationError reports a split whose records are inconsistent: shares
// that do not sum to the total, or payments that exceed a share.
type ValidationError struct {
	SplitID string
	Wallet  models.Wallet // involved wallet, empty for split-level problems
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Wallet != "" {
		return fmt.Sprintf("ledger: split %s, wallet %s: %s", e.SplitID, e.Wallet, e.Reason)
	}
	return fmt.Sprintf("ledger: split %s: %s", e.SplitID, e.Reason)
}

// IntegrityError reports a broken zero-sum ledger. It wraps
// ErrUnbalancedLedger so callers can test with errors.Is.
type IntegrityError struct {
	Scope     string
	Imbalance int64 // net sum in minor units, nonzero
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger: scope %s unbalanced by %d minor units", e.Scope, e.Imbalance)
}

func (e *IntegrityError) Unwrap() error { return ErrUnbalancedLedger }
