package models

import "github.com/mmynk/settler/internal/money"

// Split represents one shared expense inside a group: a payer who fronted
// the money and a share for every wallet included in the expense.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// GroupID is the group this split belongs to. A split belongs to
	// exactly one group.
	GroupID string

	// Description is a human-readable label (e.g., "Dinner", "Gas").
	Description string

	// Payer is the wallet that fronted the full amount.
	Payer Wallet

	// Total is the full expense amount in minor units.
	// Invariant: the shares sum to Total (the ledger verifies this).
	Total money.Money

	// Shares assigns each included wallet its portion of Total.
	Shares []Share

	// CreatedAt is the Unix timestamp when the split was recorded.
	CreatedAt int64
}

// Share is one wallet's assigned portion of a split.
type Share struct {
	// Owner is the wallet that owes this portion.
	Owner Wallet

	// Amount is the portion in minor units.
	Amount money.Money
}

// ShareOf returns the share amount assigned to the wallet, or zero if the
// wallet is not part of the split.
func (s *Split) ShareOf(w Wallet) money.Money {
	for _, sh := range s.Shares {
		if sh.Owner == w {
			return sh.Amount
		}
	}
	return money.Zero
}

// Payment records that a wallet transferred money toward its share of a
// split. Payments are append-only; outstanding debt is always derived as
// share minus the sum of payments.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// SplitID is the split this payment applies to.
	SplitID string

	// Payer is the wallet whose share is being reduced.
	Payer Wallet

	// Amount is the paid amount in minor units, always positive.
	Amount money.Money

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
