// Package ledger turns raw splits and payments into settlement plans.
//
// The pipeline is: raw records -> pairwise balances (BuildBalances) ->
// net positions (Reduce) -> minimal transactions (Settle), with Summarize
// composing all three per-group and across a user's whole graph.
//
// Every function here is a pure computation over an immutable snapshot.
// The package owns no durable state and is safe to run from any number of
// goroutines concurrently; the store behind Source is responsible for
// handing out consistent snapshots (a payment must be fully visible or not
// at all).
package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
)

// Source is the read-only boundary to the ledger store. Implementations
// return already-authorized, existence-checked records.
type Source interface {
	// FetchSplits returns all splits in the given scope.
	FetchSplits(ctx context.Context, scope Scope) ([]*models.Split, error)

	// FetchPayments returns all payments recorded against the given splits.
	FetchPayments(ctx context.Context, splitIDs []string) ([]*models.Payment, error)

	// FetchGroupsForUser returns every group the wallet is a member of.
	FetchGroupsForUser(ctx context.Context, wallet models.Wallet) ([]*models.Group, error)
}

// Snapshot is an immutable view of the splits and payments for one scope.
type Snapshot struct {
	Splits   []*models.Split
	Payments []*models.Payment
}

// Load fetches the splits for a scope and every payment against them.
func Load(ctx context.Context, src Source, scope Scope) (*Snapshot, error) {
	splits, err := src.FetchSplits(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("fetch splits: %w", err)
	}
	ids := make([]string, len(splits))
	for i, s := range splits {
		ids[i] = s.ID
	}
	payments, err := src.FetchPayments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	return &Snapshot{Splits: splits, Payments: payments}, nil
}

// Participants returns every wallet that appears in the snapshot's splits,
// payers included, without duplicates. Order is first appearance.
func (s *Snapshot) Participants() []models.Wallet {
	seen := make(map[models.Wallet]bool)
	var wallets []models.Wallet
	add := func(w models.Wallet) {
		if !seen[w] {
			seen[w] = true
			wallets = append(wallets, w)
		}
	}
	for _, sp := range s.Splits {
		add(sp.Payer)
		for _, sh := range sp.Shares {
			add(sh.Owner)
		}
	}
	return wallets
}

// paidIndex maps splitID -> payer wallet -> total paid.
func (s *Snapshot) paidIndex() map[string]map[models.Wallet]money.Money {
	idx := make(map[string]map[models.Wallet]money.Money)
	for _, p := range s.Payments {
		bySplit, ok := idx[p.SplitID]
		if !ok {
			bySplit = make(map[models.Wallet]money.Money)
			idx[p.SplitID] = bySplit
		}
		bySplit[p.Payer] = bySplit[p.Payer].Add(p.Amount)
	}
	return idx
}
