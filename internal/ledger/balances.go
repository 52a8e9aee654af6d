package ledger

import (
	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
)

// shareSumTolerance is the largest acceptable drift between a split's total
// and the sum of its shares: the one minor unit an integer division can
// leave behind when shares were computed elsewhere.
const shareSumTolerance money.Money = 1

// PairwiseBalance is a directed debt: debtor owes creditor the amount.
// Balances are transient, recomputed on every query.
type PairwiseBalance struct {
	Debtor   models.Wallet
	Creditor models.Wallet
	Amount   money.Money
}

// BuildBalances derives the outstanding pairwise debts from a snapshot.
//
// For every share of every split, the outstanding amount is the share minus
// all payments the owner recorded against that split. A positive outstanding
// amount owed to someone other than the owner becomes a balance
// (owner -> payer). Emission order follows the snapshot's split and share
// order, so identical snapshots produce identical output.
//
// It returns a *ValidationError when a split's shares drift from its total
// by more than one minor unit, when a payment exceeds the share it targets
// (overpayments are rejected, not credited elsewhere), or when a payment
// was recorded for a wallet with no share in the split.
func BuildBalances(snap *Snapshot) ([]PairwiseBalance, error) {
	paid := snap.paidIndex()

	var balances []PairwiseBalance
	for _, split := range snap.Splits {
		var shareSum money.Money
		owners := make(map[models.Wallet]bool, len(split.Shares))
		for _, sh := range split.Shares {
			shareSum = shareSum.Add(sh.Amount)
			owners[sh.Owner] = true
		}
		if drift := shareSum.Sub(split.Total).Abs(); drift > shareSumTolerance {
			return nil, &ValidationError{
				SplitID: split.ID,
				Reason:  "shares sum to " + shareSum.String() + ", total is " + split.Total.String(),
			}
		}
		for payer := range paid[split.ID] {
			if !owners[payer] {
				return nil, &ValidationError{
					SplitID: split.ID,
					Wallet:  payer,
					Reason:  "payment recorded for a wallet with no share",
				}
			}
		}

		for _, sh := range split.Shares {
			settled := paid[split.ID][sh.Owner]
			if settled > sh.Amount {
				return nil, &ValidationError{
					SplitID: split.ID,
					Wallet:  sh.Owner,
					Reason:  "payments of " + settled.String() + " exceed share of " + sh.Amount.String(),
				}
			}
			outstanding := sh.Amount.Sub(settled)
			if outstanding.IsPositive() && sh.Owner != split.Payer {
				balances = append(balances, PairwiseBalance{
					Debtor:   sh.Owner,
					Creditor: split.Payer,
					Amount:   outstanding,
				})
			}
		}
	}
	return balances, nil
}

// Reduce collapses pairwise balances into one signed net position per
// wallet: positive means the wallet is owed money, negative means it owes.
//
// Every wallet in participants gets an entry, so a wallet that fully
// settled (position exactly zero) is distinguishable from one that was
// never involved. The result sums to zero by construction: every addition
// has a matching subtraction.
func Reduce(balances []PairwiseBalance, participants []models.Wallet) map[models.Wallet]money.Money {
	positions := make(map[models.Wallet]money.Money, len(participants))
	for _, w := range participants {
		positions[w] = money.Zero
	}
	for _, b := range balances {
		positions[b.Debtor] = positions[b.Debtor].Sub(b.Amount)
		positions[b.Creditor] = positions[b.Creditor].Add(b.Amount)
	}
	return positions
}
