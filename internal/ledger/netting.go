package ledger

import (
	"container/heap"
	"sort"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
)

// Transaction is one settlement transfer: From pays To the amount.
// Amount is always strictly positive.
type Transaction struct {
	From   models.Wallet `json:"from"`
	To     models.Wallet `json:"to"`
	Amount money.Money   `json:"amount"`
}

// party is one side of the matching: a wallet and its remaining magnitude.
type party struct {
	wallet models.Wallet
	remain money.Money
}

// partyHeap is a max-heap over remaining magnitude, breaking ties by wallet
// in ascending order so the pop sequence is fully deterministic.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].remain != h[j].remain {
		return h[i].remain > h[j].remain
	}
	return h[i].wallet < h[j].wallet
}
func (h partyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *partyHeap) Push(x any)        { *h = append(*h, x.(party)) }
func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Settle computes a minimal set of transactions that drives every net
// position to zero, by greedy extremal matching: repeatedly pair the
// largest creditor with the largest debtor and transfer the smaller of the
// two remainders. The plan has at most n-1 transactions for n non-zero
// positions.
//
// If the positions do not sum to zero the ledger upstream is corrupt;
// Settle returns an *IntegrityError (wrapping ErrUnbalancedLedger) instead
// of emitting an unbalanced plan. The scope argument only labels that error.
func Settle(positions map[models.Wallet]money.Money, scope Scope) ([]Transaction, error) {
	var creditors, debtors partyHeap
	var sum money.Money
	for w, pos := range positions {
		sum = sum.Add(pos)
		switch {
		case pos.IsPositive():
			creditors = append(creditors, party{wallet: w, remain: pos})
		case pos.IsNegative():
			debtors = append(debtors, party{wallet: w, remain: pos.Neg()})
		}
	}
	if !sum.IsZero() {
		return nil, &IntegrityError{Scope: scope.String(), Imbalance: int64(sum)}
	}

	// Sorting before heap init is not required for correctness (the heap
	// order is a strict total order), it just keeps the backing slice
	// layout independent of map iteration order.
	sort.Sort(creditors)
	sort.Sort(debtors)
	heap.Init(&creditors)
	heap.Init(&debtors)

	var plan []Transaction
	for creditors.Len() > 0 && debtors.Len() > 0 {
		cr := heap.Pop(&creditors).(party)
		db := heap.Pop(&debtors).(party)

		amount := cr.remain.Min(db.remain)
		plan = append(plan, Transaction{From: db.wallet, To: cr.wallet, Amount: amount})

		cr.remain = cr.remain.Sub(amount)
		db.remain = db.remain.Sub(amount)
		if cr.remain.IsPositive() {
			heap.Push(&creditors, cr)
		}
		if db.remain.IsPositive() {
			heap.Push(&debtors, db)
		}
	}
	return plan, nil
}
