package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
)

// GroupDue is one group's contribution to a user's summary: the user's net
// position inside the group and the group-local settlement plan.
type GroupDue struct {
	GroupID      string        `json:"groupId"`
	Name         string        `json:"name"`
	NetPosition  money.Money   `json:"netPosition"`
	Transactions []Transaction `json:"transactions"`
}

// Summary is a user's consolidated settlement state across all groups.
//
// TotalOwed and TotalOwedToUser are computed on the union of all the user's
// groups, netted per counterparty first: if the user owes a wallet in one
// group and is owed by the same wallet in another, only the difference
// counts. NetBalance always equals TotalOwedToUser - TotalOwed and equals
// the user's net position over the union scope.
type Summary struct {
	UserWallet         string        `json:"userWallet"`
	TotalOwed          money.Money   `json:"totalOwed"`
	TotalOwedToUser    money.Money   `json:"totalOwedToUser"`
	NetBalance         money.Money   `json:"netBalance"`
	PendingGroups      []GroupDue    `json:"pendingGroups"`
	GlobalTransactions []Transaction `json:"globalOptimalTransactions"`
}

// Summarize computes a user's settlement summary.
//
// Each group gets its own build/reduce/settle pass so clients can offer
// "settle up within this group". A separate pass over the union of all the
// user's groups produces GlobalTransactions, which can need fewer transfers
// than the per-group plans combined because offsetting cross-group debts
// between the same pair net out before matching.
//
// A wallet with no groups yields an all-zero summary, not an error.
func Summarize(ctx context.Context, src Source, wallet models.Wallet) (*Summary, error) {
	summary := &Summary{
		UserWallet:         wallet.String(),
		PendingGroups:      []GroupDue{},
		GlobalTransactions: []Transaction{},
	}

	groups, err := src.FetchGroupsForUser(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("fetch groups for %s: %w", wallet, err)
	}
	if len(groups) == 0 {
		return summary, nil
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })

	for _, g := range groups {
		scope := GroupScope(g.ID)
		snap, err := Load(ctx, src, scope)
		if err != nil {
			return nil, fmt.Errorf("scope %s: %w", scope, err)
		}
		balances, err := BuildBalances(snap)
		if err != nil {
			return nil, fmt.Errorf("scope %s: %w", scope, err)
		}
		positions := Reduce(balances, snap.Participants())
		plan, err := Settle(positions, scope)
		if err != nil {
			return nil, err
		}
		summary.PendingGroups = append(summary.PendingGroups, GroupDue{
			GroupID:      g.ID,
			Name:         g.Name,
			NetPosition:  positions[wallet],
			Transactions: plan,
		})
	}

	scope := UserScope(wallet)
	snap, err := Load(ctx, src, scope)
	if err != nil {
		return nil, fmt.Errorf("scope %s: %w", scope, err)
	}
	balances, err := BuildBalances(snap)
	if err != nil {
		return nil, fmt.Errorf("scope %s: %w", scope, err)
	}
	positions := Reduce(balances, snap.Participants())
	plan, err := Settle(positions, scope)
	if err != nil {
		return nil, err
	}
	summary.GlobalTransactions = plan

	// Net each counterparty before totaling, so an offsetting debt pair
	// across two groups contributes only its difference.
	byCounterparty := make(map[models.Wallet]money.Money)
	for _, b := range balances {
		switch wallet {
		case b.Debtor:
			byCounterparty[b.Creditor] = byCounterparty[b.Creditor].Sub(b.Amount)
		case b.Creditor:
			byCounterparty[b.Debtor] = byCounterparty[b.Debtor].Add(b.Amount)
		}
	}
	for _, net := range byCounterparty {
		if net.IsPositive() {
			summary.TotalOwedToUser = summary.TotalOwedToUser.Add(net)
		} else {
			summary.TotalOwed = summary.TotalOwed.Add(net.Neg())
		}
	}
	summary.NetBalance = summary.TotalOwedToUser.Sub(summary.TotalOwed)
	if summary.NetBalance != positions[wallet] {
		return nil, &IntegrityError{
			Scope:     scope.String(),
			Imbalance: int64(summary.NetBalance.Sub(positions[wallet])),
		}
	}
	return summary, nil
}
