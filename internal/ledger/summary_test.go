package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mmynk/settler/internal/models"
)

// memorySource is an in-memory Source for tests.
type memorySource struct {
	groups   []*models.Group
	splits   []*models.Split
	payments []*models.Payment
}

func (m *memorySource) FetchSplits(_ context.Context, scope Scope) ([]*models.Split, error) {
	var out []*models.Split
	if groupID, ok := scope.GroupID(); ok {
		for _, s := range m.splits {
			if s.GroupID == groupID {
				out = append(out, s)
			}
		}
		return out, nil
	}
	wallet, _ := scope.Wallet()
	member := make(map[string]bool)
	for _, g := range m.groups {
		if g.HasMember(wallet) {
			member[g.ID] = true
		}
	}
	for _, s := range m.splits {
		if member[s.GroupID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySource) FetchPayments(_ context.Context, splitIDs []string) ([]*models.Payment, error) {
	wanted := make(map[string]bool, len(splitIDs))
	for _, id := range splitIDs {
		wanted[id] = true
	}
	var out []*models.Payment
	for _, p := range m.payments {
		if wanted[p.SplitID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memorySource) FetchGroupsForUser(_ context.Context, wallet models.Wallet) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range m.groups {
		if g.HasMember(wallet) {
			out = append(out, g)
		}
	}
	return out, nil
}

func TestSummarizeUnknownWallet(t *testing.T) {
	src := &memorySource{}
	summary, err := Summarize(context.Background(), src, walletA)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.UserWallet != walletA.String() {
		t.Errorf("UserWallet = %q, want %q", summary.UserWallet, walletA)
	}
	if !summary.TotalOwed.IsZero() || !summary.TotalOwedToUser.IsZero() || !summary.NetBalance.IsZero() {
		t.Errorf("expected all-zero totals, got %+v", summary)
	}
	if len(summary.PendingGroups) != 0 || len(summary.GlobalTransactions) != 0 {
		t.Errorf("expected empty lists, got %+v", summary)
	}

	// Empty lists must serialize as JSON arrays, not null.
	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["pendingGroups"].([]any); !ok {
		t.Errorf("pendingGroups serialized as %T, want array", decoded["pendingGroups"])
	}
	if _, ok := decoded["globalOptimalTransactions"].([]any); !ok {
		t.Errorf("globalOptimalTransactions serialized as %T, want array", decoded["globalOptimalTransactions"])
	}
}

func TestSummarizeSingleGroup(t *testing.T) {
	src := &memorySource{
		groups: []*models.Group{{
			ID: "g1", Name: "Roommates", Creator: walletA,
			Members: []models.Wallet{walletA, walletB, walletC},
		}},
		splits: []*models.Split{equalSplit("s1", "g1", walletA, 300, walletA, walletB, walletC)},
	}

	summary, err := Summarize(context.Background(), src, walletA)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalOwedToUser != 200 {
		t.Errorf("TotalOwedToUser = %d, want 200", summary.TotalOwedToUser)
	}
	if summary.TotalOwed != 0 {
		t.Errorf("TotalOwed = %d, want 0", summary.TotalOwed)
	}
	if summary.NetBalance != 200 {
		t.Errorf("NetBalance = %d, want 200", summary.NetBalance)
	}
	if len(summary.PendingGroups) != 1 {
		t.Fatalf("got %d pending groups, want 1", len(summary.PendingGroups))
	}
	due := summary.PendingGroups[0]
	if due.GroupID != "g1" || due.Name != "Roommates" {
		t.Errorf("group due = %+v", due)
	}
	if due.NetPosition != 200 {
		t.Errorf("NetPosition = %d, want 200", due.NetPosition)
	}
	wantPlan := []Transaction{
		{From: walletB, To: walletA, Amount: 100},
		{From: walletC, To: walletA, Amount: 100},
	}
	if len(due.Transactions) != 2 || due.Transactions[0] != wantPlan[0] || due.Transactions[1] != wantPlan[1] {
		t.Errorf("group plan = %v, want %v", due.Transactions, wantPlan)
	}
}

func TestSummarizeCrossGroupNetting(t *testing.T) {
	// walletA owes walletB 50 in g1; walletB owes walletA 80 in g2.
	// Globally the pair nets to a single 30 transfer toward walletA.
	src := &memorySource{
		groups: []*models.Group{
			{ID: "g1", Name: "Trip", Creator: walletB, Members: []models.Wallet{walletA, walletB}},
			{ID: "g2", Name: "Dinner Club", Creator: walletA, Members: []models.Wallet{walletA, walletB}},
		},
		splits: []*models.Split{
			{
				ID: "s1", GroupID: "g1", Payer: walletB, Total: 100,
				Shares: []models.Share{{Owner: walletA, Amount: 50}, {Owner: walletB, Amount: 50}},
			},
			{
				ID: "s2", GroupID: "g2", Payer: walletA, Total: 160,
				Shares: []models.Share{{Owner: walletA, Amount: 80}, {Owner: walletB, Amount: 80}},
			},
		},
	}

	summary, err := Summarize(context.Background(), src, walletA)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalOwed != 0 {
		t.Errorf("TotalOwed = %d, want 0 (pair nets out)", summary.TotalOwed)
	}
	if summary.TotalOwedToUser != 30 {
		t.Errorf("TotalOwedToUser = %d, want 30", summary.TotalOwedToUser)
	}
	if summary.NetBalance != 30 {
		t.Errorf("NetBalance = %d, want 30", summary.NetBalance)
	}

	want := []Transaction{{From: walletB, To: walletA, Amount: 30}}
	if len(summary.GlobalTransactions) != 1 || summary.GlobalTransactions[0] != want[0] {
		t.Errorf("GlobalTransactions = %v, want %v", summary.GlobalTransactions, want)
	}

	// The global plan is never longer than the per-group plans combined.
	perGroup := 0
	for _, due := range summary.PendingGroups {
		perGroup += len(due.Transactions)
	}
	if len(summary.GlobalTransactions) > perGroup {
		t.Errorf("global plan has %d transactions, per-group plans have %d", len(summary.GlobalTransactions), perGroup)
	}

	// Per-group views still show each side of the offsetting debts.
	if summary.PendingGroups[0].NetPosition != -50 {
		t.Errorf("g1 net position = %d, want -50", summary.PendingGroups[0].NetPosition)
	}
	if summary.PendingGroups[1].NetPosition != 80 {
		t.Errorf("g2 net position = %d, want 80", summary.PendingGroups[1].NetPosition)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	src := &memorySource{
		groups: []*models.Group{
			{ID: "g1", Name: "Trip", Creator: walletA, Members: []models.Wallet{walletA, walletB, walletC, walletD}},
			{ID: "g2", Name: "Lunch", Creator: walletB, Members: []models.Wallet{walletA, walletB, walletD}},
		},
		splits: []*models.Split{
			equalSplit("s1", "g1", walletA, 400, walletA, walletB, walletC, walletD),
			equalSplit("s2", "g1", walletC, 200, walletC, walletD),
			equalSplit("s3", "g2", walletD, 90, walletA, walletB, walletD),
		},
		payments: []*models.Payment{
			{ID: "p1", SplitID: "s1", Payer: walletB, Amount: 25},
		},
	}

	first, err := Summarize(context.Background(), src, walletA)
	if err != nil {
		t.Fatal(err)
	}
	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Summarize(context.Background(), src, walletA)
		if err != nil {
			t.Fatal(err)
		}
		againJSON, err := json.Marshal(again)
		if err != nil {
			t.Fatal(err)
		}
		if string(firstJSON) != string(againJSON) {
			t.Fatalf("run %d serialized differently:\n%s\n%s", i, againJSON, firstJSON)
		}
	}
}
