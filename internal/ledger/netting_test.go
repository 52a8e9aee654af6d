package ledger

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
)

func applyPlan(positions map[models.Wallet]money.Money, plan []Transaction) map[models.Wallet]money.Money {
	out := make(map[models.Wallet]money.Money, len(positions))
	for w, p := range positions {
		out[w] = p
	}
	for _, tx := range plan {
		out[tx.From] = out[tx.From].Add(tx.Amount)
		out[tx.To] = out[tx.To].Sub(tx.Amount)
	}
	return out
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name      string
		positions map[models.Wallet]money.Money
		want      []Transaction
	}{
		{
			name:      "one creditor two equal debtors, tie broken by wallet",
			positions: map[models.Wallet]money.Money{walletA: 200, walletB: -100, walletC: -100},
			want: []Transaction{
				{From: walletB, To: walletA, Amount: 100},
				{From: walletC, To: walletA, Amount: 100},
			},
		},
		{
			name:      "largest debtor matched first",
			positions: map[models.Wallet]money.Money{walletA: 140, walletB: -40, walletC: -100},
			want: []Transaction{
				{From: walletC, To: walletA, Amount: 100},
				{From: walletB, To: walletA, Amount: 40},
			},
		},
		{
			name:      "chain collapses to single transfer",
			positions: map[models.Wallet]money.Money{walletA: 30, walletB: -30, walletC: 0},
			want: []Transaction{
				{From: walletB, To: walletA, Amount: 30},
			},
		},
		{
			name:      "all settled yields empty plan",
			positions: map[models.Wallet]money.Money{walletA: 0, walletB: 0},
			want:      nil,
		},
		{
			name:      "empty positions",
			positions: map[models.Wallet]money.Money{},
			want:      nil,
		},
		{
			name: "two creditors two debtors",
			positions: map[models.Wallet]money.Money{
				walletA: 150, walletB: 50, walletC: -120, walletD: -80,
			},
			want: []Transaction{
				{From: walletC, To: walletA, Amount: 120},
				{From: walletD, To: walletB, Amount: 50},
				{From: walletD, To: walletA, Amount: 30},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Settle(tt.positions, GroupScope("g1"))
			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Settle() = %v, want %v", got, tt.want)
			}

			// The plan must zero every position.
			for w, p := range applyPlan(tt.positions, got) {
				if !p.IsZero() {
					t.Errorf("position[%s] = %d after applying plan, want 0", w, p)
				}
			}

			// At most n-1 transactions for n non-zero positions.
			nonzero := 0
			for _, p := range tt.positions {
				if !p.IsZero() {
					nonzero++
				}
			}
			if limit := nonzero - 1; limit >= 0 && len(got) > limit {
				t.Errorf("plan has %d transactions, want <= %d", len(got), limit)
			}
			for _, tx := range got {
				if !tx.Amount.IsPositive() {
					t.Errorf("transaction %+v has non-positive amount", tx)
				}
			}
		})
	}
}

func TestSettleDeterministic(t *testing.T) {
	positions := map[models.Wallet]money.Money{
		walletA: 75, walletB: 75, walletC: -50, walletD: -100,
	}
	first, err := Settle(positions, GroupScope("g1"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := Settle(positions, GroupScope("g1"))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced %v, first run produced %v", i, again, first)
		}
	}
}

func TestSettleUnbalanced(t *testing.T) {
	_, err := Settle(map[models.Wallet]money.Money{walletA: 100, walletB: -40}, GroupScope("g1"))
	if !errors.Is(err, ErrUnbalancedLedger) {
		t.Fatalf("Settle() error = %v, want ErrUnbalancedLedger", err)
	}
	var iErr *IntegrityError
	if !errors.As(err, &iErr) {
		t.Fatalf("Settle() error = %v, want *IntegrityError", err)
	}
	if iErr.Imbalance != 60 {
		t.Errorf("Imbalance = %d, want 60", iErr.Imbalance)
	}
}
