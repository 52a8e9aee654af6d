package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mmynk/settler/internal/ledger"
	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
	"github.com/mmynk/settler/internal/storage"
)

// shareSumTolerance mirrors the ledger's acceptance of a single minor unit
// of integer-division drift between shares and total.
const shareSumTolerance money.Money = 1

// SplitService records expenses and payments.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// ShareInput is one wallet's assigned portion in a CreateSplit request.
type ShareInput struct {
	Wallet string
	Amount money.Money
}

// CreateSplitInput describes a new expense. When Shares is empty the total
// is split equally among all current group members.
type CreateSplitInput struct {
	GroupID     string
	Description string
	Payer       string
	Total       money.Money
	Shares      []ShareInput
}

// CreateSplit validates and persists a new split. Share owners and the
// payer that are not yet group members are added to the group, mirroring
// how people join a group by being included in an expense.
func (s *SplitService) CreateSplit(ctx context.Context, in CreateSplitInput) (*models.Split, error) {
	if !in.Total.IsPositive() {
		return nil, fmt.Errorf("%w: total must be positive", ErrInvalidInput)
	}
	payer := models.NormalizeWallet(in.Payer)
	if payer == "" {
		return nil, fmt.Errorf("%w: payer wallet required", ErrInvalidInput)
	}

	group, err := s.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	split := &models.Split{
		GroupID:     group.ID,
		Description: in.Description,
		Payer:       payer,
		Total:       in.Total,
	}

	if len(in.Shares) == 0 {
		members := append([]models.Wallet(nil), group.Members...)
		if !group.HasMember(payer) {
			members = append(members, payer)
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		amounts, err := money.SplitEqually(in.Total, len(members))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		for i, m := range members {
			split.Shares = append(split.Shares, models.Share{Owner: m, Amount: amounts[i]})
		}
	} else {
		seen := make(map[models.Wallet]bool, len(in.Shares))
		var sum money.Money
		for _, sh := range in.Shares {
			owner := models.NormalizeWallet(sh.Wallet)
			if owner == "" {
				return nil, fmt.Errorf("%w: share wallet required", ErrInvalidInput)
			}
			if seen[owner] {
				return nil, fmt.Errorf("%w: duplicate share for wallet %s", ErrInvalidInput, owner)
			}
			if sh.Amount.IsNegative() {
				return nil, fmt.Errorf("%w: share for wallet %s is negative", ErrInvalidInput, owner)
			}
			seen[owner] = true
			sum = sum.Add(sh.Amount)
			split.Shares = append(split.Shares, models.Share{Owner: owner, Amount: sh.Amount})
		}
		if drift := sum.Sub(in.Total).Abs(); drift > shareSumTolerance {
			return nil, fmt.Errorf("%w: shares sum to %s, total is %s", ErrInvalidInput, sum, in.Total)
		}
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "group_id", group.ID, "error", err)
		return nil, err
	}

	s.autoAddParticipants(ctx, group, split)

	slog.Info("Split created",
		"split_id", split.ID,
		"group_id", group.ID,
		"payer", split.Payer,
		"total", split.Total,
		"shares_count", len(split.Shares),
	)
	return split, nil
}

// autoAddParticipants adds the split's payer and share owners to the group
// when they are not members yet. Failures are logged, not surfaced: the
// split itself is already recorded.
func (s *SplitService) autoAddParticipants(ctx context.Context, group *models.Group, split *models.Split) {
	var missing []models.Wallet
	if !group.HasMember(split.Payer) {
		missing = append(missing, split.Payer)
	}
	for _, sh := range split.Shares {
		if !group.HasMember(sh.Owner) && sh.Owner != split.Payer {
			missing = append(missing, sh.Owner)
		}
	}
	if len(missing) == 0 {
		return
	}
	if err := s.store.AddGroupMembers(ctx, group.ID, missing); err != nil {
		slog.Error("autoAddParticipants: failed to add members", "group_id", group.ID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", group.ID, "new_members", missing)
}

// GetSplit retrieves a split by ID.
func (s *SplitService) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	return s.store.GetSplit(ctx, splitID)
}

// ListGroupSplits returns all splits recorded in a group.
func (s *SplitService) ListGroupSplits(ctx context.Context, groupID string) ([]*models.Split, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.FetchSplits(ctx, ledger.GroupScope(groupID))
}

// DeleteSplit removes a split and everything recorded against it.
func (s *SplitService) DeleteSplit(ctx context.Context, splitID string) error {
	if err := s.store.DeleteSplit(ctx, splitID); err != nil {
		slog.Error("DeleteSplit failed", "split_id", splitID, "error", err)
		return err
	}
	slog.Info("Split deleted", "split_id", splitID)
	return nil
}

// RecordPayment appends a payment from a wallet toward its share of a
// split. A payment exceeding the wallet's outstanding share is rejected;
// excess money is never silently credited elsewhere.
func (s *SplitService) RecordPayment(ctx context.Context, splitID string, payer string, amount money.Money) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	wallet := models.NormalizeWallet(payer)
	if wallet == "" {
		return nil, fmt.Errorf("%w: payer wallet required", ErrInvalidInput)
	}

	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}
	share := split.ShareOf(wallet)
	if share.IsZero() {
		return nil, fmt.Errorf("%w: wallet %s has no share in split %s", ErrInvalidInput, wallet, splitID)
	}

	payments, err := s.store.FetchPayments(ctx, []string{splitID})
	if err != nil {
		return nil, err
	}
	paid := money.Zero
	for _, p := range payments {
		if p.Payer == wallet {
			paid = paid.Add(p.Amount)
		}
	}
	outstanding := share.Sub(paid)
	if amount > outstanding {
		return nil, fmt.Errorf("%w: payment of %s exceeds outstanding share of %s", ErrInvalidInput, amount, outstanding)
	}

	payment := &models.Payment{SplitID: splitID, Payer: wallet, Amount: amount}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "split_id", splitID, "error", err)
		return nil, err
	}
	slog.Info("Payment recorded",
		"payment_id", payment.ID,
		"split_id", splitID,
		"payer", wallet,
		"amount", amount,
		"remaining", outstanding.Sub(amount),
	)
	return payment, nil
}
