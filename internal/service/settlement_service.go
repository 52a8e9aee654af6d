package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/settler/internal/ledger"
	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
	"github.com/mmynk/settler/internal/storage"
)

var settleDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "settler",
		Name:      "settlement_compute_seconds",
		Help:      "Time spent computing settlement plans.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"scope"},
)

// SettlementService answers "who owes whom, and what is the smallest set of
// transfers that settles everyone" for a group or a whole user graph. It
// composes the ledger pipeline over a store snapshot; nothing is persisted.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// MemberPosition is one member's net position in a group plan.
type MemberPosition struct {
	Wallet      string      `json:"wallet"`
	NetPosition money.Money `json:"netPosition"`
}

// GroupPlan is the settlement plan for one group: every member's net
// position and the minimal transfers that zero them.
type GroupPlan struct {
	GroupID      string               `json:"groupId"`
	Name         string               `json:"name"`
	Positions    []MemberPosition     `json:"netPositions"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// GroupSettlement computes the settlement plan for a single group.
func (s *SettlementService) GroupSettlement(ctx context.Context, groupID string) (*GroupPlan, error) {
	start := time.Now()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	scope := ledger.GroupScope(groupID)
	snap, err := ledger.Load(ctx, s.store, scope)
	if err != nil {
		return nil, err
	}
	balances, err := ledger.BuildBalances(snap)
	if err != nil {
		slog.Error("GroupSettlement validation failed", "group_id", groupID, "error", err)
		return nil, err
	}
	positions := ledger.Reduce(balances, snap.Participants())
	plan, err := ledger.Settle(positions, scope)
	if err != nil {
		slog.Error("GroupSettlement integrity failure", "group_id", groupID, "error", err)
		return nil, err
	}

	result := &GroupPlan{
		GroupID:      group.ID,
		Name:         group.Name,
		Positions:    []MemberPosition{},
		Transactions: plan,
	}
	if result.Transactions == nil {
		result.Transactions = []ledger.Transaction{}
	}
	for wallet, pos := range positions {
		result.Positions = append(result.Positions, MemberPosition{Wallet: wallet.String(), NetPosition: pos})
	}
	sort.Slice(result.Positions, func(i, j int) bool { return result.Positions[i].Wallet < result.Positions[j].Wallet })

	settleDuration.WithLabelValues("group").Observe(time.Since(start).Seconds())
	slog.Info("Group settlement computed",
		"group_id", groupID,
		"splits_count", len(snap.Splits),
		"transactions_count", len(plan),
	)
	return result, nil
}

// UserSummary computes a wallet's consolidated due summary across all its
// groups, including the globally optimal transaction list.
func (s *SettlementService) UserSummary(ctx context.Context, wallet string) (*ledger.Summary, error) {
	start := time.Now()

	summary, err := ledger.Summarize(ctx, s.store, models.NormalizeWallet(wallet))
	if err != nil {
		slog.Error("UserSummary failed", "wallet", wallet, "error", err)
		return nil, err
	}

	settleDuration.WithLabelValues("user").Observe(time.Since(start).Seconds())
	slog.Info("User summary computed",
		"wallet", summary.UserWallet,
		"groups_count", len(summary.PendingGroups),
		"net_balance", summary.NetBalance,
	)
	return summary, nil
}
