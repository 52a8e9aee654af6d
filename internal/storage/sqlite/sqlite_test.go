package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/settler/internal/ledger"
	"github.com/mmynk/settler/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:    "Roommates",
		Creator: "0xaaa",
		Members: []models.Wallet{"0xbbb", "0xccc"},
	}
	require.NoError(t, store.CreateGroup(ctx, group))
	require.NotEmpty(t, group.ID)
	require.NotZero(t, group.CreatedAt)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, "Roommates", got.Name)
	require.Equal(t, models.Wallet("0xaaa"), got.Creator)
	// Creator is stored as a member even though it was not listed.
	require.Equal(t, []models.Wallet{"0xaaa", "0xbbb", "0xccc"}, got.Members)
}

func TestGetGroupNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetGroup(context.Background(), "missing")
	require.Error(t, err)
}

func TestAddGroupMembersIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Creator: "0xaaa"}
	require.NoError(t, store.CreateGroup(ctx, group))

	require.NoError(t, store.AddGroupMembers(ctx, group.ID, []models.Wallet{"0xbbb", "0xaaa"}))
	require.NoError(t, store.AddGroupMembers(ctx, group.ID, []models.Wallet{"0xbbb"}))

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, []models.Wallet{"0xaaa", "0xbbb"}, got.Members)
}

func TestSplitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Creator: "0xaaa", Members: []models.Wallet{"0xbbb"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	split := &models.Split{
		GroupID:     group.ID,
		Description: "Dinner",
		Payer:       "0xaaa",
		Total:       300,
		Shares: []models.Share{
			{Owner: "0xaaa", Amount: 150},
			{Owner: "0xbbb", Amount: 150},
		},
	}
	require.NoError(t, store.CreateSplit(ctx, split))
	require.NotEmpty(t, split.ID)

	got, err := store.GetSplit(ctx, split.ID)
	require.NoError(t, err)
	require.Equal(t, "Dinner", got.Description)
	require.Equal(t, models.Wallet("0xaaa"), got.Payer)
	require.EqualValues(t, 300, got.Total)
	require.Equal(t, split.Shares, got.Shares)
}

func TestFetchSplitsByScope(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g1 := &models.Group{Name: "Trip", Creator: "0xaaa", Members: []models.Wallet{"0xbbb"}}
	g2 := &models.Group{Name: "Lunch", Creator: "0xbbb", Members: []models.Wallet{"0xccc"}}
	require.NoError(t, store.CreateGroup(ctx, g1))
	require.NoError(t, store.CreateGroup(ctx, g2))

	mkSplit := func(groupID string, payer models.Wallet, other models.Wallet, createdAt int64) *models.Split {
		return &models.Split{
			GroupID:   groupID,
			Payer:     payer,
			Total:     100,
			CreatedAt: createdAt,
			Shares: []models.Share{
				{Owner: payer, Amount: 50},
				{Owner: other, Amount: 50},
			},
		}
	}
	require.NoError(t, store.CreateSplit(ctx, mkSplit(g1.ID, "0xaaa", "0xbbb", 100)))
	require.NoError(t, store.CreateSplit(ctx, mkSplit(g1.ID, "0xbbb", "0xaaa", 200)))
	require.NoError(t, store.CreateSplit(ctx, mkSplit(g2.ID, "0xbbb", "0xccc", 300)))

	groupSplits, err := store.FetchSplits(ctx, ledger.GroupScope(g1.ID))
	require.NoError(t, err)
	require.Len(t, groupSplits, 2)
	require.Equal(t, int64(100), groupSplits[0].CreatedAt)
	require.Equal(t, int64(200), groupSplits[1].CreatedAt)

	// 0xbbb is in both groups, 0xaaa only in the first, 0xccc only in the second.
	userSplits, err := store.FetchSplits(ctx, ledger.UserScope("0xbbb"))
	require.NoError(t, err)
	require.Len(t, userSplits, 3)

	userSplits, err = store.FetchSplits(ctx, ledger.UserScope("0xccc"))
	require.NoError(t, err)
	require.Len(t, userSplits, 1)
	require.Equal(t, g2.ID, userSplits[0].GroupID)
}

func TestPaymentsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Creator: "0xaaa", Members: []models.Wallet{"0xbbb"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	split := &models.Split{
		GroupID: group.ID,
		Payer:   "0xaaa",
		Total:   200,
		Shares: []models.Share{
			{Owner: "0xaaa", Amount: 100},
			{Owner: "0xbbb", Amount: 100},
		},
	}
	require.NoError(t, store.CreateSplit(ctx, split))

	p1 := &models.Payment{SplitID: split.ID, Payer: "0xbbb", Amount: 60, CreatedAt: 10}
	p2 := &models.Payment{SplitID: split.ID, Payer: "0xbbb", Amount: 40, CreatedAt: 20}
	require.NoError(t, store.CreatePayment(ctx, p1))
	require.NoError(t, store.CreatePayment(ctx, p2))

	payments, err := store.FetchPayments(ctx, []string{split.ID})
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.EqualValues(t, 60, payments[0].Amount)
	require.EqualValues(t, 40, payments[1].Amount)

	payments, err = store.FetchPayments(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, payments)
}

func TestDeleteSplitCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Creator: "0xaaa", Members: []models.Wallet{"0xbbb"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	split := &models.Split{
		GroupID: group.ID,
		Payer:   "0xaaa",
		Total:   100,
		Shares: []models.Share{
			{Owner: "0xaaa", Amount: 50},
			{Owner: "0xbbb", Amount: 50},
		},
	}
	require.NoError(t, store.CreateSplit(ctx, split))
	require.NoError(t, store.CreatePayment(ctx, &models.Payment{SplitID: split.ID, Payer: "0xbbb", Amount: 10}))

	require.NoError(t, store.DeleteSplit(ctx, split.ID))

	_, err := store.GetSplit(ctx, split.ID)
	require.Error(t, err)

	payments, err := store.FetchPayments(ctx, []string{split.ID})
	require.NoError(t, err)
	require.Empty(t, payments)

	require.Error(t, store.DeleteSplit(ctx, split.ID))
}

func TestFetchGroupsForUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g1 := &models.Group{Name: "Trip", Creator: "0xaaa", Members: []models.Wallet{"0xbbb"}}
	g2 := &models.Group{Name: "Lunch", Creator: "0xbbb"}
	require.NoError(t, store.CreateGroup(ctx, g1))
	require.NoError(t, store.CreateGroup(ctx, g2))

	groups, err := store.FetchGroupsForUser(ctx, "0xbbb")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	groups, err = store.FetchGroupsForUser(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "Trip", groups[0].Name)

	groups, err = store.FetchGroupsForUser(ctx, "0xzzz")
	require.NoError(t, err)
	require.Empty(t, groups)
}
