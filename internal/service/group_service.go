package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group owned by the creator wallet. The creator is
// always a member, whether or not it appears in members.
func (s *GroupService) CreateGroup(ctx context.Context, name string, creator string, members []string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalidInput)
	}
	creatorWallet := models.NormalizeWallet(creator)
	if creatorWallet == "" {
		return nil, fmt.Errorf("%w: creator wallet required", ErrInvalidInput)
	}

	group := &models.Group{
		Name:    name,
		Creator: creatorWallet,
	}
	for _, m := range members {
		if w := models.NormalizeWallet(m); w != "" && !group.HasMember(w) {
			group.Members = append(group.Members, w)
		}
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// AddMembers adds wallets to an existing group.
func (s *GroupService) AddMembers(ctx context.Context, groupID string, members []string) (*models.Group, error) {
	wallets := make([]models.Wallet, 0, len(members))
	for _, m := range members {
		if w := models.NormalizeWallet(m); w != "" {
			wallets = append(wallets, w)
		}
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("%w: at least one wallet required", ErrInvalidInput)
	}

	// Existence check first so a missing group is reported as such.
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.store.AddGroupMembers(ctx, groupID, wallets); err != nil {
		slog.Error("AddMembers failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Members added", "group_id", groupID, "new_members", wallets)
	return s.store.GetGroup(ctx, groupID)
}

// ListGroupsForUser returns every group the wallet belongs to.
func (s *GroupService) ListGroupsForUser(ctx context.Context, wallet string) ([]*models.Group, error) {
	return s.store.FetchGroupsForUser(ctx, models.NormalizeWallet(wallet))
}
