// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settler/internal/ledger"
	"github.com/mmynk/settler/internal/models"
)

// ErrNotFound is wrapped by store implementations when a record does not
// exist, so callers can test with errors.Is without knowing the backend.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations. It embeds the
// read-only ledger.Source the settlement engine consumes, plus the write
// side used by the services. This abstraction allows swapping storage
// backends (SQLite, PostgreSQL, etc.) without changing the service layer.
type Store interface {
	ledger.Source

	// CreateGroup persists a new group. The group.ID field is populated
	// by the store. The creator is always stored as a member.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, members included.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMembers adds wallets to a group, ignoring ones already present.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Wallet) error

	// CreateSplit persists a new split with its shares.
	// The split.ID field is populated by the store.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a split by ID, shares included.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// DeleteSplit removes a split and its shares and payments.
	DeleteSplit(ctx context.Context, splitID string) error

	// CreatePayment appends a payment record against a split.
	// The payment.ID field is populated by the store.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// Close releases any resources held by the store.
	Close() error
}
