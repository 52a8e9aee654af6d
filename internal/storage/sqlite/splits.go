package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settler/internal/ledger"
	"github.com/mmynk/settler/internal/models"
	"github.com/mmynk/settler/internal/money"
	"github.com/mmynk/settler/internal/storage"
)

// CreateSplit persists a new split with its shares.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO splits (id, group_id, description, payer, total, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		split.ID, split.GroupID, split.Description, split.Payer, int64(split.Total), split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for _, share := range split.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO shares (split_id, wallet, amount) VALUES (?, ?, ?)",
			split.ID, share.Owner, int64(share.Amount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplit retrieves a split by ID, including its shares.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split := &models.Split{}
	var payer string
	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, description, payer, total, created_at FROM splits WHERE id = ?",
		splitID,
	).Scan(&split.ID, &split.GroupID, &split.Description, &payer, &total, &split.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	split.Payer = models.Wallet(payer)
	split.Total = money.Money(total)

	if err := s.loadShares(ctx, []*models.Split{split}); err != nil {
		return nil, err
	}
	return split, nil
}

// DeleteSplit removes a split; shares and payments cascade.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM splits WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	return nil
}

// FetchSplits returns all splits in scope: the splits of one group, or the
// splits of every group the wallet belongs to. Ordering is by created_at
// then ID so repeated reads of the same data come back identical.
func (s *SQLiteStore) FetchSplits(ctx context.Context, scope ledger.Scope) ([]*models.Split, error) {
	var rows *sql.Rows
	var err error
	if groupID, ok := scope.GroupID(); ok {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, group_id, description, payer, total, created_at
			 FROM splits WHERE group_id = ? ORDER BY created_at, id`,
			groupID,
		)
	} else {
		wallet, _ := scope.Wallet()
		rows, err = s.db.QueryContext(ctx,
			`SELECT sp.id, sp.group_id, sp.description, sp.payer, sp.total, sp.created_at
			 FROM splits sp JOIN group_members m ON m.group_id = sp.group_id
			 WHERE m.wallet = ? ORDER BY sp.created_at, sp.id`,
			wallet,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for %s: %w", scope, err)
	}
	defer rows.Close()

	var splits []*models.Split
	for rows.Next() {
		split := &models.Split{}
		var payer string
		var total int64
		if err := rows.Scan(&split.ID, &split.GroupID, &split.Description, &payer, &total, &split.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Payer = models.Wallet(payer)
		split.Total = money.Money(total)
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	if err := s.loadShares(ctx, splits); err != nil {
		return nil, err
	}
	return splits, nil
}

// loadShares populates Shares for each split, ordered by wallet.
func (s *SQLiteStore) loadShares(ctx context.Context, splits []*models.Split) error {
	if len(splits) == 0 {
		return nil
	}
	bySplit := make(map[string]*models.Split, len(splits))
	args := make([]any, len(splits))
	for i, split := range splits {
		bySplit[split.ID] = split
		args[i] = split.ID
	}

	query := fmt.Sprintf(
		"SELECT split_id, wallet, amount FROM shares WHERE split_id IN (%s) ORDER BY split_id, wallet",
		placeholders(len(splits)),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var splitID, wallet string
		var amount int64
		if err := rows.Scan(&splitID, &wallet, &amount); err != nil {
			return fmt.Errorf("failed to scan share: %w", err)
		}
		split := bySplit[splitID]
		split.Shares = append(split.Shares, models.Share{
			Owner:  models.Wallet(wallet),
			Amount: money.Money(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}
	return nil
}
